package multipart

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// spillFile is the "Spill file handle" collaborator from spec §6: a small
// wrapper around a single on-disk temporary file used to hold the portion of
// a part body that exceeded the in-memory threshold. It guarantees the
// backing file is deleted at most once (spec invariant I4).
type spillFile struct {
	f       *os.File
	deleted bool
}

// createSpillFile opens a new, uniquely named temporary file under dir (the
// OS default temp directory if dir is empty).
func createSpillFile(dir string) (*spillFile, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	name := filepath.Join(dir, "multipart-spill-"+uuid.NewString())
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, errors.Wrap(err, "multipart: create spill file")
	}
	return &spillFile{f: f}, nil
}

// writeAll appends p to the file.
func (s *spillFile) writeAll(p []byte) (int, error) {
	n, err := s.f.Write(p)
	if err != nil {
		return n, errors.Wrap(err, "multipart: write spill file")
	}
	return n, nil
}

// readAll rewinds the file and returns a reader positioned at its start, for
// replaying the spilled content as part of a Part's Body.
func (s *spillFile) readAll() (*os.File, error) {
	if _, err := s.f.Seek(0, os.SEEK_SET); err != nil {
		return nil, errors.Wrap(err, "multipart: rewind spill file")
	}
	return s.f, nil
}

// delete closes and removes the backing file. It is safe to call more than
// once; only the first call has any effect.
func (s *spillFile) delete() error {
	if s.deleted {
		return nil
	}
	s.deleted = true
	closeErr := s.f.Close()
	removeErr := os.Remove(s.f.Name())
	if closeErr != nil {
		return errors.Wrap(closeErr, "multipart: close spill file")
	}
	if removeErr != nil {
		return errors.Wrap(removeErr, "multipart: remove spill file")
	}
	return nil
}
