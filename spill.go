package multipart

import (
	"bytes"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SpillReader is the Spill Driver (spec §4.6, component C6). It wraps a
// Reader and, for each part, eagerly drains the body: up to maxBeforeWrite
// bytes stay in memory, and any remainder is written to a temporary file
// grounded on the "buffer then spill" pattern common to HTTP multipart-form
// readers. The Part it returns exposes that content again as a lazy
// io.Reader, so a caller sees the same Body contract as Reader regardless of
// whether a given part spilled.
type SpillReader struct {
	inner *Reader
	cfg   *config

	count int
	spills []*spillFile
}

// NewSpillReader constructs a SpillReader over r using the given boundary.
func NewSpillReader(r io.Reader, boundary string, opts ...Option) (*SpillReader, error) {
	inner, err := NewReader(r, boundary, opts...)
	if err != nil {
		return nil, err
	}
	return &SpillReader{inner: inner, cfg: inner.cfg}, nil
}

// NextPart returns the next part, with its body fully drained into memory
// and, if it exceeds the configured threshold, partly spilled to disk. It
// returns io.EOF once the terminal boundary is reached or, if the part-count
// ceiling is reached without FailOnPartsLimit, once that ceiling is hit.
func (s *SpillReader) NextPart() (*Part, error) {
	if s.cfg.maxParts > 0 && s.count >= s.cfg.maxParts {
		if s.cfg.failOnLimit {
			return nil, newParseError(PartsLimitExceeded, s.count+1)
		}
		return nil, io.EOF
	}

	p, err := s.inner.NextPart()
	if err != nil {
		return nil, err
	}
	s.count++

	body, err := s.drain(p)
	if err != nil {
		return nil, err
	}
	p.body = body
	return p, nil
}

// drain reads src's body to completion, spilling to a temporary file past
// cfg.maxBeforeWrite bytes, and returns a bodyReader replaying the result.
func (s *SpillReader) drain(p *Part) (bodyReader, error) {
	src := p.Body()
	hash := xxhash.New()

	var buf bytes.Buffer
	limit := s.cfg.maxBeforeWrite
	n, err := io.CopyN(io.MultiWriter(&buf, hash), src, limit+1)
	if err != nil && err != io.EOF {
		return nil, err
	}

	if n <= limit {
		return &spilledBody{
			r:      bytes.NewReader(buf.Bytes()),
			digest: hash.Sum64(),
			length: n,
		}, nil
	}

	kept := append([]byte(nil), buf.Bytes()[:limit]...)
	overflow := buf.Bytes()[limit:]

	file, err := createSpillFile("")
	if err != nil {
		return nil, err
	}
	s.spills = append(s.spills, file)

	if _, err := file.writeAll(overflow); err != nil {
		return nil, s.abandonSpill(file, err)
	}
	copied, err := io.Copy(io.MultiWriter(file.f, hash), src)
	if err != nil {
		return nil, s.abandonSpill(file, err)
	}

	s.cfg.logger.Debug("spilled part body to disk",
		zap.Int("part", p.Index),
		zap.Int64("bytes", int64(len(overflow))+copied),
	)
	s.cfg.metrics.observeSpill(int64(len(overflow)) + copied)

	replay, err := file.readAll()
	if err != nil {
		return nil, s.abandonSpill(file, err)
	}

	return &spilledBody{
		r:      io.MultiReader(bytes.NewReader(kept), replay),
		file:   file,
		digest: hash.Sum64(),
		length: limit + int64(len(overflow)) + copied,
		onCleanupErr: func(cerr error) {
			s.cfg.logger.Warn("failed to remove spill file", zap.Error(cerr))
			s.cfg.metrics.observeCleanupFailure()
		},
	}, nil
}

// abandonSpill deletes file immediately and drops it from s.spills, since
// the error in cause means no Part will ever be emitted to own its cleanup
// (spec §4.6 step 6: a spill file must not outlive the attempt that created
// it). A deletion failure is logged, not propagated — cause is always the
// error returned to the caller.
func (s *SpillReader) abandonSpill(file *spillFile, cause error) error {
	for i, f := range s.spills {
		if f == file {
			s.spills = append(s.spills[:i], s.spills[i+1:]...)
			break
		}
	}
	if derr := file.delete(); derr != nil {
		s.cfg.logger.Warn("failed to remove abandoned spill file", zap.Error(derr))
		s.cfg.metrics.observeCleanupFailure()
	}
	return cause
}

// Close deletes any spill files not already cleaned up by their Part's
// Body being read to completion (spec invariant I4: every spill file is
// deleted exactly once, whether or not the caller consumed it).
func (s *SpillReader) Close() error {
	var result error
	for _, f := range s.spills {
		if err := f.delete(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return errors.WithStack(result)
}

// spilledBody is the bodyReader returned by SpillReader. Unlike partReader,
// its checksum and length are already final at construction time, since the
// whole body was drained up front.
type spilledBody struct {
	r      io.Reader
	file   *spillFile
	digest uint64
	length int64

	closed       bool
	onCleanupErr func(error)
}

func (b *spilledBody) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err == io.EOF && b.file != nil && !b.closed {
		b.closed = true
		if derr := b.file.delete(); derr != nil && b.onCleanupErr != nil {
			b.onCleanupErr(derr)
		}
	}
	return n, err
}

func (b *spilledBody) sum() uint64       { return b.digest }
func (b *spilledBody) bytesRead() int64  { return b.length }
