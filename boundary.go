package multipart

import "github.com/pkg/errors"

// maxBoundaryLen is RFC 2046's cap on the boundary parameter: 70 characters,
// not counting the leading "--".
const maxBoundaryLen = 70

// ErrInvalidBoundary is returned by NewBoundary when the caller-supplied
// boundary string is empty or longer than RFC 2046 permits.
var ErrInvalidBoundary = errors.New("multipart: invalid boundary")

// Boundary holds the three delimiters derived from a single caller-supplied
// boundary parameter, per spec §3:
//
//   - start opens the first part: "--" + B
//   - inter separates parts:      CRLF + "--" + B
//   - hdrEnd ends a header block: CRLF + CRLF
type Boundary struct {
	raw    string
	start  []byte
	inter  []byte
	hdrEnd []byte
}

// NewBoundary validates the given boundary parameter and pre-computes its
// derived delimiters. It fails with ErrInvalidBoundary rather than letting a
// bad boundary surface later as a confusing scan failure.
func NewBoundary(b string) (*Boundary, error) {
	if b == "" || len(b) > maxBoundaryLen {
		return nil, errors.Wrapf(ErrInvalidBoundary, "boundary length %d", len(b))
	}

	return &Boundary{
		raw:    b,
		start:  append([]byte("--"), b...),
		inter:  append([]byte("\r\n--"), b...),
		hdrEnd: []byte("\r\n\r\n"),
	}, nil
}

// String returns the boundary parameter as originally supplied.
func (b *Boundary) String() string { return b.raw }
