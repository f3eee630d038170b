package multipart

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a parse failure. All kinds represent a malformed message
// body; none are recoverable by the Reader itself (spec §7).
type Kind int

const (
	// EmptyStream is returned when the input ends before any byte is read.
	EmptyStream Kind = iota

	// MalformedStart is returned when the input ends while still searching
	// for the opening boundary.
	MalformedStart

	// HeaderTooLarge is returned when a header block scan exceeds the
	// configured header limit before the header/body split is found.
	HeaderTooLarge

	// PartialBoundary is returned when the input ends mid-delimiter while
	// searching for a header block or the terminal boundary.
	PartialBoundary

	// UnterminatedPart is returned when a part body runs to end-of-stream
	// without a closing delimiter.
	UnterminatedPart

	// PartsLimitExceeded is returned by the spill driver when the part
	// count ceiling is exceeded and failOnLimit is enabled.
	PartsLimitExceeded
)

func (k Kind) String() string {
	switch k {
	case EmptyStream:
		return "empty stream"
	case MalformedStart:
		return "malformed start boundary"
	case HeaderTooLarge:
		return "header too large"
	case PartialBoundary:
		return "partial boundary at end of stream"
	case UnterminatedPart:
		return "unterminated part"
	case PartsLimitExceeded:
		return "parts limit exceeded"
	default:
		return "unknown"
	}
}

// ParseError reports a malformed multipart message. Callers that need to
// distinguish error kinds should use errors.As and inspect Kind, rather than
// comparing against a sentinel value, since a ParseError carries positional
// context (which part) that a bare sentinel would lose. It does not record
// a byte offset.
type ParseError struct {
	Kind Kind

	// Part is the 1-indexed part number being parsed when the error
	// occurred, or 0 if the error occurred before the first part (e.g.
	// while still scanning the prelude).
	Part int

	cause error
}

func (e *ParseError) Error() string {
	if e.Part > 0 {
		return fmt.Sprintf("multipart: part %d: %s", e.Part, e.Kind)
	}
	return fmt.Sprintf("multipart: %s", e.Kind)
}

func (e *ParseError) Unwrap() error { return e.cause }

// newParseError is the only constructor for ParseError so that a Kind value
// always stays attached to the part-number context that produced it.
func newParseError(kind Kind, part int) error {
	return errors.WithStack(&ParseError{Kind: kind, Part: part})
}

// IsKind reports whether err is a ParseError of the given Kind, unwrapping
// as needed.
func IsKind(err error, kind Kind) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}
