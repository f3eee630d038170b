package multipart

import (
	"bufio"
	"io"

	"github.com/streamform/multipart/internal/scanner"
)

// peekChunk is how many bytes the Reader asks its bufio.Reader to look
// ahead by on each scan step. It is unrelated to the chunk sizes the
// caller's io.Reader happens to hand in; the underlying bufio.Reader
// absorbs that difference.
const peekChunk = 4096

// state names the driver's position in the grammar (spec §4.5).
type state int

const (
	statePrelude state = iota
	stateBetween
	stateDone
)

// Reader is the in-memory Part Stream Driver (spec §4.5, component C5). It
// skips the prelude, then repeatedly decodes a header block and hands back
// a Part whose Body is a lazy view over the shared input cursor.
type Reader struct {
	br       *bufio.Reader
	boundary *Boundary
	cfg      *config

	state     state
	partCount int
	current   *partReader
}

// NewReader constructs a Reader over r using the given boundary parameter.
func NewReader(r io.Reader, boundary string, opts ...Option) (*Reader, error) {
	b, err := NewBoundary(boundary)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Reader{
		br:       bufio.NewReaderSize(r, peekChunk),
		boundary: b,
		cfg:      cfg,
	}, nil
}

// NextPart advances to, and returns, the next Part in the message. It
// returns io.EOF once the terminal boundary has been consumed.
//
// If the previously returned Part's Body was not read to completion, its
// remaining bytes are discarded here before the next part is located (spec
// §5 "Ordering").
func (r *Reader) NextPart() (*Part, error) {
	if r.current != nil {
		if !r.current.done {
			if _, err := io.Copy(io.Discard, r.current); err != nil {
				return nil, err
			}
		}
		r.current = nil
	}

	if r.state == stateDone {
		return nil, io.EOF
	}

	if r.state == statePrelude {
		if err := r.skipPrelude(); err != nil {
			return nil, err
		}
		r.state = stateBetween
	}

	terminal, hdrBytes, err := r.nextHeaderOrTerminal()
	if err != nil {
		return nil, err
	}
	if terminal {
		r.state = stateDone
		return nil, io.EOF
	}

	hdr, err := decodeHeaderBlock(hdrBytes)
	if err != nil {
		return nil, err
	}

	r.partCount++
	body := &partReader{br: r.br, delim: r.boundary.inter, partIndex: r.partCount}
	r.current = body

	r.cfg.metrics.observePart()

	return &Part{Header: hdr, Index: r.partCount, body: body}, nil
}

// skipPrelude discards bytes up to and including the opening boundary
// (spec §4.5 state Prelude). Unlike the header/terminal scan, it tracks no
// byte limit — the prelude has none in spec §6 — but does distinguish a
// wholly empty input from one that contains some bytes but never completes
// the start boundary.
func (r *Reader) skipPrelude() error {
	delim := r.boundary.start
	var carry []byte
	sawAnyByte := false

	for {
		chunk, peekErr := r.br.Peek(peekChunk)
		if len(chunk) == 0 {
			if !sawAnyByte {
				return newParseError(EmptyStream, 0)
			}
			return newParseError(MalformedStart, 0)
		}
		sawAnyByte = true

		combined := append(append([]byte(nil), carry...), chunk...)
		end, tailK := scanner.Classify(delim, combined)
		if end >= 0 {
			consumed := end - len(carry)
			if _, err := r.br.Discard(consumed); err != nil {
				return err
			}
			return nil
		}

		if _, err := r.br.Discard(len(chunk)); err != nil {
			return err
		}
		carry = append([]byte(nil), combined[len(combined)-tailK:]...)

		if peekErr != nil {
			return newParseError(MalformedStart, 0)
		}
	}
}

// nextHeaderOrTerminal implements the BetweenParts transition (spec §4.5),
// which is exactly the Limited Splitter (C3): peek for the terminal "--"
// first, then scan for HDR_END bounded by the configured header limit.
func (r *Reader) nextHeaderOrTerminal() (terminal bool, hdr []byte, err error) {
	// Errors here belong to the part whose header is being sought, which is
	// the one after the last part emitted.
	partIndex := r.partCount + 1
	lookahead, peekErr := r.br.Peek(2)
	if len(lookahead) >= 2 && lookahead[0] == '-' && lookahead[1] == '-' {
		if _, err := io.Copy(io.Discard, r.br); err != nil {
			return false, nil, err
		}
		return true, nil, nil
	}
	if len(lookahead) < 2 && peekErr != nil {
		return false, nil, newParseError(PartialBoundary, partIndex)
	}

	delim := r.boundary.hdrEnd
	var carry []byte
	counted := 0

	for {
		chunk, chunkErr := r.br.Peek(peekChunk)
		if len(chunk) == 0 && chunkErr != nil {
			return false, nil, newParseError(PartialBoundary, partIndex)
		}

		combined := append(append([]byte(nil), carry...), chunk...)
		end, tailK := scanner.Classify(delim, combined)
		if end >= 0 {
			hdrLen := end - len(delim)
			if r.cfg.headerLimit > 0 && counted+hdrLen >= r.cfg.headerLimit {
				return false, nil, newParseError(HeaderTooLarge, partIndex)
			}
			hdrBytes := combined[:hdrLen]
			consumed := end - len(carry)
			if _, err := r.br.Discard(consumed); err != nil {
				return false, nil, err
			}
			return false, hdrBytes, nil
		}

		if _, err := r.br.Discard(len(chunk)); err != nil {
			return false, nil, err
		}
		counted += len(chunk)
		if r.cfg.headerLimit > 0 && counted >= r.cfg.headerLimit {
			return false, nil, newParseError(HeaderTooLarge, partIndex)
		}
		carry = append([]byte(nil), combined[len(combined)-tailK:]...)

		if chunkErr != nil {
			return false, nil, newParseError(PartialBoundary, partIndex)
		}
	}
}
