package multipart

import (
	"bufio"
	"io"

	"github.com/cespare/xxhash/v2"

	"github.com/streamform/multipart/internal/scanner"
)

// partReader is the Halving Splitter (spec §4.2, component C2) specialized
// to the InPart state: it reads from the shared bufio.Reader until the
// INTER delimiter is found, returning every byte before it and leaving the
// cursor positioned just past the delimiter. It never buffers more than one
// peekChunk plus a small (< len(delim)) carry in memory at a time, so an
// arbitrarily large part body never has to be materialized in full.
type partReader struct {
	br        *bufio.Reader
	delim     []byte
	partIndex int

	carry   []byte // withheld delim-prefix bytes, already consumed from br
	pending []byte // safe bytes produced by the last scan step not yet returned

	done bool
	hash *xxhash.Digest
	n    int64
}

func (p *partReader) sum() uint64 {
	if p.hash == nil {
		return 0
	}
	return p.hash.Sum64()
}

func (p *partReader) bytesRead() int64 { return p.n }

// Read implements io.Reader. Each call either drains pending bytes from the
// previous scan step or pulls and classifies one more chunk from br.
func (p *partReader) Read(buf []byte) (int, error) {
	if p.hash == nil {
		p.hash = xxhash.New()
	}

	if len(p.pending) > 0 {
		return p.drain(buf)
	}
	if p.done {
		return 0, io.EOF
	}

	for {
		chunk, peekErr := p.br.Peek(peekChunk)
		if len(chunk) == 0 && peekErr != nil {
			return 0, newParseError(UnterminatedPart, p.partIndex)
		}

		combined := append(append([]byte(nil), p.carry...), chunk...)
		end, tailK := scanner.Classify(p.delim, combined)

		if end >= 0 {
			consumed := end - len(p.carry)
			if _, err := p.br.Discard(consumed); err != nil {
				return 0, err
			}
			p.carry = nil
			p.done = true
			p.pending = combined[:end-len(p.delim)]
			if len(p.pending) == 0 {
				return 0, io.EOF
			}
			return p.drain(buf)
		}

		if _, err := p.br.Discard(len(chunk)); err != nil {
			return 0, err
		}
		safeLen := len(combined) - tailK
		p.carry = append([]byte(nil), combined[safeLen:]...)

		if safeLen > 0 {
			p.pending = combined[:safeLen]
			return p.drain(buf)
		}

		if peekErr != nil {
			// Exhausted the stream with an unresolved partial match: the
			// delimiter never completed.
			return 0, newParseError(UnterminatedPart, p.partIndex)
		}
		// Nothing safe to emit yet (the whole chunk was consumed into
		// carry); pull more input and try again.
	}
}

func (p *partReader) drain(buf []byte) (int, error) {
	n := copy(buf, p.pending)
	p.pending = p.pending[n:]
	p.hash.Write(buf[:n])
	p.n += int64(n)
	return n, nil
}
