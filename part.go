package multipart

import (
	"io"
)

// Part is one (header, body) entity inside a multipart message. Body is a
// lazy, single-consumption byte stream: reading it advances the Reader (or
// SpillReader) that produced this Part past its content, and it must not be
// read concurrently with any other Part produced by the same source.
type Part struct {
	Header *Header

	// Index is the 1-indexed position of this part within the message.
	Index int

	body bodyReader
}

// bodyReader is satisfied by both the in-memory streaming body (C5) and the
// spilled-to-disk body (C6); Part.Body only needs read access.
type bodyReader interface {
	io.Reader
	sum() uint64
	bytesRead() int64
}

// Body returns the part's content as an io.Reader. It may only be read
// once; reading it to completion (or abandoning it) lets the source produce
// the next Part.
func (p *Part) Body() io.Reader { return p.body }

// Checksum returns the xxhash of the part's body. For a Part from a Reader
// it covers the body bytes produced so far, so it is the hash of the
// complete part content only once the body has been fully read; a Part
// from a SpillReader reports the hash of the complete body from the start,
// since that body was drained before the Part was returned. It is useful
// for confirming that a body spilled to and re-read from a temporary file
// is byte-identical to what was written.
func (p *Part) Checksum() uint64 { return p.body.sum() }

// ContentLength returns the number of body bytes. Like Checksum, for a Part
// from a Reader it counts the bytes produced so far and is only a complete
// count once Body has been read to EOF; a Part from a SpillReader reports
// the complete length from the start.
func (p *Part) ContentLength() int64 { return p.body.bytesRead() }

// Multipart is the result of collecting every Part from a PartSource into a
// single container (spec §4.5's "parse" operation). Part skeletons
// (headers) are all buffered; bodies remain lazy unless spilled, and since
// every Part shares one underlying cursor, the Parts must still be read in
// order.
type Multipart struct {
	Boundary string
	Parts    []*Part
}

// PartSource is implemented by both Reader and SpillReader.
type PartSource interface {
	NextPart() (*Part, error)
}

// Collect drains src, returning every emitted Part packaged as a Multipart.
// It stops at the first io.EOF and returns any other error immediately.
func Collect(boundary string, src PartSource) (*Multipart, error) {
	mp := &Multipart{Boundary: boundary}
	for {
		p, err := src.NextPart()
		if err == io.EOF {
			return mp, nil
		}
		if err != nil {
			return nil, err
		}
		mp.Parts = append(mp.Parts, p)
	}
}
