package multipart

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// Field is a single (name, value) pair from a part's header block. Names
// are matched case-insensitively by Header's lookup methods but stored
// exactly as they appeared on the wire.
type Field struct {
	Name  string
	Value string
}

// Header is the ordered sequence of fields belonging to one Part. Order and
// duplicate names are preserved; nothing here interprets field values (no
// Content-Disposition parsing, no media-type parameters) — that is left to
// the caller, per the package doc.
type Header struct {
	fields []Field
}

// Get returns the value of the first field named name (case-insensitive),
// and false if no such field is present.
func (h *Header) Get(name string) (string, bool) {
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// Values returns the values of every field named name, in order, or nil if
// none are present.
func (h *Header) Values(name string) []string {
	var vs []string
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			vs = append(vs, f.Value)
		}
	}
	return vs
}

// Fields returns every field in the header, in the order they appeared.
func (h *Header) Fields() []Field {
	fs := make([]Field, len(h.fields))
	copy(fs, h.fields)
	return fs
}

// Len returns the number of fields in the header.
func (h *Header) Len() int { return len(h.fields) }

// decodeHeaderBlock implements the Header Block Decoder (spec §4.4). hdr is
// a byte sequence known to be delimited by, but not containing, the
// CRLFCRLF header/body split. Lines are UTF-8 decoded and split at the
// first colon into a name/value pair; the value has leading and trailing
// whitespace trimmed. Lines with no colon are silently dropped (an open
// question in spec §9 — kept as-is rather than introducing a strict mode
// that nothing here currently calls for).
func decodeHeaderBlock(hdr []byte) (*Header, error) {
	if len(hdr) == 0 {
		return &Header{}, nil
	}

	h := &Header{fields: make([]Field, 0, 8)}
	for _, line := range bytes.Split(hdr, []byte("\n")) {
		line = bytes.TrimSuffix(line, []byte("\r"))
		if len(line) == 0 {
			continue
		}

		if !utf8.Valid(line) {
			line = bytes.ToValidUTF8(line, []byte(string(utf8.RuneError)))
		}

		idx := bytes.IndexByte(line, ':')
		if idx < 0 {
			continue
		}

		name := string(line[:idx])
		value := strings.TrimSpace(string(line[idx+1:]))
		h.fields = append(h.fields, Field{Name: name, Value: value})
	}

	return h, nil
}
