// Package multipart is a streaming reader for MIME multipart/form-data
// bodies (RFC 2046). It is built around a single idea: locating a boundary
// delimiter in an arbitrarily chunked byte stream without ever buffering a
// part's body in full.
//
// Parsing proceeds in two or three phases. A Reader skips the prelude (any
// bytes before the first boundary), then repeatedly decodes a part's header
// block and hands back a Part whose Body is a lazy io.Reader positioned at
// the start of that part's content. Reading Body forward advances the
// Reader past that content; abandoning a Body before reading it to EOF
// causes the Reader to discard its remaining bytes on the next call to
// NextPart, since every Part shares the same underlying cursor over the
// input.
//
// For large uploads, a SpillReader wraps a Reader and transparently
// redirects any part body larger than a configured threshold to a temporary
// file, deleting that file once the body has been fully read or the parse
// fails. This is the only part of the package that touches the filesystem.
//
// Header semantics (e.g. interpreting Content-Disposition) and assembling
// parsed parts into a higher-level message object are left to the caller;
// this package only splits the stream into (headers, body) pairs.
package multipart
