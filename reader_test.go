package multipart_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamform/multipart"
)

const testBoundary = "X-BOUNDARY"

func buildMessage(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString("--")
		b.WriteString(testBoundary)
		b.WriteString("\r\n")
		b.WriteString(p)
	}
	b.WriteString("--")
	b.WriteString(testBoundary)
	b.WriteString("--\r\n")
	return b.String()
}

// chunkReader hands back at most n bytes per Read call, regardless of how
// large the caller's buffer is, so tests can exercise boundary-straddling
// behavior deterministically.
type chunkReader struct {
	data []byte
	n    int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.data) == 0 {
		return 0, io.EOF
	}
	n := c.n
	if n > len(p) {
		n = len(p)
	}
	if n > len(c.data) {
		n = len(c.data)
	}
	copy(p, c.data[:n])
	c.data = c.data[n:]
	return n, nil
}

func TestReader_TwoParts(t *testing.T) {
	t.Parallel()

	msg := buildMessage(
		"Content-Type: text/plain\r\n\r\nhello\r\n",
		"Content-Type: text/plain\r\n\r\nworld\r\n",
	)
	r, err := multipart.NewReader(strings.NewReader(msg), testBoundary)
	require.NoError(t, err)

	p1, err := r.NextPart()
	require.NoError(t, err)
	b1, err := io.ReadAll(p1.Body())
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b1))

	v, ok := p1.Header.Get("Content-Type")
	assert.True(t, ok)
	assert.Equal(t, "text/plain", v)

	p2, err := r.NextPart()
	require.NoError(t, err)
	b2, err := io.ReadAll(p2.Body())
	require.NoError(t, err)
	assert.Equal(t, "world", string(b2))

	_, err = r.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReader_PrologueAndEpilogueIgnored(t *testing.T) {
	t.Parallel()

	msg := "this is prologue junk\r\n" +
		buildMessage("Content-Type: text/plain\r\n\r\nbody\r\n") +
		"this is epilogue junk"
	r, err := multipart.NewReader(strings.NewReader(msg), testBoundary)
	require.NoError(t, err)

	p, err := r.NextPart()
	require.NoError(t, err)
	body, err := io.ReadAll(p.Body())
	require.NoError(t, err)
	assert.Equal(t, "body", string(body))

	_, err = r.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReader_UnreadBodyDiscardedBeforeNextPart(t *testing.T) {
	t.Parallel()

	msg := buildMessage(
		"\r\nfirst-body-not-fully-read\r\n",
		"\r\nsecond-body\r\n",
	)
	r, err := multipart.NewReader(strings.NewReader(msg), testBoundary)
	require.NoError(t, err)

	_, err = r.NextPart()
	require.NoError(t, err)
	// deliberately do not read p1's body

	p2, err := r.NextPart()
	require.NoError(t, err)
	body, err := io.ReadAll(p2.Body())
	require.NoError(t, err)
	assert.Equal(t, "second-body", string(body))
}

func TestReader_UnterminatedPart(t *testing.T) {
	t.Parallel()

	msg := "--" + testBoundary + "\r\nContent-Type: text/plain\r\n\r\nbody never ends"
	r, err := multipart.NewReader(strings.NewReader(msg), testBoundary)
	require.NoError(t, err)

	p, err := r.NextPart()
	require.NoError(t, err)

	_, err = io.ReadAll(p.Body())
	require.Error(t, err)
	assert.True(t, multipart.IsKind(err, multipart.UnterminatedPart))
}

func TestReader_HeaderTooLarge(t *testing.T) {
	t.Parallel()

	huge := strings.Repeat("X-Pad: "+strings.Repeat("a", 100)+"\r\n", 50)
	msg := "--" + testBoundary + "\r\n" + huge + "\r\nbody\r\n--" + testBoundary + "--\r\n"
	r, err := multipart.NewReader(strings.NewReader(msg), testBoundary, multipart.WithHeaderLimit(64))
	require.NoError(t, err)

	_, err = r.NextPart()
	require.Error(t, err)
	assert.True(t, multipart.IsKind(err, multipart.HeaderTooLarge))
}

// TestReader_HeaderTooLarge_WithinFirstPeek covers spec scenario S4: a
// header block larger than headerLimit but small enough that HDR_END is
// found inside the very first Peek(peekChunk) call, so the limit must be
// enforced on the match path, not only on the discard-and-keep-scanning
// path that handles headers spanning multiple peeks.
func TestReader_HeaderTooLarge_WithinFirstPeek(t *testing.T) {
	t.Parallel()

	header := strings.Repeat("X-Pad: "+strings.Repeat("a", 30)+"\r\n", 50) // ~2000 bytes
	msg := "--" + testBoundary + "\r\n" + header + "\r\nbody\r\n--" + testBoundary + "--\r\n"
	require.Less(t, len(msg), 4096)

	r, err := multipart.NewReader(strings.NewReader(msg), testBoundary, multipart.WithHeaderLimit(1024))
	require.NoError(t, err)

	_, err = r.NextPart()
	require.Error(t, err)
	assert.True(t, multipart.IsKind(err, multipart.HeaderTooLarge))
}

func TestReader_EmptyStream(t *testing.T) {
	t.Parallel()

	r, err := multipart.NewReader(strings.NewReader(""), testBoundary)
	require.NoError(t, err)

	_, err = r.NextPart()
	require.Error(t, err)
	assert.True(t, multipart.IsKind(err, multipart.EmptyStream))
}

func TestReader_MalformedStart(t *testing.T) {
	t.Parallel()

	r, err := multipart.NewReader(strings.NewReader("not a multipart message at all"), testBoundary)
	require.NoError(t, err)

	_, err = r.NextPart()
	require.Error(t, err)
	assert.True(t, multipart.IsKind(err, multipart.MalformedStart))
}

// TestReader_ChunkingInvariance checks that parsing the same message yields
// the same parts regardless of how the underlying io.Reader happens to
// fragment it into chunks, including splits that land in the middle of the
// boundary delimiter itself (spec property: chunking invariance).
func TestReader_ChunkingInvariance(t *testing.T) {
	t.Parallel()

	msg := buildMessage(
		"Content-Type: text/plain\r\n\r\n"+strings.Repeat("A", 5000)+"\r\n",
		"Content-Type: text/plain\r\n\r\n"+strings.Repeat("B", 3)+"\r\n",
	)

	for _, chunkSize := range []int{1, 2, 3, 7, 16, 64, 4096, 1 << 20} {
		chunkSize := chunkSize
		t.Run("", func(t *testing.T) {
			t.Parallel()

			r, err := multipart.NewReader(&chunkReader{data: []byte(msg), n: chunkSize}, testBoundary)
			require.NoError(t, err)

			p1, err := r.NextPart()
			require.NoError(t, err)
			b1, err := io.ReadAll(p1.Body())
			require.NoError(t, err)
			assert.Equal(t, strings.Repeat("A", 5000), string(b1))

			p2, err := r.NextPart()
			require.NoError(t, err)
			b2, err := io.ReadAll(p2.Body())
			require.NoError(t, err)
			assert.Equal(t, "BBB", string(b2))

			_, err = r.NextPart()
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestCollect(t *testing.T) {
	t.Parallel()

	msg := buildMessage(
		"Content-Type: text/plain\r\n\r\none\r\n",
		"Content-Type: text/plain\r\n\r\ntwo\r\n",
	)
	r, err := multipart.NewReader(strings.NewReader(msg), testBoundary)
	require.NoError(t, err)

	mp, err := multipart.Collect(testBoundary, r)
	require.NoError(t, err)
	assert.Len(t, mp.Parts, 2)
	assert.Equal(t, 1, mp.Parts[0].Index)
	assert.Equal(t, 2, mp.Parts[1].Index)
}
