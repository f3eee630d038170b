package multipart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeHeaderBlock(t *testing.T) {
	t.Parallel()

	hdr, err := decodeHeaderBlock([]byte("Content-Disposition: form-data; name=\"field1\"\r\nContent-Type: text/plain\r\n"))
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(2, hdr.Len())

	v, ok := hdr.Get("content-type")
	assert.True(ok)
	assert.Equal("text/plain", v)

	v, ok = hdr.Get("Content-Disposition")
	assert.True(ok)
	assert.Equal(`form-data; name="field1"`, v)
}

func TestDecodeHeaderBlock_Empty(t *testing.T) {
	t.Parallel()

	hdr, err := decodeHeaderBlock(nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, hdr.Len())
}

func TestDecodeHeaderBlock_DuplicateNames(t *testing.T) {
	t.Parallel()

	hdr, err := decodeHeaderBlock([]byte("X-Tag: one\r\nX-Tag: two\r\n"))
	require := assert.New(t)
	require.NoError(err)

	assert.Equal(t, []string{"one", "two"}, hdr.Values("x-tag"))
}

func TestDecodeHeaderBlock_LineWithoutColonDropped(t *testing.T) {
	t.Parallel()

	hdr, err := decodeHeaderBlock([]byte("Content-Type: text/plain\r\nnot-a-header-line\r\n"))
	assert.NoError(t, err)
	assert.Equal(t, 1, hdr.Len())
}

func TestDecodeHeaderBlock_InvalidUTF8Sanitized(t *testing.T) {
	t.Parallel()

	hdr, err := decodeHeaderBlock([]byte("X-Bad: \xff\xfevalue\r\n"))
	assert.NoError(t, err)
	v, ok := hdr.Get("X-Bad")
	assert.True(t, ok)
	assert.NotContains(t, v, "\xff")
}
