package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDocxExtract(t *testing.T) {
	data := buildDocx(t,
		`<w:p><w:r><w:t>Mitochondria</w:t></w:r><w:r><w:tab/><w:t xml:space="preserve"> power</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Ribosomes</w:t></w:r></w:p>`)

	text, err := Docx{}.Extract(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "Mitochondria\t power\nRibosomes", text)
}

func TestDocxRejectsNonDocx(t *testing.T) {
	_, err := Docx{}.Extract(context.Background(), []byte("plain text"))
	assert.ErrorIs(t, err, ErrNotDocx)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err = zw.Create("other.txt")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Docx{}.Extract(context.Background(), buf.Bytes())
	assert.ErrorIs(t, err, ErrNotDocx)
}

func TestDataURIRejectsNonImage(t *testing.T) {
	_, err := dataURI([]byte("hello world"))
	assert.ErrorIs(t, err, ErrNotImage)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	uri, err := dataURI(png)
	require.NoError(t, err)
	assert.Contains(t, uri, "data:image/png;base64,")
}

type fixedExtractor string

func (f fixedExtractor) Extract(context.Context, []byte) (string, error) { return string(f), nil }

func TestRouter(t *testing.T) {
	r := Router{Word: fixedExtractor("from word"), Image: fixedExtractor("from image")}
	ctx := context.Background()

	got, err := r.Extract(ctx, KindTopic, "Photosynthesis", nil)
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis", got)

	got, err = r.Extract(ctx, KindWord, "", []byte{1})
	require.NoError(t, err)
	assert.Equal(t, "from word", got)

	got, err = r.Extract(ctx, KindImage, "", []byte{1})
	require.NoError(t, err)
	assert.Equal(t, "from image", got)

	_, err = r.Extract(ctx, KindTopic, "", nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = r.Extract(ctx, KindWord, "", nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = Router{}.Extract(ctx, KindImage, "", []byte{1})
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, KindTopic, k)

	k, err = ParseKind("image")
	require.NoError(t, err)
	assert.Equal(t, KindImage, k)

	_, err = ParseKind("pdf")
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}
