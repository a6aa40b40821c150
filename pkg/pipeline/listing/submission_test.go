package listing

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readForm(t *testing.T, build func(w *multipart.Writer)) *multipart.Form {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	build(w)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form
}

func TestParseSubmission(t *testing.T) {
	form := readForm(t, func(w *multipart.Writer) {
		require.NoError(t, w.WriteField(FieldContent, `{"title":"Loft","images":["x"],"address":" Main 1 "}`))
		part, err := w.CreateFormFile(FieldImages, "a.jpg")
		require.NoError(t, err)
		_, _ = part.Write([]byte("img"))
	})

	sub, err := ParseSubmission(form)
	require.NoError(t, err)
	assert.Equal(t, "Loft", sub.Draft["title"])
	assert.NotContains(t, sub.Draft, KeyImages)
	require.Len(t, sub.Images, 1)
	assert.Equal(t, "a.jpg", sub.Images[0].Filename)

	address, location := sub.Address()
	assert.Equal(t, "Main 1", address)
	assert.Empty(t, location)
}

func TestParseSubmission_ContentAsFile(t *testing.T) {
	form := readForm(t, func(w *multipart.Writer) {
		part, err := w.CreateFormFile(FieldContent, "content.json")
		require.NoError(t, err)
		_, _ = part.Write([]byte(`{"location":"Bern"}`))
	})

	sub, err := ParseSubmission(form)
	require.NoError(t, err)
	_, location := sub.Address()
	assert.Equal(t, "Bern", location)
	assert.Empty(t, sub.Images)
}

func TestParseSubmission_Invalid(t *testing.T) {
	tests := map[string]func(w *multipart.Writer){
		"missing content": func(w *multipart.Writer) {},
		"not json": func(w *multipart.Writer) {
			_ = w.WriteField(FieldContent, "{")
		},
		"json null": func(w *multipart.Writer) {
			_ = w.WriteField(FieldContent, "null")
		},
		"json array": func(w *multipart.Writer) {
			_ = w.WriteField(FieldContent, "[]")
		},
	}

	for name, build := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSubmission(readForm(t, build))
			assert.ErrorIs(t, err, ErrInvalidSubmission)
		})
	}

	_, err := ParseSubmission(nil)
	assert.ErrorIs(t, err, ErrInvalidSubmission)
}
