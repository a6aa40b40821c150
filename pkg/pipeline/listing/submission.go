package listing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
)

// Multipart field names of a listing submission.
const (
	FieldContent = "content"
	FieldImages  = "images"
)

// Draft keys the pipeline reads or writes.
const (
	KeyAddress   = "address"
	KeyLocation  = "location"
	KeyImages    = "images"
	KeyOwnerID   = "ownerId"
	KeyLongitude = "longitude"
	KeyLatitude  = "latitude"
)

// ErrInvalidSubmission is returned for a form without a usable content part.
var ErrInvalidSubmission = errors.New("invalid listing submission")

// Submission is a parsed POST /createProperty form.
type Submission struct {
	// Draft holds the listing fields from the content part, without images.
	Draft map[string]any

	// Images are the submitted image parts in submission order.
	Images []*multipart.FileHeader
}

// ParseSubmission reads the JSON content part and the image parts. The
// content may be sent as a plain field or as a file part.
func ParseSubmission(form *multipart.Form) (*Submission, error) {
	if form == nil {
		return nil, fmt.Errorf("%w: empty form", ErrInvalidSubmission)
	}

	raw, err := contentPart(form)
	if err != nil {
		return nil, err
	}

	var draft map[string]any
	if err := json.Unmarshal(raw, &draft); err != nil || draft == nil {
		return nil, fmt.Errorf("%w: content is not a JSON object", ErrInvalidSubmission)
	}
	delete(draft, KeyImages)

	return &Submission{
		Draft:  draft,
		Images: form.File[FieldImages],
	}, nil
}

func contentPart(form *multipart.Form) ([]byte, error) {
	if values := form.Value[FieldContent]; len(values) > 0 {
		return []byte(values[0]), nil
	}

	if files := form.File[FieldContent]; len(files) > 0 {
		f, err := files[0].Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSubmission, err)
		}
		defer f.Close()

		raw, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSubmission, err)
		}
		return raw, nil
	}

	return nil, fmt.Errorf("%w: missing %q part", ErrInvalidSubmission, FieldContent)
}

// Address returns the draft's address and location text.
func (s *Submission) Address() (address, location string) {
	return draftString(s.Draft, KeyAddress), draftString(s.Draft, KeyLocation)
}

func draftString(draft map[string]any, key string) string {
	switch v := draft[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
