package model

import (
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize is the largest image accepted for logos and product pictures.
const MaxImageSize = 5 << 20

var (
	// ErrImageTooLarge is returned for files over MaxImageSize.
	ErrImageTooLarge = errors.New("image exceeds 5MB")
	// ErrNotAnImage is returned when the declared or sniffed type is not image/*.
	ErrNotAnImage = errors.New("file is not an image")
)

// Upload is an image selected in a form. Data stays nil when the file was
// rejected for its size before being read.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// Validate checks size and type. Size is checked first so oversized files
// are rejected without looking at their content.
func (u *Upload) Validate() error {
	size := u.Size
	if n := int64(len(u.Data)); n > size {
		size = n
	}
	if size > MaxImageSize {
		return ErrImageTooLarge
	}
	if u.ContentType != "" && !strings.HasPrefix(u.ContentType, "image/") {
		return ErrNotAnImage
	}
	if len(u.Data) == 0 {
		return ErrNotAnImage
	}
	if !strings.HasPrefix(mimetype.Detect(u.Data).String(), "image/") {
		return ErrNotAnImage
	}
	return nil
}

// DetectedType returns the sniffed MIME type, falling back to the declared one.
func (u *Upload) DetectedType() string {
	if len(u.Data) > 0 {
		if m := mimetype.Detect(u.Data); strings.HasPrefix(m.String(), "image/") {
			return m.String()
		}
	}
	return u.ContentType
}
