package upload

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// Validation limits applied before any buffer reaches the media host.
const DefaultMaxBytes = 5 << 20

var allowedMIME = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

var (
	ErrTooLarge        = errors.New("file exceeds the size limit")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Result is what the media host hands back for a stored asset.
type Result struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Uploader is the seam to the external media host. The host integration
// itself lives outside this repository.
type Uploader interface {
	Upload(data []byte, publicID string) (*Result, error)
}

// Validate enforces the size cap and MIME allow-list. The content type is
// sniffed from the buffer, never trusted from the request.
func Validate(data []byte, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if int64(len(data)) > maxBytes {
		return ErrTooLarge
	}
	if !allowedMIME[http.DetectContentType(data)] {
		return ErrUnsupportedType
	}
	return nil
}

// NewPublicID returns a fresh opaque asset id.
func NewPublicID() string { return uuid.NewString() }

// DiscardUploader accepts validated buffers without storing them; it stands
// in when no media host is configured.
type DiscardUploader struct{}

func (DiscardUploader) Upload(data []byte, publicID string) (*Result, error) {
	return &Result{URL: "about:blank", PublicID: publicID}, nil
}
