// Package images accepts uploaded product and blog pictures and stores them
// either on local disk or in Cloudinary.
package images

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront/internal/apperr"
)

// Store saves one uploaded image under name and returns the URL clients
// should reference it by.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader) (url string, err error)
}

// DefaultMaxBytes is the upload limit when none is configured.
const DefaultMaxBytes = 5 << 20

var allowedExts = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

// Allowed reports whether filename has an image extension and the declared
// content type is an image type.
func Allowed(filename, contentType string) bool {
	if filename == "" {
		return false
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExts[ext]; !ok {
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}

// Validate is Allowed as a client error.
func Validate(filename, contentType string) error {
	if filename == "" {
		return apperr.Payload("No file")
	}
	if !Allowed(filename, contentType) {
		return apperr.Payload("Only image files up to 5MB allowed")
	}
	return nil
}

// NewName returns img_<unix-ms>_<hex><ext> for an upload named filename.
func NewName(filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if ext == "" {
		ext = ".png"
	}
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("img_%d_%s%s", now.UnixMilli(), hex, ext)
}
