package decode

import (
	"errors"
	"io"
	"net/http"

	"storefront/internal/apperr"
)

// DefaultMaxBytes caps JSON request bodies when no limit is configured.
const DefaultMaxBytes = 1 << 20

// Body reads the whole request body, refusing more than limit bytes. A body
// over the limit comes back as *http.MaxBytesError.
func Body(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	if r.Body == nil {
		return nil, nil
	}
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, &apperr.PayloadError{Message: "Bad JSON", Detail: err.Error()}
	}
	return b, nil
}
