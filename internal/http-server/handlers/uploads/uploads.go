package uploads

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/http-server/respond"
	"storefront/internal/images"
)

// FileSource resolves a served upload name to a file on disk.
type FileSource interface {
	Path(name string) (string, error)
}

type Options struct {
	Log      *slog.Logger
	Store    images.Store
	Files    FileSource
	MaxBytes int64
	Timeout  time.Duration
	Now      func() time.Time
}

type uploadResponse struct {
	URL string `json:"url"`
}

// NewUploadHandler serves POST /api/upload-image with the picture in the
// multipart field "image".
func NewUploadHandler(opts Options) http.HandlerFunc {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = images.DefaultMaxBytes
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return func(w http.ResponseWriter, r *http.Request) {
		// multipart framing adds a little on top of the file itself.
		r.Body = http.MaxBytesReader(w, r.Body, opts.MaxBytes+64<<10)

		f, hdr, err := r.FormFile("image")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respond.Error(w, log, r, err)
				return
			}
			respond.Error(w, log, r, apperr.Payload("No file"))
			return
		}
		defer f.Close()

		if hdr.Size > opts.MaxBytes {
			respond.WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		if err := images.Validate(hdr.Filename, hdr.Header.Get("Content-Type")); err != nil {
			respond.Error(w, log, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), opts.Timeout)
		defer cancel()

		name := images.NewName(hdr.Filename, opts.Now())
		url, err := opts.Store.Save(ctx, name, f)
		if err != nil {
			log.Error("image upload failed", "err", err, "name", name, "rid", r.Header.Get("X-Request-Id"))
			respond.WriteError(w, http.StatusInternalServerError, "Upload failed")
			return
		}
		log.Info("image uploaded", "name", name, "bytes", hdr.Size, "url", url)
		respond.WriteJSON(w, http.StatusOK, uploadResponse{URL: url})
	}
}

// NewServeHandler serves GET /uploads/{filename} from the local upload dir.
func NewServeHandler(opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if opts.Files == nil {
			respond.WriteError(w, http.StatusNotFound, "Not found")
			return
		}
		p, err := opts.Files.Path(r.PathValue("filename"))
		if errors.Is(err, fs.ErrNotExist) {
			respond.WriteError(w, http.StatusNotFound, "Not found")
			return
		}
		if err != nil {
			respond.WriteInternalError(w)
			return
		}
		http.ServeFile(w, r, p)
	}
}
