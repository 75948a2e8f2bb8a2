package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"storefront/internal/http-server/handlers/orders"
	"storefront/internal/http-server/handlers/sections"
	"storefront/internal/http-server/handlers/uploads"
	"storefront/internal/http-server/middleware"
	"storefront/internal/http-server/respond"
	"storefront/internal/images"
)

type Server struct {
	log *slog.Logger
	mux *http.ServeMux

	allowedOrigins []string
}

func New(log *slog.Logger, allowedOrigins []string) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{log: log, mux: http.NewServeMux(), allowedOrigins: allowedOrigins}
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = middleware.CORS(s.allowedOrigins, h)
	h = middleware.WithRequestID(h)
	h = middleware.RecoverPanic(s.log, h)
	h = middleware.AccessLog(s.log, h)
	return h
}

type Deps struct {
	Sections       sections.Store
	Orders         orders.Log
	Images         images.Store
	UploadFiles    uploads.FileSource
	Timeout        time.Duration
	MaxBodyBytes   int64
	MaxUploadBytes int64
}

func (s *Server) RegisterRoutes(dep Deps) {
	sec := sections.Options{
		Log:          s.log,
		Store:        dep.Sections,
		Timeout:      dep.Timeout,
		MaxBodyBytes: dep.MaxBodyBytes,
	}
	s.mux.HandleFunc("GET /api/{section}", sections.NewGetHandler(sec))
	s.mux.HandleFunc("PUT /api/{section}", sections.NewPutHandler(sec))
	s.mux.HandleFunc("POST /api/{section}/order", sections.NewOrderHandler(sec))
	s.mux.HandleFunc("POST /api/{section}/check-qty", sections.NewCheckQtyHandler(sec))

	ord := orders.Options{
		Log:          s.log,
		Orders:       dep.Orders,
		Timeout:      dep.Timeout,
		MaxBodyBytes: dep.MaxBodyBytes,
	}
	s.mux.HandleFunc("POST /api/orders", orders.NewCreateHandler(ord))
	s.mux.HandleFunc("GET /api/orders/{id}", orders.NewGetHandler(ord))

	up := uploads.Options{
		Log:      s.log,
		Store:    dep.Images,
		Files:    dep.UploadFiles,
		MaxBytes: dep.MaxUploadBytes,
	}
	s.mux.HandleFunc("POST /api/upload-image", uploads.NewUploadHandler(up))
	s.mux.HandleFunc("GET /uploads/{filename}", uploads.NewServeHandler(up))

	s.mux.HandleFunc("GET /ping", func(w http.ResponseWriter, _ *http.Request) {
		respond.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
}
