package orders

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"storefront/internal/domain/models"
	"storefront/internal/http-server/decode"
	"storefront/internal/http-server/respond"
	orderlog "storefront/internal/orders"
)

type Log interface {
	Append(ctx context.Context, in orderlog.Input) (models.Order, error)
	Get(ctx context.Context, id string) (models.Order, error)
}

type Options struct {
	Log          *slog.Logger
	Orders       Log
	Timeout      time.Duration
	MaxBodyBytes int64
}

// NewCreateHandler serves POST /api/orders and answers 201 with a Location
// pointing at the stored order.
func NewCreateHandler(opts Options) http.HandlerFunc {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	return func(w http.ResponseWriter, r *http.Request) {
		b, err := decode.Body(w, r, opts.MaxBodyBytes)
		if err != nil {
			respond.Error(w, log, r, err)
			return
		}
		in, err := orderlog.DecodeInput(b)
		if err != nil {
			respond.Error(w, log, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), opts.Timeout)
		defer cancel()

		o, err := opts.Orders.Append(ctx, in)
		if err != nil {
			respond.Error(w, log, r, err)
			return
		}
		w.Header().Set("Location", "/api/orders/"+url.PathEscape(o.ID))
		respond.WriteJSON(w, http.StatusCreated, o)
	}
}

// NewGetHandler serves GET /api/orders/{id}.
func NewGetHandler(opts Options) http.HandlerFunc {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), opts.Timeout)
		defer cancel()

		o, err := opts.Orders.Get(ctx, r.PathValue("id"))
		if err != nil {
			respond.Error(w, log, r, err)
			return
		}
		respond.WriteJSON(w, http.StatusOK, o)
	}
}
