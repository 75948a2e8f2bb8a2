package sections

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/domain/models"
	"storefront/internal/http-server/decode"
	"storefront/internal/http-server/respond"
)

type Store interface {
	Read(ctx context.Context, sch *catalog.Schema) (catalog.View, error)
	Save(ctx context.Context, sch *catalog.Schema, p catalog.Payload) (catalog.View, error)
	Decrement(ctx context.Context, sch *catalog.Schema, id string, qty int) (models.StockLevel, error)
	CheckQuantity(ctx context.Context, sch *catalog.Schema, id string, qty int) (catalog.QtyCheck, error)
}

type Options struct {
	Log          *slog.Logger
	Store        Store
	Timeout      time.Duration
	MaxBodyBytes int64
}

func (o *Options) defaults() *slog.Logger {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Log == nil {
		return slog.Default()
	}
	return o.Log
}

// schema resolves the {section} path value, answering 404 itself when the
// section is unknown.
func schema(w http.ResponseWriter, r *http.Request) (*catalog.Schema, bool) {
	sch, ok := catalog.Lookup(r.PathValue("section"))
	if !ok {
		respond.WriteError(w, http.StatusNotFound, "Not found")
		return nil, false
	}
	return sch, true
}

// NewGetHandler serves GET /api/{section}.
func NewGetHandler(opts Options) http.HandlerFunc {
	log := opts.defaults()

	return func(w http.ResponseWriter, r *http.Request) {
		sch, ok := schema(w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), opts.Timeout)
		defer cancel()

		v, err := opts.Store.Read(ctx, sch)
		if err != nil {
			respond.Error(w, log, r, err)
			return
		}
		respond.WriteJSON(w, http.StatusOK, v)
	}
}

// NewPutHandler serves PUT /api/{section}: a full replacement of the section.
func NewPutHandler(opts Options) http.HandlerFunc {
	log := opts.defaults()

	return func(w http.ResponseWriter, r *http.Request) {
		sch, ok := schema(w, r)
		if !ok {
			return
		}
		b, err := decode.Body(w, r, opts.MaxBodyBytes)
		if err != nil {
			respond.Error(w, log, r, err)
			return
		}
		p, err := catalog.DecodePayload(b)
		if err != nil {
			respond.Error(w, log, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), opts.Timeout)
		defer cancel()

		v, err := opts.Store.Save(ctx, sch, p)
		if err != nil {
			respond.Error(w, log, r, err)
			return
		}
		respond.WriteJSON(w, http.StatusOK, catalog.Saved{View: v})
	}
}

type orderResponse struct {
	OK     bool   `json:"ok"`
	ID     string `json:"id"`
	Qty    int    `json:"qty"`
	Orders *int   `json:"orders,omitempty"`
}

// NewOrderHandler serves POST /api/{section}/order.
func NewOrderHandler(opts Options) http.HandlerFunc {
	log := opts.defaults()

	return func(w http.ResponseWriter, r *http.Request) {
		sch, ok := schema(w, r)
		if !ok {
			return
		}
		if !sch.Stock {
			respond.WriteError(w, http.StatusNotFound, "Not found")
			return
		}
		id, qty, err := stockRequest(w, r, opts.MaxBodyBytes)
		if err != nil {
			respond.Error(w, log, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), opts.Timeout)
		defer cancel()

		lvl, err := opts.Store.Decrement(ctx, sch, id, qty)
		if err != nil {
			respond.Error(w, log, r, err)
			return
		}
		res := orderResponse{OK: true, ID: id, Qty: lvl.Qty}
		if sch.CountOrders {
			res.Orders = &lvl.Orders
		}
		respond.WriteJSON(w, http.StatusOK, res)
	}
}

type checkResponse struct {
	OK           bool   `json:"ok"`
	ID           string `json:"id"`
	QtyRequested int    `json:"qtyRequested"`
	Stock        int    `json:"stock"`
	OutOfStock   bool   `json:"outOfStock"`
	CappedQty    int    `json:"cappedQty"`
}

// NewCheckQtyHandler serves POST /api/{section}/check-qty.
func NewCheckQtyHandler(opts Options) http.HandlerFunc {
	log := opts.defaults()

	return func(w http.ResponseWriter, r *http.Request) {
		sch, ok := schema(w, r)
		if !ok {
			return
		}
		if !sch.Stock {
			respond.WriteError(w, http.StatusNotFound, "Not found")
			return
		}
		id, qty, err := stockRequest(w, r, opts.MaxBodyBytes)
		if err != nil {
			respond.Error(w, log, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), opts.Timeout)
		defer cancel()

		q, err := opts.Store.CheckQuantity(ctx, sch, id, qty)
		if err != nil {
			respond.Error(w, log, r, err)
			return
		}
		respond.WriteJSON(w, http.StatusOK, checkResponse{
			OK:           true,
			ID:           q.ID,
			QtyRequested: q.Requested,
			Stock:        q.Stock,
			OutOfStock:   q.OutOfStock,
			CappedQty:    q.CappedQty,
		})
	}
}

func stockRequest(w http.ResponseWriter, r *http.Request, limit int64) (string, int, error) {
	b, err := decode.Body(w, r, limit)
	if err != nil {
		return "", 0, err
	}
	return catalog.DecodeStockRequest(b)
}
