package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"storefront/internal/apperr"
)

type ErrorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

type outOfStockBody struct {
	Error      string `json:"error"`
	Qty        int    `json:"qty"`
	OutOfStock bool   `json:"outOfStock"`
}

func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "Internal error")
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorBody{Error: msg})
}

// Error maps a service error to its status and JSON body. Anything that is
// not one of the apperr types is logged and answered with a bare 500.
func Error(w http.ResponseWriter, log *slog.Logger, r *http.Request, err error) {
	if log == nil {
		log = slog.Default()
	}

	var (
		payload  *apperr.PayloadError
		notFound *apperr.NotFoundError
		oos      *apperr.OutOfStockError
		persist  *apperr.PersistenceError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooLarge):
		WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large")
	case errors.As(err, &payload):
		WriteJSON(w, http.StatusBadRequest, ErrorBody{Error: payload.Message, Detail: payload.Detail})
	case errors.As(err, &notFound):
		WriteError(w, http.StatusNotFound, "Not found")
	case errors.As(err, &oos):
		WriteJSON(w, http.StatusBadRequest, outOfStockBody{Error: "Out of stock", Qty: oos.Stock, OutOfStock: true})
	case errors.As(err, &persist):
		log.Error("persistence failed", "op", persist.Op, "err", persist.Err, "rid", r.Header.Get("X-Request-Id"))
		WriteJSON(w, http.StatusInternalServerError, ErrorBody{Error: "Save failed", Detail: persist.Error()})
	default:
		log.Error("request failed", "err", err, "path", r.URL.Path, "rid", r.Header.Get("X-Request-Id"))
		WriteInternalError(w)
	}
}
