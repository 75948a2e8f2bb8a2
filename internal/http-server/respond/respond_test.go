package respond

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/internal/apperr"
)

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"payload", &apperr.PayloadError{Message: "Bad JSON", Detail: "eof"}, 400, `{"error":"Bad JSON","detail":"eof"}`},
		{"wrapped not found", fmt.Errorf("x: %w", &apperr.NotFoundError{What: "card", ID: "a"}), 404, `{"error":"Not found"}`},
		{"out of stock", &apperr.OutOfStockError{ID: "a", Stock: 2}, 400, `{"error":"Out of stock","qty":2,"outOfStock":true}`},
		{"persistence", apperr.Persistence("save section popular", errors.New("disk full")), 500, `{"error":"Save failed","detail":"save section popular: disk full"}`},
		{"too large", &http.MaxBytesError{Limit: 10}, 413, `{"error":"Request body too large"}`},
		{"unknown", errors.New("boom"), 500, `{"error":"Internal error"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, nil, httptest.NewRequest(http.MethodGet, "/api/popular", nil), tc.err)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
			assert.JSONEq(t, tc.body, rec.Body.String())
		})
	}
}
