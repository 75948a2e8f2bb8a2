package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/apperr"
	jsonfile "storefront/internal/repository/json"
)

func newService(t *testing.T) *Service {
	t.Helper()
	s := New(jsonfile.New(t.TempDir(), nil), nil)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 10, 30, 0, 123456000, time.UTC) }
	return s
}

func decode(t *testing.T, raw string) Input {
	t.Helper()
	in, err := DecodeInput([]byte(raw))
	require.NoError(t, err)
	return in
}

func TestAppendNormalizes(t *testing.T) {
	s := newService(t)
	o, err := s.Append(context.Background(), decode(t, `{
		"productId":" p1 ","title":"Apple","price":"2.499","qty":-3,
		"subtotal":7.5,"discount":120,"category":"JUICES"
	}`))
	require.NoError(t, err)

	assert.Len(t, o.ID, 32)
	assert.Equal(t, "p1", o.ProductID)
	assert.Equal(t, 2.5, o.Price)
	assert.Equal(t, 1, o.Qty)
	assert.Equal(t, 7.5, o.Subtotal)
	assert.Equal(t, 99, o.Discount)
	assert.Equal(t, "2024-05-01T10:30:00.123456Z", o.CreatedAt)

	got, err := s.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o, got)
}

func TestAppendKeepsClientFields(t *testing.T) {
	s := newService(t)
	o, err := s.Append(context.Background(), decode(t, `{"id":"ord-1","productId":"p","qty":4,"createdAt":"2023-12-31T23:59:59Z"}`))
	require.NoError(t, err)
	assert.Equal(t, "ord-1", o.ID)
	assert.Equal(t, 4, o.Qty)
	assert.Equal(t, "2023-12-31T23:59:59Z", o.CreatedAt)

	_, err = s.Append(context.Background(), decode(t, `{"id":"ord-1","productId":"p"}`))
	var pe *apperr.PayloadError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Message, "already exists")
}

func TestAppendRequiresProduct(t *testing.T) {
	s := newService(t)
	_, err := s.Append(context.Background(), decode(t, `{"title":"Nothing"}`))
	var pe *apperr.PayloadError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "productId is required", pe.Message)
}

func TestDecodeInputRejectsNonObjects(t *testing.T) {
	for _, body := range []string{"", "[1]", "{bad"} {
		_, err := DecodeInput([]byte(body))
		var pe *apperr.PayloadError
		assert.ErrorAs(t, err, &pe, body)
	}
}

func TestGetUnknown(t *testing.T) {
	s := newService(t)
	_, err := s.Get(context.Background(), "missing")
	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "order", nf.What)
}
