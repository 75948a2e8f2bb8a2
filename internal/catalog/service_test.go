package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/apperr"
	"storefront/internal/domain/models"
	jsonfile "storefront/internal/repository/json"
)

func newService(t *testing.T) *Service {
	t.Helper()
	return New(jsonfile.New(t.TempDir(), nil), nil)
}

func mustPayload(t *testing.T, raw string) Payload {
	t.Helper()
	p, err := DecodePayload([]byte(raw))
	require.NoError(t, err)
	return p
}

func save(t *testing.T, s *Service, sch *Schema, raw string) View {
	t.Helper()
	v, err := s.Save(context.Background(), sch, mustPayload(t, raw))
	require.NoError(t, err)
	return v
}

func TestReadDefaults(t *testing.T) {
	s := newService(t)

	v, err := s.Read(context.Background(), Popular)
	require.NoError(t, err)
	assert.Equal(t, "Most popular products", v.Title)
	assert.Empty(t, v.Cards)

	v, err = s.Read(context.Background(), Blogs)
	require.NoError(t, err)
	assert.Equal(t, "Our Recent Blog", v.Title)
	assert.Equal(t, "Read All Article", v.CtaText)
	assert.Equal(t, "#", v.CtaHref)

	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Our Recent Blog","ctaText":"Read All Article","ctaHref":"#","cards":[]}`, string(b))
}

func TestSaveNormalizesAndSorts(t *testing.T) {
	s := newService(t)
	v := save(t, s, Trending, `{"title":"  Fresh  ","cards":[
		{"id":"b","title":"Banana","price":"12.349","rating":7,"discount":150,"order":2,"qty":"5","category":"juices"},
		{"title":"Apple","price":-4,"order":1,"visible":0,"category":"toys"}
	]}`)

	assert.Equal(t, "Fresh", v.Title)
	require.Len(t, v.Cards, 2)

	apple := v.Cards[0]
	assert.Equal(t, "Apple", apple.Title)
	assert.Len(t, apple.ID, 32)
	assert.Equal(t, 0.0, apple.Price)
	assert.False(t, apple.Visible)
	assert.Equal(t, "FRUITS & VEGES", apple.Category)
	assert.Equal(t, "1 UNIT", apple.Unit)

	banana := v.Cards[1]
	assert.Equal(t, "b", banana.ID)
	assert.Equal(t, 12.35, banana.Price)
	assert.Equal(t, 5.0, banana.Rating)
	assert.Equal(t, 99, banana.Discount)
	assert.Equal(t, 5, banana.Qty)
	assert.Equal(t, "JUICES", banana.Category)
	assert.True(t, banana.Visible)
}

func TestSaveIsIdempotent(t *testing.T) {
	s := newService(t)
	first := save(t, s, BestSelling, `{"cards":[{"id":"a","title":"A","qty":3,"orders":2},{"id":"b","title":"B"}]}`)

	b, err := json.Marshal(first)
	require.NoError(t, err)
	second := save(t, s, BestSelling, string(b))

	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.Cards, second.Cards)
}

func TestSaveDeletesOmittedCards(t *testing.T) {
	s := newService(t)
	save(t, s, Trending, `{"cards":[{"id":"a","title":"A"},{"id":"b","title":"B"},{"id":"c","title":"C"}]}`)
	v := save(t, s, Trending, `{"cards":[{"id":"b","title":"B"}]}`)

	require.Len(t, v.Cards, 1)
	assert.Equal(t, "b", v.Cards[0].ID)

	_, err := s.CheckQuantity(context.Background(), Trending, "a", 1)
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestSaveCapsCards(t *testing.T) {
	s := newService(t)
	var cards []string
	for i := 1; i <= 10; i++ {
		cards = append(cards, fmt.Sprintf(`{"id":"c%d","title":"C%d"}`, i, i))
	}
	v := save(t, s, NewArrived, `{"cards":[`+strings.Join(cards, ",")+`]}`)

	require.Len(t, v.Cards, 8)
	assert.Equal(t, "c1", v.Cards[0].ID)
	assert.Equal(t, "c8", v.Cards[7].ID)

	v = save(t, s, Blogs, `{"cards":[`+strings.Join(cards, ",")+`]}`)
	assert.Len(t, v.Cards, 3)
}

func TestSaveKeepsStockWhenOmitted(t *testing.T) {
	s := newService(t)
	save(t, s, BestSelling, `{"cards":[{"id":"a","title":"A","qty":4,"orders":6}]}`)

	v := save(t, s, BestSelling, `{"cards":[{"id":"a","title":"A renamed"}]}`)
	require.Len(t, v.Cards, 1)
	assert.Equal(t, "A renamed", v.Cards[0].Title)
	assert.Equal(t, 4, v.Cards[0].Qty)
	assert.Equal(t, 6, v.Cards[0].Orders)

	v = save(t, s, BestSelling, `{"cards":[{"id":"a","title":"A","qty":0}]}`)
	assert.Equal(t, 0, v.Cards[0].Qty)
}

func TestSaveTitleFallsBack(t *testing.T) {
	s := newService(t)
	save(t, s, Blogs, `{"title":"News","ctaText":"More","ctaHref":"/blog","cards":[]}`)

	v := save(t, s, Blogs, `{"title":"   ","cards":[]}`)
	assert.Equal(t, "News", v.Title)
	assert.Equal(t, "More", v.CtaText)
	assert.Equal(t, "/blog", v.CtaHref)
}

func TestSaveDuplicateIDKeepsLast(t *testing.T) {
	s := newService(t)
	v := save(t, s, Popular, `{"cards":[{"id":"a","title":"First","order":1},{"id":"b","title":"B","order":2},{"id":"a","title":"Second","order":1}]}`)

	require.Len(t, v.Cards, 2)
	assert.Equal(t, "a", v.Cards[0].ID)
	assert.Equal(t, "Second", v.Cards[0].Title)
}

func TestSaveRejectsNonObjectCard(t *testing.T) {
	s := newService(t)
	_, err := s.Save(context.Background(), Popular, mustPayload(t, `{"cards":[{"id":"a"},42]}`))

	var pe *apperr.PayloadError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "card 2 must be a JSON object", pe.Message)
}

func TestBlogImageAlias(t *testing.T) {
	s := newService(t)
	v := save(t, s, Blogs, `{"cards":[{"id":"p1","title":"Post","img":"/uploads/a.png"}]}`)
	require.Len(t, v.Cards, 1)
	assert.Equal(t, "/uploads/a.png", v.Cards[0].Img)

	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"image":"/uploads/a.png"`)
	assert.NotContains(t, string(b), `"price"`)
}

func TestSavedCarriesOK(t *testing.T) {
	s := newService(t)
	v := save(t, s, NewArrived, `{"cards":[{"id":"x","brand":"Acme","title":"X"}]}`)

	b, err := json.Marshal(Saved{View: v})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), `{"ok":true,"title":"Newly Arrived Brands"`))
	assert.JSONEq(t, `{"ok":true,"title":"Newly Arrived Brands","cards":[
		{"id":"x","brand":"Acme","title":"X","desc":"","img":"","visible":true,"order":1}
	]}`, string(b))
}

func TestDecrement(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	save(t, s, BestSelling, `{"cards":[{"id":"p","title":"P","qty":5}]}`)

	lvl, err := s.Decrement(ctx, BestSelling, "p", 3)
	require.NoError(t, err)
	assert.Equal(t, models.StockLevel{Qty: 2, Orders: 3}, lvl)

	_, err = s.Decrement(ctx, BestSelling, "p", 3)
	var oos *apperr.OutOfStockError
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, 2, oos.Stock)

	lvl, err = s.Decrement(ctx, BestSelling, "p", 2)
	require.NoError(t, err)
	assert.Equal(t, 0, lvl.Qty)
	assert.Equal(t, 5, lvl.Orders)

	_, err = s.Decrement(ctx, BestSelling, "p", 1)
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, 0, oos.Stock)
}

func TestDecrementErrors(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	save(t, s, Trending, `{"cards":[{"id":"p","title":"P","qty":5}]}`)

	_, err := s.Decrement(ctx, Trending, "missing", 1)
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)

	_, err = s.Decrement(ctx, Trending, " ", 1)
	var pe *apperr.PayloadError
	assert.ErrorAs(t, err, &pe)

	_, err = s.Decrement(ctx, Trending, "p", 0)
	assert.ErrorAs(t, err, &pe)

	_, err = s.Decrement(ctx, NewArrived, "p", 1)
	assert.ErrorAs(t, err, &nf)

	lvl, err := s.Decrement(ctx, Trending, "p", 1)
	require.NoError(t, err)
	assert.Equal(t, models.StockLevel{Qty: 4}, lvl)
}

func TestStockOpsOnlyOnTrendingAndBestSelling(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	for _, sch := range []*Schema{Popular, JustArrived} {
		save(t, s, sch, `{"cards":[{"id":"p","title":"P","qty":5}]}`)

		_, err := s.Decrement(ctx, sch, "p", 1)
		var nf *apperr.NotFoundError
		assert.ErrorAs(t, err, &nf, sch.Key)

		_, err = s.CheckQuantity(ctx, sch, "p", 1)
		assert.ErrorAs(t, err, &nf, sch.Key)

		v, err := s.Read(ctx, sch)
		require.NoError(t, err)
		require.Len(t, v.Cards, 1)
		assert.Equal(t, 5, v.Cards[0].Qty, sch.Key)
	}
}

func TestUnknownIDLeavesOtherCardsAlone(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	save(t, s, BestSelling, `{"cards":[{"id":"a","title":"A","qty":4,"order":1},{"id":"b","title":"B","qty":7,"order":2}]}`)
	_, err := s.Decrement(ctx, BestSelling, "a", 1)
	require.NoError(t, err)

	var nf *apperr.NotFoundError
	_, err = s.Decrement(ctx, BestSelling, "zzz", 1)
	require.ErrorAs(t, err, &nf)
	_, err = s.CheckQuantity(ctx, BestSelling, "zzz", 1)
	require.ErrorAs(t, err, &nf)

	v, err := s.Read(ctx, BestSelling)
	require.NoError(t, err)
	require.Len(t, v.Cards, 2)
	assert.Equal(t, "a", v.Cards[0].ID)
	assert.Equal(t, 3, v.Cards[0].Qty)
	assert.Equal(t, 1, v.Cards[0].Orders)
	assert.Equal(t, "b", v.Cards[1].ID)
	assert.Equal(t, 7, v.Cards[1].Qty)
	assert.Equal(t, 0, v.Cards[1].Orders)
}

func TestCheckQuantityDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	save(t, s, Trending, `{"cards":[{"id":"p","title":"P","qty":2}]}`)

	for i := 0; i < 3; i++ {
		q, err := s.CheckQuantity(ctx, Trending, "p", 5)
		require.NoError(t, err)
		assert.Equal(t, QtyCheck{ID: "p", Requested: 5, Stock: 2, OutOfStock: true, CappedQty: 2}, q)
	}

	q, err := s.CheckQuantity(ctx, Trending, "p", 1)
	require.NoError(t, err)
	assert.False(t, q.OutOfStock)
	assert.Equal(t, 1, q.CappedQty)
}

func TestImportLegacySeedsAndSkips(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	ok, err := s.ImportLegacy(ctx, Popular, mustPayload(t, `{"cards":[{"id":"a","title":"A","price":0}]}`))
	require.NoError(t, err)
	assert.True(t, ok)

	v, err := s.Read(ctx, Popular)
	require.NoError(t, err)
	require.Len(t, v.Cards, 1)
	assert.Equal(t, 18.0, v.Cards[0].Price)
	assert.Equal(t, 4.5, v.Cards[0].Rating)
	assert.Equal(t, 9999, v.Cards[0].Order)

	ok, err = s.ImportLegacy(ctx, Popular, mustPayload(t, `{"cards":[{"id":"b","title":"B"}]}`))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.ImportLegacy(ctx, Trending, mustPayload(t, `{"cards":[{"id":"t","title":"T"}]}`))
	require.NoError(t, err)
	assert.True(t, ok)
	v, err = s.Read(ctx, Trending)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.Cards[0].Price)
}

type failingRepo struct {
	*jsonfile.Repo
}

func (failingRepo) ReplaceSection(context.Context, models.Section) error {
	return errors.New("disk full")
}

func TestSaveReportsPersistenceError(t *testing.T) {
	s := New(failingRepo{jsonfile.New(t.TempDir(), nil)}, nil)
	_, err := s.Save(context.Background(), Popular, mustPayload(t, `{"cards":[]}`))

	var pe *apperr.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.EqualError(t, pe.Err, "disk full")
}
