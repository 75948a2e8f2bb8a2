// Package repotest runs the same behavioural checks against every
// repository backend.
package repotest

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/models"
	"storefront/internal/repository"
)

type Backend interface {
	repository.Sections
	repository.Orders
}

func card(id, title string, order, qty int) models.Card {
	return models.Card{ID: id, Title: title, Brand: "B", Unit: "1 UNIT", Visible: true, Price: 10, Rating: 4, Order: order, Qty: qty}
}

// Run exercises a fresh backend returned by open for each subtest.
func Run(t *testing.T, open func(t *testing.T) Backend) {
	t.Run("LoadMissing", func(t *testing.T) {
		r := open(t)
		_, err := r.LoadSection(context.Background(), "popular")
		assert.ErrorIs(t, err, repository.ErrNotFound)

		n, err := r.CountCards(context.Background(), "popular")
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("EnsureKeepsExisting", func(t *testing.T) {
		ctx := context.Background()
		r := open(t)
		require.NoError(t, r.EnsureSection(ctx, models.Section{Key: "blogs", Title: "Our Recent Blog", CtaText: "Read", CtaHref: "#"}))
		require.NoError(t, r.EnsureSection(ctx, models.Section{Key: "blogs", Title: "Other"}))

		sec, err := r.LoadSection(ctx, "blogs")
		require.NoError(t, err)
		assert.Equal(t, "Our Recent Blog", sec.Title)
		assert.Equal(t, "Read", sec.CtaText)
		assert.Empty(t, sec.Cards)
	})

	t.Run("ReplaceDeletesOmitted", func(t *testing.T) {
		ctx := context.Background()
		r := open(t)
		require.NoError(t, r.ReplaceSection(ctx, models.Section{
			Key: "trending", Title: "T",
			Cards: []models.Card{card("a", "A", 1, 3), card("b", "B", 2, 4), card("c", "C", 3, 5)},
		}))
		require.NoError(t, r.ReplaceSection(ctx, models.Section{
			Key: "trending", Title: "T2",
			Cards: []models.Card{card("c", "C2", 1, 9), card("d", "D", 2, 1)},
		}))

		sec, err := r.LoadSection(ctx, "trending")
		require.NoError(t, err)
		assert.Equal(t, "T2", sec.Title)
		require.Len(t, sec.Cards, 2)
		assert.Equal(t, "c", sec.Cards[0].ID)
		assert.Equal(t, "C2", sec.Cards[0].Title)
		assert.Equal(t, 9, sec.Cards[0].Qty)
		assert.Equal(t, "d", sec.Cards[1].ID)

		_, err = r.GetCard(ctx, "trending", "a")
		assert.ErrorIs(t, err, repository.ErrNotFound)

		n, err := r.CountCards(ctx, "trending")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("SectionsAreIsolated", func(t *testing.T) {
		ctx := context.Background()
		r := open(t)
		require.NoError(t, r.ReplaceSection(ctx, models.Section{Key: "popular", Title: "P", Cards: []models.Card{card("x", "X", 1, 1)}}))
		require.NoError(t, r.ReplaceSection(ctx, models.Section{Key: "trending", Title: "T", Cards: []models.Card{card("x", "Y", 1, 7)}}))

		c, err := r.GetCard(ctx, "popular", "x")
		require.NoError(t, err)
		assert.Equal(t, "X", c.Title)
		assert.Equal(t, 1, c.Qty)
	})

	t.Run("DecrementStock", func(t *testing.T) {
		ctx := context.Background()
		r := open(t)
		require.NoError(t, r.ReplaceSection(ctx, models.Section{Key: "best-selling", Title: "B", Cards: []models.Card{card("p", "P", 1, 5)}}))

		lvl, err := r.DecrementStock(ctx, "best-selling", "p", 3, true)
		require.NoError(t, err)
		assert.Equal(t, models.StockLevel{Qty: 2, Orders: 3}, lvl)

		lvl, err = r.DecrementStock(ctx, "best-selling", "p", 3, true)
		assert.ErrorIs(t, err, repository.ErrInsufficientStock)
		assert.Equal(t, 2, lvl.Qty)

		lvl, err = r.DecrementStock(ctx, "best-selling", "p", 2, true)
		require.NoError(t, err)
		assert.Equal(t, models.StockLevel{Qty: 0, Orders: 5}, lvl)

		_, err = r.DecrementStock(ctx, "best-selling", "p", 1, true)
		assert.ErrorIs(t, err, repository.ErrInsufficientStock)

		_, err = r.DecrementStock(ctx, "best-selling", "nope", 1, true)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("DecrementWithoutOrderCount", func(t *testing.T) {
		ctx := context.Background()
		r := open(t)
		require.NoError(t, r.ReplaceSection(ctx, models.Section{Key: "popular", Title: "P", Cards: []models.Card{card("p", "P", 1, 4)}}))

		lvl, err := r.DecrementStock(ctx, "popular", "p", 1, false)
		require.NoError(t, err)
		assert.Equal(t, models.StockLevel{Qty: 3, Orders: 0}, lvl)
	})

	t.Run("ConcurrentDecrementNeverOversells", func(t *testing.T) {
		ctx := context.Background()
		r := open(t)
		require.NoError(t, r.ReplaceSection(ctx, models.Section{Key: "popular", Title: "P", Cards: []models.Card{card("p", "P", 1, 10)}}))

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			sold int
		)
		for i := 0; i < 25; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := r.DecrementStock(ctx, "popular", "p", 1, false); err == nil {
					mu.Lock()
					sold++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 10, sold)
		c, err := r.GetCard(ctx, "popular", "p")
		require.NoError(t, err)
		assert.Equal(t, 0, c.Qty)
	})

	t.Run("Orders", func(t *testing.T) {
		ctx := context.Background()
		r := open(t)
		o := models.Order{ID: "o1", ProductID: "p", Title: "Apple", Qty: 2, Price: 1.5, Subtotal: 3, CreatedAt: "2024-01-01T00:00:00.000000Z"}
		require.NoError(t, r.AppendOrder(ctx, o))
		assert.ErrorIs(t, r.AppendOrder(ctx, o), repository.ErrDuplicate)

		got, err := r.GetOrder(ctx, "o1")
		require.NoError(t, err)
		assert.Equal(t, o, got)

		_, err = r.GetOrder(ctx, "o2")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}
