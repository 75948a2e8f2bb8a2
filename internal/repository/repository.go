package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicate         = errors.New("duplicate id")
)

// Sections persists storefront sections. Implementations must make
// ReplaceSection and DecrementStock atomic: readers never observe a half
// applied replace, and concurrent decrements never sell more than the stock.
type Sections interface {
	// LoadSection returns ErrNotFound when the section was never stored.
	LoadSection(ctx context.Context, key string) (models.Section, error)

	// EnsureSection stores an empty section with the given header when none exists.
	EnsureSection(ctx context.Context, sec models.Section) error

	// ReplaceSection writes the header and exactly the given cards; stored
	// cards of that section whose id is not in sec.Cards are deleted.
	ReplaceSection(ctx context.Context, sec models.Section) error

	// GetCard returns ErrNotFound for an unknown id.
	GetCard(ctx context.Context, key, id string) (models.Card, error)

	// DecrementStock subtracts qty from the card stock and, when countOrders is
	// set, adds it to the orders counter. On ErrInsufficientStock the returned
	// level holds the current stock.
	DecrementStock(ctx context.Context, key, id string, qty int, countOrders bool) (models.StockLevel, error)

	CountCards(ctx context.Context, key string) (int, error)
}

// Orders is the append-only order log.
type Orders interface {
	// AppendOrder returns ErrDuplicate when the id is already taken.
	AppendOrder(ctx context.Context, o models.Order) error
	GetOrder(ctx context.Context, id string) (models.Order, error)
}
