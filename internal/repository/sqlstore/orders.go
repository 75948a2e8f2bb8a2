package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain/models"
	"storefront/internal/repository"
)

func (s *Store) AppendOrder(ctx context.Context, o models.Order) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx,
			s.rebind(`SELECT COUNT(*) FROM orders WHERE id = ?`), o.ID).Scan(&n); err != nil {
			return fmt.Errorf("count order %s: %w", o.ID, err)
		}
		if n > 0 {
			return repository.ErrDuplicate
		}

		_, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO orders
			(id, product_id, title, brand, unit, price, qty, subtotal, category, discount, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			o.ID, o.ProductID, o.Title, o.Brand, o.Unit, o.Price, o.Qty, o.Subtotal, o.Category, o.Discount, o.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert order %s: %w", o.ID, err)
		}
		s.log.Debug("order row inserted", "id", o.ID, "dialect", s.dialect)
		return nil
	})
}

func (s *Store) GetOrder(ctx context.Context, id string) (models.Order, error) {
	var o models.Order
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT
		id, product_id, title, brand, unit, price, qty, subtotal, category, discount, created_at
		FROM orders WHERE id = ?`), id,
	).Scan(&o.ID, &o.ProductID, &o.Title, &o.Brand, &o.Unit, &o.Price, &o.Qty, &o.Subtotal, &o.Category, &o.Discount, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, repository.ErrNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("select order %s: %w", id, err)
	}
	return o, nil
}
