package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain/models"
	"storefront/internal/repository"
)

const cardColumns = `id, brand, title, description, img, date_label, tag, excerpt, visible,
	category, unit, price, rating, discount, sort_order, qty, orders_count`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(sc rowScanner) (models.Card, error) {
	var c models.Card
	err := sc.Scan(&c.ID, &c.Brand, &c.Title, &c.Desc, &c.Img, &c.Date, &c.Tag, &c.Excerpt, &c.Visible,
		&c.Category, &c.Unit, &c.Price, &c.Rating, &c.Discount, &c.Order, &c.Qty, &c.Orders)
	return c, err
}

func (s *Store) LoadSection(ctx context.Context, key string) (models.Section, error) {
	var sec models.Section
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		sec = models.Section{Key: key}
		err := tx.QueryRowContext(ctx,
			s.rebind(`SELECT title, cta_text, cta_href, updated_at FROM sections WHERE section_key = ?`), key,
		).Scan(&sec.Title, &sec.CtaText, &sec.CtaHref, &sec.UpdatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("select section %s: %w", key, err)
		}

		rows, err := tx.QueryContext(ctx, s.rebind(`SELECT `+cardColumns+`
			FROM section_cards WHERE section_key = ?
			ORDER BY sort_order ASC, title ASC, id ASC`), key)
		if err != nil {
			return fmt.Errorf("select cards %s: %w", key, err)
		}
		defer rows.Close()

		sec.Cards = []models.Card{}
		for rows.Next() {
			c, err := scanCard(rows)
			if err != nil {
				return fmt.Errorf("scan card: %w", err)
			}
			sec.Cards = append(sec.Cards, c)
		}
		return rows.Err()
	})
	if err != nil {
		return models.Section{}, err
	}
	return sec, nil
}

func (s *Store) EnsureSection(ctx context.Context, sec models.Section) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		exists, err := s.sectionExists(ctx, tx, sec.Key)
		if err != nil || exists {
			return err
		}
		now := s.stamp()
		_, err = tx.ExecContext(ctx, s.rebind(`INSERT INTO sections
			(section_key, title, cta_text, cta_href, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`),
			sec.Key, sec.Title, sec.CtaText, sec.CtaHref, now, now)
		if err != nil {
			return fmt.Errorf("insert section %s: %w", sec.Key, err)
		}
		return nil
	})
}

func (s *Store) sectionExists(ctx context.Context, tx *sql.Tx, key string) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM sections WHERE section_key = ?`), key).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count section %s: %w", key, err)
	}
	return n > 0, nil
}

func (s *Store) ReplaceSection(ctx context.Context, sec models.Section) error {
	now := s.stamp()
	updatedAt := sec.UpdatedAt
	if updatedAt == "" {
		updatedAt = now
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		exists, err := s.sectionExists(ctx, tx, sec.Key)
		if err != nil {
			return err
		}
		if exists {
			_, err = tx.ExecContext(ctx, s.rebind(`UPDATE sections
				SET title = ?, cta_text = ?, cta_href = ?, updated_at = ? WHERE section_key = ?`),
				sec.Title, sec.CtaText, sec.CtaHref, updatedAt, sec.Key)
		} else {
			_, err = tx.ExecContext(ctx, s.rebind(`INSERT INTO sections
				(section_key, title, cta_text, cta_href, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`),
				sec.Key, sec.Title, sec.CtaText, sec.CtaHref, now, updatedAt)
		}
		if err != nil {
			return fmt.Errorf("write section %s: %w", sec.Key, err)
		}

		stored, err := s.cardIDs(ctx, tx, sec.Key)
		if err != nil {
			return err
		}

		keep := make(map[string]struct{}, len(sec.Cards))
		for _, c := range sec.Cards {
			keep[c.ID] = struct{}{}
		}
		for id := range stored {
			if _, ok := keep[id]; ok {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				s.rebind(`DELETE FROM section_cards WHERE section_key = ? AND id = ?`), sec.Key, id); err != nil {
				return fmt.Errorf("delete card %s: %w", id, err)
			}
		}

		for _, c := range sec.Cards {
			if _, ok := stored[c.ID]; ok {
				err = s.updateCard(ctx, tx, sec.Key, c, now)
			} else {
				err = s.insertCard(ctx, tx, sec.Key, c, now)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) cardIDs(ctx context.Context, tx *sql.Tx, key string) (map[string]struct{}, error) {
	rows, err := tx.QueryContext(ctx, s.rebind(`SELECT id FROM section_cards WHERE section_key = ?`), key)
	if err != nil {
		return nil, fmt.Errorf("select card ids %s: %w", key, err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan card id: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

func (s *Store) insertCard(ctx context.Context, tx *sql.Tx, key string, c models.Card, now string) error {
	_, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO section_cards
		(section_key, `+cardColumns+`, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		key, c.ID, c.Brand, c.Title, c.Desc, c.Img, c.Date, c.Tag, c.Excerpt, c.Visible,
		c.Category, c.Unit, c.Price, c.Rating, c.Discount, c.Order, c.Qty, c.Orders, now, now)
	if err != nil {
		return fmt.Errorf("insert card %s: %w", c.ID, err)
	}
	return nil
}

func (s *Store) updateCard(ctx context.Context, tx *sql.Tx, key string, c models.Card, now string) error {
	_, err := tx.ExecContext(ctx, s.rebind(`UPDATE section_cards SET
		brand = ?, title = ?, description = ?, img = ?, date_label = ?, tag = ?, excerpt = ?, visible = ?,
		category = ?, unit = ?, price = ?, rating = ?, discount = ?, sort_order = ?, qty = ?, orders_count = ?,
		updated_at = ?
		WHERE section_key = ? AND id = ?`),
		c.Brand, c.Title, c.Desc, c.Img, c.Date, c.Tag, c.Excerpt, c.Visible,
		c.Category, c.Unit, c.Price, c.Rating, c.Discount, c.Order, c.Qty, c.Orders,
		now, key, c.ID)
	if err != nil {
		return fmt.Errorf("update card %s: %w", c.ID, err)
	}
	return nil
}

func (s *Store) GetCard(ctx context.Context, key, id string) (models.Card, error) {
	row := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT `+cardColumns+` FROM section_cards WHERE section_key = ? AND id = ?`), key, id)
	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Card{}, repository.ErrNotFound
	}
	if err != nil {
		return models.Card{}, fmt.Errorf("select card %s: %w", id, err)
	}
	return c, nil
}

// DecrementStock is a single conditional UPDATE, so two concurrent orders
// cannot both take the last units.
func (s *Store) DecrementStock(ctx context.Context, key, id string, qty int, countOrders bool) (models.StockLevel, error) {
	sold := 0
	if countOrders {
		sold = qty
	}

	var lvl models.StockLevel
	var short bool
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, s.rebind(`UPDATE section_cards
			SET qty = qty - ?, orders_count = orders_count + ?, updated_at = ?
			WHERE section_key = ? AND id = ? AND qty > 0 AND qty >= ?`),
			qty, sold, s.stamp(), key, id, qty)
		if err != nil {
			return fmt.Errorf("decrement card %s: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}

		err = tx.QueryRowContext(ctx,
			s.rebind(`SELECT qty, orders_count FROM section_cards WHERE section_key = ? AND id = ?`), key, id,
		).Scan(&lvl.Qty, &lvl.Orders)
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("select stock %s: %w", id, err)
		}
		short = n == 0
		return nil
	})
	if err != nil {
		return models.StockLevel{}, err
	}
	if short {
		return lvl, repository.ErrInsufficientStock
	}
	return lvl, nil
}

func (s *Store) CountCards(ctx context.Context, key string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT COUNT(*) FROM section_cards WHERE section_key = ?`), key).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count cards %s: %w", key, err)
	}
	return n, nil
}
