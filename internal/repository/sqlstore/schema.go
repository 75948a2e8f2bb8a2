package sqlstore

import (
	"context"
	"fmt"
)

type columnTypes struct {
	key, short, long, real, integer, boolean string
}

var dialectTypes = map[Dialect]columnTypes{
	SQLite:   {key: "TEXT", short: "TEXT", long: "TEXT", real: "REAL", integer: "INTEGER", boolean: "BOOLEAN"},
	Postgres: {key: "VARCHAR(64)", short: "VARCHAR(255)", long: "TEXT", real: "DOUBLE PRECISION", integer: "INTEGER", boolean: "BOOLEAN"},
	MySQL:    {key: "VARCHAR(64)", short: "VARCHAR(255)", long: "VARCHAR(2000)", real: "DOUBLE", integer: "INT", boolean: "BOOLEAN"},
}

func (s *Store) schemaStatements() []string {
	t := dialectTypes[s.dialect]

	sections := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS sections (
	section_key %[1]s NOT NULL PRIMARY KEY,
	title %[2]s NOT NULL,
	cta_text %[2]s NOT NULL,
	cta_href %[3]s NOT NULL,
	created_at %[1]s NOT NULL,
	updated_at %[1]s NOT NULL
)`, t.key, t.short, t.long)

	cardIndex := ""
	if s.dialect == MySQL {
		cardIndex = ",\n\tKEY idx_section_cards_order (section_key, sort_order)"
	}
	cards := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS section_cards (
	section_key %[1]s NOT NULL,
	id %[1]s NOT NULL,
	brand %[2]s NOT NULL,
	title %[2]s NOT NULL,
	description %[3]s NOT NULL,
	img %[3]s NOT NULL,
	date_label %[2]s NOT NULL,
	tag %[2]s NOT NULL,
	excerpt %[3]s NOT NULL,
	visible %[6]s NOT NULL,
	category %[2]s NOT NULL,
	unit %[2]s NOT NULL,
	price %[4]s NOT NULL,
	rating %[4]s NOT NULL,
	discount %[5]s NOT NULL,
	sort_order %[5]s NOT NULL,
	qty %[5]s NOT NULL,
	orders_count %[5]s NOT NULL,
	created_at %[1]s NOT NULL,
	updated_at %[1]s NOT NULL,
	PRIMARY KEY (section_key, id)%[7]s
)`, t.key, t.short, t.long, t.real, t.integer, t.boolean, cardIndex)

	orderIndex := ""
	if s.dialect == MySQL {
		orderIndex = ",\n\tKEY idx_orders_product (product_id)"
	}
	orders := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS orders (
	id %[1]s NOT NULL PRIMARY KEY,
	product_id %[1]s NOT NULL,
	title %[2]s NOT NULL,
	brand %[2]s NOT NULL,
	unit %[2]s NOT NULL,
	price %[3]s NOT NULL,
	qty %[4]s NOT NULL,
	subtotal %[3]s NOT NULL,
	category %[2]s NOT NULL,
	discount %[4]s NOT NULL,
	created_at %[2]s NOT NULL%[5]s
)`, t.key, t.short, t.real, t.integer, orderIndex)

	stmts := []string{sections, cards, orders}
	if s.dialect != MySQL {
		stmts = append(stmts,
			`CREATE INDEX IF NOT EXISTS idx_section_cards_order ON section_cards (section_key, sort_order)`,
			`CREATE INDEX IF NOT EXISTS idx_orders_product ON orders (product_id)`,
		)
	}
	return stmts
}

// EnsureSchema creates the tables the store needs when they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, q := range s.schemaStatements() {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure schema (%s): %w", s.dialect, err)
		}
	}
	s.log.Debug("sql schema ready", "dialect", s.dialect)
	return nil
}
