package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/models"
	"storefront/internal/repository/repotest"
)

func openSQLite(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, Options{Dialect: SQLite, DSN: filepath.Join(t.TempDir(), "storefront.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.EnsureSchema(ctx))
	return s
}

func TestSQLiteStore(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repotest.Backend {
		return openSQLite(t)
	})
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	s := openSQLite(t)
	require.NoError(t, s.EnsureSchema(context.Background()))
}

func TestCardFieldsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	in := models.Card{
		ID: "post", Title: "Post", Date: "Jan 1", Tag: "News", Excerpt: "Short",
		Img: "/uploads/a.png", Visible: false, Order: 3,
	}
	require.NoError(t, s.ReplaceSection(ctx, models.Section{Key: "blogs", Title: "Blog", CtaText: "All", CtaHref: "/blog", Cards: []models.Card{in}}))

	sec, err := s.LoadSection(ctx, "blogs")
	require.NoError(t, err)
	assert.Equal(t, "All", sec.CtaText)
	assert.Equal(t, "/blog", sec.CtaHref)
	assert.NotEmpty(t, sec.UpdatedAt)
	require.Len(t, sec.Cards, 1)
	assert.Equal(t, in, sec.Cards[0])
}

func TestParseDialect(t *testing.T) {
	for in, want := range map[string]Dialect{
		"":           SQLite,
		"sqlite3":    SQLite,
		"MySQL":      MySQL,
		"mariadb":    MySQL,
		"postgresql": Postgres,
		"pgx":        Postgres,
	} {
		got, err := ParseDialect(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDialect("oracle")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	pg := New(nil, Postgres, nil)
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", pg.rebind("SELECT a FROM t WHERE x = ? AND y = ?"))

	my := New(nil, MySQL, nil)
	assert.Equal(t, "SELECT ?", my.rebind("SELECT ?"))
}

func TestOpenRejectsEmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), Options{Dialect: SQLite})
	assert.Error(t, err)
}
