package bootstrap

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/config"
	"storefront/internal/images"
	jsonfile "storefront/internal/repository/json"
	"storefront/internal/repository/sqlstore"
)

func profile(t *testing.T, raw string) *config.Config {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CLOUDINARY_URL", "")
	c, err := config.Parse([]byte(raw))
	require.NoError(t, err)
	return c
}

func TestBuildStorage(t *testing.T) {
	dir := t.TempDir()
	c := profile(t, "local:\n  storage:\n    data_dir: "+dir+"\n")
	st, err := BuildStorage(context.Background(), c, slog.Default())
	require.NoError(t, err)
	assert.IsType(t, &jsonfile.Repo{}, st.Sections)
	assert.NoError(t, st.Close())

	c = profile(t, "local:\n  storage:\n    backend: sql\n    data_dir: "+dir+"\n")
	st, err = BuildStorage(context.Background(), c, slog.Default())
	require.NoError(t, err)
	defer st.Close()
	require.IsType(t, &sqlstore.Store{}, st.Sections)
	assert.FileExists(t, filepath.Join(dir, "storefront.db"))

	n, err := st.Sections.CountCards(context.Background(), "popular")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestBuildImages(t *testing.T) {
	dir := t.TempDir()
	c := profile(t, "local:\n  uploads:\n    dir: "+dir+"\n")
	store, local, err := BuildImages(c, slog.Default())
	require.NoError(t, err)
	assert.Same(t, local, store)

	c = profile(t, "local:\n  uploads:\n    dir: "+dir+"\n    backend: cloudinary\n    cloudinary_url: cloudinary://k:s@demo\n")
	store, _, err = BuildImages(c, slog.Default())
	require.NoError(t, err)
	assert.IsType(t, &images.Cloudinary{}, store)
}
