package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/orders"
	jsonfile "storefront/internal/repository/json"
)

func writeConfig(t *testing.T, dataDir string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := "env: local\nlocal:\n  storage:\n    backend: json\n    data_dir: " + dataDir + "\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath, verbose, legacyDir, exportOut = "", false, "", ""

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrateAndExport(t *testing.T) {
	data := t.TempDir()
	legacy := t.TempDir()
	cfg := writeConfig(t, data)
	require.NoError(t, os.WriteFile(filepath.Join(legacy, "trending.json"),
		[]byte(`{"title":"Hot","cards":[{"id":"t1","title":"Tea","qty":3}]}`), 0o644))

	out, err := run(t, "--config", cfg, "migrate", "--dir", legacy)
	require.NoError(t, err)
	assert.Contains(t, out, "trending")
	assert.Contains(t, out, "true")

	out, err = run(t, "--config", cfg, "export", "trending", "blogs")
	require.NoError(t, err)
	var views map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	assert.Len(t, views, 2)
	assert.Equal(t, "Hot", views["trending"]["title"])
	assert.Equal(t, "Read All Article", views["blogs"]["ctaText"])

	dest := filepath.Join(t.TempDir(), "backup.json")
	_, err = run(t, "--config", cfg, "export", "--out", dest)
	require.NoError(t, err)
	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &views))
	assert.Len(t, views, 6)

	_, err = run(t, "--config", cfg, "export", "clearance")
	assert.Error(t, err)
}

func TestSectionsListing(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())
	out, err := run(t, "--config", cfg, "sections")
	require.NoError(t, err)
	assert.Contains(t, out, "SECTION")
	assert.Contains(t, out, "best-selling-products")
	assert.Contains(t, out, "Our Recent Blog")
}

func TestOrderGet(t *testing.T) {
	data := t.TempDir()
	cfg := writeConfig(t, data)

	svc := orders.New(jsonfile.New(data, nil), nil)
	in, err := orders.DecodeInput([]byte(`{"id":"o-1","productId":"p","qty":2}`))
	require.NoError(t, err)
	_, err = svc.Append(context.Background(), in)
	require.NoError(t, err)

	out, err := run(t, "--config", cfg, "order", "get", "o-1")
	require.NoError(t, err)
	assert.Contains(t, out, `"productId": "p"`)

	_, err = run(t, "--config", cfg, "order", "get", "missing")
	assert.Error(t, err)
}
