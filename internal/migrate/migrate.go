// Package migrate imports the legacy per-section JSON documents into the
// configured store. A section that already holds cards is left alone, so
// running it on every start is safe.
package migrate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"storefront/internal/catalog"
)

// Result reports what happened to one section.
type Result struct {
	Section  string
	File     string
	Imported bool
	Reason   string
}

// Run imports every registered section whose legacy file exists in dir.
// It stops at the first storage error; unreadable legacy documents are
// skipped with a warning.
func Run(ctx context.Context, svc *catalog.Service, dir string, log *slog.Logger) ([]Result, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "migrate", "dir", dir)

	var out []Result
	for _, sch := range catalog.All() {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		res, err := runOne(ctx, svc, sch, dir)
		if err != nil {
			return out, fmt.Errorf("migrate %s: %w", sch.Key, err)
		}
		out = append(out, res)

		switch {
		case res.Imported:
			log.Info("legacy section imported", "section", res.Section, "file", res.File)
		case res.Reason == "unreadable":
			log.Warn("legacy section skipped", "section", res.Section, "file", res.File, "reason", res.Reason)
		default:
			log.Debug("legacy section skipped", "section", res.Section, "reason", res.Reason)
		}
	}
	return out, nil
}

func runOne(ctx context.Context, svc *catalog.Service, sch *catalog.Schema, dir string) (Result, error) {
	res := Result{Section: sch.Key}
	if sch.LegacyFile == "" {
		res.Reason = "no legacy file"
		return res, nil
	}
	res.File = filepath.Join(dir, sch.LegacyFile)

	b, err := os.ReadFile(res.File)
	if errors.Is(err, fs.ErrNotExist) {
		res.Reason = "missing"
		return res, nil
	}
	if err != nil {
		return res, err
	}

	p, err := DecodeLegacy(b)
	if err != nil {
		res.Reason = "unreadable"
		return res, nil
	}

	imported, err := svc.ImportLegacy(ctx, sch, p)
	if err != nil {
		return res, err
	}
	res.Imported = imported
	if !imported {
		res.Reason = "already populated"
	}
	return res, nil
}

// DecodeLegacy accepts a section document or a bare list of cards.
func DecodeLegacy(b []byte) (catalog.Payload, error) {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		wrapped := make([]byte, 0, len(b)+10)
		wrapped = append(wrapped, `{"cards":`...)
		wrapped = append(wrapped, b...)
		wrapped = append(wrapped, '}')
		b = wrapped
	}
	return catalog.DecodePayload(b)
}
