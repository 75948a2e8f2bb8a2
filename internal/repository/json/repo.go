package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"storefront/internal/domain/models"
	"storefront/internal/repository"
)

// Repo keeps one JSON document per section under Dir/sections and the order
// log in Dir/orders.json. Every write replaces the whole file through a
// synced temp file and a rename, so readers see either the old or the new
// document. Writers in this process are serialized by mu.
type Repo struct {
	Dir string
	Log *slog.Logger

	mu sync.Mutex
}

var (
	_ repository.Sections = (*Repo)(nil)
	_ repository.Orders   = (*Repo)(nil)
)

func New(dir string, log *slog.Logger) *Repo {
	if log == nil {
		log = slog.Default()
	}
	return &Repo{Dir: dir, Log: log}
}

type sectionDoc struct {
	Title     string        `json:"title"`
	CtaText   string        `json:"ctaText,omitempty"`
	CtaHref   string        `json:"ctaHref,omitempty"`
	Cards     []models.Card `json:"cards"`
	Items     []models.Card `json:"items,omitempty"`
	UpdatedAt string        `json:"updatedAt,omitempty"`
}

func (r *Repo) sectionPath(key string) string {
	return filepath.Join(r.Dir, "sections", key+".json")
}

func (r *Repo) ordersPath() string {
	return filepath.Join(r.Dir, "orders.json")
}

func (r *Repo) LoadSection(ctx context.Context, key string) (models.Section, error) {
	if err := ctx.Err(); err != nil {
		return models.Section{}, err
	}
	return r.readSection(key)
}

// readSection treats a missing or undecodable document as not stored.
func (r *Repo) readSection(key string) (models.Section, error) {
	path := r.sectionPath(key)
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.Section{}, repository.ErrNotFound
	}
	if err != nil {
		return models.Section{}, err
	}

	var doc sectionDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		r.Log.Warn("section json unreadable, using default", "path", path, "err", err)
		return models.Section{}, repository.ErrNotFound
	}
	cards := doc.Cards
	if cards == nil {
		cards = doc.Items
	}
	if cards == nil {
		cards = []models.Card{}
	}
	return models.Section{
		Key:       key,
		Title:     doc.Title,
		CtaText:   doc.CtaText,
		CtaHref:   doc.CtaHref,
		Cards:     cards,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func (r *Repo) EnsureSection(ctx context.Context, sec models.Section) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := os.Stat(r.sectionPath(sec.Key)); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return r.writeSection(sec)
}

func (r *Repo) ReplaceSection(ctx context.Context, sec models.Section) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.writeSection(sec); err != nil {
		return err
	}
	r.Log.Debug("section json saved", "path", r.sectionPath(sec.Key), "count", len(sec.Cards))
	return nil
}

func (r *Repo) writeSection(sec models.Section) error {
	cards := sec.Cards
	if cards == nil {
		cards = []models.Card{}
	}
	return r.saveAny(r.sectionPath(sec.Key), sectionDoc{
		Title:     sec.Title,
		CtaText:   sec.CtaText,
		CtaHref:   sec.CtaHref,
		Cards:     cards,
		UpdatedAt: sec.UpdatedAt,
	})
}

func (r *Repo) GetCard(ctx context.Context, key, id string) (models.Card, error) {
	sec, err := r.LoadSection(ctx, key)
	if err != nil {
		return models.Card{}, err
	}
	for _, c := range sec.Cards {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Card{}, repository.ErrNotFound
}

func (r *Repo) DecrementStock(ctx context.Context, key, id string, qty int, countOrders bool) (models.StockLevel, error) {
	if err := ctx.Err(); err != nil {
		return models.StockLevel{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	sec, err := r.readSection(key)
	if err != nil {
		return models.StockLevel{}, err
	}

	idx := -1
	for i := range sec.Cards {
		if sec.Cards[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.StockLevel{}, repository.ErrNotFound
	}

	c := &sec.Cards[idx]
	if c.Qty <= 0 || qty > c.Qty {
		return models.StockLevel{Qty: c.Qty, Orders: c.Orders}, repository.ErrInsufficientStock
	}
	c.Qty -= qty
	if countOrders {
		c.Orders += qty
	}

	if err := r.writeSection(sec); err != nil {
		return models.StockLevel{}, err
	}
	return models.StockLevel{Qty: c.Qty, Orders: c.Orders}, nil
}

func (r *Repo) CountCards(ctx context.Context, key string) (int, error) {
	sec, err := r.LoadSection(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return len(sec.Cards), nil
}

func (r *Repo) AppendOrder(ctx context.Context, o models.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	log, err := r.readOrders()
	if err != nil {
		return err
	}
	for _, x := range log {
		if x.ID == o.ID {
			return repository.ErrDuplicate
		}
	}
	log = append(log, o)
	if err := r.saveAny(r.ordersPath(), log); err != nil {
		return err
	}
	r.Log.Debug("orders json saved", "path", r.ordersPath(), "count", len(log))
	return nil
}

func (r *Repo) GetOrder(ctx context.Context, id string) (models.Order, error) {
	if err := ctx.Err(); err != nil {
		return models.Order{}, err
	}
	log, err := r.readOrders()
	if err != nil {
		return models.Order{}, err
	}
	for _, o := range log {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Order{}, repository.ErrNotFound
}

// readOrders fails on a corrupt log rather than starting a new one over it.
func (r *Repo) readOrders() ([]models.Order, error) {
	b, err := os.ReadFile(r.ordersPath())
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Order{}, nil
	}
	if err != nil {
		return nil, err
	}
	var log []models.Order
	if err := json.Unmarshal(b, &log); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.ordersPath(), err)
	}
	return log, nil
}

func (r *Repo) saveAny(path string, v any) error {
	if r.Dir == "" {
		return fmt.Errorf("jsonfile repo: empty dir")
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	_ = tmp.Chmod(0o644)
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
