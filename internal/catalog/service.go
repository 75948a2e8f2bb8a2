package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront/internal/apperr"
	"storefront/internal/domain/field"
	"storefront/internal/domain/models"
	"storefront/internal/repository"
)

// Service is the section store: it loads, normalizes and replaces sections
// and runs stock operations against the injected repository.
type Service struct {
	repo repository.Sections
	log  *slog.Logger

	now   func() time.Time
	newID func() string
}

func New(repo repository.Sections, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:  repo,
		log:   logger,
		now:   time.Now,
		newID: NewID,
	}
}

// NewID returns a random 32 character hex token.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Read returns the canonical view of a section. A section that was never
// stored, or whose storage is unreadable, reads as its empty default.
func (s *Service) Read(ctx context.Context, sch *Schema) (View, error) {
	sec, err := s.load(ctx, sch)
	if err != nil {
		return View{}, err
	}
	return newView(sch, sec), nil
}

// Save replaces the section with the normalized payload and returns the
// stored result. Cards missing from the payload are deleted.
func (s *Service) Save(ctx context.Context, sch *Schema, p Payload) (View, error) {
	cur, err := s.load(ctx, sch)
	if err != nil {
		return View{}, err
	}

	cards, err := s.normalizeCards(sch, p.Cards, cur.Cards)
	if err != nil {
		return View{}, err
	}

	next := models.Section{
		Key:       sch.Key,
		Title:     p.Title.Trimmed(firstNonEmpty(cur.Title, sch.DefaultTitle)),
		Cards:     cards,
		UpdatedAt: s.now().UTC().Format(time.RFC3339),
	}
	if sch.CTA != nil {
		next.CtaText = p.CtaText.Trimmed(firstNonEmpty(cur.CtaText, sch.CTA.Text))
		next.CtaHref = p.CtaHref.Trimmed(firstNonEmpty(cur.CtaHref, sch.CTA.Href))
	}

	if err := s.repo.ReplaceSection(ctx, next); err != nil {
		return View{}, apperr.Persistence("save section "+sch.Key, err)
	}
	s.log.Info("section saved", "section", sch.Key, "cards", len(cards))

	saved, err := s.repo.LoadSection(ctx, sch.Key)
	if err != nil {
		return View{}, apperr.Persistence("reload section "+sch.Key, err)
	}
	return newView(sch, saved), nil
}

// normalizeCards normalizes up to sch.Cap inputs and orders them by their
// order field. A repeated id keeps the later card in the earlier slot.
func (s *Service) normalizeCards(sch *Schema, in []CardInput, stored []models.Card) ([]models.Card, error) {
	prev := make(map[string]*models.Card, len(stored))
	for i := range stored {
		prev[stored[i].ID] = &stored[i]
	}

	if len(in) > sch.Cap {
		in = in[:sch.Cap]
	}

	out := make([]models.Card, 0, len(in))
	slot := make(map[string]int, len(in))
	for i := range in {
		c := &in[i]
		if c.malformed {
			return nil, apperr.Payloadf("card %d must be a JSON object", i+1)
		}
		id := c.ID.Trimmed("")
		if id == "" {
			id = s.newID()
		}
		card := normalizeCard(sch, c, i, id, prev[id])
		if j, ok := slot[id]; ok {
			out[j] = card
			continue
		}
		slot[id] = len(out)
		out = append(out, card)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

// QtyCheck is the answer to a stock check.
type QtyCheck struct {
	ID         string
	Requested  int
	Stock      int
	OutOfStock bool
	CappedQty  int
}

// Decrement takes qty units off a card's stock. It never fulfils partially.
func (s *Service) Decrement(ctx context.Context, sch *Schema, id string, qty int) (models.StockLevel, error) {
	if !sch.Stock {
		return models.StockLevel{}, &apperr.NotFoundError{What: "stock section", ID: sch.Key}
	}
	id = strings.TrimSpace(id)
	if id == "" || qty < 1 {
		return models.StockLevel{}, apperr.Payload("productId/id and positive qty required")
	}

	lvl, err := s.repo.DecrementStock(ctx, sch.Key, id, qty, sch.CountOrders)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		return models.StockLevel{}, &apperr.NotFoundError{What: "card", ID: id}
	case errors.Is(err, repository.ErrInsufficientStock):
		return models.StockLevel{}, &apperr.OutOfStockError{ID: id, Stock: max(lvl.Qty, 0)}
	default:
		return models.StockLevel{}, apperr.Persistence("decrement stock", err)
	}

	s.log.Info("stock decremented", "section", sch.Key, "id", id, "qty", qty, "left", lvl.Qty, "orders", lvl.Orders)
	return lvl, nil
}

// CheckQuantity reports how much of qty could be sold now. It does not
// change anything. A blank id is simply not found.
func (s *Service) CheckQuantity(ctx context.Context, sch *Schema, id string, qty int) (QtyCheck, error) {
	if !sch.Stock {
		return QtyCheck{}, &apperr.NotFoundError{What: "stock section", ID: sch.Key}
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return QtyCheck{}, &apperr.NotFoundError{What: "card", ID: id}
	}

	card, err := s.repo.GetCard(ctx, sch.Key, id)
	if errors.Is(err, repository.ErrNotFound) {
		return QtyCheck{}, &apperr.NotFoundError{What: "card", ID: id}
	}
	if err != nil {
		return QtyCheck{}, apperr.Persistence("get card", err)
	}

	stock := max(card.Qty, 0)
	return QtyCheck{
		ID:         id,
		Requested:  qty,
		Stock:      stock,
		OutOfStock: stock <= 0 || qty > stock,
		CappedQty:  max(0, min(qty, stock)),
	}, nil
}

// ImportLegacy saves a legacy document through the normal save path unless
// the section already holds cards. Seeded sections fill missing or zero
// price, rating and order the way the old JSON storefront did.
func (s *Service) ImportLegacy(ctx context.Context, sch *Schema, p Payload) (imported bool, err error) {
	n, err := s.repo.CountCards(ctx, sch.Key)
	if err != nil {
		return false, apperr.Persistence("count cards "+sch.Key, err)
	}
	if n > 0 {
		return false, nil
	}

	if sch.Seed != nil {
		for i := range p.Cards {
			seedCard(&p.Cards[i], sch.Seed)
		}
	}
	if _, err := s.Save(ctx, sch, p); err != nil {
		return false, err
	}
	return true, nil
}

func seedCard(c *CardInput, seed *Seed) {
	if !c.Price.Valid || c.Price.Value == 0 {
		c.Price = field.NewNumber(seed.Price)
	}
	if !c.Rating.Valid || c.Rating.Value == 0 {
		c.Rating = field.NewNumber(seed.Rating)
	}
	if !c.Order.Valid || c.Order.Value == 0 {
		c.Order = field.NewNumber(float64(seed.Order))
	}
}

func (s *Service) load(ctx context.Context, sch *Schema) (models.Section, error) {
	sec, err := s.repo.LoadSection(ctx, sch.Key)
	if err == nil {
		return sec, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return models.Section{}, apperr.Persistence("load section "+sch.Key, err)
	}

	def := models.Section{Key: sch.Key, Title: sch.DefaultTitle, Cards: []models.Card{}}
	if sch.CTA != nil {
		def.CtaText = sch.CTA.Text
		def.CtaHref = sch.CTA.Href
	}
	if err := s.repo.EnsureSection(ctx, def); err != nil {
		s.log.Warn("ensure section failed", "section", sch.Key, "err", err)
	}
	return def, nil
}
