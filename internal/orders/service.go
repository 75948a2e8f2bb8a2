package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront/internal/apperr"
	"storefront/internal/domain/field"
	"storefront/internal/domain/models"
	"storefront/internal/repository"
)

// createdAtLayout matches the timestamps older clients already stored.
const createdAtLayout = "2006-01-02T15:04:05.000000Z"

// Input is a submitted order. Only productId is required.
type Input struct {
	ID        field.Text   `json:"id"`
	ProductID field.Text   `json:"productId"`
	Title     field.Text   `json:"title"`
	Brand     field.Text   `json:"brand"`
	Unit      field.Text   `json:"unit"`
	Price     field.Number `json:"price"`
	Qty       field.Number `json:"qty"`
	Subtotal  field.Number `json:"subtotal"`
	Category  field.Text   `json:"category"`
	Discount  field.Number `json:"discount"`
	CreatedAt field.Text   `json:"createdAt"`
}

func DecodeInput(b []byte) (Input, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || !json.Valid(b) {
		return Input{}, apperr.Payload("Invalid or missing JSON; set Content-Type: application/json")
	}
	if b[0] != '{' {
		return Input{}, apperr.Payload("payload must be a JSON object")
	}
	var in Input
	if err := json.Unmarshal(b, &in); err != nil {
		return Input{}, &apperr.PayloadError{Message: "Bad JSON", Detail: err.Error()}
	}
	return in, nil
}

// Service is the append-only order log.
type Service struct {
	repo repository.Orders
	log  *slog.Logger
	now  func() time.Time
}

func New(repo repository.Orders, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, log: logger, now: time.Now}
}

// Append normalizes and stores an order. The subtotal is kept as sent.
func (s *Service) Append(ctx context.Context, in Input) (models.Order, error) {
	o := models.Order{
		ID:        in.ID.Trimmed(""),
		ProductID: in.ProductID.Trimmed(""),
		Title:     in.Title.Trimmed(""),
		Brand:     in.Brand.Trimmed(""),
		Unit:      in.Unit.Trimmed(""),
		Price:     field.Price(in.Price, 0),
		Qty:       max(1, field.Count(in.Qty, 1)),
		Subtotal:  field.Price(in.Subtotal, 0),
		Category:  in.Category.Trimmed(""),
		Discount:  field.Discount(in.Discount),
		CreatedAt: in.CreatedAt.Trimmed(""),
	}
	if o.ProductID == "" {
		return models.Order{}, apperr.Payload("productId is required")
	}
	if o.ID == "" {
		o.ID = strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	if o.CreatedAt == "" {
		o.CreatedAt = s.now().UTC().Format(createdAtLayout)
	}

	if err := s.repo.AppendOrder(ctx, o); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.Order{}, apperr.Payloadf("order %q already exists", o.ID)
		}
		return models.Order{}, apperr.Persistence("append order", err)
	}
	s.log.Info("order stored", "id", o.ID, "product_id", o.ProductID, "qty", o.Qty)
	return o, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.Order, error) {
	id = strings.TrimSpace(id)
	o, err := s.repo.GetOrder(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Order{}, &apperr.NotFoundError{What: "order", ID: id}
	}
	if err != nil {
		return models.Order{}, apperr.Persistence("get order", err)
	}
	return o, nil
}
