package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"storefront/internal/apperr"
	"storefront/internal/domain/field"
)

// CardInput is one submitted card. Every field is optional; the section
// schema decides which ones are read and what they default to.
type CardInput struct {
	ID       field.Text   `json:"id"`
	Brand    field.Text   `json:"brand"`
	Title    field.Text   `json:"title"`
	Desc     field.Text   `json:"desc"`
	Img      field.Text   `json:"img"`
	Image    field.Text   `json:"image"`
	Date     field.Text   `json:"date"`
	Tag      field.Text   `json:"tag"`
	Excerpt  field.Text   `json:"excerpt"`
	Visible  field.Flag   `json:"visible"`
	Category field.Text   `json:"category"`
	Unit     field.Text   `json:"unit"`
	Price    field.Number `json:"price"`
	Rating   field.Number `json:"rating"`
	Discount field.Number `json:"discount"`
	Order    field.Number `json:"order"`
	Qty      field.Number `json:"qty"`
	Orders   field.Number `json:"orders"`

	// malformed is set when the list element was not a JSON object.
	malformed bool
}

// Payload is a full replacement document for a section.
type Payload struct {
	Title   field.Text
	CtaText field.Text
	CtaHref field.Text
	Cards   []CardInput
}

const badJSON = "Invalid or missing JSON; set Content-Type: application/json"

// DecodePayload reads a section document. The card list comes from "cards",
// or from "items" when "cards" is not a list; with neither the section is
// saved empty. A body that is not a JSON object is a PayloadError.
func DecodePayload(b []byte) (Payload, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return Payload{}, apperr.Payload(badJSON)
	}
	if !json.Valid(b) {
		return Payload{}, &apperr.PayloadError{Message: "Bad JSON", Detail: syntaxDetail(b)}
	}
	if b[0] != '{' {
		return Payload{}, apperr.Payload("payload must be a JSON object")
	}

	var raw struct {
		Title   field.Text      `json:"title"`
		CtaText field.Text      `json:"ctaText"`
		CtaHref field.Text      `json:"ctaHref"`
		Cards   json.RawMessage `json:"cards"`
		Items   json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return Payload{}, &apperr.PayloadError{Message: "Bad JSON", Detail: err.Error()}
	}

	list := raw.Cards
	if !isArray(list) {
		list = raw.Items
	}

	p := Payload{Title: raw.Title, CtaText: raw.CtaText, CtaHref: raw.CtaHref}
	if !isArray(list) {
		return p, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(list, &elems); err != nil {
		return Payload{}, &apperr.PayloadError{Message: "Bad JSON", Detail: err.Error()}
	}
	p.Cards = make([]CardInput, 0, len(elems))
	for _, e := range elems {
		var c CardInput
		if !isObject(e) {
			c.malformed = true
			p.Cards = append(p.Cards, c)
			continue
		}
		if err := json.Unmarshal(e, &c); err != nil {
			return Payload{}, &apperr.PayloadError{Message: "Bad JSON", Detail: err.Error()}
		}
		p.Cards = append(p.Cards, c)
	}
	return p, nil
}

// StockRequest is the body of the order and check-qty endpoints.
type StockRequest struct {
	ProductID field.Text      `json:"productId"`
	ID        field.Text      `json:"id"`
	Qty       json.RawMessage `json:"qty"`
}

// DecodeStockRequest returns the card id (productId wins over id) and the
// requested quantity. An absent or empty qty (null, 0, "", false, [], {})
// means one unit. Anything else is truncated and floored at 0, and a value
// that is not a number reads as 0, so the order path rejects it.
func DecodeStockRequest(b []byte) (id string, qty int, err error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || !json.Valid(b) {
		return "", 0, &apperr.PayloadError{Message: "Bad JSON", Detail: syntaxDetail(b)}
	}
	if b[0] != '{' {
		return "", 0, apperr.Payload("payload must be a JSON object")
	}
	var req StockRequest
	if err := json.Unmarshal(b, &req); err != nil {
		return "", 0, &apperr.PayloadError{Message: "Bad JSON", Detail: err.Error()}
	}

	id = req.ProductID.Trimmed("")
	if id == "" {
		id = req.ID.Trimmed("")
	}

	return id, stockQty(req.Qty), nil
}

func stockQty(raw json.RawMessage) int {
	var set field.Flag
	if len(raw) == 0 || json.Unmarshal(raw, &set) != nil || !set.Value {
		return 1
	}
	var n field.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	v, ok := n.Int()
	if !ok {
		return 0
	}
	return max(0, v)
}

func isArray(b json.RawMessage) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '['
}

func isObject(b json.RawMessage) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '{'
}

func syntaxDetail(b []byte) string {
	if len(b) == 0 {
		return "empty body"
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("unexpected %T", v)
}
