package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"

	"storefront/internal/domain/models"
)

// View is the canonical form of a section as clients see it: the section
// header plus the fields its schema exposes for each card.
type View struct {
	schema *Schema

	Title   string
	CtaText string
	CtaHref string
	Cards   []models.Card
}

func (v View) Schema() *Schema { return v.schema }

func (v View) MarshalJSON() ([]byte, error) { return v.encode(false) }

// Saved is the response to a successful write; it carries "ok": true in
// front of the view.
type Saved struct {
	View
}

func (s Saved) MarshalJSON() ([]byte, error) { return s.View.encode(true) }

func newView(sch *Schema, sec models.Section) View {
	cards := make([]models.Card, len(sec.Cards))
	copy(cards, sec.Cards)
	sortCards(cards)
	if len(cards) > sch.Cap {
		cards = cards[:sch.Cap]
	}

	v := View{schema: sch, Title: sec.Title, Cards: cards}
	if v.Title == "" {
		v.Title = sch.DefaultTitle
	}
	if sch.CTA != nil {
		v.CtaText = firstNonEmpty(sec.CtaText, sch.CTA.Text)
		v.CtaHref = firstNonEmpty(sec.CtaHref, sch.CTA.Href)
	}
	return v
}

// sortCards orders by position, then title.
func sortCards(cards []models.Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Order != cards[j].Order {
			return cards[i].Order < cards[j].Order
		}
		return cards[i].Title < cards[j].Title
	})
}

func (v View) encode(ok bool) ([]byte, error) {
	if v.schema == nil {
		return nil, errors.New("catalog: view without schema")
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	if ok {
		buf.WriteString(`"ok":true,`)
	}
	if err := writeMember(&buf, "title", v.Title); err != nil {
		return nil, err
	}
	if v.schema.CTA != nil {
		buf.WriteByte(',')
		if err := writeMember(&buf, "ctaText", v.CtaText); err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		if err := writeMember(&buf, "ctaHref", v.CtaHref); err != nil {
			return nil, err
		}
	}

	buf.WriteString(`,"cards":[`)
	for i := range v.Cards {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, f := range v.schema.Fields {
			if j > 0 {
				buf.WriteByte(',')
			}
			def := fieldDefs[f]
			if err := writeMember(&buf, def.name, def.value(&v.Cards[i])); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteString("]}")
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, name string, value any) error {
	k, err := json.Marshal(name)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
