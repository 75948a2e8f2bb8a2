package catalog

import (
	"storefront/internal/domain/field"
	"storefront/internal/domain/models"
)

// fieldDef binds a Field to its wire name, its normalization rule and the
// value it renders. prev is the stored card with the same id, or nil.
type fieldDef struct {
	name      string
	normalize func(in *CardInput, pos int, sch *Schema, prev *models.Card, out *models.Card)
	value     func(c *models.Card) any
}

var fieldDefs = [...]fieldDef{
	FieldID: {
		name:  "id",
		value: func(c *models.Card) any { return c.ID },
	},
	FieldBrand: {
		name: "brand",
		normalize: func(in *CardInput, _ int, _ *Schema, _ *models.Card, out *models.Card) {
			out.Brand = in.Brand.Trimmed("")
		},
		value: func(c *models.Card) any { return c.Brand },
	},
	FieldTitle: {
		name: "title",
		normalize: func(in *CardInput, _ int, _ *Schema, _ *models.Card, out *models.Card) {
			out.Title = in.Title.Trimmed("")
		},
		value: func(c *models.Card) any { return c.Title },
	},
	FieldDesc: {
		name: "desc",
		normalize: func(in *CardInput, _ int, _ *Schema, _ *models.Card, out *models.Card) {
			out.Desc = in.Desc.Trimmed("")
		},
		value: func(c *models.Card) any { return c.Desc },
	},
	FieldImg: {
		name: "img",
		normalize: func(in *CardInput, _ int, _ *Schema, _ *models.Card, out *models.Card) {
			out.Img = in.Img.Trimmed("")
		},
		value: func(c *models.Card) any { return c.Img },
	},
	// blog posts name their picture "image" and accept "img" as well.
	FieldImage: {
		name: "image",
		normalize: func(in *CardInput, _ int, _ *Schema, _ *models.Card, out *models.Card) {
			out.Img = in.Image.Trimmed(in.Img.Trimmed(""))
		},
		value: func(c *models.Card) any { return c.Img },
	},
	FieldDate: {
		name: "date",
		normalize: func(in *CardInput, _ int, _ *Schema, _ *models.Card, out *models.Card) {
			out.Date = in.Date.Trimmed("")
		},
		value: func(c *models.Card) any { return c.Date },
	},
	FieldTag: {
		name: "tag",
		normalize: func(in *CardInput, _ int, _ *Schema, _ *models.Card, out *models.Card) {
			out.Tag = in.Tag.Trimmed("")
		},
		value: func(c *models.Card) any { return c.Tag },
	},
	FieldExcerpt: {
		name: "excerpt",
		normalize: func(in *CardInput, _ int, _ *Schema, _ *models.Card, out *models.Card) {
			out.Excerpt = in.Excerpt.Trimmed("")
		},
		value: func(c *models.Card) any { return c.Excerpt },
	},
	FieldVisible: {
		name: "visible",
		normalize: func(in *CardInput, _ int, _ *Schema, _ *models.Card, out *models.Card) {
			out.Visible = in.Visible.Or(true)
		},
		value: func(c *models.Card) any { return c.Visible },
	},
	FieldCategory: {
		name: "category",
		normalize: func(in *CardInput, _ int, sch *Schema, _ *models.Card, out *models.Card) {
			out.Category = field.Category(in.Category, sch.Defaults.Category)
		},
		value: func(c *models.Card) any { return c.Category },
	},
	FieldUnit: {
		name: "unit",
		normalize: func(in *CardInput, _ int, sch *Schema, _ *models.Card, out *models.Card) {
			out.Unit = in.Unit.Trimmed(sch.Defaults.Unit)
		},
		value: func(c *models.Card) any { return c.Unit },
	},
	FieldPrice: {
		name: "price",
		normalize: func(in *CardInput, _ int, sch *Schema, _ *models.Card, out *models.Card) {
			out.Price = field.Price(in.Price, sch.Defaults.Price)
		},
		value: func(c *models.Card) any { return c.Price },
	},
	FieldRating: {
		name: "rating",
		normalize: func(in *CardInput, _ int, sch *Schema, _ *models.Card, out *models.Card) {
			out.Rating = field.Rating(in.Rating, sch.Defaults.Rating)
		},
		value: func(c *models.Card) any { return c.Rating },
	},
	FieldDiscount: {
		name: "discount",
		normalize: func(in *CardInput, _ int, _ *Schema, _ *models.Card, out *models.Card) {
			out.Discount = field.Discount(in.Discount)
		},
		value: func(c *models.Card) any { return c.Discount },
	},
	FieldOrder: {
		name: "order",
		normalize: func(in *CardInput, pos int, _ *Schema, _ *models.Card, out *models.Card) {
			out.Order = field.Order(in.Order, pos)
		},
		value: func(c *models.Card) any { return c.Order },
	},
	// stock and sales counters survive a save that leaves them out.
	FieldQty: {
		name: "qty",
		normalize: func(in *CardInput, _ int, _ *Schema, prev *models.Card, out *models.Card) {
			def := 0
			if prev != nil {
				def = prev.Qty
			}
			out.Qty = field.Count(in.Qty, def)
		},
		value: func(c *models.Card) any { return c.Qty },
	},
	FieldOrders: {
		name: "orders",
		normalize: func(in *CardInput, _ int, _ *Schema, prev *models.Card, out *models.Card) {
			def := 0
			if prev != nil {
				def = prev.Orders
			}
			out.Orders = field.Count(in.Orders, def)
		},
		value: func(c *models.Card) any { return c.Orders },
	},
}

// normalizeCard builds the stored card for the input at position pos.
func normalizeCard(sch *Schema, in *CardInput, pos int, id string, prev *models.Card) models.Card {
	out := models.Card{ID: id}
	for _, f := range sch.Fields {
		if fn := fieldDefs[f].normalize; fn != nil {
			fn(in, pos, sch, prev, &out)
		}
	}
	return out
}
