package catalog

import (
	"strings"
)

// Field names one card attribute a section exposes.
type Field uint8

const (
	FieldID Field = iota
	FieldBrand
	FieldTitle
	FieldDesc
	FieldImg
	FieldImage
	FieldDate
	FieldTag
	FieldExcerpt
	FieldVisible
	FieldCategory
	FieldUnit
	FieldPrice
	FieldRating
	FieldDiscount
	FieldOrder
	FieldQty
	FieldOrders
)

// Defaults are the values a card field takes when the input omits it.
type Defaults struct {
	Unit     string
	Category string
	Price    float64
	Rating   float64
}

// Seed overrides missing or zero values when importing a legacy document.
type Seed struct {
	Price  float64
	Rating float64
	Order  int
}

// CTA is the call to action a section carries next to its cards.
type CTA struct {
	Text string
	Href string
}

// Schema describes one storefront section: which fields its cards have, how
// they default, how many cards it keeps and which operations it supports.
type Schema struct {
	Key          string
	Aliases      []string
	DefaultTitle string
	Cap          int
	Fields       []Field
	Defaults     Defaults

	// CTA is nil for sections without a call to action.
	CTA *CTA

	// Stock enables order and check-qty on the section.
	Stock bool
	// CountOrders adds decremented units to the card's orders counter.
	CountOrders bool

	LegacyFile string
	Seed       *Seed
}

func (s *Schema) Has(f Field) bool {
	for _, x := range s.Fields {
		if x == f {
			return true
		}
	}
	return false
}

const (
	productCap = 8
	blogCap    = 3
)

var productDefaults = Defaults{Unit: "1 UNIT", Category: "FRUITS & VEGES"}

var legacySeed = &Seed{Price: 18, Rating: 4.5, Order: 9999}

var (
	Popular = &Schema{
		Key:          "popular",
		Aliases:      []string{"most-popular"},
		DefaultTitle: "Most popular products",
		Cap:          productCap,
		Fields: []Field{FieldID, FieldBrand, FieldTitle, FieldDesc, FieldImg, FieldVisible,
			FieldUnit, FieldPrice, FieldRating, FieldDiscount, FieldOrder, FieldQty},
		Defaults:   productDefaults,
		LegacyFile: "popular.json",
		Seed:       legacySeed,
	}

	JustArrived = &Schema{
		Key:          "just-arrived",
		DefaultTitle: "Just arrived",
		Cap:          productCap,
		Fields: []Field{FieldID, FieldBrand, FieldTitle, FieldDesc, FieldImg, FieldVisible,
			FieldUnit, FieldPrice, FieldRating, FieldDiscount, FieldOrder, FieldQty},
		Defaults:   productDefaults,
		LegacyFile: "just_arrived.json",
		Seed:       legacySeed,
	}

	Trending = &Schema{
		Key:          "trending",
		DefaultTitle: "Trending Products",
		Cap:          productCap,
		Fields: []Field{FieldID, FieldBrand, FieldTitle, FieldDesc, FieldImg, FieldVisible,
			FieldCategory, FieldPrice, FieldUnit, FieldRating, FieldDiscount, FieldOrder, FieldQty},
		Defaults:   productDefaults,
		Stock:      true,
		LegacyFile: "trending.json",
	}

	BestSelling = &Schema{
		Key:          "best-selling",
		Aliases:      []string{"best-selling-products"},
		DefaultTitle: "Best selling products",
		Cap:          productCap,
		Fields: []Field{FieldID, FieldBrand, FieldTitle, FieldDesc, FieldImg, FieldVisible,
			FieldCategory, FieldPrice, FieldUnit, FieldRating, FieldDiscount, FieldOrder, FieldQty, FieldOrders},
		Defaults:    productDefaults,
		Stock:       true,
		CountOrders: true,
		LegacyFile:  "best_selling.json",
	}

	NewArrived = &Schema{
		Key:          "new-arrived",
		Aliases:      []string{"new-arrivals"},
		DefaultTitle: "Newly Arrived Brands",
		Cap:          productCap,
		Fields:       []Field{FieldID, FieldBrand, FieldTitle, FieldDesc, FieldImg, FieldVisible, FieldOrder},
		Defaults:     productDefaults,
		LegacyFile:   "new_arrived.json",
	}

	Blogs = &Schema{
		Key:          "blogs",
		DefaultTitle: "Our Recent Blog",
		Cap:          blogCap,
		Fields:       []Field{FieldID, FieldTitle, FieldDate, FieldTag, FieldExcerpt, FieldImage, FieldVisible, FieldOrder},
		CTA:          &CTA{Text: "Read All Article", Href: "#"},
		LegacyFile:   "blogs.json",
	}
)

var schemas = []*Schema{Popular, JustArrived, Trending, BestSelling, NewArrived, Blogs}

// All returns every registered section in a stable order.
func All() []*Schema {
	out := make([]*Schema, len(schemas))
	copy(out, schemas)
	return out
}

// Lookup resolves a route segment (canonical key or alias) to its section.
func Lookup(name string) (*Schema, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range schemas {
		if s.Key == name {
			return s, true
		}
		for _, a := range s.Aliases {
			if a == name {
				return s, true
			}
		}
	}
	return nil, false
}
