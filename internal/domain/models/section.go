package models

// Section is one storefront area as it is persisted.
type Section struct {
	Key       string `json:"key"`
	Title     string `json:"title"`
	CtaText   string `json:"ctaText,omitempty"`
	CtaHref   string `json:"ctaHref,omitempty"`
	Cards     []Card `json:"cards"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Card is the storage record for every content type. Product sections use the
// merchandising fields, blog sections use Date/Tag/Excerpt and keep the post
// image in Img.
type Card struct {
	ID       string  `json:"id"`
	Brand    string  `json:"brand"`
	Title    string  `json:"title"`
	Desc     string  `json:"desc"`
	Img      string  `json:"img"`
	Date     string  `json:"date,omitempty"`
	Tag      string  `json:"tag,omitempty"`
	Excerpt  string  `json:"excerpt,omitempty"`
	Visible  bool    `json:"visible"`
	Category string  `json:"category,omitempty"`
	Unit     string  `json:"unit,omitempty"`
	Price    float64 `json:"price"`
	Rating   float64 `json:"rating"`
	Discount int     `json:"discount"`
	Order    int     `json:"order"`
	Qty      int     `json:"qty"`
	Orders   int     `json:"orders"`
}

// StockLevel is what a card has left after a stock operation.
type StockLevel struct {
	Qty    int
	Orders int
}
