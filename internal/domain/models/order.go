package models

// Order is one entry of the append-only order log.
type Order struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Brand     string  `json:"brand"`
	Unit      string  `json:"unit"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
	Subtotal  float64 `json:"subtotal"`
	Category  string  `json:"category"`
	Discount  int     `json:"discount"`
	CreatedAt string  `json:"createdAt"`
}
