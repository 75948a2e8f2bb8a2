package field

import (
	"math"
	"strings"
)

// Categories a product card may carry. Anything else falls back to the
// section default.
var Categories = []string{"FRUITS & VEGES", "JUICES"}

// Price is non-negative and rounded to cents.
func Price(n Number, def float64) float64 {
	v := def
	if n.Valid {
		v = n.Value
	}
	return math.Max(0, round(v, 2))
}

// Rating is clamped to [0, 5] with one decimal.
func Rating(n Number, def float64) float64 {
	v := def
	if n.Valid {
		v = n.Value
	}
	return math.Max(0, math.Min(5, round(v, 1)))
}

// Discount is a whole percentage in [0, 99].
func Discount(n Number) int {
	v, _ := n.Int()
	return min(99, max(0, v))
}

// Order is at least 1; a missing value takes the 1-based position pos+1.
func Order(n Number, pos int) int {
	v, ok := n.Int()
	if !ok {
		v = pos + 1
	}
	return max(1, v)
}

// Count is a non-negative counter such as stock or units sold.
func Count(n Number, def int) int {
	v, ok := n.Int()
	if !ok {
		v = def
	}
	return max(0, v)
}

// Category returns the canonical spelling of an allowed category, or def.
func Category(t Text, def string) string {
	s := strings.TrimSpace(t.Value)
	for _, c := range Categories {
		if strings.EqualFold(s, c) {
			return c
		}
	}
	return def
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
