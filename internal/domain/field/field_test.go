package field

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    Text   `json:"name"`
	Price   Number `json:"price"`
	Visible Flag   `json:"visible"`
}

func decode(t *testing.T, raw string) sample {
	t.Helper()
	var s sample
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	return s
}

func TestLenientDecoding(t *testing.T) {
	s := decode(t, `{"name":"  Apple ","price":"12.5","visible":0}`)
	assert.Equal(t, "Apple", s.Name.Trimmed("x"))
	assert.True(t, s.Price.Valid)
	assert.Equal(t, 12.5, s.Price.Value)
	assert.True(t, s.Visible.Set)
	assert.False(t, s.Visible.Or(true))

	s = decode(t, `{"name":null,"price":"abc"}`)
	assert.Equal(t, "x", s.Name.Trimmed("x"))
	assert.False(t, s.Price.Valid)
	assert.True(t, s.Visible.Or(true))

	s = decode(t, `{"name":42,"price":{"a":1},"visible":null}`)
	assert.Equal(t, "42", s.Name.Trimmed(""))
	assert.False(t, s.Price.Valid)
	assert.False(t, s.Visible.Or(true))

	s = decode(t, `{"price":"NaN"}`)
	assert.False(t, s.Price.Valid)

	s = decode(t, `{"price":true}`)
	assert.Equal(t, 1.0, s.Price.Value)
}

func TestClampRules(t *testing.T) {
	assert.Equal(t, 0.0, Price(NewNumber(-3), 0))
	assert.Equal(t, 12.35, Price(NewNumber(12.349), 0))
	assert.Equal(t, 18.0, Price(Number{}, 18))

	assert.Equal(t, 5.0, Rating(NewNumber(7), 0))
	assert.Equal(t, 0.0, Rating(NewNumber(-1), 0))
	assert.Equal(t, 4.3, Rating(NewNumber(4.26), 0))
	assert.Equal(t, 4.5, Rating(Number{}, 4.5))

	assert.Equal(t, 99, Discount(NewNumber(150)))
	assert.Equal(t, 0, Discount(NewNumber(-5)))
	assert.Equal(t, 5, Discount(NewNumber(5.9)))
	assert.Equal(t, 0, Discount(Number{}))

	assert.Equal(t, 3, Order(Number{}, 2))
	assert.Equal(t, 1, Order(NewNumber(-4), 0))
	assert.Equal(t, 7, Order(NewNumber(7.8), 0))

	assert.Equal(t, 0, Count(NewNumber(-2), 9))
	assert.Equal(t, 9, Count(Number{}, 9))
	assert.Equal(t, 4, Count(NewNumber(4), 9))
}

func TestCategory(t *testing.T) {
	assert.Equal(t, "JUICES", Category(NewText(" juices "), "FRUITS & VEGES"))
	assert.Equal(t, "FRUITS & VEGES", Category(NewText("MEAT"), "FRUITS & VEGES"))
	assert.Equal(t, "FRUITS & VEGES", Category(Text{}, "FRUITS & VEGES"))
}
