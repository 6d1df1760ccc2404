package catalog

import (
	"testing"

	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRoundTrip(t *testing.T) {
	in := Product{
		ID:          "17000000000001234",
		Name:        "Retro Headset",
		Description: "Wired, chunky, loud",
		Category:    "airpods",
		Price:       d("25.5"),
		Images:      []string{"/uploads/one.jpg", "/uploads/two.png"},
	}

	var e jx.Encoder
	in.Encode(&e)

	var out Product
	require.NoError(t, out.Decode(jx.DecodeBytes(e.Bytes())))

	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Description, out.Description)
	assert.Equal(t, in.Category, out.Category)
	assert.Equal(t, in.Images, out.Images)
	assert.True(t, in.Price.Equal(out.Price))
}

func TestProductDecode_UnknownKeysSkipped(t *testing.T) {
	data := `{"id":"p1","name":"X","stock":12,"price":3.5,"images":["/uploads/a.jpg"]}`

	var p Product
	require.NoError(t, p.Decode(jx.DecodeBytes([]byte(data))))

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "X", p.Name)
	assert.True(t, p.Price.Equal(d("3.5")))
}

func TestProductDecode_QuotedPrice(t *testing.T) {
	// Carts written by older clients stored prices as JSON strings.
	data := `{"id":"p1","name":"X","price":"19.90"}`

	var p Product
	require.NoError(t, p.Decode(jx.DecodeBytes([]byte(data))))
	assert.True(t, p.Price.Equal(d("19.9")))
}

func TestDecodeProducts_Empty(t *testing.T) {
	products, err := DecodeProducts(jx.DecodeBytes([]byte("[]")))
	require.NoError(t, err)
	assert.Empty(t, products)
}
