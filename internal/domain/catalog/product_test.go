package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func validInput() Input {
	return Input{
		Name:        "Hover Sneakers",
		Description: "Self-lacing, glow in the dark",
		Category:    "ropa",
		Price:       d("59.99"),
		Images:      []string{"/uploads/a.jpg"},
	}
}

func TestInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Input)
		wantErr string
	}{
		{
			name:   "valid input",
			mutate: func(*Input) {},
		},
		{
			name:   "zero price is valid",
			mutate: func(in *Input) { in.Price = decimal.Zero },
		},
		{
			name:   "four images is valid",
			mutate: func(in *Input) { in.Images = []string{"/a", "/b", "/c", "/d"} },
		},
		{
			name:    "empty name",
			mutate:  func(in *Input) { in.Name = "" },
			wantErr: "name is required",
		},
		{
			name:    "empty description",
			mutate:  func(in *Input) { in.Description = "" },
			wantErr: "description is required",
		},
		{
			name:    "empty category",
			mutate:  func(in *Input) { in.Category = "" },
			wantErr: "category is required",
		},
		{
			name:    "negative price",
			mutate:  func(in *Input) { in.Price = d("-1") },
			wantErr: "price must be a non-negative number",
		},
		{
			name:    "no images",
			mutate:  func(in *Input) { in.Images = nil },
			wantErr: "between 1 and 4 images are required",
		},
		{
			name:    "five images",
			mutate:  func(in *Input) { in.Images = []string{"/a", "/b", "/c", "/d", "/e"} },
			wantErr: "between 1 and 4 images are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			err := in.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantErr, vErr.Message)
		})
	}
}

func TestParsePrice(t *testing.T) {
	t.Run("decimal value", func(t *testing.T) {
		p, err := ParsePrice("10.50")
		require.NoError(t, err)
		assert.True(t, p.Equal(d("10.5")))
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParsePrice("")
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "price is required", vErr.Message)
	})

	t.Run("not a number", func(t *testing.T) {
		_, err := ParsePrice("cheap")
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "price must be a non-negative number", vErr.Message)
	})
}

func TestNewID(t *testing.T) {
	seen := make(map[string]struct{}, 50)
	for range 50 {
		id := NewID()
		require.NotEmpty(t, id)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
