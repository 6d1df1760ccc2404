package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsoler/futurshop/internal/domain/catalog"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func product(id, name, price string) catalog.Product {
	return catalog.Product{
		ID:          id,
		Name:        name,
		Description: "desc",
		Category:    "otros",
		Price:       d(price),
		Images:      []string{"/uploads/" + id + ".jpg"},
	}
}

func TestAddThenRemoveRestoresEmptyCart(t *testing.T) {
	c := New(nil)

	c.Add(product("p1", "Lamp", "12.00"))
	require.Equal(t, 1, c.Count())

	c.Remove(0)
	assert.Equal(t, 0, c.Count())
	assert.Empty(t, c.Entries())
	assert.True(t, c.Total().IsZero())
}

func TestDuplicatesYieldSeparateEntries(t *testing.T) {
	c := New(nil)
	p := product("p1", "Lamp", "12.00")

	c.Add(p)
	c.Add(p)

	require.Equal(t, 2, c.Count())
	assert.True(t, c.Total().Equal(d("24")))
}

func TestTotal(t *testing.T) {
	c := New(nil)
	c.Add(product("p1", "A", "10.00"))
	c.Add(product("p2", "B", "25.50"))
	c.Add(product("p3", "C", "4.99"))

	assert.True(t, c.Total().Equal(d("40.49")), "got %s", c.Total())
}

func TestTotal_EmptyCartIsZero(t *testing.T) {
	c := New(nil)
	assert.True(t, c.Total().IsZero())
}

func TestRemove_OutOfRangeIsNoOp(t *testing.T) {
	c := New(nil)
	c.Add(product("p1", "A", "10.00"))

	c.Remove(-1)
	c.Remove(1)
	c.Remove(99)

	require.Equal(t, 1, c.Count())
	assert.Equal(t, "p1", c.Entries()[0].ID)

	empty := New(nil)
	empty.Remove(0)
	assert.Equal(t, 0, empty.Count())
}

func TestRemove_ByIndexKeepsOrder(t *testing.T) {
	c := New(nil)
	c.Add(product("p1", "A", "1"))
	c.Add(product("p2", "B", "2"))
	c.Add(product("p3", "C", "3"))

	c.Remove(1)

	entries := c.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "p1", entries[0].ID)
	assert.Equal(t, "p3", entries[1].ID)
}

func TestAddFromCatalog(t *testing.T) {
	snapshot := []catalog.Product{
		product("p1", "A", "1"),
		product("p2", "B", "2"),
	}

	c := New(nil)
	assert.True(t, c.AddFromCatalog(snapshot, "p2"))
	require.Equal(t, 1, c.Count())
	assert.Equal(t, "B", c.Entries()[0].Name)

	// Unknown ids are silently ignored.
	assert.False(t, c.AddFromCatalog(snapshot, "ghost"))
	assert.Equal(t, 1, c.Count())
}

func TestEntriesAreSnapshots(t *testing.T) {
	p := product("p1", "A", "1")
	c := New(nil)
	c.Add(p)

	// Mutating the source after the add must not reach the cart entry.
	p.Images[0] = "/uploads/replaced.jpg"
	p.Name = "renamed"

	entry := c.Entries()[0]
	assert.Equal(t, "A", entry.Name)
	assert.Equal(t, "/uploads/p1.jpg", entry.Images[0])
}
