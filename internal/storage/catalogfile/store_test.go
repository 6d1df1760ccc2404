package catalogfile

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsoler/futurshop/internal/domain/catalog"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func testInput(name string) catalog.Input {
	return catalog.Input{
		Name:        name,
		Description: "a thing worth having",
		Category:    "tecnologia",
		Price:       d("19.5"),
		Images:      []string{"/uploads/img.jpg"},
	}
}

func openStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	s, err := Open(path)
	require.NoError(t, err)
	return s, path
}

func TestOpen_CreatesEmptyCatalog(t *testing.T) {
	s, path := openStore(t)

	products, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)

	// The file exists on disk right away, like the original data store.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestCreate_NewestFirst(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()

	for i := range 3 {
		_, err := s.Create(ctx, testInput("product-"+strconv.Itoa(i)))
		require.NoError(t, err)
	}

	products, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "product-2", products[0].Name)
	assert.Equal(t, "product-1", products[1].Name)
	assert.Equal(t, "product-0", products[2].Name)
}

func TestCreate_AssignsUniqueIDs(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()

	seen := make(map[string]struct{})
	for i := range 25 {
		p, err := s.Create(ctx, testInput("p"+strconv.Itoa(i)))
		require.NoError(t, err)
		_, dup := seen[p.ID]
		require.False(t, dup, "duplicate id %s", p.ID)
		seen[p.ID] = struct{}{}
	}
}

func TestCreate_ValidationFailureLeavesStoreUntouched(t *testing.T) {
	s, path := openStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, testInput("keeper"))
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	bad := testInput("rejected")
	bad.Price = d("-1")
	_, err = s.Create(ctx, bad)

	var vErr *catalog.ValidationError
	require.ErrorAs(t, err, &vErr)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	products, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
}

func TestReopen_RoundTripsCatalog(t *testing.T) {
	s, path := openStore(t)
	ctx := context.Background()

	inputs := []catalog.Input{testInput("alpha"), testInput("beta")}
	inputs[1].Price = d("4.99")
	inputs[1].Images = []string{"/uploads/a.png", "/uploads/b.png"}
	for _, in := range inputs {
		_, err := s.Create(ctx, in)
		require.NoError(t, err)
	}
	want, err := s.List(ctx)
	require.NoError(t, err)

	reopened, err := Open(path)
	require.NoError(t, err)
	got, err := reopened.List(ctx)
	require.NoError(t, err)

	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.Equal(t, want[i].Description, got[i].Description)
		assert.Equal(t, want[i].Category, got[i].Category)
		assert.Equal(t, want[i].Images, got[i].Images)
		assert.True(t, want[i].Price.Equal(got[i].Price))
	}
}

func TestGetByID(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, testInput("findme"))
	require.NoError(t, err)

	p, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "findme", p.Name)

	_, err = s.GetByID(ctx, "nope")
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCreate_ConcurrentWritersAllPersist(t *testing.T) {
	s, path := openStore(t)
	ctx := context.Background()

	const writers = 10
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.Create(ctx, testInput("w"+strconv.Itoa(i)))
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	// No interleaved create was lost and the file is a valid full list.
	reopened, err := Open(path)
	require.NoError(t, err)
	products, err := reopened.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, writers)
}
