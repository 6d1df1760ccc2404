package catalog

import (
	"context"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// MaxImages is the maximum number of image references a product may carry.
const MaxImages = 4

// Product represents a listing in the catalog. Products are immutable once
// created: there is no update or delete operation anywhere in the system.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images"`
}

// ValidationError describes a user-correctable problem with a product
// submission. Its message is surfaced verbatim to the submitter.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Input holds the fields of a product submission before identity is assigned.
type Input struct {
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Images      []string
}

// Validate checks the submission against the catalog rules. Category is an
// open label set, so any non-empty string passes. A zero price is valid.
func (in Input) Validate() error {
	if in.Name == "" {
		return &ValidationError{Message: "name is required"}
	}
	if in.Description == "" {
		return &ValidationError{Message: "description is required"}
	}
	if in.Category == "" {
		return &ValidationError{Message: "category is required"}
	}
	if in.Price.IsNegative() {
		return &ValidationError{Message: "price must be a non-negative number"}
	}
	if len(in.Images) == 0 || len(in.Images) > MaxImages {
		return &ValidationError{Message: "between 1 and 4 images are required"}
	}
	return nil
}

// ParsePrice converts a submitted price string into a decimal. An empty or
// malformed value yields a ValidationError.
func ParsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, &ValidationError{Message: "price is required"}
	}
	p, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Message: "price must be a non-negative number"}
	}
	return p, nil
}

// NewID assigns a product identity from the creation time in milliseconds
// plus a random disambiguator, so two creations within the same millisecond
// still get distinct ids. A collision would need the same millisecond and
// the same random draw; that case is improbable and deliberately unhandled.
func NewID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + strconv.Itoa(rand.IntN(1_000_000))
}

// Repository defines the operations on the durable product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, input Input) (*Product, error)
}
