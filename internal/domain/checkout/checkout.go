// Package checkout turns one product snapshot into a hosted payment session.
// A single attempt runs Idle -> Requesting -> {Redirecting | Failed}; there
// is no retry transition, a new attempt starts fresh.
package checkout

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/dsoler/futurshop/internal/domain/catalog"
)

// Sentinel errors for checkout validation.
var (
	ErrMissingProduct = errors.New("invalid product")
	ErrInvalidPrice   = errors.New("invalid product price")
)

// ProviderError carries the payment processor's failure message to the
// caller. The request is never retried automatically.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// CommissionRate is the fixed 5% surcharge applied to a product's price
// before requesting a payment session.
var CommissionRate = decimal.RequireFromString("0.05")

// SessionRequest describes the single line item of a checkout session.
type SessionRequest struct {
	Name        string
	Description string
	Amount      int64 // minor currency units
	Currency    string
}

// SessionProvider creates hosted checkout sessions with the payment
// processor and returns the redirect URL for a created session.
type SessionProvider interface {
	CreateSession(ctx context.Context, req SessionRequest) (string, error)
}

// ChargeAmount converts a catalog price into minor currency units with the
// commission applied: round(price * 100 * 1.05). Rounding is to the nearest
// integer, ties away from zero (decimal.Round semantics).
func ChargeAmount(price decimal.Decimal) int64 {
	factor := decimal.NewFromInt(1).Add(CommissionRate)
	return price.Shift(2).Mul(factor).Round(0).IntPart()
}

// Service orchestrates checkout attempts against a session provider.
type Service struct {
	provider SessionProvider
	currency string
}

// NewService returns a Service charging in the given currency code.
func NewService(provider SessionProvider, currency string) *Service {
	return &Service{provider: provider, currency: currency}
}

// Start validates the product snapshot, computes the chargeable amount, and
// requests exactly one session (quantity 1) from the processor. It has no
// side effects on the catalog or any cart; clearing a cart after a
// successful redirect is intentionally not done.
func (s *Service) Start(ctx context.Context, p *catalog.Product) (string, error) {
	if p == nil {
		return "", ErrMissingProduct
	}
	if !p.Price.IsPositive() {
		return "", ErrInvalidPrice
	}

	url, err := s.provider.CreateSession(ctx, SessionRequest{
		Name:        p.Name,
		Description: p.Description,
		Amount:      ChargeAmount(p.Price),
		Currency:    s.currency,
	})
	if err != nil {
		return "", &ProviderError{Message: err.Error()}
	}
	return url, nil
}
