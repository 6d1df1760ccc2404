// Package payment implements the checkout.SessionProvider against Stripe's
// hosted Checkout.
package payment

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"

	"github.com/dsoler/futurshop/internal/domain/checkout"
)

var _ checkout.SessionProvider = (*StripeProvider)(nil)

// StripeConfig configures the Stripe provider.
type StripeConfig struct {
	// SecretKey is the Stripe API secret key.
	SecretKey string
	// SuccessURL and CancelURL are the redirect targets Stripe sends the
	// customer back to after the hosted checkout.
	SuccessURL string
	CancelURL  string
	// Timeout bounds the session-creation call. The checkout request is the
	// only network call with external latency in the system.
	Timeout time.Duration
}

// StripeProvider creates single-use Checkout sessions in payment mode.
type StripeProvider struct {
	successURL string
	cancelURL  string
}

// NewStripeProvider configures the Stripe SDK and returns a provider.
func NewStripeProvider(cfg StripeConfig) *StripeProvider {
	stripe.Key = cfg.SecretKey
	if cfg.Timeout > 0 {
		stripe.SetHTTPClient(&http.Client{Timeout: cfg.Timeout})
	}
	return &StripeProvider{
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
	}
}

// CreateSession requests one hosted checkout session for a single line item
// with quantity 1 and returns the processor-provided redirect URL.
func (p *StripeProvider) CreateSession(ctx context.Context, req checkout.SessionRequest) (string, error) {
	productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(req.Name),
	}
	if req.Description != "" {
		productData.Description = stripe.String(req.Description)
	}

	params := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(req.Currency),
				UnitAmount:  stripe.Int64(req.Amount),
				ProductData: productData,
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(p.successURL),
		CancelURL:  stripe.String(p.cancelURL),
	}

	s, err := session.New(params)
	if err != nil {
		// Surface Stripe's own message rather than the SDK's wrapped form.
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
			return "", errors.New(stripeErr.Msg)
		}
		return "", err
	}
	return s.URL, nil
}
