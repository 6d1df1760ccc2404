package checkout

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsoler/futurshop/internal/domain/catalog"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

type mockProvider struct {
	url     string
	err     error
	lastReq *SessionRequest
	calls   int
}

func (m *mockProvider) CreateSession(_ context.Context, req SessionRequest) (string, error) {
	m.calls++
	m.lastReq = &req
	if m.err != nil {
		return "", m.err
	}
	return m.url, nil
}

func testProduct(price string) *catalog.Product {
	return &catalog.Product{
		ID:          "p1",
		Name:        "X",
		Description: "Y",
		Category:    "otros",
		Price:       d(price),
		Images:      []string{"/uploads/x.jpg"},
	}
}

func TestChargeAmount(t *testing.T) {
	tests := []struct {
		price string
		want  int64
	}{
		{price: "100", want: 10500},
		{price: "10", want: 1050},
		{price: "4.99", want: 524},   // 523.95 rounds up
		{price: "0.10", want: 11},    // 10.5 is a tie, rounded away from zero
		{price: "19.99", want: 2099}, // 2098.95
		{price: "1", want: 105},
	}
	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			assert.Equal(t, tt.want, ChargeAmount(d(tt.price)))
		})
	}
}

func TestStart(t *testing.T) {
	provider := &mockProvider{url: "https://pay.example/session/abc"}
	svc := NewService(provider, "eur")

	url, err := svc.Start(context.Background(), testProduct("100"))
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/session/abc", url)

	require.NotNil(t, provider.lastReq)
	assert.Equal(t, int64(10500), provider.lastReq.Amount)
	assert.Equal(t, "eur", provider.lastReq.Currency)
	assert.Equal(t, "X", provider.lastReq.Name)
	assert.Equal(t, "Y", provider.lastReq.Description)
	assert.Equal(t, 1, provider.calls)
}

func TestStart_MissingProduct(t *testing.T) {
	provider := &mockProvider{}
	svc := NewService(provider, "eur")

	_, err := svc.Start(context.Background(), nil)
	require.ErrorIs(t, err, ErrMissingProduct)
	assert.Equal(t, 0, provider.calls)
}

func TestStart_InvalidPrice(t *testing.T) {
	provider := &mockProvider{}
	svc := NewService(provider, "eur")

	for _, price := range []string{"0", "-5"} {
		_, err := svc.Start(context.Background(), testProduct(price))
		require.ErrorIs(t, err, ErrInvalidPrice, "price %s", price)
	}
	assert.Equal(t, 0, provider.calls)
}

func TestStart_ProviderFailure(t *testing.T) {
	provider := &mockProvider{err: errors.New("Your card was declined.")}
	svc := NewService(provider, "eur")

	_, err := svc.Start(context.Background(), testProduct("100"))

	var pErr *ProviderError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "Your card was declined.", pErr.Message)
	// Exactly one attempt: the orchestrator never retries.
	assert.Equal(t, 1, provider.calls)
}
