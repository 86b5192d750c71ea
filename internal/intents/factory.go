package intents

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rahulnair-dev/payflow/pkg/enums"
	pkgerrors "github.com/rahulnair-dev/payflow/pkg/errors"
)

// Factory validates creation requests and mints new payment intents.
type Factory struct {
	store *Store
	now   func() time.Time
}

// NewFactory builds an intent factory backed by the given store.
func NewFactory(store *Store) (*Factory, error) {
	if store == nil {
		return nil, fmt.Errorf("intent store required")
	}
	return &Factory{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}, nil
}

// CreateIntentInput carries the caller-supplied fields of a creation request.
type CreateIntentInput struct {
	OrderID  string
	Amount   decimal.Decimal
	Currency string
	Method   string
}

// CreateIntent mints a new intent in requires_confirmation and inserts it.
// Every call creates a fresh intent: there is no de-duplication by orderId,
// so retrying a create produces a second, distinct intent.
func (f *Factory) CreateIntent(ctx context.Context, input CreateIntentInput) (PaymentIntent, error) {
	orderID := strings.TrimSpace(input.OrderID)
	if orderID == "" {
		return PaymentIntent{}, pkgerrors.New(pkgerrors.CodeValidation, "orderId is required")
	}
	if !input.Amount.IsPositive() {
		return PaymentIntent{}, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero").
			WithDetails(map[string]any{"amount": input.Amount.String()})
	}
	currency := strings.TrimSpace(input.Currency)
	if currency == "" {
		return PaymentIntent{}, pkgerrors.New(pkgerrors.CodeValidation, "currency is required")
	}
	method := strings.TrimSpace(input.Method)
	if method == "" {
		return PaymentIntent{}, pkgerrors.New(pkgerrors.CodeValidation, "method is required")
	}

	id := uuid.New()
	secret, err := clientSecretFor(id)
	if err != nil {
		return PaymentIntent{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate client secret")
	}

	now := f.now()
	intent := PaymentIntent{
		ID:           id,
		OrderID:      orderID,
		Amount:       input.Amount,
		Currency:     currency,
		Method:       method,
		Status:       enums.PaymentStatusRequiresConfirmation,
		ClientSecret: secret,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := f.store.Insert(ctx, intent); err != nil {
		return PaymentIntent{}, err
	}
	return intent, nil
}

// clientSecretFor mints the client-side confirmation token. The random
// suffix keeps the secret underivable from the id alone.
func clientSecretFor(id uuid.UUID) (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("pi_%s_secret_%s", id, hex.EncodeToString(buf)), nil
}
