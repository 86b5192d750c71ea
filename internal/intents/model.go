package intents

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rahulnair-dev/payflow/pkg/enums"
)

// PaymentIntent tracks one attempt to collect payment for an order.
// Status is the only mutable field; UpdatedAt moves exactly when Status does.
type PaymentIntent struct {
	ID           uuid.UUID
	OrderID      string
	Amount       decimal.Decimal
	Currency     string
	Method       string
	Status       enums.PaymentStatus
	ClientSecret string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
