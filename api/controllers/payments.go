package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rahulnair-dev/payflow/api/responses"
	"github.com/rahulnair-dev/payflow/api/validators"
	"github.com/rahulnair-dev/payflow/internal/intents"
	pkgerrors "github.com/rahulnair-dev/payflow/pkg/errors"
	"github.com/rahulnair-dev/payflow/pkg/logger"
	"github.com/rahulnair-dev/payflow/pkg/metrics"
)

type IntentCreator interface {
	CreateIntent(ctx context.Context, input intents.CreateIntentInput) (intents.PaymentIntent, error)
}

type IntentReader interface {
	Get(ctx context.Context, id uuid.UUID) (intents.PaymentIntent, error)
}

type createPaymentIntentRequest struct {
	OrderID  string          `json:"orderId" validate:"required"`
	Method   string          `json:"method" validate:"required"`
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	Currency string          `json:"currency" validate:"required"`
}

// PaymentIntentResponse is the wire shape shared by create, retrieve and
// webhook responses. The intent id travels as paymentId; clientSecret only
// appears on creation.
type PaymentIntentResponse struct {
	PaymentID    string    `json:"paymentId"`
	OrderID      string    `json:"orderId"`
	Amount       float64   `json:"amount"`
	Currency     string    `json:"currency"`
	Method       string    `json:"method"`
	Status       string    `json:"status"`
	ClientSecret string    `json:"clientSecret,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewPaymentIntentResponse(intent intents.PaymentIntent, includeSecret bool) PaymentIntentResponse {
	resp := PaymentIntentResponse{
		PaymentID: intent.ID.String(),
		OrderID:   intent.OrderID,
		Amount:    intent.Amount.InexactFloat64(),
		Currency:  intent.Currency,
		Method:    intent.Method,
		Status:    intent.Status.String(),
		CreatedAt: intent.CreatedAt,
		UpdatedAt: intent.UpdatedAt,
	}
	if includeSecret {
		resp.ClientSecret = intent.ClientSecret
	}
	return resp
}

// CreatePaymentIntent mints a payment intent for an order.
func CreatePaymentIntent(svc IntentCreator, payMetrics *metrics.PaymentMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "intent factory unavailable"))
			return
		}

		var payload createPaymentIntentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		intent, err := svc.CreateIntent(r.Context(), intents.CreateIntentInput{
			OrderID:  payload.OrderID,
			Amount:   payload.Amount,
			Currency: payload.Currency,
			Method:   payload.Method,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payMetrics.IncCreated(intent.Method)
		if logg != nil {
			ctx := logg.WithPaymentID(r.Context(), intent.ID.String())
			logg.Info(ctx, "payment intent created")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, NewPaymentIntentResponse(intent, true))
	}
}

// GetPayment returns the current state of a payment intent.
func GetPayment(store IntentReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "intent store unavailable"))
			return
		}

		paymentID, err := parsePaymentID(chi.URLParam(r, "paymentId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		intent, err := store.Get(r.Context(), paymentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, NewPaymentIntentResponse(intent, false))
	}
}

func parsePaymentID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment id")
	}
	return id, nil
}
