package webhooks

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/rahulnair-dev/payflow/api/controllers"
	"github.com/rahulnair-dev/payflow/api/responses"
	"github.com/rahulnair-dev/payflow/api/validators"
	"github.com/rahulnair-dev/payflow/internal/intents"
	pkgerrors "github.com/rahulnair-dev/payflow/pkg/errors"
	"github.com/rahulnair-dev/payflow/pkg/logger"
	"github.com/rahulnair-dev/payflow/pkg/metrics"
)

type GatewayWebhookService interface {
	ApplyWebhookEvent(ctx context.Context, id uuid.UUID, eventType string) (intents.PaymentIntent, error)
}

// gatewayWebhookRequest mirrors the simulated gateway payload. orderId and
// metadata are accepted for wire compatibility and ignored; no signature is
// verified (known gap, out of scope for the MVP).
type gatewayWebhookRequest struct {
	Type      string         `json:"type" validate:"required"`
	PaymentID string         `json:"paymentId" validate:"required"`
	OrderID   *string        `json:"orderId"`
	Metadata  map[string]any `json:"metadata"`
}

// GatewayWebhook applies a simulated gateway settlement event to an intent.
func GatewayWebhook(svc GatewayWebhookService, payMetrics *metrics.PaymentMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}

		var payload gatewayWebhookRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		paymentID, err := uuid.Parse(strings.TrimSpace(payload.PaymentID))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment id"))
			return
		}

		if logg != nil {
			ctx = logg.WithPaymentID(ctx, paymentID.String())
			ctx = logg.WithEventType(ctx, payload.Type)
		}

		intent, err := svc.ApplyWebhookEvent(ctx, paymentID, payload.Type)
		if err != nil {
			payMetrics.IncWebhookEvent(payload.Type, metrics.WebhookResultRejected)
			responses.WriteError(ctx, logg, w, err)
			return
		}

		payMetrics.IncWebhookEvent(payload.Type, metrics.WebhookResultApplied)
		if logg != nil {
			logg.Info(ctx, "gateway event applied")
		}
		responses.WriteSuccess(w, controllers.NewPaymentIntentResponse(intent, false))
	}
}
