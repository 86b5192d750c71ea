package enums

import "fmt"

// GatewayEventType names the webhook notifications the simulated gateway
// delivers. Each event requests a move to exactly one PaymentStatus.
type GatewayEventType string

const (
	GatewayEventPaymentProcessing GatewayEventType = "payment_intent.processing"
	GatewayEventPaymentSucceeded  GatewayEventType = "payment_intent.succeeded"
	GatewayEventPaymentFailed     GatewayEventType = "payment_intent.failed"
	GatewayEventPaymentCanceled   GatewayEventType = "payment_intent.canceled"
)

var gatewayEventTargets = map[GatewayEventType]PaymentStatus{
	GatewayEventPaymentProcessing: PaymentStatusProcessing,
	GatewayEventPaymentSucceeded:  PaymentStatusSucceeded,
	GatewayEventPaymentFailed:     PaymentStatusFailed,
	GatewayEventPaymentCanceled:   PaymentStatusCanceled,
}

// String implements fmt.Stringer.
func (g GatewayEventType) String() string {
	return string(g)
}

// IsValid reports whether the value is a known GatewayEventType.
func (g GatewayEventType) IsValid() bool {
	_, ok := gatewayEventTargets[g]
	return ok
}

// TargetStatus returns the status an event requests.
func (g GatewayEventType) TargetStatus() (PaymentStatus, bool) {
	target, ok := gatewayEventTargets[g]
	return target, ok
}

// ParseGatewayEventType converts raw input into a GatewayEventType.
func ParseGatewayEventType(value string) (GatewayEventType, error) {
	candidate := GatewayEventType(value)
	if !candidate.IsValid() {
		return "", fmt.Errorf("invalid gateway event type %q", value)
	}
	return candidate, nil
}
