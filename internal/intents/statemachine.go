package intents

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rahulnair-dev/payflow/pkg/enums"
	pkgerrors "github.com/rahulnair-dev/payflow/pkg/errors"
)

// StateMachine applies gateway webhook events to stored intents. It owns
// the transition graph; all status mutation funnels through here.
type StateMachine struct {
	store *Store
}

// NewStateMachine builds the state machine over the given store.
func NewStateMachine(store *Store) (*StateMachine, error) {
	if store == nil {
		return nil, fmt.Errorf("intent store required")
	}
	return &StateMachine{store: store}, nil
}

// ApplyWebhookEvent resolves the event type and moves the intent along the
// transition graph inside a single store critical section. Replaying the
// event that matches the current state is a no-op success, so duplicate
// gateway deliveries never fail and never touch UpdatedAt.
func (m *StateMachine) ApplyWebhookEvent(ctx context.Context, id uuid.UUID, eventType string) (PaymentIntent, error) {
	return m.store.Update(ctx, id, func(intent *PaymentIntent) (bool, error) {
		event, err := enums.ParseGatewayEventType(eventType)
		if err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeUnknownEvent, err, "unsupported event type").
				WithDetails(map[string]any{"type": eventType})
		}
		target, _ := event.TargetStatus()
		return transition(intent, target)
	})
}

// transition is total over (status, target): same state is an idempotent
// no-op, terminal states reject every other move, and the two live states
// accept any event.
func transition(intent *PaymentIntent, target enums.PaymentStatus) (bool, error) {
	current := intent.Status
	if current == target {
		return false, nil
	}
	if current.IsTerminal() {
		return false, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move %s intent to %s", current, target))
	}
	intent.Status = target
	return true, nil
}
