package intents

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rahulnair-dev/payflow/pkg/enums"
	pkgerrors "github.com/rahulnair-dev/payflow/pkg/errors"
)

func seedStored(t *testing.T, store *Store, status enums.PaymentStatus) PaymentIntent {
	t.Helper()
	intent := seedIntent(status)
	if err := store.Insert(context.Background(), intent); err != nil {
		t.Fatalf("seed intent: %v", err)
	}
	return intent
}

func TestApplyWebhookEventTransitionTable(t *testing.T) {
	tests := []struct {
		name       string
		start      enums.PaymentStatus
		event      string
		wantStatus enums.PaymentStatus
		wantCode   pkgerrors.Code
	}{
		{name: "initial to processing", start: enums.PaymentStatusRequiresConfirmation, event: "payment_intent.processing", wantStatus: enums.PaymentStatusProcessing},
		{name: "initial to succeeded", start: enums.PaymentStatusRequiresConfirmation, event: "payment_intent.succeeded", wantStatus: enums.PaymentStatusSucceeded},
		{name: "initial to failed", start: enums.PaymentStatusRequiresConfirmation, event: "payment_intent.failed", wantStatus: enums.PaymentStatusFailed},
		{name: "initial to canceled", start: enums.PaymentStatusRequiresConfirmation, event: "payment_intent.canceled", wantStatus: enums.PaymentStatusCanceled},
		{name: "processing replay is noop", start: enums.PaymentStatusProcessing, event: "payment_intent.processing", wantStatus: enums.PaymentStatusProcessing},
		{name: "processing to succeeded", start: enums.PaymentStatusProcessing, event: "payment_intent.succeeded", wantStatus: enums.PaymentStatusSucceeded},
		{name: "processing to failed", start: enums.PaymentStatusProcessing, event: "payment_intent.failed", wantStatus: enums.PaymentStatusFailed},
		{name: "processing to canceled", start: enums.PaymentStatusProcessing, event: "payment_intent.canceled", wantStatus: enums.PaymentStatusCanceled},
		{name: "succeeded replay is noop", start: enums.PaymentStatusSucceeded, event: "payment_intent.succeeded", wantStatus: enums.PaymentStatusSucceeded},
		{name: "failed replay is noop", start: enums.PaymentStatusFailed, event: "payment_intent.failed", wantStatus: enums.PaymentStatusFailed},
		{name: "canceled replay is noop", start: enums.PaymentStatusCanceled, event: "payment_intent.canceled", wantStatus: enums.PaymentStatusCanceled},
		{name: "succeeded rejects processing", start: enums.PaymentStatusSucceeded, event: "payment_intent.processing", wantCode: pkgerrors.CodeStateConflict},
		{name: "succeeded rejects failed", start: enums.PaymentStatusSucceeded, event: "payment_intent.failed", wantCode: pkgerrors.CodeStateConflict},
		{name: "failed rejects succeeded", start: enums.PaymentStatusFailed, event: "payment_intent.succeeded", wantCode: pkgerrors.CodeStateConflict},
		{name: "canceled rejects succeeded", start: enums.PaymentStatusCanceled, event: "payment_intent.succeeded", wantCode: pkgerrors.CodeStateConflict},
		{name: "unknown event type", start: enums.PaymentStatusRequiresConfirmation, event: "payment_intent.refunded", wantCode: pkgerrors.CodeUnknownEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore()
			sm, err := NewStateMachine(store)
			if err != nil {
				t.Fatalf("state machine setup: %v", err)
			}
			intent := seedStored(t, store, tt.start)

			updated, err := sm.ApplyWebhookEvent(context.Background(), intent.ID, tt.event)
			if tt.wantCode != "" {
				if err == nil {
					t.Fatalf("expected %s error", tt.wantCode)
				}
				if code := pkgerrors.As(err).Code(); code != tt.wantCode {
					t.Fatalf("expected code %s, got %s", tt.wantCode, code)
				}
				stored, getErr := store.Get(context.Background(), intent.ID)
				if getErr != nil {
					t.Fatalf("reload intent: %v", getErr)
				}
				if stored != intent {
					t.Fatalf("rejected event must leave the record untouched")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if updated.Status != tt.wantStatus {
				t.Fatalf("expected status %s, got %s", tt.wantStatus, updated.Status)
			}
		})
	}
}

func TestApplyWebhookEventIdempotentReplayKeepsUpdatedAt(t *testing.T) {
	store := NewStore()
	sm, _ := NewStateMachine(store)
	intent := seedStored(t, store, enums.PaymentStatusRequiresConfirmation)

	first, err := sm.ApplyWebhookEvent(context.Background(), intent.ID, "payment_intent.succeeded")
	if err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if first.Status != enums.PaymentStatusSucceeded {
		t.Fatalf("expected succeeded, got %s", first.Status)
	}
	if !first.UpdatedAt.After(intent.UpdatedAt) {
		t.Fatalf("successful transition must bump updatedAt")
	}

	second, err := sm.ApplyWebhookEvent(context.Background(), intent.ID, "payment_intent.succeeded")
	if err != nil {
		t.Fatalf("replay must succeed: %v", err)
	}
	if second != first {
		t.Fatalf("replay must not change the record; first=%+v second=%+v", first, second)
	}
}

func TestApplyWebhookEventTerminalRejectionLeavesUpdatedAt(t *testing.T) {
	store := NewStore()
	sm, _ := NewStateMachine(store)
	intent := seedStored(t, store, enums.PaymentStatusRequiresConfirmation)

	settled, err := sm.ApplyWebhookEvent(context.Background(), intent.ID, "payment_intent.succeeded")
	if err != nil {
		t.Fatalf("settle intent: %v", err)
	}

	_, err = sm.ApplyWebhookEvent(context.Background(), intent.ID, "payment_intent.failed")
	if err == nil {
		t.Fatal("expected invalid transition error")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %s", code)
	}

	stored, err := store.Get(context.Background(), intent.ID)
	if err != nil {
		t.Fatalf("reload intent: %v", err)
	}
	if stored != settled {
		t.Fatalf("rejected transition must leave the settled record intact")
	}
}

func TestApplyWebhookEventUnknownID(t *testing.T) {
	store := NewStore()
	sm, _ := NewStateMachine(store)

	_, err := sm.ApplyWebhookEvent(context.Background(), uuid.New(), "payment_intent.succeeded")
	if err == nil {
		t.Fatal("expected not found error")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %s", code)
	}
}

func TestConcurrentDeliveriesApplyExactlyOnce(t *testing.T) {
	store := NewStore()
	var writes atomic.Int64
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time {
		writes.Add(1)
		return now
	}
	sm, _ := NewStateMachine(store)
	intent := seedStored(t, store, enums.PaymentStatusRequiresConfirmation)

	const deliveries = 32
	var wg sync.WaitGroup
	errs := make([]error, deliveries)
	wg.Add(deliveries)
	for i := 0; i < deliveries; i++ {
		go func(slot int) {
			defer wg.Done()
			_, errs[slot] = sm.ApplyWebhookEvent(context.Background(), intent.ID, "payment_intent.succeeded")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("delivery %d failed: %v", i, err)
		}
	}
	if got := writes.Load(); got != 1 {
		t.Fatalf("expected exactly one committed transition, got %d", got)
	}

	stored, err := store.Get(context.Background(), intent.ID)
	if err != nil {
		t.Fatalf("reload intent: %v", err)
	}
	if stored.Status != enums.PaymentStatusSucceeded {
		t.Fatalf("expected succeeded, got %s", stored.Status)
	}
	if !stored.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected updatedAt %v", stored.UpdatedAt)
	}
}

func TestIntentLifecycleScenario(t *testing.T) {
	store := NewStore()
	factory, _ := NewFactory(store)
	sm, _ := NewStateMachine(store)

	intent, err := factory.CreateIntent(context.Background(), CreateIntentInput{
		OrderID:  "ord_123",
		Amount:   decimal.NewFromFloat(250.00),
		Currency: "INR",
		Method:   "card",
	})
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}
	if intent.Status != enums.PaymentStatusRequiresConfirmation {
		t.Fatalf("expected requires_confirmation, got %s", intent.Status)
	}

	settled, err := sm.ApplyWebhookEvent(context.Background(), intent.ID, "payment_intent.succeeded")
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if settled.Status != enums.PaymentStatusSucceeded {
		t.Fatalf("expected succeeded, got %s", settled.Status)
	}

	_, err = sm.ApplyWebhookEvent(context.Background(), intent.ID, "payment_intent.failed")
	if err == nil {
		t.Fatal("expected failed event to be rejected after success")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %s", code)
	}

	stored, err := store.Get(context.Background(), intent.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != enums.PaymentStatusSucceeded {
		t.Fatalf("status must remain succeeded, got %s", stored.Status)
	}
}
