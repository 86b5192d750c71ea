package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/rahulnair-dev/payflow/pkg/config"
	"github.com/rahulnair-dev/payflow/pkg/logger"
)

// gateway-sim plays the part of the payment gateway against a running api:
// it creates an intent, walks it through a sequence of webhook events, then
// hammers the final event concurrently to demonstrate idempotent replay.
func main() {
	logg := logger.New(logger.Options{ServiceName: "gateway-sim"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.LoadSimulator()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	var (
		target  = flag.String("target", cfg.TargetURL, "base URL of the payment api")
		orderID = flag.String("order", "ord_123", "order id for the new intent")
		amount  = flag.Float64("amount", 250.00, "intent amount")
		currcy  = flag.String("currency", "INR", "intent currency")
		method  = flag.String("method", "card", "payment method tag")
		events  = flag.String("events", "payment_intent.processing,payment_intent.succeeded", "comma-separated event sequence")
		replays = flag.Int("replays", cfg.Replays, "concurrent replays of the final event")
	)
	flag.Parse()

	client := &http.Client{Timeout: cfg.RequestTimeout}
	sim := &simulator{client: client, base: strings.TrimRight(*target, "/")}

	ctx := logg.WithField(context.Background(), "target", sim.base)

	paymentID, status, err := sim.createIntent(ctx, *orderID, *amount, *currcy, *method)
	if err != nil {
		logg.Error(ctx, "create intent failed", err)
		os.Exit(1)
	}
	ctx = logg.WithPaymentID(ctx, paymentID)
	logg.Info(logg.WithField(ctx, "status", status), "intent created")

	sequence := splitEvents(*events)
	if len(sequence) == 0 {
		logg.Error(ctx, "no events to deliver", fmt.Errorf("empty -events"))
		os.Exit(1)
	}

	for _, eventType := range sequence {
		status, err := sim.sendEvent(ctx, paymentID, eventType)
		if err != nil {
			logg.Error(logg.WithEventType(ctx, eventType), "event delivery failed", err)
			os.Exit(1)
		}
		logg.Info(logg.WithFields(ctx, map[string]any{"event_type": eventType, "status": status}), "event applied")
	}

	if *replays > 0 {
		final := sequence[len(sequence)-1]
		group, groupCtx := errgroup.WithContext(ctx)
		for i := 0; i < *replays; i++ {
			group.Go(func() error {
				_, err := sim.sendEvent(groupCtx, paymentID, final)
				return err
			})
		}
		if err := group.Wait(); err != nil {
			logg.Error(logg.WithEventType(ctx, final), "replay burst failed", err)
			os.Exit(1)
		}
		logg.Info(logg.WithFields(ctx, map[string]any{"event_type": final, "replays": *replays}), "replay burst absorbed")
	}

	status, err = sim.getStatus(ctx, paymentID)
	if err != nil {
		logg.Error(ctx, "final status check failed", err)
		os.Exit(1)
	}
	logg.Info(logg.WithField(ctx, "status", status), "simulation complete")
}

type simulator struct {
	client *http.Client
	base   string
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type intentPayload struct {
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"`
}

func (s *simulator) createIntent(ctx context.Context, orderID string, amount float64, currency, method string) (string, string, error) {
	body := map[string]any{
		"orderId":  orderID,
		"amount":   amount,
		"currency": currency,
		"method":   method,
	}
	intent, err := s.post(ctx, "/payments/intent", body)
	if err != nil {
		return "", "", err
	}
	return intent.PaymentID, intent.Status, nil
}

func (s *simulator) sendEvent(ctx context.Context, paymentID, eventType string) (string, error) {
	body := map[string]any{
		"type":      eventType,
		"paymentId": paymentID,
	}
	intent, err := s.post(ctx, "/payments/webhook", body)
	if err != nil {
		return "", err
	}
	return intent.Status, nil
}

func (s *simulator) getStatus(ctx context.Context, paymentID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+"/payments/"+paymentID, nil)
	if err != nil {
		return "", err
	}
	intent, err := s.do(req)
	if err != nil {
		return "", err
	}
	return intent.Status, nil
}

func (s *simulator) post(ctx context.Context, path string, body map[string]any) (*intentPayload, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func (s *simulator) do(req *http.Request) (*intentPayload, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode response (%d): %w", resp.StatusCode, err)
	}
	if env.Error != nil {
		return nil, fmt.Errorf("%s: %s (http %d)", env.Error.Code, env.Error.Message, resp.StatusCode)
	}

	var intent intentPayload
	if err := json.Unmarshal(env.Data, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func splitEvents(raw string) []string {
	var out []string
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token != "" {
			out = append(out, token)
		}
	}
	return out
}
