package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/normatec/catalog/internal/models"
)

// Dispatcher posts signed event payloads to subscriber endpoints and
// records every delivery attempt.
type Dispatcher struct {
	db         *pgxpool.Pool
	httpClient *http.Client
}

func NewDispatcher(db *pgxpool.Pool) *Dispatcher {
	return &Dispatcher{
		db: db,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Deliver posts payload to one webhook. A non-2xx response or transport
// error returns an error so the task queue can retry.
func (d *Dispatcher) Deliver(ctx context.Context, wh models.Webhook, event string, payload []byte) error {
	signature := sign(payload, wh.Secret)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, wh.URL, bytes.NewReader(payload))
	if err != nil {
		d.recordDelivery(ctx, wh, event, payload, 0)
		return fmt.Errorf("build webhook request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Webhook-Event", event)
	httpReq.Header.Set("X-Webhook-Signature", signature)
	httpReq.Header.Set("X-Webhook-ID", wh.ID.String())

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		d.recordDelivery(ctx, wh, event, payload, 0)
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer resp.Body.Close()

	d.recordDelivery(ctx, wh, event, payload, resp.StatusCode)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook %s returned status %d", wh.ID, resp.StatusCode)
	}
	return nil
}

func (d *Dispatcher) recordDelivery(ctx context.Context, wh models.Webhook, event string, payload []byte, status int) {
	var deliveredAt *time.Time
	if status > 0 && status < 400 {
		now := time.Now()
		deliveredAt = &now
	}

	_, err := d.db.Exec(ctx,
		`INSERT INTO webhook_deliveries (webhook_id, event, payload, response_status, attempts, delivered_at)
		 VALUES ($1, $2, $3, $4, 1, $5)`,
		wh.ID, event, payload, status, deliveredAt,
	)
	if err != nil {
		slog.Error("failed to record webhook delivery", "error", err)
	}
}

func sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return fmt.Sprintf("sha256=%s", hex.EncodeToString(mac.Sum(nil)))
}
