// Package workers holds the asynq task handlers run by cmd/worker.
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/normatec/catalog/internal/queue"
	"github.com/normatec/catalog/internal/webhook"
)

// CatalogEventWorker fans one catalog change event out to every
// subscribed webhook.
type CatalogEventWorker struct {
	webhooks   *webhook.Service
	dispatcher *webhook.Dispatcher
}

func NewCatalogEventWorker(webhooks *webhook.Service, dispatcher *webhook.Dispatcher) *CatalogEventWorker {
	return &CatalogEventWorker{webhooks: webhooks, dispatcher: dispatcher}
}

func (w *CatalogEventWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.CatalogEventPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	subscribers, err := w.webhooks.FindSubscribers(ctx, payload.Action)
	if err != nil {
		return fmt.Errorf("find subscribers: %w", err)
	}
	if len(subscribers) == 0 {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event body: %w", err)
	}

	var failed int
	for _, wh := range subscribers {
		if err := w.dispatcher.Deliver(ctx, wh, payload.Action, body); err != nil {
			slog.Warn("webhook delivery failed", "webhook_id", wh.ID, "event", payload.Action, "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d deliveries failed", failed, len(subscribers))
	}
	return nil
}
