package queue

const TypeCatalogEvent = "catalog:event"

// CatalogEventPayload describes one catalog mutation for asynchronous
// webhook fan-out.
type CatalogEventPayload struct {
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	OccurredAt string `json:"occurred_at"`
}
