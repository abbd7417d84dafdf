// Package events carries the in-process invalidation bus. Catalog writes
// publish here; the resolver cache and the websocket hub subscribe.
package events

import (
	"github.com/asaskevich/EventBus"
)

const (
	// TopicProductChanged fires after a product create/update/delete.
	// Payload: ProductChange.
	TopicProductChanged = "catalog:product:changed"
	// TopicContentChanged fires after a testimonial/FAQ write. No payload.
	TopicContentChanged = "catalog:content:changed"
	// TopicRefreshAll asks subscribers to drop everything they hold.
	// Published by the periodic re-sync job. No payload.
	TopicRefreshAll = "catalog:refresh"
)

// ProductChange identifies the product a change applies to. Both the ID and
// the slug are carried so caches keyed by either can invalidate.
type ProductChange struct {
	ProductID string `json:"product_id"`
	Slug      string `json:"slug"`
	Action    string `json:"action"` // created, updated, deleted
}

// NewBus returns a synchronous in-process bus.
func NewBus() EventBus.Bus {
	return EventBus.New()
}
