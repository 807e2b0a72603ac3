package economy

import (
	"context"

	"emberwood/server/logging"
)

const (
	// EventItemPickedUp is emitted when a tile item moves into an inventory.
	EventItemPickedUp logging.EventType = "economy.item_picked_up"
	// EventItemConsumed is emitted when a consumable is used up.
	EventItemConsumed logging.EventType = "economy.item_consumed"
)

// ItemPickedUpPayload records which instance moved and where it landed.
type ItemPickedUpPayload struct {
	ItemID   string `json:"itemId"`
	ItemType string `json:"itemType"`
	Tile     string `json:"tile"`
	Slot     int    `json:"slot"`
}

// ItemConsumedPayload records the consumed instance and its effect.
type ItemConsumedPayload struct {
	ItemID   string `json:"itemId"`
	ItemType string `json:"itemType"`
	AddHP    int    `json:"addHp"`
}

// ItemPickedUp publishes a pickup event.
func ItemPickedUp(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ItemPickedUpPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventItemPickedUp,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
		Extra:    extra,
	})
}

// ItemConsumed publishes a consumption event.
func ItemConsumed(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ItemConsumedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventItemConsumed,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryEconomy,
		Payload:  payload,
		Extra:    extra,
	})
}
