package combat

import (
	"context"

	"emberwood/server/logging"
)

const (
	// EventNPCDamaged is emitted when a melee hit lands on an NPC.
	EventNPCDamaged logging.EventType = "combat.npc_damaged"
	// EventNPCDefeated is emitted when an NPC's hit points reach zero.
	EventNPCDefeated logging.EventType = "combat.npc_defeated"
)

// NPCDamagedPayload records the hit and the remaining hit points.
type NPCDamagedPayload struct {
	Damage    int `json:"damage"`
	Remaining int `json:"remaining"`
}

// NPCDamaged publishes an attack hit event.
func NPCDamaged(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload NPCDamagedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventNPCDamaged,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
		Extra:    extra,
	})
}

// NPCDefeated publishes an NPC removal event.
func NPCDefeated(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventNPCDefeated,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Extra:    extra,
	})
}
