package sim

import (
	"context"

	"emberwood/server/logging"
	loggingcombat "emberwood/server/logging/combat"
	loggingeconomy "emberwood/server/logging/economy"
)

// Apply runs every drained command against the world in arrival order.
// Commands within one tick are strictly sequential, so two commands touching
// the same NPC or tile observe each other's effects.
func (w *World) Apply(commands []Command) {
	for i := range commands {
		w.applyCommand(commands[i])
	}
}

func (w *World) applyCommand(cmd Command) {
	if cmd.Type == CommandJoin {
		w.applyJoin(cmd)
		return
	}

	// A sender that disconnected (or never joined) before the tick boundary
	// is discarded silently.
	player, ok := w.players[cmd.ActorID]
	if !ok {
		return
	}

	if next, changed := w.processPlayerAction(player, cmd); changed {
		player.State = next
	}
	if !cmd.IssuedAt.IsZero() {
		player.lastInput = cmd.IssuedAt
	}
}

// processPlayerAction validates one command against the current world and
// returns the sender's next state. Invalid targets are consumed as no-ops:
// the second return is false and nothing changes.
func (w *World) processPlayerAction(player *playerState, cmd Command) (PlayerState, bool) {
	switch cmd.Type {
	case CommandMoveTo:
		if cmd.MoveTo == nil {
			return PlayerState{}, false
		}
		return w.processMoveTo(player, cmd.MoveTo.To)
	case CommandPickUpItems:
		if cmd.PickUp == nil {
			return PlayerState{}, false
		}
		return w.processPickUp(player, cmd.PickUp.Tile)
	case CommandUseItem:
		if cmd.UseItem == nil {
			return PlayerState{}, false
		}
		return w.processUseItem(player, cmd.UseItem.ItemID)
	case CommandAttackNPC:
		if cmd.Attack == nil {
			return PlayerState{}, false
		}
		return w.processAttack(player, cmd.Attack.TargetID)
	}
	return PlayerState{}, false
}

func (w *World) processMoveTo(player *playerState, to Vec2) (PlayerState, bool) {
	if w.isTileBlocked(to) {
		return PlayerState{}, false
	}
	from := player.Position
	return PlayerState{
		Type:        StateMoving,
		From:        &from,
		To:          &to,
		StartedTick: w.tick,
	}, true
}

func (w *World) processPickUp(player *playerState, tilePos Vec2) (PlayerState, bool) {
	tile, ok := w.tiles[tilePos.Key()]
	if !ok || len(tile.items) == 0 {
		return PlayerState{}, false
	}

	// No partial pickup: with a full inventory the item stays on the tile.
	slot := firstFreeSlot(player.Inventory)
	if slot < 0 {
		return PlayerState{}, false
	}

	item := tile.items[0]
	tile.items = tile.items[1:]
	player.Inventory[slot] = item

	loggingeconomy.ItemPickedUp(
		context.Background(),
		w.publisher,
		w.tick,
		logging.EntityRef{ID: player.ID, Kind: logging.EntityKindPlayer},
		loggingeconomy.ItemPickedUpPayload{
			ItemID:   item.ID,
			ItemType: string(item.ItemType),
			Tile:     tilePos.Key(),
			Slot:     slot,
		},
		nil,
	)

	// The item moved but the sender's activity is unchanged.
	return PlayerState{}, false
}

func (w *World) processUseItem(player *playerState, itemID string) (PlayerState, bool) {
	slot := -1
	for i, item := range player.Inventory {
		if item != nil && item.ID == itemID {
			slot = i
			break
		}
	}
	if slot < 0 {
		return PlayerState{}, false
	}

	item := player.Inventory[slot]
	def, ok := ItemDefinitionFor(item.ItemType)
	if !ok || def.Consumable == nil {
		// Non-consumables have no use effect; the command is still consumed.
		return PlayerState{}, false
	}

	// No hp ceiling exists; the gain is applied unclamped.
	player.HP += def.Consumable.AddHP
	player.Inventory[slot] = nil

	loggingeconomy.ItemConsumed(
		context.Background(),
		w.publisher,
		w.tick,
		logging.EntityRef{ID: player.ID, Kind: logging.EntityKindPlayer},
		loggingeconomy.ItemConsumedPayload{
			ItemID:   item.ID,
			ItemType: string(item.ItemType),
			AddHP:    def.Consumable.AddHP,
		},
		nil,
	)

	return IdleState(), true
}

func (w *World) processAttack(player *playerState, targetID string) (PlayerState, bool) {
	npc, ok := w.npcs[targetID]
	if !ok {
		return PlayerState{}, false
	}
	if manhattanDistance(player.Position, npc.Position) > attackRange {
		return PlayerState{}, false
	}

	npc.HP -= attackDamage
	target := logging.EntityRef{ID: npc.ID, Kind: logging.EntityKindNPC}
	loggingcombat.NPCDamaged(
		context.Background(),
		w.publisher,
		w.tick,
		logging.EntityRef{ID: player.ID, Kind: logging.EntityKindPlayer},
		target,
		loggingcombat.NPCDamagedPayload{Damage: attackDamage, Remaining: npc.HP},
		nil,
	)

	if npc.HP <= 0 {
		delete(w.npcs, targetID)
		loggingcombat.NPCDefeated(
			context.Background(),
			w.publisher,
			w.tick,
			logging.EntityRef{ID: player.ID, Kind: logging.EntityKindPlayer},
			target,
			nil,
		)
	}

	return PlayerState{Type: StateAttackingNPC, TargetNPCID: targetID}, true
}
