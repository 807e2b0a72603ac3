package sim

import (
	"testing"
	"time"
)

func pickUpCommand(actorID string, tile Vec2) Command {
	return Command{ActorID: actorID, Type: CommandPickUpItems, PickUp: &PickUpItemsCommand{Tile: tile}}
}

func useItemCommand(actorID, itemID string) Command {
	return Command{ActorID: actorID, Type: CommandUseItem, UseItem: &UseItemCommand{ItemID: itemID}}
}

func TestPickUpTakesHeadItemIntoFirstFreeSlot(t *testing.T) {
	w := newTestWorld(t, Vec2{X: 5, Y: 5}, MapConfig{})
	tile := Vec2{X: 5, Y: 5}

	first, err := w.PlaceItem(tile, ItemTypeIronBar)
	if err != nil {
		t.Fatalf("place first item: %v", err)
	}
	second, err := w.PlaceItem(tile, ItemTypeHealthPotion)
	if err != nil {
		t.Fatalf("place second item: %v", err)
	}

	w.Step(time.Now(), []Command{joinCommand("alice")})
	w.Step(time.Now(), []Command{pickUpCommand("alice", tile)})

	snap := w.Snapshot()
	player := snap.Players["alice"]
	// Slots 0 and 1 hold the starter kit, so the pickup lands in slot 2.
	if player.Inventory[2] == nil || player.Inventory[2].ID != first.ID {
		t.Fatalf("head item not in slot 2: %+v", player.Inventory[2])
	}
	remaining := snap.Tiles[tile.Key()].Items
	if len(remaining) != 1 || remaining[0].ID != second.ID {
		t.Fatalf("tile should keep only the second item, got %+v", remaining)
	}
	if player.State.Type != StateIdle {
		t.Fatalf("pickup changed activity to %q", player.State.Type)
	}

	w.Step(time.Now(), []Command{pickUpCommand("alice", tile)})
	snap = w.Snapshot()
	if snap.Players["alice"].Inventory[3] == nil || snap.Players["alice"].Inventory[3].ID != second.ID {
		t.Fatalf("second pickup not in slot 3")
	}
	if len(snap.Tiles[tile.Key()].Items) != 0 {
		t.Fatalf("tile should be empty after both pickups")
	}
}

func TestPickUpFromEmptyTileIsNoOp(t *testing.T) {
	w := newTestWorld(t, Vec2{X: 5, Y: 5}, MapConfig{})
	w.Step(time.Now(), []Command{joinCommand("alice")})
	w.Step(time.Now(), []Command{pickUpCommand("alice", Vec2{X: 9, Y: 9})})

	player := w.Snapshot().Players["alice"]
	for i := 2; i < InventoryCapacity; i++ {
		if player.Inventory[i] != nil {
			t.Fatalf("slot %d filled by empty-tile pickup", i)
		}
	}
}

func TestPickUpWithFullInventoryLeavesItemOnTile(t *testing.T) {
	w := newTestWorld(t, Vec2{X: 5, Y: 5}, MapConfig{})
	tile := Vec2{X: 5, Y: 5}

	// 14 free slots beside the starter kit; place one extra item.
	for i := 0; i < 15; i++ {
		if _, err := w.PlaceItem(tile, ItemTypeIronBar); err != nil {
			t.Fatalf("place item %d: %v", i, err)
		}
	}

	w.Step(time.Now(), []Command{joinCommand("alice")})
	commands := make([]Command, 0, 15)
	for i := 0; i < 15; i++ {
		commands = append(commands, pickUpCommand("alice", tile))
	}
	w.Step(time.Now(), commands)

	snap := w.Snapshot()
	player := snap.Players["alice"]
	for i, slot := range player.Inventory {
		if slot == nil {
			t.Fatalf("slot %d empty, inventory should be full", i)
		}
	}
	if got := len(snap.Tiles[tile.Key()].Items); got != 1 {
		t.Fatalf("tile items = %d, want the overflow item to remain", got)
	}
}

func TestUseConsumableAddsHPAndClearsSlot(t *testing.T) {
	w := newTestWorld(t, Vec2{X: 5, Y: 5}, MapConfig{})
	w.Step(time.Now(), []Command{joinCommand("alice")})

	potionID := w.Snapshot().Players["alice"].Inventory[0].ID
	w.Step(time.Now(), []Command{useItemCommand("alice", potionID)})

	player := w.Snapshot().Players["alice"]
	if player.HP != 15 {
		t.Fatalf("hp = %d, want 15 (no ceiling applies)", player.HP)
	}
	if player.Inventory[0] != nil {
		t.Fatalf("consumed potion still occupies its slot")
	}
	if player.State.Type != StateIdle {
		t.Fatalf("state after use = %q", player.State.Type)
	}
}

func TestUseConsumableStacksAboveStartingHP(t *testing.T) {
	w := newTestWorld(t, Vec2{X: 5, Y: 5}, MapConfig{})
	tile := Vec2{X: 5, Y: 5}
	extra, err := w.PlaceItem(tile, ItemTypeHealthPotion)
	if err != nil {
		t.Fatalf("place potion: %v", err)
	}

	w.Step(time.Now(), []Command{joinCommand("alice")})
	potionID := w.Snapshot().Players["alice"].Inventory[0].ID
	w.Step(time.Now(), []Command{
		useItemCommand("alice", potionID),
		pickUpCommand("alice", tile),
		useItemCommand("alice", extra.ID),
	})

	if got := w.Snapshot().Players["alice"].HP; got != 20 {
		t.Fatalf("hp = %d, want 20 after two potions", got)
	}
}

func TestUseNonConsumableIsNoOp(t *testing.T) {
	w := newTestWorld(t, Vec2{X: 5, Y: 5}, MapConfig{})
	w.Step(time.Now(), []Command{joinCommand("alice")})

	swordID := w.Snapshot().Players["alice"].Inventory[1].ID
	w.Step(time.Now(), []Command{useItemCommand("alice", swordID)})

	player := w.Snapshot().Players["alice"]
	if player.HP != 10 {
		t.Fatalf("hp changed: %d", player.HP)
	}
	if player.Inventory[1] == nil || player.Inventory[1].ID != swordID {
		t.Fatalf("sword should stay in its slot")
	}
}

func TestUseUnknownItemIDIsNoOp(t *testing.T) {
	w := newTestWorld(t, Vec2{X: 5, Y: 5}, MapConfig{})
	w.Step(time.Now(), []Command{joinCommand("alice")})
	w.Step(time.Now(), []Command{useItemCommand("alice", "no-such-instance")})

	if got := w.Snapshot().Players["alice"].HP; got != 10 {
		t.Fatalf("hp changed by unknown item: %d", got)
	}
}

func TestPlaceItemRejectsUnknownType(t *testing.T) {
	w := newTestWorld(t, Vec2{X: 5, Y: 5}, MapConfig{})
	if _, err := w.PlaceItem(Vec2{X: 1, Y: 1}, ItemTypeID("BOGUS")); err == nil {
		t.Fatalf("expected error for unknown item type")
	}
}

func TestSnapshotIsDetachedFromLiveState(t *testing.T) {
	w := newTestWorld(t, Vec2{X: 5, Y: 5}, MapConfig{})
	w.Step(time.Now(), []Command{joinCommand("alice")})

	snap := w.Snapshot()
	snap.Players["alice"].Inventory[0].ID = "tampered"

	if got := w.Snapshot().Players["alice"].Inventory[0].ID; got == "tampered" {
		t.Fatalf("snapshot mutation leaked into live state")
	}
}
