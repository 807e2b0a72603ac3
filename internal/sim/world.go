package sim

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"emberwood/server/logging"
	logginglifecycle "emberwood/server/logging/lifecycle"
)

// WorldConfig captures the board extents and the shared player spawn point.
type WorldConfig struct {
	Width         int  `json:"width"`
	Height        int  `json:"height"`
	SpawnPosition Vec2 `json:"spawnPosition"`
}

// normalized returns a config with defaults applied.
func (cfg WorldConfig) normalized() WorldConfig {
	normalized := cfg
	if normalized.Width <= 0 {
		normalized.Width = 32
	}
	if normalized.Height <= 0 {
		normalized.Height = 32
	}
	if normalized.SpawnPosition == (Vec2{}) {
		normalized.SpawnPosition = Vec2{X: normalized.Width / 2, Y: normalized.Height / 2}
	}
	return normalized
}

// DefaultWorldConfig is the prototype board: 32x32 with a central spawn.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{Width: 32, Height: 32, SpawnPosition: Vec2{X: 16, Y: 16}}
}

// World owns the authoritative simulation state. It has exactly one writer:
// the tick loop. Everything outside the loop sees only snapshots.
type World struct {
	config    WorldConfig
	mapConfig MapConfig
	tick      uint64
	players   map[string]*playerState
	npcs      map[string]*npcState
	tiles     map[string]*tileState
	publisher logging.Publisher
}

// NewWorld constructs an empty world with tiles seeded from the map config.
func NewWorld(cfg WorldConfig, mapCfg MapConfig, publisher logging.Publisher) *World {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	w := &World{
		config:    cfg.normalized(),
		mapConfig: mapCfg,
		players:   make(map[string]*playerState),
		npcs:      make(map[string]*npcState),
		tiles:     make(map[string]*tileState, len(mapCfg.Tiles)),
		publisher: publisher,
	}
	for key, tileCfg := range mapCfg.Tiles {
		w.tiles[key] = &tileState{config: tileCfg}
	}
	return w
}

// Tick reports the current tick counter.
func (w *World) Tick() uint64 {
	return w.tick
}

// Config returns the normalized world configuration.
func (w *World) Config() WorldConfig {
	return w.config
}

// HasPlayer reports whether the world currently tracks the given identity.
func (w *World) HasPlayer(id string) bool {
	_, ok := w.players[id]
	return ok
}

func (w *World) ensureTile(key string) *tileState {
	tile, ok := w.tiles[key]
	if !ok {
		tile = &tileState{config: w.mapConfig.Tiles[key]}
		w.tiles[key] = tile
	}
	return tile
}

// isTileBlocked consults the static map config; only solid tiles block.
// Destinations outside the board are accepted as given.
func (w *World) isTileBlocked(pos Vec2) bool {
	if tile, ok := w.tiles[pos.Key()]; ok {
		return tile.config.Solid
	}
	return w.mapConfig.Tiles[pos.Key()].Solid
}

// PlaceItem mints a new item instance of the given type onto a tile's item
// list. This is the entry point for seeding loot onto the board.
func (w *World) PlaceItem(pos Vec2, itemType ItemTypeID) (ItemInstance, error) {
	if _, ok := ItemDefinitionFor(itemType); !ok {
		return ItemInstance{}, fmt.Errorf("unknown item type %q", itemType)
	}
	item := &ItemInstance{ID: uuid.NewString(), ItemType: itemType}
	tile := w.ensureTile(pos.Key())
	tile.items = append(tile.items, item)
	return *item, nil
}

// applyJoin creates the player entity for an identity on its first join.
// Re-joining an existing identity leaves the entity untouched.
func (w *World) applyJoin(cmd Command) {
	if cmd.ActorID == "" {
		return
	}
	if _, ok := w.players[cmd.ActorID]; ok {
		return
	}

	name := cmd.ActorID
	if cmd.Join != nil && cmd.Join.Name != "" {
		name = cmd.Join.Name
	}

	player := &playerState{
		Player: Player{
			ID:        cmd.ActorID,
			Name:      name,
			Position:  w.config.SpawnPosition,
			State:     IdleState(),
			Inventory: starterInventory(),
			HP:        starterHP,
			MP:        starterMP,
		},
	}
	w.players[cmd.ActorID] = player

	logginglifecycle.PlayerJoined(
		context.Background(),
		w.publisher,
		w.tick,
		logging.EntityRef{ID: cmd.ActorID, Kind: logging.EntityKindPlayer},
		logginglifecycle.PlayerJoinedPayload{SpawnX: player.Position.X, SpawnY: player.Position.Y},
		nil,
	)
}

// starterInventory seeds the fixed slot array with the signup kit: one
// potion and one sword, everything else empty.
func starterInventory() []*ItemInstance {
	slots := make([]*ItemInstance, InventoryCapacity)
	slots[0] = &ItemInstance{ID: uuid.NewString(), ItemType: ItemTypeHealthPotion}
	slots[1] = &ItemInstance{ID: uuid.NewString(), ItemType: ItemTypeRustySword}
	return slots
}

func (w *World) spawnNPC(cfg SpawnConfig) {
	def, ok := NPCDefinitionFor(cfg.NPCType)
	if !ok {
		return
	}
	w.npcs[cfg.ID] = &npcState{
		NPC: NPC{
			ID:       cfg.ID,
			Type:     cfg.NPCType,
			Position: cfg.Position,
			HP:       def.HP,
			// mp seeds from the hp value, like the rest of the catalog data.
			MP: def.HP,
		},
	}
}
