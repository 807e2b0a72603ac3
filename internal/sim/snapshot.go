package sim

// TileSnapshot is the broadcast view of one tile's contents.
type TileSnapshot struct {
	NPCs  []NPC          `json:"npcs"`
	Items []ItemInstance `json:"items"`
}

// Snapshot is a complete, detached serialization of the world after a tick.
// It shares no memory with the live state, so broadcast readers are safe.
type Snapshot struct {
	Tick    uint64                  `json:"tick"`
	Players map[string]Player       `json:"players"`
	NPCs    map[string]NPC          `json:"npcs"`
	Tiles   map[string]TileSnapshot `json:"tiles"`
}

// Snapshot copies players, NPCs, and tile contents into broadcast structs.
func (w *World) Snapshot() Snapshot {
	players := make(map[string]Player, len(w.players))
	for id, player := range w.players {
		players[id] = player.snapshot()
	}
	npcs := make(map[string]NPC, len(w.npcs))
	for id, npc := range w.npcs {
		npcs[id] = npc.snapshot()
	}
	tiles := make(map[string]TileSnapshot, len(w.tiles))
	for key, tile := range w.tiles {
		snap := TileSnapshot{
			NPCs:  make([]NPC, 0),
			Items: make([]ItemInstance, 0, len(tile.items)),
		}
		for _, item := range tile.items {
			snap.Items = append(snap.Items, *item)
		}
		tiles[key] = snap
	}
	return Snapshot{
		Tick:    w.tick,
		Players: players,
		NPCs:    npcs,
		Tiles:   tiles,
	}
}
