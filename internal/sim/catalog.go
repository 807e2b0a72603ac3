package sim

import "sort"

// ItemTypeID keys the static item catalog.
type ItemTypeID string

const (
	ItemTypeHealthPotion ItemTypeID = "HP_POT_1"
	ItemTypeRustySword   ItemTypeID = "RUSTY_SWORD"
	ItemTypeIronBar      ItemTypeID = "IRON_BAR"
)

// ConsumableEffect describes what happens when an item is used up.
type ConsumableEffect struct {
	AddHP int `json:"addHp"`
}

// WeaponProfile carries the combat data for weapon items. It is catalog data
// only; nothing in the simulation consults it yet.
type WeaponProfile struct {
	PhysicalAttack int    `json:"physicalAttack"`
	Class          string `json:"class"`
}

// ItemDefinition is one entry in the static item catalog.
type ItemDefinition struct {
	ID         ItemTypeID        `json:"id"`
	Name       string            `json:"name"`
	Consumable *ConsumableEffect `json:"consumable,omitempty"`
	Weapon     *WeaponProfile    `json:"weapon,omitempty"`
	BasePrice  int               `json:"basePrice"`
}

var itemCatalog = buildItemCatalog()

func buildItemCatalog() map[ItemTypeID]ItemDefinition {
	defs := []ItemDefinition{
		{
			ID:         ItemTypeHealthPotion,
			Name:       "Small HP Potion",
			Consumable: &ConsumableEffect{AddHP: 5},
			BasePrice:  5,
		},
		{
			ID:   ItemTypeRustySword,
			Name: "Rusty Sword",
			Weapon: &WeaponProfile{
				PhysicalAttack: 5,
				Class:          "melee",
			},
			BasePrice: 1,
		},
		{
			ID:        ItemTypeIronBar,
			Name:      "Iron Bar",
			BasePrice: 10,
		},
	}

	catalog := make(map[ItemTypeID]ItemDefinition, len(defs))
	for _, def := range defs {
		catalog[def.ID] = def
	}
	return catalog
}

// ItemDefinitionFor fetches the definition for a given item type.
func ItemDefinitionFor(itemType ItemTypeID) (ItemDefinition, bool) {
	def, ok := itemCatalog[itemType]
	return def, ok
}

// ItemDefinitions returns the catalog sorted by identifier.
func ItemDefinitions() []ItemDefinition {
	defs := make([]ItemDefinition, 0, len(itemCatalog))
	for _, def := range itemCatalog {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].ID < defs[j].ID
	})
	return defs
}

// NPCTypeID keys the static NPC catalog.
type NPCTypeID string

const (
	NPCTypeGuide  NPCTypeID = "GUIDE"
	NPCTypeSlime  NPCTypeID = "SLIME"
	NPCTypeGoblin NPCTypeID = "GOBLIN"
)

// NPCMode tags a type as friendly or hostile. Data only for now.
type NPCMode string

const (
	NPCModeFriendly NPCMode = "friendly"
	NPCModeHostile  NPCMode = "hostile"
)

// DropEntry records a potential loot drop. Drop tables are carried as data
// but are never rolled; defeat removes the NPC without spilling loot.
type DropEntry struct {
	Item   string `json:"item"`
	Chance int    `json:"chance"`
}

// NPCDefinition is one entry in the static NPC catalog.
type NPCDefinition struct {
	ID    NPCTypeID   `json:"id"`
	HP    int         `json:"hp"`
	MP    int         `json:"mp"`
	Mode  NPCMode     `json:"mode"`
	Drops []DropEntry `json:"drops,omitempty"`
}

var npcCatalog = buildNPCCatalog()

func buildNPCCatalog() map[NPCTypeID]NPCDefinition {
	defs := []NPCDefinition{
		{
			ID:   NPCTypeGuide,
			HP:   10,
			Mode: NPCModeFriendly,
		},
		{
			ID:   NPCTypeSlime,
			HP:   10,
			Mode: NPCModeHostile,
			Drops: []DropEntry{
				{Item: "hp-potion-1", Chance: 10},
			},
		},
		{
			ID:   NPCTypeGoblin,
			HP:   20,
			Mode: NPCModeHostile,
			Drops: []DropEntry{
				{Item: "iron-bar", Chance: 15},
			},
		},
	}

	catalog := make(map[NPCTypeID]NPCDefinition, len(defs))
	for _, def := range defs {
		catalog[def.ID] = def
	}
	return catalog
}

// NPCDefinitionFor fetches the definition for a given NPC type.
func NPCDefinitionFor(npcType NPCTypeID) (NPCDefinition, bool) {
	def, ok := npcCatalog[npcType]
	return def, ok
}

// SpawnPolicy selects how a spawn config decides whether its NPC exists.
type SpawnPolicy string

const (
	// SpawnFixed recreates the NPC whenever it is absent.
	SpawnFixed SpawnPolicy = "fixed"
	// SpawnInterval recreates the NPC when it is absent and the tick counter
	// lands on a MinTicks boundary.
	SpawnInterval SpawnPolicy = "interval"
)

// SpawnConfig is a static spawn point loaded at startup. MaxTicks is accepted
// in configuration but the interval policy only consults MinTicks.
type SpawnConfig struct {
	ID       string      `json:"id"`
	NPCType  NPCTypeID   `json:"npcId"`
	Position Vec2        `json:"position"`
	Policy   SpawnPolicy `json:"type"`
	MinTicks uint64      `json:"minTicks,omitempty"`
	MaxTicks uint64      `json:"maxTicks,omitempty"`
}

// TileConfig marks static properties of a board tile.
type TileConfig struct {
	Solid bool `json:"isSolid,omitempty"`
	Water bool `json:"isWater,omitempty"`
}

// MapConfig is the static board layout: spawn points in declared order plus
// per-tile flags keyed by "x,y".
type MapConfig struct {
	Spawns []SpawnConfig         `json:"spawns"`
	Tiles  map[string]TileConfig `json:"tiles"`
}

// DefaultMapConfig mirrors the prototype board layout.
func DefaultMapConfig() MapConfig {
	return MapConfig{
		Spawns: []SpawnConfig{
			{
				ID:       "guide",
				NPCType:  NPCTypeGuide,
				Position: Vec2{X: 16, Y: 12},
				Policy:   SpawnInterval,
				MinTicks: 4,
				MaxTicks: 8,
			},
			{
				ID:       "slime-1",
				NPCType:  NPCTypeSlime,
				Position: Vec2{X: 5, Y: 5},
				Policy:   SpawnInterval,
				MinTicks: 4,
				MaxTicks: 8,
			},
			{
				ID:       "goblin-1",
				NPCType:  NPCTypeGoblin,
				Position: Vec2{X: 25, Y: 25},
				Policy:   SpawnInterval,
				MinTicks: 10,
				MaxTicks: 20,
			},
		},
		Tiles: map[string]TileConfig{
			TileKeyFor(0, 0): {Solid: true},
		},
	}
}
