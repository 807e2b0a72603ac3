package sim

import "time"

// CommandType enumerates the supported simulation commands.
type CommandType string

const (
	CommandJoin        CommandType = "Join"
	CommandMoveTo      CommandType = "MoveTo"
	CommandPickUpItems CommandType = "PickUpItems"
	CommandUseItem     CommandType = "UseItem"
	CommandAttackNPC   CommandType = "AttackNpc"
)

// JoinCommand registers the sending identity as a player entity. Joining an
// identity that already has a player is a no-op, so reconnects are safe.
type JoinCommand struct {
	Name string `json:"name"`
}

// MoveToCommand requests movement toward a destination tile.
type MoveToCommand struct {
	To Vec2 `json:"to"`
}

// PickUpItemsCommand requests the head item from a tile's item list.
type PickUpItemsCommand struct {
	Tile Vec2 `json:"tile"`
}

// UseItemCommand consumes or activates an item from the sender's inventory.
type UseItemCommand struct {
	ItemID string `json:"itemId"`
}

// AttackNPCCommand strikes an NPC within melee range.
type AttackNPCCommand struct {
	TargetID string `json:"npcId"`
}

// Command represents an intent captured for processing on the next tick.
type Command struct {
	ActorID  string              `json:"actorId"`
	Type     CommandType         `json:"type"`
	IssuedAt time.Time           `json:"issuedAt"`
	Join     *JoinCommand        `json:"join,omitempty"`
	MoveTo   *MoveToCommand      `json:"moveTo,omitempty"`
	PickUp   *PickUpItemsCommand `json:"pickUp,omitempty"`
	UseItem  *UseItemCommand     `json:"useItem,omitempty"`
	Attack   *AttackNPCCommand   `json:"attack,omitempty"`
}
