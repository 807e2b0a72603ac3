package sim

import "time"

// ItemInstance is one concrete item in the world. An instance lives on
// exactly one tile's item list or in exactly one inventory slot, never both.
type ItemInstance struct {
	ID       string     `json:"id"`
	ItemType ItemTypeID `json:"iid"`
}

// Skills holds per-discipline experience counters. They only ever grow.
type Skills struct {
	Strength int `json:"strength"`
	Attack   int `json:"attack"`
	Defense  int `json:"defense"`
	Magic    int `json:"magic"`
}

// PlayerStateType enumerates the player activity variants.
type PlayerStateType string

const (
	StateIdle         PlayerStateType = "idle"
	StateMoving       PlayerStateType = "move"
	StateAttackingNPC PlayerStateType = "attacking-npc"
)

// PlayerState is the tagged activity variant. Only the fields belonging to
// the active type are populated.
type PlayerState struct {
	Type        PlayerStateType `json:"type"`
	From        *Vec2           `json:"from,omitempty"`
	To          *Vec2           `json:"to,omitempty"`
	StartedTick uint64          `json:"startedTick,omitempty"`
	TargetNPCID string          `json:"npcId,omitempty"`
}

// IdleState is the resting variant shared by every transition back to idle.
func IdleState() PlayerState {
	return PlayerState{Type: StateIdle}
}

// Player is the broadcast-facing view of one player entity.
type Player struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Position  Vec2            `json:"position"`
	State     PlayerState     `json:"state"`
	Skills    Skills          `json:"skills"`
	Inventory []*ItemInstance `json:"inventory"`
	HP        int             `json:"hp"`
	MP        int             `json:"mp"`
}

// NPC is the broadcast-facing view of one spawned NPC.
type NPC struct {
	ID       string    `json:"id"`
	Type     NPCTypeID `json:"npcId"`
	Position Vec2      `json:"position"`
	HP       int       `json:"hp"`
	MP       int       `json:"mp"`
}

type playerState struct {
	Player
	lastInput time.Time
}

// snapshot deep-copies the player so broadcast readers never alias live
// inventory slots.
func (s *playerState) snapshot() Player {
	player := s.Player
	player.Inventory = cloneInventory(s.Inventory)
	if s.State.From != nil {
		from := *s.State.From
		player.State.From = &from
	}
	if s.State.To != nil {
		to := *s.State.To
		player.State.To = &to
	}
	return player
}

func cloneInventory(slots []*ItemInstance) []*ItemInstance {
	cloned := make([]*ItemInstance, len(slots))
	for i, slot := range slots {
		if slot == nil {
			continue
		}
		item := *slot
		cloned[i] = &item
	}
	return cloned
}

// firstFreeSlot scans slots in ascending order, returning -1 when full.
func firstFreeSlot(slots []*ItemInstance) int {
	for i, slot := range slots {
		if slot == nil {
			return i
		}
	}
	return -1
}

type npcState struct {
	NPC
}

func (s *npcState) snapshot() NPC {
	return s.NPC
}

type tileState struct {
	config TileConfig
	items  []*ItemInstance
}
