package ws

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"emberwood/server/internal/sim"
	"emberwood/server/internal/telemetry"
)

const (
	messageTypeConnect      = "connect"
	messageTypePlayerAction = "player-action"
)

// clientMessage is the envelope every inbound frame must parse into.
type clientMessage struct {
	Type   string         `json:"type"`
	Action *actionPayload `json:"action,omitempty"`
}

// actionPayload is the union of per-action fields. Which fields matter
// depends on Type.
type actionPayload struct {
	Type   string    `json:"type"`
	To     *sim.Vec2 `json:"to,omitempty"`
	Tile   *sim.Vec2 `json:"tile,omitempty"`
	ItemID string    `json:"itemId,omitempty"`
	NPCID  string    `json:"npcId,omitempty"`
}

const (
	actionMoveTo      = "move-to"
	actionPickUpItems = "pick-up-items"
	actionUseItem     = "use-item"
	actionAttackNPC   = "attack-npc"
)

// GameHub is the subset of hub behaviour the socket handler needs.
type GameHub interface {
	Subscribe(playerID, name string, conn *websocket.Conn)
	Disconnect(playerID string, conn *websocket.Conn, reason string)
	EnqueueMoveTo(playerID string, to sim.Vec2)
	EnqueuePickUp(playerID string, tile sim.Vec2)
	EnqueueUseItem(playerID, itemID string)
	EnqueueAttack(playerID, npcID string)
}

// TokenVerifier resolves a session token to a username.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Handler upgrades authenticated requests to websockets and pumps client
// frames into the hub's command queue.
type Handler struct {
	hub      GameHub
	verifier TokenVerifier
	logger   telemetry.Logger
	upgrader websocket.Upgrader
}

// NewHandler constructs a websocket handler.
func NewHandler(hub GameHub, verifier TokenVerifier, logger telemetry.Logger) *Handler {
	return &Handler{
		hub:      hub,
		verifier: verifier,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP authenticates via the token query parameter, upgrades, and runs
// the read loop until the socket closes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	username, err := h.verifier.Verify(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if h.logger != nil {
			h.logger.Printf("[ws] upgrade failed for %s: %v", username, err)
		}
		return
	}

	h.hub.Subscribe(username, username, conn)
	h.readLoop(username, conn)
}

func (h *Handler) readLoop(playerID string, conn *websocket.Conn) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			// Passing the connection keeps a superseded socket's death
			// from tearing down the reconnected one.
			h.hub.Disconnect(playerID, conn, "read failed")
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			if h.logger != nil {
				h.logger.Printf("[ws] malformed frame from %s: %v", playerID, err)
			}
			continue
		}

		switch msg.Type {
		case messageTypeConnect:
			// Handshake frame. Subscription already happened on upgrade.
		case messageTypePlayerAction:
			h.dispatchAction(playerID, msg.Action)
		default:
			if h.logger != nil {
				h.logger.Printf("[ws] unknown message type %q from %s", msg.Type, playerID)
			}
		}
	}
}

// dispatchAction translates one action frame into a staged command. Frames
// missing their required field are dropped; the queue only ever carries
// structurally complete commands.
func (h *Handler) dispatchAction(playerID string, action *actionPayload) {
	if action == nil {
		return
	}
	switch action.Type {
	case actionMoveTo:
		if action.To == nil {
			return
		}
		h.hub.EnqueueMoveTo(playerID, *action.To)
	case actionPickUpItems:
		if action.Tile == nil {
			return
		}
		h.hub.EnqueuePickUp(playerID, *action.Tile)
	case actionUseItem:
		if action.ItemID == "" {
			return
		}
		h.hub.EnqueueUseItem(playerID, action.ItemID)
	case actionAttackNPC:
		if action.NPCID == "" {
			return
		}
		h.hub.EnqueueAttack(playerID, action.NPCID)
	default:
		if h.logger != nil {
			h.logger.Printf("[ws] unknown action type %q from %s", action.Type, playerID)
		}
	}
}
