package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"emberwood/server/internal/sim"
	"emberwood/server/internal/telemetry"
	"emberwood/server/logging"
	logginglifecycle "emberwood/server/logging/lifecycle"
)

// subscriber wraps one websocket with a write mutex so concurrent broadcasts
// and direct sends never interleave frames.
type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) send(payload []byte, deadline time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sendLocked(payload, deadline)
}

func (s *subscriber) sendLocked(payload []byte, deadline time.Time) error {
	if err := s.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// HubConfig wires the hub's collaborators.
type HubConfig struct {
	World     *sim.World
	Loop      sim.LoopConfig
	Logger    telemetry.Logger
	Metrics   telemetry.Metrics
	Publisher logging.Publisher
}

// Hub owns the subscriber registry and the simulation loop. Network handlers
// talk to the world exclusively through the hub's enqueue methods; the loop
// goroutine is the world's only reader and writer.
type Hub struct {
	mu           sync.Mutex
	subscribers  map[string]*subscriber
	lastSnapshot sim.Snapshot
	haveSnapshot bool

	loop      *sim.Loop
	logger    telemetry.Logger
	publisher logging.Publisher
	telemetry telemetryCounters
}

// NewHub constructs a hub driving the provided world.
func NewHub(cfg HubConfig) *Hub {
	h := &Hub{
		subscribers: make(map[string]*subscriber),
		logger:      cfg.Logger,
		publisher:   cfg.Publisher,
	}
	if h.publisher == nil {
		h.publisher = logging.NopPublisher()
	}
	h.loop = sim.NewLoop(cfg.World, cfg.Loop, sim.LoopHooks{AfterStep: h.afterStep}, cfg.Logger, cfg.Metrics)
	return h
}

// RunSimulation drives the tick loop until stop closes. Call from a dedicated
// goroutine.
func (h *Hub) RunSimulation(stop <-chan struct{}) {
	h.loop.Run(stop)
}

// Subscribe registers a socket for snapshot broadcasts and stages a join for
// the player. Join is processed by the tick loop, so the player entity appears
// in the next snapshot rather than immediately. A second socket for the same
// player replaces the first.
func (h *Hub) Subscribe(playerID, name string, conn *websocket.Conn) {
	sub := &subscriber{conn: conn}

	// Hold the new socket's write mutex from before registration until the
	// cached snapshot is out. A broadcast for a later tick can already see
	// the subscriber but blocks here, so the client never observes ticks
	// out of order.
	sub.mu.Lock()

	h.mu.Lock()
	if existing, ok := h.subscribers[playerID]; ok {
		existing.conn.Close()
	}
	h.subscribers[playerID] = sub
	snapshot, haveSnapshot := h.lastSnapshot, h.haveSnapshot
	h.mu.Unlock()

	h.EnqueueJoin(playerID, name)

	// Send the latest world state right away so the client is not blind
	// until the next tick fires.
	sendFailed := false
	if haveSnapshot {
		payload, err := json.Marshal(stateMessage{Type: messageTypeStateUpdate, State: snapshot})
		if err == nil {
			if err := sub.sendLocked(payload, time.Now().Add(writeWait)); err != nil {
				sendFailed = true
			}
		}
	}
	sub.mu.Unlock()

	if sendFailed {
		h.dropSubscriber(playerID, sub, "initial send failed")
	}
}

// Disconnect removes the registration for playerID only while it still
// belongs to conn. A socket that was superseded by a reconnect closes without
// touching the fresh registration. The player entity stays in the world
// either way, so a reconnect resumes where it left off.
func (h *Hub) Disconnect(playerID string, conn *websocket.Conn, reason string) {
	h.mu.Lock()
	sub, ok := h.subscribers[playerID]
	h.mu.Unlock()

	if !ok || sub.conn != conn {
		if conn != nil {
			conn.Close()
		}
		return
	}
	h.dropSubscriber(playerID, sub, reason)
}

// dropSubscriber deletes the registry entry only if it still points at sub,
// then closes sub's socket. The disconnect event fires only when an entry was
// actually removed.
func (h *Hub) dropSubscriber(playerID string, sub *subscriber, reason string) {
	h.mu.Lock()
	current, registered := h.subscribers[playerID]
	if registered && current == sub {
		delete(h.subscribers, playerID)
	} else {
		registered = false
	}
	tick := h.lastSnapshot.Tick
	h.mu.Unlock()

	sub.conn.Close()
	if !registered {
		return
	}

	logginglifecycle.PlayerDisconnected(
		context.Background(),
		h.publisher,
		tick,
		logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		logginglifecycle.PlayerDisconnectedPayload{Reason: reason},
		nil,
	)
}

// EnqueueJoin stages a join command creating the player entity if it does not
// exist yet. Joining an existing identity is a no-op inside the step.
func (h *Hub) EnqueueJoin(playerID, name string) {
	h.loop.Enqueue(sim.Command{
		ActorID: playerID,
		Type:    sim.CommandJoin,
		Join:    &sim.JoinCommand{Name: name},
	})
}

// EnqueueMoveTo stages a movement command for the next tick.
func (h *Hub) EnqueueMoveTo(playerID string, to sim.Vec2) {
	h.loop.Enqueue(sim.Command{
		ActorID: playerID,
		Type:    sim.CommandMoveTo,
		MoveTo:  &sim.MoveToCommand{To: to},
	})
}

// EnqueuePickUp stages an item pickup command for the next tick.
func (h *Hub) EnqueuePickUp(playerID string, tile sim.Vec2) {
	h.loop.Enqueue(sim.Command{
		ActorID: playerID,
		Type:    sim.CommandPickUpItems,
		PickUp:  &sim.PickUpItemsCommand{Tile: tile},
	})
}

// EnqueueUseItem stages an item use command for the next tick.
func (h *Hub) EnqueueUseItem(playerID, itemID string) {
	h.loop.Enqueue(sim.Command{
		ActorID: playerID,
		Type:    sim.CommandUseItem,
		UseItem: &sim.UseItemCommand{ItemID: itemID},
	})
}

// EnqueueAttack stages an attack command for the next tick.
func (h *Hub) EnqueueAttack(playerID, npcID string) {
	h.loop.Enqueue(sim.Command{
		ActorID: playerID,
		Type:    sim.CommandAttackNPC,
		Attack:  &sim.AttackNPCCommand{TargetID: npcID},
	})
}

// afterStep runs on the loop goroutine after every completed tick.
func (h *Hub) afterStep(result sim.StepResult) {
	h.mu.Lock()
	h.lastSnapshot = result.Snapshot
	h.haveSnapshot = true
	h.mu.Unlock()

	h.broadcastState(result.Snapshot)
}

// broadcastState marshals the snapshot once and fans it out to every
// subscriber. Sockets that fail to accept the write are disconnected.
func (h *Hub) broadcastState(snapshot sim.Snapshot) {
	payload, err := json.Marshal(stateMessage{Type: messageTypeStateUpdate, State: snapshot})
	if err != nil {
		if h.logger != nil {
			h.logger.Printf("[hub] failed to marshal state: %v", err)
		}
		return
	}

	type target struct {
		id  string
		sub *subscriber
	}
	h.mu.Lock()
	targets := make([]target, 0, len(h.subscribers))
	for id, sub := range h.subscribers {
		targets = append(targets, target{id: id, sub: sub})
	}
	h.mu.Unlock()

	deadline := time.Now().Add(writeWait)
	var failed []target
	for _, t := range targets {
		if err := t.sub.send(payload, deadline); err != nil {
			h.telemetry.recordWriteFailure()
			if h.logger != nil {
				h.logger.Printf("[hub] dropping subscriber %s: %v", t.id, err)
			}
			failed = append(failed, t)
		}
	}
	for _, t := range failed {
		h.dropSubscriber(t.id, t.sub, "write failed")
	}

	entities := len(snapshot.Players) + len(snapshot.NPCs)
	h.telemetry.recordBroadcast(len(payload), entities, len(targets))
}

// PendingCommands reports the staged command count.
func (h *Hub) PendingCommands() int {
	return h.loop.Pending()
}

// SubscriberCount reports the number of connected sockets.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Telemetry copies the broadcast counters.
func (h *Hub) Telemetry() TelemetrySnapshot {
	return h.telemetry.snapshot()
}

// Diagnostics assembles the health summary served by the diagnostics
// endpoint. Counts come from the last completed tick's snapshot.
func (h *Hub) Diagnostics() DiagnosticsSnapshot {
	h.mu.Lock()
	snapshot := h.lastSnapshot
	subscribers := len(h.subscribers)
	h.mu.Unlock()

	return DiagnosticsSnapshot{
		ProtocolVersion: ProtocolVersion,
		Tick:            snapshot.Tick,
		Players:         len(snapshot.Players),
		NPCs:            len(snapshot.NPCs),
		Subscribers:     subscribers,
		PendingCommands: h.loop.Pending(),
		Telemetry:       h.telemetry.snapshot(),
	}
}
