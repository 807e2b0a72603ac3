package ws

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/websocket"

	"emberwood/server/internal/sim"
)

var errInvalid = errors.New("invalid token")

type recordedCall struct {
	kind     string
	playerID string
	vec      sim.Vec2
	id       string
}

type fakeHub struct {
	calls []recordedCall
}

func (f *fakeHub) Subscribe(playerID, name string, conn *websocket.Conn) {
	f.calls = append(f.calls, recordedCall{kind: "subscribe", playerID: playerID, id: name})
}

func (f *fakeHub) Disconnect(playerID string, _ *websocket.Conn, reason string) {
	f.calls = append(f.calls, recordedCall{kind: "disconnect", playerID: playerID, id: reason})
}

func (f *fakeHub) EnqueueMoveTo(playerID string, to sim.Vec2) {
	f.calls = append(f.calls, recordedCall{kind: "move", playerID: playerID, vec: to})
}

func (f *fakeHub) EnqueuePickUp(playerID string, tile sim.Vec2) {
	f.calls = append(f.calls, recordedCall{kind: "pickup", playerID: playerID, vec: tile})
}

func (f *fakeHub) EnqueueUseItem(playerID, itemID string) {
	f.calls = append(f.calls, recordedCall{kind: "use", playerID: playerID, id: itemID})
}

func (f *fakeHub) EnqueueAttack(playerID, npcID string) {
	f.calls = append(f.calls, recordedCall{kind: "attack", playerID: playerID, id: npcID})
}

type fakeVerifier struct {
	username string
	err      error
}

func (f *fakeVerifier) Verify(string) (string, error) {
	return f.username, f.err
}

func TestDispatchActionRoutesToHub(t *testing.T) {
	hub := &fakeHub{}
	handler := NewHandler(hub, &fakeVerifier{username: "alice"}, nil)

	to := sim.Vec2{X: 5, Y: 8}
	tile := sim.Vec2{X: 3, Y: 3}
	handler.dispatchAction("alice", &actionPayload{Type: actionMoveTo, To: &to})
	handler.dispatchAction("alice", &actionPayload{Type: actionPickUpItems, Tile: &tile})
	handler.dispatchAction("alice", &actionPayload{Type: actionUseItem, ItemID: "item-1"})
	handler.dispatchAction("alice", &actionPayload{Type: actionAttackNPC, NPCID: "slime-1"})

	want := []recordedCall{
		{kind: "move", playerID: "alice", vec: to},
		{kind: "pickup", playerID: "alice", vec: tile},
		{kind: "use", playerID: "alice", id: "item-1"},
		{kind: "attack", playerID: "alice", id: "slime-1"},
	}
	if len(hub.calls) != len(want) {
		t.Fatalf("recorded %d calls, want %d", len(hub.calls), len(want))
	}
	for i, expected := range want {
		if hub.calls[i] != expected {
			t.Fatalf("call %d = %+v, want %+v", i, hub.calls[i], expected)
		}
	}
}

func TestDispatchActionDropsIncompleteFrames(t *testing.T) {
	hub := &fakeHub{}
	handler := NewHandler(hub, &fakeVerifier{username: "alice"}, nil)

	handler.dispatchAction("alice", nil)
	handler.dispatchAction("alice", &actionPayload{Type: actionMoveTo})
	handler.dispatchAction("alice", &actionPayload{Type: actionPickUpItems})
	handler.dispatchAction("alice", &actionPayload{Type: actionUseItem})
	handler.dispatchAction("alice", &actionPayload{Type: actionAttackNPC})
	handler.dispatchAction("alice", &actionPayload{Type: "Dance"})

	if len(hub.calls) != 0 {
		t.Fatalf("incomplete frames reached the hub: %+v", hub.calls)
	}
}

func TestServeHTTPRejectsMissingToken(t *testing.T) {
	handler := NewHandler(&fakeHub{}, &fakeVerifier{username: "alice"}, nil)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/ws", nil)
	handler.ServeHTTP(recorder, request)

	if recorder.Code != 401 {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}

func TestServeHTTPRejectsInvalidToken(t *testing.T) {
	handler := NewHandler(&fakeHub{}, &fakeVerifier{err: errInvalid}, nil)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/ws?token=bad", nil)
	handler.ServeHTTP(recorder, request)

	if recorder.Code != 401 {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}

func TestClientMessageParsing(t *testing.T) {
	raw := `{"type":"player-action","action":{"type":"move-to","to":[5,8]}}`
	var msg clientMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != messageTypePlayerAction {
		t.Fatalf("type = %q", msg.Type)
	}
	if msg.Action == nil || msg.Action.To == nil {
		t.Fatalf("action not parsed: %+v", msg.Action)
	}
	if *msg.Action.To != (sim.Vec2{X: 5, Y: 8}) {
		t.Fatalf("destination = %+v", *msg.Action.To)
	}
}
