package server

import "emberwood/server/internal/sim"

const (
	messageTypeStateUpdate = "state-update"
)

// stateMessage is the broadcast envelope every subscriber receives after a
// tick completes.
type stateMessage struct {
	Type  string       `json:"type"`
	State sim.Snapshot `json:"state"`
}

// DiagnosticsSnapshot summarizes hub health for the diagnostics endpoint.
type DiagnosticsSnapshot struct {
	ProtocolVersion int               `json:"protocolVersion"`
	Tick            uint64            `json:"tick"`
	Players         int               `json:"players"`
	NPCs            int               `json:"npcs"`
	Subscribers     int               `json:"subscribers"`
	PendingCommands int               `json:"pendingCommands"`
	Telemetry       TelemetrySnapshot `json:"telemetry"`
}
