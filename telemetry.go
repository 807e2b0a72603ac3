package server

import "sync/atomic"

// telemetryCounters tracks broadcast volume. All fields are updated with
// atomics so the broadcast path never takes the hub lock for accounting.
type telemetryCounters struct {
	broadcastsTotal          atomic.Uint64
	bytesSentTotal           atomic.Uint64
	entitiesSentTotal        atomic.Uint64
	lastBroadcastBytes       atomic.Uint64
	lastBroadcastEntities    atomic.Uint64
	lastBroadcastSubscribers atomic.Uint64
	writeFailuresTotal       atomic.Uint64
}

// TelemetrySnapshot is a point-in-time copy of the broadcast counters.
type TelemetrySnapshot struct {
	BroadcastsTotal          uint64 `json:"broadcastsTotal"`
	BytesSentTotal           uint64 `json:"bytesSentTotal"`
	EntitiesSentTotal        uint64 `json:"entitiesSentTotal"`
	LastBroadcastBytes       uint64 `json:"lastBroadcastBytes"`
	LastBroadcastEntities    uint64 `json:"lastBroadcastEntities"`
	LastBroadcastSubscribers uint64 `json:"lastBroadcastSubscribers"`
	WriteFailuresTotal       uint64 `json:"writeFailuresTotal"`
}

func (t *telemetryCounters) recordBroadcast(bytes, entities, subscribers int) {
	t.broadcastsTotal.Add(1)
	t.bytesSentTotal.Add(uint64(bytes) * uint64(subscribers))
	t.entitiesSentTotal.Add(uint64(entities) * uint64(subscribers))
	t.lastBroadcastBytes.Store(uint64(bytes))
	t.lastBroadcastEntities.Store(uint64(entities))
	t.lastBroadcastSubscribers.Store(uint64(subscribers))
}

func (t *telemetryCounters) recordWriteFailure() {
	t.writeFailuresTotal.Add(1)
}

func (t *telemetryCounters) snapshot() TelemetrySnapshot {
	return TelemetrySnapshot{
		BroadcastsTotal:          t.broadcastsTotal.Load(),
		BytesSentTotal:           t.bytesSentTotal.Load(),
		EntitiesSentTotal:        t.entitiesSentTotal.Load(),
		LastBroadcastBytes:       t.lastBroadcastBytes.Load(),
		LastBroadcastEntities:    t.lastBroadcastEntities.Load(),
		LastBroadcastSubscribers: t.lastBroadcastSubscribers.Load(),
		WriteFailuresTotal:       t.writeFailuresTotal.Load(),
	}
}
