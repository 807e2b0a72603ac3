package sim

import (
	"testing"
	"time"
)

func newTestLoop(t *testing.T, hooks LoopHooks) *Loop {
	t.Helper()
	world := newTestWorld(t, Vec2{X: 16, Y: 16}, MapConfig{})
	return NewLoop(world, LoopConfig{TickInterval: 5 * time.Millisecond}, hooks, nil, nil)
}

func TestLoopEnqueueStampsIssuedAt(t *testing.T) {
	loop := newTestLoop(t, LoopHooks{})
	loop.Enqueue(Command{ActorID: "alice", Type: CommandJoin, Join: &JoinCommand{Name: "alice"}})

	drained := loop.DrainCommands()
	if len(drained) != 1 {
		t.Fatalf("drained %d commands", len(drained))
	}
	if drained[0].IssuedAt.IsZero() {
		t.Fatalf("IssuedAt not stamped on enqueue")
	}
}

func TestLoopAdvanceDrainsAndApplies(t *testing.T) {
	loop := newTestLoop(t, LoopHooks{})
	loop.Enqueue(Command{ActorID: "alice", Type: CommandJoin, Join: &JoinCommand{Name: "alice"}})

	result := loop.Advance(time.Now())
	if result.Tick != 1 {
		t.Fatalf("tick = %d after first advance", result.Tick)
	}
	if result.Commands != 1 {
		t.Fatalf("commands = %d, want 1", result.Commands)
	}
	if loop.Pending() != 0 {
		t.Fatalf("pending = %d after advance", loop.Pending())
	}
	if _, ok := result.Snapshot.Players["alice"]; !ok {
		t.Fatalf("snapshot missing the joined player")
	}
}

func TestLoopRunInvokesAfterStep(t *testing.T) {
	steps := make(chan StepResult, 8)
	loop := newTestLoop(t, LoopHooks{
		AfterStep: func(result StepResult) {
			select {
			case steps <- result:
			default:
			}
		},
	})

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		loop.Run(stop)
		close(done)
	}()

	var first StepResult
	select {
	case first = <-steps:
	case <-time.After(2 * time.Second):
		t.Fatalf("no step observed within deadline")
	}
	if first.Tick == 0 {
		t.Fatalf("step result carries tick 0")
	}
	if first.Budget != 5*time.Millisecond {
		t.Fatalf("budget = %s", first.Budget)
	}

	close(stop)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("loop did not stop")
	}
}
