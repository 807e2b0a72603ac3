package sim

import (
	"time"

	"emberwood/server/internal/telemetry"
)

const tickDurationMetricKey = "sim_tick_duration_millis"

// LoopConfig tunes the command intake and tick cadence.
type LoopConfig struct {
	// TickInterval is the fixed time between simulation steps.
	TickInterval time.Duration
	// CommandCapacityHint pre-sizes the staged command queue.
	CommandCapacityHint int
}

// LoopHooks lets the owner observe completed steps without reaching into
// world state.
type LoopHooks struct {
	AfterStep func(StepResult)
}

// StepResult describes one completed simulation step plus its snapshot.
type StepResult struct {
	Tick     uint64
	Now      time.Time
	Commands int
	Duration time.Duration
	Budget   time.Duration
	Snapshot Snapshot
}

// Loop owns the world and drives it at a fixed cadence. It is the world's
// only writer; network handlers interact with it solely through Enqueue.
type Loop struct {
	world   *World
	buffer  *CommandBuffer
	hooks   LoopHooks
	config  LoopConfig
	logger  telemetry.Logger
	metrics telemetry.Metrics
}

// NewLoop wraps the provided world with a staged command queue and runner.
func NewLoop(world *World, cfg LoopConfig, hooks LoopHooks, logger telemetry.Logger, metrics telemetry.Metrics) *Loop {
	if world == nil {
		return nil
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	return &Loop{
		world:   world,
		buffer:  NewCommandBuffer(cfg.CommandCapacityHint, metrics),
		hooks:   hooks,
		config:  cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// Enqueue stages a command for the next tick. Safe for concurrent producers;
// never blocks the caller.
func (l *Loop) Enqueue(cmd Command) {
	if l == nil {
		return
	}
	if cmd.IssuedAt.IsZero() {
		cmd.IssuedAt = time.Now()
	}
	l.buffer.Push(cmd)
}

// Pending reports the number of staged commands.
func (l *Loop) Pending() int {
	if l == nil {
		return 0
	}
	return l.buffer.Len()
}

// DrainCommands clears the staged queue without advancing the world.
func (l *Loop) DrainCommands() []Command {
	if l == nil {
		return nil
	}
	return l.buffer.Drain()
}

// Advance executes a single simulation step using the staged commands and
// returns the post-step snapshot.
func (l *Loop) Advance(now time.Time) StepResult {
	if l == nil {
		return StepResult{}
	}
	commands := l.buffer.Drain()
	l.world.Step(now, commands)
	return StepResult{
		Tick:     l.world.Tick(),
		Now:      now,
		Commands: len(commands),
		Budget:   l.config.TickInterval,
		Snapshot: l.world.Snapshot(),
	}
}

// Run drives the fixed-interval loop until the stop channel closes.
func (l *Loop) Run(stop <-chan struct{}) {
	if l == nil {
		return
	}
	ticker := time.NewTicker(l.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			start := time.Now()
			result := l.Advance(now)
			result.Duration = time.Since(start)

			if l.metrics != nil {
				millis := result.Duration.Milliseconds()
				if millis < 0 {
					millis = 0
				}
				l.metrics.Store(tickDurationMetricKey, uint64(millis))
			}
			if result.Duration > result.Budget && l.logger != nil {
				l.logger.Printf(
					"[loop] tick %d overran budget: took=%s budget=%s commands=%d",
					result.Tick, result.Duration, result.Budget, result.Commands,
				)
			}
			if l.hooks.AfterStep != nil {
				l.hooks.AfterStep(result)
			}
		}
	}
}
