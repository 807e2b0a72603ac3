package sim

import "sync"

const (
	commandQueueDepthMetricKey    = "sim_command_queue_depth"
	commandsEnqueuedMetricKey     = "sim_commands_enqueued_total"
	commandQueueDrainsMetricKey   = "sim_command_queue_drains_total"
	commandQueueDiscardsMetricKey = "sim_command_queue_discards_total"
)

type telemetryMetrics interface {
	Add(string, uint64)
	Store(string, uint64)
}

// CommandBuffer stages commands between network producers and the tick loop.
// Enqueue never blocks producers and Drain hands every staged command to
// exactly one caller in arrival order.
type CommandBuffer struct {
	mu      sync.Mutex
	pending []Command
	metrics telemetryMetrics
}

// NewCommandBuffer constructs a buffer with an initial capacity hint.
func NewCommandBuffer(capacityHint int, metrics telemetryMetrics) *CommandBuffer {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &CommandBuffer{
		pending: make([]Command, 0, capacityHint),
		metrics: metrics,
	}
}

// Push stages a command. The buffer grows as needed so accepted commands are
// never dropped between enqueue and the next drain.
func (b *CommandBuffer) Push(cmd Command) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.pending = append(b.pending, cmd)
	depth := len(b.pending)
	b.mu.Unlock()
	if b.metrics != nil {
		b.metrics.Add(commandsEnqueuedMetricKey, 1)
		b.metrics.Store(commandQueueDepthMetricKey, uint64(depth))
	}
}

// Drain removes and returns all staged commands in FIFO order.
func (b *CommandBuffer) Drain() []Command {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	if len(b.pending) == 0 {
		b.mu.Unlock()
		return nil
	}
	commands := b.pending
	b.pending = make([]Command, 0, cap(commands))
	b.mu.Unlock()
	if b.metrics != nil {
		b.metrics.Add(commandQueueDrainsMetricKey, 1)
		b.metrics.Store(commandQueueDepthMetricKey, 0)
	}
	return commands
}

// Len reports the number of staged commands.
func (b *CommandBuffer) Len() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
