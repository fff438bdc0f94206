package sim

import (
	"sync"

	"tower-wars/server/internal/telemetry"
)

const (
	queueOccupancyMetricKey = "sim_command_queue_occupancy"
	queueRejectedMetricKey  = "sim_command_queue_rejected_total"
	queueReservedMetricKey  = "sim_command_queue_reserved_total"
)

// admission is the outcome of offering a command to the queue.
type admission struct {
	reason string
	// drops counts how many commands this actor has lost so far.
	drops  uint64
	length int
}

func (a admission) accepted() bool { return a.reason == "" }

// commandQueue stages commands between transport goroutines and the loop. A
// fixed ring holds ordinary commands; lifecycle commands that find the ring
// full spill into a reserve so a connect or disconnect is never lost. Both are
// drained together in arrival order.
type commandQueue struct {
	mu      sync.Mutex
	ring    []Command
	head    int
	count   int
	reserve []Command

	perActorLimit int
	perActor      map[string]int
	drops         map[string]uint64

	metrics telemetry.Metrics
}

func newCommandQueue(capacity, perActorLimit int, metrics telemetry.Metrics) *commandQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &commandQueue{
		ring:          make([]Command, capacity),
		perActorLimit: perActorLimit,
		perActor:      make(map[string]int),
		drops:         make(map[string]uint64),
		metrics:       metrics,
	}
}

// offer admits cmd unless its actor is over the per-tick limit or the ring
// is full.
func (q *commandQueue) offer(cmd Command) admission {
	q.mu.Lock()
	defer q.mu.Unlock()

	if cmd.lifecycle() {
		if !q.pushLocked(cmd) {
			q.reserve = append(q.reserve, cmd)
			q.add(queueReservedMetricKey)
		}
		return admission{length: q.lenLocked()}
	}

	if q.perActorLimit > 0 && cmd.ActorID != "" && q.perActor[cmd.ActorID] >= q.perActorLimit {
		return q.rejectLocked(cmd, CommandRejectQueueLimit)
	}
	// Ordinary commands may not overtake reserved lifecycle commands.
	if len(q.reserve) > 0 || !q.pushLocked(cmd) {
		return q.rejectLocked(cmd, CommandRejectQueueFull)
	}
	if cmd.ActorID != "" {
		q.perActor[cmd.ActorID]++
	}
	return admission{length: q.lenLocked()}
}

// drain empties the queue and resets per-actor budgets for the next tick.
func (q *commandQueue) drain() []Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	total := q.lenLocked()
	if total == 0 {
		return nil
	}
	commands := make([]Command, 0, total)
	for i := 0; i < q.count; i++ {
		commands = append(commands, q.ring[(q.head+i)%len(q.ring)])
	}
	commands = append(commands, q.reserve...)

	q.head = 0
	q.count = 0
	q.reserve = nil
	if len(q.perActor) > 0 {
		q.perActor = make(map[string]int)
	}
	q.storeOccupancyLocked()
	return commands
}

func (q *commandQueue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lenLocked()
}

func (q *commandQueue) lenLocked() int {
	return q.count + len(q.reserve)
}

func (q *commandQueue) pushLocked(cmd Command) bool {
	if q.count == len(q.ring) {
		return false
	}
	q.ring[(q.head+q.count)%len(q.ring)] = cmd
	q.count++
	q.storeOccupancyLocked()
	return true
}

func (q *commandQueue) rejectLocked(cmd Command, reason string) admission {
	q.add(queueRejectedMetricKey)
	result := admission{reason: reason, length: q.lenLocked()}
	if cmd.ActorID != "" {
		q.drops[cmd.ActorID]++
		result.drops = q.drops[cmd.ActorID]
	}
	return result
}

func (q *commandQueue) add(key string) {
	if q.metrics != nil {
		q.metrics.Add(key, 1)
	}
}

func (q *commandQueue) storeOccupancyLocked() {
	if q.metrics != nil {
		q.metrics.Store(queueOccupancyMetricKey, uint64(q.lenLocked()))
	}
}
