package sim

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"tower-wars/server/logging"
	loggingsimulation "tower-wars/server/logging/simulation"
)

const (
	// CommandRejectQueueLimit indicates a command was dropped due to per-actor
	// queue throttling.
	CommandRejectQueueLimit = "queue_limit"
	// CommandRejectQueueFull indicates the global command buffer is saturated.
	CommandRejectQueueFull = "queue_full"

	DefaultTickRate        = 30
	DefaultCommandCapacity = 1024
	DefaultPerActorLimit   = 32

	faultMetricKey   = "sim_faults_total"
	overrunMetricKey = "sim_tick_budget_overrun_total"
	tickMetricKey    = "sim_tick"
)

// Engine is the single-threaded simulation the loop drives. Apply and Step
// are only ever called from the loop goroutine.
type Engine interface {
	Apply(cmd Command, now time.Time) error
	Step(now time.Time) bool
}

// LoopConfig tunes the command buffer and tick loop orchestration.
type LoopConfig struct {
	TickRate        int
	CommandCapacity int
	PerActorLimit   int
	WarningStep     int
}

func (cfg LoopConfig) normalized() LoopConfig {
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultTickRate
	}
	if cfg.CommandCapacity <= 0 {
		cfg.CommandCapacity = DefaultCommandCapacity
	}
	if cfg.PerActorLimit < 0 {
		cfg.PerActorLimit = 0
	}
	return cfg
}

// LoopHooks are optional callbacks invoked on the loop goroutine, except
// OnCommandDrop and OnQueueWarning which run on the enqueuing goroutine.
type LoopHooks struct {
	AfterStep      func(LoopStepResult)
	OnCommandDrop  func(reason string, cmd Command)
	OnQueueWarning func(length int)
}

// LoopStepResult summarizes one tick.
type LoopStepResult struct {
	Tick     uint64
	Now      time.Time
	Commands int
	Timers   int
	Faults   int
	Stepped  bool
	Duration time.Duration
	Budget   time.Duration
}

// Loop coordinates command ingestion, lifecycle timers and the fixed-rate
// simulation step. It is the only goroutine that touches the engine.
type Loop struct {
	engine    Engine
	scheduler *Scheduler
	queue     *commandQueue
	hooks     LoopHooks
	config    LoopConfig
	deps      Deps

	tick          uint64
	overrunStreak uint64
	faults        atomic.Uint64
}

// NewLoop wraps engine with a ring-buffer queue. Scheduler callbacks fire at
// the start of each tick inside the loop's fault boundary.
func NewLoop(engine Engine, scheduler *Scheduler, cfg LoopConfig, deps Deps, hooks LoopHooks) (*Loop, error) {
	if engine == nil {
		return nil, errors.New("sim: engine is required")
	}
	if scheduler == nil {
		return nil, errors.New("sim: scheduler is required")
	}
	cfg = cfg.normalized()
	deps = deps.normalized()
	loop := &Loop{
		engine:    engine,
		scheduler: scheduler,
		queue:     newCommandQueue(cfg.CommandCapacity, cfg.PerActorLimit, deps.Metrics),
		hooks:     hooks,
		config:    cfg,
		deps:      deps,
	}
	scheduler.SetRecover(func(r any) {
		loop.recordFault("timer", "", "", r)
	})
	return loop, nil
}

// Config returns the normalized loop configuration.
func (l *Loop) Config() LoopConfig {
	return l.config
}

// Faults reports how many panics the loop has contained.
func (l *Loop) Faults() uint64 {
	return l.faults.Load()
}

// Pending reports the number of staged commands.
func (l *Loop) Pending() int {
	return l.queue.size()
}

// Enqueue stages a command, enforcing per-actor throttling and capacity limits.
// Connect and disconnect commands are exempt from both so roster slots are
// never leaked.
func (l *Loop) Enqueue(cmd Command) (bool, string) {
	result := l.queue.offer(cmd)
	if !result.accepted() {
		l.reportDrop(result.reason, cmd, result.drops)
		return false, result.reason
	}
	if step := l.config.WarningStep; step > 0 && result.length >= step && result.length%step == 0 {
		l.warnQueue(result.length)
	}
	return true, ""
}

// Advance executes a single tick at now: due timers, then staged commands in
// arrival order, then the engine step. A panic in any stage is contained and
// the remaining work of the tick still runs.
func (l *Loop) Advance(now time.Time) LoopStepResult {
	l.tick++
	result := LoopStepResult{Tick: l.tick, Now: now}

	faultsBefore := l.faults.Load()
	result.Timers = l.scheduler.Advance(now)

	commands := l.queue.drain()
	result.Commands = len(commands)
	for _, cmd := range commands {
		l.guard("command", cmd, func() error {
			return l.engine.Apply(cmd, now)
		})
	}

	l.guard("step", Command{}, func() error {
		result.Stepped = l.engine.Step(now)
		return nil
	})
	result.Faults = int(l.faults.Load() - faultsBefore)
	if l.deps.Metrics != nil {
		l.deps.Metrics.Store(tickMetricKey, l.tick)
	}
	return result
}

// Run drives the fixed-rate loop until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	budget := time.Second / time.Duration(l.config.TickRate)
	ticker := time.NewTicker(budget)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := l.deps.Clock.Now()
			result := l.Advance(start)
			result.Duration = l.deps.Clock.Now().Sub(start)
			result.Budget = budget
			l.checkBudget(ctx, result)

			if l.hooks.AfterStep != nil {
				l.guard("after_step", Command{}, func() error {
					l.hooks.AfterStep(result)
					return nil
				})
			}
		}
	}
}

// guard runs fn inside the fault boundary. Errors are logged; panics are
// recovered, logged with a stack and published as simulation faults.
func (l *Loop) guard(stage string, cmd Command, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			l.recordFault(stage, string(cmd.Type), cmd.ActorID, r)
		}
	}()
	if err := fn(); err != nil && l.deps.Logger != nil {
		l.deps.Logger.Printf("[sim] %s %s actor=%s: %v", stage, cmd.Type, cmd.ActorID, err)
	}
}

func (l *Loop) recordFault(stage, command, actorID string, recovered any) {
	if l.deps.Metrics != nil {
		l.deps.Metrics.Add(faultMetricKey, 1)
	}
	l.faults.Add(1)
	if l.deps.Logger != nil {
		l.deps.Logger.Printf("[sim] recovered panic stage=%s command=%s actor=%s: %v\n%s", stage, command, actorID, recovered, debug.Stack())
	}
	actor := logging.WorldRef()
	if actorID != "" {
		actor = logging.PlayerRef(actorID)
	}
	loggingsimulation.FaultRecovered(context.Background(), l.deps.Publisher, l.tick, actor, loggingsimulation.FaultRecoveredPayload{
		Stage:   stage,
		Command: command,
		Panic:   fmt.Sprint(recovered),
	}, nil)
}

func (l *Loop) checkBudget(ctx context.Context, result LoopStepResult) {
	if result.Budget <= 0 || result.Duration <= result.Budget {
		l.overrunStreak = 0
		return
	}
	l.overrunStreak++
	if l.deps.Metrics != nil {
		l.deps.Metrics.Add(overrunMetricKey, 1)
	}
	streak := l.overrunStreak
	if streak&(streak-1) != 0 {
		return
	}
	loggingsimulation.TickBudgetOverrun(ctx, l.deps.Publisher, result.Tick, loggingsimulation.TickBudgetOverrunPayload{
		DurationMillis: result.Duration.Milliseconds(),
		BudgetMillis:   result.Budget.Milliseconds(),
		Ratio:          float64(result.Duration) / float64(result.Budget),
		Streak:         streak,
	}, nil)
}

func (l *Loop) warnQueue(length int) {
	if l.hooks.OnQueueWarning != nil {
		l.hooks.OnQueueWarning(length)
	}
}

func (l *Loop) reportDrop(reason string, cmd Command, count uint64) {
	if l.hooks.OnCommandDrop != nil {
		l.hooks.OnCommandDrop(reason, cmd)
	}
	if count > 0 && count&(count-1) == 0 && l.deps.Logger != nil {
		l.deps.Logger.Printf(
			"[backpressure] dropping command actor=%s type=%s reason=%s count=%d limit=%d",
			cmd.ActorID,
			cmd.Type,
			reason,
			count,
			l.config.PerActorLimit,
		)
	}
}
