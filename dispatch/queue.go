// Package dispatch serializes daemon commands onto a single consumer.
package dispatch

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cecinput/cecinput/cec"
)

// Kind identifies a command.
type Kind int

const (
	Standby Kind = iota
	Active
	Inactive
	Restart
	KeyPress
	Exit
)

func (k Kind) String() string {
	switch k {
	case Standby:
		return "standby"
	case Active:
		return "active"
	case Inactive:
		return "inactive"
	case Restart:
		return "restart"
	case KeyPress:
		return "keypress"
	case Exit:
		return "exit"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Command is an immutable request for the consumer. Key is only meaningful
// for KeyPress.
type Command struct {
	Kind Kind
	Key  cec.UserControlCode
}

func (c Command) String() string {
	if c.Kind == KeyPress {
		return fmt.Sprintf("keypress(%s)", c.Key)
	}
	return c.Kind.String()
}

// Press builds a KeyPress command.
func Press(code cec.UserControlCode) Command {
	return Command{Kind: KeyPress, Key: code}
}

// Executor performs the side effects of Standby, Active, Inactive and
// KeyPress commands.
type Executor interface {
	Execute(cmd Command)
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(cmd Command)

func (f ExecutorFunc) Execute(cmd Command) { f(cmd) }

// Outcome reports why Run returned.
type Outcome struct {
	Restart bool
	// ProbeFailed is set when the loop stopped because the liveness probe
	// failed.
	ProbeFailed bool
}

// DefaultPingInterval is how long the consumer idles before probing.
const DefaultPingInterval = 43 * time.Second

// Queue is a FIFO of commands with a single consumer. Push is only accepted
// while Run is active.
type Queue struct {
	mu       sync.Mutex
	pending  []Command
	running  bool
	wake     chan struct{}
	interval time.Duration
	logger   *slog.Logger
}

func NewQueue(interval time.Duration, logger *slog.Logger) *Queue {
	if interval <= 0 {
		interval = DefaultPingInterval
	}
	return &Queue{
		wake:     make(chan struct{}, 1),
		interval: interval,
		logger:   logger,
	}
}

// Push appends cmd and wakes the consumer. It returns false and drops cmd
// when the queue is not running.
func (q *Queue) Push(cmd Command) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.running {
		q.logger.Debug("Dropping command, queue stopped", "command", cmd)
		return false
	}
	q.pending = append(q.pending, cmd)
	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// Running reports whether a consumer is active.
func (q *Queue) Running() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.running
}

// Len returns the number of queued commands.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Start accepts pushes ahead of Run, so commands raised while the adapter is
// still opening are not lost.
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.running = true
}

// Stop rejects further pushes and discards queued commands. It does not
// interrupt Run; push Exit for that.
func (q *Queue) Stop() { q.stop() }

// Run consumes commands until Restart or Exit is drained or probe fails.
// probe is called after each idle interval; it may be nil.
func (q *Queue) Run(exec Executor, probe func() bool) Outcome {
	q.Start()

	timer := time.NewTimer(q.interval)
	defer timer.Stop()

	for {
		cmd, ok := q.pop()
		if ok {
			q.logger.Debug("Executing command", "command", cmd)
			switch cmd.Kind {
			case Restart:
				q.stop()
				return Outcome{Restart: true}
			case Exit:
				q.stop()
				return Outcome{}
			default:
				exec.Execute(cmd)
			}
			continue
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(q.interval)

		select {
		case <-q.wake:
		case <-timer.C:
			if probe == nil || probe() {
				continue
			}
			q.logger.Warn("Adapter liveness probe failed")
			q.stop()
			return Outcome{Restart: true, ProbeFailed: true}
		}
	}
}

func (q *Queue) pop() (Command, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return Command{}, false
	}
	cmd := q.pending[0]
	q.pending[0] = Command{}
	q.pending = q.pending[1:]
	return cmd, true
}

func (q *Queue) stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.running = false
	if n := len(q.pending); n > 0 {
		q.logger.Debug("Discarding queued commands", "count", n)
	}
	q.pending = nil
	select {
	case <-q.wake:
	default:
	}
}
