package mailer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sevasetu/backend/internal/observability"
	pkglogger "github.com/sevasetu/backend/pkg/logger"
)

// defaultDrainDelay spaces out sends to respect provider rate limits.
const defaultDrainDelay = 500 * time.Millisecond

// Callbacks receive the outcome of a queued delivery. Both are optional.
type Callbacks struct {
	OnSuccess func(*SendResult)
	OnError   func(error)
}

type queuedMessage struct {
	msg *Message
	cb  Callbacks
}

// Queue is the deferred delivery mode: an in-process FIFO drained by a
// single background worker, strictly one message at a time in enqueue
// order. The queue is in-memory only — a process restart loses unsent
// messages, which this system's fire-and-forget contract accepts.
type Queue struct {
	engine *Engine
	delay  time.Duration
	log    zerolog.Logger

	mu       sync.Mutex
	items    []queuedMessage
	draining bool
}

// NewQueue creates a deferred delivery queue over the engine
func NewQueue(engine *Engine, delay time.Duration) *Queue {
	if delay <= 0 {
		delay = defaultDrainDelay
	}
	return &Queue{
		engine: engine,
		delay:  delay,
		log:    pkglogger.WithComponent("mail-queue"),
	}
}

// Enqueue appends a message and starts the drainer if it is not already
// running. Starting is idempotent: enqueueing while draining never spawns
// a second drainer.
func (q *Queue) Enqueue(msg *Message, cb Callbacks) {
	q.mu.Lock()
	q.items = append(q.items, queuedMessage{msg: msg, cb: cb})
	depth := len(q.items)
	start := !q.draining
	if start {
		q.draining = true
	}
	q.mu.Unlock()

	observability.SetMailQueueDepth(depth)
	if start {
		go q.drain()
	}
}

// Len returns the current queue depth
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// drain sends queued messages sequentially until the queue is empty, then
// exits. Errors are delivered to callbacks and logged, never propagated —
// a failed message must not stop the drainer or crash the process.
func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if len(q.items) == 0 {
			q.draining = false
			q.mu.Unlock()
			return
		}
		item := q.items[0]
		q.items = q.items[1:]
		observability.SetMailQueueDepth(len(q.items))
		q.mu.Unlock()

		result, err := q.engine.Send(context.Background(), item.msg)
		if err != nil {
			q.log.Error().Err(err).Str("to", item.msg.To).Msg("queued mail failed")
			if item.cb.OnError != nil {
				item.cb.OnError(err)
			}
		} else if item.cb.OnSuccess != nil {
			item.cb.OnSuccess(result)
		}

		time.Sleep(q.delay)
	}
}
