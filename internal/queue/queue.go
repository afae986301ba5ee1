package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"littlecanvas-analytics/internal/model"
	"littlecanvas-analytics/internal/store"
)

// Backoff delays grow exponentially from Config.RetryDelay up to this cap.
const maxBackoff = 5 * time.Minute

// Defaults applied by New when the corresponding Config field is zero.
const (
	DefaultMaxQueueSize  = 1000
	DefaultFlushInterval = 30 * time.Second
	DefaultMaxRetries    = 5
	DefaultRetryDelay    = 5 * time.Second
	DefaultFlushTimeout  = 10 * time.Second
)

// Transport delivers event batches to the collector.
type Transport interface {
	// SendBatch posts one batch; any error marks the whole flush failed.
	SendBatch(ctx context.Context, events []model.Event) error

	// SendBeacon fires a best-effort send of a pre-serialized payload and
	// reports whether it was accepted for delivery, not whether the
	// collector processed it.
	SendBeacon(payload []byte) bool
}

// Config tunes a queue. Zero fields fall back to the defaults above.
type Config struct {
	MaxQueueSize  int
	FlushInterval time.Duration
	MaxRetries    int
	RetryDelay    time.Duration

	// FlushTimeout bounds how long a single flush may hold the flushing
	// guard; a hung delivery call is abandoned rather than blocking every
	// later flush.
	FlushTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = DefaultMaxQueueSize
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = DefaultFlushInterval
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.FlushTimeout <= 0 {
		c.FlushTimeout = DefaultFlushTimeout
	}
	return c
}

// Item wraps an event with delivery bookkeeping. Retry state lives in
// memory only; the durable store mirrors event bodies alone, so a restart
// restores every pending event with a fresh retry count.
type Item struct {
	Event       model.Event
	RetryCount  int
	LastAttempt time.Time
}

// Queue buffers analytics events durably and delivers them to the collector
// in batches grouped by event name, with bounded retry. Delivery is
// at-least-once until an event exhausts its retry budget, after which it is
// dropped with a log line and never surfaces as an error to callers.
type Queue struct {
	cfg       Config
	transport Transport
	kv        store.KV // nil means in-memory only
	now       func() time.Time

	mu         sync.Mutex
	items      []Item
	isFlushing bool
	online     bool

	done     chan struct{}
	stopOnce sync.Once
}

// New builds a queue, restores any events persisted by a previous session,
// and starts the periodic flush ticker. The queue starts online; callers
// wire connectivity changes through SetOnline. kv may be nil when no
// durable store is available, in which case the queue runs in memory and
// accepts the reduced crash safety.
func New(cfg Config, transport Transport, kv store.KV) *Queue {
	q := &Queue{
		cfg:       cfg.withDefaults(),
		transport: transport,
		kv:        kv,
		now:       time.Now,
		online:    true,
		done:      make(chan struct{}),
	}
	q.restore()

	go func() {
		ticker := time.NewTicker(q.cfg.FlushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-q.done:
				return
			case <-ticker.C:
				q.Flush()
			}
		}
	}()

	return q
}

// Enqueue records an event durably and returns true, regardless of whether
// the immediate delivery attempt succeeds: a failed flush leaves the event
// queued for later retry. It returns false only when the queue is at
// capacity, which callers treat as best-effort loss, not a fatal error.
func (q *Queue) Enqueue(event model.Event) bool {
	q.mu.Lock()
	if len(q.items) >= q.cfg.MaxQueueSize {
		q.mu.Unlock()
		log.Printf("[WARN] analytics queue full (%d), dropping event %s", q.cfg.MaxQueueSize, event.Name)
		return false
	}
	q.items = append(q.items, Item{Event: event})
	q.persistLocked()
	online := q.online
	q.mu.Unlock()

	if online {
		q.Flush()
	}
	return true
}

// Flush delivers everything currently queued. It is a no-op returning false
// when a flush is already running, the queue is offline, or there is
// nothing to send. Batches are grouped by event name and dispatched
// concurrently; the queue clears only if every batch succeeds, otherwise
// the whole queue is retained and handed to backoff handling.
func (q *Queue) Flush() bool {
	q.mu.Lock()
	if q.isFlushing || !q.online || len(q.items) == 0 {
		q.mu.Unlock()
		return false
	}
	q.isFlushing = true
	snapshot := make([]Item, len(q.items))
	copy(snapshot, q.items)
	q.mu.Unlock()

	err := q.sendBatches(snapshot)

	q.mu.Lock()
	defer q.mu.Unlock()
	q.isFlushing = false

	if err != nil {
		log.Printf("[ERROR] analytics flush failed: %v", err)
		q.applyBackoffLocked(len(snapshot))
		q.persistLocked()
		return false
	}

	// Drop the delivered prefix; anything enqueued mid-flight stays.
	if len(q.items) > len(snapshot) {
		q.items = append([]Item(nil), q.items[len(snapshot):]...)
	} else {
		q.items = nil
	}
	q.persistLocked()
	return true
}

// FlushSync fires one best-effort beacon send of the whole queue, for use
// on shutdown where a full flush cannot be awaited. The queue and store
// clear only when the beacon reports the payload accepted; otherwise the
// events stay persisted for the next session to retry.
func (q *Queue) FlushSync() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return true
	}

	payload, err := json.Marshal(q.eventsLocked())
	if err != nil {
		log.Printf("[ERROR] marshal queue for beacon: %v", err)
		return false
	}
	if !q.transport.SendBeacon(payload) {
		return false
	}
	q.items = nil
	q.persistLocked()
	return true
}

// SetOnline records a connectivity transition. Going online triggers an
// immediate flush; going offline short-circuits flushes until connectivity
// returns, letting events accumulate instead of burning retries.
func (q *Queue) SetOnline(online bool) {
	q.mu.Lock()
	was := q.online
	q.online = online
	q.mu.Unlock()

	if online && !was {
		q.Flush()
	}
}

// Size returns the number of queued items.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clear empties the queue and its durable mirror.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
	q.persistLocked()
}

// Destroy stops the periodic ticker. It is idempotent and must be called
// when the queue is no longer needed, or long-lived processes leak the
// ticker goroutine. An in-flight flush is left to settle on its own.
func (q *Queue) Destroy() {
	q.stopOnce.Do(func() { close(q.done) })
}

// sendBatches groups items by event name and posts every batch
// concurrently, preserving insertion order within each batch. The first
// batch error fails the whole flush.
func (q *Queue) sendBatches(items []Item) error {
	batches := make(map[string][]model.Event)
	var names []string
	for _, it := range items {
		if _, ok := batches[it.Event.Name]; !ok {
			names = append(names, it.Event.Name)
		}
		batches[it.Event.Name] = append(batches[it.Event.Name], it.Event)
	}

	ctx, cancel := context.WithTimeout(context.Background(), q.cfg.FlushTimeout)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, len(names))
	for _, name := range names {
		events := batches[name]
		batchName := name
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := q.transport.SendBatch(ctx, events); err != nil {
				errCh <- fmt.Errorf("batch %s: %w", batchName, err)
			}
		}()
	}
	wg.Wait()
	close(errCh)
	return <-errCh
}

// applyBackoffLocked runs after a failed flush over the first n items (the
// failed snapshot). Items out of retry budget are dropped and counted.
// Backoff timing gates only whether an item's retry counter advances; every
// surviving item is re-sent on the next flush regardless of eligibility,
// matching the shipped client behavior.
func (q *Queue) applyBackoffLocked(n int) {
	now := q.now()
	dropped := 0
	kept := make([]Item, 0, len(q.items))
	for i, it := range q.items {
		if i >= n {
			kept = append(kept, it)
			continue
		}
		if it.RetryCount >= q.cfg.MaxRetries {
			dropped++
			continue
		}
		if it.LastAttempt.IsZero() || now.Sub(it.LastAttempt) >= q.backoffFor(it.RetryCount) {
			it.RetryCount++
			it.LastAttempt = now
		}
		kept = append(kept, it)
	}
	q.items = kept
	if dropped > 0 {
		log.Printf("[WARN] dropping %d events after %d failed delivery attempts", dropped, q.cfg.MaxRetries)
	}
}

func (q *Queue) backoffFor(retryCount int) time.Duration {
	delay := q.cfg.RetryDelay
	for i := 0; i < retryCount && delay < maxBackoff; i++ {
		delay *= 2
	}
	if delay > maxBackoff {
		delay = maxBackoff
	}
	return delay
}

func (q *Queue) eventsLocked() []model.Event {
	events := make([]model.Event, len(q.items))
	for i, it := range q.items {
		events[i] = it.Event
	}
	return events
}

// persistLocked mirrors the queue's event bodies into the durable store.
// Retry counters are deliberately not persisted: a restart restores events
// with fresh counters, and losing backoff state is acceptable for
// telemetry. Store failures are logged and the queue keeps running in
// memory.
func (q *Queue) persistLocked() {
	if q.kv == nil {
		return
	}
	data, err := json.Marshal(q.eventsLocked())
	if err != nil {
		log.Printf("[ERROR] marshal queue state: %v", err)
		return
	}
	if err := q.kv.Set(store.QueueKey(), string(data)); err != nil {
		log.Printf("[ERROR] persist queue state: %v", err)
	}
}

// restore loads events persisted by a previous session. Malformed state is
// discarded rather than surfaced.
func (q *Queue) restore() {
	if q.kv == nil {
		return
	}
	raw, ok := q.kv.Get(store.QueueKey())
	if !ok {
		return
	}
	var events []model.Event
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		log.Printf("[WARN] discarding malformed persisted queue: %v", err)
		return
	}
	for _, ev := range events {
		q.items = append(q.items, Item{Event: ev})
	}
}
