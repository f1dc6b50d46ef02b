package resource

import (
	"strconv"
	"sync"
	"time"
)

// State of one tracked operation.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Kinds of operations that have no entity id. Each call gets its own key
// built by Tracker.Key.
const (
	ListKey   = "list"
	CreateKey = "create"
)

// finishedRetention bounds how long an unconsumed result is kept.
const finishedRetention = 5 * time.Minute

// Status is the observable state of an operation.
type Status struct {
	State State     `json:"state"`
	Error string    `json:"error,omitempty"`
	At    time.Time `json:"at"`
}

// Tracker keeps per-key operation state so concurrent operations on
// different entities do not share a single flag.
type Tracker struct {
	mu  sync.Mutex
	ops map[string]Status
	seq uint64
	now func() time.Time
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{ops: make(map[string]Status), now: time.Now}
}

// Key returns a key for one operation of kind, distinct from every other
// key handed out by t.
func (t *Tracker) Key(kind string) string {
	t.mu.Lock()
	t.seq++
	n := t.seq
	t.mu.Unlock()
	return kind + "#" + strconv.FormatUint(n, 10)
}

// Start marks key as loading.
func (t *Tracker) Start(key string) {
	t.mu.Lock()
	t.ops[key] = Status{State: StateLoading, At: t.now()}
	t.mu.Unlock()
}

// Finish records the outcome of key. Results nobody consumed within the
// retention window are dropped.
func (t *Tracker) Finish(key string, err error) {
	now := t.now()
	st := Status{State: StateSuccess, At: now}
	if err != nil {
		st = Status{State: StateError, Error: err.Error(), At: now}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ops[key] = st
	for k, v := range t.ops {
		if v.State != StateLoading && now.Sub(v.At) > finishedRetention {
			delete(t.ops, k)
		}
	}
}

// State returns the status of key without changing it.
func (t *Tracker) State(key string) Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	if st, ok := t.ops[key]; ok {
		return st
	}
	return Status{State: StateIdle}
}

// Consume returns the status of key and resets a finished operation to
// idle. A loading operation is left untouched.
func (t *Tracker) Consume(key string) Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.ops[key]
	if !ok {
		return Status{State: StateIdle}
	}
	if st.State != StateLoading {
		delete(t.ops, key)
	}
	return st
}

// Snapshot copies every non-idle status.
func (t *Tracker) Snapshot() map[string]Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]Status, len(t.ops))
	for k, v := range t.ops {
		out[k] = v
	}
	return out
}

// Drain copies every non-idle status and consumes the finished ones, so
// each result is reported once.
func (t *Tracker) Drain() map[string]Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]Status, len(t.ops))
	for k, v := range t.ops {
		out[k] = v
		if v.State != StateLoading {
			delete(t.ops, k)
		}
	}
	return out
}
