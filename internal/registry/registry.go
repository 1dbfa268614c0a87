package registry

import (
	"fmt"
	"sync"
)

// State is the externally visible lifecycle state of a window.
type State string

const (
	StateNormal   State = "normal"
	StateMinimize State = "minimize"
	StateMaximize State = "maximize"
	StateClose    State = "close"
)

// ParseState validates a state name.
func ParseState(s string) (State, error) {
	switch st := State(s); st {
	case StateNormal, StateMinimize, StateMaximize, StateClose:
		return st, nil
	}
	return "", fmt.Errorf("unknown process state %q", s)
}

// Record mirrors one open window for the taskbar.
type Record struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Type  string `json:"type,omitempty"`
	State State  `json:"state"`
}

// DuplicatePolicy decides what Add does when a record with the same name exists.
type DuplicatePolicy string

const (
	// DuplicatesUpsert replaces the existing record in place.
	DuplicatesUpsert DuplicatePolicy = "upsert"
	// DuplicatesAppend appends another record with the same name.
	DuplicatesAppend DuplicatePolicy = "append"
)

// ParseDuplicatePolicy validates a duplicate policy name.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(s); p {
	case DuplicatesUpsert, DuplicatesAppend:
		return p, nil
	}
	return "", fmt.Errorf("unknown duplicate policy %q (want upsert or append)", s)
}

// Observer receives a copy of the record list after every change. The slice
// is shared between observers and must not be modified.
type Observer func(records []Record)

// Registry is the ordered, observable list of process records. Order is
// insertion order. All methods are safe for concurrent use; observers are
// called after the lock is released.
type Registry struct {
	mu        sync.Mutex
	policy    DuplicatePolicy
	records   []Record
	nextID    int
	observers map[int]Observer
}

// New creates an empty registry.
func New(policy DuplicatePolicy) *Registry {
	if policy == "" {
		policy = DuplicatesUpsert
	}
	return &Registry{
		policy:    policy,
		observers: make(map[int]Observer),
	}
}

// Policy returns the duplicate policy in effect.
func (r *Registry) Policy() DuplicatePolicy {
	return r.policy
}

// Add inserts a record in the normal state. Under the upsert policy an
// existing record with the same name is replaced in place instead.
func (r *Registry) Add(name, icon, windowType string) {
	rec := Record{Name: name, Icon: icon, Type: windowType, State: StateNormal}

	r.mu.Lock()
	replaced := false
	if r.policy == DuplicatesUpsert {
		for i := range r.records {
			if r.records[i].Name == name {
				r.records[i] = rec
				replaced = true
				break
			}
		}
	}
	if !replaced {
		r.records = append(r.records, rec)
	}
	r.mu.Unlock()

	r.notify()
}

// Remove deletes every record with the given name and returns how many were removed.
func (r *Registry) Remove(name string) int {
	removed := r.filter(func(rec Record) bool { return rec.Name != name })
	if removed > 0 {
		r.notify()
	}
	return removed
}

// UpdateState sets the state of every record with the given name. It is a
// no-op when no record matches and reports whether anything changed.
func (r *Registry) UpdateState(name string, state State) bool {
	r.mu.Lock()
	changed := false
	for i := range r.records {
		if r.records[i].Name == name && r.records[i].State != state {
			r.records[i].State = state
			changed = true
		}
	}
	r.mu.Unlock()

	if changed {
		r.notify()
	}
	return changed
}

// List returns a copy of the records in insertion order.
func (r *Registry) List() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Len returns the number of records.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Get returns the first record with the given name.
func (r *Registry) Get(name string) (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.Name == name {
			return rec, true
		}
	}
	return Record{}, false
}

// Dedupe keeps only the first record per name and returns how many were dropped.
func (r *Registry) Dedupe() int {
	seen := make(map[string]bool)
	removed := r.filter(func(rec Record) bool {
		if seen[rec.Name] {
			return false
		}
		seen[rec.Name] = true
		return true
	})
	if removed > 0 {
		r.notify()
	}
	return removed
}

// Retain drops every record whose name is not in names and returns the
// dropped records.
func (r *Registry) Retain(names map[string]bool) []Record {
	var dropped []Record
	r.filter(func(rec Record) bool {
		if names[rec.Name] {
			return true
		}
		dropped = append(dropped, rec)
		return false
	})
	if len(dropped) > 0 {
		r.notify()
	}
	return dropped
}

// Subscribe registers an observer and returns a function that removes it.
func (r *Registry) Subscribe(fn Observer) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.observers[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.observers, id)
		r.mu.Unlock()
	}
}

func (r *Registry) filter(keep func(Record) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.records[:0]
	for _, rec := range r.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	removed := len(r.records) - len(out)
	// Zero the tail so dropped strings can be collected.
	for i := len(out); i < len(r.records); i++ {
		r.records[i] = Record{}
	}
	r.records = out
	return removed
}

func (r *Registry) snapshotLocked() []Record {
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

func (r *Registry) notify() {
	r.mu.Lock()
	snapshot := r.snapshotLocked()
	observers := make([]Observer, 0, len(r.observers))
	for _, fn := range r.observers {
		observers = append(observers, fn)
	}
	r.mu.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}
