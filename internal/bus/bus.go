// Package bus carries addressed activation messages between the taskbar and
// desktop windows. A Bus is scoped to one desktop; nothing here is global.
package bus

import (
	"fmt"
	"sync"
)

// Kind is the type of an activation message.
type Kind string

const (
	// KindRestore asks a minimized window to become visible and raise itself.
	KindRestore Kind = "restore-window"
	// KindBringToFront asks a window to raise itself.
	KindBringToFront Kind = "bring-to-front"
)

// Message is an activation request addressed by window name and/or type.
type Message struct {
	Kind       Kind   `json:"kind"`
	WindowName string `json:"window_name,omitempty"`
	WindowType string `json:"window_type,omitempty"`
}

// MatchMode controls how a listener decides it is the addressee of a message.
type MatchMode string

const (
	// MatchName matches on the window title only.
	MatchName MatchMode = "name"
	// MatchType matches on the window type only.
	MatchType MatchMode = "type"
	// MatchEither matches when the name matches or both types are set and equal.
	MatchEither MatchMode = "either"
)

// ParseMatchMode validates a match mode name.
func ParseMatchMode(s string) (MatchMode, error) {
	switch m := MatchMode(s); m {
	case MatchName, MatchType, MatchEither:
		return m, nil
	}
	return "", fmt.Errorf("unknown match mode %q (want name, type or either)", s)
}

// Matches reports whether msg addresses a window with the given title and type.
func (msg Message) Matches(mode MatchMode, title, windowType string) bool {
	byName := msg.WindowName != "" && msg.WindowName == title
	byType := windowType != "" && msg.WindowType != "" && msg.WindowType == windowType
	switch mode {
	case MatchName:
		return byName
	case MatchType:
		return byType
	default:
		return byName || byType
	}
}

// Listener receives every published message and reports whether it acted on it.
type Listener interface {
	OnMessage(msg Message) bool
}

// ListenerFunc adapts a function to a Listener.
type ListenerFunc func(msg Message) bool

// OnMessage implements Listener.
func (f ListenerFunc) OnMessage(msg Message) bool { return f(msg) }

// Bus is a synchronous publish/subscribe channel.
type Bus struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]Listener
	order     []int
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{listeners: make(map[int]Listener)}
}

// Subscribe adds a listener and returns a function that removes it. The
// returned function is safe to call more than once.
func (b *Bus) Subscribe(l Listener) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = l
	b.order = append(b.order, id)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.listeners, id)
	for i, existing := range b.order {
		if existing == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Publish delivers msg to every listener once, in subscription order, and
// returns how many of them acted on it. A message nobody handles is dropped.
// Listeners may subscribe or unsubscribe from inside OnMessage.
func (b *Bus) Publish(msg Message) int {
	b.mu.RLock()
	targets := make([]Listener, 0, len(b.order))
	for _, id := range b.order {
		targets = append(targets, b.listeners[id])
	}
	b.mu.RUnlock()

	handled := 0
	for _, l := range targets {
		if l.OnMessage(msg) {
			handled++
		}
	}
	return handled
}

// Len returns the number of subscribed listeners.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.order)
}
