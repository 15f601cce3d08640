package config

import (
	"strings"
	"sync"
)

// ChangeType represents the type of configuration change.
type ChangeType int

const (
	// ChangeSet indicates a value was set or updated.
	ChangeSet ChangeType = iota

	// ChangeDelete indicates a value was removed.
	ChangeDelete

	// ChangeReload indicates a value changed because a file was reloaded.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change describes a change of a setting's effective value.
type Change struct {
	// Path is the dot-separated path to the changed setting.
	Path string

	// Type is the type of change.
	Type ChangeType

	// OldValue is the previous effective value (nil if unset).
	OldValue any

	// NewValue is the new effective value (nil if unset).
	NewValue any

	// Scope is the scope that was written or reloaded.
	Scope Scope
}

// Observer is called when configuration changes occur.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *notifier
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// notifier delivers changes synchronously to observers.
type notifier struct {
	mu     sync.RWMutex
	nextID uint64
	global map[uint64]Observer
	paths  map[uint64]pathObserver
}

type pathObserver struct {
	path     string
	observer Observer
}

func newNotifier() *notifier {
	return &notifier{
		global: make(map[uint64]Observer),
		paths:  make(map[uint64]pathObserver),
	}
}

func (n *notifier) subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	n.global[n.nextID] = observer
	return &Subscription{id: n.nextID, notifier: n}
}

func (n *notifier) subscribePath(path string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	n.paths[n.nextID] = pathObserver{path: path, observer: observer}
	return &Subscription{id: n.nextID, notifier: n}
}

func (n *notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.global, id)
	delete(n.paths, id)
}

// notify calls every matching observer outside the lock. A path observer
// matches its own path and every path below it.
func (n *notifier) notify(change Change) {
	n.mu.RLock()
	observers := make([]Observer, 0, len(n.global)+len(n.paths))
	for _, obs := range n.global {
		observers = append(observers, obs)
	}
	for _, po := range n.paths {
		if change.Path == po.path || strings.HasPrefix(change.Path, po.path+".") {
			observers = append(observers, po.observer)
		}
	}
	n.mu.RUnlock()

	for _, obs := range observers {
		obs(change)
	}
}
