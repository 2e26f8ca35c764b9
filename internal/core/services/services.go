package services

import (
	"sync"
	"time"
)

// Clock returns the current instant in the configured timezone.
type Clock func() time.Time

// ChangeListener is told after any mutation of subjects, progress or tasks.
type ChangeListener interface {
	OnChange()
}

type notifier struct {
	mu        sync.RWMutex
	listeners []ChangeListener
}

func (n *notifier) Subscribe(l ChangeListener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, l)
}

func (n *notifier) notify() {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, l := range n.listeners {
		l.OnChange()
	}
}
