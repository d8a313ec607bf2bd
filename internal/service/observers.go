package service

import "sync"

type subscription[F any] struct {
	id int
	fn F
}

// observerList is a registry of callbacks safe for concurrent use. Callbacks
// are copied out before being invoked, so they may register or unregister
// observers themselves.
type observerList[F any] struct {
	mu   sync.Mutex
	next int
	subs []subscription[F]
}

func (l *observerList[F]) add(fn F) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.next++
	id := l.next
	l.subs = append(l.subs, subscription[F]{id: id, fn: fn})

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, s := range l.subs {
			if s.id == id {
				l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
				return
			}
		}
	}
}

func (l *observerList[F]) snapshot() []F {
	l.mu.Lock()
	defer l.mu.Unlock()

	fns := make([]F, len(l.subs))
	for i, s := range l.subs {
		fns[i] = s.fn
	}
	return fns
}
