package event

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// Handler processes a delivered event.
type Handler func(ctx context.Context, e Event) error

// Stats are delivery counters.
type Stats struct {
	Published     uint64
	Delivered     uint64
	HandlerErrors uint64
	HandlerPanics uint64
}

// Bus delivers events to subscribers synchronously.
type Bus struct {
	mu     sync.RWMutex
	subs   []*Subscription
	nextID uint64
	closed bool

	published     atomic.Uint64
	delivered     atomic.Uint64
	handlerErrors atomic.Uint64
	handlerPanics atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers handler for topics matching pattern.
func (b *Bus) Subscribe(pattern Topic, handler Handler, opts ...SubscriptionOption) (*Subscription, error) {
	if !pattern.Valid() {
		return nil, fmt.Errorf("subscribe %q: %w", pattern, ErrInvalidTopic)
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBusClosed
	}

	b.nextID++
	sub := &Subscription{id: b.nextID, pattern: pattern, handler: handler}
	for _, opt := range opts {
		opt(sub)
	}
	b.subs = append(b.subs, sub)
	return sub, nil
}

// Unsubscribe removes sub from the bus.
func (b *Bus) Unsubscribe(sub *Subscription) error {
	if !b.remove(sub) {
		return ErrNotSubscribed
	}
	sub.Cancel()
	return nil
}

// remove drops sub from the subscription list.
func (b *Bus) remove(sub *Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Publish delivers e to every active matching subscription. Handler errors
// and panics are joined into the returned error.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	if strings.Contains(string(e.Topic), "*") || !e.Topic.Valid() {
		return fmt.Errorf("publish %q: %w", e.Topic, ErrInvalidTopic)
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	var matched []*Subscription
	for _, s := range b.subs {
		if s.Active() && e.Topic.Matches(s.pattern) {
			matched = append(matched, s)
		}
	}
	b.mu.RUnlock()

	b.published.Add(1)

	var errs []error
	for _, s := range matched {
		if s.filter != nil && !s.filter(e) {
			continue
		}
		if s.once {
			if !s.cancelled.CompareAndSwap(false, true) {
				continue
			}
			b.remove(s)
		}
		if err := b.dispatch(ctx, s, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *Bus) dispatch(ctx context.Context, s *Subscription, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			err = fmt.Errorf("handler %d panicked on %s: %v", s.id, e.Topic, r)
		}
	}()

	if err := s.handler(ctx, e); err != nil {
		b.handlerErrors.Add(1)
		return fmt.Errorf("handler %d on %s: %w", s.id, e.Topic, err)
	}
	b.delivered.Add(1)
	return nil
}

// Stats returns the delivery counters.
func (b *Bus) Stats() Stats {
	return Stats{
		Published:     b.published.Load(),
		Delivered:     b.delivered.Load(),
		HandlerErrors: b.handlerErrors.Load(),
		HandlerPanics: b.handlerPanics.Load(),
	}
}

// Close drops every subscription. Later calls fail with ErrBusClosed.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range b.subs {
		s.Cancel()
	}
	b.subs = nil
	b.closed = true
}
