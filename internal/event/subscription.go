package event

import "sync/atomic"

// Subscription is a registered handler.
type Subscription struct {
	id        uint64
	pattern   Topic
	handler   Handler
	filter    func(Event) bool
	once      bool
	cancelled atomic.Bool
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*Subscription)

// WithFilter delivers only the events accepted by f.
func WithFilter(f func(Event) bool) SubscriptionOption {
	return func(s *Subscription) {
		s.filter = f
	}
}

// WithOnce cancels the subscription after its first delivery.
func WithOnce() SubscriptionOption {
	return func(s *Subscription) {
		s.once = true
	}
}

// Pattern returns the subscribed pattern.
func (s *Subscription) Pattern() Topic {
	return s.pattern
}

// Active reports whether events are still delivered.
func (s *Subscription) Active() bool {
	return !s.cancelled.Load()
}

// Cancel stops delivery.
func (s *Subscription) Cancel() {
	s.cancelled.Store(true)
}
