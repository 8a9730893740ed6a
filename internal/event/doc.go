// Package event provides a synchronous publish/subscribe bus with
// hierarchical topics.
//
// # Topic Format
//
// Topics use dot-notation:
//
//	history.step.added
//	history.step.undone
//
// # Wildcards
//
// Subscription patterns may use two wildcards:
//
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
//
// Examples:
//
//	history.step.*     matches history.step.added, history.step.redone
//	history.**         matches every history topic
//	**                 matches everything
//
// # Usage
//
//	bus := event.NewBus()
//	sub, err := bus.Subscribe("history.step.*", func(ctx context.Context, e event.Event) error {
//	    return nil
//	})
//	_ = bus.Publish(ctx, event.New("history.step.added", change, "history"))
//	sub.Cancel()
//
// Handlers run on the publishing goroutine in subscription order. A handler
// error or panic does not stop delivery to the remaining handlers.
package event
