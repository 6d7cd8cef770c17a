package content

import (
	"context"
	"sync"
)

// Subscription bundles the four mutation hooks a subscriber registers on
// the persistence layer. A hook returning a non-nil error aborts the
// mutation; the emitter must not apply the change.
type Subscription struct {
	Saving   func(ctx context.Context, item Item) error
	Moving   func(ctx context.Context, source, destination Item) error
	Deleting func(ctx context.Context, item Item) error
	Copying  func(ctx context.Context, source, destination Item) error
}

// ChangeNotifier is the boundary to the content-tree persistence layer.
// It raises the four mutation notifications to a single subscriber; the
// four hooks are registered and removed as a unit.
type ChangeNotifier interface {
	Subscribe(s Subscription)
	Unsubscribe()
}

// Bus is an in-memory ChangeNotifier for tests and the demo server. Emit
// methods run the registered hook synchronously and return its error, so
// callers see the abort decision before applying the mutation.
type Bus struct {
	mu  sync.Mutex
	sub Subscription
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(s Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sub = s
}

func (b *Bus) Unsubscribe() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sub = Subscription{}
}

func (b *Bus) subscription() Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sub
}

// EmitSaving raises the ItemSaving notification.
func (b *Bus) EmitSaving(ctx context.Context, item Item) error {
	if fn := b.subscription().Saving; fn != nil {
		return fn(ctx, item)
	}
	return nil
}

// EmitMoving raises the ItemMoving notification.
func (b *Bus) EmitMoving(ctx context.Context, source, destination Item) error {
	if fn := b.subscription().Moving; fn != nil {
		return fn(ctx, source, destination)
	}
	return nil
}

// EmitDeleting raises the ItemDeleting notification.
func (b *Bus) EmitDeleting(ctx context.Context, item Item) error {
	if fn := b.subscription().Deleting; fn != nil {
		return fn(ctx, item)
	}
	return nil
}

// EmitCopying raises the ItemCopying notification.
func (b *Bus) EmitCopying(ctx context.Context, source, destination Item) error {
	if fn := b.subscription().Copying; fn != nil {
		return fn(ctx, source, destination)
	}
	return nil
}
