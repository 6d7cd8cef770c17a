package enforce

import (
	"context"
	"fmt"
	"sync"

	"github.com/ppiankov/contentgate/internal/content"
	"github.com/ppiankov/contentgate/internal/security"
)

// PermissionDeniedError is raised when an authorization check blocks a
// mutation or an uncancelled page view. It carries the affected item and
// the principal that was refused.
type PermissionDeniedError struct {
	Item      content.Item
	Principal content.Principal
}

func (e *PermissionDeniedError) Error() string {
	name := e.Principal.Name
	if name == "" {
		name = "anonymous"
	}
	return fmt.Sprintf("permission denied: %s may not access %q", name, e.Item.Path())
}

// AuthorizationFailed is dispatched synchronously to registered observers
// when a page-view check fails. An observer that has handled the denial
// (e.g. redirected to a login page) sets Cancel; the final value after
// all observers ran decides whether the view proceeds.
type AuthorizationFailed struct {
	Item      content.Item
	Principal content.Principal
	Cancel    bool
}

// Observer consumes an AuthorizationFailed notification.
type Observer func(f *AuthorizationFailed)

// Enforcer intercepts content mutations and page views, querying the
// security Manager before each and failing closed on denial. Mutation
// denials are always fatal; a page-view denial may be cancelled by an
// observer.
type Enforcer struct {
	security *security.Manager
	notifier content.ChangeNotifier

	mu        sync.Mutex
	observers []Observer
	started   bool
}

// New creates an Enforcer bound to a security Manager and a persistence
// notifier. The notifier may be nil when only AuthorizeRequest is used.
func New(sec *security.Manager, notifier content.ChangeNotifier) *Enforcer {
	return &Enforcer{security: sec, notifier: notifier}
}

// Observe registers an AuthorizationFailed observer. Observers run in
// registration order; every observer is invoked and the last write to the
// Cancel flag wins.
func (e *Enforcer) Observe(fn Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, fn)
}

// Start subscribes the four mutation hooks on the notifier as a unit.
// Calling Start twice does not double-register.
func (e *Enforcer) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.notifier == nil {
		return
	}
	e.notifier.Subscribe(content.Subscription{
		Saving:   e.OnItemSaving,
		Moving:   e.OnItemMoving,
		Deleting: e.OnItemDeleting,
		Copying:  e.OnItemCopying,
	})
	e.started = true
}

// Stop removes the subscription. Safe to call without Start.
func (e *Enforcer) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return
	}
	e.notifier.Unsubscribe()
	e.started = false
}

// bypassed reports whether enforcement is switched off globally or for
// this scope. Each handler checks it before evaluating, mirroring the
// gate inside the Manager itself.
func (e *Enforcer) bypassed(ctx context.Context) bool {
	return !e.security.Enabled() || !security.ScopeEnabled(ctx)
}

// AuthorizeRequest checks the current page against the current principal.
// A nil page is always allowed. On denial the AuthorizationFailed
// notification runs first; if no observer cancels, the denial is fatal.
func (e *Enforcer) AuthorizeRequest(ctx context.Context, page content.Item, p content.Principal) error {
	if e.bypassed(ctx) || page == nil {
		return nil
	}
	if e.security.IsAuthorized(ctx, page, p) {
		return nil
	}

	failed := &AuthorizationFailed{Item: page, Principal: p}
	e.mu.Lock()
	observers := e.observers
	e.mu.Unlock()
	for _, fn := range observers {
		fn(failed)
	}
	if failed.Cancel {
		return nil
	}
	return &PermissionDeniedError{Item: page, Principal: p}
}

// OnItemSaving gates a save at item-read level and stamps the save
// annotation: the principal's name when authenticated, cleared otherwise.
func (e *Enforcer) OnItemSaving(ctx context.Context, item content.Item) error {
	if e.bypassed(ctx) {
		return nil
	}
	p := content.PrincipalFrom(ctx)
	if !e.security.IsAuthorized(ctx, item, p) {
		return &PermissionDeniedError{Item: item, Principal: p}
	}
	if p.Authenticated {
		item.SetSavedBy(p.Name)
	} else {
		item.SetSavedBy("")
	}
	return nil
}

// OnItemMoving checks both the source and the destination. A denial
// names the source item.
func (e *Enforcer) OnItemMoving(ctx context.Context, source, destination content.Item) error {
	return e.checkPair(ctx, source, destination)
}

// OnItemCopying checks both the source and the destination, like a move.
func (e *Enforcer) OnItemCopying(ctx context.Context, source, destination content.Item) error {
	return e.checkPair(ctx, source, destination)
}

// OnItemDeleting checks the item being deleted.
func (e *Enforcer) OnItemDeleting(ctx context.Context, item content.Item) error {
	if e.bypassed(ctx) {
		return nil
	}
	p := content.PrincipalFrom(ctx)
	if !e.security.IsAuthorized(ctx, item, p) {
		return &PermissionDeniedError{Item: item, Principal: p}
	}
	return nil
}

func (e *Enforcer) checkPair(ctx context.Context, source, destination content.Item) error {
	if e.bypassed(ctx) {
		return nil
	}
	p := content.PrincipalFrom(ctx)
	if !e.security.IsAuthorized(ctx, source, p) ||
		!e.security.IsAuthorized(ctx, destination, p) {
		return &PermissionDeniedError{Item: source, Principal: p}
	}
	return nil
}
