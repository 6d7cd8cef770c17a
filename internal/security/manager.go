package security

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ppiankov/contentgate/internal/content"
	"github.com/ppiankov/contentgate/internal/permission"
)

// Maps are the three role maps the Manager consults. Administrators carry
// a Full ceiling, Editors ReadWritePublish, Writers ReadWrite.
type Maps struct {
	Administrators *permission.Map
	Editors        *permission.Map
	Writers        *permission.Map
}

// Manager is the single source of truth for whether a principal is
// allowed to do something to a content item. It is a pure predicate
// evaluator: a negative answer is false, never an error.
//
// The maps are replaced wholesale, never mutated in place, so concurrent
// readers always observe a consistent set.
type Manager struct {
	maps    atomic.Pointer[Maps]
	remaps  atomic.Pointer[permission.RemapRegistry]
	enabled atomic.Bool

	// now is a seam for publication-window tests; defaults to time.Now.
	now func() time.Time
}

// NewManager creates a Manager with security enabled. A nil registry
// means no type declares remaps.
func NewManager(maps Maps, remaps *permission.RemapRegistry) *Manager {
	if remaps == nil {
		remaps = permission.NewRemapRegistry()
	}
	m := &Manager{now: time.Now}
	m.maps.Store(&maps)
	m.remaps.Store(remaps)
	m.enabled.Store(true)
	return m
}

// Enabled reports the process-wide kill switch for all checks.
func (m *Manager) Enabled() bool {
	return m.enabled.Load()
}

// SetEnabled flips the process-wide kill switch.
func (m *Manager) SetEnabled(v bool) {
	m.enabled.Store(v)
}

// ReplaceMaps atomically swaps in a new set of role maps, e.g. after a
// configuration reload.
func (m *Manager) ReplaceMaps(maps Maps) {
	m.maps.Store(&maps)
}

// ReplaceRemaps atomically swaps in a new remap registry.
func (m *Manager) ReplaceRemaps(remaps *permission.RemapRegistry) {
	if remaps == nil {
		remaps = permission.NewRemapRegistry()
	}
	m.remaps.Store(remaps)
}

// SetClock overrides the wall-clock source. For tests.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// IsPublished returns true iff the item's publication window covers the
// current wall-clock time: Published is set and not in the future, and
// Expires is unset or still ahead. Re-evaluated on every call.
func (m *Manager) IsPublished(item content.Item) bool {
	now := m.now()
	pub := item.Published()
	if pub == nil || pub.After(now) {
		return false
	}
	exp := item.Expires()
	return exp == nil || exp.After(now)
}

// IsAdmin returns true if the principal is in the Administrators map.
func (m *Manager) IsAdmin(p content.Principal) bool {
	return m.maps.Load().Administrators.Contains(p)
}

// IsEditor returns true for administrators, editors, and writers.
func (m *Manager) IsEditor(p content.Principal) bool {
	maps := m.maps.Load()
	return maps.Administrators.Contains(p) ||
		maps.Editors.Contains(p) ||
		maps.Writers.Contains(p)
}

// IsAuthorized is the read-path check for viewing an item.
//
// Decision order (must not be changed):
//  1. Disabled security or admin bypasses everything.
//  2. Non-editors never see unpublished or expired content.
//  3. The item's own public/private flag is the final word.
func (m *Manager) IsAuthorized(ctx context.Context, item content.Item, p content.Principal) bool {
	if !m.Enabled() || !ScopeEnabled(ctx) || m.IsAdmin(p) {
		return true
	}
	if !m.IsEditor(p) && !m.IsPublished(item) {
		return false
	}
	return item.IsAuthorized(p)
}

// IsGranted is the write-path check for operating on an item at the
// requested permission level. None is always granted; Read delegates to
// the read-path check; higher levels run the item type's remap chain and
// then ask each role map in turn.
func (m *Manager) IsGranted(ctx context.Context, p content.Principal, item content.Item, requested permission.Permission) bool {
	switch requested {
	case permission.None:
		return true
	case permission.Read:
		return m.IsAuthorized(ctx, item, p)
	}

	effective := m.remaps.Load().Resolve(item.Type(), requested)
	maps := m.maps.Load()
	return maps.Administrators.Authorizes(p, item, effective) ||
		maps.Editors.Authorizes(p, item, effective) ||
		maps.Writers.Authorizes(p, item, effective)
}
