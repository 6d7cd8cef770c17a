package permission

import (
	"strings"

	"github.com/ppiankov/contentgate/internal/content"
)

// Everyone is the sentinel role that matches any principal regardless of
// its actual role memberships. Matched case-insensitively; all other role
// matching is exact.
const Everyone = "Everyone"

// Map binds a maximum granted Permission to a set of role names and a set
// of user names. The ceiling is fixed at construction and never mutated
// by queries; a Map is read-only after construction.
type Map struct {
	ceiling  Permission
	roles    map[string]bool
	users    map[string]bool
	everyone bool
}

// NewMap constructs a Map with the given ceiling, role names, and user
// names.
func NewMap(ceiling Permission, roles, users []string) *Map {
	m := &Map{
		ceiling: ceiling,
		roles:   make(map[string]bool, len(roles)),
		users:   make(map[string]bool, len(users)),
	}
	for _, r := range roles {
		if strings.EqualFold(r, Everyone) {
			m.everyone = true
			continue
		}
		m.roles[r] = true
	}
	for _, u := range users {
		m.users[u] = true
	}
	return m
}

// Ceiling returns the maximum Permission this map can grant.
func (m *Map) Ceiling() Permission {
	return m.ceiling
}

// Contains returns true if the principal's name is in the user set, or
// any of its roles is in the role set. Unknown roles never match; there
// is no partial or wildcard matching beyond the Everyone sentinel.
func (m *Map) Contains(p content.Principal) bool {
	if m.everyone {
		return true
	}
	if m.users[p.Name] {
		return true
	}
	for _, r := range p.Roles {
		if m.roles[r] {
			return true
		}
	}
	return false
}

// Authorizes returns false immediately when the ceiling is below the
// requested level, otherwise membership decides. The item is accepted for
// symmetry with item-scoped rules; the built-in maps do not consult it.
func (m *Map) Authorizes(p content.Principal, item content.Item, requested Permission) bool {
	if !m.ceiling.Authorizes(requested) {
		return false
	}
	return m.Contains(p)
}
