package permission

import (
	"testing"

	"github.com/ppiankov/contentgate/internal/content"
)

func TestContainsByUserName(t *testing.T) {
	m := NewMap(Full, nil, []string{"admin"})

	if !m.Contains(content.Principal{Name: "admin", Authenticated: true}) {
		t.Error("expected admin user to be contained")
	}
	if m.Contains(content.Principal{Name: "mallory", Authenticated: true}) {
		t.Error("expected unknown user to not be contained")
	}
}

func TestContainsByRole(t *testing.T) {
	m := NewMap(ReadWritePublish, []string{"Editors"}, nil)

	p := content.Principal{Name: "rita", Roles: []string{"Editors"}, Authenticated: true}
	if !m.Contains(p) {
		t.Error("expected principal with Editors role to be contained")
	}

	// Role matching is exact, not case-insensitive
	lower := content.Principal{Name: "rita", Roles: []string{"editors"}, Authenticated: true}
	if m.Contains(lower) {
		t.Error("expected lowercase role to not match")
	}
}

func TestEveryoneSentinelMatchesAnyPrincipal(t *testing.T) {
	// Sentinel is recognized case-insensitively in the map's role list
	m := NewMap(Read, []string{"everyone"}, nil)

	if !m.Contains(content.Anonymous()) {
		t.Error("expected Everyone map to contain the anonymous principal")
	}
	if !m.Contains(content.Principal{Name: "bob", Roles: []string{"Nobody"}, Authenticated: true}) {
		t.Error("expected Everyone map to contain a principal with unrelated roles")
	}
}

func TestAuthorizesRespectsCeiling(t *testing.T) {
	item := &content.Node{NodePath: "/start"}
	p := content.Principal{Name: "rita", Roles: []string{"Writers"}, Authenticated: true}
	m := NewMap(ReadWrite, []string{"Writers"}, nil)

	if !m.Authorizes(p, item, ReadWrite) {
		t.Error("expected member to be authorized at the ceiling")
	}
	if m.Authorizes(p, item, ReadWritePublish) {
		t.Error("expected request above the ceiling to be refused for a member")
	}
	if m.Authorizes(content.Anonymous(), item, Read) {
		t.Error("expected non-member to be refused below the ceiling")
	}
}
