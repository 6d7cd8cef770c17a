package enforce

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ppiankov/contentgate/internal/content"
	"github.com/ppiankov/contentgate/internal/permission"
	"github.com/ppiankov/contentgate/internal/security"
)

var testNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func testSecurity() *security.Manager {
	m := security.NewManager(security.Maps{
		Administrators: permission.NewMap(permission.Full, []string{"Administrators"}, []string{"admin"}),
		Editors:        permission.NewMap(permission.ReadWritePublish, []string{"Editors"}, nil),
		Writers:        permission.NewMap(permission.ReadWrite, []string{"Editors"}, nil),
	}, nil)
	m.SetClock(func() time.Time { return testNow })
	return m
}

func ts(t time.Time) *time.Time { return &t }

func publicItem() *content.Node {
	return &content.Node{
		NodePath:    "/start",
		PublishedAt: ts(testNow.Add(-time.Hour)),
	}
}

func draftItem() *content.Node {
	return &content.Node{NodePath: "/start/draft"}
}

func editorCtx() (context.Context, content.Principal) {
	p := content.Principal{Name: "rita", Roles: []string{"Editors"}, Authenticated: true}
	return content.WithPrincipal(context.Background(), p), p
}

func visitorCtx() (context.Context, content.Principal) {
	p := content.Principal{Name: "bob", Authenticated: true}
	return content.WithPrincipal(context.Background(), p), p
}

func TestSaveDenialLeavesSavedByUnchanged(t *testing.T) {
	e := New(testSecurity(), nil)
	ctx, _ := visitorCtx()
	item := draftItem()
	item.SetSavedBy("previous")

	err := e.OnItemSaving(ctx, item)

	if err == nil {
		t.Fatal("expected denial for a draft saved by a non-editor")
	}
	var denied *PermissionDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected PermissionDeniedError, got %T", err)
	}
	if denied.Item.Path() != "/start/draft" {
		t.Errorf("expected denial to carry the item, got %q", denied.Item.Path())
	}
	if item.SavedBy() != "previous" {
		t.Errorf("expected SavedBy unchanged on denial, got %q", item.SavedBy())
	}
}

func TestSaveStampsAuthenticatedPrincipal(t *testing.T) {
	e := New(testSecurity(), nil)
	ctx, _ := editorCtx()
	item := draftItem()

	if err := e.OnItemSaving(ctx, item); err != nil {
		t.Fatalf("expected editor save to pass, got %v", err)
	}
	if item.SavedBy() != "rita" {
		t.Errorf("expected SavedBy=rita, got %q", item.SavedBy())
	}
}

func TestSaveClearsSavedByForAnonymous(t *testing.T) {
	sec := testSecurity()
	sec.SetEnabled(false) // anonymous save passes only with security off
	e := New(sec, nil)
	item := publicItem()
	item.SetSavedBy("previous")

	// Disabled security bypasses the hook before the check, so SavedBy is
	// untouched on the bypass path.
	if err := e.OnItemSaving(context.Background(), item); err != nil {
		t.Fatalf("expected bypassed save to pass, got %v", err)
	}
	if item.SavedBy() != "previous" {
		t.Errorf("expected bypassed save to leave SavedBy, got %q", item.SavedBy())
	}

	// With security on, an anonymous principal allowed by the item check
	// clears the annotation.
	sec.SetEnabled(true)
	if err := e.OnItemSaving(context.Background(), item); err != nil {
		t.Fatalf("expected anonymous save of a public item to pass, got %v", err)
	}
	if item.SavedBy() != "" {
		t.Errorf("expected SavedBy cleared for anonymous save, got %q", item.SavedBy())
	}
}

func TestMoveDenialNamesSource(t *testing.T) {
	e := New(testSecurity(), nil)
	ctx, _ := visitorCtx()
	source := publicItem()
	dest := draftItem() // destination not visible to a non-editor

	err := e.OnItemMoving(ctx, source, dest)

	var denied *PermissionDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected PermissionDeniedError, got %v", err)
	}
	if denied.Item.Path() != "/start" {
		t.Errorf("expected denial to name the source, got %q", denied.Item.Path())
	}
}

func TestCopyAndDeleteCheckItems(t *testing.T) {
	e := New(testSecurity(), nil)
	ctx, _ := editorCtx()

	if err := e.OnItemCopying(ctx, publicItem(), draftItem()); err != nil {
		t.Errorf("expected editor copy to pass, got %v", err)
	}
	if err := e.OnItemDeleting(ctx, draftItem()); err != nil {
		t.Errorf("expected editor delete to pass, got %v", err)
	}

	badCtx, _ := visitorCtx()
	if err := e.OnItemDeleting(badCtx, draftItem()); err == nil {
		t.Error("expected visitor delete of a draft to be denied")
	}
}

func TestAuthorizeRequestAllowsNilPage(t *testing.T) {
	e := New(testSecurity(), nil)
	ctx, p := visitorCtx()

	if err := e.AuthorizeRequest(ctx, nil, p); err != nil {
		t.Errorf("expected nil page to be allowed, got %v", err)
	}
}

func TestObserverCancelOverridesDenial(t *testing.T) {
	e := New(testSecurity(), nil)
	ctx, p := visitorCtx()

	var seen []string
	e.Observe(func(f *AuthorizationFailed) {
		seen = append(seen, "first")
		f.Cancel = true
	})
	e.Observe(func(f *AuthorizationFailed) {
		seen = append(seen, "second")
	})

	if err := e.AuthorizeRequest(ctx, draftItem(), p); err != nil {
		t.Errorf("expected cancelled denial to pass, got %v", err)
	}
	if len(seen) != 2 || seen[0] != "first" || seen[1] != "second" {
		t.Errorf("expected all observers in registration order, got %v", seen)
	}
}

func TestLastObserverWins(t *testing.T) {
	e := New(testSecurity(), nil)
	ctx, p := visitorCtx()

	e.Observe(func(f *AuthorizationFailed) { f.Cancel = true })
	e.Observe(func(f *AuthorizationFailed) { f.Cancel = false })

	if err := e.AuthorizeRequest(ctx, draftItem(), p); err == nil {
		t.Error("expected denial when the last observer un-cancels")
	}
}

func TestUnobservedDenialIsFatal(t *testing.T) {
	e := New(testSecurity(), nil)
	ctx, p := visitorCtx()

	err := e.AuthorizeRequest(ctx, draftItem(), p)

	var denied *PermissionDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected PermissionDeniedError, got %v", err)
	}
	if denied.Principal.Name != "bob" {
		t.Errorf("expected denial to carry the principal, got %q", denied.Principal.Name)
	}
}

func TestDisabledScopeSkipsEnforcement(t *testing.T) {
	e := New(testSecurity(), nil)
	ctx, p := visitorCtx()
	ctx = security.DisableScope(ctx)

	if err := e.AuthorizeRequest(ctx, draftItem(), p); err != nil {
		t.Errorf("expected disabled scope to skip enforcement, got %v", err)
	}
	if err := e.OnItemDeleting(ctx, draftItem()); err != nil {
		t.Errorf("expected disabled scope to skip the delete check, got %v", err)
	}
}

func TestStartStopLifecycle(t *testing.T) {
	bus := content.NewBus()
	e := New(testSecurity(), bus)

	// Stop before Start is a no-op
	e.Stop()

	e.Start()
	e.Start() // second Start must not double-register

	ctx, _ := visitorCtx()
	if err := bus.EmitSaving(ctx, draftItem()); err == nil {
		t.Error("expected subscribed enforcer to deny the save")
	}

	e.Stop()
	if err := bus.EmitSaving(ctx, draftItem()); err != nil {
		t.Errorf("expected no enforcement after Stop, got %v", err)
	}
}
