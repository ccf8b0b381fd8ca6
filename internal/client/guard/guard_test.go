package guard_test

import (
	"testing"

	"github.com/zaidS12/NovaChat-sub000/internal/client/guard"
	"github.com/zaidS12/NovaChat-sub000/internal/client/session"
	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
)

func memberSession(permissions ...string) domain.Session {
	return domain.Session{
		Token: "token",
		User:  &domain.User{ID: "u1", Role: "member", Permissions: permissions},
		Scope: domain.ScopeUser,
	}
}

func adminSession() domain.Session {
	return domain.Session{
		Token: "token",
		User:  &domain.User{ID: "a1", Role: domain.SuperAdminRole},
		Scope: domain.ScopeUser,
	}
}

func TestAuthorizePendingWhileUnknown(t *testing.T) {
	d := guard.Authorize(session.StateUnknown, domain.Session{}, guard.Route{Name: "/dashboard"})
	if d.Kind != guard.DecisionPending {
		t.Fatalf("Kind = %v, want pending", d.Kind)
	}
}

func TestAuthorizeRedirectsUnauthenticated(t *testing.T) {
	d := guard.Authorize(session.StateUnauthenticated, domain.Session{}, guard.Route{Name: "/chat"})
	if d.Kind != guard.DecisionRedirect {
		t.Fatalf("Kind = %v, want redirect", d.Kind)
	}
	if d.To != guard.LoginRoute || d.From != "/chat" {
		t.Fatalf("redirect = %q from %q", d.To, d.From)
	}
}

func TestAuthorizeAdminOnlyRedirectsToGeneralLoginWhenUnauthenticated(t *testing.T) {
	d := guard.Authorize(session.StateUnauthenticated, domain.Session{}, guard.Route{
		Name:      "/admin",
		AdminOnly: true,
	})
	if d.Kind != guard.DecisionRedirect {
		t.Fatalf("Kind = %v, want redirect", d.Kind)
	}
	if d.To != guard.LoginRoute {
		t.Fatalf("To = %q, want the general login route", d.To)
	}
}

func TestAuthorizeTokenWithoutUserIsRedirected(t *testing.T) {
	half := domain.Session{Token: "token"}
	d := guard.Authorize(session.StateAuthenticated, half, guard.Route{Name: "/chat"})
	if d.Kind != guard.DecisionRedirect {
		t.Fatalf("Kind = %v, want redirect for half a session", d.Kind)
	}
}

func TestAuthorizeAdminOnlyDeniesInPlace(t *testing.T) {
	d := guard.Authorize(session.StateAuthenticated, memberSession("users.view"), guard.Route{
		Name:               "/admin",
		AdminOnly:          true,
		RequiredPermission: "users.view",
	})
	if d.Kind != guard.DecisionDeny {
		t.Fatalf("Kind = %v, want deny", d.Kind)
	}
	if d.Reason != "administrator access required" {
		t.Fatalf("Reason = %q", d.Reason)
	}
	if d.To != "" {
		t.Fatalf("deny must not redirect, got To=%q", d.To)
	}
}

func TestAuthorizeMissingPermissionNamesIt(t *testing.T) {
	d := guard.Authorize(session.StateAuthenticated, memberSession("chat.access"), guard.Route{
		Name:               "/users",
		RequiredPermission: "users.view",
	})
	if d.Kind != guard.DecisionDeny {
		t.Fatalf("Kind = %v, want deny", d.Kind)
	}
	if d.MissingPermission != "users.view" {
		t.Fatalf("MissingPermission = %q", d.MissingPermission)
	}
}

func TestAuthorizeAllowsHolder(t *testing.T) {
	d := guard.Authorize(session.StateAuthenticated, memberSession("users.view"), guard.Route{
		Name:               "/users",
		RequiredPermission: "users.view",
	})
	if d.Kind != guard.DecisionAllow {
		t.Fatalf("Kind = %v, want allow", d.Kind)
	}
}

func TestAuthorizeAdminBypassesPermission(t *testing.T) {
	d := guard.Authorize(session.StateAuthenticated, adminSession(), guard.Route{
		Name:               "/admin/settings",
		AdminOnly:          true,
		RequiredPermission: "settings.manage",
	})
	if d.Kind != guard.DecisionAllow {
		t.Fatalf("Kind = %v, want allow for super_admin", d.Kind)
	}
}

func TestAuthorizeNoRequirementsAllowsAnyAuthenticated(t *testing.T) {
	d := guard.Authorize(session.StateAuthenticated, memberSession(), guard.Route{Name: "/profile"})
	if d.Kind != guard.DecisionAllow {
		t.Fatalf("Kind = %v, want allow", d.Kind)
	}
}
