package guard_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/zaidS12/NovaChat-sub000/internal/client/api"
	"github.com/zaidS12/NovaChat-sub000/internal/client/guard"
	"github.com/zaidS12/NovaChat-sub000/internal/client/session"
	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
)

type verifyBehavior int

const (
	verifyValid verifyBehavior = iota
	verifyInvalid
	verifyUnreachable
)

func newVerifierFixture(t *testing.T, behavior verifyBehavior, user *domain.User) (*guard.AdminVerifier, *session.Store) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/auth/verify", func(w http.ResponseWriter, r *http.Request) {
		switch behavior {
		case verifyInvalid:
			json.NewEncoder(w).Encode(map[string]any{"valid": false})
		default:
			json.NewEncoder(w).Encode(map[string]any{"valid": true, "is_admin": user.IsSuperuser()})
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	baseURL := srv.URL
	if behavior == verifyUnreachable {
		srv.Close()
	}

	client := api.NewClient(baseURL)
	storage, err := session.NewFileStorage(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	store, err := session.NewStore(client, storage)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if user != nil {
		if err := storage.Save(domain.ScopeAdmin, session.PersistedSession{Token: "admin-token", User: user}); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	store.Rehydrate()

	return guard.NewAdminVerifier(client, store, nil), store
}

func TestAdminVerifyUnauthenticatedWithoutSession(t *testing.T) {
	verifier, _ := newVerifierFixture(t, verifyValid, nil)

	verdict := verifier.Verify(context.Background(), guard.Route{Name: "/admin"})
	if verdict.Kind != guard.AdminUnauthenticated {
		t.Fatalf("Kind = %v, want unauthenticated", verdict.Kind)
	}
	if verdict.RedirectTo != guard.AdminLoginRoute {
		t.Fatalf("RedirectTo = %q, want the admin login route", verdict.RedirectTo)
	}
}

func TestAdminVerifyRequiresBaselineCapability(t *testing.T) {
	user := &domain.User{ID: "u1", Role: "member", Permissions: []string{"chat.access"}}
	verifier, _ := newVerifierFixture(t, verifyValid, user)

	verdict := verifier.Verify(context.Background(), guard.Route{Name: "/admin"})
	if verdict.Kind != guard.AdminUnauthenticated {
		t.Fatalf("Kind = %v, want unauthenticated", verdict.Kind)
	}
	if verdict.Reason != "admin access required" {
		t.Fatalf("Reason = %q", verdict.Reason)
	}
	if verdict.RedirectTo != "" {
		t.Fatalf("baseline denial must not redirect, got %q", verdict.RedirectTo)
	}
}

func TestAdminVerifyPanelPermissionSuffices(t *testing.T) {
	user := &domain.User{ID: "u1", Role: "moderator", Permissions: []string{guard.AdminPanelPermission}}
	verifier, _ := newVerifierFixture(t, verifyValid, user)

	verdict := verifier.Verify(context.Background(), guard.Route{Name: "/admin"})
	if verdict.Kind != guard.AdminPermitted {
		t.Fatalf("Kind = %v, want permitted", verdict.Kind)
	}
}

func TestAdminVerifyForbiddenOnMissingRoutePermission(t *testing.T) {
	user := &domain.User{ID: "u1", Role: "moderator", Permissions: []string{guard.AdminPanelPermission}}
	verifier, _ := newVerifierFixture(t, verifyValid, user)

	verdict := verifier.Verify(context.Background(), guard.Route{
		Name:               "/admin/users",
		RequiredPermission: "users.manage",
	})
	if verdict.Kind != guard.AdminForbidden {
		t.Fatalf("Kind = %v, want forbidden", verdict.Kind)
	}
	if verdict.MissingPermission != "users.manage" {
		t.Fatalf("MissingPermission = %q", verdict.MissingPermission)
	}
}

func TestAdminVerifyFailsOpenOnTransportError(t *testing.T) {
	user := &domain.User{ID: "a1", Role: domain.SuperAdminRole}
	verifier, store := newVerifierFixture(t, verifyUnreachable, user)

	verdict := verifier.Verify(context.Background(), guard.Route{Name: "/admin"})
	if verdict.Kind != guard.AdminPermitted {
		t.Fatalf("Kind = %v, want permitted on unreachable service", verdict.Kind)
	}
	if !store.IsAuthenticated() {
		t.Fatal("failing open must not drop the session")
	}
}

func TestAdminVerifyInvalidTokenWipesSession(t *testing.T) {
	user := &domain.User{ID: "a1", Role: domain.SuperAdminRole}
	verifier, store := newVerifierFixture(t, verifyInvalid, user)

	verdict := verifier.Verify(context.Background(), guard.Route{Name: "/admin"})
	if verdict.Kind != guard.AdminUnauthenticated {
		t.Fatalf("Kind = %v, want unauthenticated on invalid token", verdict.Kind)
	}
	if verdict.RedirectTo != guard.AdminLoginRoute {
		t.Fatalf("RedirectTo = %q", verdict.RedirectTo)
	}
	if store.IsAuthenticated() {
		t.Fatal("invalid verdict must drop the session")
	}
	if store.State() != session.StateUnauthenticated {
		t.Fatalf("State = %v after wipe", store.State())
	}
}
