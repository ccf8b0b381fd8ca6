package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/zaidS12/NovaChat-sub000/internal/client/api"
	"github.com/zaidS12/NovaChat-sub000/internal/client/session"
	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
)

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Email != "mina@novachat.dev" || req.Password != "correct horse battery" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid email or password"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"token":      "fresh-token",
			"token_type": "Bearer",
			"expires_in": 3600,
			"user": domain.User{
				ID:          "u1",
				Name:        "Mina",
				Email:       req.Email,
				Role:        "member",
				Permissions: []string{"chat.access"},
			},
		})
	})
	mux.HandleFunc("POST /api/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newStore(t *testing.T, baseURL string, opts ...session.StoreOption) (*session.Store, *session.FileStorage, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "session.json")
	storage, err := session.NewFileStorage(path)
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	store, err := session.NewStore(api.NewClient(baseURL), storage, opts...)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, storage, path
}

func TestRehydratePrefersUserScope(t *testing.T) {
	srv := newAuthServer(t)
	store, storage, _ := newStore(t, srv.URL)

	adminUser := &domain.User{ID: "a1", Role: "super_admin"}
	if err := storage.Save(domain.ScopeAdmin, session.PersistedSession{Token: "admin-token", User: adminUser}); err != nil {
		t.Fatalf("Save admin: %v", err)
	}
	regular := &domain.User{ID: "u1", Role: "member"}
	if err := storage.Save(domain.ScopeUser, session.PersistedSession{Token: "user-token", User: regular}); err != nil {
		t.Fatalf("Save user: %v", err)
	}

	if got := store.Rehydrate(); got != session.StateAuthenticated {
		t.Fatalf("Rehydrate = %v, want authenticated", got)
	}
	sess := store.Session()
	if sess.Token != "user-token" || sess.Scope != domain.ScopeUser {
		t.Fatalf("unexpected session after rehydrate: token=%q scope=%q", sess.Token, sess.Scope)
	}
}

func TestRehydrateFallsBackToAdminScope(t *testing.T) {
	srv := newAuthServer(t)
	store, storage, _ := newStore(t, srv.URL)

	adminUser := &domain.User{ID: "a1", Role: "super_admin"}
	if err := storage.Save(domain.ScopeAdmin, session.PersistedSession{Token: "admin-token", User: adminUser}); err != nil {
		t.Fatalf("Save admin: %v", err)
	}

	if got := store.Rehydrate(); got != session.StateAuthenticated {
		t.Fatalf("Rehydrate = %v, want authenticated", got)
	}
	sess := store.Session()
	if sess.Token != "admin-token" || sess.Scope != domain.ScopeAdmin {
		t.Fatalf("unexpected session: token=%q scope=%q", sess.Token, sess.Scope)
	}
	if !store.IsAdmin() {
		t.Fatal("IsAdmin = false for super_admin session")
	}
}

func TestRehydrateWithNothingPersisted(t *testing.T) {
	srv := newAuthServer(t)
	store, _, _ := newStore(t, srv.URL)

	if got := store.Rehydrate(); got != session.StateUnauthenticated {
		t.Fatalf("Rehydrate = %v, want unauthenticated", got)
	}
	if store.IsAuthenticated() {
		t.Fatal("IsAuthenticated = true with nothing persisted")
	}
}

func TestRehydrateWipesCorruptState(t *testing.T) {
	srv := newAuthServer(t)
	store, _, path := newStore(t, srv.URL)

	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	if got := store.Rehydrate(); got != session.StateUnauthenticated {
		t.Fatalf("Rehydrate = %v, want unauthenticated on corrupt state", got)
	}
}

func TestLoginStoresSessionAndClearsAdminScope(t *testing.T) {
	srv := newAuthServer(t)
	store, storage, _ := newStore(t, srv.URL)

	stale := &domain.User{ID: "a1", Role: "super_admin"}
	if err := storage.Save(domain.ScopeAdmin, session.PersistedSession{Token: "stale-admin", User: stale}); err != nil {
		t.Fatalf("Save admin: %v", err)
	}

	sess, err := store.Login(context.Background(), "mina@novachat.dev", "correct horse battery")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.Token != "fresh-token" || sess.Scope != domain.ScopeUser {
		t.Fatalf("unexpected session: token=%q scope=%q", sess.Token, sess.Scope)
	}
	if !store.IsAuthenticated() {
		t.Fatal("IsAuthenticated = false after login")
	}

	if _, err := storage.Load(domain.ScopeAdmin); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("admin scope survived login: err=%v", err)
	}
	persisted, err := storage.Load(domain.ScopeUser)
	if err != nil {
		t.Fatalf("Load user scope: %v", err)
	}
	if persisted.Token != "fresh-token" || persisted.User == nil || persisted.User.Email != "mina@novachat.dev" {
		t.Fatalf("unexpected persisted session: %+v", persisted)
	}
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	srv := newAuthServer(t)
	store, _, _ := newStore(t, srv.URL)
	store.Rehydrate()

	_, err := store.Login(context.Background(), "mina@novachat.dev", "wrong")
	var loginErr *api.LoginError
	if !errors.As(err, &loginErr) {
		t.Fatalf("Login error = %v, want *api.LoginError", err)
	}
	if store.State() != session.StateUnauthenticated {
		t.Fatalf("State = %v after failed login, want unauthenticated", store.State())
	}
}

func TestLogoutClearsBothScopesAndFiresHook(t *testing.T) {
	srv := newAuthServer(t)

	var hookFired bool
	store, storage, _ := newStore(t, srv.URL, session.WithOnLogout(func() { hookFired = true }))

	if _, err := store.Login(context.Background(), "mina@novachat.dev", "correct horse battery"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	store.Logout(context.Background())

	if store.State() != session.StateUnauthenticated {
		t.Fatalf("State = %v after logout", store.State())
	}
	if !hookFired {
		t.Fatal("logout hook did not fire")
	}
	for _, scope := range []domain.Scope{domain.ScopeUser, domain.ScopeAdmin} {
		if _, err := storage.Load(scope); !errors.Is(err, session.ErrNoSession) {
			t.Fatalf("scope %s survived logout: err=%v", scope, err)
		}
	}
}

func TestDoForcesLogoutOnUnauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/rooms", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	var hookFired bool
	store, storage, _ := newStore(t, srv.URL, session.WithOnLogout(func() { hookFired = true }))

	user := &domain.User{ID: "u1", Role: "member"}
	if err := storage.Save(domain.ScopeUser, session.PersistedSession{Token: "revoked-token", User: user}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	store.Rehydrate()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/api/v1/rooms", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if _, err := store.Do(req); !errors.Is(err, session.ErrSessionExpired) {
		t.Fatalf("Do error = %v, want ErrSessionExpired", err)
	}

	if store.State() != session.StateUnauthenticated {
		t.Fatalf("State = %v after forced logout", store.State())
	}
	if !hookFired {
		t.Fatal("logout hook did not fire on forced logout")
	}
}

func TestDoAttachesBearerToken(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/rooms", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	store, storage, _ := newStore(t, srv.URL)
	user := &domain.User{ID: "u1", Role: "member"}
	if err := storage.Save(domain.ScopeUser, session.PersistedSession{Token: "live-token", User: user}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	store.Rehydrate()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/api/v1/rooms", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := store.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()

	if gotAuth != "Bearer live-token" {
		t.Fatalf("Authorization = %q, want Bearer live-token", gotAuth)
	}
}
