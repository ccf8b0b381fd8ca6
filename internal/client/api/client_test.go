package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/zaidS12/NovaChat-sub000/internal/client/api"
)

// toggleBackend records toggle calls the way the role endpoints serve them.
type toggleBackend struct {
	mu      sync.Mutex
	granted map[string]bool
	auths   []string
}

func newToggleServer(t *testing.T) (*api.Client, *toggleBackend) {
	t.Helper()

	state := &toggleBackend{granted: map[string]bool{"users.view": true}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/roles/{id}/permissions/{name}/toggle", func(w http.ResponseWriter, r *http.Request) {
		state.mu.Lock()
		defer state.mu.Unlock()

		auth := r.Header.Get("Authorization")
		state.auths = append(state.auths, auth)
		if auth != "Bearer operator-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		name := r.PathValue("name")
		state.granted[name] = !state.granted[name]
		json.NewEncoder(w).Encode(map[string]any{
			"role_id":    r.PathValue("id"),
			"permission": name,
			"granted":    state.granted[name],
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return api.NewClient(srv.URL), state
}

func TestToggleRolePermissionRoundTrip(t *testing.T) {
	client, state := newToggleServer(t)
	ctx := context.Background()

	granted, err := client.ToggleRolePermission(ctx, "operator-token", "r-mod", "users.view")
	if err != nil {
		t.Fatalf("ToggleRolePermission: %v", err)
	}
	if granted {
		t.Fatal("first toggle should revoke the seeded grant")
	}

	granted, err = client.ToggleRolePermission(ctx, "operator-token", "r-mod", "users.view")
	if err != nil {
		t.Fatalf("ToggleRolePermission: %v", err)
	}
	if !granted {
		t.Fatal("second toggle should restore the grant")
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	for _, auth := range state.auths {
		if auth != "Bearer operator-token" {
			t.Fatalf("Authorization = %q", auth)
		}
	}
}

func TestToggleRolePermissionUnauthorized(t *testing.T) {
	client, _ := newToggleServer(t)

	_, err := client.ToggleRolePermission(context.Background(), "stale-token", "r-mod", "users.view")
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}
