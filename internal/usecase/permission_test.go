package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
)

func TestPermissionService_List(t *testing.T) {
	repo := &permRepoMock{
		permissions: []domain.Permission{
			{ID: "p1", Name: "chat.access", Module: "chat"},
			{ID: "p2", Name: "dashboard.view", Module: "dashboard"},
		},
	}
	service, err := NewPermissionService(repo)
	if err != nil {
		t.Fatalf("NewPermissionService failed: %v", err)
	}

	perms, err := service.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(perms) != 2 {
		t.Errorf("expected 2 permissions, got %d", len(perms))
	}
}

func TestPermissionService_List_Error(t *testing.T) {
	wantErr := errors.New("catalog unavailable")
	service, _ := NewPermissionService(&permRepoMock{listErr: wantErr})

	_, err := service.List(context.Background())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected repository error to surface, got %v", err)
	}
}
