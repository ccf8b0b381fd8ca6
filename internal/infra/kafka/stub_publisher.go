package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
	"github.com/zaidS12/NovaChat-sub000/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, actor string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("actor", actor),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserLoggedIn logs auth.login events.
func (p *StubPublisher) PublishUserLoggedIn(_ context.Context, event domain.UserLoggedInEvent) error {
	payload := map[string]any{
		"user_id":   event.UserID,
		"email":     event.Email,
		"role":      event.Role,
		"logged_at": event.LoggedAt,
		"ip":        event.IP,
	}
	p.logEvent("auth.login", event.UserID, event.LoggedAt, payload)
	return nil
}

// PublishRoleCreated logs auth.role.created events.
func (p *StubPublisher) PublishRoleCreated(_ context.Context, event domain.RoleCreatedEvent) error {
	payload := map[string]any{
		"role_id":      event.RoleID,
		"name":         event.Name,
		"display_name": event.DisplayName,
		"created_by":   event.CreatedBy,
		"created_at":   event.CreatedAt,
	}
	p.logEvent("auth.role.created", event.CreatedBy, event.CreatedAt, payload)
	return nil
}

// PublishRolePermissionsReplaced logs auth.role.permissions_replaced events.
func (p *StubPublisher) PublishRolePermissionsReplaced(_ context.Context, event domain.RolePermissionsReplacedEvent) error {
	payload := map[string]any{
		"role_id":     event.RoleID,
		"permissions": event.Permissions,
		"replaced_by": event.ReplacedBy,
		"replaced_at": event.ReplacedAt,
	}
	p.logEvent("auth.role.permissions_replaced", event.ReplacedBy, event.ReplacedAt, payload)
	return nil
}

// PublishPermissionToggled logs auth.role.permission_toggled events.
func (p *StubPublisher) PublishPermissionToggled(_ context.Context, event domain.PermissionToggledEvent) error {
	payload := map[string]any{
		"role_id":    event.RoleID,
		"permission": event.Permission,
		"granted":    event.Granted,
		"toggled_by": event.ToggledBy,
		"toggled_at": event.ToggledAt,
	}
	p.logEvent("auth.role.permission_toggled", event.ToggledBy, event.ToggledAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
