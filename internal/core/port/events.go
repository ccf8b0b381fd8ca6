package port

import (
	"context"

	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
)

// EventPublisher publishes authorization domain events to the message bus.
type EventPublisher interface {
	PublishUserLoggedIn(ctx context.Context, event domain.UserLoggedInEvent) error
	PublishRoleCreated(ctx context.Context, event domain.RoleCreatedEvent) error
	PublishRolePermissionsReplaced(ctx context.Context, event domain.RolePermissionsReplacedEvent) error
	PublishPermissionToggled(ctx context.Context, event domain.PermissionToggledEvent) error
}
