package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
	"github.com/zaidS12/NovaChat-sub000/internal/core/port"
	"github.com/zaidS12/NovaChat-sub000/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	Actor     string           `json:"actor,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, actor string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if span := trace.SpanFromContext(ctx); span != nil {
		if sc := span.SpanContext(); sc.IsValid() {
			metadata["trace_id"] = sc.TraceID().String()
		}
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		Actor:     actor,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserLoggedIn publishes novachat.auth.login events.
func (p *EventPublisher) PublishUserLoggedIn(ctx context.Context, event domain.UserLoggedInEvent) error {
	payload := struct {
		UserID   string    `json:"user_id"`
		Email    string    `json:"email"`
		Role     string    `json:"role"`
		LoggedAt time.Time `json:"logged_at"`
		IP       *string   `json:"ip,omitempty"`
	}{
		UserID:   event.UserID,
		Email:    event.Email,
		Role:     event.Role,
		LoggedAt: event.LoggedAt.UTC(),
		IP:       event.IP,
	}

	return p.publish(ctx, event.EventID, "auth.login", event.UserID, event.LoggedAt, payload)
}

// PublishRoleCreated publishes novachat.auth.role.created events.
func (p *EventPublisher) PublishRoleCreated(ctx context.Context, event domain.RoleCreatedEvent) error {
	payload := struct {
		RoleID      string    `json:"role_id"`
		Name        string    `json:"name"`
		DisplayName string    `json:"display_name"`
		CreatedBy   string    `json:"created_by"`
		CreatedAt   time.Time `json:"created_at"`
	}{
		RoleID:      event.RoleID,
		Name:        event.Name,
		DisplayName: event.DisplayName,
		CreatedBy:   event.CreatedBy,
		CreatedAt:   event.CreatedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "auth.role.created", event.CreatedBy, event.CreatedAt, payload)
}

// PublishRolePermissionsReplaced publishes novachat.auth.role.permissions_replaced events.
func (p *EventPublisher) PublishRolePermissionsReplaced(ctx context.Context, event domain.RolePermissionsReplacedEvent) error {
	payload := struct {
		RoleID      string    `json:"role_id"`
		Permissions []string  `json:"permissions"`
		ReplacedBy  string    `json:"replaced_by"`
		ReplacedAt  time.Time `json:"replaced_at"`
	}{
		RoleID:      event.RoleID,
		Permissions: event.Permissions,
		ReplacedBy:  event.ReplacedBy,
		ReplacedAt:  event.ReplacedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "auth.role.permissions_replaced", event.ReplacedBy, event.ReplacedAt, payload)
}

// PublishPermissionToggled publishes novachat.auth.role.permission_toggled events.
func (p *EventPublisher) PublishPermissionToggled(ctx context.Context, event domain.PermissionToggledEvent) error {
	payload := struct {
		RoleID     string    `json:"role_id"`
		Permission string    `json:"permission"`
		Granted    bool      `json:"granted"`
		ToggledBy  string    `json:"toggled_by"`
		ToggledAt  time.Time `json:"toggled_at"`
	}{
		RoleID:     event.RoleID,
		Permission: event.Permission,
		Granted:    event.Granted,
		ToggledBy:  event.ToggledBy,
		ToggledAt:  event.ToggledAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "auth.role.permission_toggled", event.ToggledBy, event.ToggledAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
