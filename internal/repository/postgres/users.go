package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/zaidS12/NovaChat-sub000/internal/core/port"
	"github.com/zaidS12/NovaChat-sub000/internal/repository"
)

// UserRepository implements user persistence operations.
type UserRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository constructs a PostgreSQL-backed user repository.
func NewUserRepository(pool PgxPool) *UserRepository {
	return &UserRepository{exec: pool, builder: newBuilder()}
}

// Create inserts a new user account.
func (r *UserRepository) Create(ctx context.Context, user port.UserRecord) error {
	stmt, args, err := r.builder.Insert("auth.users").
		Columns("id", "name", "email", "role", "is_admin", "password_hash").
		Values(user.ID, user.Name, user.Email, user.Role, user.IsAdmin, user.PasswordHash).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert user: %w", mapPgError(err))
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*port.UserRecord, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*port.UserRecord, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email})
}

func (r *UserRepository) getBy(ctx context.Context, pred squirrel.Eq) (*port.UserRecord, error) {
	stmt, args, err := r.builder.Select("id", "name", "email", "role", "is_admin", "password_hash").
		From("auth.users").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	var user port.UserRecord
	row := r.exec.QueryRow(ctx, stmt, args...)
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.IsAdmin, &user.PasswordHash); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &user, nil
}

var _ port.UserRepository = (*UserRepository)(nil)
