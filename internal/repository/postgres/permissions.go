package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/zaidS12/NovaChat-sub000/internal/core/domain"
	"github.com/zaidS12/NovaChat-sub000/internal/core/port"
	"github.com/zaidS12/NovaChat-sub000/internal/repository"
)

// PermissionRepository implements permission catalog reads.
type PermissionRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewPermissionRepository constructs a PostgreSQL-backed permission repository.
func NewPermissionRepository(pool PgxPool) *PermissionRepository {
	return &PermissionRepository{exec: pool, builder: newBuilder()}
}

// List retrieves every permission ordered by module then name. The module
// ordering keeps the grouped presentation stable for the admin UI.
func (r *PermissionRepository) List(ctx context.Context) ([]domain.Permission, error) {
	stmt, args, err := r.builder.Select("id", "name", "display_name", "description", "module").
		From("auth.permissions").
		OrderBy("module ASC", "name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list permissions sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query permissions: %w", err)
	}
	defer rows.Close()

	permissions := make([]domain.Permission, 0)
	for rows.Next() {
		var (
			permission  domain.Permission
			description sql.NullString
		)
		if err := rows.Scan(&permission.ID, &permission.Name, &permission.DisplayName, &description, &permission.Module); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		if description.Valid {
			desc := description.String
			permission.Description = &desc
		}
		permissions = append(permissions, permission)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permissions: %w", err)
	}

	return permissions, nil
}

// GetByName retrieves a permission by its unique name.
func (r *PermissionRepository) GetByName(ctx context.Context, name string) (*domain.Permission, error) {
	stmt, args, err := r.builder.Select("id", "name", "display_name", "description", "module").
		From("auth.permissions").
		Where(squirrel.Eq{"name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select permission sql: %w", err)
	}

	var (
		permission  domain.Permission
		description sql.NullString
	)

	row := r.exec.QueryRow(ctx, stmt, args...)
	if err := row.Scan(&permission.ID, &permission.Name, &permission.DisplayName, &description, &permission.Module); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan permission: %w", err)
	}

	if description.Valid {
		permission.Description = &description.String
	}

	return &permission, nil
}

var _ port.PermissionRepository = (*PermissionRepository)(nil)
