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

// RoleRepository implements role and role-permission persistence operations.
type RoleRepository struct {
	pool    PgxPool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewRoleRepository constructs a PostgreSQL-backed role repository.
func NewRoleRepository(pool PgxPool) *RoleRepository {
	return &RoleRepository{pool: pool, exec: pool, builder: newBuilder()}
}

// Create inserts a new role.
func (r *RoleRepository) Create(ctx context.Context, role domain.Role) error {
	stmt, args, err := r.builder.Insert("auth.roles").
		Columns("id", "name", "display_name", "description", "active").
		Values(role.ID, role.Name, role.DisplayName, role.Description, role.Active).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert role sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert role: %w", mapPgError(err))
	}

	return nil
}

// List retrieves all roles sorted by name.
func (r *RoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	stmt, args, err := r.builder.Select("id", "name", "display_name", "description", "active").
		From("auth.roles").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list roles sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	roles := make([]domain.Role, 0)
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}

	return roles, nil
}

// GetByID retrieves a role by its ID.
func (r *RoleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByName retrieves a role by its unique machine name.
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.getBy(ctx, squirrel.Eq{"name": name})
}

func (r *RoleRepository) getBy(ctx context.Context, pred squirrel.Eq) (*domain.Role, error) {
	stmt, args, err := r.builder.Select("id", "name", "display_name", "description", "active").
		From("auth.roles").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select role sql: %w", err)
	}

	role, err := scanRole(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &role, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRole(row rowScanner) (domain.Role, error) {
	var (
		role        domain.Role
		description sql.NullString
	)

	if err := row.Scan(&role.ID, &role.Name, &role.DisplayName, &description, &role.Active); err != nil {
		if err == pgx.ErrNoRows {
			return role, err
		}
		return role, fmt.Errorf("scan role: %w", err)
	}

	if description.Valid {
		role.Description = &description.String
	}

	return role, nil
}

// PermissionMap returns the full role-permission mapping keyed by role ID.
func (r *RoleRepository) PermissionMap(ctx context.Context) (domain.RolePermissionMap, error) {
	stmt, args, err := r.builder.Select("rp.role_id", "p.name").
		From("auth.role_permissions rp").
		Join("auth.permissions p ON p.id = rp.permission_id").
		OrderBy("rp.role_id ASC", "p.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build permission map sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query permission map: %w", err)
	}
	defer rows.Close()

	result := make(domain.RolePermissionMap)
	for rows.Next() {
		var roleID, name string
		if err := rows.Scan(&roleID, &name); err != nil {
			return nil, fmt.Errorf("scan permission map row: %w", err)
		}
		result[roleID] = append(result[roleID], name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permission map: %w", err)
	}

	return result, nil
}

// ListPermissions returns the permission names currently attached to the role.
func (r *RoleRepository) ListPermissions(ctx context.Context, roleID string) ([]string, error) {
	stmt, args, err := r.builder.Select("p.name").
		From("auth.permissions p").
		Join("auth.role_permissions rp ON rp.permission_id = p.id").
		Where(squirrel.Eq{"rp.role_id": roleID}).
		OrderBy("p.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build role permissions sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query role permissions: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan role permission: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role permissions: %w", err)
	}

	return names, nil
}

// ReplacePermissions atomically replaces the role's whole permission set.
// The save is a bulk replace, not an incremental diff.
func (r *RoleRepository) ReplacePermissions(ctx context.Context, roleID string, permissions []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace permissions tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ids, err := r.permissionIDs(ctx, tx, permissions)
	if err != nil {
		return err
	}

	delStmt, delArgs, err := r.builder.Delete("auth.role_permissions").
		Where(squirrel.Eq{"role_id": roleID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build clear role permissions sql: %w", err)
	}
	if _, err := tx.Exec(ctx, delStmt, delArgs...); err != nil {
		return fmt.Errorf("clear role permissions: %w", err)
	}

	if len(ids) > 0 {
		insert := r.builder.Insert("auth.role_permissions").Columns("role_id", "permission_id")
		for _, id := range ids {
			insert = insert.Values(roleID, id)
		}
		insStmt, insArgs, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("build assign role permissions sql: %w", err)
		}
		if _, err := tx.Exec(ctx, insStmt, insArgs...); err != nil {
			return fmt.Errorf("assign role permissions: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace permissions tx: %w", err)
	}

	return nil
}

// TogglePermission flips a single permission for the role and reports the
// resulting state (true = now granted).
func (r *RoleRepository) TogglePermission(ctx context.Context, roleID, permission string) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin toggle permission tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ids, err := r.permissionIDs(ctx, tx, []string{permission})
	if err != nil {
		return false, err
	}
	permissionID := ids[0]

	delStmt, delArgs, err := r.builder.Delete("auth.role_permissions").
		Where(squirrel.Eq{"role_id": roleID}).
		Where(squirrel.Eq{"permission_id": permissionID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build toggle delete sql: %w", err)
	}

	res, err := tx.Exec(ctx, delStmt, delArgs...)
	if err != nil {
		return false, fmt.Errorf("toggle delete: %w", err)
	}

	granted := false
	if res.RowsAffected() == 0 {
		insStmt, insArgs, err := r.builder.Insert("auth.role_permissions").
			Columns("role_id", "permission_id").
			Values(roleID, permissionID).
			ToSql()
		if err != nil {
			return false, fmt.Errorf("build toggle insert sql: %w", err)
		}
		if _, err := tx.Exec(ctx, insStmt, insArgs...); err != nil {
			return false, fmt.Errorf("toggle insert: %w", err)
		}
		granted = true
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit toggle permission tx: %w", err)
	}

	return granted, nil
}

// permissionIDs resolves permission names to IDs inside the transaction.
// Unknown names are reported as ErrNotFound so callers reject bad saves whole.
func (r *RoleRepository) permissionIDs(ctx context.Context, tx pgx.Tx, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	stmt, args, err := r.builder.Select("id", "name").
		From("auth.permissions").
		Where(squirrel.Eq{"name": names}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build permission ids sql: %w", err)
	}

	rows, err := tx.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query permission ids: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]string, len(names))
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan permission id: %w", err)
		}
		byName[name] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permission ids: %w", err)
	}

	ids := make([]string, 0, len(names))
	for _, name := range names {
		id, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("permission %q: %w", name, repository.ErrNotFound)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

var _ port.RoleRepository = (*RoleRepository)(nil)
