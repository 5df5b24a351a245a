// Package rbac is the external authority that can push permission and role
// updates into a credential store without a full re-login.
package rbac

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlaspay/atlas-console/internal/credentials"
)

// Repository provides PostgreSQL backed grant lookups.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EffectivePermissions returns the deduplicated permissions granted to an
// account through its role assignments.
func (r *Repository) EffectivePermissions(ctx context.Context, accountID int64) ([]credentials.Permission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT p.name, COALESCE(p.action, ''), COALESCE(p.route, '')
		 FROM permissions p
		 JOIN role_permissions rp ON rp.permission_id = p.id
		 JOIN account_roles ar ON ar.role_id = rp.role_id
		 WHERE ar.account_id = $1
		 ORDER BY p.name`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var perms []credentials.Permission
	for rows.Next() {
		var perm credentials.Permission
		if err := rows.Scan(&perm.Name, &perm.Action, &perm.Route); err != nil {
			return nil, err
		}
		perms = append(perms, perm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return perms, nil
}

// EffectiveRoles returns the roles assigned to an account.
func (r *Repository) EffectiveRoles(ctx context.Context, accountID int64) ([]credentials.Role, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ro.name
		 FROM roles ro
		 JOIN account_roles ar ON ar.role_id = ro.id
		 WHERE ar.account_id = $1
		 ORDER BY ro.name`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []credentials.Role
	for rows.Next() {
		var role credentials.Role
		if err := rows.Scan(&role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}
