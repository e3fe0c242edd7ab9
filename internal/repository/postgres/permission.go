package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mtorp/overlook-framework/internal/model"
)

var _ model.PermissionStore = (*PermissionRepository)(nil)

type PermissionRepository struct {
	db *Connection
}

func NewPermissionRepository(db *Connection) *PermissionRepository {
	return &PermissionRepository{
		db: db,
	}
}

// GetByUserID returns every permission reachable through the user's
// roles. Rows are not deduplicated here; set semantics belong to the
// resolver.
func (r *PermissionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Permission, error) {
	query := `SELECT p.id, p.name
			  FROM permissions p
			  JOIN role_permissions rp ON rp.permission_id = p.id
			  JOIN user_roles ur ON ur.role_id = rp.role_id
			  WHERE ur.user_id = $1`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get permissions for user: %w", err)
	}
	defer rows.Close()

	permissions := []model.Permission{}
	for rows.Next() {
		var permission model.Permission
		if err := rows.Scan(&permission.ID, &permission.Name); err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		permissions = append(permissions, permission)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read permissions: %w", err)
	}

	return permissions, nil
}
