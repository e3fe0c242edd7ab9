// Package permission maps a resolved user to the set of capabilities
// granted through its roles.
package permission

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mtorp/overlook-framework/internal/logger"
	"github.com/mtorp/overlook-framework/internal/model"
)

// Resolver computes permission sets, substituting the public user for
// anonymous or uninitialized identities.
type Resolver struct {
	permissionStore model.PermissionStore
	publicUserID    uuid.UUID
	logger          *logger.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(permissionStore model.PermissionStore, publicUserID uuid.UUID, logger *logger.Logger) *Resolver {
	return &Resolver{
		permissionStore: permissionStore,
		publicUserID:    publicUserID,
		logger:          logger,
	}
}

// Resolve returns the permission set for the given user. A Nil userID
// or an uninitialized user resolves the public user's permissions
// instead. The returned set is never nil on success; a user with no
// roles gets an empty set.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID, isInitialized bool) (model.PermissionSet, error) {
	effectiveID := userID
	if effectiveID == uuid.Nil || !isInitialized {
		effectiveID = r.publicUserID
	}

	permissions, err := r.permissionStore.GetByUserID(ctx, effectiveID)
	if err != nil {
		r.logger.Error("Permission resolver: failed to get permissions",
			"user_id", effectiveID,
			"error", err.Error())
		return nil, fmt.Errorf("failed to get permissions for user: %w", err)
	}

	set := make(model.PermissionSet, len(permissions))
	for _, permission := range permissions {
		set.Add(permission.Name)
	}

	r.logger.Debug("Permission resolver: permissions resolved",
		"user_id", effectiveID,
		"count", len(set))

	return set, nil
}
