package model

import (
	"context"

	"github.com/google/uuid"
)

// PermissionStore defines persistence operations for permissions.
type PermissionStore interface {
	// GetByUserID returns every permission reachable through the roles
	// assigned to the user. A user with no roles yields an empty slice.
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]Permission, error)
}

// Permission represents a named capability granted through a role.
type Permission struct {
	ID   uuid.UUID
	Name string
}

// PermissionSet is a set of permission names. A permission granted
// through several roles appears once.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from the given names.
func NewPermissionSet(names ...string) PermissionSet {
	set := make(PermissionSet, len(names))
	for _, name := range names {
		set.Add(name)
	}
	return set
}

// Add inserts a permission name into the set.
func (s PermissionSet) Add(name string) {
	s[name] = struct{}{}
}

// Has reports whether the set contains the named permission.
func (s PermissionSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the permission names in unspecified order.
func (s PermissionSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	return names
}
