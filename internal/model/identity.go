package model

import "github.com/google/uuid"

// Identity is the request-scoped outcome of credential resolution.
// It is never persisted. An anonymous identity has a Nil ID and
// carries the public user's permissions; Permissions is always
// non-nil once the identity has been resolved.
type Identity struct {
	ID            uuid.UUID
	Name          string
	IsInitialized bool

	// TimedOutID holds the user id of a session cookie that was
	// present but expired, for "please log in again" messaging. It
	// never grants any access.
	TimedOutID uuid.UUID

	Permissions PermissionSet
}

// IsAnonymous reports whether the identity resolved to the public user.
func (i Identity) IsAnonymous() bool {
	return i.ID == uuid.Nil
}

// Can reports whether the identity holds the named permission.
func (i Identity) Can(permission string) bool {
	return i.Permissions.Has(permission)
}
