package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPermissionSet_Membership(t *testing.T) {
	set := NewPermissionSet("read", "write")

	assert.True(t, set.Has("read"))
	assert.True(t, set.Has("write"))
	assert.False(t, set.Has("admin"))
}

func TestPermissionSet_DuplicatesCollapse(t *testing.T) {
	set := NewPermissionSet("read", "read", "read")

	assert.Len(t, set.Names(), 1)
	assert.True(t, set.Has("read"))
}

func TestPermissionSet_Empty(t *testing.T) {
	set := NewPermissionSet()

	assert.NotNil(t, set)
	assert.Empty(t, set.Names())
	assert.False(t, set.Has("anything"))
}

func TestIdentity_IsAnonymous(t *testing.T) {
	assert.True(t, Identity{}.IsAnonymous())
	assert.False(t, Identity{ID: uuid.New()}.IsAnonymous())

	// A timed-out hint does not make the identity any less anonymous.
	assert.True(t, Identity{TimedOutID: uuid.New()}.IsAnonymous())
}

func TestIdentity_Can(t *testing.T) {
	identity := Identity{Permissions: NewPermissionSet("read")}

	assert.True(t, identity.Can("read"))
	assert.False(t, identity.Can("write"))
}
