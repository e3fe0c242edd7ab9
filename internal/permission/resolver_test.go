package permission

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mtorp/overlook-framework/internal/mocks"
	"github.com/mtorp/overlook-framework/internal/model"
	"github.com/mtorp/overlook-framework/internal/testutil"
)

func TestResolver_Resolve_InitializedUser(t *testing.T) {
	ctx := context.Background()
	publicID := uuid.New()
	userID := uuid.New()
	permStore := &mocks.PermissionStore{}

	permStore.On("GetByUserID", mock.Anything, userID).Return([]model.Permission{
		{ID: uuid.New(), Name: "read"},
		{ID: uuid.New(), Name: "write"},
	}, nil)

	r := NewResolver(permStore, publicID, testutil.MakeNoopLogger())

	set, err := r.Resolve(ctx, userID, true)
	require.NoError(t, err)
	assert.True(t, set.Has("read"))
	assert.True(t, set.Has("write"))
	assert.False(t, set.Has("admin"))
}

func TestResolver_Resolve_AnonymousFallsBackToPublic(t *testing.T) {
	ctx := context.Background()
	publicID := uuid.New()
	permStore := &mocks.PermissionStore{}

	permStore.On("GetByUserID", mock.Anything, publicID).Return([]model.Permission{
		{ID: uuid.New(), Name: "view-public"},
	}, nil)

	r := NewResolver(permStore, publicID, testutil.MakeNoopLogger())

	set, err := r.Resolve(ctx, uuid.Nil, false)
	require.NoError(t, err)
	assert.True(t, set.Has("view-public"))
}

func TestResolver_Resolve_UninitializedUserFallsBackToPublic(t *testing.T) {
	ctx := context.Background()
	publicID := uuid.New()
	userID := uuid.New()
	permStore := &mocks.PermissionStore{}

	permStore.On("GetByUserID", mock.Anything, publicID).Return([]model.Permission{
		{ID: uuid.New(), Name: "view-public"},
	}, nil)

	r := NewResolver(permStore, publicID, testutil.MakeNoopLogger())

	set, err := r.Resolve(ctx, userID, false)
	require.NoError(t, err)
	assert.True(t, set.Has("view-public"))
	permStore.AssertNotCalled(t, "GetByUserID", mock.Anything, userID)
}

func TestResolver_Resolve_DuplicatesCollapse(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	permStore := &mocks.PermissionStore{}

	// Two roles both granting "read".
	permStore.On("GetByUserID", mock.Anything, userID).Return([]model.Permission{
		{ID: uuid.New(), Name: "read"},
		{ID: uuid.New(), Name: "read"},
	}, nil)

	r := NewResolver(permStore, uuid.New(), testutil.MakeNoopLogger())

	set, err := r.Resolve(ctx, userID, true)
	require.NoError(t, err)
	assert.Len(t, set.Names(), 1)
	assert.True(t, set.Has("read"))
}

func TestResolver_Resolve_NoRolesYieldsEmptySet(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	permStore := &mocks.PermissionStore{}

	permStore.On("GetByUserID", mock.Anything, userID).Return([]model.Permission{}, nil)

	r := NewResolver(permStore, uuid.New(), testutil.MakeNoopLogger())

	set, err := r.Resolve(ctx, userID, true)
	require.NoError(t, err)
	assert.NotNil(t, set)
	assert.Empty(t, set.Names())
}

func TestResolver_Resolve_StoreErrorPropagates(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	permStore := &mocks.PermissionStore{}

	permStore.On("GetByUserID", mock.Anything, userID).Return(nil, errors.New("connection refused"))

	r := NewResolver(permStore, uuid.New(), testutil.MakeNoopLogger())

	set, err := r.Resolve(ctx, userID, true)
	require.Error(t, err)
	assert.Nil(t, set)
}
