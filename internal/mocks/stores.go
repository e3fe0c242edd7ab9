// Package mocks provides testify mocks for the store interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mtorp/overlook-framework/internal/model"
)

// UserStore is a mock implementation of model.UserStore.
type UserStore struct {
	mock.Mock
}

var _ model.UserStore = (*UserStore)(nil)

func (m *UserStore) GetActiveByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetActiveByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) RotateCookieKey(ctx context.Context, id uuid.UUID, cookieKey string) error {
	args := m.Called(ctx, id, cookieKey)
	return args.Error(0)
}

func (m *UserStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash, cookieKey string) error {
	args := m.Called(ctx, id, passwordHash, cookieKey)
	return args.Error(0)
}

// PermissionStore is a mock implementation of model.PermissionStore.
type PermissionStore struct {
	mock.Mock
}

var _ model.PermissionStore = (*PermissionStore)(nil)

func (m *PermissionStore) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.Permission, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Permission), args.Error(1)
}
