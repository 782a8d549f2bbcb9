package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/opaldesk/accounts-backend/internal/types"
)

// MockUserService is a testify mock of service.IUserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetProfile(ctx context.Context, userID string) (*types.FullUserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FullUserProfile), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, req *types.UpdateProfileRequest) (*types.FullUserProfile, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FullUserProfile), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, userID, email, nickname string) (*types.FullUserProfile, error) {
	args := m.Called(ctx, userID, email, nickname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FullUserProfile), args.Error(1)
}

func (m *MockUserService) EnsureUser(ctx context.Context, identity *types.Identity) (*types.FullUserProfile, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FullUserProfile), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserService) CheckNicknameAvailability(ctx context.Context, nickname, excludeUserID string) (bool, error) {
	args := m.Called(ctx, nickname, excludeUserID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) UpdateLastLogin(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserService) UploadProfileImage(ctx context.Context, userID string, data []byte, contentType, filename string) (*types.UploadImageResult, error) {
	args := m.Called(ctx, userID, data, contentType, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.UploadImageResult), args.Error(1)
}

func (m *MockUserService) DeleteProfileImage(ctx context.Context, userID string) (*types.FullUserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.FullUserProfile), args.Error(1)
}

// MockIdentityAdmin is a testify mock of service.IdentityAdmin.
type MockIdentityAdmin struct {
	mock.Mock
}

func (m *MockIdentityAdmin) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockIdentityAdmin) UpdateAttribute(ctx context.Context, userID, name, value string) error {
	args := m.Called(ctx, userID, name, value)
	return args.Error(0)
}

func (m *MockIdentityAdmin) InitiatePasswordReset(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockIdentityAdmin) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	args := m.Called(ctx, email, code, newPassword)
	return args.Error(0)
}

func (m *MockIdentityAdmin) GetUser(ctx context.Context, userID string) (*types.IdentityRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.IdentityRecord), args.Error(1)
}

// MockObjectStore is a testify mock of service.ObjectStore.
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) Delete(ctx context.Context, objectURL string) error {
	args := m.Called(ctx, objectURL)
	return args.Error(0)
}

func (m *MockObjectStore) DeletePrefix(ctx context.Context, prefix string) error {
	args := m.Called(ctx, prefix)
	return args.Error(0)
}
