package service

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ciptypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCognitoAPI lets each test stub exactly the calls it expects.
type fakeCognitoAPI struct {
	adminDeleteUser           func(*cip.AdminDeleteUserInput) (*cip.AdminDeleteUserOutput, error)
	adminUpdateUserAttributes func(*cip.AdminUpdateUserAttributesInput) (*cip.AdminUpdateUserAttributesOutput, error)
	adminGetUser              func(*cip.AdminGetUserInput) (*cip.AdminGetUserOutput, error)
	forgotPassword            func(*cip.ForgotPasswordInput) (*cip.ForgotPasswordOutput, error)
	confirmForgotPassword     func(*cip.ConfirmForgotPasswordInput) (*cip.ConfirmForgotPasswordOutput, error)
}

func (f *fakeCognitoAPI) AdminDeleteUser(ctx context.Context, params *cip.AdminDeleteUserInput, optFns ...func(*cip.Options)) (*cip.AdminDeleteUserOutput, error) {
	return f.adminDeleteUser(params)
}

func (f *fakeCognitoAPI) AdminUpdateUserAttributes(ctx context.Context, params *cip.AdminUpdateUserAttributesInput, optFns ...func(*cip.Options)) (*cip.AdminUpdateUserAttributesOutput, error) {
	return f.adminUpdateUserAttributes(params)
}

func (f *fakeCognitoAPI) AdminGetUser(ctx context.Context, params *cip.AdminGetUserInput, optFns ...func(*cip.Options)) (*cip.AdminGetUserOutput, error) {
	return f.adminGetUser(params)
}

func (f *fakeCognitoAPI) ForgotPassword(ctx context.Context, params *cip.ForgotPasswordInput, optFns ...func(*cip.Options)) (*cip.ForgotPasswordOutput, error) {
	return f.forgotPassword(params)
}

func (f *fakeCognitoAPI) ConfirmForgotPassword(ctx context.Context, params *cip.ConfirmForgotPasswordInput, optFns ...func(*cip.Options)) (*cip.ConfirmForgotPasswordOutput, error) {
	return f.confirmForgotPassword(params)
}

func newTestCognitoService(api *fakeCognitoAPI) *CognitoService {
	return &CognitoService{client: api, userPoolID: "us-east-1_testpool", clientID: "client123"}
}

func TestCognitoDeleteUser(t *testing.T) {
	var gotUsername, gotPool string
	api := &fakeCognitoAPI{
		adminDeleteUser: func(in *cip.AdminDeleteUserInput) (*cip.AdminDeleteUserOutput, error) {
			gotUsername = aws.ToString(in.Username)
			gotPool = aws.ToString(in.UserPoolId)
			return &cip.AdminDeleteUserOutput{}, nil
		},
	}

	err := newTestCognitoService(api).DeleteUser(context.Background(), "sub-123")
	require.NoError(t, err)
	assert.Equal(t, "sub-123", gotUsername)
	assert.Equal(t, "us-east-1_testpool", gotPool)
}

func TestCognitoDeleteUserAlreadyGone(t *testing.T) {
	api := &fakeCognitoAPI{
		adminDeleteUser: func(*cip.AdminDeleteUserInput) (*cip.AdminDeleteUserOutput, error) {
			return nil, &ciptypes.UserNotFoundException{}
		},
	}

	// Absent users count as deleted.
	err := newTestCognitoService(api).DeleteUser(context.Background(), "sub-123")
	assert.NoError(t, err)
}

func TestCognitoDeleteUserUpstreamFailure(t *testing.T) {
	api := &fakeCognitoAPI{
		adminDeleteUser: func(*cip.AdminDeleteUserInput) (*cip.AdminDeleteUserOutput, error) {
			return nil, errors.New("throttled")
		},
	}

	err := newTestCognitoService(api).DeleteUser(context.Background(), "sub-123")
	assert.Equal(t, KindUpstream, Kind(err))
}

func TestCognitoUpdateAttribute(t *testing.T) {
	var got *cip.AdminUpdateUserAttributesInput
	api := &fakeCognitoAPI{
		adminUpdateUserAttributes: func(in *cip.AdminUpdateUserAttributesInput) (*cip.AdminUpdateUserAttributesOutput, error) {
			got = in
			return &cip.AdminUpdateUserAttributesOutput{}, nil
		},
	}

	err := newTestCognitoService(api).UpdateAttribute(context.Background(), "sub-123", "preferred_username", "newname")
	require.NoError(t, err)
	require.Len(t, got.UserAttributes, 1)
	assert.Equal(t, "preferred_username", aws.ToString(got.UserAttributes[0].Name))
	assert.Equal(t, "newname", aws.ToString(got.UserAttributes[0].Value))
}

func TestCognitoInitiatePasswordReset(t *testing.T) {
	var got *cip.ForgotPasswordInput
	api := &fakeCognitoAPI{
		forgotPassword: func(in *cip.ForgotPasswordInput) (*cip.ForgotPasswordOutput, error) {
			got = in
			return &cip.ForgotPasswordOutput{}, nil
		},
	}

	err := newTestCognitoService(api).InitiatePasswordReset(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", aws.ToString(got.Username))
	assert.Equal(t, "client123", aws.ToString(got.ClientId))
}

func TestCognitoConfirmPasswordReset(t *testing.T) {
	var got *cip.ConfirmForgotPasswordInput
	api := &fakeCognitoAPI{
		confirmForgotPassword: func(in *cip.ConfirmForgotPasswordInput) (*cip.ConfirmForgotPasswordOutput, error) {
			got = in
			return &cip.ConfirmForgotPasswordOutput{}, nil
		},
	}

	err := newTestCognitoService(api).ConfirmPasswordReset(context.Background(), "user@example.com", "123456", "NewPass1!")
	require.NoError(t, err)
	assert.Equal(t, "123456", aws.ToString(got.ConfirmationCode))
	assert.Equal(t, "NewPass1!", aws.ToString(got.Password))
}

func TestCognitoConfirmPasswordResetWeakPassword(t *testing.T) {
	called := false
	api := &fakeCognitoAPI{
		confirmForgotPassword: func(*cip.ConfirmForgotPasswordInput) (*cip.ConfirmForgotPasswordOutput, error) {
			called = true
			return &cip.ConfirmForgotPasswordOutput{}, nil
		},
	}

	// A weak password is rejected before the provider is called.
	err := newTestCognitoService(api).ConfirmPasswordReset(context.Background(), "user@example.com", "123456", "weak")
	assert.ErrorIs(t, err, ErrPasswordPolicy)
	assert.False(t, called)
}

func TestCognitoConfirmPasswordResetBadCode(t *testing.T) {
	api := &fakeCognitoAPI{
		confirmForgotPassword: func(*cip.ConfirmForgotPasswordInput) (*cip.ConfirmForgotPasswordOutput, error) {
			return nil, &ciptypes.CodeMismatchException{}
		},
	}
	err := newTestCognitoService(api).ConfirmPasswordReset(context.Background(), "user@example.com", "000000", "NewPass1!")
	assert.ErrorIs(t, err, ErrInvalidResetCode)

	api.confirmForgotPassword = func(*cip.ConfirmForgotPasswordInput) (*cip.ConfirmForgotPasswordOutput, error) {
		return nil, &ciptypes.ExpiredCodeException{}
	}
	err = newTestCognitoService(api).ConfirmPasswordReset(context.Background(), "user@example.com", "123456", "NewPass1!")
	assert.ErrorIs(t, err, ErrInvalidResetCode)
}

func TestCognitoGetUser(t *testing.T) {
	api := &fakeCognitoAPI{
		adminGetUser: func(in *cip.AdminGetUserInput) (*cip.AdminGetUserOutput, error) {
			return &cip.AdminGetUserOutput{
				Username:   aws.String("sub-123"),
				UserStatus: ciptypes.UserStatusTypeConfirmed,
				Enabled:    true,
				UserAttributes: []ciptypes.AttributeType{
					{Name: aws.String("email"), Value: aws.String("user@example.com")},
				},
			}, nil
		},
	}

	record, err := newTestCognitoService(api).GetUser(context.Background(), "sub-123")
	require.NoError(t, err)
	assert.Equal(t, "sub-123", record.Username)
	assert.Equal(t, "CONFIRMED", record.UserStatus)
	assert.True(t, record.Enabled)
	assert.Equal(t, "user@example.com", record.Attributes["email"])
}

func TestCognitoGetUserNotFound(t *testing.T) {
	api := &fakeCognitoAPI{
		adminGetUser: func(*cip.AdminGetUserInput) (*cip.AdminGetUserOutput, error) {
			return nil, &ciptypes.UserNotFoundException{}
		},
	}

	_, err := newTestCognitoService(api).GetUser(context.Background(), "sub-123")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
