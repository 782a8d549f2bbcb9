package service

import (
	"context"
	"errors"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ciptypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"

	"github.com/opaldesk/accounts-backend/config"
	"github.com/opaldesk/accounts-backend/internal/types"
)

// cognitoAPI is the slice of the Cognito client the service uses.
type cognitoAPI interface {
	AdminDeleteUser(ctx context.Context, params *cip.AdminDeleteUserInput, optFns ...func(*cip.Options)) (*cip.AdminDeleteUserOutput, error)
	AdminUpdateUserAttributes(ctx context.Context, params *cip.AdminUpdateUserAttributesInput, optFns ...func(*cip.Options)) (*cip.AdminUpdateUserAttributesOutput, error)
	AdminGetUser(ctx context.Context, params *cip.AdminGetUserInput, optFns ...func(*cip.Options)) (*cip.AdminGetUserOutput, error)
	ForgotPassword(ctx context.Context, params *cip.ForgotPasswordInput, optFns ...func(*cip.Options)) (*cip.ForgotPasswordOutput, error)
	ConfirmForgotPassword(ctx context.Context, params *cip.ConfirmForgotPasswordInput, optFns ...func(*cip.Options)) (*cip.ConfirmForgotPasswordOutput, error)
}

// CognitoService performs administrative operations against the user
// pool holding the authoritative login records.
type CognitoService struct {
	client     cognitoAPI
	userPoolID string
	clientID   string
}

// Ensure CognitoService implements IdentityAdmin
var _ IdentityAdmin = (*CognitoService)(nil)

// NewCognitoService creates a CognitoService from the Cognito configuration.
func NewCognitoService(cfg *config.CognitoConfig) *CognitoService {
	return &CognitoService{
		client:     cfg.Client,
		userPoolID: cfg.UserPoolID,
		clientID:   cfg.ClientID,
	}
}

// DeleteUser removes the identity-provider record for userID. A user that
// is already absent counts as success so the call is idempotent.
func (s *CognitoService) DeleteUser(ctx context.Context, userID string) error {
	_, err := s.client.AdminDeleteUser(ctx, &cip.AdminDeleteUserInput{
		UserPoolId: aws.String(s.userPoolID),
		Username:   aws.String(userID),
	})
	if err != nil {
		var notFound *ciptypes.UserNotFoundException
		if errors.As(err, &notFound) {
			log.Printf("[CognitoService] User not found (already deleted): %s", userID)
			return nil
		}
		return upstreamError("failed to delete user from identity provider", err)
	}
	log.Printf("[CognitoService] Deleted user: %s", userID)
	return nil
}

// UpdateAttribute sets a single user attribute.
func (s *CognitoService) UpdateAttribute(ctx context.Context, userID, name, value string) error {
	_, err := s.client.AdminUpdateUserAttributes(ctx, &cip.AdminUpdateUserAttributesInput{
		UserPoolId: aws.String(s.userPoolID),
		Username:   aws.String(userID),
		UserAttributes: []ciptypes.AttributeType{
			{Name: aws.String(name), Value: aws.String(value)},
		},
	})
	if err != nil {
		return upstreamError("failed to update user attribute", err)
	}
	return nil
}

// InitiatePasswordReset sends a reset code to the user's email.
func (s *CognitoService) InitiatePasswordReset(ctx context.Context, email string) error {
	_, err := s.client.ForgotPassword(ctx, &cip.ForgotPasswordInput{
		ClientId: aws.String(s.clientID),
		Username: aws.String(email),
	})
	if err != nil {
		return upstreamError("failed to initiate password reset", err)
	}
	return nil
}

// ConfirmPasswordReset completes a reset with the emailed code. The
// password policy is checked locally first so a bad password never
// reaches the provider.
func (s *CognitoService) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	_, err := s.client.ConfirmForgotPassword(ctx, &cip.ConfirmForgotPasswordInput{
		ClientId:         aws.String(s.clientID),
		Username:         aws.String(email),
		ConfirmationCode: aws.String(code),
		Password:         aws.String(newPassword),
	})
	if err != nil {
		var mismatch *ciptypes.CodeMismatchException
		var expired *ciptypes.ExpiredCodeException
		if errors.As(err, &mismatch) || errors.As(err, &expired) {
			return ErrInvalidResetCode
		}
		return upstreamError("failed to confirm password reset", err)
	}
	return nil
}

// GetUser fetches the identity-provider record for userID.
func (s *CognitoService) GetUser(ctx context.Context, userID string) (*types.IdentityRecord, error) {
	out, err := s.client.AdminGetUser(ctx, &cip.AdminGetUserInput{
		UserPoolId: aws.String(s.userPoolID),
		Username:   aws.String(userID),
	})
	if err != nil {
		var notFound *ciptypes.UserNotFoundException
		if errors.As(err, &notFound) {
			return nil, ErrUserNotFound
		}
		return nil, upstreamError("failed to get user from identity provider", err)
	}

	attrs := make(map[string]string, len(out.UserAttributes))
	for _, a := range out.UserAttributes {
		if a.Name != nil && a.Value != nil {
			attrs[*a.Name] = *a.Value
		}
	}

	return &types.IdentityRecord{
		Username:   aws.ToString(out.Username),
		UserStatus: string(out.UserStatus),
		Enabled:    out.Enabled,
		Attributes: attrs,
	}, nil
}
