package config

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
)

// CognitoConfig holds the identity-provider client and pool identifiers.
type CognitoConfig struct {
	Client     *cognitoidentityprovider.Client
	UserPoolID string
	ClientID   string
}

// NewCognitoConfig initializes the Cognito client from the application
// config, using the default AWS credential chain.
func NewCognitoConfig(ctx context.Context, cfg *Config) (*CognitoConfig, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}

	return &CognitoConfig{
		Client:     cognitoidentityprovider.NewFromConfig(awsCfg),
		UserPoolID: cfg.CognitoUserPoolID,
		ClientID:   cfg.CognitoClientID,
	}, nil
}
