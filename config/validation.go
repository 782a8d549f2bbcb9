package config

import (
	"fmt"
)

// ValidateConfig checks that the settings the server cannot run without
// are present and coherent.
func ValidateConfig(cfg *Config) error {
	if cfg.ServerPort == "" {
		return fmt.Errorf("server port is required")
	}
	if cfg.DBHost == "" || cfg.DBPort == "" || cfg.DBUser == "" || cfg.DBName == "" {
		return fmt.Errorf("database host, port, user and name are required")
	}
	if cfg.JWKSCacheTTL <= 0 {
		return fmt.Errorf("JWKS cache TTL must be positive")
	}

	// The identity provider settings are only enforced in production;
	// local runs may point JWKS_ENDPOINT at a stub instead.
	if IsProduction() {
		if cfg.CognitoUserPoolID == "" || cfg.CognitoClientID == "" {
			return fmt.Errorf("identity provider configuration missing: AWS_USER_POOL_ID or AWS_CLIENT_ID not set")
		}
		if cfg.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required")
		}
	}

	return nil
}
