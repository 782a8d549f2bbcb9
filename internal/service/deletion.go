package service

import (
	"context"
	"fmt"
	"log"
)

// Cleanup stage names reported in DeletionResult.
const (
	StageIdentityDelete = "identity_delete"
	StageAssetCleanup   = "asset_cleanup"
)

// CleanupFailure records a swallowed best-effort stage failure so an
// out-of-band reconciliation sweep can find what leaked.
type CleanupFailure struct {
	Stage string `json:"stage"`
	Error string `json:"error"`
}

// DeletionResult is returned when the authoritative store delete
// succeeded. CleanupFailures lists the best-effort stages that leaked.
type DeletionResult struct {
	UserID          string           `json:"userId"`
	CleanupFailures []CleanupFailure `json:"cleanupFailures,omitempty"`
}

// AccountDeletionService runs the ordered multi-system account delete:
// relational store first (mandatory), then identity provider and object
// store (both best-effort). There is no rollback; once the store row is
// gone the account is gone, whatever happens downstream.
type AccountDeletionService struct {
	users    IUserService
	identity IdentityAdmin
	objects  ObjectStore
}

// NewAccountDeletionService creates a new AccountDeletionService instance.
func NewAccountDeletionService(users IUserService, identity IdentityAdmin, objects ObjectStore) *AccountDeletionService {
	return &AccountDeletionService{
		users:    users,
		identity: identity,
		objects:  objects,
	}
}

// DeleteAccount deletes the account across all three systems. A store
// failure aborts before either downstream stage runs; downstream
// failures are logged, recorded on the result, and swallowed.
func (s *AccountDeletionService) DeleteAccount(ctx context.Context, userID string) (*DeletionResult, error) {
	log.Printf("[AccountDeletion] Starting deletion for user: %s", userID)

	// Stage 1: store deletion, the source of truth. Abort on failure.
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		log.Printf("[AccountDeletion] Store deletion failed for %s: %v", userID, err)
		return nil, err
	}

	result := &DeletionResult{UserID: userID}

	// Stage 2: identity provider. Already-absent counts as success.
	if err := s.identity.DeleteUser(ctx, userID); err != nil {
		log.Printf("[AccountDeletion] Identity deletion failed for %s: %v", userID, err)
		result.CleanupFailures = append(result.CleanupFailures, CleanupFailure{
			Stage: StageIdentityDelete,
			Error: err.Error(),
		})
	}

	// Stage 3: object-prefix sweep.
	if err := s.objects.DeletePrefix(ctx, fmt.Sprintf("%s/", userID)); err != nil {
		log.Printf("[AccountDeletion] Asset cleanup failed for %s: %v", userID, err)
		result.CleanupFailures = append(result.CleanupFailures, CleanupFailure{
			Stage: StageAssetCleanup,
			Error: err.Error(),
		})
	}

	log.Printf("[AccountDeletion] Completed deletion for user: %s (%d cleanup failures)", userID, len(result.CleanupFailures))
	return result, nil
}
