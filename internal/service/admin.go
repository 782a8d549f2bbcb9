package service

import (
	"context"
	"fmt"
	"log"
)

// TaskCognitoDelete is the only administrative task type currently
// supported: stage-2 identity deletion on its own, for out-of-band
// cleanup of accounts whose identity record leaked during deletion.
const TaskCognitoDelete = "cognito_delete"

// AdminTask is the out-of-band remediation request format.
type AdminTask struct {
	QueryType string `json:"queryType"`
	UserID    string `json:"userId"`
}

// AdminResult reports the outcome of an administrative task.
type AdminResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AdminService executes administrative remediation tasks against the
// identity provider.
type AdminService struct {
	identity IdentityAdmin
}

// NewAdminService creates a new AdminService instance.
func NewAdminService(identity IdentityAdmin) *AdminService {
	return &AdminService{identity: identity}
}

// Run executes a task. An identity record that is already absent still
// reports success, so re-running a cleanup is always safe.
func (s *AdminService) Run(ctx context.Context, task AdminTask) (*AdminResult, error) {
	if task.QueryType != TaskCognitoDelete {
		return nil, ErrUnsupportedTaskType
	}
	if task.UserID == "" {
		return nil, validationError("userId is required")
	}

	log.Printf("[AdminService] Running %s for user: %s", task.QueryType, task.UserID)
	if err := s.identity.DeleteUser(ctx, task.UserID); err != nil {
		return nil, err
	}

	return &AdminResult{
		Success: true,
		Message: fmt.Sprintf("User %s deleted from identity provider", task.UserID),
	}, nil
}
