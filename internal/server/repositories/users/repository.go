// Package users declares and implements persistence for user accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/artvault/internal/server/models"
)

// Repository stores user accounts. Emails are compared case-insensitively.
type Repository interface {
	// Create inserts user unless an account with the same email exists, in
	// which case it returns common.ErrorAlreadyExists. The check and the
	// insert are one atomic step.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetUserByEmail returns common.ErrorNotFound when no account matches.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns common.ErrorNotFound when no account matches.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
