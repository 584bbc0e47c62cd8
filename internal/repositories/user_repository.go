package repositories

import (
	"context"

	"dungeondesk/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)
	// LinkExternalID sets the external subject on an existing user record.
	LinkExternalID(ctx context.Context, userID, externalID string) error
}
