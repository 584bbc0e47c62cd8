package repositories

import (
	"context"

	"dungeondesk/internal/models"
)

// CharacterRepository defines the interface for character data access.
// All operations except Create are scoped to an owning user.
type CharacterRepository interface {
	Create(ctx context.Context, character *models.Character) error
	ListByUser(ctx context.Context, userID string) ([]models.Character, error)
	GetOwned(ctx context.Context, id, userID string) (*models.Character, error)
	UpdateOwned(ctx context.Context, character *models.Character) error
	DeleteOwned(ctx context.Context, id, userID string) error
}
