package repositories

import (
	"context"

	"dungeondesk/internal/models"
)

// NpcRepository defines the interface for NPC data access. All operations
// except Create are scoped to an owning user.
type NpcRepository interface {
	Create(ctx context.Context, npc *models.Npc) error
	ListByUser(ctx context.Context, userID string) ([]models.Npc, error)
	GetOwned(ctx context.Context, id, userID string) (*models.Npc, error)
	DeleteOwned(ctx context.Context, id, userID string) error
}
