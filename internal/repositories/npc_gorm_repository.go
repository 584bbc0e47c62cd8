package repositories

import (
	"context"
	"errors"
	"fmt"

	"dungeondesk/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMNpcRepository is a GORM implementation of NpcRepository.
type GORMNpcRepository struct {
	db *gorm.DB
}

// NewGORMNpcRepository creates a new instance of GORMNpcRepository.
func NewGORMNpcRepository(db *gorm.DB) *GORMNpcRepository {
	return &GORMNpcRepository{db: db}
}

func (r *GORMNpcRepository) Create(ctx context.Context, npc *models.Npc) error {
	if npc.ID == "" {
		npc.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(npc).Error; err != nil {
		return fmt.Errorf("failed to create npc: %w", err)
	}
	return nil
}

func (r *GORMNpcRepository) ListByUser(ctx context.Context, userID string) ([]models.Npc, error) {
	var npcs []models.Npc
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&npcs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list npcs: %w", err)
	}
	return npcs, nil
}

// GetOwned fetches an NPC by id and owner in one predicate.
func (r *GORMNpcRepository) GetOwned(ctx context.Context, id, userID string) (*models.Npc, error) {
	var npc models.Npc
	err := r.db.WithContext(ctx).First(&npc, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get npc: %w", err)
	}
	return &npc, nil
}

// DeleteOwned deletes an NPC by id and owner in one predicate. Zero rows
// affected means absent or not owned; both report ErrNotFound.
func (r *GORMNpcRepository) DeleteOwned(ctx context.Context, id, userID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Npc{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete npc: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
