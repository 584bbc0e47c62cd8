package repositories

import (
	"context"
	"errors"
	"fmt"

	"dungeondesk/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCharacterRepository is a GORM implementation of CharacterRepository.
type GORMCharacterRepository struct {
	db *gorm.DB
}

// NewGORMCharacterRepository creates a new instance of GORMCharacterRepository.
func NewGORMCharacterRepository(db *gorm.DB) *GORMCharacterRepository {
	return &GORMCharacterRepository{db: db}
}

func (r *GORMCharacterRepository) Create(ctx context.Context, character *models.Character) error {
	if character.ID == "" {
		character.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(character).Error; err != nil {
		return fmt.Errorf("failed to create character: %w", err)
	}
	return nil
}

func (r *GORMCharacterRepository) ListByUser(ctx context.Context, userID string) ([]models.Character, error) {
	var characters []models.Character
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&characters).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	return characters, nil
}

// GetOwned fetches a character by id and owner in one predicate.
func (r *GORMCharacterRepository) GetOwned(ctx context.Context, id, userID string) (*models.Character, error) {
	var character models.Character
	err := r.db.WithContext(ctx).First(&character, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get character: %w", err)
	}
	return &character, nil
}

// UpdateOwned writes the mutable fields of a character, filtered by id and
// owner in one predicate. Zero rows affected reports ErrNotFound.
func (r *GORMCharacterRepository) UpdateOwned(ctx context.Context, character *models.Character) error {
	res := r.db.WithContext(ctx).
		Model(&models.Character{}).
		Where("id = ? AND user_id = ?", character.ID, character.UserID).
		Updates(map[string]any{
			"name":  character.Name,
			"race":  character.Race,
			"class": character.Class,
			"level": character.Level,
			"data":  character.Data,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update character: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOwned deletes a character by id and owner in one predicate.
func (r *GORMCharacterRepository) DeleteOwned(ctx context.Context, id, userID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Character{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete character: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
