package services

import (
	"context"
	"errors"

	"dungeondesk/internal/apperrors"
	"dungeondesk/internal/models"
	"dungeondesk/internal/repositories"
)

// CharacterService handles business logic for player character management.
type CharacterService struct {
	characterRepo repositories.CharacterRepository
}

// NewCharacterService creates a new CharacterService.
func NewCharacterService(characterRepo repositories.CharacterRepository) *CharacterService {
	return &CharacterService{characterRepo: characterRepo}
}

// Create persists a new character for the given owner.
func (s *CharacterService) Create(ctx context.Context, character *models.Character) error {
	if character.Level < 1 {
		character.Level = 1
	}
	if err := s.characterRepo.Create(ctx, character); err != nil {
		return apperrors.NewInternal(err)
	}
	return nil
}

// List returns all characters owned by the user, newest first.
func (s *CharacterService) List(ctx context.Context, userID string) ([]models.Character, error) {
	characters, err := s.characterRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	return characters, nil
}

// Get returns one character owned by the user.
func (s *CharacterService) Get(ctx context.Context, id, userID string) (*models.Character, error) {
	character, err := s.characterRepo.GetOwned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFound("Character not found")
		}
		return nil, apperrors.NewInternal(err)
	}
	return character, nil
}

// Update overwrites the mutable fields of one character owned by the user
// and returns the updated record.
func (s *CharacterService) Update(ctx context.Context, character *models.Character) (*models.Character, error) {
	if character.Level < 1 {
		character.Level = 1
	}
	if err := s.characterRepo.UpdateOwned(ctx, character); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFound("Character not found")
		}
		return nil, apperrors.NewInternal(err)
	}
	updated, err := s.characterRepo.GetOwned(ctx, character.ID, character.UserID)
	if err != nil {
		// A concurrent delete can remove the record between the update
		// and the read-back; that is still a missing record, not a fault.
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFound("Character not found")
		}
		return nil, apperrors.NewInternal(err)
	}
	return updated, nil
}

// Delete removes one character owned by the user.
func (s *CharacterService) Delete(ctx context.Context, id, userID string) error {
	if err := s.characterRepo.DeleteOwned(ctx, id, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NewNotFound("Character not found")
		}
		return apperrors.NewInternal(err)
	}
	return nil
}
