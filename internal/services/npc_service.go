package services

import (
	"context"
	"errors"

	"dungeondesk/internal/apperrors"
	"dungeondesk/internal/models"
	"dungeondesk/internal/repositories"
)

// NpcService handles business logic for NPC management.
type NpcService struct {
	npcRepo repositories.NpcRepository
}

// NewNpcService creates a new NpcService.
func NewNpcService(npcRepo repositories.NpcRepository) *NpcService {
	return &NpcService{npcRepo: npcRepo}
}

// Create persists a new NPC for the given owner.
func (s *NpcService) Create(ctx context.Context, npc *models.Npc) error {
	if err := s.npcRepo.Create(ctx, npc); err != nil {
		return apperrors.NewInternal(err)
	}
	return nil
}

// List returns all NPCs owned by the user, newest first.
func (s *NpcService) List(ctx context.Context, userID string) ([]models.Npc, error) {
	npcs, err := s.npcRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	return npcs, nil
}

// Get returns one NPC owned by the user.
func (s *NpcService) Get(ctx context.Context, id, userID string) (*models.Npc, error) {
	npc, err := s.npcRepo.GetOwned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFound("NPC not found")
		}
		return nil, apperrors.NewInternal(err)
	}
	return npc, nil
}

// Delete removes one NPC owned by the user.
func (s *NpcService) Delete(ctx context.Context, id, userID string) error {
	if err := s.npcRepo.DeleteOwned(ctx, id, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NewNotFound("NPC not found")
		}
		return apperrors.NewInternal(err)
	}
	return nil
}
