package services_test

import (
	"context"
	"testing"

	"dungeondesk/internal/apperrors"
	"dungeondesk/internal/models"
	"dungeondesk/internal/repositories"
	"dungeondesk/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCharacterRepository is a mock implementation of repositories.CharacterRepository.
type MockCharacterRepository struct {
	mock.Mock
}

func (m *MockCharacterRepository) Create(ctx context.Context, character *models.Character) error {
	args := m.Called(ctx, character)
	return args.Error(0)
}

func (m *MockCharacterRepository) ListByUser(ctx context.Context, userID string) ([]models.Character, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Character), args.Error(1)
}

func (m *MockCharacterRepository) GetOwned(ctx context.Context, id, userID string) (*models.Character, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Character), args.Error(1)
}

func (m *MockCharacterRepository) UpdateOwned(ctx context.Context, character *models.Character) error {
	args := m.Called(ctx, character)
	return args.Error(0)
}

func (m *MockCharacterRepository) DeleteOwned(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func TestCharacterService_Update(t *testing.T) {
	ctx := context.Background()
	character := &models.Character{ID: "c1", Name: "Frodo", Race: "Hobbit", Level: 4, UserID: "u1"}

	t.Run("returns the re-read record", func(t *testing.T) {
		mockRepo := new(MockCharacterRepository)
		svc := services.NewCharacterService(mockRepo)

		stored := &models.Character{ID: "c1", Name: "Frodo", Race: "Hobbit", Level: 4, UserID: "u1"}
		mockRepo.On("UpdateOwned", mock.Anything, character).Return(nil).Once()
		mockRepo.On("GetOwned", mock.Anything, "c1", "u1").Return(stored, nil).Once()

		updated, err := svc.Update(ctx, character)
		assert.NoError(t, err)
		assert.Equal(t, stored, updated)
		mockRepo.AssertExpectations(t)
	})

	t.Run("not owned reports not found", func(t *testing.T) {
		mockRepo := new(MockCharacterRepository)
		svc := services.NewCharacterService(mockRepo)

		mockRepo.On("UpdateOwned", mock.Anything, character).Return(repositories.ErrNotFound).Once()

		_, err := svc.Update(ctx, character)
		assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	})

	t.Run("record deleted between update and read-back is not found", func(t *testing.T) {
		mockRepo := new(MockCharacterRepository)
		svc := services.NewCharacterService(mockRepo)

		mockRepo.On("UpdateOwned", mock.Anything, character).Return(nil).Once()
		mockRepo.On("GetOwned", mock.Anything, "c1", "u1").Return(nil, repositories.ErrNotFound).Once()

		_, err := svc.Update(ctx, character)
		assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
		assert.False(t, apperrors.Is(err, apperrors.KindInternal))
	})
}
