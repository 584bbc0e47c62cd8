package services_test

import (
	"context"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"dungeondesk/internal/apperrors"
	"dungeondesk/internal/models"
	"dungeondesk/internal/repositories"
	"dungeondesk/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MockUserRepository is a mock implementation of repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if user.ID == "" {
		user.ID = "generated-id"
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) LinkExternalID(ctx context.Context, userID, externalID string) error {
	args := m.Called(ctx, userID, externalID)
	return args.Error(0)
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

const testJWTSecret = "test_jwt_secret"

func newAuthService(repo repositories.UserRepository) *services.AuthService {
	return services.NewAuthService(repo, nil, testJWTSecret, time.Hour, bcrypt.MinCost)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success stores a hash, not the plaintext", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := newAuthService(mockRepo)

		mockRepo.On("GetByUsername", mock.Anything, "frodo").Return(nil, repositories.ErrNotFound).Once()
		mockRepo.On("GetByEmail", mock.Anything, "frodo@shire.me").Return(nil, repositories.ErrNotFound).Once()
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil).Once()

		userID, err := authService.Register(ctx, "frodo", "Frodo@Shire.me", "precious123")
		assert.NoError(t, err)
		assert.NotEmpty(t, userID)

		created := mockRepo.Calls[2].Arguments.Get(1).(*models.User)
		assert.Equal(t, "frodo@shire.me", created.Email, "email should be stored lowercase")
		assert.True(t, created.HasPassword())
		assert.NotEqual(t, "precious123", *created.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*created.PasswordHash), []byte("precious123")))
		mockRepo.AssertExpectations(t)
	})

	t.Run("username taken", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := newAuthService(mockRepo)

		mockRepo.On("GetByUsername", mock.Anything, "frodo").Return(&models.User{ID: "u1"}, nil).Once()

		_, err := authService.Register(ctx, "frodo", "other@shire.me", "precious123")
		assert.True(t, apperrors.Is(err, apperrors.KindConflict))
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("email taken", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := newAuthService(mockRepo)

		mockRepo.On("GetByUsername", mock.Anything, "samwise").Return(nil, repositories.ErrNotFound).Once()
		mockRepo.On("GetByEmail", mock.Anything, "frodo@shire.me").Return(&models.User{ID: "u1"}, nil).Once()

		_, err := authService.Register(ctx, "samwise", "frodo@shire.me", "precious123")
		assert.True(t, apperrors.Is(err, apperrors.KindConflict))
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unique index race is reported as conflict", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := newAuthService(mockRepo)

		mockRepo.On("GetByUsername", mock.Anything, "frodo").Return(nil, repositories.ErrNotFound).Once()
		mockRepo.On("GetByEmail", mock.Anything, "frodo@shire.me").Return(nil, repositories.ErrNotFound).Once()
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(gorm.ErrDuplicatedKey).Once()

		_, err := authService.Register(ctx, "frodo", "frodo@shire.me", "precious123")
		assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("precious123"), bcrypt.MinCost)
	hashed := string(hash)
	user := &models.User{
		ID:           "user-123",
		Username:     "frodo",
		Email:        "frodo@shire.me",
		PasswordHash: &hashed,
	}

	t.Run("success issues a decodable token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := newAuthService(mockRepo)

		mockRepo.On("GetByEmail", mock.Anything, "frodo@shire.me").Return(user, nil).Once()

		token, public, err := authService.Login(ctx, "frodo@shire.me", "precious123")
		assert.NoError(t, err)
		assert.Equal(t, models.PublicUser{ID: "user-123", Username: "frodo", Email: "frodo@shire.me"}, public)

		claims := jwt.MapClaims{}
		_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
			return []byte(testJWTSecret), nil
		})
		assert.NoError(t, err)
		assert.Equal(t, "user-123", claims["user_id"])
		assert.Equal(t, "frodo", claims["username"])
		exp, _ := claims.GetExpirationTime()
		assert.WithinDuration(t, time.Now().Add(time.Hour), exp.Time, time.Minute)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := newAuthService(mockRepo)

		mockRepo.On("GetByEmail", mock.Anything, "frodo@shire.me").Return(user, nil).Once()
		mockRepo.On("GetByEmail", mock.Anything, "nobody@shire.me").Return(nil, repositories.ErrNotFound).Once()

		_, _, errWrongPassword := authService.Login(ctx, "frodo@shire.me", "wrong")
		_, _, errUnknownEmail := authService.Login(ctx, "nobody@shire.me", "precious123")

		assert.True(t, apperrors.Is(errWrongPassword, apperrors.KindInvalidCredentials))
		assert.True(t, apperrors.Is(errUnknownEmail, apperrors.KindInvalidCredentials))
		assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
	})

	t.Run("federated-only account cannot log in with credentials", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		authService := newAuthService(mockRepo)

		external := "auth0|abc"
		mockRepo.On("GetByEmail", mock.Anything, "sso@shire.me").
			Return(&models.User{ID: "u2", Email: "sso@shire.me", ExternalID: &external}, nil).Once()

		_, _, err := authService.Login(ctx, "sso@shire.me", "anything")
		assert.True(t, apperrors.Is(err, apperrors.KindInvalidCredentials))
	})
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	t.Run("valid token", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id":  "user-123",
			"username": "frodo",
			"exp":      time.Now().Add(time.Hour).Unix(),
			"iat":      time.Now().Unix(),
		})
		signed, err := token.SignedString([]byte(testJWTSecret))
		assert.NoError(t, err)

		claims, err := authService.ValidateToken(signed)
		assert.NoError(t, err)
		assert.Equal(t, "user-123", claims.UserID)
		assert.Equal(t, "frodo", claims.Username)
	})

	t.Run("expired token", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": "user-123",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})
		signed, _ := token.SignedString([]byte(testJWTSecret))

		_, err := authService.ValidateToken(signed)
		assert.True(t, apperrors.Is(err, apperrors.KindAuthentication))
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := authService.ValidateToken("not.a.token")
		assert.True(t, apperrors.Is(err, apperrors.KindAuthentication))
	})
}
