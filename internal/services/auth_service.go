package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"dungeondesk/internal/apperrors"
	"dungeondesk/internal/models"
	"dungeondesk/internal/repositories"
	"dungeondesk/pkg/rabbitmq"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles credential registration, login and session tokens.
type AuthService struct {
	userRepo   repositories.UserRepository
	events     rabbitmq.Publisher
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
}

// SessionClaims are the claims carried by a locally issued session token.
type SessionClaims struct {
	UserID   string
	Username string
}

// NewAuthService creates a new AuthService. events may be nil, in which
// case no lifecycle events are published.
func NewAuthService(userRepo repositories.UserRepository, events rabbitmq.Publisher, jwtSecret string, tokenTTL time.Duration, bcryptCost int) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		userRepo:   userRepo,
		events:     events,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new credential user and returns its id. The password
// is stored only as a bcrypt hash.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (string, error) {
	email = strings.ToLower(email)

	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return "", apperrors.NewConflict("User or email already exists")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return "", apperrors.NewInternal(err)
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return "", apperrors.NewConflict("User or email already exists")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return "", apperrors.NewInternal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", apperrors.NewInternal(err)
	}
	hashed := string(hash)

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: &hashed,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration can slip between the pre-checks and
		// the insert; the unique index settles it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", apperrors.NewConflict("User or email already exists")
		}
		return "", apperrors.NewInternal(err)
	}

	s.publish(rabbitmq.EventUserRegistered, user)
	return user.ID, nil
}

// Login authenticates by email and password and issues a session token.
// Unknown email, a federated-only account and a wrong password all produce
// the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.PublicUser, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", models.PublicUser{}, apperrors.NewInvalidCredentials()
		}
		return "", models.PublicUser{}, apperrors.NewInternal(err)
	}

	if !user.HasPassword() {
		return "", models.PublicUser{}, apperrors.NewInvalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return "", models.PublicUser{}, apperrors.NewInvalidCredentials()
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      now.Add(s.tokenTTL).Unix(),
		"iat":      now.Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", models.PublicUser{}, apperrors.NewInternal(err)
	}

	s.publish(rabbitmq.EventUserLoggedIn, user)
	return signed, user.Public(), nil
}

// ValidateToken parses and validates a locally issued session token.
func (s *AuthService) ValidateToken(tokenString string) (SessionClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return SessionClaims{}, apperrors.NewAuthentication("Invalid or expired token")
	}

	userID, _ := claims["user_id"].(string)
	username, _ := claims["username"].(string)
	if userID == "" {
		return SessionClaims{}, apperrors.NewAuthentication("Invalid or expired token")
	}
	return SessionClaims{UserID: userID, Username: username}, nil
}

func (s *AuthService) publish(kind string, user *models.User) {
	if s.events == nil {
		return
	}
	err := s.events.PublishUserEvent(rabbitmq.UserEvent{
		Kind:   kind,
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		log.Printf("failed to publish %s event: %v", kind, err)
	}
}
