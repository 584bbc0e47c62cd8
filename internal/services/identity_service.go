package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"dungeondesk/internal/apperrors"
	"dungeondesk/internal/identity"
	"dungeondesk/internal/models"
	"dungeondesk/internal/repositories"
	"dungeondesk/pkg/rabbitmq"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdentityService maps a verified external identity to exactly one local
// user record, creating or linking as needed. Inputs are already verified
// by a TokenVerifier; this service never inspects token signatures.
type IdentityService struct {
	userRepo repositories.UserRepository
	profile  identity.ProfileFetcher
	events   rabbitmq.Publisher
}

// NewIdentityService creates a new IdentityService. profile and events may
// be nil; without a profile fetcher, email enrichment is skipped.
func NewIdentityService(userRepo repositories.UserRepository, profile identity.ProfileFetcher, events rabbitmq.Publisher) *IdentityService {
	return &IdentityService{
		userRepo: userRepo,
		profile:  profile,
		events:   events,
	}
}

// Resolve returns the local user for a verified external identity.
//
// Fast path: a user already linked to the subject. Otherwise an email is
// resolved from the claims or from the provider's profile endpoint, then
// an existing user with that email is linked, or a new user is provisioned.
// Repeated calls with the same subject are idempotent after the first
// link or creation.
func (s *IdentityService) Resolve(ctx context.Context, ext identity.ExternalIdentity, rawToken string) (*models.User, error) {
	if ext.Subject == "" {
		return nil, apperrors.NewAuthentication("No user ID in token")
	}

	user, err := s.userRepo.GetByExternalID(ctx, ext.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NewInternal(err)
	}

	email := s.resolveEmail(ctx, ext, rawToken)
	if email == "" {
		return nil, apperrors.NewAuthentication("User not registered in database. Email required.")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return s.link(ctx, existing, ext.Subject)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NewInternal(err)
	}

	return s.provision(ctx, ext.Subject, email)
}

// resolveEmail prefers the verified email claim and falls back to one
// profile-endpoint call. Fetch failures degrade to "no email obtained"
// rather than failing the request.
func (s *IdentityService) resolveEmail(ctx context.Context, ext identity.ExternalIdentity, rawToken string) string {
	if ext.Email != "" {
		return strings.ToLower(ext.Email)
	}
	if s.profile == nil {
		return ""
	}
	email, err := s.profile.FetchEmail(ctx, rawToken)
	if err != nil {
		log.Printf("userinfo enrichment failed: %v", err)
		return ""
	}
	return strings.ToLower(email)
}

// link attaches the external subject to an existing local user. This is
// the one-time crossover for credential users logging in via the provider;
// later calls take the fast path.
func (s *IdentityService) link(ctx context.Context, user *models.User, subject string) (*models.User, error) {
	if err := s.userRepo.LinkExternalID(ctx, user.ID, subject); err != nil {
		return nil, apperrors.NewInternal(err)
	}
	user.ExternalID = &subject
	s.publish(rabbitmq.EventUserLinked, user)
	return user, nil
}

// provision creates a new passwordless user for a never-seen identity.
// When a concurrent first login wins the insert, the unique index fires
// and we re-resolve to the winner's record instead of failing the login.
func (s *IdentityService) provision(ctx context.Context, subject, email string) (*models.User, error) {
	user := &models.User{
		Username:   usernameFromEmail(email),
		Email:      email,
		ExternalID: &subject,
	}
	err := s.userRepo.Create(ctx, user)
	if err == nil {
		s.publish(rabbitmq.EventUserProvisioned, user)
		return user, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperrors.NewInternal(err)
	}

	if winner, rerr := s.userRepo.GetByExternalID(ctx, subject); rerr == nil {
		return winner, nil
	}
	if existing, rerr := s.userRepo.GetByEmail(ctx, email); rerr == nil {
		if existing.ExternalID == nil {
			return s.link(ctx, existing, subject)
		}
		return existing, nil
	}

	// Neither the subject nor the email exists, so the collision was on
	// the generated username. Retry once with a suffixed username.
	user.Username = usernameFromEmail(email) + "-" + uuid.New().String()[:8]
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.NewInternal(err)
	}
	s.publish(rabbitmq.EventUserProvisioned, user)
	return user, nil
}

// usernameFromEmail derives a username from the email's local part. The
// result never contains "@"; a degenerate local part falls back to a
// generic name and the duplicate-key retry adds a suffix if needed.
func usernameFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return "user"
	}
	return local
}

func (s *IdentityService) publish(kind string, user *models.User) {
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
