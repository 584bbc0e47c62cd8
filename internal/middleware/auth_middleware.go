// Package middleware contains the request authentication middleware. It is
// the only place authentication happens; downstream handlers read the
// resolved user from the request locals and never validate tokens.
package middleware

import (
	"errors"
	"strings"

	"dungeondesk/internal/apperrors"
	"dungeondesk/internal/identity"
	"dungeondesk/internal/models"
	"dungeondesk/internal/repositories"
	"dungeondesk/internal/services"

	"github.com/gofiber/fiber/v2"
)

const userLocalKey = "current_user"

// AuthRequired authenticates a bearer token via either path: a locally
// issued session token, or a provider token that is verified and then
// reconciled to a local user. The resolved user is attached to the request
// before any resource handler runs.
func AuthRequired(authService *services.AuthService, userRepo repositories.UserRepository, verifier identity.TokenVerifier, identityService *services.IdentityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return apperrors.NewAuthentication("Authorization header is required")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return apperrors.NewAuthentication("Authorization header format must be 'Bearer <token>'")
		}
		rawToken := parts[1]
		ctx := c.UserContext()

		// Local session token first; a provider-issued token fails this
		// cheaply (wrong algorithm or signature) and falls through.
		if claims, err := authService.ValidateToken(rawToken); err == nil {
			user, err := userRepo.GetByID(ctx, claims.UserID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return apperrors.NewAuthentication("Invalid or expired token")
				}
				return apperrors.NewInternal(err)
			}
			c.Locals(userLocalKey, user)
			return c.Next()
		}

		if verifier == nil || identityService == nil {
			return apperrors.NewAuthentication("Invalid or expired token")
		}
		ext, err := verifier.Verify(ctx, rawToken)
		if err != nil {
			return apperrors.NewAuthentication("Invalid or expired token")
		}
		user, err := identityService.Resolve(ctx, ext, rawToken)
		if err != nil {
			return err
		}
		c.Locals(userLocalKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user resolved by AuthRequired for this request.
func CurrentUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(userLocalKey).(*models.User)
	if !ok || user == nil {
		return nil, apperrors.NewAuthentication("Unauthorized")
	}
	return user, nil
}
