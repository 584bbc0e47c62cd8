package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// emailClaimNamespace is the custom claim the frontend's Auth0 rule uses to
// surface the account email on access tokens.
const emailClaimNamespace = "https://dungeon-desk.com/email"

// Auth0Verifier validates RS256 bearer tokens against the tenant's JWKS,
// enforcing audience and issuer.
type Auth0Verifier struct {
	keys     keyfunc.Keyfunc
	audience string
	issuer   string
}

// NewAuth0Verifier builds a verifier for the given tenant. The JWKS is
// fetched from the issuer's well-known endpoint and refreshed in the
// background by keyfunc.
func NewAuth0Verifier(audience, issuer string) (*Auth0Verifier, error) {
	if audience == "" || issuer == "" {
		return nil, fmt.Errorf("auth0 audience and issuer are required")
	}
	jwksURL := strings.TrimSuffix(issuer, "/") + "/.well-known/jwks.json"
	keys, err := keyfunc.NewDefault([]string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS from %s: %w", jwksURL, err)
	}
	return &Auth0Verifier{keys: keys, audience: audience, issuer: issuer}, nil
}

// Verify checks the token's signature, audience, issuer and expiry, and
// returns the subject plus any email claim present.
func (v *Auth0Verifier) Verify(_ context.Context, rawToken string) (ExternalIdentity, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(rawToken, claims, v.keys.Keyfunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(v.audience),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return ExternalIdentity{}, fmt.Errorf("token verification failed: %w", err)
	}

	id := ExternalIdentity{}
	if sub, ok := claims["sub"].(string); ok {
		id.Subject = sub
	}
	if email, ok := claims[emailClaimNamespace].(string); ok && email != "" {
		id.Email = email
	} else if email, ok := claims["email"].(string); ok {
		id.Email = email
	}
	return id, nil
}
