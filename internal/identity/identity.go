// Package identity adapts the external identity provider: bearer token
// verification against its signing keys and the userinfo profile endpoint.
package identity

import "context"

// ExternalIdentity is the verified claim set handed to reconciliation.
// It carries facts only: the provider's subject identifier and, when the
// token included one, an email claim.
type ExternalIdentity struct {
	Subject string
	Email   string
}

// TokenVerifier checks a bearer token's signature, audience and issuer and
// returns the verified claims.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (ExternalIdentity, error)
}

// ProfileFetcher retrieves the account email from the provider's profile
// endpoint, authenticated by forwarding the caller's bearer token.
type ProfileFetcher interface {
	FetchEmail(ctx context.Context, rawToken string) (string, error)
}
