package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// UserinfoFetcher fetches the account email from the provider's /userinfo
// endpoint. The request is bounded by the client timeout so a slow provider
// cannot stall the calling request.
type UserinfoFetcher struct {
	url    string
	client *http.Client
}

// NewUserinfoFetcher builds a fetcher for the given issuer base URL.
func NewUserinfoFetcher(issuer string, timeout time.Duration) *UserinfoFetcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &UserinfoFetcher{
		url:    strings.TrimSuffix(issuer, "/") + "/userinfo",
		client: &http.Client{Timeout: timeout},
	}
}

// FetchEmail forwards the caller's bearer token to /userinfo and returns
// the email from the profile. Any transport failure, non-success status or
// malformed body is an error; the caller decides whether to absorb it.
func (f *UserinfoFetcher) FetchEmail(ctx context.Context, rawToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+rawToken)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var profile struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return "", fmt.Errorf("failed to decode userinfo response: %w", err)
	}
	if profile.Email == "" {
		return "", fmt.Errorf("userinfo response contained no email")
	}
	return profile.Email, nil
}
