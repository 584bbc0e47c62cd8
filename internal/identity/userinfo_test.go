package identity_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dungeondesk/internal/identity"

	"github.com/stretchr/testify/assert"
)

func TestUserinfoFetcher_FetchEmail(t *testing.T) {
	t.Run("returns the profile email and forwards the bearer token", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"sub":"auth0|abc","email":"frodo@shire.me"}`))
		}))
		defer server.Close()

		fetcher := identity.NewUserinfoFetcher(server.URL, time.Second)
		email, err := fetcher.FetchEmail(context.Background(), "raw-token")
		assert.NoError(t, err)
		assert.Equal(t, "frodo@shire.me", email)
		assert.Equal(t, "Bearer raw-token", gotAuth)
	})

	t.Run("non-success status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		fetcher := identity.NewUserinfoFetcher(server.URL, time.Second)
		_, err := fetcher.FetchEmail(context.Background(), "raw-token")
		assert.Error(t, err)
	})

	t.Run("malformed body is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		fetcher := identity.NewUserinfoFetcher(server.URL, time.Second)
		_, err := fetcher.FetchEmail(context.Background(), "raw-token")
		assert.Error(t, err)
	})

	t.Run("profile without an email is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"sub":"auth0|abc"}`))
		}))
		defer server.Close()

		fetcher := identity.NewUserinfoFetcher(server.URL, time.Second)
		_, err := fetcher.FetchEmail(context.Background(), "raw-token")
		assert.Error(t, err)
	})

	t.Run("slow provider is cut off by the client timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		fetcher := identity.NewUserinfoFetcher(server.URL, 50*time.Millisecond)
		_, err := fetcher.FetchEmail(context.Background(), "raw-token")
		assert.Error(t, err)
	})
}
