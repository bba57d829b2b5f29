package google

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/memoboard/memoboard/internal/config"
	"github.com/memoboard/memoboard/internal/test_utils"
	"github.com/memoboard/memoboard/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuth(t *testing.T) *GoogleAuth {
	t.Helper()
	db := test_utils.SetupTestDB(t)
	cfg := config.Application{
		Host: "http://localhost:3000",
		Google: config.Google{
			ClientId:     "client-id",
			ClientSecret: "client-secret",
		},
	}
	return NewGoogleAuth(db, test_utils.TestUserProvider{}, cfg)
}

func TestOAuthLogin(t *testing.T) {
	auth := setupAuth(t)

	req := httptest.NewRequest("GET", "/api/integrations/google/auth/login?finalUrl=/settings", nil)
	w := httptest.NewRecorder()
	auth.OAuthLogin(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body googleAuthRedirect
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Contains(t, body.RedirectUrl, "accounts.google.com")
	assert.Contains(t, body.RedirectUrl, "client-id")

	// a nonce row must exist for the callback to match
	var nonce string
	err := auth.db.QueryRow("SELECT nonce FROM google_calendar_auth WHERE user_id = $1", 123).Scan(&nonce)
	require.NoError(t, err)
	assert.NotEmpty(t, nonce)
}

func TestOAuthCallbackRejectsMalformedState(t *testing.T) {
	auth := setupAuth(t)

	req := httptest.NewRequest("GET", "/api/integrations/google/auth/callback?code=abc&state=no-separator", nil)
	w := httptest.NewRecorder()
	auth.OAuthCallback(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOAuthLogout(t *testing.T) {
	auth := setupAuth(t)
	_, err := auth.db.Exec("INSERT INTO google_calendar_auth (user_id, nonce) VALUES ($1, $2)", 123, "n")
	require.NoError(t, err)

	req := httptest.NewRequest("DELETE", "/api/integrations/google/auth/logout", nil)
	req = req.WithContext(user.WithUser(req.Context(), user.User{Id: 123}))
	w := httptest.NewRecorder()
	auth.OAuthLogout(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	var count int
	require.NoError(t, auth.db.QueryRow("SELECT COUNT(*) FROM google_calendar_auth WHERE user_id = $1", 123).Scan(&count))
	assert.Equal(t, 0, count)
}
