package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SMARTTRIP_BACK-END/internal/dto"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.register("Ada@Example.com")

	rec := env.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[dto.UserResponse](t, rec)
	assert.Equal(t, userID.String(), me.ID)
	assert.Equal(t, "ada@example.com", me.Email)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = env.do(http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: "ada@example.com", Password: "another1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ADA@example.com", Password: "secret123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[dto.AuthResponse](t, rec)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, userID.String(), login.User.ID)

	rec = env.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ada@example.com", Password: "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPost, "/api/auth/logout", login.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	for name, req := range map[string]dto.RegisterRequest{
		"missing email":  {Password: "secret123"},
		"bad email":      {Email: "not-an-email", Password: "secret123"},
		"short password": {Email: "short@example.com", Password: "123"},
	} {
		t.Run(name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/auth/register", "", req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHealthRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[dto.HealthResponse](t, rec)
	assert.Equal(t, "ready", resp.Status)
	assert.Equal(t, "fixture", resp.DataSource)

	rec = env.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SmartTrip")
}

func TestGoogleLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/auth/google/login", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	env.cfg.GoogleOAuth.ClientID = "client"
	env.cfg.GoogleOAuth.ClientSecret = "secret"
	rec = env.do(http.MethodGet, "/api/auth/google/login", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[dto.GoogleLoginResponse](t, rec)

	u, err := url.Parse(resp.AuthURL)
	require.NoError(t, err)
	assert.Equal(t, resp.State, u.Query().Get("state"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, resp.State, cookies[0].Value)
}

func TestGoogleCallbackRejectsBadRequests(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/auth/google/callback?state=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authorization code is required")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=xyz&state=abc", nil)
	req.AddCookie(&http.Cookie{Name: "smarttrip_oauth_state", Value: "different"})
	rec = httptest.NewRecorder()
	env.h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "OAuth state does not match")
}
