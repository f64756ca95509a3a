package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SMARTTRIP_BACK-END/internal/dto"
	"SMARTTRIP_BACK-END/internal/models"
	"SMARTTRIP_BACK-END/internal/store"
	"SMARTTRIP_BACK-END/internal/utils"
)

func TestWriteStoreError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"not found", store.ErrNotFound, http.StatusNotFound, "Trip not found"},
		{"conflict", store.ErrConflict, http.StatusConflict, "Conflict"},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, "Timeout"},
		{"backend", errors.New("connection refused"), http.StatusInternalServerError, "connection refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeStoreError(rec, httptest.NewRequest(http.MethodGet, "/", nil), "test", tt.err, "Trip not found")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestCancelledRequestIsNotReportedAsSuccess(t *testing.T) {
	h := NewTripsHandler(store.NewMemory(), nil)

	ctx, cancel := context.WithCancel(utils.WithUser(context.Background(), uuid.New(), "ada@example.com"))
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/trips", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ListTrips(rec, req)

	assert.Equal(t, statusClientClosedRequest, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestFrontendRedirect(t *testing.T) {
	user := models.User{ID: uuid.New(), Email: "ada@example.com"}
	info := &dto.GoogleUserInfo{Name: "Ada Lovelace", Verified: true}

	got := frontendRedirect("http://localhost:8081/callback", "tok&en", user, info)
	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "/callback", u.Path)
	assert.Equal(t, "tok&en", u.Query().Get("token"))
	assert.Equal(t, "Ada Lovelace", u.Query().Get("display_name"))
	assert.Equal(t, "true", u.Query().Get("is_verified"))

	got = frontendRedirect("http://localhost:8081/callback?app=web", "t", user, info)
	u, err = url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "web", u.Query().Get("app"))
	assert.Equal(t, "t", u.Query().Get("token"))
}

func TestClockToday(t *testing.T) {
	c := Clock(func() time.Time { return time.Date(2024, 7, 25, 23, 59, 0, 0, time.UTC) })
	assert.Equal(t, time.Date(2024, 7, 25, 0, 0, 0, 0, time.UTC), c.today())
}
