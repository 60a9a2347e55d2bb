package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gauravkharai149-boop/voice-roooom/internal/adapters/signal"
	"github.com/gauravkharai149-boop/voice-roooom/internal/app"
	"github.com/gauravkharai149-boop/voice-roooom/internal/auth"
	"github.com/gauravkharai149-boop/voice-roooom/internal/config"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Mode:        "release",
		StaticPath:  t.TempDir(),
		ReadLimit:   1 << 16,
		PingPeriod:  time.Minute,
		RoomGrace:   time.Minute,
		ChatLimit:   10,
		ChatWindow:  time.Second,
		Secret:      "test-secret",
		StunServers: []string{"stun:stun.l.google.com:19302"},
	}
	manager := app.NewManager(cfg.RoomGrace)
	ctl := signal.NewController(cfg, manager, app.NewRelay(manager))
	return SetupRouter(context.Background(), cfg, ctl, auth.NewService(nil))
}

func TestRouter_RoomsEmpty(t *testing.T) {
	req := require.New(t)
	r := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rooms", nil))

	req.Equal(http.StatusOK, w.Code)
	var rooms []any
	req.NoError(json.Unmarshal(w.Body.Bytes(), &rooms))
	req.Empty(rooms)
}

func TestRouter_IceServers(t *testing.T) {
	req := require.New(t)
	r := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ice", nil))

	req.Equal(http.StatusOK, w.Code)
	var body struct {
		IceServers []struct {
			URLs []string `json:"urls"`
		} `json:"iceServers"`
	}
	req.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	req.Len(body.IceServers, 1)
	req.Equal([]string{"stun:stun.l.google.com:19302"}, body.IceServers[0].URLs)
}

func TestRouter_RegisterThenLogin(t *testing.T) {
	req := require.New(t)
	r := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/register",
		strings.NewReader(`{"email":"ana@example.com","password":"s3cret"}`)))
	req.Equal(http.StatusOK, w.Code)

	// Duplicate registration is a client error
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/register",
		strings.NewReader(`{"email":"ana@example.com","password":"s3cret"}`)))
	req.Equal(http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"email":"ana@example.com","password":"s3cret"}`)))
	req.Equal(http.StatusOK, w.Code)
	var body struct {
		OK    bool   `json:"ok"`
		Token string `json:"token"`
		Email string `json:"email"`
	}
	req.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	req.True(body.OK)
	req.NotEmpty(body.Token)
	req.Equal("ana@example.com", body.Email)
}

func TestRouter_LoginRejectsUnknownUser(t *testing.T) {
	req := require.New(t)
	r := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"email":"ghost@example.com","password":"x"}`)))

	req.Equal(http.StatusUnauthorized, w.Code)
	req.Contains(w.Body.String(), "Invalid credentials")
}

func TestRouter_ClientTokenCookieIssued(t *testing.T) {
	req := require.New(t)
	r := testRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rooms", nil))

	var found bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "ct" && c.Value != "" {
			found = true
		}
	}
	req.True(found)
}
