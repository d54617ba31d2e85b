package bootstrap

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/dirabasi/config"
	"github.com/Domenick1991/dirabasi/internal/auth"
	"github.com/Domenick1991/dirabasi/internal/fixtures"
	"github.com/Domenick1991/dirabasi/internal/receipt"
	"github.com/Domenick1991/dirabasi/internal/service/admin"
	"github.com/Domenick1991/dirabasi/internal/service/availability"
	"github.com/Domenick1991/dirabasi/internal/service/booking"
	"github.com/Domenick1991/dirabasi/internal/service/conductor"
	"github.com/Domenick1991/dirabasi/internal/service/payment"
	"github.com/Domenick1991/dirabasi/internal/service/seating"
	"github.com/Domenick1991/dirabasi/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Booking.PaymentDelayMS = 0

	ds, err := fixtures.Canonical()
	require.NoError(t, err)
	store, err := fixtures.New(ds)
	require.NoError(t, err)

	sessions := session.NewManager(session.NewMemoryStore(time.Hour))
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, time.Hour)
	conductorService := conductor.NewConductorService(store, time.Minute)
	t.Cleanup(conductorService.Close)

	return NewRouter(&cfg, Services{
		Auth: auth.NewAuthService(tokens, sessions, store),
		Booking: booking.NewBookingService(
			store,
			sessions,
			availability.NewCalculator(store, cfg.Booking),
			seating.NewPlanner(cfg.Booking),
			payment.NewProcessor(payment.NewSimulatedGateway(0)),
			receipt.NewIssuer(cfg.Booking),
		),
		Conductor: conductorService,
		Admin:     admin.NewAdminService(store),
		Tokens:    tokens,
	})
}

func login(t *testing.T, router *gin.Engine, body string) auth.LoginResult {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res auth.LoginResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func do(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_RequiresToken(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodGet, "/api/dashboard/state", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_RoleSections(t *testing.T) {
	router := newTestRouter(t)
	traveler := login(t, router, `{"name":"Asha","role":"traveler"}`)
	adminUser := login(t, router, `{"email":"john@example.com"}`)

	assert.Equal(t, "/dashboard/choose-route", traveler.Path)
	assert.Equal(t, "/admin", adminUser.Path)

	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/dashboard/routes", traveler.Token).Code)
	assert.Equal(t, http.StatusForbidden, do(router, http.MethodGet, "/api/admin/stats", traveler.Token).Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/admin/stats", adminUser.Token).Code)
	assert.Equal(t, http.StatusForbidden, do(router, http.MethodGet, "/api/dashboard/routes", adminUser.Token).Code)
}

func TestRouter_StationsBeforeRoute(t *testing.T) {
	router := newTestRouter(t)
	traveler := login(t, router, `{"name":"Asha"}`)

	w := do(router, http.MethodGet, "/api/dashboard/stations", traveler.Token)

	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Contains(t, w.Body.String(), "/dashboard/choose-route")
}

func TestRouter_UnknownPath(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodGet, "/api/conductor-board", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"redirect":"/login"`)
}

func TestRouter_OpenAPI(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodGet, "/swagger/openapi.json", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"openapi"`)
}
