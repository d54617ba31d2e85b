package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/Domenick1991/dirabasi/internal/auth"
	"github.com/Domenick1991/dirabasi/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Login(ctx context.Context, in auth.LoginInput) (auth.LoginResult, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(auth.LoginResult), args.Error(1)
}

func (m *MockAuthUseCase) Logout(ctx context.Context, sid string) error {
	args := m.Called(ctx, sid)
	return args.Error(0)
}

func TestSessionHandler_login(t *testing.T) {
	mockService := &MockAuthUseCase{}
	handler := NewSessionHandler(mockService)

	in := auth.LoginInput{Name: "Asha", Email: "asha@example.com", Role: domain.RoleTraveler}
	c, w := newDashboardContext("POST", "/api/sessions", in)
	res := auth.LoginResult{
		Token:     "token",
		ExpiresAt: fixedNow.Add(12 * time.Hour),
		User:      domain.User{Name: "Asha", Email: "asha@example.com", Role: domain.RoleTraveler},
		Path:      "/dashboard/choose-route",
	}
	mockService.On("Login", c.Request.Context(), in).Return(res, nil)

	handler.login(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp auth.LoginResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "token", resp.Token)
	assert.Equal(t, "/dashboard/choose-route", resp.Path)
}

func TestSessionHandler_login_Inactive(t *testing.T) {
	mockService := &MockAuthUseCase{}
	handler := NewSessionHandler(mockService)

	in := auth.LoginInput{Email: "old@example.com"}
	c, w := newDashboardContext("POST", "/api/sessions", in)
	mockService.On("Login", c.Request.Context(), in).
		Return(auth.LoginResult{}, domain.ConflictError{Resource: "user", Msg: "account is inactive"})

	handler.login(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSessionHandler_logout(t *testing.T) {
	mockService := &MockAuthUseCase{}
	handler := NewSessionHandler(mockService)

	c, w := newDashboardContext("POST", "/api/sessions/logout", gin.H{})
	mockService.On("Logout", c.Request.Context(), "sid-1").Return(nil)

	handler.logout(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/login")
	mockService.AssertExpectations(t)
}
