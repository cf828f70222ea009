package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"inviteflow/internal/delivery/http/helpers"
	"inviteflow/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	registerErr       error
	registerResult    *domain.User
	loginErr          error
	loginPair         *domain.TokenPair
	loginUser         *domain.User
	refreshErr        error
	refreshPair       *domain.TokenPair
	logoutErr         error
	changePasswordErr error
	lastRegisterEmail string
	lastLogoutToken   string
}

func (f *fakeAuthService) Register(ctx context.Context, email, password, name, lastName string) (*domain.User, error) {
	f.lastRegisterEmail = email
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	if f.registerResult != nil {
		return f.registerResult, nil
	}
	return &domain.User{ID: "user-created", Email: email, Name: name, LastName: lastName, Tier: domain.TierFree}, nil
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*domain.TokenPair, *domain.User, error) {
	if f.loginErr != nil {
		return nil, nil, f.loginErr
	}
	return f.loginPair, f.loginUser, nil
}

func (f *fakeAuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.refreshPair, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, refreshToken string) error {
	f.lastLogoutToken = refreshToken
	return f.logoutErr
}

func (f *fakeAuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	return f.changePasswordErr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be a valid JSON envelope")
	return envelope
}

func TestAuthController_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			body:       `{"email":"ana@example.com","password":"longenough","password_confirm":"longenough","name":"Ana","last_name":"Diaz"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:           "duplicate email",
			body:           `{"email":"ana@example.com","password":"longenough","password_confirm":"longenough"}`,
			fakeErr:        domain.ErrDuplicateEmail,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "already registered",
		},
		{
			name:           "passwords do not match",
			body:           `{"email":"ana@example.com","password":"longenough","password_confirm":"different"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "passwords do not match",
		},
		{
			name:           "short password",
			body:           `{"email":"ana@example.com","password":"short","password_confirm":"short"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "at least 8 characters",
		},
		{
			name:           "invalid json",
			body:           `{invalid`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid",
		},
		{
			name:           "unknown field rejected",
			body:           `{"email":"ana@example.com","password":"longenough","password_confirm":"longenough","tier":"premium"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "unknown field",
		},
		{
			name:           "service error",
			body:           `{"email":"ana@example.com","password":"longenough","password_confirm":"longenough"}`,
			fakeErr:        errors.New("db error"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuthService{registerErr: tt.fakeErr}
			ctrl := NewAuthController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/accounts/register", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.Register(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fake       *fakeAuthService
		wantStatus int
		wantCode   string
	}{
		{
			name: "success",
			body: `{"email":"ana@example.com","password":"secret-pw"}`,
			fake: &fakeAuthService{
				loginPair: &domain.TokenPair{Access: "acc", Refresh: "ref"},
				loginUser: &domain.User{ID: "user-1", Email: "ana@example.com"},
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid credentials",
			body:       `{"email":"ana@example.com","password":"wrong"}`,
			fake:       &fakeAuthService{loginErr: domain.ErrInvalidCredentials},
			wantStatus: http.StatusUnauthorized,
			wantCode:   helpers.ErrCodeUnauthorized,
		},
		{
			name:       "missing fields",
			body:       `{}`,
			fake:       &fakeAuthService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewAuthController(testLogger, tt.fake)
			req := httptest.NewRequest(http.MethodPost, "/accounts/login", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			ctrl.Login(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var resp LoginResponse
				require.NoError(t, json.Unmarshal(dataBytes, &resp))
				assert.Equal(t, "acc", resp.Access)
				assert.Equal(t, "ref", resp.Refresh)
				require.NotNil(t, resp.User)
				assert.Equal(t, "user-1", resp.User.ID)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
		})
	}
}

func TestAuthController_Refresh(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeAuthService{refreshPair: &domain.TokenPair{Access: "acc2", Refresh: "ref2"}}
		ctrl := NewAuthController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPost, "/accounts/refresh", bytes.NewBufferString(`{"refresh":"ref1"}`))
		rr := httptest.NewRecorder()

		ctrl.Refresh(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.Nil(t, envelope.Error)
	})

	t.Run("consumed token is rejected", func(t *testing.T) {
		fake := &fakeAuthService{refreshErr: domain.ErrInvalidToken}
		ctrl := NewAuthController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPost, "/accounts/refresh", bytes.NewBufferString(`{"refresh":"used"}`))
		rr := httptest.NewRecorder()

		ctrl.Refresh(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, helpers.ErrCodeUnauthorized, envelope.Error.Code)
	})
}

func TestAuthController_Logout(t *testing.T) {
	fake := &fakeAuthService{}
	ctrl := NewAuthController(testLogger, fake)
	req := httptest.NewRequest(http.MethodPost, "/accounts/logout", bytes.NewBufferString(`{"refresh":"ref1"}`))
	rr := httptest.NewRecorder()

	ctrl.Logout(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "ref1", fake.lastLogoutToken)
}
