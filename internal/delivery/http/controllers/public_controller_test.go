package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inviteflow/internal/delivery/http/helpers"
	"inviteflow/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicController_View(t *testing.T) {
	expiry := time.Date(2026, 9, 10, 23, 59, 59, 0, time.UTC)
	pub := &domain.PublicInvitation{
		Invitation: &domain.Invitation{
			ID:        "inv-1",
			Title:     "Emma's 5th",
			ExpiresAt: &expiry,
		},
		Template: &domain.Template{ID: "tpl-1", Name: "Garden Party"},
	}

	tests := []struct {
		name       string
		fake       *fakeInvitationService
		now        time.Time
		wantStatus int
		wantCode   string
		check      func(t *testing.T, resp PublicInvitationResponse)
	}{
		{
			name:       "valid link before expiry",
			fake:       &fakeInvitationService{publicResult: pub},
			now:        expiry.Add(-24 * time.Hour),
			wantStatus: http.StatusOK,
			check: func(t *testing.T, resp PublicInvitationResponse) {
				assert.Equal(t, "inv-1", resp.Invitation.ID)
				assert.Equal(t, "Garden Party", resp.Template.Name)
				assert.False(t, resp.IsExpired)
			},
		},
		{
			name:       "valid link after expiry still renders",
			fake:       &fakeInvitationService{publicResult: pub},
			now:        expiry.Add(24 * time.Hour),
			wantStatus: http.StatusOK,
			check: func(t *testing.T, resp PublicInvitationResponse) {
				assert.True(t, resp.IsExpired)
			},
		},
		{
			name:       "unknown token is 404",
			fake:       &fakeInvitationService{publicErr: domain.ErrNotFound},
			wantStatus: http.StatusNotFound,
			wantCode:   helpers.ErrCodeNotFound,
		},
		{
			name:       "dead link is 410",
			fake:       &fakeInvitationService{publicErr: domain.ErrShareLinkGone},
			wantStatus: http.StatusGone,
			wantCode:   helpers.ErrCodeGone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewPublicController(testLogger, tt.fake, &fakeGuestService{})
			if !tt.now.IsZero() {
				ctrl.Now = func() time.Time { return tt.now }
			}
			req := httptest.NewRequest(http.MethodGet, "/invite/tok-1", nil)
			req.SetPathValue("token", "tok-1")
			rr := httptest.NewRecorder()

			ctrl.View(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				assert.Equal(t, "tok-1", tt.fake.lastToken)
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var resp PublicInvitationResponse
				require.NoError(t, json.Unmarshal(dataBytes, &resp))
				tt.check(t, resp)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
		})
	}
}

func TestPublicController_RSVP(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fake       *fakeGuestService
		wantStatus int
		wantCode   string
	}{
		{
			name:       "success",
			body:       `{"name":"Ana","email":"ana@example.com","rsvp_status":"attending","plus_one":true,"plus_one_count":1}`,
			fake:       &fakeGuestService{rsvpResult: &domain.Guest{ID: "guest-1", RSVPStatus: domain.RSVPAttending}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown token is 404",
			body:       `{"name":"Ana","email":"ana@example.com","rsvp_status":"attending"}`,
			fake:       &fakeGuestService{rsvpErr: domain.ErrNotFound},
			wantStatus: http.StatusNotFound,
			wantCode:   helpers.ErrCodeNotFound,
		},
		{
			name:       "dead link is 410",
			body:       `{"name":"Ana","email":"ana@example.com","rsvp_status":"attending"}`,
			fake:       &fakeGuestService{rsvpErr: domain.ErrShareLinkGone},
			wantStatus: http.StatusGone,
			wantCode:   helpers.ErrCodeGone,
		},
		{
			name:       "bad status rejected before the service",
			body:       `{"name":"Ana","email":"ana@example.com","rsvp_status":"maybe"}`,
			fake:       &fakeGuestService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "missing email rejected",
			body:       `{"name":"Ana","rsvp_status":"attending"}`,
			fake:       &fakeGuestService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			// Dotted local parts slip past the request regex but fail the
			// service's address parsing, which must still surface as 400.
			name:       "service-side validation failure is 400",
			body:       `{"name":"Ana","email":"a..b@example.com","rsvp_status":"attending"}`,
			fake:       &fakeGuestService{rsvpErr: fmt.Errorf("%w: a valid email is required", domain.ErrInvalidGuest)},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewPublicController(testLogger, &fakeInvitationService{}, tt.fake)
			req := httptest.NewRequest(http.MethodPost, "/invite/tok-1/rsvp", bytes.NewBufferString(tt.body))
			req.SetPathValue("token", "tok-1")
			rr := httptest.NewRecorder()

			ctrl.RSVP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				require.NotNil(t, tt.fake.lastSubmission)
				assert.Equal(t, "tok-1", tt.fake.lastToken)
				assert.Equal(t, domain.RSVPAttending, tt.fake.lastSubmission.Status)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
			if tt.wantStatus == http.StatusBadRequest && tt.fake.rsvpErr == nil {
				assert.Nil(t, tt.fake.lastSubmission, "service must not be reached when request validation fails")
			}
		})
	}
}

func TestDashboardController_Stats(t *testing.T) {
	fake := &fakeInvitationService{
		statsResult: &domain.DashboardStats{
			TotalInvitations:      4,
			ActiveInvitations:     2,
			TotalGuests:           30,
			TotalAttending:        18,
			TotalPending:          10,
			TotalNotAttending:     2,
			InvitationsByTemplate: map[string]int{"birthday": 3, "wedding": 1},
		},
	}
	ctrl := NewDashboardController(testLogger, fake)
	rr := httptest.NewRecorder()

	ctrl.Stats(rr, authedRequest(http.MethodGet, "/dashboard/stats", ""))

	require.Equal(t, http.StatusOK, rr.Code)
	envelope := decodeEnvelope(t, rr)
	require.Nil(t, envelope.Error)
	dataBytes, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var stats domain.DashboardStats
	require.NoError(t, json.Unmarshal(dataBytes, &stats))
	assert.Equal(t, 4, stats.TotalInvitations)
	assert.Equal(t, 3, stats.InvitationsByTemplate["birthday"])
	assert.Equal(t, "user-123", fake.lastUserID)
}
