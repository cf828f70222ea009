package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"inviteflow/internal/delivery/http/helpers"
	"inviteflow/internal/domain"
)

// PublicInvitationResponse is the share-link view of an invitation. It never
// includes the guest list or any owner identity.
type PublicInvitationResponse struct {
	Invitation *domain.Invitation `json:"invitation"`
	Template   *domain.Template   `json:"template"`
	Theme      *domain.Theme      `json:"theme"`
	IsExpired  bool               `json:"is_expired"`
}

// RSVPRequest is the request body for POST /invite/{token}/rsvp.
type RSVPRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	RSVPStatus   string `json:"rsvp_status"`
	PlusOne      bool   `json:"plus_one"`
	PlusOneCount int    `json:"plus_one_count"`
	Notes        string `json:"notes"`
}

// Validate implements Validator.
func (g RSVPRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(g.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(g.Email) == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(strings.TrimSpace(strings.ToLower(g.Email))) {
		errs = append(errs, "invalid email format")
	}
	if !domain.RSVPStatus(g.RSVPStatus).Valid() {
		errs = append(errs, "rsvp_status must be pending, attending, or not_attending")
	}
	if g.PlusOneCount < 0 {
		errs = append(errs, "plus_one_count must not be negative")
	}
	return errs
}

type PublicController struct {
	Logger      *slog.Logger
	Invitations domain.InvitationService
	Guests      domain.GuestService
	Now         func() time.Time
}

func NewPublicController(logger *slog.Logger, invitations domain.InvitationService, guests domain.GuestService) *PublicController {
	return &PublicController{
		Logger:      logger,
		Invitations: invitations,
		Guests:      guests,
		Now:         time.Now,
	}
}

// writeError maps share-link errors: unknown tokens are 404, recognized but
// dead links are 410.
func (c *PublicController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "invitation not found")
	case errors.Is(err, domain.ErrShareLinkGone):
		helpers.WriteJSONError(w, http.StatusGone, helpers.ErrCodeGone, "this invitation link is no longer available")
	case errors.Is(err, domain.ErrInvalidGuest):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// View godoc
// @Summary View an invitation through a share link
// @Description Unauthenticated. Unknown tokens are 404; inactive or expired links are 410. Each successful view increments the link's view count.
// @Tags public
// @Produce json
// @Param token path string true "Share link token"
// @Success 200 {object} helpers.APIResponse "data contains the public invitation"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 410 {object} helpers.APIResponse "error.code: gone"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invite/{token} [get]
func (c *PublicController) View(w http.ResponseWriter, r *http.Request) {
	pub, err := c.Invitations.PublicByToken(r.Context(), r.PathValue("token"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, PublicInvitationResponse{
		Invitation: pub.Invitation,
		Template:   pub.Template,
		Theme:      pub.Theme,
		IsExpired:  pub.Invitation.IsExpired(c.Now()),
	})
}

// RSVP godoc
// @Summary Submit an RSVP through a share link
// @Description Unauthenticated. Upserts the guest by email on the linked invitation; resubmitting with the same email updates the existing RSVP.
// @Tags public
// @Accept json
// @Produce json
// @Param token path string true "Share link token"
// @Param body body RSVPRequest true "RSVP data"
// @Success 200 {object} helpers.APIResponse "data contains the guest's RSVP"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 410 {object} helpers.APIResponse "error.code: gone"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invite/{token}/rsvp [post]
func (c *PublicController) RSVP(w http.ResponseWriter, r *http.Request) {
	var req RSVPRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	guest, err := c.Guests.SubmitRSVP(r.Context(), r.PathValue("token"), &domain.RSVPSubmission{
		Name:         req.Name,
		Email:        req.Email,
		Status:       domain.RSVPStatus(req.RSVPStatus),
		PlusOne:      req.PlusOne,
		PlusOneCount: req.PlusOneCount,
		Notes:        req.Notes,
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, guest)
}
