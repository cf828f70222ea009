package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"inviteflow/internal/delivery/http/helpers"
	"inviteflow/internal/delivery/http/middleware"
	"inviteflow/internal/domain"
)

// dateLayout is the wire format for event dates.
const dateLayout = "2006-01-02"

// CreateInvitationRequest is the request body for POST /invitations.
type CreateInvitationRequest struct {
	TemplateID    *string `json:"template_id"`
	ThemeID       *string `json:"theme_id"`
	Title         string  `json:"title"`
	Subtitle      string  `json:"subtitle"`
	CelebrantName string  `json:"celebrant_name"`
	EventDate     string  `json:"event_date"`
	EventTime     *string `json:"event_time"`
	VenueName     string  `json:"venue_name"`
	VenueAddress  string  `json:"venue_address"`
	MaxGuests     int     `json:"max_guests"`
	Status        *string `json:"status"`
}

// Validate implements Validator.
func (c CreateInvitationRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.EventDate == "" {
		errs = append(errs, "event_date is required")
	} else if _, err := time.Parse(dateLayout, c.EventDate); err != nil {
		errs = append(errs, "event_date must be YYYY-MM-DD")
	}
	if c.MaxGuests < 0 {
		errs = append(errs, "max_guests must not be negative")
	}
	if c.Status != nil && !domain.InvitationStatus(*c.Status).Valid() {
		errs = append(errs, "status must be draft, active, or expired")
	}
	return errs
}

// UpdateInvitationRequest is the request body for PATCH /invitations/{invitationID}.
// All fields optional; omitted fields are unchanged. An empty theme_id clears
// the theme.
type UpdateInvitationRequest struct {
	ThemeID       *string `json:"theme_id"`
	Title         *string `json:"title"`
	Subtitle      *string `json:"subtitle"`
	CelebrantName *string `json:"celebrant_name"`
	EventDate     *string `json:"event_date"`
	EventTime     *string `json:"event_time"`
	VenueName     *string `json:"venue_name"`
	VenueAddress  *string `json:"venue_address"`
	MaxGuests     *int    `json:"max_guests"`
	Status        *string `json:"status"`
}

// Validate implements Validator.
func (u UpdateInvitationRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title must not be blank")
	}
	if u.EventDate != nil {
		if _, err := time.Parse(dateLayout, *u.EventDate); err != nil {
			errs = append(errs, "event_date must be YYYY-MM-DD")
		}
	}
	if u.MaxGuests != nil && *u.MaxGuests < 0 {
		errs = append(errs, "max_guests must not be negative")
	}
	if u.Status != nil && !domain.InvitationStatus(*u.Status).Valid() {
		errs = append(errs, "status must be draft, active, or expired")
	}
	return errs
}

// InvitationListItem is one row of GET /invitations.
type InvitationListItem struct {
	*domain.Invitation
	TemplateName     *string `json:"template_name"`
	TemplateCategory *string `json:"template_category"`
	domain.GuestCounts
}

// InvitationDetailResponse is the response body for GET /invitations/{invitationID}.
type InvitationDetailResponse struct {
	Invitation *domain.Invitation `json:"invitation"`
	Template   *domain.Template   `json:"template"`
	Theme      *domain.Theme      `json:"theme"`
	Guests     []*domain.Guest    `json:"guests"`
	domain.GuestCounts
}

type InvitationController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
}

func NewInvitationController(logger *slog.Logger, svc domain.InvitationService) *InvitationController {
	return &InvitationController{
		Logger:  logger,
		Service: svc,
	}
}

// writeError maps invitation service errors onto the error taxonomy.
func (c *InvitationController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "invitation not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "you do not own this invitation")
	case errors.Is(err, domain.ErrInvitationQuota):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodePolicyViolation, err.Error())
	case errors.Is(err, domain.ErrTemplateNotFound):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "template not found or inactive")
	case errors.Is(err, domain.ErrThemeNotFound):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "theme not found or inactive")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// requireUser reads the authenticated user ID or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
	}
	return userID, ok
}

// List godoc
// @Summary List the current user's invitations
// @Description Newest first, each with template display fields and RSVP counts.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the invitation list"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations [get]
func (c *InvitationController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	summaries, err := c.Service.List(r.Context(), userID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	items := make([]InvitationListItem, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, InvitationListItem{
			Invitation:       s.Invitation,
			TemplateName:     s.TemplateName,
			TemplateCategory: s.TemplateCategory,
			GuestCounts:      s.Counts,
		})
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}

// Create godoc
// @Summary Create an invitation
// @Description The tier's invitation quota is checked before any write. Status defaults to draft; expires_at defaults to the end of the event date.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateInvitationRequest true "Invitation data"
// @Success 201 {object} helpers.APIResponse "data contains the created invitation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or policy_violation"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations [post]
func (c *InvitationController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req CreateInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	eventDate, _ := time.Parse(dateLayout, req.EventDate)
	inv := &domain.Invitation{
		TemplateID:    req.TemplateID,
		ThemeID:       req.ThemeID,
		Title:         strings.TrimSpace(req.Title),
		Subtitle:      req.Subtitle,
		CelebrantName: req.CelebrantName,
		EventDate:     eventDate,
		EventTime:     req.EventTime,
		VenueName:     req.VenueName,
		VenueAddress:  req.VenueAddress,
		MaxGuests:     req.MaxGuests,
	}
	if req.Status != nil {
		inv.Status = domain.InvitationStatus(*req.Status)
	}
	if err := c.Service.Create(r.Context(), userID, inv); err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, inv)
}

// Get godoc
// @Summary Get one invitation
// @Description Full owner view: invitation, template, theme, guest list, and RSVP counts. Template and theme render even if later deactivated.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param invitationID path string true "Invitation ID"
// @Success 200 {object} helpers.APIResponse "data contains the invitation detail"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{invitationID} [get]
func (c *InvitationController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	detail, err := c.Service.Get(r.Context(), userID, r.PathValue("invitationID"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, InvitationDetailResponse{
		Invitation:  detail.Invitation,
		Template:    detail.Template,
		Theme:       detail.Theme,
		Guests:      detail.Guests,
		GuestCounts: detail.Counts,
	})
}

// Update godoc
// @Summary Update an invitation
// @Description Partial update; omitted fields are unchanged. An empty theme_id clears the theme.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param invitationID path string true "Invitation ID"
// @Param body body UpdateInvitationRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse "data contains the updated invitation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{invitationID} [patch]
func (c *InvitationController) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req UpdateInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	patch := &domain.InvitationUpdate{
		ThemeID:       req.ThemeID,
		Title:         req.Title,
		Subtitle:      req.Subtitle,
		CelebrantName: req.CelebrantName,
		EventTime:     req.EventTime,
		VenueName:     req.VenueName,
		VenueAddress:  req.VenueAddress,
		MaxGuests:     req.MaxGuests,
	}
	if req.EventDate != nil {
		d, _ := time.Parse(dateLayout, *req.EventDate)
		patch.EventDate = &d
	}
	if req.Status != nil {
		s := domain.InvitationStatus(*req.Status)
		patch.Status = &s
	}
	inv, err := c.Service.Update(r.Context(), userID, r.PathValue("invitationID"), patch)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, inv)
}

// Delete godoc
// @Summary Delete an invitation
// @Description Guests and share links are removed with it.
// @Tags invitations
// @Security BearerAuth
// @Param invitationID path string true "Invitation ID"
// @Success 204 "invitation deleted"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{invitationID} [delete]
func (c *InvitationController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), userID, r.PathValue("invitationID")); err != nil {
		c.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clone godoc
// @Summary Clone an invitation
// @Description Copies the event fields into a fresh draft titled "<title> (Copy)" with no guests or share links. Counts against the invitation quota.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param invitationID path string true "Invitation ID"
// @Success 201 {object} helpers.APIResponse "data contains the clone"
// @Failure 400 {object} helpers.APIResponse "error.code: policy_violation"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{invitationID}/clone [post]
func (c *InvitationController) Clone(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	clone, err := c.Service.Clone(r.Context(), userID, r.PathValue("invitationID"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, clone)
}

// GetShareLink godoc
// @Summary Get the active share link for an invitation
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param invitationID path string true "Invitation ID"
// @Success 200 {object} helpers.APIResponse "data contains the share link"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{invitationID}/share_link [get]
func (c *InvitationController) GetShareLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	link, err := c.Service.GetShareLink(r.Context(), userID, r.PathValue("invitationID"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "no active share link")
			return
		}
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, link)
}

// CreateShareLink godoc
// @Summary Create a share link for an invitation
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param invitationID path string true "Invitation ID"
// @Success 201 {object} helpers.APIResponse "data contains the new share link"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{invitationID}/share_link [post]
func (c *InvitationController) CreateShareLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	link, err := c.Service.CreateShareLink(r.Context(), userID, r.PathValue("invitationID"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, link)
}

// Analytics godoc
// @Summary Get engagement analytics for an invitation
// @Description RSVP counts, total share-link views, and how many guests were sent an invitation email.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param invitationID path string true "Invitation ID"
// @Success 200 {object} helpers.APIResponse "data contains the analytics"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{invitationID}/analytics [get]
func (c *InvitationController) Analytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	analytics, err := c.Service.Analytics(r.Context(), userID, r.PathValue("invitationID"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, analytics)
}
