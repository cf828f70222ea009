package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"inviteflow/internal/delivery/http/helpers"
	"inviteflow/internal/domain"
)

// GuestRequest is the request body for POST /invitations/{invitationID}/guests
// and the items of bulk_create.
type GuestRequest struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	RSVPStatus   *string `json:"rsvp_status"`
	PlusOne      bool    `json:"plus_one"`
	PlusOneCount int     `json:"plus_one_count"`
	Notes        string  `json:"notes"`
}

// Validate implements Validator.
func (g GuestRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(g.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(g.Email) == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(strings.TrimSpace(strings.ToLower(g.Email))) {
		errs = append(errs, "invalid email format")
	}
	if g.RSVPStatus != nil && !domain.RSVPStatus(*g.RSVPStatus).Valid() {
		errs = append(errs, "rsvp_status must be pending, attending, or not_attending")
	}
	if g.PlusOneCount < 0 {
		errs = append(errs, "plus_one_count must not be negative")
	}
	return errs
}

func (g GuestRequest) toDomain() *domain.Guest {
	guest := &domain.Guest{
		Name:         g.Name,
		Email:        g.Email,
		Phone:        g.Phone,
		PlusOne:      g.PlusOne,
		PlusOneCount: g.PlusOneCount,
		Notes:        g.Notes,
	}
	if g.RSVPStatus != nil {
		guest.RSVPStatus = domain.RSVPStatus(*g.RSVPStatus)
	}
	return guest
}

// UpdateGuestRequest is the request body for PATCH .../guests/{guestID}.
// All fields optional; changing rsvp_status stamps rsvp_date.
type UpdateGuestRequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	RSVPStatus   *string `json:"rsvp_status"`
	PlusOne      *bool   `json:"plus_one"`
	PlusOneCount *int    `json:"plus_one_count"`
	Notes        *string `json:"notes"`
}

// Validate implements Validator.
func (u UpdateGuestRequest) Validate() []string {
	var errs []string
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		errs = append(errs, "name must not be blank")
	}
	if u.Email != nil && !emailRegexp.MatchString(strings.TrimSpace(strings.ToLower(*u.Email))) {
		errs = append(errs, "invalid email format")
	}
	if u.RSVPStatus != nil && !domain.RSVPStatus(*u.RSVPStatus).Valid() {
		errs = append(errs, "rsvp_status must be pending, attending, or not_attending")
	}
	if u.PlusOneCount != nil && *u.PlusOneCount < 0 {
		errs = append(errs, "plus_one_count must not be negative")
	}
	return errs
}

// BulkCreateGuestsRequest is the request body for POST .../guests/bulk_create.
type BulkCreateGuestsRequest struct {
	Guests []GuestRequest `json:"guests"`
}

// Validate implements Validator. Per-item validation happens in the service so
// one bad row does not reject the batch.
func (b BulkCreateGuestsRequest) Validate() []string {
	if len(b.Guests) == 0 {
		return []string{"guests must not be empty"}
	}
	return nil
}

// BulkCreateGuestsResponse partitions a bulk request into created guests and
// itemized failures.
type BulkCreateGuestsResponse struct {
	Created []*domain.Guest         `json:"created"`
	Errors  []domain.BulkGuestError `json:"errors"`
}

// GuestListResponse is the response body for GET .../guests.
type GuestListResponse struct {
	Guests     []*domain.Guest        `json:"guests"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

type GuestController struct {
	Logger  *slog.Logger
	Service domain.GuestService
}

func NewGuestController(logger *slog.Logger, svc domain.GuestService) *GuestController {
	return &GuestController{
		Logger:  logger,
		Service: svc,
	}
}

// writeError maps guest service errors onto the error taxonomy.
func (c *GuestController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "you do not own this invitation")
	case errors.Is(err, domain.ErrGuestLimitReached):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodePolicyViolation, err.Error())
	case errors.Is(err, domain.ErrDuplicateGuest), errors.Is(err, domain.ErrInvalidGuest):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// List godoc
// @Summary List an invitation's guests
// @Tags guests
// @Produce json
// @Security BearerAuth
// @Param invitationID path string true "Invitation ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 200)"
// @Success 200 {object} helpers.APIResponse "data contains guests and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{invitationID}/guests [get]
func (c *GuestController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	guests, err := c.Service.List(r.Context(), userID, r.PathValue("invitationID"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	params := helpers.ParsePagination(r)
	total := len(guests)
	offset := params.Offset()
	if offset > total {
		offset = total
	}
	end := offset + params.PageSize
	if end > total {
		end = total
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, GuestListResponse{
		Guests:     guests[offset:end],
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// Create godoc
// @Summary Add a guest to an invitation
// @Description The invitation's effective guest cap is checked first. Duplicate emails on the same invitation are rejected.
// @Tags guests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param invitationID path string true "Invitation ID"
// @Param body body GuestRequest true "Guest data"
// @Success 201 {object} helpers.APIResponse "data contains the created guest"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or policy_violation"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{invitationID}/guests [post]
func (c *GuestController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req GuestRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	guest := req.toDomain()
	if err := c.Service.Create(r.Context(), userID, r.PathValue("invitationID"), guest); err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, guest)
}

// BulkCreate godoc
// @Summary Add many guests at once
// @Description Each guest is processed independently; failures are itemized and do not abort the rest. 201 when anything was created, 400 when nothing was.
// @Tags guests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param invitationID path string true "Invitation ID"
// @Param body body BulkCreateGuestsRequest true "Guests to add"
// @Success 201 {object} helpers.APIResponse "data contains created guests and itemized errors"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{invitationID}/guests/bulk_create [post]
func (c *GuestController) BulkCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req BulkCreateGuestsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	guests := make([]*domain.Guest, 0, len(req.Guests))
	for _, g := range req.Guests {
		guests = append(guests, g.toDomain())
	}
	created, bulkErrs, err := c.Service.BulkCreate(r.Context(), userID, r.PathValue("invitationID"), guests)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	status := http.StatusCreated
	if len(created) == 0 {
		status = http.StatusBadRequest
	}
	helpers.WriteJSONSuccess(w, status, BulkCreateGuestsResponse{Created: created, Errors: bulkErrs})
}

// Get godoc
// @Summary Get one guest
// @Tags guests
// @Produce json
// @Security BearerAuth
// @Param invitationID path string true "Invitation ID"
// @Param guestID path string true "Guest ID"
// @Success 200 {object} helpers.APIResponse "data contains the guest"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{invitationID}/guests/{guestID} [get]
func (c *GuestController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	guest, err := c.Service.Get(r.Context(), userID, r.PathValue("invitationID"), r.PathValue("guestID"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, guest)
}

// Update godoc
// @Summary Update a guest
// @Description Partial update. Changing rsvp_status sets rsvp_date to now.
// @Tags guests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param invitationID path string true "Invitation ID"
// @Param guestID path string true "Guest ID"
// @Param body body UpdateGuestRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse "data contains the updated guest"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{invitationID}/guests/{guestID} [patch]
func (c *GuestController) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req UpdateGuestRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	patch := &domain.GuestUpdate{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PlusOne:      req.PlusOne,
		PlusOneCount: req.PlusOneCount,
		Notes:        req.Notes,
	}
	if req.RSVPStatus != nil {
		s := domain.RSVPStatus(*req.RSVPStatus)
		patch.RSVPStatus = &s
	}
	guest, err := c.Service.Update(r.Context(), userID, r.PathValue("invitationID"), r.PathValue("guestID"), patch)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, guest)
}

// Delete godoc
// @Summary Remove a guest
// @Tags guests
// @Security BearerAuth
// @Param invitationID path string true "Invitation ID"
// @Param guestID path string true "Guest ID"
// @Success 204 "guest removed"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{invitationID}/guests/{guestID} [delete]
func (c *GuestController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), userID, r.PathValue("invitationID"), r.PathValue("guestID")); err != nil {
		c.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendInvitation godoc
// @Summary Email an invitation to a guest
// @Description Gets or creates an active share link and sends the guest an RSVP email. invitation_sent is set only when the send succeeds. Best effort, no retries.
// @Tags guests
// @Produce json
// @Security BearerAuth
// @Param invitationID path string true "Invitation ID"
// @Param guestID path string true "Guest ID"
// @Success 200 {object} helpers.APIResponse "data contains the updated guest"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{invitationID}/guests/{guestID}/send_invitation [post]
func (c *GuestController) SendInvitation(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	invitationID := r.PathValue("invitationID")
	guestID := r.PathValue("guestID")
	if err := c.Service.SendInvite(r.Context(), userID, invitationID, guestID); err != nil {
		c.writeError(w, r, err)
		return
	}
	guest, err := c.Service.Get(r.Context(), userID, invitationID, guestID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, guest)
}
