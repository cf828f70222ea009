package controllers

import (
	"log/slog"
	"net/http"

	"inviteflow/internal/delivery/http/helpers"
	"inviteflow/internal/domain"
)

type DashboardController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
}

func NewDashboardController(logger *slog.Logger, svc domain.InvitationService) *DashboardController {
	return &DashboardController{
		Logger:  logger,
		Service: svc,
	}
}

// Stats godoc
// @Summary Get dashboard statistics for the current user
// @Description Totals across all invitations: counts by status, guest RSVP totals, and invitations grouped by template category.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the dashboard stats"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /dashboard/stats [get]
func (c *DashboardController) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	stats, err := c.Service.DashboardStats(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}
