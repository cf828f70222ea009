package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"inviteflow/internal/delivery/http/controllers"
	"inviteflow/internal/delivery/http/middleware"
	"inviteflow/internal/domain"
)

// Controllers bundles the controller set the router wires up.
type Controllers struct {
	Auth       *controllers.AuthController
	User       *controllers.UserController
	Catalog    *controllers.CatalogController
	Invitation *controllers.InvitationController
	Guest      *controllers.GuestController
	Public     *controllers.PublicController
	Dashboard  *controllers.DashboardController
}

// NewRouter initializes the HTTP router with all application routes.
// Catalog and /invite routes are public; everything else requires a Bearer token.
func NewRouter(c Controllers, verifier domain.TokenVerifier) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier)

	// Accounts
	mux.HandleFunc("POST /accounts/register", c.Auth.Register)
	mux.HandleFunc("POST /accounts/login", c.Auth.Login)
	mux.HandleFunc("POST /accounts/refresh", c.Auth.Refresh)
	mux.HandleFunc("POST /accounts/logout", c.Auth.Logout)
	mux.HandleFunc("GET /accounts/me", auth(c.User.Me))
	mux.HandleFunc("PATCH /accounts/me", auth(c.User.UpdateMe))
	mux.HandleFunc("POST /accounts/me/change-password", auth(c.User.ChangePassword))
	mux.HandleFunc("GET /accounts/me/tier", auth(c.User.TierStatus))

	// Catalog (public)
	mux.HandleFunc("GET /templates", c.Catalog.ListTemplates)
	mux.HandleFunc("GET /templates/categories", c.Catalog.ListCategories)
	mux.HandleFunc("GET /templates/{templateID}", c.Catalog.GetTemplate)
	mux.HandleFunc("GET /themes", c.Catalog.ListThemes)

	// Dashboard
	mux.HandleFunc("GET /dashboard/stats", auth(c.Dashboard.Stats))

	// Invitations
	mux.HandleFunc("GET /invitations", auth(c.Invitation.List))
	mux.HandleFunc("POST /invitations", auth(c.Invitation.Create))
	mux.HandleFunc("GET /invitations/{invitationID}", auth(c.Invitation.Get))
	mux.HandleFunc("PATCH /invitations/{invitationID}", auth(c.Invitation.Update))
	mux.HandleFunc("DELETE /invitations/{invitationID}", auth(c.Invitation.Delete))
	mux.HandleFunc("POST /invitations/{invitationID}/clone", auth(c.Invitation.Clone))
	mux.HandleFunc("GET /invitations/{invitationID}/share_link", auth(c.Invitation.GetShareLink))
	mux.HandleFunc("POST /invitations/{invitationID}/share_link", auth(c.Invitation.CreateShareLink))
	mux.HandleFunc("GET /invitations/{invitationID}/analytics", auth(c.Invitation.Analytics))

	// Guests
	mux.HandleFunc("GET /invitations/{invitationID}/guests", auth(c.Guest.List))
	mux.HandleFunc("POST /invitations/{invitationID}/guests", auth(c.Guest.Create))
	mux.HandleFunc("POST /invitations/{invitationID}/guests/bulk_create", auth(c.Guest.BulkCreate))
	mux.HandleFunc("GET /invitations/{invitationID}/guests/{guestID}", auth(c.Guest.Get))
	mux.HandleFunc("PATCH /invitations/{invitationID}/guests/{guestID}", auth(c.Guest.Update))
	mux.HandleFunc("DELETE /invitations/{invitationID}/guests/{guestID}", auth(c.Guest.Delete))
	mux.HandleFunc("POST /invitations/{invitationID}/guests/{guestID}/send_invitation", auth(c.Guest.SendInvitation))

	// Public share-link access
	mux.HandleFunc("GET /invite/{token}", c.Public.View)
	mux.HandleFunc("POST /invite/{token}/rsvp", c.Public.RSVP)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
