// Package main provides the entry point for the API server.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"inviteflow/config"
	authadapter "inviteflow/internal/adapters/auth"
	"inviteflow/internal/adapters/email"
	delivery "inviteflow/internal/delivery/http"
	"inviteflow/internal/delivery/http/controllers"
	"inviteflow/internal/delivery/http/middleware"
	"inviteflow/internal/domain"
	"inviteflow/internal/repository/postgres"
	"inviteflow/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title InviteFlow API
// @version 1.0
// @description Event invitation platform: invitations, guest lists, RSVP via share links.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database connection", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to reach database", "err", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	refreshRepo := postgres.NewRefreshTokenRepository(db)
	templateRepo := postgres.NewTemplateRepository(db)
	themeRepo := postgres.NewThemeRepository(db)
	invitationRepo := postgres.NewInvitationRepository(db)
	guestRepo := postgres.NewGuestRepository(db)
	shareLinkRepo := postgres.NewShareLinkRepository(db)

	policy := domain.NewTierPolicy(domain.TierLimits{
		FreeMaxInvitations:         cfg.FreeMaxInvitations,
		FreeMaxGuestsPerInvitation: cfg.FreeMaxGuestsPerInvitation,
		ProMaxInvitations:          cfg.ProMaxInvitations,
		ProMaxGuestsPerInvitation:  cfg.ProMaxGuestsPerInvitation,
	})

	hasher := authadapter.NewBcryptHasher(bcrypt.DefaultCost)
	tokens := authadapter.NewJWTTokens(cfg.JWTSecret)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	authService := services.NewAuthService(userRepo, refreshRepo, hasher, tokens, tokens, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userService := services.NewUserService(userRepo, invitationRepo, policy)
	catalogService := services.NewCatalogService(templateRepo, themeRepo)
	invitationService := services.NewInvitationService(
		invitationRepo, guestRepo, shareLinkRepo, templateRepo, themeRepo, userRepo,
		policy, cfg.ShareLinkExpiryDays, serviceTimeout,
	)
	guestService := services.NewGuestService(
		guestRepo, invitationRepo, shareLinkRepo, userRepo, emailService,
		policy, cfg.PublicBaseURL, cfg.ShareLinkExpiryDays, serviceTimeout,
	)

	mux := delivery.NewRouter(delivery.Controllers{
		Auth:       controllers.NewAuthController(logger, authService),
		User:       controllers.NewUserController(logger, userService, authService),
		Catalog:    controllers.NewCatalogController(logger, catalogService),
		Invitation: controllers.NewInvitationController(logger, invitationService),
		Guest:      controllers.NewGuestController(logger, guestService),
		Public:     controllers.NewPublicController(logger, invitationService, guestService),
		Dashboard:  controllers.NewDashboardController(logger, invitationService),
	}, tokens)

	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.Logging(logger, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting API server", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received shutdown signal", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
