package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inviteflow/internal/domain"
)

// defaultMaxGuests is the guest capacity applied when a new invitation
// does not specify one.
const defaultMaxGuests = 50

type invitationService struct {
	invitationRepo      domain.InvitationRepository
	guestRepo           domain.GuestRepository
	shareLinkRepo       domain.ShareLinkRepository
	templateRepo        domain.TemplateRepository
	themeRepo           domain.ThemeRepository
	userRepo            domain.UserRepository
	policy              *domain.TierPolicy
	shareLinkExpiryDays int
	contextTimeout      time.Duration
}

// NewInvitationService creates an InvitationService with the given stores,
// tier policy, and share-link expiry window.
func NewInvitationService(
	invitationRepo domain.InvitationRepository,
	guestRepo domain.GuestRepository,
	shareLinkRepo domain.ShareLinkRepository,
	templateRepo domain.TemplateRepository,
	themeRepo domain.ThemeRepository,
	userRepo domain.UserRepository,
	policy *domain.TierPolicy,
	shareLinkExpiryDays int,
	timeout time.Duration,
) domain.InvitationService {
	return &invitationService{
		invitationRepo:      invitationRepo,
		guestRepo:           guestRepo,
		shareLinkRepo:       shareLinkRepo,
		templateRepo:        templateRepo,
		themeRepo:           themeRepo,
		userRepo:            userRepo,
		policy:              policy,
		shareLinkExpiryDays: shareLinkExpiryDays,
		contextTimeout:      timeout,
	}
}

// getOwned loads an invitation and enforces ownership.
func (s *invitationService) getOwned(ctx context.Context, userID, id string) (*domain.Invitation, error) {
	inv, err := s.invitationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	if inv.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

// checkQuota enforces the tier invitation cap before any write.
func (s *invitationService) checkQuota(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("get user: %w", err)
	}
	count, err := s.invitationRepo.CountByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("count invitations: %w", err)
	}
	if !s.policy.CanCreateInvitation(user.Tier, count) {
		return domain.ErrInvitationQuota
	}
	return nil
}

func (s *invitationService) Create(ctx context.Context, userID string, inv *domain.Invitation) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.checkQuota(ctx, userID); err != nil {
		return err
	}
	if inv.TemplateID != nil {
		if _, err := s.templateRepo.GetActiveByID(ctx, *inv.TemplateID); err != nil {
			if errors.Is(err, domain.ErrTemplateNotFound) {
				return err
			}
			return fmt.Errorf("get template: %w", err)
		}
	}
	if inv.ThemeID != nil {
		if _, err := s.themeRepo.GetActiveByID(ctx, *inv.ThemeID); err != nil {
			if errors.Is(err, domain.ErrThemeNotFound) {
				return err
			}
			return fmt.Errorf("get theme: %w", err)
		}
	}

	inv.UserID = userID
	if inv.Status == "" {
		inv.Status = domain.StatusDraft
	}
	if inv.MaxGuests <= 0 {
		inv.MaxGuests = defaultMaxGuests
	}
	now := time.Now()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	if inv.ExpiresAt == nil {
		expiry := inv.DefaultExpiry()
		inv.ExpiresAt = &expiry
	}
	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		return fmt.Errorf("create invitation: %w", err)
	}
	return nil
}

func (s *invitationService) List(ctx context.Context, userID string) ([]*domain.InvitationSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	summaries, err := s.invitationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return summaries, nil
}

func (s *invitationService) Get(ctx context.Context, userID, id string) (*domain.InvitationDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	inv, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	detail := &domain.InvitationDetail{Invitation: inv}
	if inv.TemplateID != nil {
		if t, err := s.templateRepo.GetByID(ctx, *inv.TemplateID); err == nil {
			detail.Template = t
		} else if !errors.Is(err, domain.ErrTemplateNotFound) {
			return nil, fmt.Errorf("get template: %w", err)
		}
	}
	if inv.ThemeID != nil {
		if t, err := s.themeRepo.GetByID(ctx, *inv.ThemeID); err == nil {
			detail.Theme = t
		} else if !errors.Is(err, domain.ErrThemeNotFound) {
			return nil, fmt.Errorf("get theme: %w", err)
		}
	}
	guests, err := s.guestRepo.ListByInvitation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	detail.Guests = guests
	counts, err := s.guestRepo.CountsByInvitation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count guests: %w", err)
	}
	detail.Counts = counts
	return detail, nil
}

func (s *invitationService) Update(ctx context.Context, userID, id string, patch *domain.InvitationUpdate) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	inv, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if patch.ThemeID != nil {
		if *patch.ThemeID == "" {
			inv.ThemeID = nil
		} else {
			if _, err := s.themeRepo.GetActiveByID(ctx, *patch.ThemeID); err != nil {
				if errors.Is(err, domain.ErrThemeNotFound) {
					return nil, err
				}
				return nil, fmt.Errorf("get theme: %w", err)
			}
			inv.ThemeID = patch.ThemeID
		}
	}
	if patch.Title != nil {
		inv.Title = *patch.Title
	}
	if patch.Subtitle != nil {
		inv.Subtitle = *patch.Subtitle
	}
	if patch.CelebrantName != nil {
		inv.CelebrantName = *patch.CelebrantName
	}
	if patch.EventDate != nil {
		inv.EventDate = *patch.EventDate
	}
	if patch.EventTime != nil {
		inv.EventTime = patch.EventTime
	}
	if patch.VenueName != nil {
		inv.VenueName = *patch.VenueName
	}
	if patch.VenueAddress != nil {
		inv.VenueAddress = *patch.VenueAddress
	}
	if patch.MaxGuests != nil {
		inv.MaxGuests = *patch.MaxGuests
	}
	if patch.Status != nil {
		inv.Status = *patch.Status
	}
	inv.UpdatedAt = time.Now()
	if err := s.invitationRepo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("update invitation: %w", err)
	}
	return inv, nil
}

func (s *invitationService) Delete(ctx context.Context, userID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.invitationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete invitation: %w", err)
	}
	return nil
}

func (s *invitationService) Clone(ctx context.Context, userID, id string) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	src, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkQuota(ctx, userID); err != nil {
		return nil, err
	}

	now := time.Now()
	clone := &domain.Invitation{
		UserID:        userID,
		TemplateID:    src.TemplateID,
		ThemeID:       src.ThemeID,
		Title:         src.Title + " (Copy)",
		Subtitle:      src.Subtitle,
		CelebrantName: src.CelebrantName,
		EventDate:     src.EventDate,
		EventTime:     src.EventTime,
		VenueName:     src.VenueName,
		VenueAddress:  src.VenueAddress,
		MaxGuests:     src.MaxGuests,
		Status:        domain.StatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	expiry := clone.DefaultExpiry()
	clone.ExpiresAt = &expiry
	if err := s.invitationRepo.Create(ctx, clone); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}
	return clone, nil
}

func (s *invitationService) GetShareLink(ctx context.Context, userID, id string) (*domain.ShareLink, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return nil, err
	}
	link, err := s.shareLinkRepo.FirstActiveByInvitation(ctx, id, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get share link: %w", err)
	}
	return link, nil
}

func (s *invitationService) CreateShareLink(ctx context.Context, userID, id string) (*domain.ShareLink, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return nil, err
	}
	return newShareLink(ctx, s.shareLinkRepo, id, s.shareLinkExpiryDays)
}

// newShareLink creates and stores a fresh share link for an invitation.
// Shared with the guest service's send-invitation path.
func newShareLink(ctx context.Context, repo domain.ShareLinkRepository, invitationID string, expiryDays int) (*domain.ShareLink, error) {
	token, err := domain.NewShareToken()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	link := &domain.ShareLink{
		InvitationID: invitationID,
		Token:        token,
		IsActive:     true,
		CreatedAt:    now,
		ExpiresAt:    now.AddDate(0, 0, expiryDays),
	}
	if err := repo.Create(ctx, link); err != nil {
		return nil, fmt.Errorf("create share link: %w", err)
	}
	return link, nil
}

func (s *invitationService) Analytics(ctx context.Context, userID, id string) (*domain.InvitationAnalytics, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return nil, err
	}
	counts, err := s.guestRepo.CountsByInvitation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count guests: %w", err)
	}
	views, err := s.shareLinkRepo.SumViewsByInvitation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("sum share link views: %w", err)
	}
	sent, err := s.guestRepo.CountSentByInvitation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count sent invitations: %w", err)
	}
	return &domain.InvitationAnalytics{
		GuestCount:          counts.Total,
		AttendingCount:      counts.Attending,
		PendingCount:        counts.Pending,
		NotAttendingCount:   counts.NotAttending,
		ShareLinkViews:      views,
		InvitationSentCount: sent,
	}, nil
}

func (s *invitationService) PublicByToken(ctx context.Context, token string) (*domain.PublicInvitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	link, err := s.shareLinkRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get share link: %w", err)
	}
	if !link.IsValid(time.Now()) {
		return nil, domain.ErrShareLinkGone
	}
	if err := s.shareLinkRepo.IncrementViewCount(ctx, link.ID); err != nil {
		return nil, fmt.Errorf("increment view count: %w", err)
	}

	inv, err := s.invitationRepo.GetByID(ctx, link.InvitationID)
	if err != nil {
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	pub := &domain.PublicInvitation{Invitation: inv}
	if inv.TemplateID != nil {
		if t, err := s.templateRepo.GetByID(ctx, *inv.TemplateID); err == nil {
			pub.Template = t
		} else if !errors.Is(err, domain.ErrTemplateNotFound) {
			return nil, fmt.Errorf("get template: %w", err)
		}
	}
	if inv.ThemeID != nil {
		if t, err := s.themeRepo.GetByID(ctx, *inv.ThemeID); err == nil {
			pub.Theme = t
		} else if !errors.Is(err, domain.ErrThemeNotFound) {
			return nil, fmt.Errorf("get theme: %w", err)
		}
	}
	return pub, nil
}

func (s *invitationService) DashboardStats(ctx context.Context, userID string) (*domain.DashboardStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	total, err := s.invitationRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count invitations: %w", err)
	}
	active, err := s.invitationRepo.CountByUserAndStatus(ctx, userID, domain.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("count active invitations: %w", err)
	}
	guestCounts, err := s.guestRepo.CountsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count guests: %w", err)
	}
	byTemplate, err := s.invitationRepo.CountByTemplateCategory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count by template: %w", err)
	}
	return &domain.DashboardStats{
		TotalInvitations:      total,
		ActiveInvitations:     active,
		TotalGuests:           guestCounts.Total,
		TotalAttending:        guestCounts.Attending,
		TotalPending:          guestCounts.Pending,
		TotalNotAttending:     guestCounts.NotAttending,
		InvitationsByTemplate: byTemplate,
	}, nil
}
