package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"inviteflow/internal/domain"
)

type guestService struct {
	guestRepo           domain.GuestRepository
	invitationRepo      domain.InvitationRepository
	shareLinkRepo       domain.ShareLinkRepository
	userRepo            domain.UserRepository
	emailService        domain.EmailService
	policy              *domain.TierPolicy
	publicBaseURL       string
	shareLinkExpiryDays int
	contextTimeout      time.Duration
}

// NewGuestService creates a GuestService covering both owner-side guest
// management and the public RSVP path.
func NewGuestService(
	guestRepo domain.GuestRepository,
	invitationRepo domain.InvitationRepository,
	shareLinkRepo domain.ShareLinkRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	policy *domain.TierPolicy,
	publicBaseURL string,
	shareLinkExpiryDays int,
	timeout time.Duration,
) domain.GuestService {
	return &guestService{
		guestRepo:           guestRepo,
		invitationRepo:      invitationRepo,
		shareLinkRepo:       shareLinkRepo,
		userRepo:            userRepo,
		emailService:        emailService,
		policy:              policy,
		publicBaseURL:       publicBaseURL,
		shareLinkExpiryDays: shareLinkExpiryDays,
		contextTimeout:      timeout,
	}
}

// getOwnedInvitation loads an invitation and enforces ownership.
func (s *guestService) getOwnedInvitation(ctx context.Context, userID, invitationID string) (*domain.Invitation, error) {
	inv, err := s.invitationRepo.GetByID(ctx, invitationID)
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

// getOwnedGuest loads a guest scoped to an owned invitation. A guest that
// exists under a different invitation is reported as not found.
func (s *guestService) getOwnedGuest(ctx context.Context, userID, invitationID, guestID string) (*domain.Guest, error) {
	if _, err := s.getOwnedInvitation(ctx, userID, invitationID); err != nil {
		return nil, err
	}
	g, err := s.guestRepo.GetByID(ctx, guestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get guest: %w", err)
	}
	if g.InvitationID != invitationID {
		return nil, domain.ErrNotFound
	}
	return g, nil
}

// guestCap resolves the effective capacity of an invitation for its owner's
// tier. The second return mirrors TierPolicy: false means unlimited.
func (s *guestService) guestCap(ctx context.Context, inv *domain.Invitation) (int, bool, error) {
	owner, err := s.userRepo.GetByID(ctx, inv.UserID)
	if err != nil {
		return 0, false, fmt.Errorf("get user: %w", err)
	}
	cap, limited := s.policy.GuestCap(owner.Tier, inv.MaxGuests)
	return cap, limited, nil
}

func (s *guestService) List(ctx context.Context, userID, invitationID string) ([]*domain.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getOwnedInvitation(ctx, userID, invitationID); err != nil {
		return nil, err
	}
	guests, err := s.guestRepo.ListByInvitation(ctx, invitationID)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	return guests, nil
}

func (s *guestService) Create(ctx context.Context, userID, invitationID string, g *domain.Guest) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	inv, err := s.getOwnedInvitation(ctx, userID, invitationID)
	if err != nil {
		return err
	}
	cap, limited, err := s.guestCap(ctx, inv)
	if err != nil {
		return err
	}
	if limited {
		count, err := s.guestRepo.CountByInvitation(ctx, invitationID)
		if err != nil {
			return fmt.Errorf("count guests: %w", err)
		}
		if count >= cap {
			return domain.ErrGuestLimitReached
		}
	}
	prepareGuest(g, invitationID)
	if err := s.guestRepo.Create(ctx, g); err != nil {
		if errors.Is(err, domain.ErrDuplicateGuest) {
			return err
		}
		return fmt.Errorf("create guest: %w", err)
	}
	return nil
}

func (s *guestService) BulkCreate(ctx context.Context, userID, invitationID string, guests []*domain.Guest) ([]*domain.Guest, []domain.BulkGuestError, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	inv, err := s.getOwnedInvitation(ctx, userID, invitationID)
	if err != nil {
		return nil, nil, err
	}
	cap, limited, err := s.guestCap(ctx, inv)
	if err != nil {
		return nil, nil, err
	}
	count := 0
	if limited {
		count, err = s.guestRepo.CountByInvitation(ctx, invitationID)
		if err != nil {
			return nil, nil, fmt.Errorf("count guests: %w", err)
		}
	}

	created := make([]*domain.Guest, 0, len(guests))
	bulkErrs := make([]domain.BulkGuestError, 0)
	for _, g := range guests {
		if limited && count >= cap {
			bulkErrs = append(bulkErrs, domain.BulkGuestError{Email: g.Email, Error: "guest limit reached"})
			continue
		}
		if err := validateGuest(g); err != nil {
			bulkErrs = append(bulkErrs, domain.BulkGuestError{Email: g.Email, Error: err.Error()})
			continue
		}
		prepareGuest(g, invitationID)
		if err := s.guestRepo.Create(ctx, g); err != nil {
			msg := "could not create guest"
			if errors.Is(err, domain.ErrDuplicateGuest) {
				msg = "guest with this email already exists"
			}
			bulkErrs = append(bulkErrs, domain.BulkGuestError{Email: g.Email, Error: msg})
			continue
		}
		created = append(created, g)
		count++
	}
	return created, bulkErrs, nil
}

func (s *guestService) Get(ctx context.Context, userID, invitationID, guestID string) (*domain.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.getOwnedGuest(ctx, userID, invitationID, guestID)
}

func (s *guestService) Update(ctx context.Context, userID, invitationID, guestID string, patch *domain.GuestUpdate) (*domain.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	g, err := s.getOwnedGuest(ctx, userID, invitationID, guestID)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		g.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		g.Email = strings.ToLower(strings.TrimSpace(*patch.Email))
	}
	if patch.Phone != nil {
		g.Phone = *patch.Phone
	}
	if patch.RSVPStatus != nil {
		g.RSVPStatus = *patch.RSVPStatus
		now := time.Now()
		g.RSVPDate = &now
	}
	if patch.PlusOne != nil {
		g.PlusOne = *patch.PlusOne
	}
	if patch.PlusOneCount != nil {
		g.PlusOneCount = *patch.PlusOneCount
	}
	if patch.Notes != nil {
		g.Notes = *patch.Notes
	}
	g.UpdatedAt = time.Now()
	if err := s.guestRepo.Update(ctx, g); err != nil {
		if errors.Is(err, domain.ErrDuplicateGuest) {
			return nil, err
		}
		return nil, fmt.Errorf("update guest: %w", err)
	}
	return g, nil
}

func (s *guestService) Delete(ctx context.Context, userID, invitationID, guestID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	g, err := s.getOwnedGuest(ctx, userID, invitationID, guestID)
	if err != nil {
		return err
	}
	if err := s.guestRepo.Delete(ctx, g.ID); err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}
	return nil
}

func (s *guestService) SendInvite(ctx context.Context, userID, invitationID, guestID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	inv, err := s.getOwnedInvitation(ctx, userID, invitationID)
	if err != nil {
		return err
	}
	g, err := s.getOwnedGuest(ctx, userID, invitationID, guestID)
	if err != nil {
		return err
	}

	link, err := s.shareLinkRepo.FirstActiveByInvitation(ctx, invitationID, time.Now())
	if errors.Is(err, domain.ErrNotFound) {
		link, err = newShareLink(ctx, s.shareLinkRepo, invitationID, s.shareLinkExpiryDays)
	}
	if err != nil {
		return fmt.Errorf("get share link: %w", err)
	}

	eventTime := ""
	if inv.EventTime != nil {
		eventTime = *inv.EventTime
	}
	data := domain.GuestInviteEmailData{
		GuestName:  g.Name,
		GuestEmail: g.Email,
		Title:      inv.Title,
		EventDate:  inv.EventDate.Format("2006-01-02"),
		EventTime:  eventTime,
		VenueName:  inv.VenueName,
		InviteURL:  fmt.Sprintf("%s/invite/%s", strings.TrimRight(s.publicBaseURL, "/"), link.Token),
	}
	if err := s.emailService.SendGuestInvite(ctx, &data); err != nil {
		return fmt.Errorf("send invite email: %w", err)
	}
	// The sent flag records a successful dispatch, so it is only set here.
	if err := s.guestRepo.MarkInvitationSent(ctx, g.ID, time.Now()); err != nil {
		return fmt.Errorf("mark invitation sent: %w", err)
	}
	return nil
}

func (s *guestService) SubmitRSVP(ctx context.Context, token string, sub *domain.RSVPSubmission) (*domain.Guest, error) {
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

	now := time.Now()
	g := &domain.Guest{
		InvitationID: link.InvitationID,
		Name:         strings.TrimSpace(sub.Name),
		Email:        strings.ToLower(strings.TrimSpace(sub.Email)),
		RSVPStatus:   sub.Status,
		RSVPDate:     &now,
		PlusOne:      sub.PlusOne,
		PlusOneCount: sub.PlusOneCount,
		Notes:        sub.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := validateGuest(g); err != nil {
		return nil, err
	}
	if !g.RSVPStatus.Valid() {
		return nil, fmt.Errorf("%w: invalid rsvp status %q", domain.ErrInvalidGuest, g.RSVPStatus)
	}
	if err := s.guestRepo.Upsert(ctx, g); err != nil {
		return nil, fmt.Errorf("upsert guest: %w", err)
	}
	return g, nil
}

// prepareGuest normalizes a guest for insertion under the given invitation.
func prepareGuest(g *domain.Guest, invitationID string) {
	g.InvitationID = invitationID
	g.Name = strings.TrimSpace(g.Name)
	g.Email = strings.ToLower(strings.TrimSpace(g.Email))
	if g.RSVPStatus == "" {
		g.RSVPStatus = domain.RSVPPending
	}
	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now
}

// validateGuest checks the fields required of every guest row.
func validateGuest(g *domain.Guest) error {
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidGuest)
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(g.Email)); err != nil {
		return fmt.Errorf("%w: a valid email is required", domain.ErrInvalidGuest)
	}
	return nil
}
