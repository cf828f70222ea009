package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inviteflow/internal/domain"
)

type userService struct {
	userRepo       domain.UserRepository
	invitationRepo domain.InvitationRepository
	policy         *domain.TierPolicy
}

// NewUserService creates a UserService over the user store and the tier policy.
func NewUserService(userRepo domain.UserRepository, invitationRepo domain.InvitationRepository, policy *domain.TierPolicy) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		invitationRepo: invitationRepo,
		policy:         policy,
	}
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, user *domain.User) error {
	user.Name = strings.TrimSpace(user.Name)
	user.LastName = strings.TrimSpace(user.LastName)
	if user.Email != "" && !emailRegexp.MatchString(user.Email) {
		return fmt.Errorf("invalid email format")
	}
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (s *userService) TierStatus(ctx context.Context, userID string) (*domain.TierStatus, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	count, err := s.invitationRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count invitations: %w", err)
	}

	status := &domain.TierStatus{
		Tier:                user.Tier,
		InvitationCount:     count,
		CanCreateInvitation: s.policy.CanCreateInvitation(user.Tier, count),
	}
	if limit, limited := s.policy.MaxGuestsPerInvitation(user.Tier); limited {
		status.MaxGuestsPerInvitation = &limit
	}
	if remaining, limited := s.policy.InvitationsRemaining(user.Tier, count); limited {
		status.InvitationsRemaining = &remaining
	}
	return status, nil
}
