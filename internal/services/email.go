package services

import (
	"context"
	"fmt"

	"inviteflow/internal/domain"
)

const guestInviteTemplate = "guest_invite"

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService creates an EmailService backed by the given mailer and
// template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

func (s *emailService) SendGuestInvite(_ context.Context, data *domain.GuestInviteEmailData) error {
	subject, html, text, err := s.renderer.Render(guestInviteTemplate, data)
	if err != nil {
		return fmt.Errorf("render guest invite email: %w", err)
	}
	if err := s.mailer.Send(data.GuestEmail, subject, html, text); err != nil {
		return fmt.Errorf("send guest invite email: %w", err)
	}
	return nil
}
