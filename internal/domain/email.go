package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// GuestInviteEmailData holds data for the guest invitation email.
type GuestInviteEmailData struct {
	GuestName  string
	GuestEmail string
	Title      string
	EventDate  string
	EventTime  string
	VenueName  string
	InviteURL  string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendGuestInvite(ctx context.Context, data *GuestInviteEmailData) error
}
