// Package mail sends the site's outbound email: contact form relays and
// password reset links.
package mail

import (
	"context"
	"fmt"

	"hearth/internal/config"
	"hearth/internal/models"

	gomail "github.com/wneessen/go-mail"
)

// Message is one outbound plaintext email.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// Sender delivers messages. Tests substitute a recording fake.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers messages over authenticated STARTTLS SMTP.
type SMTPSender struct {
	host     string
	port     int
	from     string
	password string
}

// NewSMTPSender builds a sender from the configured SMTP credentials.
func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.FromEmail,
		password: cfg.FromPassword,
	}
}

// Send delivers one message. Failures come back as typed mail errors so
// handlers report them instead of crashing the request.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.from),
		gomail.WithPassword(s.password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return models.NewMailError(err)
	}

	m := gomail.NewMsg()
	if err := m.From(s.from); err != nil {
		return models.NewMailError(err)
	}
	if err := m.To(msg.To); err != nil {
		return models.NewMailError(err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return models.NewMailError(err)
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return models.NewMailError(err)
	}
	return nil
}

// ContactMessage builds the fixed-format relay for a contact form submission.
func ContactMessage(to, name, replyTo, text string) Message {
	return Message{
		To:      to,
		ReplyTo: replyTo,
		Subject: "The Hearth Contact Form Submission",
		Body: fmt.Sprintf(
			"%s has tried to contact you.\nThey sent the message: %s\nTo reply to them, send an email to %s.\n",
			name, text, replyTo,
		),
	}
}

// PasswordResetMessage builds the reset email with a signed link.
func PasswordResetMessage(to, link string) Message {
	return Message{
		To:      to,
		Subject: "The Hearth Password Reset",
		Body: fmt.Sprintf(
			"A password reset was requested for your account.\nFollow this link within one hour to choose a new password:\n%s\n\nIf you did not request this, you can ignore this email.\n",
			link,
		),
	}
}
