package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/eyuppastirmaci/agenda-pulse/internal/models"
)

// RecipientResolver maps a user id to an email address. User profiles are
// owned by the auth service; until it exposes a directory endpoint the
// static resolver below stands in.
type RecipientResolver interface {
	EmailFor(userID string) (string, error)
}

// StaticResolver resolves every user to one configured address.
type StaticResolver struct {
	Address string
}

func (r StaticResolver) EmailFor(userID string) (string, error) {
	if r.Address == "" {
		return "", fmt.Errorf("no email address configured for user %s", userID)
	}
	return r.Address, nil
}

// Sender renders and transmits notification emails over SMTP. It raises on
// failure and never retries; the pipeline owns the resulting status.
type Sender struct {
	config    Config
	templates *TemplateManager
	resolver  RecipientResolver
}

func NewSender(config Config, resolver RecipientResolver) (*Sender, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email config: %w", err)
	}

	tm, err := NewTemplateManager(config.TemplatesDir)
	if err != nil {
		return nil, err
	}

	return &Sender{
		config:    config,
		templates: tm,
		resolver:  resolver,
	}, nil
}

// Send renders the category template for the notification and delivers it to
// the owning user's address.
func (s *Sender) Send(notification *models.Notification) error {
	to, err := s.resolver.EmailFor(notification.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve recipient: %w", err)
	}

	htmlBody, err := s.templates.Render(TemplateFor(notification.Type), TemplateData{
		Title:   notification.Title,
		Message: notification.Message,
		Type:    notification.Type,
	})
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", notification.Title)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.Username, s.config.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
