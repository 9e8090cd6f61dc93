package email

import (
	"context"
	"fmt"
	"time"

	"pokedex/internal/config"
	"pokedex/internal/logger"
	"pokedex/internal/models"

	"github.com/mailgun/mailgun-go/v5"
)

// Service sends transactional email through Mailgun. It stays disabled
// unless both the domain and API key are configured, so local setups and
// tests never touch the network.
type Service struct {
	client      mailgun.Mailgun
	domain      string
	senderEmail string
	senderName  string
	enabled     bool
}

func NewService(cfg *config.Config) *Service {
	enabled := cfg.MailgunDomain != "" && cfg.MailgunAPIKey != ""

	var client mailgun.Mailgun
	if enabled {
		client = mailgun.NewMailgun(cfg.MailgunAPIKey)
	}

	return &Service{
		client:      client,
		domain:      cfg.MailgunDomain,
		senderEmail: cfg.MailgunSenderEmail,
		senderName:  cfg.MailgunSenderName,
		enabled:     enabled,
	}
}

func (s *Service) IsEnabled() bool {
	return s.enabled
}

func (s *Service) SendWelcomeEmail(user *models.User) error {
	if !s.enabled {
		return fmt.Errorf("email service is not configured")
	}

	subject := fmt.Sprintf("Welcome to the Pokedex, %s!", user.Username)
	textBody := fmt.Sprintf(
		"Hi %s,\n\nYour trainer account is ready. Log in, browse the catalog and start catching!\n",
		user.Username,
	)

	message := mailgun.NewMessage(
		s.domain,
		fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail),
		subject,
		textBody,
		user.Email,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send welcome email to %s: %w", user.Email, err)
	}

	logger.Info("Welcome email sent", "email", user.Email, "message_id", resp)
	return nil
}
