package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"go.uber.org/zap"

	"github.com/buildworks/scrollfx/internal/config"
)

var ErrMailNotConfigured = errors.New("mail is not configured")

const sendTimeout = 30 * time.Second

// MailgunSubmitter mails each inquiry to the sales inbox
type MailgunSubmitter struct {
	cfg    config.MailConfig
	log    *zap.Logger
	client mailgun.Mailgun
}

func NewMailgunSubmitter(cfg config.MailConfig, log *zap.Logger) (*MailgunSubmitter, error) {
	var missing []string
	for key, v := range map[string]string{"mail.domain": cfg.Domain, "mail.api_key": cfg.APIKey, "mail.from": cfg.From, "mail.to": cfg.To} {
		if v == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrMailNotConfigured, strings.Join(missing, ", "))
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &MailgunSubmitter{
		cfg:    cfg,
		log:    log.Named("mailgun"),
		client: mailgun.NewMailgun(cfg.Domain, cfg.APIKey),
	}, nil
}

// SetAPIBase points the client at another Mailgun endpoint
func (s *MailgunSubmitter) SetAPIBase(url string) {
	s.client.SetAPIBase(url)
}

func (s *MailgunSubmitter) Submit(ctx context.Context, d FormData) error {
	subject := fmt.Sprintf("New inquiry from %s (%s)", strings.TrimSpace(d.Name), d.ProjectType)
	message := s.client.NewMessage(s.cfg.From, subject, mailBody(d), s.cfg.To)
	message.SetReplyTo(strings.TrimSpace(d.Email))

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, id, err := s.client.Send(sendCtx, message)
	if err != nil {
		s.log.Error("failed to send inquiry", zap.String("email", d.Email), zap.Error(err))
		return fmt.Errorf("mailgun send: %w", err)
	}
	s.log.Info("inquiry mailed", zap.String("message_id", id))
	return nil
}

func mailBody(d FormData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", strings.TrimSpace(d.Name))
	fmt.Fprintf(&b, "Email: %s\n", strings.TrimSpace(d.Email))
	if phone := strings.TrimSpace(d.Phone); phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", phone)
	}
	fmt.Fprintf(&b, "Project type: %s\n", d.ProjectType)
	fmt.Fprintf(&b, "Budget: %s\n\n", d.Budget)
	b.WriteString(strings.TrimSpace(d.Message))
	b.WriteString("\n")
	return b.String()
}
