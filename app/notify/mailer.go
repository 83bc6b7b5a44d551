package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/asellingson28/ytmail/app/cfg"
	"github.com/asellingson28/ytmail/app/feed"
)

type Sender interface {
	Send(ctx context.Context, msg *mail.Msg) error
}

// SMTPSender dials the configured server for every message, upgrading with STARTTLS.
type SMTPSender struct {
	settings cfg.EmailSettings
	timeout  time.Duration
}

func NewSMTPSender(settings cfg.EmailSettings, timeout time.Duration) *SMTPSender {
	return &SMTPSender{settings: settings, timeout: timeout}
}

func (s *SMTPSender) Send(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(s.settings.SMTPPort),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if s.timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.timeout))
	}
	if s.settings.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.settings.Username),
			mail.WithPassword(s.settings.Password),
		)
	}

	client, err := mail.NewClient(s.settings.SMTPServer, opts...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

type Mailer struct {
	sender Sender
	from   string
	to     []string
}

func NewMailer(settings cfg.EmailSettings, sender Sender) *Mailer {
	var to []string
	for _, addr := range strings.Split(settings.To, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}

	return &Mailer{
		sender: sender,
		from:   settings.From,
		to:     to,
	}
}

// Notify sends one HTML email announcing item. Failures come back as *NotifyError.
func (m *Mailer) Notify(ctx context.Context, channelName string, item feed.Item) error {
	msg, err := m.compose(channelName, item)
	if err != nil {
		return &NotifyError{ChannelName: channelName, ItemID: item.ID, Err: err}
	}

	if err := m.sender.Send(ctx, msg); err != nil {
		slog.Error("Failed to send email", "channel", channelName, "item", item.ID, "error", err)
		return &NotifyError{ChannelName: channelName, ItemID: item.ID, Err: err}
	}

	slog.Info("Email sent", "subject", subject(channelName, item), "item", item.ID)

	return nil
}

func (m *Mailer) compose(channelName string, item feed.Item) (*mail.Msg, error) {
	html, err := body(item)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("failed to set sender: %w", err)
	}
	if err := msg.To(m.to...); err != nil {
		return nil, fmt.Errorf("failed to set recipients: %w", err)
	}
	msg.Subject(subject(channelName, item))
	msg.SetBodyString(mail.TypeTextHTML, html)

	return msg, nil
}
