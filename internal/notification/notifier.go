package notification

import (
	"context"
	"errors"
	"io"
	"strings"

	"e-approval/internal/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var ErrNoRecipients = errors.New("notification has no recipients")

type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

type Message struct {
	To          []string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

//go:generate mockgen -source=notifier.go -destination=mock/notifier_mock.go -package=mock
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// mailSender is satisfied by *gomail.Dialer.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpNotifier struct {
	sender mailSender
	from   string
	logger *zap.Logger
}

// NewNotifier returns an SMTP notifier, or a log-only one when no SMTP host is configured.
func NewNotifier(cfg config.SMTPConfig, logger ...*zap.Logger) Notifier {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	if strings.TrimSpace(cfg.Host) == "" {
		return &logNotifier{logger: l.Named("notification.log")}
	}
	return newSMTPNotifier(gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password), cfg.From, l)
}

func newSMTPNotifier(sender mailSender, from string, l *zap.Logger) *smtpNotifier {
	return &smtpNotifier{sender: sender, from: from, logger: l.Named("notification.smtp")}
}

func (n *smtpNotifier) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	for _, a := range msg.Attachments {
		data := a.Data
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		}
		if a.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}))
		}
		m.Attach(a.Name, settings...)
	}

	if err := n.sender.DialAndSend(m); err != nil {
		return err
	}
	n.logger.Debug("email sent", zap.Strings("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

type logNotifier struct {
	logger *zap.Logger
}

func (n *logNotifier) Send(_ context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	n.logger.Info("email suppressed, smtp not configured",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("attachments", len(msg.Attachments)),
	)
	return nil
}
