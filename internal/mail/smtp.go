package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/freightdesk/internal/config"
	"github.com/google/uuid"
	gomail "github.com/wneessen/go-mail"
)

// SMTPNotifier sends HTML notices through an SMTP relay, upgrading to
// STARTTLS when the server offers it.
type SMTPNotifier struct {
	host     string
	port     int
	from     string
	username string
	password string
	timeout  time.Duration
}

// NewSMTPNotifier builds a notifier from the mail settings. No connection
// is made until the first Notify.
func NewSMTPNotifier(cfg config.MailConfig) *SMTPNotifier {
	return &SMTPNotifier{
		host:     cfg.Host,
		port:     cfg.Port,
		from:     cfg.From,
		username: cfg.Username,
		password: cfg.Password,
		timeout:  cfg.Timeout,
	}
}

// Notify delivers one message over its own connection. The exchange is
// bounded by the earlier of ctx's deadline and the configured timeout.
func (n *SMTPNotifier) Notify(ctx context.Context, recipient, subject, body string) error {
	if err := checkHeader(recipient, subject); err != nil {
		return err
	}

	msg, err := n.message(recipient, subject, body)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(n.host, n.clientOptions()...)
	if err != nil {
		return fmt.Errorf("smtp client %s: %w", n.host, err)
	}

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", recipient, err)
	}
	return nil
}

func (n *SMTPNotifier) clientOptions() []gomail.Option {
	opts := []gomail.Option{
		gomail.WithPort(n.port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if n.timeout > 0 {
		opts = append(opts, gomail.WithTimeout(n.timeout))
	}
	if n.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(n.username),
			gomail.WithPassword(n.password),
		)
	}
	return opts
}

// message builds the HTML notice.
func (n *SMTPNotifier) message(recipient, subject, body string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return nil, fmt.Errorf("smtp sender %q: %w", n.from, err)
	}
	if err := msg.To(recipient); err != nil {
		return nil, fmt.Errorf("smtp recipient %q: %w", recipient, err)
	}
	msg.Subject(subject)
	msg.SetDate()
	msg.SetMessageIDWithValue(uuid.NewString() + "@" + n.host)
	msg.SetBodyString(gomail.TypeTextHTML, body)
	return msg, nil
}
