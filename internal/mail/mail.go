// Package mail delivers booking confirmation notices.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/freightdesk/internal/config"
	"github.com/JonMunkholm/freightdesk/internal/core"
	"github.com/JonMunkholm/freightdesk/internal/logging"
)

// ErrHeaderInjection rejects recipients or subjects containing line breaks.
var ErrHeaderInjection = errors.New("mail: line break in header value")

// New returns an SMTP notifier when SMTP_HOST is configured and a
// log-only notifier otherwise.
func New(cfg config.MailConfig) core.Notifier {
	if !cfg.Enabled() {
		return LogNotifier{}
	}
	return NewSMTPNotifier(cfg)
}

// LogNotifier logs notices instead of sending them. It is used when no
// SMTP server is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, recipient, subject, body string) error {
	logging.FromContext(ctx).Info("notification not sent, SMTP disabled",
		"recipient", recipient,
		"subject", subject,
	)
	return nil
}

func checkHeader(values ...string) error {
	for _, v := range values {
		if strings.ContainsAny(v, "\r\n") {
			return fmt.Errorf("%w: %q", ErrHeaderInjection, v)
		}
	}
	return nil
}
