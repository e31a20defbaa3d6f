package core

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"sync"
	"time"

	"github.com/JonMunkholm/freightdesk/internal/logging"
	"github.com/JonMunkholm/freightdesk/internal/metrics"
)

// Notifier delivers a message to one recipient. Body is HTML.
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, recipient, subject, body string) error

func (f NotifierFunc) Notify(ctx context.Context, recipient, subject, body string) error {
	return f(ctx, recipient, subject, body)
}

// Notification is a message waiting to be dispatched.
type Notification struct {
	Recipient string
	Subject   string
	Body      string
}

// ConfirmationNotice builds the message sent to a client when one of their
// bookings is confirmed.
func ConfirmationNotice(b Booking, c Client) Notification {
	name := c.Name.String
	if !c.Name.Valid || name == "" {
		name = c.CustomerCode
	}
	return Notification{
		Recipient: c.Email.String,
		Subject:   fmt.Sprintf("Booking %s Confirmed", b.BookingNo),
		Body: fmt.Sprintf(
			"Dear %s,<br><br>Your booking with Booking Number %s has been confirmed.<br><br>Best regards,<br>Freight Desk",
			html.EscapeString(name), html.EscapeString(b.BookingNo),
		),
	}
}

// DefaultNotifyTimeout bounds a single delivery attempt.
const DefaultNotifyTimeout = 30 * time.Second

// Dispatcher sends notifications on background goroutines. Delivery
// failures are logged and counted, never returned to the caller.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewDispatcher returns a Dispatcher delivering through n.
func NewDispatcher(n Notifier, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultNotifyTimeout
	}
	return &Dispatcher{notifier: n, timeout: timeout}
}

// Dispatch schedules n and returns immediately. The send outlives the
// request: it keeps ctx values for logging but not its cancellation.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) {
	if d == nil || d.notifier == nil {
		return
	}
	log := logging.WithFields(ctx, "recipient", n.Recipient, "subject", n.Subject)
	sendCtx := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				metrics.NotificationsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
				log.Error("notification panicked", "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(sendCtx, d.timeout)
		defer cancel()

		if err := d.notifier.Notify(ctx, n.Recipient, n.Subject, n.Body); err != nil {
			metrics.NotificationsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
			log.Warn("notification failed", "error", err)
			return
		}
		metrics.NotificationsTotal.WithLabelValues(metrics.OutcomeSent).Inc()
		log.Info("notification sent")
	}()
}

// Wait blocks until every dispatched notification has finished or ctx is
// done. Used on shutdown.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		slog.Warn("shutdown with notifications still pending")
		return ctx.Err()
	}
}
