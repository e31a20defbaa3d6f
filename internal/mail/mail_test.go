package mail

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/freightdesk/internal/config"
	gomail "github.com/wneessen/go-mail"
)

// fakeSMTP accepts one session and returns what the client sent.
type fakeSMTP struct {
	addr     string
	received chan session
}

type session struct {
	from, rcpt string
	data       string
}

func startFakeSMTP(t *testing.T, rejectRcpt bool) *fakeSMTP {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	f := &fakeSMTP{addr: ln.Addr().String(), received: make(chan session, 1)}
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		tp := textproto.NewConn(conn)

		var s session
		tp.PrintfLine("220 fake ESMTP")
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			cmd := strings.ToUpper(line)
			switch {
			case strings.HasPrefix(cmd, "HELO"):
				tp.PrintfLine("250 fake")
			case strings.HasPrefix(cmd, "EHLO"):
				tp.PrintfLine("250-fake")
				tp.PrintfLine("250 HELP")
			case strings.HasPrefix(cmd, "MAIL FROM:"):
				s.from = line[len("MAIL FROM:"):]
				tp.PrintfLine("250 ok")
			case strings.HasPrefix(cmd, "RCPT TO:"):
				if rejectRcpt {
					tp.PrintfLine("550 no such user")
					continue
				}
				s.rcpt = line[len("RCPT TO:"):]
				tp.PrintfLine("250 ok")
			case cmd == "DATA":
				tp.PrintfLine("354 go ahead")
				data, err := tp.ReadDotBytes()
				if err != nil {
					return
				}
				s.data = string(data)
				tp.PrintfLine("250 queued")
			case cmd == "RSET" || cmd == "NOOP":
				tp.PrintfLine("250 ok")
			case cmd == "QUIT":
				tp.PrintfLine("221 bye")
				f.received <- s
				return
			default:
				tp.PrintfLine("502 unsupported")
			}
		}
	}()
	return f
}

func notifierFor(t *testing.T, addr string) *SMTPNotifier {
	t.Helper()
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatal(err)
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		t.Fatal(err)
	}
	return NewSMTPNotifier(config.MailConfig{Host: host, Port: p, From: "bookings@freight.test", Timeout: 5 * time.Second})
}

func TestSMTPNotifier_Delivers(t *testing.T) {
	srv := startFakeSMTP(t, false)
	n := notifierFor(t, srv.addr)

	err := n.Notify(context.Background(), "ops@acme.test", "Booking BK001 Confirmed", "Dear Acme,<br><br>confirmed")
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	select {
	case s := <-srv.received:
		if s.from != "<bookings@freight.test>" || s.rcpt != "<ops@acme.test>" {
			t.Errorf("envelope = %q -> %q", s.from, s.rcpt)
		}
		for _, want := range []string{
			"Subject: Booking BK001 Confirmed",
			"ops@acme.test",
			"text/html",
			"Dear Acme,<br><br>confirmed",
		} {
			if !strings.Contains(s.data, want) {
				t.Errorf("message missing %q:\n%s", want, s.data)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server never completed the session")
	}
}

func TestSMTPNotifier_RejectedRecipient(t *testing.T) {
	srv := startFakeSMTP(t, true)
	n := notifierFor(t, srv.addr)

	err := n.Notify(context.Background(), "ghost@acme.test", "s", "b")
	var sendErr *gomail.SendError
	if !errors.As(err, &sendErr) || sendErr.Reason != gomail.ErrSMTPRcptTo {
		t.Fatalf("Notify = %v, want RCPT TO send error", err)
	}
}

func TestSMTPNotifier_Message(t *testing.T) {
	n := NewSMTPNotifier(config.MailConfig{Host: "smtp.freight.test", Port: 587, From: "bookings@freight.test"})

	msg, err := n.message("ops@acme.test", "Booking BK001 Confirmed", "<p>confirmed</p>")
	if err != nil {
		t.Fatalf("message: %v", err)
	}
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Subject: Booking BK001 Confirmed",
		"bookings@freight.test",
		"ops@acme.test",
		"@smtp.freight.test>",
		"Date: ",
		"text/html",
		"<p>confirmed</p>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("message missing %q:\n%s", want, out)
		}
	}

	if _, err := n.message("not an address", "s", "b"); err == nil {
		t.Error("invalid recipient should be rejected")
	}
}

func TestSMTPNotifier_HeaderInjection(t *testing.T) {
	n := NewSMTPNotifier(config.MailConfig{Host: "127.0.0.1", Port: 1})
	err := n.Notify(context.Background(), "a@x.test\r\nBcc: everyone@x.test", "s", "b")
	if !errors.Is(err, ErrHeaderInjection) {
		t.Fatalf("Notify = %v, want ErrHeaderInjection", err)
	}
}

func TestSMTPNotifier_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := NewSMTPNotifier(config.MailConfig{Host: "127.0.0.1", Port: 1, Timeout: time.Second})
	if err := n.Notify(ctx, "a@x.test", "s", "b"); err == nil {
		t.Fatal("Notify with cancelled context should fail")
	}
}

func TestNew(t *testing.T) {
	if _, ok := New(config.MailConfig{}).(LogNotifier); !ok {
		t.Error("no SMTP host should select LogNotifier")
	}
	if _, ok := New(config.MailConfig{Host: "smtp.example.test", Port: 587}).(*SMTPNotifier); !ok {
		t.Error("SMTP host should select SMTPNotifier")
	}
	if err := (LogNotifier{}).Notify(context.Background(), "a@x.test", "s", "b"); err != nil {
		t.Errorf("LogNotifier: %v", err)
	}
}
