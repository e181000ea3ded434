package notifier

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

const sendTimeout = 15 * time.Second

// SMTP sends OTP emails over an authenticated SMTP connection.
type SMTP struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewSMTP(host string, port int, user, pass, from string) *SMTP {
	if from == "" {
		from = user
	}
	return &SMTP{host: host, port: port, user: user, pass: pass, from: from}
}

func (s *SMTP) SendOTP(ctx context.Context, email, code string) error {
	addr := net.JoinHostPort(s.host, fmt.Sprintf("%d", s.port))
	auth := smtp.PlainAuth("", s.user, s.pass, s.host)

	msg := s.buildMessage(email, code)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, s.from, []string{email}, msg)
	}()

	timer := time.NewTimer(sendTimeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-timer.C:
		return fmt.Errorf("smtp send: timed out after %s", sendTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SMTP) buildMessage(email, code string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", email)
	b.WriteString("Subject: Your Login OTP\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString("<h1>Login Verification</h1>")
	fmt.Fprintf(&b, "<p>Your OTP for login is: <strong>%s</strong></p>", code)
	b.WriteString("<p>This OTP will expire in 10 minutes.</p>")
	b.WriteString("<p>If you didn't request this OTP, please ignore this email.</p>")
	return []byte(b.String())
}

var _ Notifier = (*SMTP)(nil)
