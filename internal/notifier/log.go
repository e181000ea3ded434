package notifier

import (
	"context"
	"log"
)

// Log writes codes to the process log instead of sending email. Used in
// development when no SMTP credentials are configured.
type Log struct{}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) SendOTP(ctx context.Context, email, code string) error {
	log.Printf("INFO [notifier.Log] OTP for %s: %s (log only; configure SMTP for real email)", email, code)
	return nil
}

var _ Notifier = (*Log)(nil)
