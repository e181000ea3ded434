// Package notifier delivers one-time login codes to users. Implementations
// must return within a bounded time; callers treat any error as a failed
// delivery and surface it as such.
package notifier

import "context"

type Notifier interface {
	SendOTP(ctx context.Context, email, code string) error
}
