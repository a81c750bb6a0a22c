// Package notify delivers one-time codes to users. Delivery is best effort:
// the auth flow logs failures and proceeds to the verification step either
// way, so no implementation here retries.
package notify

import "context"

// Sender delivers a one-time code to a destination (phone number or email
// address). Implementations: SendGridSender (HTTP API), SMTPSender (direct
// submission) and LogSender (server log, local development).
type Sender interface {
	SendCode(ctx context.Context, destination, code string) error
}
