// Package session stores the per-client state bag: the authenticated user
// marker, the pending fields of the multi-step auth flow, and the cart.
// Sessions are keyed by an opaque id carried in a cookie and expire after a
// configured TTL.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/timelessthreads/storefront/cart"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// Data is the session bag. All fields are optional; each auth flow step
// validates the presence of the fields it needs and treats anything missing
// as an expired flow.
type Data struct {
	User              string       `json:"user,omitempty"`
	OTPMode           string       `json:"otp_mode,omitempty"`
	PendingIdentifier string       `json:"pending_identifier,omitempty"`
	PendingName       string       `json:"pending_name,omitempty"`
	OAuthState        string       `json:"oauth_state,omitempty"`
	Cart              []cart.Entry `json:"cart,omitempty"`
}

// ClearAuth removes authentication and pending signup state in one step.
// The cart is deliberately left in place; logging out does not empty it.
func (d *Data) ClearAuth() {
	d.User = ""
	d.OTPMode = ""
	d.PendingIdentifier = ""
	d.PendingName = ""
	d.OAuthState = ""
}

// Authenticated reports whether the session carries a logged-in user.
func (d *Data) Authenticated() bool {
	return d.User != ""
}

// Store persists session bags across requests. Implementations must treat a
// missing or expired id as ErrNotFound rather than an error condition.
type Store interface {
	Get(ctx context.Context, sid string) (*Data, error)
	Save(ctx context.Context, sid string, data *Data) error
	Delete(ctx context.Context, sid string) error
}

// storageTTL bounds how long an untouched session survives.
func storageTTL(hours int) time.Duration {
	if hours < 1 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}
