// Package api holds the HTTP layer: the chi router, the session cookie
// middleware and the storefront handlers.
package api

import (
	"context"

	"github.com/timelessthreads/storefront/notify"
	"github.com/timelessthreads/storefront/otp"
	"github.com/timelessthreads/storefront/session"
	"github.com/timelessthreads/storefront/store"
	"github.com/timelessthreads/storefront/utils"
)

// Handler carries the dependencies shared by all storefront endpoints.
type Handler struct {
	Users    store.UserStore
	Products store.ProductStore
	Reviews  store.ReviewStore
	OTP      *otp.Store
	Sessions session.Store
	Sender   notify.Sender

	// PresignImages rewrites stored image keys into browser-usable URLs.
	// Tests replace it to avoid touching S3.
	PresignImages func(ctx context.Context, images []string) []string
}

func NewHandler(users store.UserStore, products store.ProductStore, reviews store.ReviewStore,
	otpStore *otp.Store, sessions session.Store, sender notify.Sender) *Handler {
	return &Handler{
		Users:         users,
		Products:      products,
		Reviews:       reviews,
		OTP:           otpStore,
		Sessions:      sessions,
		Sender:        sender,
		PresignImages: utils.PresignImageURLs,
	}
}
