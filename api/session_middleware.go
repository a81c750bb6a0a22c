package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/timelessthreads/storefront/cart"
	"github.com/timelessthreads/storefront/config"
	"github.com/timelessthreads/storefront/session"
	"github.com/timelessthreads/storefront/utils"
	"go.uber.org/zap"
)

const sessionCookie = "session_id"

type contextKey int

const (
	sessionContextKey contextKey = iota
	userContextKey
)

// SessionState is the per-request view of the session bag. Handlers mutate
// Data and call MarkDirty; the middleware writes dirty bags back after the
// handler returns.
type SessionState struct {
	ID    string
	Data  *session.Data
	dirty bool
}

func (s *SessionState) MarkDirty() {
	s.dirty = true
}

// CurrentSession returns the request's session state. It is nil only for
// routes mounted outside the session middleware.
func CurrentSession(r *http.Request) *SessionState {
	state, _ := r.Context().Value(sessionContextKey).(*SessionState)
	return state
}

// SessionMiddleware loads the session bag named by the session_id cookie,
// issuing a fresh id when the cookie is absent. The cart is normalized on
// load; a cart that needed repair is written back even if the handler itself
// changes nothing.
func (h *Handler) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sid string
		if c, err := r.Cookie(sessionCookie); err == nil {
			sid = c.Value
		}

		var data *session.Data
		if sid != "" {
			loaded, err := h.Sessions.Get(r.Context(), sid)
			switch {
			case err == nil:
				data = loaded
			case errors.Is(err, session.ErrNotFound):
				// Expired or unknown id; keep the id, start a fresh bag.
			default:
				// Proceeding with an empty bag here would let a dirty
				// handler overwrite the persisted session with it.
				utils.Error("Failed to load session", zap.String("sid", sid), zap.Error(err))
				utils.RespondError(w, http.StatusServiceUnavailable, "Service unavailable. Please try again.")
				return
			}
		}

		if sid == "" {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   config.SessionTTLHours * 3600,
			})
		}
		if data == nil {
			data = &session.Data{}
		}

		state := &SessionState{ID: sid, Data: data}
		if normalized, changed := cart.Normalize(data.Cart); changed {
			data.Cart = normalized
			state.dirty = true
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, state)
		next.ServeHTTP(w, r.WithContext(ctx))

		if state.dirty {
			if err := h.Sessions.Save(r.Context(), sid, data); err != nil {
				utils.Error("Failed to save session", zap.String("sid", sid), zap.Error(err))
			}
		}
	})
}

// currentUser resolves the acting user's display name, preferring the
// session and falling back to a bearer token.
func (h *Handler) currentUser(r *http.Request) string {
	if state := CurrentSession(r); state != nil && state.Data.Authenticated() {
		return state.Data.User
	}

	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return ""
	}
	userID, err := utils.ValidateToken(strings.TrimPrefix(authz, "Bearer "))
	if err != nil {
		return ""
	}
	user, err := h.Users.FindByID(r.Context(), userID)
	if err != nil {
		return ""
	}
	return user.Name
}

// RequireAuth guards endpoints that need a logged-in user.
func (h *Handler) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := h.currentUser(r)
		if user == "" {
			utils.RespondError(w, http.StatusUnauthorized, "Please log in to continue.")
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

func authedUser(r *http.Request) string {
	user, _ := r.Context().Value(userContextKey).(string)
	return user
}
