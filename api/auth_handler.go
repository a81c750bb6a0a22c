package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/timelessthreads/storefront/models"
	"github.com/timelessthreads/storefront/store"
	"github.com/timelessthreads/storefront/utils"
	"go.uber.org/zap"
)

// The passwordless flows. Login: send-otp then verify-otp. Signup: signup
// (identifier) then signup/name, which issues the code, then verify-otp,
// which creates the account. Each step checks the session state left by the
// previous one and reports an expired flow when it is missing.

type identifierRequest struct {
	Identifier string `json:"identifier"`
}

// SendOTP starts a login: it records the pending identifier in the session
// and delivers a fresh code. Delivery failures are logged, not surfaced; the
// code can be re-requested.
func (h *Handler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req identifierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" {
		utils.RespondError(w, http.StatusBadRequest, "Enter a valid mobile number or email.")
		return
	}

	state := CurrentSession(r)
	state.Data.OTPMode = "login"
	state.Data.PendingIdentifier = identifier
	state.MarkDirty()

	code, err := h.OTP.Generate(identifier)
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "Could not generate a verification code. Please try again.")
		return
	}
	if err := h.Sender.SendCode(r.Context(), identifier, code); err != nil {
		utils.Error("Failed to deliver OTP", zap.String("destination", identifier), zap.Error(err))
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "OTP sent.",
		"next":    "verify",
	})
}

type verifyRequest struct {
	Identifier string `json:"identifier"`
	OTP        string `json:"otp"`
}

// VerifyOTP finishes both flows. The code is checked (and consumed) before
// the mode is looked at, so a wrong code never leaks which flow is active.
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	state := CurrentSession(r)
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" {
		identifier = state.Data.PendingIdentifier
	}
	if identifier == "" {
		utils.RespondError(w, http.StatusConflict, "Session expired. Please start again.")
		return
	}

	if !h.OTP.Verify(identifier, strings.TrimSpace(req.OTP)) {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid or expired OTP.")
		return
	}

	switch state.Data.OTPMode {
	case "login":
		h.finishLogin(w, r, state, identifier)
	case "signup":
		h.finishSignup(w, r, state, identifier)
	default:
		utils.RespondError(w, http.StatusConflict, "Session expired. Please start again.")
	}
}

func (h *Handler) finishLogin(w http.ResponseWriter, r *http.Request, state *SessionState, identifier string) {
	user, err := h.Users.FindByIdentifier(r.Context(), identifier)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"message": "Not registered yet. Please sign up first.",
			"next":    "signup",
		})
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "Service unavailable. Please try again.")
		return
	}

	state.Data.User = user.Name
	state.Data.OTPMode = ""
	state.Data.PendingIdentifier = ""
	state.MarkDirty()

	resp := map[string]interface{}{
		"message": "Logged in successfully.",
		"user":    user,
	}
	if token, err := utils.GenerateToken(user.ID.Hex()); err != nil {
		// The session cookie still authenticates; an empty token must not
		// reach clients that would store it.
		utils.Error("Failed to mint token", zap.Error(err))
	} else {
		resp["token"] = token
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}

// finishSignup creates the account. Registration only happens here, after
// the code for the pending identifier verified.
func (h *Handler) finishSignup(w http.ResponseWriter, r *http.Request, state *SessionState, identifier string) {
	if state.Data.PendingIdentifier == "" || state.Data.PendingName == "" {
		utils.RespondError(w, http.StatusConflict, "Signup session expired. Please start again.")
		return
	}
	if identifier != state.Data.PendingIdentifier {
		utils.RespondError(w, http.StatusConflict, "Signup session expired. Please start again.")
		return
	}

	// Re-check uniqueness; someone may have registered the identifier while
	// this signup was in flight.
	_, err := h.Users.FindByIdentifier(r.Context(), identifier)
	if err == nil {
		utils.RespondError(w, http.StatusConflict, "This mobile number or email is already registered. Please log in.")
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, http.StatusServiceUnavailable, "Service unavailable. Please try again.")
		return
	}

	user, err := h.Users.Create(r.Context(), &models.User{
		Identifier: identifier,
		Name:       state.Data.PendingName,
	})
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "Could not create your account. Please try again.")
		return
	}

	state.Data.User = user.Name
	state.Data.OTPMode = ""
	state.Data.PendingIdentifier = ""
	state.Data.PendingName = ""
	state.MarkDirty()

	resp := map[string]interface{}{
		"message": "Account created successfully.",
		"user":    user,
	}
	if token, err := utils.GenerateToken(user.ID.Hex()); err != nil {
		utils.Error("Failed to mint token", zap.Error(err))
	} else {
		resp["token"] = token
	}
	utils.RespondJSON(w, http.StatusCreated, resp)
}

// SignupStart checks the identifier is free and parks it in the session.
func (h *Handler) SignupStart(w http.ResponseWriter, r *http.Request) {
	var req identifierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" {
		utils.RespondError(w, http.StatusBadRequest, "Enter a valid mobile number or email.")
		return
	}

	_, err := h.Users.FindByIdentifier(r.Context(), identifier)
	if err == nil {
		utils.RespondError(w, http.StatusConflict, "This mobile number or email is already registered. Please log in.")
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, http.StatusServiceUnavailable, "Service unavailable. Please try again.")
		return
	}

	state := CurrentSession(r)
	state.Data.PendingIdentifier = identifier
	state.Data.OTPMode = ""
	state.Data.PendingName = ""
	state.MarkDirty()

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Identifier accepted.",
		"next":    "name",
	})
}

type nameRequest struct {
	Name string `json:"name"`
}

// SignupName records the display name and issues the signup code.
func (h *Handler) SignupName(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	state := CurrentSession(r)
	if state.Data.PendingIdentifier == "" {
		utils.RespondError(w, http.StatusConflict, "Signup session expired. Please start again.")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		utils.RespondError(w, http.StatusBadRequest, "Please enter your name.")
		return
	}

	state.Data.PendingName = name
	state.Data.OTPMode = "signup"
	state.MarkDirty()

	code, err := h.OTP.Generate(state.Data.PendingIdentifier)
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "Could not generate a verification code. Please try again.")
		return
	}
	if err := h.Sender.SendCode(r.Context(), state.Data.PendingIdentifier, code); err != nil {
		utils.Error("Failed to deliver OTP", zap.String("destination", state.Data.PendingIdentifier), zap.Error(err))
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "OTP sent.",
		"next":    "verify",
	})
}

// Logout drops authentication and any half-finished flow. The cart stays.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	state := CurrentSession(r)
	state.Data.ClearAuth()
	state.MarkDirty()
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully."})
}

// Me reports the acting user, resolved from the session or a bearer token.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"user": authedUser(r)})
}
