package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/timelessthreads/storefront/config"
	"github.com/timelessthreads/storefront/models"
	"github.com/timelessthreads/storefront/store"
	"github.com/timelessthreads/storefront/utils"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// getOauthConfig builds the config lazily because the package-level config
// variables are only populated after LoadConfig runs.
func getOauthConfig() *oauth2.Config {
	return &oauth2.Config{
		RedirectURL:  config.GoogleRedirectURL,
		ClientID:     config.GoogleClientID,
		ClientSecret: config.GoogleClientSecret,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}
}

// GoogleLogin redirects to Google's consent page with a per-session state.
func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := CurrentSession(r)
	state.Data.OAuthState = uuid.NewString()
	state.MarkDirty()

	url := getOauthConfig().AuthCodeURL(state.Data.OAuthState)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

type googleUserInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleCallback exchanges the code, fetches the profile and logs the user
// in, creating the account on first sight of the email.
func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	state := CurrentSession(r)
	if state.Data.OAuthState == "" || r.FormValue("state") != state.Data.OAuthState {
		utils.RespondError(w, http.StatusBadRequest, "Invalid OAuth state.")
		return
	}
	state.Data.OAuthState = ""
	state.MarkDirty()

	code := r.FormValue("code")
	if code == "" {
		utils.RespondError(w, http.StatusBadRequest, "Authorization code missing.")
		return
	}

	oauthConfig := getOauthConfig()
	token, err := oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		utils.Error("Failed to exchange OAuth code", zap.Error(err))
		utils.RespondError(w, http.StatusServiceUnavailable, "Google sign-in failed. Please try again.")
		return
	}

	resp, err := oauthConfig.Client(r.Context(), token).Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		utils.Error("Failed to fetch Google user info", zap.Error(err))
		utils.RespondError(w, http.StatusServiceUnavailable, "Google sign-in failed. Please try again.")
		return
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.Email == "" {
		utils.RespondError(w, http.StatusServiceUnavailable, "Google sign-in failed. Please try again.")
		return
	}

	user, err := h.Users.FindByIdentifier(r.Context(), info.Email)
	if errors.Is(err, store.ErrNotFound) {
		name := info.Name
		if name == "" {
			name = info.Email
		}
		user, err = h.Users.Create(r.Context(), &models.User{Identifier: info.Email, Name: name})
	}
	if err != nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "Could not sign you in. Please try again.")
		return
	}

	state.Data.User = user.Name
	state.Data.OTPMode = ""
	state.Data.PendingIdentifier = ""
	state.Data.PendingName = ""
	state.MarkDirty()

	payload := map[string]interface{}{
		"message": "Logged in successfully.",
		"user":    user,
	}
	if jwtToken, err := utils.GenerateToken(user.ID.Hex()); err != nil {
		utils.Error("Failed to mint token", zap.Error(err))
	} else {
		payload["token"] = jwtToken
	}
	utils.RespondJSON(w, http.StatusOK, payload)
}
