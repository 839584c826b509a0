package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/andrewpaige1/flashcards-api/auth"
	"github.com/andrewpaige1/flashcards-api/utils"
)

type devTokenRequest struct {
	Subject string `json:"subject" validate:"required,max=128"`
}

type devTokenResponse struct {
	Token string `json:"token"`
}

// DevToken signs the caller in as subject by setting the auth_token cookie. It is only
// mounted in development.
func (h *Handler) DevToken(w http.ResponseWriter, r *http.Request) {
	var req devTokenRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	tokenString, err := h.Tokens.CreateToken(req.Subject)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Error creating dev token")
		utils.WriteError(w, http.StatusInternalServerError, "Could not create token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    tokenString,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400,
	})
	h.Sessions.Drop(req.Subject)
	utils.WriteJSON(w, http.StatusOK, devTokenResponse{Token: tokenString})
}
