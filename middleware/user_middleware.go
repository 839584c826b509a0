package middleware

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/andrewpaige1/flashcards-api/utils"
)

// RequireUser rejects requests without a validated subject and tags the request logger
// with the user id and nickname.
func RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := utils.CurrentUser(r)
		if !user.IsSignedIn {
			utils.WriteAlert(w, http.StatusUnauthorized, "sign in to continue")
			return
		}

		l := zerolog.Ctx(r.Context())
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			c = c.Str("user", user.ID)
			if nick := nickname(r); nick != "" {
				c = c.Str("nickname", nick)
			}
			return c
		})
		next.ServeHTTP(w, r)
	}
}
