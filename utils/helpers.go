package utils

import (
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/andrewpaige1/flashcards-api/models"
)

// GetSubject returns the validated token subject, if any.
func GetSubject(r *http.Request) (string, bool) {
	claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
	if !ok || claims.RegisteredClaims.Subject == "" {
		return "", false
	}
	return claims.RegisteredClaims.Subject, true
}

// CurrentUser is the identity the request was authenticated as. Token validation has
// finished by the time a handler runs, so the identity is always loaded.
func CurrentUser(r *http.Request) models.Identity {
	sub, ok := GetSubject(r)
	return models.Identity{ID: sub, IsSignedIn: ok, IsLoaded: true}
}
