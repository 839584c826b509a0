package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/rs/zerolog/log"

	"github.com/andrewpaige1/flashcards-api/auth"
	"github.com/andrewpaige1/flashcards-api/config"
	"github.com/andrewpaige1/flashcards-api/utils"
)

// CustomClaims holds the non-registered claims read from the token. The nickname only
// labels request logs, so any value is accepted.
type CustomClaims struct {
	Nickname string `json:"nickname"`
}

func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// nickname returns the nickname claim of the validated token, if any.
func nickname(r *http.Request) string {
	claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
	if !ok {
		return ""
	}
	custom, ok := claims.CustomClaims.(*CustomClaims)
	if !ok {
		return ""
	}
	return custom.Nickname
}

// EnsureValidToken validates the bearer header or auth_token cookie when one is sent.
// Requests without a token pass through signed out; RequireUser rejects them where needed.
// With AUTH0_DOMAIN set, tokens are checked against the tenant's JWKS; otherwise
// HS256 development tokens are accepted.
func EnsureValidToken(cfg *config.Config) (func(http.Handler) http.Handler, error) {
	jwtValidator, err := newValidator(cfg)
	if err != nil {
		return nil, err
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Ctx(r.Context()).Warn().Err(err).Msg("Encountered error while validating JWT")
		utils.WriteError(w, http.StatusUnauthorized, "Failed to validate JWT.")
	}

	mw := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
		jwtmiddleware.WithCredentialsOptional(true),
		jwtmiddleware.WithTokenExtractor(jwtmiddleware.MultiTokenExtractor(
			jwtmiddleware.AuthHeaderTokenExtractor,
			jwtmiddleware.CookieTokenExtractor(auth.CookieName),
		)),
	)

	return func(next http.Handler) http.Handler {
		return mw.CheckJWT(next)
	}, nil
}

func newValidator(cfg *config.Config) (*validator.Validator, error) {
	customClaims := func() validator.CustomClaims { return &CustomClaims{} }

	if cfg.Auth0Domain != "" {
		issuerURL, err := url.Parse("https://" + cfg.Auth0Domain + "/")
		if err != nil {
			return nil, fmt.Errorf("failed to parse the issuer url: %w", err)
		}
		provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

		v, err := validator.New(
			provider.KeyFunc,
			validator.RS256,
			issuerURL.String(),
			[]string{cfg.Auth0Audience},
			validator.WithCustomClaims(customClaims),
			validator.WithAllowedClockSkew(time.Minute),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to set up the jwt validator: %w", err)
		}
		return v, nil
	}

	secret := []byte(cfg.DevJWTSecret)
	v, err := validator.New(
		func(context.Context) (interface{}, error) { return secret, nil },
		validator.HS256,
		cfg.DevJWTIssuer,
		[]string{cfg.DevJWTAudience},
		validator.WithCustomClaims(customClaims),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the jwt validator: %w", err)
	}
	return v, nil
}
