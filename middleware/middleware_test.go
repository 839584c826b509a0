package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/flashcards-api/auth"
	"github.com/andrewpaige1/flashcards-api/config"
	"github.com/andrewpaige1/flashcards-api/utils"
)

var testConfig = &config.Config{
	DevJWTSecret:   "test-secret",
	DevJWTIssuer:   "flashcards-dev",
	DevJWTAudience: "flashcards-api",
}

func devToken(t *testing.T, subject string) string {
	t.Helper()
	tok, err := auth.Issuer{
		Secret:   testConfig.DevJWTSecret,
		Issuer:   testConfig.DevJWTIssuer,
		Audience: testConfig.DevJWTAudience,
	}.CreateToken(subject)
	require.NoError(t, err)
	return tok
}

func protected(t *testing.T) http.Handler {
	t.Helper()
	ensure, err := EnsureValidToken(testConfig)
	require.NoError(t, err)
	return ensure(RequireUser(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, utils.CurrentUser(r))
	}))
}

func TestEnsureValidTokenBearer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+devToken(t, "alice"))
	rec := httptest.NewRecorder()

	protected(t).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"alice"`)
	assert.Contains(t, rec.Body.String(), `"isSignedIn":true`)
}

func TestEnsureValidTokenCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: devToken(t, "bob")})
	rec := httptest.NewRecorder()

	protected(t).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"bob"`)
}

func TestMissingTokenIsSignedOut(t *testing.T) {
	rec := httptest.NewRecorder()
	protected(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"alert":true`)
}

func TestInvalidTokenIsRejected(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()

	protected(t).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to validate JWT.")
}

func TestRequireUserLogsNickname(t *testing.T) {
	now := time.Now()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      "alice",
		"iss":      testConfig.DevJWTIssuer,
		"aud":      []string{testConfig.DevJWTAudience},
		"iat":      now.Unix(),
		"exp":      now.Add(time.Hour).Unix(),
		"nickname": "ally",
	}).SignedString([]byte(testConfig.DevJWTSecret))
	require.NoError(t, err)

	var buf bytes.Buffer
	ensure, err := EnsureValidToken(testConfig)
	require.NoError(t, err)
	h := Logging(zerolog.New(&buf))(ensure(RequireUser(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside")
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), `"user":"alice"`)
	assert.Contains(t, buf.String(), `"nickname":"ally"`)
}

func TestLoggingSetsRequestID(t *testing.T) {
	var seen string
	h := Logging(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "given-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "given-id", seen)
}

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMetricsInstrument(t *testing.T) {
	m := NewMetrics("flashcards_test")
	mux := http.NewServeMux()
	mux.HandleFunc("GET /items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := m.Instrument(mux)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/1", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/2", nil))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	line := `flashcards_test_http_requests_total{method="GET",route="GET /items/{id}",status="418"} 2`
	assert.True(t, strings.Contains(string(body), line), "missing %s", line)
}
