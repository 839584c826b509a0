package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/andrewpaige1/flashcards-api/auth"
	"github.com/andrewpaige1/flashcards-api/config"
	"github.com/andrewpaige1/flashcards-api/extract"
	"github.com/andrewpaige1/flashcards-api/generation"
	"github.com/andrewpaige1/flashcards-api/handlers"
	"github.com/andrewpaige1/flashcards-api/middleware"
	"github.com/andrewpaige1/flashcards-api/speech"
	"github.com/andrewpaige1/flashcards-api/views"
)

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := config.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	base := log.Logger
	mux := http.NewServeMux()

	var gen generation.Generator
	if cfg.GenerationURL != "" {
		gen = generation.NewHTTPClient(cfg.GenerationURL, cfg.GenerationTimeout)
	} else {
		openaiGen := generation.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		gen = openaiGen
		// no external service configured: serve the contract from this process
		handlers.NewGenerateService(openaiGen).Register(mux)
	}
	gen = generation.NewBreaker(gen, base)

	extractor := extract.Router{
		Word:  extract.Docx{},
		Image: extract.NewImageOCR(cfg.OpenAIAPIKey, cfg.OpenAIModel),
	}

	sessions := views.NewSessions(cfg.FlipByCardID)
	h := &handlers.Handler{
		Sessions:    sessions,
		Collections: views.NewCollectionView(st, cfg.CascadeCollectionDelete, base),
		Flashcards:  views.NewFlashcardView(st, base),
		Generation:  views.NewGenerationView(st, gen, extractor, base),
		Speaker:     speech.NewOpenAISpeaker(cfg.OpenAIAPIKey, cfg.SpeechVoice),
		Tokens: auth.Issuer{
			Secret:   cfg.DevJWTSecret,
			Issuer:   cfg.DevJWTIssuer,
			Audience: cfg.DevJWTAudience,
		},
		DevTokens:      cfg.IsDevelopment() && cfg.DevJWTSecret != "" && cfg.Auth0Domain == "",
		CookieDomain:   cfg.Domain(),
		CookieSecure:   cfg.CookieSecure(),
		MaxUploadBytes: cfg.MaxUploadBytes,
	}
	h.Register(mux)

	metrics := middleware.NewMetrics("flashcards")
	mux.Handle("GET /metrics", metrics.Handler())

	authMiddleware, err := middleware.EnsureValidToken(cfg)
	if err != nil {
		return err
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(authMiddleware(metrics.Instrument(mux)))

	srv := &http.Server{
		Addr:              "0.0.0.0:" + strconv.Itoa(cfg.Port),
		Handler:           middleware.Logging(base)(middleware.Recovery(corsHandler)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go sweepSessions(ctx, sessions, cfg.SessionTTL, base)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// sweepSessions drops idle sessions until ctx is done.
func sweepSessions(ctx context.Context, sessions *views.Sessions, ttl time.Duration, l zerolog.Logger) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(ttl / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(ttl); n > 0 {
				l.Debug().Int("dropped", n).Int("active", sessions.Len()).Msg("Swept idle sessions")
			}
		}
	}
}
