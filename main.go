package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/andrewpaige1/flashcards-api/auth"
	"github.com/andrewpaige1/flashcards-api/config"
	"github.com/andrewpaige1/flashcards-api/logger"
	"github.com/andrewpaige1/flashcards-api/store/sqlstore"
)

const serviceName = "flashcards-api"

var rootCmd = &cobra.Command{
	Use:   "flashcards-api",
	Short: "Flashcard collection and generation API",
	Long: `flashcards-api serves the collection, flashcard and generation screens
for signed in users on top of a SQL or Firestore store.

Example:
  flashcards-api serve
  flashcards-api migrate
  flashcards-api token alice`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the SQL tables",
	RunE:  runMigrate,
}

var tokenCmd = &cobra.Command{
	Use:   "token <subject>",
	Short: "Print a development token for subject",
	Args:  cobra.ExactArgs(1),
	RunE:  runToken,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, tokenCmd)
}

func main() {
	config.LoadDotEnv()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig parses the environment and sets up the global logger from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		logger.New(serviceName, "info", false)
		log.Error().Err(err).Msg("Invalid configuration")
		return nil, err
	}
	logger.New(serviceName, cfg.LogLevel, cfg.LogPretty)
	return cfg, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := config.Connect(cfg)
	if err != nil {
		return err
	}
	if err := sqlstore.Migrate(db); err != nil {
		return fmt.Errorf("failed to auto migrate database: %w", err)
	}
	log.Info().Str("driver", cfg.StoreDriver).Msg("Migration complete")
	return nil
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tok, err := mintToken(cfg, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok)
	return nil
}

// mintToken signs a development token and checks it round trips before it is printed.
func mintToken(cfg *config.Config, subject string) (string, error) {
	issuer := auth.Issuer{
		Secret:   cfg.DevJWTSecret,
		Issuer:   cfg.DevJWTIssuer,
		Audience: cfg.DevJWTAudience,
	}
	tok, err := issuer.CreateToken(subject)
	if err != nil {
		return "", err
	}
	sub, err := issuer.VerifyToken(tok)
	if err != nil {
		return "", fmt.Errorf("verify token: %w", err)
	}
	if sub != subject {
		return "", fmt.Errorf("verify token: subject %q, want %q", sub, subject)
	}
	return tok, nil
}
