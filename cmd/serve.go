package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"SMARTTRIP_BACK-END/internal/config"
	"SMARTTRIP_BACK-END/internal/logger"
	"SMARTTRIP_BACK-END/internal/routes"
	"SMARTTRIP_BACK-END/internal/store"
)

var (
	flagPort       string
	flagDataSource string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	addServeFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagPort, "port", "", "Listen port (overrides SERVER_PORT)")
	cmd.Flags().StringVar(&flagDataSource, "data-source", "", "postgres or fixture (overrides DATA_SOURCE)")
}

// loadServeConfig reads the environment, applies the serve flags and only then validates
func loadServeConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagPort != "" {
		cfg.Server.Port = flagPort
	}
	if flagDataSource != "" {
		cfg.DataSource = strings.ToLower(flagDataSource)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// logConfigNotes reports what Load found once the configured logger exists
func logConfigNotes(log zerolog.Logger, cfg *config.Config) {
	if cfg.EnvFile == "" {
		log.Debug().Msg(".env file not found, using process environment")
	} else {
		log.Debug().Str("path", cfg.EnvFile).Msg("loaded .env file")
	}
	if !cfg.IsGoogleOAuthConfigured() {
		log.Warn().Msg("Google OAuth credentials not configured. Google login will not work.")
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadServeConfig()
	if err != nil {
		return err
	}

	log := logger.Setup(cfg.Log, os.Stderr)
	logConfigNotes(log, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           c.Handler(routes.SetupRoutes(st, cfg, log, routes.Options{})),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("data_source", cfg.DataSource).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info().Msg("Server stopped")
	return nil
}

// openStore picks the backend named by cfg.DataSource
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	switch cfg.DataSource {
	case config.DataSourcePostgres:
		if cfg.AutoMigrate {
			if err := store.Migrate(cfg.GetDSN(), store.Up); err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
			log.Info().Msg("migrations applied")
		}
		pg, err := store.NewPostgres(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case config.DataSourceFixture:
		var opts []store.MemoryOption
		if cfg.FixtureSeed {
			opts = append(opts, store.WithFixtureSeed())
		}
		log.Warn().Bool("seed", cfg.FixtureSeed).Msg("using in-memory fixture data source; data is lost on restart")
		return store.NewMemory(opts...), nil
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.DataSource)
	}
}
