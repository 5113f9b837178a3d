// Command movievault serves the classic movie catalog API: user accounts, favorites and the
// bearer token authentication that guards them.
//
// @title Movievault API
// @version 1.0
// @description Classic movie catalog with user accounts, favorites and bearer token authentication.
// @contact.name API Support
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/user/movievault-go/auth"
	"github.com/user/movievault-go/config"
	"github.com/user/movievault-go/db"
	"github.com/user/movievault-go/logutil"
	"github.com/user/movievault-go/metrics"
	"github.com/user/movievault-go/movies"
	"github.com/user/movievault-go/users"
)

func main() {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("could not load .env")
	}

	app := &cli.App{
		Name:   "movievault",
		Usage:  "Classic movie catalog API",
		Action: serve,
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
			hashPasswordCmd(),
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("application failed")
		os.Exit(1)
	}
}

func loadConfig() (*config.AppConfig, zerolog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, log.Logger, fmt.Errorf("failed to load config: %w", err)
	}
	logger := logutil.New(cfg.Log.Level, cfg.Log.Pretty)
	log.Logger = logger
	return cfg, logger, nil
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API (default)",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "migrate",
				Usage: "Apply pending migrations before serving",
			},
			&cli.StringFlag{
				Name:  "migrations",
				Usage: "Directory holding the migration files",
				Value: "migrations",
			},
		},
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := logutil.WithLogger(c.Context, logger)

	if c.Bool("migrate") {
		if err := db.RunMigrations(cfg.DB, c.String("migrations"), logger); err != nil {
			return err
		}
	}

	pool, err := db.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	m := metrics.New()
	userStore := users.NewStore(pool)
	authService, err := auth.NewFromConfig(*cfg.Auth, userStore, m)
	if err != nil {
		return fmt.Errorf("failed to build auth service: %w", err)
	}
	userService := users.NewUserService(userStore, auth.NewHasher(cfg.Auth.BcryptCost))

	handler := newRouter(routerDeps{
		server:  cfg.Server,
		logger:  logger,
		metrics: m,
		auth:    authService,
		users:   users.NewUserHandlers(userService),
		movies:  movies.NewHandlers(movies.NewStore(pool)),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info().Msg("server stopped gracefully")
	return nil
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending database migrations and exit",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "migrations",
				Usage: "Directory holding the migration files",
				Value: "migrations",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			return db.RunMigrations(cfg.DB, c.String("migrations"), logger)
		},
	}
}

// hashPasswordCmd prints a bcrypt hash, for seeding accounts by hand.
func hashPasswordCmd() *cli.Command {
	cost := 0
	return &cli.Command{
		Name:      "hash-password",
		Usage:     "Print the bcrypt hash of a password",
		ArgsUsage: "<password>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "cost",
				Usage:       "bcrypt work factor (0 uses the default)",
				Destination: &cost,
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("expected exactly one password argument", 2)
			}
			hash, err := auth.NewHasher(cost).Hash(c.Args().First())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.App.Writer, hash)
			return err
		},
	}
}
