package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"folio/internal/auth"
	"folio/internal/config"
	"folio/internal/db"
	"folio/internal/handlers"
	"folio/internal/logging"
	"folio/internal/metrics"
	"folio/internal/notify"
)

const tokenCleanupInterval = time.Hour

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the contact form and the admin inbox",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.Setup(cfg.LogLevel)
			return serve(cfg)
		},
	}
}

func serve(cfg *config.Config) error {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	authn, err := newAuthenticator(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cleanupRevokedTokens(ctx, database, tokenCleanupInterval)

	app := newApp(cfg, database, authn, notify.FromConfig(cfg))

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down")
		cancel()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("folio starting", "port", cfg.Port, "site", cfg.Site.Name)
	return app.Listen(":" + cfg.Port)
}

func newAuthenticator(cfg *config.Config) (*auth.Authenticator, error) {
	hashedPass, err := auth.HashPassword(cfg.AdminPass)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	lockout := auth.NewLockoutTracker(cfg.LockoutMaxAttempts, time.Duration(cfg.LockoutDurationMin)*time.Minute)
	admin := auth.Admin{Username: cfg.AdminUser, PasswordHash: hashedPass, TOTPSecret: cfg.AdminTOTP}
	return auth.NewAuthenticator(admin, cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour, lockout), nil
}

func newApp(cfg *config.Config, database *sql.DB, authn *auth.Authenticator, n notify.Notifier) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             256 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).SendString(err.Error())
		},
	})

	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(metrics.Middleware())

	if cfg.MetricsEnabled {
		app.Get("/metrics", metrics.Handler())
	}
	app.Get("/healthz", handlers.Healthz(database))

	contactLimiter := limiter.New(limiter.Config{
		Max:        cfg.ContactRateLimit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			metrics.SubmissionsTotal.WithLabelValues("rate_limited").Inc()
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many submissions, try again in a minute"})
		},
	})
	app.Get("/contact", handlers.ContactPage(cfg.Site))
	app.Post("/contact", contactLimiter, handlers.ContactSubmit(database, cfg.Site, n))

	loginLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	})
	app.Get("/login", handlers.LoginPage(authn))
	app.Post("/login", loginLimiter, handlers.LoginPost(database, authn, cfg.SecureCookies))
	app.Get("/logout", handlers.Logout(database, authn.Secret()))

	inbox := app.Group("/inbox", auth.RequireAdmin(authn.Secret(), database))
	inbox.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:_csrf",
		CookieName:     "csrf_token",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.SecureCookies,
		CookieHTTPOnly: true,
		Expiration:     1 * time.Hour,
		ContextKey:     "csrf",
	}))
	inbox.Get("/", handlers.ListInbox(database))
	inbox.Get("/export.csv", handlers.ExportCSV(database))
	inbox.Get("/:id", handlers.ViewSubmission(database))
	inbox.Post("/:id/delete", handlers.DeleteSubmission(database))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/contact")
	})

	return app
}

// cleanupRevokedTokens periodically drops expired entries from the session
// blocklist until ctx is cancelled.
func cleanupRevokedTokens(ctx context.Context, database *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := auth.CleanupExpiredTokens(database)
			if err != nil {
				slog.Warn("revoked token cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Debug("removed expired revoked tokens", "count", n)
			}
		}
	}
}
