package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"farhold/quarterdeck/internal/auth"
	"farhold/quarterdeck/internal/db"
	"farhold/quarterdeck/internal/db/repositories"
	"farhold/quarterdeck/internal/logging"
	"farhold/quarterdeck/internal/routes"
	"farhold/quarterdeck/internal/services"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}

	if err := logging.Init(appEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Quarterdeck starting up",
		"environment", appEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	// Connect to DB with sqlx (health checks, admin database status)
	if err := db.InitPostgres(); err != nil {
		logging.Error("Failed to connect to Postgres (sqlx)", "error", err.Error())
		log.Fatalf("Failed to connect to Postgres (sqlx): %v", err)
	}
	logging.Info("Connected to Postgres (sqlx)")

	// Connect to DB with GORM: app catalog plus the account store. The
	// account store can live in a separate database via AUTH_DATABASE_URL.
	appDSN := os.Getenv("DATABASE_URL")
	authDSN := os.Getenv("AUTH_DATABASE_URL")
	if authDSN == "" {
		authDSN = appDSN
	}

	if _, err := db.InitAppORM(appDSN); err != nil {
		logging.Error("Failed to connect to Postgres (GORM app)", "error", err.Error())
		log.Fatalf("Failed to connect to Postgres (GORM app): %v", err)
	}
	if _, err := db.InitAuthORM(authDSN); err != nil {
		logging.Error("Failed to connect to Postgres (GORM auth)", "error", err.Error())
		log.Fatalf("Failed to connect to Postgres (GORM auth): %v", err)
	}
	logging.Info("Connected to Postgres (GORM)")

	if err := db.MigrateApp(db.AppDB); err != nil {
		log.Fatalf("App schema migration failed: %v", err)
	}
	if err := db.MigrateAuth(db.AuthDB); err != nil {
		log.Fatalf("Auth schema migration failed: %v", err)
	}
	logging.Info("Schema migrations applied")

	seedAdmin()

	upSince := time.Now()

	router, err := routes.RegisterRoutes(upSince)
	if err != nil {
		logging.Error("Router initialization failed", "error", err.Error())
		log.Fatalf("Router initialization failed: %v", err)
	}

	// Metrics endpoint lives outside the Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logging.Info("Server starting", "port", port, "environment", appEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logging.Info("Shutdown signal received, draining connections")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logging.Error("Server exited with error", "error", err.Error())
		log.Fatalf("Server exited with error: %v", err)
	}
	logging.Info("Server stopped")
}

// seedAdmin bootstraps the local admin account when DEFAULT_ADMIN_PASSWORD is
// configured. A failure here is fatal: an unseeded fresh install has no way in.
func seedAdmin() {
	tokens, err := auth.NewTokenServiceFromEnv()
	if err != nil {
		log.Fatalf("Token service initialization failed: %v", err)
	}
	authSvc := services.NewAuthService(repositories.NewUserRepository(db.AuthDB), tokens)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := authSvc.SeedDefaultAdmin(ctx); err != nil {
		log.Fatalf("Admin seeding failed: %v", err)
	}
}
