package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/alerts"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/auth"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/config"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/db"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/events"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/http/handlers"
	mw "github.com/rogerio-castellano/stock-sales-tracker/internal/http/middleware"
	rl "github.com/rogerio-castellano/stock-sales-tracker/internal/http/rate_limiter"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/http/router"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/redissvc"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/repo"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/sales"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/session"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/stock"
)

// @title Stock & Sales Tracker API
// @version 1.0
// @description REST API for products, clients, sales and stock alerts.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Invalid configuration: ", err)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Could not connect to database: ", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		log.Fatal("❌ Could not migrate database: ", err)
	}

	products := repo.NewSQLProductRepository(database)
	clients := repo.NewSQLClientRepository(database)
	users := repo.NewSQLUserRepository(database)
	salesRepo := repo.NewSQLSaleRepository(database)
	metrics := repo.NewSQLMetricsRepository(database)

	rdb := redissvc.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	var sessions session.Store
	if rdb != nil {
		defer rdb.Close()
		sessions = session.NewRedisStore(rdb, cfg.SessionTTL)
	} else {
		memory := session.NewMemoryStore(cfg.SessionTTL)
		go memory.StartSweeper(ctx, 10*time.Minute)
		sessions = memory
	}

	notifier := alerts.NewNotifier(rdb, cfg.Mail)
	go notifier.StartDailySummary(ctx, 24*time.Hour)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.SalesQueue)
		if err != nil {
			log.Printf("⚠️ Sale events disabled, could not reach broker: %v", err)
		} else {
			defer amqpPublisher.Close()
			publisher = amqpPublisher
			go events.StartSalesAuditConsumer(ctx, cfg.AMQPURL, cfg.SalesQueue, cfg.SalesAuditLog)
		}
	}

	monitor := stock.NewMonitor(products, notifier)
	recorder := sales.NewRecorder(salesRepo, publisher, monitor)

	created, err := auth.EnsureAdmin(ctx, users, cfg.AdminUsername, cfg.AdminPassword)
	switch {
	case errors.Is(err, auth.ErrAdminPasswordUnset):
		log.Printf("⚠️ No admin account: set ADMIN_PASSWORD to create %q", cfg.AdminUsername)
	case err != nil:
		log.Fatal("❌ Could not seed admin account: ", err)
	case created:
		log.Printf("👤 Admin account %q created", cfg.AdminUsername)
	}

	tokens := auth.NewJWTManager(cfg.SecretKey, cfg.TokenTTL)
	server := &handlers.Server{
		Products:      products,
		Clients:       clients,
		Sales:         salesRepo,
		Users:         users,
		Metrics:       metrics,
		Monitor:       monitor,
		Recorder:      recorder,
		Sessions:      sessions,
		Tokens:        tokens,
		SessionTTL:    cfg.SessionTTL,
		SecureCookies: cfg.IsProduction(),
		DB:            database,
	}

	limiter := rl.NewLoginLimiter()
	go limiter.StartCleanup(ctx, time.Minute)

	r := router.NewRouter(server, &mw.Authenticator{Sessions: sessions, Tokens: tokens}, router.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		TrustProxy:     cfg.TrustProxy,
		LoginLimiter:   limiter,
		AccessLog:      true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("✅ Server running on :%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("👋 Server stopped")
}
