package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"workerbull/internal/auth"
	"workerbull/internal/config"
	"workerbull/internal/coupon"
	"workerbull/internal/database/migrations"
	"workerbull/internal/kafka"
	"workerbull/internal/leads"
	"workerbull/internal/logger"
	"workerbull/internal/notify"
	"workerbull/internal/order"
	orderapi "workerbull/internal/order/api"
	orderdb "workerbull/internal/order/db"
	"workerbull/internal/pages"
)

func connectPostgres(cfg config.DatabaseConfig, log *logger.Logger) *bun.DB {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Connecting to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.DSN())
		if err == nil {
			err = sqldb.Ping()
			if err == nil {
				break
			}
		}
		log.Error("DATABASE", fmt.Sprintf("PostgreSQL connection failed: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

	log.Info("DATABASE", "PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New())
}

func connectRedis(cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warn("REDIS", fmt.Sprintf("Redis unavailable at %s, coupon cache disabled: %v", cfg.Addr, err))
		return nil
	}
	log.Info("REDIS", fmt.Sprintf("Redis connection successful to %s", cfg.Addr))
	return client
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting WorkerBull API initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	}
	cfg := config.Load()

	bunDB := connectPostgres(cfg.Database, log)
	defer bunDB.Close()

	runner := migrations.NewRunner(bunDB, migrations.DefaultOptions(), log)
	if err := runner.MigrateUp(); err != nil {
		log.Fatal("MIGRATE", fmt.Sprintf("Migrations failed: %v", err))
	}
	defer runner.Close()

	redisClient := connectRedis(cfg.Redis, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.MockMode, log)
		defer producer.Close()
		log.Info("KAFKA", "Kafka producer initialized")
	} else {
		log.Warn("KAFKA", "Kafka disabled, order events will not be published")
	}

	mailer := notify.NewBrevoMailer(cfg.Email, log)

	checkout, err := order.NewStripeCheckout(cfg.Stripe.SecretKey, cfg.App.BaseURL, log)
	if err != nil {
		log.Fatal("STRIPE", fmt.Sprintf("Stripe initialization failed: %v", err))
	}

	var events order.Publisher
	if producer != nil {
		events = producer
	}
	orderService := order.NewService(&orderdb.DB{Bun: bunDB}, checkout, mailer, events, cfg.Stripe.WebhookSecret, log)
	orderHandler := orderapi.NewHandler(orderService, log)

	couponService := coupon.NewService(&coupon.Store{Bun: bunDB}, &coupon.Cache{Client: redisClient}, mailer, log)
	couponHandler := coupon.NewHandler(couponService, log)

	leadsService := leads.NewService(&leads.Store{Bun: bunDB}, mailer, cfg.Email.SenderAddr, log)
	leadsHandler := leads.NewHandler(leadsService, log)

	pagesService := pages.NewService(&pages.Store{Bun: bunDB}, log)
	pagesHandler := pages.NewHandler(pagesService, log)

	authHandler := auth.NewHandler(cfg.Admin, log)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	orderService.StartOrphanSweep(sweepCtx, cfg.Sweep.Interval, cfg.Sweep.MaxAge)
	log.Info("SWEEP", fmt.Sprintf("Orphan sweep running every %s (max age %s)", cfg.Sweep.Interval, cfg.Sweep.MaxAge))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// --- Public routes ---
	r.Route("/api", func(r chi.Router) {
		r.Post("/register", orderHandler.RegisterCourse)
		r.Post("/masterclass", orderHandler.RegisterMasterclass)
		r.Post("/book", orderHandler.BookConsultation)
		r.Get("/orders/{orderId}", orderHandler.GetOrder)

		r.Post("/webhooks/stripe", orderHandler.StripeWebhook)

		r.Get("/coupons/{code}", couponHandler.Validate)

		r.Post("/waitlist", leadsHandler.JoinWaitlist)
		r.Post("/contact", leadsHandler.SubmitContact)
		r.Post("/affiliates", leadsHandler.ApplyAffiliate)

		r.Get("/pages/{slug}", pagesHandler.GetBySlug)

		r.Post("/admin/login", authHandler.Login)
	})

	// --- Admin routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Admin.TokenSecret, log))

		r.Route("/api/admin", func(r chi.Router) {
			r.Get("/orders/{kind}", orderHandler.ListOrders)

			r.Post("/coupons", couponHandler.Create)
			r.Get("/coupons", couponHandler.List)

			r.Get("/waitlist", leadsHandler.ListWaitlist)
			r.Get("/contacts", leadsHandler.ListContacts)
			r.Patch("/contacts/{id}", leadsHandler.MarkContact)
			r.Get("/affiliates", leadsHandler.ListAffiliates)
			r.Patch("/affiliates/{id}", leadsHandler.ReviewAffiliate)

			r.Post("/pages", pagesHandler.Create)
			r.Get("/pages", pagesHandler.List)
			r.Put("/pages/{id}", pagesHandler.Update)
			r.Delete("/pages/{id}", pagesHandler.Delete)
		})
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("WorkerBull API running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	} else {
		log.Info("HTTP", "WorkerBull API shutdown complete")
	}
}
