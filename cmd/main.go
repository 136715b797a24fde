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

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	cancelBookingHandler "github.com/m04kA/SMC-EventScheduling/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-EventScheduling/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/m04kA/SMC-EventScheduling/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-EventScheduling/internal/api/handlers/get_booking"
	getCustomerBookingsHandler "github.com/m04kA/SMC-EventScheduling/internal/api/handlers/get_customer_bookings"
	getVendorBookingsHandler "github.com/m04kA/SMC-EventScheduling/internal/api/handlers/get_vendor_bookings"
	getVendorConfigHandler "github.com/m04kA/SMC-EventScheduling/internal/api/handlers/get_vendor_config"
	rateBookingHandler "github.com/m04kA/SMC-EventScheduling/internal/api/handlers/rate_booking"
	transitionBookingHandler "github.com/m04kA/SMC-EventScheduling/internal/api/handlers/transition_booking"
	updateVendorConfigHandler "github.com/m04kA/SMC-EventScheduling/internal/api/handlers/update_vendor_config"
	validateBookingHandler "github.com/m04kA/SMC-EventScheduling/internal/api/handlers/validate_booking"
	"github.com/m04kA/SMC-EventScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-EventScheduling/internal/config"
	"github.com/m04kA/SMC-EventScheduling/internal/consumer"
	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/events"
	"github.com/m04kA/SMC-EventScheduling/internal/infra/cache"
	configService "github.com/m04kA/SMC-EventScheduling/internal/service/config"
	"github.com/m04kA/SMC-EventScheduling/internal/service/lifecycle"
	createBookingUC "github.com/m04kA/SMC-EventScheduling/internal/usecase/create_booking"
	getAvailabilityUC "github.com/m04kA/SMC-EventScheduling/internal/usecase/get_availability"
	validateBookingUC "github.com/m04kA/SMC-EventScheduling/internal/usecase/validate_booking"
	"github.com/m04kA/SMC-EventScheduling/pkg/auth"
	"github.com/m04kA/SMC-EventScheduling/pkg/logger"
	"github.com/m04kA/SMC-EventScheduling/pkg/metrics"
	"github.com/m04kA/SMC-EventScheduling/pkg/mq"
)

const configPath = "config.toml"

func main() {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-EventScheduling (storage=%s)...", cfg.Storage.Driver)

	location, err := cfg.Scheduling.Location()
	if err != nil {
		log.Fatal("Invalid scheduling timezone: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	storage, err := openStorage(ctx, cfg, metricsCollector, log)
	if err != nil {
		log.Fatal("Failed to open storage: %v", err)
	}
	defer storage.close()

	// Month availability cache
	var (
		monthCache  getAvailabilityUC.MonthCache
		invalidator events.Invalidator
	)
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		availabilityCache := cache.NewAvailabilityCache(rdb, time.Duration(cfg.Scheduling.CacheTTL)*time.Second)
		monthCache, invalidator = availabilityCache, availabilityCache
		log.Info("Availability cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Scheduling.CacheTTL)
	}

	// Lifecycle events
	var publisher events.Publisher
	if cfg.RabbitMQ.Enabled {
		mqPublisher, err := mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatal("Failed to connect publisher to rabbitmq: %v", err)
		}
		defer mqPublisher.Close()
		publisher = mqPublisher
		log.Info("Publishing booking events to exchange %s", cfg.RabbitMQ.Exchange)
	}
	dispatcher := events.NewDispatcher(publisher, invalidator, log)

	// Use cases and services
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(storage.bookings, storage.configs, monthCache, metricsCollector, log)
	validateBookingUseCase := validateBookingUC.NewUseCase(storage.bookings, storage.configs, metricsCollector, location, log)
	createBookingUseCase := createBookingUC.NewUseCase(
		storage.bookings,
		storage.configs,
		storage.txManager,
		dispatcher,
		metricsCollector,
		location,
		log,
	)
	lifecycleSvc := lifecycle.NewService(storage.bookings, storage.configs, storage.txManager, dispatcher, metricsCollector, log)
	configSvc := configService.NewService(storage.configs, storage.txManager, dispatcher, log)

	// Payment outcomes drive MarkPaid / MarkPaymentFailed
	if cfg.RabbitMQ.Enabled {
		paymentConsumer, err := mq.NewConsumer(
			cfg.RabbitMQ.URL,
			cfg.RabbitMQ.PaymentExchange,
			cfg.RabbitMQ.PaymentQueue,
			[]string{consumer.KeyPaymentPaid, consumer.KeyPaymentFailed},
			cfg.RabbitMQ.Prefetch,
		)
		if err != nil {
			log.Fatal("Failed to connect payment consumer: %v", err)
		}
		defer paymentConsumer.Close()

		deliveries, err := paymentConsumer.Deliveries(ctx)
		if err != nil {
			log.Fatal("Failed to consume %s: %v", cfg.RabbitMQ.PaymentQueue, err)
		}
		go consumer.NewPaymentConsumer(lifecycleSvc, log).Run(ctx, deliveries)
		log.Info("Consuming payment outcomes from queue %s", cfg.RabbitMQ.PaymentQueue)
	}

	// Handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	validateBooking := validateBookingHandler.NewHandler(validateBookingUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(lifecycleSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(lifecycleSvc, log)
	getVendorBookings := getVendorBookingsHandler.NewHandler(lifecycleSvc, log)
	transitionBooking := transitionBookingHandler.NewHandler(lifecycleSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(lifecycleSvc, log)
	rateBooking := rateBookingHandler.NewHandler(lifecycleSvc, log)
	getVendorConfig := getVendorConfigHandler.NewHandler(configSvc, log)
	updateVendorConfig := updateVendorConfigHandler.NewHandler(configSvc, log)

	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst,
			time.Duration(cfg.RateLimit.IdleTTL)*time.Second, log)
		go limiter.Cleanup(ctx, time.Minute)
		r.Use(limiter.Limit)
		log.Info("Rate limit enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/vendors/{vendorId}/availability", getAvailability.HandleDay).Methods(http.MethodGet)
	api.HandleFunc("/vendors/{vendorId}/availability/month", getAvailability.HandleMonth).Methods(http.MethodGet)
	api.HandleFunc("/vendors/{vendorId}/config", getVendorConfig.Handle).Methods(http.MethodGet)
	api.HandleFunc("/event-types/presets", getVendorConfig.HandlePresets).Methods(http.MethodGet)
	api.HandleFunc("/bookings/validate", validateBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (bearer JWT)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(auth.NewSigner(cfg.Auth.JWTSecret, cfg.Auth.Issuer), log))

	// --- Bookings ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/me/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/accept", transitionBooking.HandleAccept).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/request-payment", transitionBooking.HandleRequestPayment).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/complete", transitionBooking.HandleComplete).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/rate", rateBooking.Handle).Methods(http.MethodPost)

	system := protected.PathPrefix("").Subrouter()
	system.Use(middleware.RequireRole(domain.RoleSystem))
	system.HandleFunc("/bookings/{bookingId}/payment", transitionBooking.HandlePayment).Methods(http.MethodPost)

	// --- Vendor calendar ---
	protected.HandleFunc("/vendors/{vendorId}/bookings", getVendorBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/vendors/{vendorId}/config", updateVendorConfig.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/vendors/{vendorId}/config/event-types", updateVendorConfig.HandleSetEventTypes).Methods(http.MethodPut)
	protected.HandleFunc("/vendors/{vendorId}/config/holidays", updateVendorConfig.HandleAddHoliday).Methods(http.MethodPost)
	protected.HandleFunc("/vendors/{vendorId}/config/holidays/{date}", updateVendorConfig.HandleRemoveHoliday).Methods(http.MethodDelete)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: cfg.CORS.AllowCredentials,
	}).Handler(r)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
