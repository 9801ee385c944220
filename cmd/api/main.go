package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/application/service"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/config"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/infrastructure/database"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/infrastructure/events"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/infrastructure/metrics"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/infrastructure/orderapi"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/infrastructure/repository"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/presentation/http/handler"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/presentation/http/middleware"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/presentation/http/routes"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/logger"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/printer"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(&cfg.Database, cfg.App.Debug, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpiryHours)

	paymentRepo := repository.NewPaymentRecordRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	orders := orderapi.NewClient(cfg.OrderAPI, log)

	publisher := events.NewPublisher(cfg.Kafka)
	defer publisher.Close()
	if cfg.Kafka.Enabled() {
		log.WithField("topic", cfg.Kafka.PaymentsTopic).Info("Publishing payment events to Kafka")
	}

	thermalPrinter, err := printer.NewPrinterFromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.WithError(err).Warn("Failed to initialize printer, slips will not be printed")
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()

	printerService := service.NewPrinterService(thermalPrinter, cfg.Printer, log)
	checkoutService := service.NewCheckoutService(orders, paymentRepo, publisher, printerService, m, log)

	handlers := &routes.Handlers{
		Checkout: handler.NewCheckoutHandler(checkoutService),
		Payment:  handler.NewPaymentHandler(checkoutService),
		Printer:  handler.NewPrinterHandler(printerService),
	}

	rateLimiter := middleware.NewRestaurantRateLimiter(
		middleware.RateLimiterConfigFrom(cfg.RateLimit.Requests, cfg.RateLimit.Duration),
	)
	defer rateLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Metrics:         m,
		OrderService:    orders,
		Log:             log,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go purgeIdempotencyKeys(ctx, idempotencyRepo, log)

	go func() {
		log.WithFields(logrus.Fields{
			"port":      port,
			"env":       cfg.App.Env,
			"order_api": cfg.OrderAPI.BaseURL,
		}).Infof("Starting %s", cfg.App.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}
