package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"omshree-backend/internal/client"
	"omshree-backend/internal/config"
	"omshree-backend/internal/handler"
	"omshree-backend/internal/repository"
	"omshree-backend/internal/server"
	"omshree-backend/internal/service"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(&cfg.Log)

	db := client.InitMysqlClient(cfg.DatabaseURL)
	mailer := client.NewSMTPSender(&cfg.SMTP)

	userRepo := repository.NewUserRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	eventRepo := repository.NewPaymentEventRepository(db)

	verifier := service.NewSignatureVerifier(cfg.Razorpay.KeySecret)
	notifier := service.NewNotifier(mailer, logger)
	orderWriter := service.NewOrderWriter(db, orderRepo, productRepo, eventRepo)

	userService := service.NewUserService(userRepo, []byte(cfg.JWT.Secret), cfg.JWT.TTL)
	addressService := service.NewAddressService(addressRepo)
	catalogService := service.NewCatalogService(productRepo)
	orderService := service.NewOrderService(orderRepo)
	checkoutService := service.NewCheckoutService(verifier, addressRepo, eventRepo, orderWriter, notifier, logger)

	srv := server.NewServer(
		logger,
		handler.NewPaymentHandler(checkoutService, notifier),
		handler.NewUserHandler(userService),
		handler.NewAddressHandler(addressService),
		handler.NewProductHandler(catalogService),
		handler.NewOrderHandler(orderService),
		userService,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error:", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error:", err)
	}
}

func newLogger(cfg *config.Log) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.Format == "text" {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(h)
}
