package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"kairos/internal/common/logging"
	"kairos/internal/config"
	"kairos/internal/handlers"
	"kairos/internal/messaging/messagebird"
	"kairos/internal/messaging/twilio"
	"kairos/internal/messaging/whatsapp"
	"kairos/internal/middleware"
	"kairos/internal/ocr"
	"kairos/internal/redis"
	"kairos/internal/server"
	"kairos/internal/shorturl"
	"kairos/internal/tokenmon"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logging.InitGlobalLogger()
	defer logging.MustSync()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logging.Error("invalid configuration", err)
		os.Exit(1)
	}

	visionClient, err := ocr.NewClient(ocr.Config{
		APIKey:  cfg.VisionAPIKey,
		BaseURL: cfg.VisionAPIURL,
	})
	if err != nil {
		logging.Error("initializing vision client failed", err)
		os.Exit(1)
	}

	opts := handlers.Options{
		Config: cfg,
		OCR:    visionClient,
	}

	var waClient *whatsapp.Client
	if cfg.WhatsAppConfigured() {
		waClient, err = whatsapp.NewClient(whatsapp.Config{
			Token:         cfg.WhatsAppAPIToken,
			PhoneNumberID: cfg.WhatsAppPhoneNumberID,
			BaseURL:       cfg.WhatsAppAPIURL,
		})
		if err != nil {
			logging.Error("initializing whatsapp client failed", err)
			os.Exit(1)
		}
		opts.WhatsApp = waClient
		logging.Info("whatsapp channel enabled")
	}

	if cfg.TwilioConfigured() {
		twClient, err := twilio.NewClient(twilio.Config{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			From:       cfg.TwilioFromNumber,
		})
		if err != nil {
			logging.Error("initializing twilio client failed", err)
			os.Exit(1)
		}
		opts.Twilio = twClient
		logging.Info("twilio channel enabled")
	}

	if cfg.MessageBirdConfigured() {
		mbClient, err := messagebird.NewClient(messagebird.Config{
			AccessKey: cfg.MessageBirdAccessKey,
		})
		if err != nil {
			logging.Error("initializing messagebird client failed", err)
			os.Exit(1)
		}
		opts.MessageBird = mbClient
		logging.Info("messagebird channel enabled")
	}

	var redisClient *redis.Client
	if cfg.ShortLinksEnabled {
		db, _ := strconv.Atoi(cfg.RedisDB)
		poolSize, _ := strconv.Atoi(cfg.RedisPoolSize)
		redisClient, err = redis.NewClient(&redis.Config{
			Address:  cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       db,
			PoolSize: poolSize,
		})
		if err != nil {
			logging.Error("connecting to redis failed", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		opts.Shortener = shorturl.NewService(redisClient, cfg.BaseURL)
		logging.Info("short links enabled", logging.String("base_url", cfg.BaseURL))
	}

	h := handlers.New(opts)

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware)
	h.RegisterRoutes(router)

	srv := server.New(router, cfg.Port)
	if err := srv.Start(); err != nil {
		logging.Error("starting server failed", err)
		os.Exit(1)
	}
	logging.Info("server started", logging.String("port", cfg.Port))

	var monitor *tokenmon.Monitor
	if waClient != nil {
		monitor = tokenmon.NewMonitor(waClient, cfg.TokenCheckSchedule)
		if err := monitor.Start(); err != nil {
			logging.Error("starting token monitor failed", err)
			os.Exit(1)
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info("shutting down")
	if monitor != nil {
		monitor.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("server shutdown failed", err)
	}
	logging.Info("shutdown complete")
}
