package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/paperpatch/poster-store/internal/bkash"
	"github.com/paperpatch/poster-store/internal/checkout"
	"github.com/paperpatch/poster-store/internal/config"
	"github.com/paperpatch/poster-store/internal/database"
	"github.com/paperpatch/poster-store/internal/email"
	"github.com/paperpatch/poster-store/internal/handler"
	"github.com/paperpatch/poster-store/internal/queue"
	"github.com/paperpatch/poster-store/internal/repository"
	"github.com/paperpatch/poster-store/internal/router"
	"github.com/paperpatch/poster-store/internal/storage"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logrus.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Env == "dev" {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	// Store selection: MySQL when configured, otherwise the in-memory
	// fallback so the service still runs in local setups.
	var (
		orders      repository.OrderStore
		settings    repository.SettingsStore
		gallery     repository.GalleryStore
		storageMode = "ephemeral"
	)
	if cfg.DatabaseConfigured() {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			logrus.WithError(err).Fatal("database connection failed")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := database.EnsureSchema(ctx, db); err != nil {
			cancel()
			logrus.WithError(err).Fatal("schema setup failed")
		}
		cancel()
		orders = repository.NewOrderRepo(db)
		settings = repository.NewSettingsRepo(db)
		gallery = repository.NewGalleryRepo(db)
		storageMode = "mysql"
	} else {
		mem := repository.NewMemoryStore()
		orders, settings, gallery = mem, mem, mem
		logrus.Warn("no database configured, orders will not survive a restart")
	}

	images, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		logrus.WithError(err).Fatal("upload directory unavailable")
	}

	var mail *email.Sender
	emailCfg := email.Config{APIKey: cfg.ResendAPIKey, AdminEmail: cfg.AdminEmail, FromOrders: cfg.EmailFrom}
	if emailCfg.Configured() {
		mail = email.NewSender(emailCfg)
	} else {
		logrus.Warn("email not configured, confirmations will be skipped")
	}

	var gateway *bkash.Client
	bkashCfg := bkash.Config{
		BaseURL:   cfg.BkashBaseURL,
		AppKey:    cfg.BkashAppKey,
		AppSecret: cfg.BkashAppSecret,
		Username:  cfg.BkashUsername,
		Password:  cfg.BkashPassword,
	}
	if bkashCfg.Configured() {
		gateway = bkash.NewClient(bkashCfg)
	} else {
		logrus.Warn("bkash not configured, online payment endpoints disabled")
	}

	if cfg.RabbitURL != "" {
		go func() {
			if err := queue.StartOrderConsumer(cfg.RabbitURL); err != nil {
				logrus.WithError(err).Error("order consumer stopped")
			}
		}()
	}

	var notifier checkout.Notifier
	if mail != nil {
		notifier = mail
	}
	svc := checkout.New(orders, settings, images, checkout.Options{
		Notifier:  notifier,
		RabbitURL: cfg.RabbitURL,
	})

	rdb := config.NewRedisClient()

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Handlers{
		Auth:     handler.NewAuthHandler(cfg),
		Checkout: handler.NewCheckoutHandler(svc),
		Payment:  handler.NewPaymentHandler(orders, gateway, cfg.PublicBaseURL),
		Notify:   handler.NewNotifyHandler(orders, mail),
		Admin:    handler.NewAdminHandler(orders, settings),
		Gallery:  handler.NewGalleryHandler(gallery, images),
		Public:   handler.NewPublicHandler(settings, gallery),
	}, cfg, rdb, storageMode)

	addr := ":" + cfg.Port
	logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env, "storage": storageMode}).Info("listening")
	if err := e.Start(addr); err != nil {
		logrus.Fatal(err)
	}
}
