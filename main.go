package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"pethaul/internal/config"
	"pethaul/internal/database"
	"pethaul/internal/server"
	"pethaul/internal/services"
	"pethaul/pkg/rabbitmq"
	"pethaul/pkg/rediscache"
)

func main() {
	log := logrus.New()

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log.SetLevel(logrus.DebugLevel)
	}

	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	opts := server.Options{Config: cfg, DB: db, Log: log}

	// --- RabbitMQ (optional) ---
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			log.WithError(err).Fatal("failed to initialize RabbitMQ client")
		}
		defer mqClient.Close()
		opts.Events = mqClient

		// Logs every order event; downstream consumers (mail, shipping) hang off
		// the same exchange with their own queues.
		if err := mqClient.ConsumeOrderEvents(func(msg amqp.Delivery) error {
			var event services.OrderEvent
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				return err
			}
			log.WithFields(logrus.Fields{
				"event":    event.Type,
				"order_id": event.OrderID,
				"status":   event.Status,
			}).Info("order event received")
			return nil
		}); err != nil {
			log.WithError(err).Error("failed to start RabbitMQ consumer")
		}
	} else {
		log.Info("RABBITMQ_URL not set, order events disabled")
	}

	// --- Redis (optional) ---
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		cache, err := rediscache.New(ctx, cfg.RedisAddr)
		cancel()
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, report caching disabled")
		} else {
			defer cache.Close()
			opts.Cache = cache
		}
	}

	app := server.New(opts)

	// --- Start HTTP Server ---
	log.WithField("port", cfg.AppPort).Info("starting server")

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.WithError(err).Fatal("server failed to start")
		}
	}()

	<-quit
	log.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Error("error during Fiber shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("server gracefully stopped")
}
