package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/resto-planning/shift-planner/backend/internal/bootstrap"
	"github.com/resto-planning/shift-planner/backend/internal/cache"
	"github.com/resto-planning/shift-planner/backend/internal/config"
	"github.com/resto-planning/shift-planner/backend/internal/handler"
	"github.com/resto-planning/shift-planner/backend/internal/notify"
	"github.com/resto-planning/shift-planner/backend/internal/planning"
	"github.com/resto-planning/shift-planner/backend/internal/store"
)

func main() {
	/**********************************************
	 * Logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * Configuration
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("impossible de charger la configuration", "error", err)
		return
	}

	/**********************************************
	 * Stockage
	 **********************************************/
	backend, err := store.Open(cfg, logger)
	if err != nil {
		logger.Error("impossible d'ouvrir le stockage", "driver", cfg.Storage.Driver, "error", err)
		return
	}
	defer backend.Close()

	/**********************************************
	 * RabbitMQ (facultatif)
	 **********************************************/
	var opts []planning.Option
	if cfg.RabbitMQ.DSN != "" {
		conn, ch, err := notify.Connect(cfg.RabbitMQ.DSN, cfg.RabbitMQ.Queue)
		if err != nil {
			logger.Error("impossible de se connecter à RabbitMQ", "error", err)
			return
		}
		defer conn.Close()
		defer ch.Close()

		publisher := notify.NewPublisher(ch, cfg.RabbitMQ.Queue, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)
		opts = append(opts, planning.WithNotifier(publisher))
	} else {
		logger.Info("RABBITMQ_DSN vide, notifications désactivées")
	}

	/**********************************************
	 * Moteur de planning
	 **********************************************/
	engine, err := bootstrap.Engine(cfg, backend, logger, opts...)
	if err != nil {
		logger.Error("impossible de créer le moteur de planning", "error", err)
		return
	}

	/**********************************************
	 * Redis (facultatif)
	 **********************************************/
	var statsCache *cache.StatsCache
	if cfg.Redis.Host != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		statsCache = cache.New(rdb, time.Duration(cfg.Redis.StatsTTL)*time.Second, time.Duration(cfg.Redis.OperationExpiration)*time.Second)
		if err := statsCache.Ping(); err != nil {
			// le cache n'est pas indispensable
			logger.Warn("Redis injoignable, cache des statistiques désactivé", "error", err)
			statsCache = nil
		}
	}

	/**********************************************
	 * Handler
	 **********************************************/
	h, err := handler.NewHandler(cfg, engine, backend, statsCache)
	if err != nil {
		logger.Error("impossible de créer le handler", "error", err)
		return
	}
	h.RegisterRoutes()

	/**********************************************
	 * Serveur HTTP
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      h.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("démarrage du serveur...", "port", cfg.Server.Port, "granularity", engine.Grid().Granularity())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("impossible de démarrer le serveur", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("arrêt du serveur...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("échec de l'arrêt du serveur", slog.String("error", err.Error()))
	}
	logger.Info("serveur arrêté")
}
