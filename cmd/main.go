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

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/fjod/go_cart/storefront/internal/config"
	"github.com/fjod/go_cart/storefront/internal/controller"
	"github.com/fjod/go_cart/storefront/internal/gateway"
	h "github.com/fjod/go_cart/storefront/internal/http"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stdout,
	})

	kv, closeKV, err := newSessionKV(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to open session store")
	}
	defer closeKV()
	log.WithField("backend", cfg.SessionBackend).Info("session store ready")

	gw, err := gateway.New(gateway.Config{
		UsersURL:        cfg.UsersServiceURL,
		ProductsURL:     cfg.ProductsServiceURL,
		SalesURL:        cfg.SalesServiceURL,
		Timeout:         cfg.RequestTimeout,
		DialTimeout:     cfg.DialTimeout,
		BreakerFailures: cfg.BreakerFailures,
		BreakerTimeout:  cfg.BreakerTimeout,
		Logger:          log,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to build service gateway")
	}

	opts := []controller.Option{controller.WithLogger(log)}
	if cfg.PreloadCatalog {
		opts = append(opts, controller.WithCatalogPreload())
	}
	ctrl := controller.New(gw, session.NewStore(kv, log), opts...)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      h.NewRouter(ctrl, h.RouterConfig{HandlerTimeout: cfg.HandlerTimeout, Logger: log}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.HandlerTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("storefront listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down storefront...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	ctrl.Close()

	log.Info("storefront stopped")
}

// newSessionKV opens the configured session backend. The returned func
// releases it.
func newSessionKV(cfg *config.Config) (session.KV, func(), error) {
	switch cfg.SessionBackend {
	case config.SessionMemory:
		return session.NewMemoryKV(), func() {}, nil
	case config.SessionFile:
		kv, err := session.NewFileKV(cfg.SessionFile)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() {}, nil
	case config.SessionRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis connection failed: %w", err)
		}
		return session.NewRedisKV(client, cfg.SessionProfile, 0), func() {
			if err := client.Close(); err != nil {
				logrus.WithError(err).Warn("redis close failed")
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}
