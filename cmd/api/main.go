package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"ticket-ledger/internal/api"
	"ticket-ledger/internal/chatbot"
	"ticket-ledger/internal/config"
	"ticket-ledger/internal/ledger"
	"ticket-ledger/internal/metrics"
	"ticket-ledger/internal/observability"
	"ticket-ledger/internal/store"
)

func main() {
	settings := config.LoadSettings()
	observability.InitLogger(observability.LogConfig{
		Level:  settings.LogLevel,
		Format: settings.LogFormat,
	})

	if settings.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mem := store.NewMemoryStore(settings.ResultTTL)
	mem.StartCleanup(ctx, 5*time.Minute)

	var runs store.Store = mem
	if settings.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: settings.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unreachable, serving from memory only", "addr", settings.RedisAddr, "error", err)
		} else {
			slog.Info("redis result cache enabled", "addr", settings.RedisAddr, "ttl", settings.ResultTTL)
		}
		runs = store.NewCachedStore(mem, rdb, settings.ResultTTL)
	}

	router := api.NewRouter(api.Deps{
		Engine:      ledger.New(),
		Store:       runs,
		Bot:         chatbot.New(chatbot.DemoDirectory(), rand.New(rand.NewSource(time.Now().UnixNano()))),
		TicketDir:   settings.TicketDir,
		CORSOrigins: settings.CORSOrigins,
		Prometheus:  metrics.NewPrometheus(prometheus.DefaultRegisterer),
		Gatherer:    prometheus.DefaultGatherer,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", settings.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", srv.Addr, "env", settings.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
}
