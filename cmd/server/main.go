package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Dicode/internal/adapters/http"
	"github.com/dkeye/Dicode/internal/adapters/livekit"
	wssignal "github.com/dkeye/Dicode/internal/adapters/signal"
	"github.com/dkeye/Dicode/internal/app"
	"github.com/dkeye/Dicode/internal/app/media"
	"github.com/dkeye/Dicode/internal/app/orch"
	"github.com/dkeye/Dicode/internal/config"
	"github.com/dkeye/Dicode/internal/core"
	"github.com/dkeye/Dicode/internal/metrics"
	"github.com/dkeye/Dicode/internal/store"
)

type stores struct {
	rooms core.RoomStore
	users core.UserDirectory
	close func(context.Context)
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	s := &stores{close: func(context.Context) {}}
	switch cfg.Store.Driver {
	case "mongo":
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		m, err := store.ConnectMongo(connectCtx, cfg.Store.MongoURI, cfg.Store.Database)
		if err != nil {
			return nil, err
		}
		s.rooms, s.users = m, m
		s.close = func(ctx context.Context) { _ = m.Close(ctx) }
	default:
		log.Warn().Str("module", "main").Msg("using in-memory store, rooms are not persisted")
		m := store.NewMemory()
		s.rooms, s.users = m, m
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("module", "main").Str("addr", cfg.Redis.Addr).Msg("redis unreachable, profile cache will fall through")
		}
		s.users = store.NewCachedUsers(s.users, rdb, cfg.Redis.TTL)
		prev := s.close
		s.close = func(ctx context.Context) {
			_ = rdb.Close()
			prev(ctx)
		}
	}
	return s, nil
}

func mediaProvider(cfg *config.Config) core.MediaProvider {
	if !cfg.LiveKit.Enabled() {
		log.Info().Str("module", "main").Msg("livekit not configured, media grants disabled")
		return media.Nop{}
	}
	return livekit.New(cfg.LiveKit.URL, cfg.LiveKit.APIKey, cfg.LiveKit.APISecret, cfg.LiveKit.TokenTTL)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry := app.NewRegistry()
	m := metrics.New(reg, func() float64 { return float64(registry.Count()) })

	locks := app.NewRoomLocks()
	hosts := app.NewHostWatch(locks, cfg.GracePeriod)
	o := &orch.Orchestrator{
		Registry:     registry,
		Locks:        locks,
		Hosts:        hosts,
		Rooms:        st.rooms,
		Users:        st.users,
		Media:        media.NewBridge(mediaProvider(cfg), cfg.Media.Timeout, m),
		Policy:       app.SimplePolicy{},
		Metrics:      m,
		StoreTimeout: cfg.Store.Timeout,
	}

	limiter := wssignal.NewJoinLimiter(cfg.JoinLimit.Count, cfg.JoinLimit.Interval)
	go limiter.Run(ctx)
	ctrl := wssignal.NewSignalWSController(o, limiter)
	ctrl.ReadLimit = cfg.ReadLimit
	ctrl.PingPeriod = cfg.PingPeriod
	ctrl.SendBuffer = cfg.SendBuffer

	r := router.SetupRouter(ctx, cfg, o, ctrl, reg)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Dur("grace", hosts.GracePeriod()).Msg("Dicode relay started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	hosts.Stop()
	st.close(shutdownCtx)
	log.Info().Msg("Server exited gracefully")
}
