package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	server "booking_relay/internal/adapters/http_server"
	"booking_relay/internal/adapters/observability"
	"booking_relay/internal/adapters/ratelimit"
	redisad "booking_relay/internal/adapters/redis"
	"booking_relay/internal/adapters/telegram"
	"booking_relay/internal/adapters/tlscert"
	"booking_relay/internal/app"
	"booking_relay/internal/catalog"
	"booking_relay/internal/domain"
	"booking_relay/internal/shared"
	mysqlrepo "booking_relay/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.CatalogSource).Msg("catalog load failed")
	}
	log.Info().Str("source", cfg.CatalogSource).Int("items", cat.Size()).Msg("catalog loaded")

	loc, err := time.LoadLocation(cfg.MessageTimezone)
	if err != nil {
		log.Fatal().Err(err).Str("tz", cfg.MessageTimezone).Msg("unknown MESSAGE_TIMEZONE")
	}

	// deps
	tg := telegram.New(telegram.Config{
		BaseURL:    cfg.TelegramBase,
		Token:      cfg.TelegramToken,
		ChatID:     cfg.TelegramChatID,
		Timeout:    cfg.TelegramTimeout,
		RPS:        cfg.TelegramRPS,
		MaxRetries: cfg.TelegramMaxRetries,
	})
	if !tg.Configured() {
		log.Warn().Msg("telegram credentials missing; submissions will fail with a configuration error")
	}
	relay := app.NewRelayService(tg, cat, app.Formatter{
		Location:  loc,
		ZoneLabel: cfg.ZoneLabel,
		Markup:    app.ParseMarkup(cfg.TelegramParseMode),
		SiteName:  cfg.SiteName,
	}, shared.RealClock{})

	limiter := newLimiter(ctx, cfg)

	tlsCfg, err := tlscert.Config(tlscert.Options{
		Mode:     cfg.TLSMode,
		CertFile: cfg.TLSCertFile,
		KeyFile:  cfg.TLSKeyFile,
		Hosts:    cfg.TLSHosts,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("tls setup failed")
	}

	// http
	reg := observability.InitRegistry()
	srv := server.New(server.Options{Origins: cfg.Origins(), TrustProxy: cfg.TrustProxy})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Relay:     relay,
		Catalog:   cat,
		Limiter:   limiter,
		ChatID:    cfg.TelegramChatID,
		BodyLimit: cfg.BodyLimitBytes,
		Dev:       cfg.IsDev(),
	})

	listeners := []*http.Server{{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}}
	if tlsCfg != nil {
		listeners = append(listeners, &http.Server{Addr: cfg.HTTPSAddr, Handler: srv.Mux(), TLSConfig: tlsCfg, ReadHeaderTimeout: 10 * time.Second})
	}
	servers := append([]*http.Server{}, listeners...)
	if m := observability.Serve(cfg.MetricsAddr, reg); m != nil {
		servers = append(servers, m)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range listeners {
		s := s
		g.Go(func() error { return listen(s) })
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		var errs []error
		for _, s := range servers {
			errs = append(errs, s.Shutdown(sctx))
		}
		if c, ok := limiter.(interface{ Close() error }); ok {
			errs = append(errs, c.Close())
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return
	}
	log.Info().Msg("server stopped")
}

func listen(s *http.Server) error {
	var err error
	if s.TLSConfig != nil {
		log.Info().Str("addr", s.Addr).Msg("HTTPS listening")
		err = s.ListenAndServeTLS("", "")
	} else {
		log.Info().Str("addr", s.Addr).Msg("HTTP listening")
		err = s.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func loadCatalog(ctx context.Context, cfg shared.Config) (*domain.Catalog, error) {
	switch {
	case cfg.CatalogSource == "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		// read once at startup; the catalog is immutable afterwards
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return nil, err
		}
		return mysqlrepo.New(db).Load(ctx)
	case cfg.CatalogDir != "":
		return catalog.FileSource{Dir: cfg.CatalogDir}.Load(ctx)
	default:
		return catalog.EmbeddedSource{}.Load(ctx)
	}
}

func newLimiter(ctx context.Context, cfg shared.Config) domain.RateLimiter {
	if cfg.RedisAddr != "" {
		l := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.RateLimitMax, cfg.RateLimitWindow)
		if err := l.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; rate limiter fails open until it recovers")
		}
		log.Info().Str("store", "redis").Int("max", cfg.RateLimitMax).Dur("window", cfg.RateLimitWindow).Msg("rate limiter ready")
		return l
	}
	log.Info().Str("store", "memory").Int("max", cfg.RateLimitMax).Dur("window", cfg.RateLimitWindow).Msg("rate limiter ready")
	return ratelimit.NewMemory(cfg.RateLimitMax, cfg.RateLimitWindow, nil)
}
