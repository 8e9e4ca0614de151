package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"devlink/client/backend"
	"devlink/internal/actions"
	"devlink/internal/config"
	"devlink/internal/follows"
	"devlink/internal/guard"
	"devlink/internal/logging"
	"devlink/internal/metrics"
	"devlink/internal/notify"
	"devlink/internal/session"
	"devlink/internal/web"
)

func main() {
	cfg := config.Load()

	logger, err := logging.Init(cfg.LogLevel, cfg.LogstashAddr)
	if err != nil {
		logger.WithError(err).Warn("Logstash unavailable, logging to stdout only")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	secret := cfg.SessionSecret
	if secret == "" {
		logger.Warn("SESSION_SECRET not set, using a random secret; sessions end on restart")
		secret = config.DevSecret()
	}
	sessionKey, err := config.DeriveKey(secret, config.KeySessionJWT)
	if err != nil {
		logger.WithError(err).Fatal("Failed to derive session key")
	}
	flashAuth, err := config.DeriveKey(secret, config.KeyFlashAuth)
	if err != nil {
		logger.WithError(err).Fatal("Failed to derive flash key")
	}
	flashCrypt, err := config.DeriveKey(secret, config.KeyFlashCrypt)
	if err != nil {
		logger.WithError(err).Fatal("Failed to derive flash key")
	}

	api := backend.New(cfg.BackendURL,
		backend.WithTimeout(cfg.BackendTimeout),
		backend.WithLogger(logger),
		backend.WithLatency(m.BackendLatency),
	)

	sessions := session.NewManager(
		session.NewCodec(sessionKey, cfg.SessionTTL),
		api,
		session.WithRefreshAfter(cfg.SessionRefreshAfter),
		session.WithSecureCookie(cfg.CookieSecure),
		session.WithLogger(logger),
		session.WithMetrics(m),
	)

	limiter := actions.NewLimiter(cfg.AuthRateRPS, cfg.AuthRateBurst)
	if err := limiter.TrustProxies(cfg.TrustedProxies); err != nil {
		logger.WithError(err).Fatal("Invalid TRUSTED_PROXIES")
	}

	followState := followStore(cfg, logger)
	svc := actions.New(api, sessions,
		actions.WithFollowStore(followState),
		actions.WithLimiter(limiter),
		actions.WithLogger(logger),
		actions.WithMetrics(m),
	)

	var inbox *notify.Inbox
	if db, err := notify.ConnectDB(cfg, logger); err != nil {
		logger.WithError(err).Warn("Notification inbox disabled, offline notifications are dropped")
	} else if inbox, err = notify.NewInbox(db); err != nil {
		logger.WithError(err).Fatal("Failed to prepare notification inbox")
	}
	hub := notify.NewHub(inbox, logger, m)
	hub.SetFollowStore(followState)

	routes, err := guard.LoadRoutes(cfg.RoutesFile)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load route table")
	}

	webAPI := web.NewAPI(svc, sessions, hub, web.NewToasts(flashAuth, flashCrypt, cfg.CookieSecure), logger, m)
	webAPI.PushToken = cfg.PushToken
	if cfg.PushToken == "" {
		logger.Warn("INTERNAL_PUSH_TOKEN not set, notification pushes are rejected")
	}
	if cfg.FrontendURL != "" {
		pages, err := web.PageProxy(cfg.FrontendURL, logger)
		if err != nil {
			logger.WithError(err).Fatal("Invalid FRONTEND_URL")
		}
		webAPI.Pages = pages
	}

	r := web.NewRouter(webAPI, guard.New(routes, sessions, logger, m), reg)

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	fmt.Printf("Server starting on http://localhost%s\n", cfg.Port)
	logger.WithField("backend", cfg.BackendURL).Info("Server starting")
	logger.Fatal(srv.ListenAndServe())
}

// followStore uses Redis when REDIS_ADDR is set and reachable.
func followStore(cfg config.Config, logger *logrus.Logger) follows.Store {
	if cfg.RedisAddr == "" {
		return follows.NewMemory()
	}
	st := follows.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := st.Ping(ctx); err != nil {
		logger.WithError(err).Warn("Redis unavailable, keeping follow status in memory")
		return follows.NewMemory()
	}
	return st
}
