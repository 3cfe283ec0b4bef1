package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fxscan/internal/adapters"
	"fxscan/internal/adapters/cache"
	"fxscan/internal/adapters/httpclient"
	"fxscan/internal/api"
	"fxscan/internal/config"
	"fxscan/internal/domain"
	httpserver "fxscan/internal/platform/http"
	"fxscan/internal/rate"
	"fxscan/internal/rate/handler"

	"github.com/sirupsen/logrus"
)

// Run wires the application components and drives the poll loop until
// cancellation or the consecutive-failure threshold.
func Run(args []string) error {
	cfg, err := config.Init(args)
	if err != nil {
		return err
	}

	// Logger
	logrus.SetOutput(os.Stderr)
	if parsedLvl, parseErr := logrus.ParseLevel(cfg.Logging.Level); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	pairs, err := domain.ParsePairs(cfg.Scanner.Pairs)
	if err != nil {
		logrus.WithError(err).Error("Invalid pair list")
		return err
	}

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// One HTTP client owned for the process lifetime
	httpTimeout := time.Duration(cfg.HTTPClient.TimeoutSeconds) * time.Second
	baseHTTPClient := &http.Client{Timeout: httpTimeout}
	defer baseHTTPClient.CloseIdleConnections()

	var source adapters.QuoteSource = httpclient.NewAlphaVantageClient(
		baseHTTPClient,
		cfg.AlphaVantage.BaseURL,
		cfg.AlphaVantage.APIKey,
	)

	if cfg.Cache.TTLSeconds > 0 {
		cached, cacheErr := cache.NewCachedQuoteSource(source, cfg.Cache.MaxItems, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
		if cacheErr != nil {
			logrus.WithError(cacheErr).Error("Failed to create quote cache")
			return cacheErr
		}
		defer cached.Close()
		source = cached
		logrus.Info("✅ Quote cache enabled")
	}

	presenters := []adapters.Presenter{rate.NewTablePresenter(os.Stdout)}
	if cfg.HTTPServer.Port != "" {
		latest := rate.NewLatestSnapshot()
		presenters = append(presenters, latest)
		router := api.NewRouter(handler.NewSnapshotHandler(latest))
		go func() {
			if serveErr := httpserver.Start(ctx, cfg.HTTPServer, router); serveErr != nil {
				logrus.WithError(serveErr).Error("Snapshot observer stopped with error")
			}
		}()
	}

	poller := rate.NewPoller(
		pairs,
		source,
		rate.NewMultiPresenter(presenters...),
		time.Duration(cfg.Scanner.RefreshSeconds)*time.Second,
		cfg.Scanner.FailThreshold,
		httpTimeout,
	)

	if cfg.Scanner.Once {
		return poller.RunOnce(ctx)
	}
	return poller.Run(ctx)
}
