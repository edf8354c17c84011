package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/strain/internal/adapters/classifier"
	"github.com/okian/strain/internal/adapters/http/api"
	"github.com/okian/strain/internal/adapters/recorder"
	service "github.com/okian/strain/internal/app"
	"github.com/okian/strain/internal/config"
	"github.com/okian/strain/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Disable default Go metrics collection; the pipeline exports its
	// own metric set on a custom registry.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Pick the classifier: remote model server when configured, the
	// embedded linear fallback otherwise.
	var predictor classifier.Predictor
	if cfg.ClassifierURL != "" {
		predictor = classifier.NewRemote(
			cfg.ClassifierURL,
			classifier.WithTimeout(time.Duration(cfg.ClassifierTimeoutMS)*time.Millisecond),
		)
		log.Info(ctx, "using remote classifier", logger.String("url", cfg.ClassifierURL))
	} else {
		predictor = classifier.NewLinear()
		log.Info(ctx, "using embedded linear classifier")
	}

	opts := []service.Option{
		service.WithLogger(log.Named("session")),
		service.WithAccelWindowSize(cfg.AccelWindowSize),
		service.WithHeartRateWindowSize(cfg.HeartRateWindowSize),
		service.WithSamplePeriod(cfg.SamplePeriodSeconds),
		service.WithThreshold(cfg.DecisionThreshold),
		service.WithPredictor(predictor),
	}
	if cfg.ArchiveEnabled {
		opts = append(opts, service.WithArchive(recorder.New(cfg.ArchiveURL)))
		log.Info(ctx, "session archiving enabled", logger.String("url", cfg.ArchiveURL))
	}

	svc := service.New(opts...)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn(context.Background(), "HTTP shutdown incomplete", logger.Error(err))
	}
}
