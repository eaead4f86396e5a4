package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/example/authenx/internal/auth"
	"github.com/example/authenx/internal/config"
	"github.com/example/authenx/internal/handlers"
	"github.com/example/authenx/internal/hfclient"
	"github.com/example/authenx/internal/inference"
	"github.com/example/authenx/internal/logging"
	"github.com/example/authenx/internal/obs"
	"github.com/example/authenx/internal/usecase"
)

func main() {
	cfg := config.Load()

	logger, err := logging.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	registry := prometheus.NewRegistry()
	metrics := obs.NewMetrics(registry)

	var primary inference.Estimator
	if cfg.InferenceToken == "" {
		logger.Warn("HF_TOKEN is not set, realism scores will use the local heuristic only")
	} else {
		primary = hfclient.New(cfg.InferenceToken, cfg.InferenceModel, cfg.InferenceTimeout, logger)
	}
	fallback := inference.NewVarianceEstimator(logger)

	uc := usecase.NewVerificationUseCase(cfg, primary, fallback, metrics, logger)

	r := gin.Default()
	handlers.RegisterRoutes(r, uc, metrics.Handler(), auth.JWTMiddleware(cfg.JWTSecret, cfg.JWTAudience))

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	logger.Info("AuthenX API listening",
		zap.String("addr", cfg.ListenAddr),
		zap.String("model", cfg.InferenceModel),
		zap.Float64("threshold", cfg.Threshold))
	if err := serveHTTPServer(server, 15*time.Second, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func serveHTTPServer(server *http.Server, shutdownTimeout time.Duration, logger *zap.Logger) error {
	return serveHTTPServerWithOptions(server, shutdownTimeout, logger, nil, nil)
}

func serveHTTPServerWithOptions(server *http.Server, shutdownTimeout time.Duration, logger *zap.Logger, listener net.Listener, signalCh <-chan os.Signal) error {
	errCh := make(chan error, 1)
	go func() {
		var err error
		if listener != nil {
			err = server.Serve(listener)
		} else {
			err = server.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	var (
		sigCh       <-chan os.Signal
		stopSignals func()
	)

	if signalCh != nil {
		sigCh = signalCh
		stopSignals = func() {}
	} else {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		sigCh = ch
		stopSignals = func() {
			signal.Stop(ch)
		}
	}
	defer stopSignals()

	select {
	case err := <-errCh:
		return err
	case sig, ok := <-sigCh:
		if !ok {
			return <-errCh
		}
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return <-errCh
	}
}
