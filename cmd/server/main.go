package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	grpcdelivery "github.com/Xausdorf/account-hub/internal/delivery/grpc"
	httpdelivery "github.com/Xausdorf/account-hub/internal/delivery/http"
	"github.com/Xausdorf/account-hub/internal/domain/notification"
	"github.com/Xausdorf/account-hub/internal/infrastructure/config"
	"github.com/Xausdorf/account-hub/internal/infrastructure/memory"
	"github.com/Xausdorf/account-hub/internal/infrastructure/metrics"
	"github.com/Xausdorf/account-hub/internal/infrastructure/notifier"
	"github.com/Xausdorf/account-hub/internal/infrastructure/qrgenerator"
	"github.com/Xausdorf/account-hub/internal/usecase/account"
	"github.com/Xausdorf/account-hub/internal/usecase/generateqr"
	"github.com/Xausdorf/account-hub/internal/usecase/transfer"
)

const readHeaderTimeout = 5 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	n, closeNotifier, err := initNotifier(cfg, logger)
	if err != nil {
		logger.Error("notifier init failed", "error", err)
		os.Exit(1)
	}
	defer closeNotifier()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	uow := memory.NewUnitOfWork(memory.NewStore())
	accountUC := account.NewUseCase(uow, logger)
	transferUC := transfer.NewUseCase(uow, n,
		transfer.WithLogger(logger),
		transfer.WithRecorder(m),
	)
	generateQRUC := generateqr.NewUseCase(uow, qrgenerator.NewGenerator(cfg.QRCodeSize))

	router := httpdelivery.NewRouter(
		httpdelivery.NewHandler(accountUC, transferUC, generateQRUC),
		httpdelivery.RouterConfig{
			Logger:         logger,
			RequestTimeout: cfg.RequestTimeout,
			AllowReset:     cfg.AllowReset,
			Metrics:        m.Middleware,
			MetricsHandler: m.Handler(),
		},
	)
	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	grpcSrv, healthSrv := grpcdelivery.NewServer(
		grpcdelivery.NewHandler(accountUC, transferUC, cfg.AllowReset),
		logger,
	)
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Error("listen failed", "error", err)
		os.Exit(1)
	}

	go func() {
		logger.Info("gRPC server starting", "addr", cfg.GRPCAddr)
		if err := grpcSrv.Serve(lis); err != nil {
			logger.Error("grpc serve failed", "error", err)
			cancel()
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	healthSrv.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}

	stopped := make(chan struct{})
	go func() {
		grpcSrv.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		grpcSrv.Stop()
	}
}

func initNotifier(cfg *config.Config, logger *slog.Logger) (notification.Notifier, func(), error) {
	switch cfg.Notifier {
	case config.NotifierNATS:
		n, err := notifier.NewNATSNotifier(cfg.NATSURL, cfg.NATSSubject, logger)
		if err != nil {
			return nil, nil, err
		}
		return n, n.Close, nil
	default:
		return notifier.NewLogNotifier(logger), func() {}, nil
	}
}
