package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"

	"xdao.co/subnetconv/config"
	"xdao.co/subnetconv/storage"
	"xdao.co/subnetconv/storage/grpcarchive"
	"xdao.co/subnetconv/storage/localfs"
)

// daemon holds the listeners and servers of one archive process.
type daemon struct {
	cfg    *config.Config
	logger *slog.Logger

	grpcLis    net.Listener
	grpcServer *grpc.Server

	metricsLis    net.Listener
	metricsServer *http.Server

	upstream *grpcarchive.Client
}

func newDaemon(cfg *config.Config, logger *slog.Logger, reg *prometheus.Registry) (*daemon, error) {
	local, err := localfs.New(cfg.ArchiveDir)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	var archive storage.Archive = local
	var upstream *grpcarchive.Client
	if cfg.UpstreamTarget != "" {
		upstream, err = grpcarchive.Dial(cfg.UpstreamTarget, grpcarchive.DialOptions{
			Timeout:     cfg.GRPCTimeout,
			MaxMsgBytes: cfg.GRPCMaxMsgBytes,
		})
		if err != nil {
			return nil, fmt.Errorf("dial upstream %s: %w", cfg.UpstreamTarget, err)
		}
		archive = storage.Fallback{Archives: []storage.Archive{local, upstream}}
	}

	var serverOpts []grpc.ServerOption
	if cfg.GRPCMaxMsgBytes > 0 {
		serverOpts = append(serverOpts,
			grpc.MaxRecvMsgSize(cfg.GRPCMaxMsgBytes),
			grpc.MaxSendMsgSize(cfg.GRPCMaxMsgBytes),
		)
	}
	if cfg.GRPCTimeout > 0 {
		serverOpts = append(serverOpts, grpc.ConnectionTimeout(cfg.GRPCTimeout))
	}
	d := &daemon{
		cfg:        cfg,
		logger:     logger,
		grpcServer: grpc.NewServer(serverOpts...),
		upstream:   upstream,
	}
	grpcarchive.RegisterArchiveServer(d.grpcServer, &grpcarchive.Server{
		Archive: archive,
		Logger:  logger.With("component", "archive"),
		Metrics: grpcarchive.NewMetrics(reg),
	})

	d.grpcLis, err = net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		_ = d.upstream.Close()
		return nil, fmt.Errorf("listen %s: %w", cfg.ListenAddr, err)
	}
	if cfg.MetricsAddr != "" {
		d.metricsLis, err = net.Listen("tcp", cfg.MetricsAddr)
		if err != nil {
			_ = d.grpcLis.Close()
			_ = d.upstream.Close()
			return nil, fmt.Errorf("listen %s: %w", cfg.MetricsAddr, err)
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		d.metricsServer = &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 60 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		}
	}
	return d, nil
}

// run serves until ctx is cancelled or a server fails, then shuts both down.
func (d *daemon) run(ctx context.Context) error {
	errChan := make(chan error, 2)
	d.logger.Info(
		"serving archive on "+d.grpcLis.Addr().String(),
		"component", programName,
		"archiveDir", d.cfg.ArchiveDir,
	)
	go func() {
		errChan <- d.grpcServer.Serve(d.grpcLis)
	}()
	if d.metricsServer != nil {
		d.logger.Info(
			"serving prometheus metrics on "+d.metricsLis.Addr().String(),
			"component", programName,
		)
		go func() {
			if err := d.metricsServer.Serve(d.metricsLis); err != nil &&
				!errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		d.logger.Info("signal received, initiating graceful shutdown", "component", programName)
	case runErr = <-errChan:
		d.logger.Error("server error", "component", programName, "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), d.cfg.ShutdownTimeout)
	defer cancel()
	if d.metricsServer != nil {
		if err := d.metricsServer.Shutdown(shutdownCtx); err != nil {
			d.logger.Error("metrics server shutdown error", "error", err)
		}
	}
	stopped := make(chan struct{})
	go func() {
		d.grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		d.grpcServer.Stop()
		<-stopped
	}
	if err := d.upstream.Close(); err != nil {
		d.logger.Error("upstream close error", "error", err)
	}
	d.logger.Info("shutdown complete", "component", programName)
	return runErr
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	d, err := newDaemon(cfg, logger, reg)
	if err != nil {
		return err
	}

	signalCtx, signalCtxStop := signal.NotifyContext(
		ctx,
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer signalCtxStop()
	return d.run(signalCtx)
}
