package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/GoSim-25-26J-441/kinfit/internal/fitd"
	"github.com/GoSim-25-26J-441/kinfit/pkg/logger"
)

func newServeCmd(a *app) *cobra.Command {
	var grpcAddr, httpAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the fit service over HTTP and gRPC",
		Long: `Run the fit service. Fits are kept in memory for the lifetime of the
process.

Examples:
  kinfit serve
  kinfit serve --config config/kinfit.yaml --http-addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if grpcAddr != "" {
				a.cfg.Server.GRPCAddr = grpcAddr
			}
			if httpAddr != "" {
				a.cfg.Server.HTTPAddr = httpAddr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a)
		},
	}
	cmd.Flags().StringVar(&grpcAddr, "grpc-addr", "", "gRPC listen address (overrides config)")
	cmd.Flags().StringVar(&httpAddr, "http-addr", "", "HTTP listen address (overrides config)")
	return cmd
}

// serve runs both servers until ctx is done or either fails
func serve(ctx context.Context, a *app) error {
	cfg := a.cfg.Server

	store := fitd.NewFitStore()
	metrics := fitd.NewMetrics()
	executor := fitd.NewFitExecutor(store, a.cfg, metrics)

	// TODO: Configure gRPC server security (TLS, authentication) before
	// exposing this service outside a trusted network.
	grpcServer := grpc.NewServer()
	fitd.RegisterFitServiceServer(grpcServer, fitd.NewFitGRPCServer(store, executor))

	grpcLis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC on %s: %w", cfg.GRPCAddr, err)
	}

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           fitd.NewHTTPServer(store, executor, metrics, cfg.RateLimitRPS, cfg.Burst).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("gRPC server listening", "addr", grpcLis.Addr().String())
		if err := grpcServer.Serve(grpcLis); err != nil {
			errCh <- fmt.Errorf("gRPC server: %w", err)
		}
	}()
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case serveErr = <-errCh:
		logger.Error("server failed", "error", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	grpcServer.GracefulStop()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
	executor.Wait()
	return serveErr
}
