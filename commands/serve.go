package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pixbatch/config"
	"pixbatch/credentials"
	"pixbatch/history"
	"pixbatch/logger"
	"pixbatch/routes"
	"pixbatch/spool"

	"github.com/spf13/cobra"
)

const (
	cleanupEvery    = 24 * time.Hour
	shutdownTimeout = 30 * time.Second
	minSecretLength = 32
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Args:  cobra.NoArgs,
		Short: "Run the HTTP server and the spool processor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = config.GetListenAddr()
			}
			return serve(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address; overrides PIXBATCH_ADDR")

	return cmd
}

func serve(parent context.Context, addr string) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting pixbatch server initialization")

	if secret := config.GetJWTSecret(); len(secret) == 0 {
		logger.Warn("PIXBATCH_JWT_SECRET is not set, every /batch request will be rejected")
	} else if len(secret) < minSecretLength {
		logger.Warnf("PIXBATCH_JWT_SECRET is shorter than %d bytes", minSecretLength)
	}

	logger.Debug("Initializing credentials database")
	if err := credentials.OpenDB(config.GetCredentialsDBPath()); err != nil {
		return err
	}
	defer credentials.CloseDB()

	logger.Debug("Initializing history database")
	if err := history.Init(config.GetHistoryDBPath()); err != nil {
		return err
	}
	defer history.Close()

	sp, err := spool.New(config.GetSpoolDir())
	if err != nil {
		return err
	}
	if n, err := sp.Scan(); err != nil {
		// not fatal, the watcher still picks up new manifests
		logger.Errorf("Failed to scan spool directory: %v", err)
	} else {
		logger.Infof("Found %d pending manifests in %s", n, sp.Dir())
	}
	if err := sp.Watch(ctx); err != nil {
		logger.Errorf("Spool watcher disabled: %v", err)
	}
	go sp.Run(ctx)
	go cleanupRoutine(ctx, config.GetHistoryMaxAge())

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.Handler(sp),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("pixbatch server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// cleanupRoutine periodically removes history records older than maxAge
func cleanupRoutine(ctx context.Context, maxAge time.Duration) {
	logger.Infof("Cleanup routine started, keeping records for %v", maxAge)
	ticker := time.NewTicker(cleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup routine stopped")
			return
		case <-ticker.C:
			removed, err := history.CleanupOldRecords(maxAge)
			if err != nil {
				logger.Errorf("Failed to clean up old batch records: %v", err)
				continue
			}
			logger.Infof("Removed %d batch records older than %v", removed, maxAge)
		}
	}
}
