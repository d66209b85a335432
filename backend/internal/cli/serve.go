package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/campusdesk/campusdesk/backend/internal/router"
	"github.com/campusdesk/campusdesk/shared/logger"
	shared_pg "github.com/campusdesk/campusdesk/shared/storage/pg"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand runs the invitation sweeper and the ops listener until
// interrupted.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the invitation sweeper and the health/metrics listener",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), rootOpts)
		},
	}
}

func runServe(parent context.Context, opts *RootOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := opts.Connect(ctx, opts, shared_pg.DefaultConnectionConfig())
	if err != nil {
		return err
	}
	defer deps.Storage.Cleanup()

	deps.Sweeper.StartBackgroundSweep(ctx, deps.Config.InvitationSweepInterval())

	srv := &http.Server{
		Addr:              deps.Config.Public.OpsAddr,
		Handler:           router.New(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("ops listener started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
