package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campusdesk/campusdesk/backend/internal/setup"
	"github.com/campusdesk/campusdesk/shared/config"
	"github.com/campusdesk/campusdesk/shared/logger"
	shared_pg "github.com/campusdesk/campusdesk/shared/storage/pg"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFolder string
	Verbose      bool

	// Connect builds the dependencies for a command. Tests swap it out.
	Connect func(ctx context.Context, opts *RootOptions, connCfg shared_pg.ConnectionConfig) (*setup.Dependencies, error)
}

// NewRootCommand creates the campus admin CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{Connect: connect})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "campus",
		Short:         "Campus forum and helpdesk maintenance",
		Long:          "Operates the campus forum store: schema, invitations, threads, grading and the ops listener.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFolder, "config_folder", "backend/config", "path to folder with configs")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewBootstrapAdminCommand(opts))
	cmd.AddCommand(NewInviteCommand(opts))
	cmd.AddCommand(NewInvitesCommand(opts))
	cmd.AddCommand(NewThreadsCommand(opts))
	cmd.AddCommand(NewGradingCommand(opts))
	cmd.AddCommand(NewSweepCommand(opts))
	cmd.AddCommand(NewUnreadCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))

	return cmd
}

func connect(ctx context.Context, opts *RootOptions, connCfg shared_pg.ConnectionConfig) (*setup.Dependencies, error) {
	cfg := config.MustLoad(opts.ConfigFolder)
	level := cfg.Public.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	logger.Initialize(level, cfg.Public.LogJSON)
	return setup.SetupDependencies(ctx, cfg, connCfg)
}

// withDeps runs fn against a short-lived connection for one-shot commands.
func (o *RootOptions) withDeps(cmd *cobra.Command, fn func(ctx context.Context, deps *setup.Dependencies) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	deps, err := o.Connect(ctx, o, shared_pg.LightweightConnectionConfig())
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer deps.Storage.Cleanup()
	return fn(ctx, deps)
}
