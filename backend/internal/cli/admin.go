package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/campusdesk/campusdesk/backend/internal/setup"
	"github.com/campusdesk/campusdesk/shared/domain"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema and seed default threads and grading parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withDeps(cmd, func(ctx context.Context, deps *setup.Dependencies) error {
				if err := deps.Storage.Migrate(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
				return nil
			})
		},
	}
}

type bootstrapOptions struct {
	account domain.NewAccount
	email   string
}

func NewBootstrapAdminCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &bootstrapOptions{}

	cmd := &cobra.Command{
		Use:   "bootstrap-admin",
		Short: "Create the first account with the admin role",
		Long:  "Creates an admin account when the users table is empty. The password is read from CAMPUS_ADMIN_PASSWORD.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.account.Password = os.Getenv("CAMPUS_ADMIN_PASSWORD")
			return rootOpts.withDeps(cmd, func(ctx context.Context, deps *setup.Dependencies) error {
				ok, err := deps.Accounts.BootstrapAdmin(ctx, opts.account, opts.email)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("users already exist, nothing created")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "admin %s created\n", opts.account.UserName)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.account.UserName, "user", "", "user name")
	cmd.Flags().StringVar(&opts.email, "email", "", "email address")
	cmd.Flags().StringVar(&opts.account.FirstName, "first", "", "first name")
	cmd.Flags().StringVar(&opts.account.LastName, "last", "", "last name")
	for _, name := range []string{"user", "email", "first", "last"} {
		cmd.MarkFlagRequired(name)
	}

	return cmd
}

func NewInviteCommand(rootOpts *RootOptions) *cobra.Command {
	var roles string

	cmd := &cobra.Command{
		Use:   "invite <email>",
		Short: "Issue an invitation code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withDeps(cmd, func(ctx context.Context, deps *setup.Dependencies) error {
				code, err := deps.Invitations.Generate(ctx, args[0], roles)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), code)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&roles, "roles", string(domain.RoleStudent), "comma separated roles (Admin, Role1, Role2)")
	return cmd
}

func NewInvitesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invites",
		Short: "Inspect outstanding invitations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "count",
		Short: "Reclaim expired codes and count the rest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withDeps(cmd, func(ctx context.Context, deps *setup.Dependencies) error {
				n, err := deps.Invitations.OutstandingCount(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
				return nil
			})
		},
	})

	return cmd
}

func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Delete expired invitation codes once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withDeps(cmd, func(ctx context.Context, deps *setup.Dependencies) error {
				if err := deps.Sweeper.RunSweep(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", deps.Sweeper.GetLastSweepStats().Deleted)
				return nil
			})
		},
	}
}

func NewThreadsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "threads",
		Short: "List, rename and delete threads",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List threads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withDeps(cmd, func(ctx context.Context, deps *setup.Dependencies) error {
				names, err := deps.Threads.Threads(ctx)
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a thread and move its posts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withDeps(cmd, func(ctx context.Context, deps *setup.Dependencies) error {
				ok, err := deps.Threads.RenameThread(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				return report(cmd, ok, "renamed", "thread not renamed")
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a thread, moving its posts to General",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withDeps(cmd, func(ctx context.Context, deps *setup.Dependencies) error {
				ok, err := deps.Threads.DeleteThread(ctx, args[0])
				if err != nil {
					return err
				}
				return report(cmd, ok, "deleted", "thread not deleted")
			})
		},
	})

	return cmd
}

func NewGradingCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grading",
		Short: "Manage grading parameters",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete-param <id>",
		Short: "Delete a grading parameter and every score recorded against it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid parameter id %q", args[0])
			}
			return rootOpts.withDeps(cmd, func(ctx context.Context, deps *setup.Dependencies) error {
				ok, err := deps.Grading.DeleteParameter(ctx, id)
				if err != nil {
					return err
				}
				return report(cmd, ok, "deleted", "no such parameter")
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-score <student> <param-id> <score>",
		Short: "Record a student's score for a grading parameter",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid parameter id %q", args[1])
			}
			score, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid score %q", args[2])
			}
			return rootOpts.withDeps(cmd, func(ctx context.Context, deps *setup.Dependencies) error {
				ok, err := deps.Grading.SetScore(ctx, args[0], id, score)
				if err != nil {
					return err
				}
				return report(cmd, ok, "recorded", "no such parameter")
			})
		},
	})

	return cmd
}

func NewUnreadCommand(rootOpts *RootOptions) *cobra.Command {
	var postId int64

	cmd := &cobra.Command{
		Use:   "unread <user>",
		Short: "Print a user's unread reply count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withDeps(cmd, func(ctx context.Context, deps *setup.Dependencies) error {
				var n int
				var err error
				if postId > 0 {
					n, err = deps.ReadState.UnreadCountForPost(ctx, postId, args[0])
				} else {
					n, err = deps.ReadState.UnreadCount(ctx, args[0])
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&postId, "post", 0, "limit to one post")
	return cmd
}

// report prints done, or fails with refused, so scripts can check the exit
// status.
func report(cmd *cobra.Command, ok bool, done, refused string) error {
	if !ok {
		return fmt.Errorf("%s", refused)
	}
	fmt.Fprintln(cmd.OutOrStdout(), done)
	return nil
}
