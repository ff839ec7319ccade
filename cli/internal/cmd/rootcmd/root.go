package rootcmd

import (
	"context"
	"fmt"
	"net"

	"github.com/MakeNowJust/heredoc"
	heredoc2 "github.com/MakeNowJust/heredoc/v2"
	"github.com/logrusorgru/aurora"
	"github.com/modernice/todoapi/api/rest"
	"github.com/modernice/todoapi/cli/internal/clifactory"
	"github.com/modernice/todoapi/cli/internal/serve"
	"github.com/spf13/cobra"
)

// New returns the root command.
func New(f *clifactory.Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "Run the todo API server",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		Long: heredoc2.Doc(`
			Run the todo HTTP API.

			Todos are stored in PostgreSQL unless another backend is selected.
			Every flag can also be set through its environment variable:

				TODO_ADDR, TODO_BACKEND, TODO_POSTGRES_URL, TODO_POSTGRES_TABLE,
				TODO_MONGO_URL, TODO_MONGO_DATABASE, TODO_MONGO_COLLECTION,
				TODO_NATS_URL, TODO_NATS_SUBJECT_PREFIX, TODO_LOG_LEVEL

			When TODO_NATS_URL is set, every change is published to NATS as a
			"todo.created", "todo.updated" or "todo.deleted" notification.
		`),
		Example: heredoc.Doc(`
			$ todo --memory
			$ todo --backend mongo --addr :8080
		`),
		PreRunE: func(*cobra.Command, []string) error {
			if f.Memory {
				return nil
			}
			return f.Config.Validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}

	cmd.Flags().BoolVarP(
		&f.Memory,
		"memory", "m",
		f.Memory,
		"Use the in-memory backend",
	)

	cmd.Flags().StringVar(
		&f.Config.Backend,
		"backend",
		f.Config.Backend,
		"Storage backend (memory, postgres or mongo)",
	)

	cmd.Flags().StringVar(
		&f.Config.Addr,
		"addr",
		f.Config.Addr,
		"Listen address",
	)

	return cmd
}

func run(cmd *cobra.Command, f *clifactory.Factory) error {
	ctx := f.Context

	handle, release, err := f.Handle(ctx)
	if err != nil {
		return err
	}
	defer release(context.WithoutCancel(ctx))

	lis, err := net.Listen("tcp", f.Config.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w [addr=%s]", err, f.Config.Addr)
	}

	cmd.Println(aurora.Green(fmt.Sprintf("todo API (%s) listening on http://%s", f.Backend(), lis.Addr())))

	return serve.Serve(ctx, lis, rest.New(handle, rest.WithLogger(f.Logger)), f.Logger)
}
