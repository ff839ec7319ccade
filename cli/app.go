// Package cli implements the todo command.
package cli

import (
	"github.com/modernice/todoapi/cli/internal/clifactory"
	"github.com/modernice/todoapi/cli/internal/cmd/rootcmd"
	"github.com/spf13/cobra"
)

// App is the todo command-line application.
type App struct {
	root *cobra.Command
}

// New returns the App. The options configure the Factory that the commands
// share.
func New(opts ...clifactory.Option) *App {
	return &App{root: rootcmd.New(clifactory.New(opts...))}
}

// Root returns the root command.
func (app *App) Root() *cobra.Command {
	return app.root
}

// Run runs the root command with the given arguments.
func (app *App) Run(args ...string) error {
	app.root.SetArgs(args)
	return app.root.Execute()
}
