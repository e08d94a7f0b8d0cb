package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// session carries the bootstrapped App from the pre-run hook to the command.
type session struct {
	app *App
	in  io.Reader
	out io.Writer
}

// Execute builds the command tree and runs it against os.Args.
func Execute(ctx context.Context) error {
	s := &session{in: os.Stdin, out: os.Stdout}
	defer func() { s.app.Close() }()

	root := newRootCommand(s)
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			printError(os.Stderr, err)
		}
		return err
	}
	return nil
}

func newRootCommand(s *session) *cobra.Command {
	root := &cobra.Command{
		Use:   "tracker",
		Short: "Telecom complaint tracker",
		Long: `Track network-service complaints for a telecom support desk: register customers
and field technicians, log complaints, assign technicians and move complaints
through their lifecycle.

Run without a subcommand to start the interactive menu.

Examples:
  tracker
  tracker complaint list --status Open
  tracker complaint assign 12 4`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsStorage(cmd) {
				return nil
			}
			app, err := Bootstrap(cmd.Context(), cmd.Name() == "migrate")
			if err != nil {
				return err
			}
			s.app = app
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunMenu(cmd.Context(), s.app, s.in, s.out)
		},
	}

	root.AddCommand(
		newMenuCommand(s),
		newMigrateCommand(s),
		newCustomerCommand(s),
		newTechnicianCommand(s),
		newComplaintCommand(s),
	)
	return root
}

func newMenuCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Start the interactive operator menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunMenu(cmd.Context(), s.app, s.in, s.out)
		},
	}
}

func newMigrateCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(s.out, "Schema is up to date.\n")
			return err
		},
	}
}

// needsStorage reports whether cmd works on tracker data. Help and shell
// completion run without a database.
func needsStorage(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}
