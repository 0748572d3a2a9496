package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-todo-local/internal/services"
)

// StoreOpener returns an initialized task store and a func releasing it.
type StoreOpener func(ctx context.Context, verbose bool) (services.TaskStore, func(), error)

type runner struct {
	open    StoreOpener
	verbose bool

	store   services.TaskStore
	closeFn func()
}

// NewRootCommand builds the todoctl command tree around the given opener.
func NewRootCommand(open StoreOpener) *cobra.Command {
	r := &runner{open: open}

	rootCmd := &cobra.Command{
		Use:   "todoctl",
		Short: "Manage a local task list",
		Long: `todoctl creates, edits, completes, deletes, exports and imports tasks.

Tasks are kept in the storage backend selected by STORAGE_DRIVER.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: r.setup,
		PersistentPostRun: r.teardown,
	}
	rootCmd.PersistentFlags().BoolVarP(&r.verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(
		r.listCmd(),
		r.addCmd(),
		r.toggleCmd(),
		r.editCmd(),
		r.deleteCmd(),
		r.clearCompletedCmd(),
		r.exportCmd(),
		r.importCmd(),
	)
	return rootCmd
}

func (r *runner) setup(cmd *cobra.Command, _ []string) error {
	if !needsStore(cmd) {
		return nil
	}
	store, closeFn, err := r.open(cmd.Context(), r.verbose)
	if err != nil {
		return err
	}
	r.store = store
	r.closeFn = closeFn
	return nil
}

func (r *runner) teardown(_ *cobra.Command, _ []string) {
	if r.closeFn != nil {
		r.closeFn()
	}
}

// needsStore reports false for cobra's built-in help and completion commands.
func needsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}
