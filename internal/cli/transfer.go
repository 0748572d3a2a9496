package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-todo-local/internal/services"
	"github.com/adanyl0v/go-todo-local/internal/transfer"
)

func (r *runner) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every task to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				output = transfer.FileName(format)
			}

			snapshot := r.store.Snapshot()
			data, err := transfer.Export(snapshot.Tasks, format)
			if err != nil {
				return err
			}

			if output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err = os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks to %s\n", len(snapshot.Tasks), output)
			return nil
		},
	}
	cmd.Flags().String("format", transfer.FormatJSON, "Export format: json or pdf")
	cmd.Flags().StringP("output", "o", "", "Output file, - for stdout (default todos.json)")
	return cmd
}

func (r *runner) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace every task with the tasks of a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer file.Close()

			data, err := transfer.ReadImport(file)
			if err != nil {
				return err
			}

			count, err := r.store.ImportAll(cmd.Context(), data)
			if err = warnOnPersist(cmd, err); err != nil {
				var importErr *services.ImportError
				if errors.As(err, &importErr) || errors.Is(err, services.ErrImportNotArray) {
					return fmt.Errorf("import rejected, tasks unchanged: %w", err)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks\n", count)
			return nil
		},
	}
}
