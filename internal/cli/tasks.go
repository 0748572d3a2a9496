package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adanyl0v/go-todo-local/internal/models"
	"github.com/adanyl0v/go-todo-local/internal/services"
)

const (
	shortIDLength      = 8
	minIDLength        = 4
	descriptionPreview = 100
)

var (
	errUnknownID   = errors.New("no task matches id")
	errAmbiguousID = errors.New("id prefix matches more than one task")
)

func (r *runner) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, _ := cmd.Flags().GetString("filter")
			full, _ := cmd.Flags().GetBool("full")
			filter, err := models.ParseFilter(name)
			if err != nil {
				return err
			}

			snapshot := r.store.Snapshot()
			printTasks(cmd.OutOrStdout(), filter.Apply(snapshot.Tasks), full)
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d remaining, %d completed\n", snapshot.Active, snapshot.Completed)
			return nil
		},
	}
	cmd.Flags().StringP("filter", "f", string(models.FilterAll), "Show all, active or completed tasks")
	cmd.Flags().Bool("full", false, "Do not truncate long descriptions")
	return cmd
}

func (r *runner) addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := r.store.Add(cmd.Context(), services.AddTaskParams{
				Title:       strings.Join(args, " "),
				Description: descriptionFlag(cmd),
			})
			if err = warnOnPersist(cmd, err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s  %s\n", shortID(task.ID), task.Title)
			return nil
		},
	}
	cmd.Flags().StringP("description", "d", "", "Task description")
	return cmd
}

func (r *runner) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task completed or active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := r.resolveID(args[0])
			if err != nil {
				return err
			}
			task, err := r.store.Toggle(cmd.Context(), id)
			if err = warnOnPersist(cmd, err); err != nil {
				return err
			}
			if task == nil {
				return fmt.Errorf("%w: %s", errUnknownID, args[0])
			}
			state := "active"
			if task.Completed {
				state = "completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %s %s\n", shortID(task.ID), state)
			return nil
		},
	}
}

func (r *runner) editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id> <title>",
		Short: "Change the title and description of a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := r.resolveID(args[0])
			if err != nil {
				return err
			}
			task, err := r.store.Update(cmd.Context(), services.UpdateTaskParams{
				ID:          id,
				Title:       strings.Join(args[1:], " "),
				Description: descriptionFlag(cmd),
			})
			if err = warnOnPersist(cmd, err); err != nil {
				return err
			}
			if task == nil {
				return fmt.Errorf("%w: %s", errUnknownID, args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s  %s\n", shortID(task.ID), task.Title)
			return nil
		},
	}
	cmd.Flags().StringP("description", "d", "", "New description, omit to remove it")
	return cmd
}

func (r *runner) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := r.resolveID(args[0])
			if err != nil {
				return err
			}
			deleted, err := r.store.Delete(cmd.Context(), id)
			if err = warnOnPersist(cmd, err); err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("%w: %s", errUnknownID, args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", shortID(id))
			return nil
		},
	}
}

func (r *runner) clearCompletedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			removed, err := r.store.ClearCompleted(cmd.Context())
			if err = warnOnPersist(cmd, err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d completed tasks\n", removed)
			return nil
		},
	}
}

// resolveID accepts a full id or a unique prefix or suffix of one at least
// minIDLength characters long.
func (r *runner) resolveID(arg string) (string, error) {
	if strings.TrimSpace(arg) == "" {
		return "", fmt.Errorf("%w: empty id", errUnknownID)
	}

	var match string
	for _, task := range r.store.Snapshot().Tasks {
		if task.ID == arg {
			return arg, nil
		}
		if len(arg) < minIDLength {
			continue
		}
		if strings.HasPrefix(task.ID, arg) || strings.HasSuffix(task.ID, arg) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", errAmbiguousID, arg)
			}
			match = task.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", errUnknownID, arg)
	}
	return match, nil
}

func descriptionFlag(cmd *cobra.Command) *string {
	if !cmd.Flags().Changed("description") {
		return nil
	}
	description, _ := cmd.Flags().GetString("description")
	return &description
}

// warnOnPersist prints persistence failures and returns every other error.
func warnOnPersist(cmd *cobra.Command, err error) error {
	if err != nil && services.IsPersistError(err) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		return nil
	}
	return err
}

func printTasks(w io.Writer, tasks []models.Task, full bool) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	for _, task := range tasks {
		mark := "[ ]"
		if task.Completed {
			mark = "[x]"
		}
		fmt.Fprintf(w, "%s %s  %s\n", mark, shortID(task.ID), task.Title)
		if task.Description != nil && *task.Description != "" {
			fmt.Fprintf(w, "      %s\n", preview(*task.Description, full))
		}
	}
}

func preview(s string, full bool) string {
	runes := []rune(s)
	if full || len(runes) <= descriptionPreview {
		return s
	}
	return string(runes[:descriptionPreview]) + "..."
}

// shortID keeps the random tail of the id; UUIDv7 ids created close
// together share their leading timestamp digits.
func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[len(id)-shortIDLength:]
}
