package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tasktrack/tasktrack/internal/client/validation"
	"github.com/tasktrack/tasktrack/internal/client/view"
	"github.com/tasktrack/tasktrack/internal/core/domain"
)

func filterNames() string {
	names := make([]string, 0, len(view.Filters()))
	for _, f := range view.Filters() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

func sortNames() string {
	names := make([]string, 0, len(view.SortKeys()))
	for _, k := range view.SortKeys() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

func (s *shell) listCmd() *cobra.Command {
	var filter, sortKey string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show tasks; --filter and --sort stick for later lists",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("filter") {
				s.filter = view.ParseFilter(filter)
			}
			if cmd.Flags().Changed("sort") {
				s.sort = view.ParseSortKey(sortKey)
			}
			p := s.app.View(s.filter, s.sort)
			s.printTasks(p.Visible)
			s.printStats(p.Stats)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "one of: "+filterNames())
	cmd.Flags().StringVarP(&sortKey, "sort", "s", "", "one of: "+sortNames())
	return cmd
}

func (s *shell) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts and progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s.printStats(s.app.View(view.FilterAll, view.SortDate).Stats)
			return nil
		},
	}
}

func (s *shell) refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Reload tasks from the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.app.Refresh(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(s.out, "%d task(s).\n", s.app.Tasks.Len())
			return nil
		},
	}
}

// taskFlags are the editable task fields shared by add and edit.
type taskFlags struct {
	title, description, date, priority, status string
}

func (f *taskFlags) bind(cmd *cobra.Command, withTitle bool) {
	if withTitle {
		cmd.Flags().StringVarP(&f.title, "title", "t", "", "title")
	}
	cmd.Flags().StringVarP(&f.description, "desc", "d", "", "description")
	cmd.Flags().StringVar(&f.date, "date", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&f.priority, "priority", "p", "", "Low, Medium or High")
	cmd.Flags().StringVar(&f.status, "status", "", "Pending, In Progress or Completed")
}

// apply copies the flags the user actually passed onto form.
func (f *taskFlags) apply(cmd *cobra.Command, form *validation.TaskForm) {
	for flag, field := range map[string]validation.Field{
		"title":    validation.FieldTitle,
		"desc":     validation.FieldDescription,
		"date":     validation.FieldDate,
		"priority": validation.FieldPriority,
		"status":   validation.FieldStatus,
	} {
		if cmd.Flags().Lookup(flag) == nil || !cmd.Flags().Changed(flag) {
			continue
		}
		v, _ := cmd.Flags().GetString(flag)
		form.Set(field, v)
	}
}

func (s *shell) addCmd() *cobra.Command {
	var flags taskFlags

	cmd := &cobra.Command{
		Use:     "add <title>",
		Short:   "Create a task",
		Example: `  add "Pay rent" --desc "Transfer to landlord" --date 2026-11-01 --priority High`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form := validation.NewTaskForm()
			form.Set(validation.FieldTitle, args[0])
			flags.apply(cmd, form)
			if !form.Validate() {
				return form.Errors()
			}
			if err := s.app.AddTask(cmd.Context(), form.Task()); err != nil {
				return err
			}
			fmt.Fprintln(s.out, "Task added.")
			return nil
		},
	}
	flags.bind(cmd, false)
	return cmd
}

func (s *shell) editCmd() *cobra.Command {
	var flags taskFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.TaskID(args[0])
			current, ok := s.app.Tasks.Find(id)
			if !ok {
				return fmt.Errorf("no task with id %s", id)
			}
			form := validation.EditTaskForm(current)
			flags.apply(cmd, form)
			if !form.Validate() {
				return form.Errors()
			}
			if err := s.app.EditTask(cmd.Context(), id, form.Task()); err != nil {
				return err
			}
			fmt.Fprintln(s.out, "Task updated.")
			return nil
		},
	}
	flags.bind(cmd, true)
	return cmd
}

func (s *shell) completeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.app.CompleteTask(cmd.Context(), domain.TaskID(args[0])); err != nil {
				return err
			}
			fmt.Fprintln(s.out, "Task completed.")
			return nil
		},
	}
}

func (s *shell) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between done and not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.app.ToggleTask(cmd.Context(), domain.TaskID(args[0])); err != nil {
				return err
			}
			fmt.Fprintln(s.out, "Task toggled.")
			return nil
		},
	}
}

func (s *shell) deleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.TaskID(args[0])
			if !yes {
				title := string(id)
				if t, ok := s.app.Tasks.Find(id); ok {
					title = t.Title
				}
				if !s.confirm(fmt.Sprintf("Delete %q?", title)) {
					fmt.Fprintln(s.out, "Kept.")
					return nil
				}
			}
			if err := s.app.DeleteTask(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(s.out, "Task deleted.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}

func (s *shell) printTasks(tasks []domain.Task) {
	if len(tasks) == 0 {
		fmt.Fprintf(s.out, "No tasks (filter: %s).\n", s.filter)
		return
	}
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDONE\tTITLE\tDUE\tPRIORITY\tSTATUS")
	for _, t := range tasks {
		done := " "
		if t.Completed {
			done = "x"
		}
		fmt.Fprintf(w, "%s\t[%s]\t%s\t%s\t%s\t%s\n", t.ID, done, t.Title, t.Date, t.Priority.Label(), t.Status.Label())
	}
	_ = w.Flush()
}

func (s *shell) printStats(st view.Stats) {
	fmt.Fprintf(s.out, "%d total, %d completed, %d in progress, %d pending (%d%% done)\n",
		st.Total, st.Completed, st.InProgress, st.Pending, st.Progress)
}
