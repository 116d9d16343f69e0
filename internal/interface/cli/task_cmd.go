package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warelabs/taskterm/internal/domain/model"
	"github.com/warelabs/taskterm/internal/domain/model/task"
	"github.com/warelabs/taskterm/internal/domain/service/ordering"
	inframepo "github.com/warelabs/taskterm/internal/infrastructure/repository"
)

func loadTask() (*task.Task, error) {
	repo := inframepo.NewTaskSnapshotRepository(osFs)
	t, err := repo.Load(globalConfig.SnapshotPath())
	if err != nil {
		return nil, fmt.Errorf("load task snapshot: %w", err)
	}
	return t, nil
}

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Inspect the active task and its plan",
	}
	cmd.AddCommand(newTaskShowCmd())
	cmd.AddCommand(newTaskNextCmd())
	cmd.AddCommand(newTaskActionsCmd())
	cmd.AddCommand(newTaskCanExecCmd())
	cmd.AddCommand(newTaskCompleteCheckCmd())
	return cmd
}

func newTaskShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active task",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTask()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  [%s]\n", t.ID(), t.Name(), t.Status())
			fmt.Fprintf(cmd.OutOrStdout(), "type: %s, regular ordering: %s\n",
				t.Type().Name(), t.Type().RegularOrdering())
			return nil
		},
	}
}

func newTaskNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the next available action",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTask()
			if err != nil {
				return err
			}
			next := ordering.NextAvailableAction(t)
			if next == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "all actions are completed")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  order=%d  stage=%s  template=%s\n",
				next.ID(), next.Order(), next.Stage(), next.Template().Name())
			return nil
		},
	}
}

func newTaskActionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the plan with completion status",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTask()
			if err != nil {
				return err
			}
			for _, a := range t.Plan() {
				mark := " "
				if t.IsFullyCompleted(a) {
					mark = "x"
				}
				line := fmt.Sprintf("[%s] %s  order=%d  stage=%s", mark, a.ID(), a.Order(), a.Stage())
				if a.Template().AllowMultipleFacts() {
					if planned := a.PlannedQuantity(); planned != nil {
						line += fmt.Sprintf("  qty=%s/%s", t.CompletedQuantity(a), planned)
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func newTaskCanExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "can-exec <action-id>",
		Short: "Check whether an action may be executed now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTask()
			if err != nil {
				return err
			}
			id, err := model.NewActionIDFromString(args[0])
			if err != nil {
				return err
			}
			if err := ordering.CanExecute(t, id); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "no: %v\n", err)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "yes")
			return nil
		},
	}
}

func newTaskCompleteCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete-check",
		Short: "Check whether the task may be completed",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTask()
			if err != nil {
				return err
			}
			if err := ordering.CanCompleteTask(t); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "no: %v\n", err)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "yes")
			return nil
		},
	}
}
