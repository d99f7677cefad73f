package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tgienger/taskboard/internal/board"
)

var subtaskCmd = &cobra.Command{
	Use:   "subtask",
	Short: "Manage the subtasks of a task",
}

var subtaskAddCmd = &cobra.Command{
	Use:   "add <task-id> <name>",
	Short: "Add a subtask",
	Args:  cobra.ExactArgs(2),
	RunE:  runSubtaskAdd,
}

var subtaskAddPosition int

var subtaskListCmd = &cobra.Command{
	Use:     "list <task-id>",
	Short:   "List the subtasks of a task",
	Aliases: []string{"ls"},
	Args:    cobra.ExactArgs(1),
	RunE:    runSubtaskList,
}

var subtaskListAll bool

var subtaskToggleCmd = &cobra.Command{
	Use:   "toggle <task-id> <subtask-id>",
	Short: "Flip a subtask's completion",
	Args:  cobra.ExactArgs(2),
	RunE:  runSubtaskToggle,
}

var subtaskRmCmd = &cobra.Command{
	Use:     "rm <task-id> <subtask-id>",
	Short:   "Delete a subtask",
	Aliases: []string{"delete"},
	Args:    cobra.ExactArgs(2),
	RunE:    runSubtaskRm,
}

func init() {
	rootCmd.AddCommand(subtaskCmd)
	subtaskCmd.AddCommand(subtaskAddCmd, subtaskListCmd, subtaskToggleCmd, subtaskRmCmd)

	subtaskAddCmd.Flags().IntVar(&subtaskAddPosition, "position", 0, "Position (0 appends after the last subtask)")
	subtaskListCmd.Flags().BoolVarP(&subtaskListAll, "all", "a", false, "Include deleted subtasks")

	addFlagAliases(subtaskAddCmd)
}

func subtaskArgs(args []string) (taskID, id int64, err error) {
	if taskID, err = parseID("task", args[0]); err != nil {
		return 0, 0, err
	}
	if id, err = parseID("subtask", args[1]); err != nil {
		return 0, 0, err
	}
	return taskID, id, nil
}

func runSubtaskAdd(cmd *cobra.Command, args []string) error {
	taskID, err := parseID("task", args[0])
	if err != nil {
		return err
	}
	in := board.CreateSubtaskInput{Name: args[1]}
	if cmd.Flags().Changed("position") {
		in.Position = &subtaskAddPosition
	}
	return withBoard(func(svc *board.Service) error {
		s, err := svc.CreateSubtask(cmd.Context(), taskID, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created subtask %d at position %d: %s\n", s.ID, s.Position, s.Name)
		return reportTask(cmd, svc, taskID)
	})
}

func runSubtaskList(cmd *cobra.Command, args []string) error {
	taskID, err := parseID("task", args[0])
	if err != nil {
		return err
	}
	return withBoard(func(svc *board.Service) error {
		subtasks, err := svc.ListSubtasks(cmd.Context(), taskID, subtaskListAll)
		if err != nil {
			return err
		}
		printSubtasks(cmd.OutOrStdout(), subtasks, subtaskListAll)
		return nil
	})
}

func runSubtaskToggle(cmd *cobra.Command, args []string) error {
	taskID, id, err := subtaskArgs(args)
	if err != nil {
		return err
	}
	return withBoard(func(svc *board.Service) error {
		s, err := svc.ToggleSubtask(cmd.Context(), taskID, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Subtask %d %s %s\n", s.ID, checkbox(s.Completed), s.Name)
		return reportTask(cmd, svc, taskID)
	})
}

func runSubtaskRm(cmd *cobra.Command, args []string) error {
	taskID, id, err := subtaskArgs(args)
	if err != nil {
		return err
	}
	return withBoard(func(svc *board.Service) error {
		if err := svc.DeleteSubtask(cmd.Context(), taskID, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted subtask %d\n", id)
		return reportTask(cmd, svc, taskID)
	})
}

// reportTask prints the parent task's state after a subtask change, since
// the change may have completed or reopened it.
func reportTask(cmd *cobra.Command, svc *board.Service, taskID int64) error {
	t, err := svc.GetTask(cmd.Context(), taskID, false)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Task %d is now %s %s\n", t.ID, t.Status, checkbox(t.Completed))
	return nil
}
