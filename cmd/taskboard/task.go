package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tgienger/taskboard/internal/board"
	"github.com/tgienger/taskboard/internal/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

// task add
var taskAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskAdd,
}

var (
	taskAddDescription string
	taskAddProject     int64
	taskAddStatus      string
)

// task list
var taskListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List tasks",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runTaskList,
}

var (
	taskListAll     bool
	taskListProject int64
	taskListStatus  string
)

// task show
var taskShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a task and its subtasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var taskShowAll bool

// task status
var taskStatusCmd = &cobra.Command{
	Use:   "status <id> <backlog|doing|done>",
	Short: "Move a task to another status",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskStatus,
}

// task toggle
var taskToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a task's completion",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskToggle,
}

// task rm
var taskRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Short:   "Delete a task and its subtasks",
	Aliases: []string{"delete"},
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskRm,
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskShowCmd, taskStatusCmd, taskToggleCmd, taskRmCmd)

	taskAddCmd.Flags().StringVarP(&taskAddDescription, "description", "d", "", "Task description")
	taskAddCmd.Flags().Int64VarP(&taskAddProject, "project", "p", 0, "Project id")
	taskAddCmd.Flags().StringVarP(&taskAddStatus, "status", "s", "", "Initial status (backlog, doing, done)")

	taskListCmd.Flags().BoolVarP(&taskListAll, "all", "a", false, "Include deleted tasks")
	taskListCmd.Flags().Int64VarP(&taskListProject, "project", "p", 0, "Only tasks in this project")
	taskListCmd.Flags().StringVarP(&taskListStatus, "status", "s", "", "Only tasks with this status")

	taskShowCmd.Flags().BoolVarP(&taskShowAll, "all", "a", false, "Include deleted subtasks")

	addFlagAliases(taskAddCmd)
}

func parseStatus(raw string) (models.Status, error) {
	status, ok := models.ParseStatus(raw)
	if !ok {
		return "", fmt.Errorf("invalid status %q (want backlog, doing or done)", raw)
	}
	return status, nil
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	in := board.CreateTaskInput{Name: args[0]}
	if cmd.Flags().Changed("description") {
		in.Description = &taskAddDescription
	}
	if cmd.Flags().Changed("project") {
		in.ProjectID = &taskAddProject
	}
	if taskAddStatus != "" {
		status, err := parseStatus(taskAddStatus)
		if err != nil {
			return err
		}
		in.Status = &status
	}

	return withBoard(func(svc *board.Service) error {
		t, err := svc.CreateTask(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created task %d: %s [%s]\n", t.ID, t.Name, t.Status)
		return nil
	})
}

func runTaskList(cmd *cobra.Command, args []string) error {
	opts := board.ListTasksOptions{IncludeDeleted: taskListAll}
	if cmd.Flags().Changed("project") {
		opts.ProjectID = &taskListProject
	}
	if taskListStatus != "" {
		status, err := parseStatus(taskListStatus)
		if err != nil {
			return err
		}
		opts.Status = &status
	}

	return withBoard(func(svc *board.Service) error {
		tasks, err := svc.ListTasks(cmd.Context(), opts)
		if err != nil {
			return err
		}
		printTasks(cmd.OutOrStdout(), tasks, taskListAll)
		return nil
	})
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	id, err := parseID("task", args[0])
	if err != nil {
		return err
	}
	return withBoard(func(svc *board.Service) error {
		t, err := svc.GetTask(cmd.Context(), id, taskShowAll)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Task %d: %s\n", t.ID, t.Name)
		fmt.Fprintf(w, "Status: %s %s\n", t.Status, checkbox(t.Completed))
		if t.Description != nil && *t.Description != "" {
			fmt.Fprintf(w, "\n%s\n", *t.Description)
		}
		fmt.Fprintln(w)
		printSubtasks(w, t.Subtasks, taskShowAll)
		return nil
	})
}

func runTaskStatus(cmd *cobra.Command, args []string) error {
	id, err := parseID("task", args[0])
	if err != nil {
		return err
	}
	status, err := parseStatus(args[1])
	if err != nil {
		return err
	}
	return withBoard(func(svc *board.Service) error {
		t, err := svc.PatchTaskStatus(cmd.Context(), id, status)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Task %d is now %s %s\n", t.ID, t.Status, checkbox(t.Completed))
		return nil
	})
}

func runTaskToggle(cmd *cobra.Command, args []string) error {
	id, err := parseID("task", args[0])
	if err != nil {
		return err
	}
	return withBoard(func(svc *board.Service) error {
		t, err := svc.ToggleTask(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Task %d is now %s %s\n", t.ID, t.Status, checkbox(t.Completed))
		return nil
	})
}

func runTaskRm(cmd *cobra.Command, args []string) error {
	id, err := parseID("task", args[0])
	if err != nil {
		return err
	}
	return withBoard(func(svc *board.Service) error {
		if err := svc.DeleteTask(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", id)
		return nil
	})
}
