package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tgienger/taskboard/internal/board"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectAdd,
}

var projectAddColor string

var projectListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List projects",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runProjectList,
}

var projectRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a project and its tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectRm,
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectAddCmd, projectListCmd, projectRmCmd)

	projectAddCmd.Flags().StringVarP(&projectAddColor, "color", "c", "#3498db", "Project color (#RRGGBB)")
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	return withBoard(func(svc *board.Service) error {
		p, err := svc.CreateProject(cmd.Context(), board.ProjectInput{Name: args[0], Color: projectAddColor})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created project %d: %s\n", p.ID, p.Name)
		return nil
	})
}

func runProjectList(cmd *cobra.Command, args []string) error {
	return withBoard(func(svc *board.Service) error {
		projects, err := svc.ListProjects(cmd.Context())
		if err != nil {
			return err
		}
		printProjects(cmd.OutOrStdout(), projects)
		return nil
	})
}

func runProjectRm(cmd *cobra.Command, args []string) error {
	id, err := parseID("project", args[0])
	if err != nil {
		return err
	}
	return withBoard(func(svc *board.Service) error {
		if err := svc.DeleteProject(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %d\n", id)
		return nil
	})
}
