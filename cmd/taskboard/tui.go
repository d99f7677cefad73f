package main

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tgienger/taskboard/internal/ui"
)

var errNotTerminal = errors.New("tui needs an interactive terminal")

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the terminal board",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	database, svc, err := openBoard()
	if err != nil {
		return err
	}
	defer database.Close()

	app := ui.NewApp(database, svc)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	return err
}
