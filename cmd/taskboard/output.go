package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/tgienger/taskboard/internal/models"
)

func printTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}

func printProjects(w io.Writer, projects []models.Project) {
	if len(projects) == 0 {
		fmt.Fprintln(w, "No projects found.")
		return
	}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{strconv.FormatInt(p.ID, 10), p.Name, p.Color})
	}
	printTable(w, []string{"ID", "NAME", "COLOR"}, rows)
}

func printTasks(w io.Writer, tasks []models.Task, withDeleted bool) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}
	headers := []string{"ID", "STATUS", "DONE", "NAME", "SUBTASKS", "PROJECT"}
	if withDeleted {
		headers = append(headers, "DELETED")
	}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		row := []string{
			strconv.FormatInt(t.ID, 10),
			string(t.Status),
			checkbox(t.Completed),
			t.Name,
			subtaskProgress(t.Subtasks),
			optionalID(t.ProjectID),
		}
		if withDeleted {
			row = append(row, deletedMark(t.DeletedAt != nil))
		}
		rows = append(rows, row)
	}
	printTable(w, headers, rows)
}

func printSubtasks(w io.Writer, subtasks []models.Subtask, withDeleted bool) {
	if len(subtasks) == 0 {
		fmt.Fprintln(w, "No subtasks found.")
		return
	}
	headers := []string{"ID", "POS", "DONE", "NAME"}
	if withDeleted {
		headers = append(headers, "DELETED")
	}
	rows := make([][]string, 0, len(subtasks))
	for _, s := range subtasks {
		row := []string{
			strconv.FormatInt(s.ID, 10),
			strconv.Itoa(s.Position),
			checkbox(s.Completed),
			s.Name,
		}
		if withDeleted {
			row = append(row, deletedMark(s.DeletedAt != nil))
		}
		rows = append(rows, row)
	}
	printTable(w, headers, rows)
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func deletedMark(deleted bool) string {
	if deleted {
		return "yes"
	}
	return ""
}

func optionalID(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}

// subtaskProgress reports done/total over the subtasks given
func subtaskProgress(subtasks []models.Subtask) string {
	if len(subtasks) == 0 {
		return "-"
	}
	done := 0
	for _, s := range subtasks {
		if s.Completed {
			done++
		}
	}
	return fmt.Sprintf("%d/%d", done, len(subtasks))
}
