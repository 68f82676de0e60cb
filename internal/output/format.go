// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"gtodo/internal/service"
	"gtodo/internal/state"
)

const (
	// Separator frames a full re-render in the shell.
	Separator = "------------"

	// NoTasks is printed when the list is empty.
	NoTasks = "no tasks found"

	// timeLayout is the display layout for due and creation times.
	timeLayout = "2006-01-02 15:04"

	// noTime is shown for an unset due date.
	noTime = "—"
)

// FormatTask formats one task line.
// Format: "{N:>4}  [x] {TITLE}  due {DUE}  created {CREATED}\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	mark := " "
	if task.Completed {
		mark = "x"
	}
	fmt.Fprintf(w, "%4d  [%s] %s  due %s  created %s\n",
		num, mark, normalizeTitle(task.Title), formatTime(task.DueDate), formatTime(task.CreatedAt))
}

// FormatTasks formats every task, numbered by position in tasks.
// With openOnly, completed tasks are skipped but keep their numbers so
// that references stay valid. Returns the number of lines written.
func FormatTasks(w io.Writer, tasks []service.Task, openOnly bool) int {
	n := 0
	for i, task := range tasks {
		if openOnly && task.Completed {
			continue
		}
		FormatTask(w, i+1, task)
		n++
	}
	return n
}

// FormatSnapshot renders the whole shell view: the list and, when the form
// has content, the pending form fields.
func FormatSnapshot(w io.Writer, snap state.Snapshot) {
	fmt.Fprintln(w, Separator)
	if FormatTasks(w, snap.Tasks, false) == 0 {
		fmt.Fprintln(w, NoTasks)
	}
	if snap.Form.Title != "" || snap.Form.DueDate != "" {
		fmt.Fprintf(w, "form: title=%q due=%q\n", snap.Form.Title, snap.Form.DueDate)
	}
	fmt.Fprintln(w, Separator)
}

// FormatServers prints the base addresses in try order.
func FormatServers(w io.Writer, servers []string) {
	for i, s := range servers {
		role := "fallback"
		if i == 0 {
			role = "primary"
		}
		fmt.Fprintf(w, "%d  %s  (%s)\n", i+1, s, role)
	}
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func formatTime(d service.DateTime) string {
	if d.IsZero() {
		return noTime
	}
	return d.Format(timeLayout)
}
