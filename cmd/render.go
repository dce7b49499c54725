package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sul-dlss/ld4p-deploy/pkg/hooks"
	"github.com/sul-dlss/ld4p-deploy/pkg/store"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2ECC40")).PaddingLeft(1).PaddingRight(1)
	cellStyle   = lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
	failStyle   = cellStyle.Foreground(lipgloss.Color("#FF0000"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5F5FD7"))
)

// statusColumn is highlighted in red when it does not read "ok" or "succeeded".
func renderTable(w io.Writer, headers []string, rows [][]string, statusColumn int) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == statusColumn && row >= 0 && row < len(rows) {
				if s := rows[row][col]; s != "ok" && s != store.StatusSucceeded {
					return failStyle
				}
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.String())
}

// printReport shows the per-host outcomes. A failed run with no outcomes prints nothing;
// the error says why.
func printReport(w io.Writer, report *hooks.Report, runErr error) {
	if report == nil || (runErr != nil && len(report.Outcomes) == 0) {
		return
	}

	for _, name := range report.Skipped {
		fmt.Fprintf(w, "skipped %s: no hosts\n", name)
	}
	if len(report.Outcomes) == 0 {
		if len(report.Skipped) == 0 {
			fmt.Fprintf(w, "%s: nothing to run\n", report.Name)
		}
		return
	}

	rows := make([][]string, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		rows = append(rows, []string{
			o.Task,
			o.Host,
			outcomeStatus(o.ExitCode),
			strconv.Itoa(o.Attempts),
			o.Duration.Round(time.Millisecond).String(),
			o.Command,
		})
	}
	renderTable(w, []string{"Task", "Host", "Status", "Attempts", "Duration", "Command"}, rows, 2)
}

func outcomeStatus(exitCode int) string {
	switch {
	case exitCode == 0:
		return "ok"
	case exitCode < 0:
		return "unreachable"
	default:
		return "exit " + strconv.Itoa(exitCode)
	}
}

func printBindings(w io.Writer, bindings []hooks.Binding, describe func(task string) string) {
	rows := make([][]string, 0, len(bindings))
	for _, b := range bindings {
		rows = append(rows, []string{string(b.Event), b.Task, describe(b.Task)})
	}
	renderTable(w, []string{"Event", "Task", "Description"}, rows, -1)
}

func printHistory(w io.Writer, records []store.RunRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "no runs recorded")
		return
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		name := r.Name
		if len(r.Args) > 0 {
			name += " " + strings.Join(r.Args, " ")
		}
		hosts := make([]string, 0, len(r.Hosts))
		for _, h := range r.Hosts {
			hosts = append(hosts, h.Host)
		}
		rows = append(rows, []string{
			r.StartedAt.Local().Format(time.DateTime),
			r.Kind,
			name,
			r.Branch,
			r.Status,
			strings.Join(hosts, ","),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String(),
		})
	}
	renderTable(w, []string{"Started", "Kind", "Name", "Branch", "Status", "Hosts", "Duration"}, rows, 4)
}
