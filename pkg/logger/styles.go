package logger

import (
	"github.com/charmbracelet/lipgloss"
	charm "github.com/charmbracelet/log"
)

const (
	colorTrace = "#8A8A8A"
	colorDebug = "#5F87FF"
	colorInfo  = "#5FD7AF"
	colorWarn  = "#FFAF00"
	colorError = "#FF5F5F"
	colorKey   = "#5F5FD7"
)

func levelStyle(label, color string) lipgloss.Style {
	return lipgloss.NewStyle().
		SetString(label).
		Bold(true).
		MaxWidth(4).
		Foreground(lipgloss.Color(color))
}

// getLogStyles returns the level labels and the highlighted keys used in deploy logs.
func getLogStyles() *charm.Styles {
	styles := charm.DefaultStyles()

	styles.Levels[TraceLevel] = levelStyle("TRCE", colorTrace)
	styles.Levels[charm.DebugLevel] = levelStyle("DEBU", colorDebug)
	styles.Levels[charm.InfoLevel] = levelStyle("INFO", colorInfo)
	styles.Levels[charm.WarnLevel] = levelStyle("WARN", colorWarn)
	styles.Levels[charm.ErrorLevel] = levelStyle("ERRO", colorError)
	styles.Levels[charm.FatalLevel] = levelStyle("FATA", colorError)

	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorKey)).Bold(true)
	for _, key := range []string{"host", "task", "event", "run"} {
		styles.Keys[key] = keyStyle
		styles.Values[key] = lipgloss.NewStyle().Bold(true)
	}
	styles.Keys["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color(colorError))
	styles.Values["err"] = lipgloss.NewStyle().Bold(true)

	return styles
}
