package errors

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/cockroachdb/errors"
	"golang.org/x/term"

	"github.com/sul-dlss/ld4p-deploy/pkg/schema"
)

const (
	// DefaultMaxLineLength is the default maximum line length before wrapping.
	DefaultMaxLineLength = 80

	newline    = "\n"
	hintPrefix = "    hint: "
)

var (
	colorRed    = lipgloss.Color("#FF0000")
	colorGray   = lipgloss.Color("#808080")
	colorGreen  = lipgloss.Color("#2ECC40")
	colorBorder = lipgloss.Color("#5F5FD7")
)

// FormatterConfig controls error formatting behavior.
type FormatterConfig struct {
	// Verbose adds the context table and the full error chain.
	Verbose bool

	// Color is "auto", "always", or "never".
	Color string

	MaxLineLength int
}

func DefaultFormatterConfig() FormatterConfig {
	return FormatterConfig{
		Verbose:       false,
		Color:         "auto",
		MaxLineLength: DefaultMaxLineLength,
	}
}

// FormatterConfigFrom builds a formatter config from the `errors.format` section.
func FormatterConfigFrom(cfg *schema.DeployConfiguration) FormatterConfig {
	fc := DefaultFormatterConfig()
	if cfg == nil {
		return fc
	}
	fc.Verbose = cfg.Errors.Format.Verbose
	if cfg.Errors.Format.Color != "" {
		fc.Color = cfg.Errors.Format.Color
	}
	return fc
}

// Format renders an error for the terminal: message, hints and, in verbose mode,
// the safe context and the error chain.
func Format(err error, config FormatterConfig) string {
	if err == nil {
		return ""
	}

	useColor := shouldUseColor(config.Color)
	errorStyle := lipgloss.NewStyle()
	if useColor {
		errorStyle = errorStyle.Foreground(colorRed)
	}

	var output strings.Builder

	mainMsg := err.Error()
	if len(mainMsg) > config.MaxLineLength && !config.Verbose && !strings.Contains(mainMsg, newline) {
		mainMsg = wrapText(mainMsg, config.MaxLineLength)
	}
	output.WriteString(errorStyle.Render(mainMsg))

	if hints := errors.GetAllHints(err); len(hints) > 0 {
		output.WriteString(newline)
		for _, hint := range hints {
			output.WriteString(hintPrefix + hint)
			output.WriteString(newline)
		}
	}

	if config.Verbose {
		if contextTable := formatContextTable(err, useColor); contextTable != "" {
			output.WriteString(contextTable)
			output.WriteString(newline)
		}
		output.WriteString(newline)
		output.WriteString(formatStackTrace(err, useColor))
	}

	return output.String()
}

// formatContextTable renders the "key=value" safe details found anywhere in the
// chain as a two-column table.
func formatContextTable(err error, useColor bool) string {
	var rows [][]string
	for _, payload := range errors.GetAllSafeDetails(err) {
		for _, detail := range payload.SafeDetails {
			for _, pair := range strings.Fields(detail) {
				if key, value, ok := strings.Cut(pair, "="); ok {
					rows = append(rows, []string{key, value})
				}
			}
		}
	}
	if len(rows) == 0 {
		return ""
	}

	t := table.New().
		Border(lipgloss.ThickBorder()).
		Headers("Context", "Value").
		Rows(rows...)

	if useColor {
		t = t.
			BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
			StyleFunc(func(row, col int) lipgloss.Style {
				style := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
				if row == table.HeaderRow {
					return style.Foreground(colorGreen).Bold(true)
				}
				if col == 0 {
					return style.Foreground(colorGray)
				}
				return style
			})
	}

	return newline + t.String()
}

func shouldUseColor(colorMode string) bool {
	switch colorMode {
	case "always":
		return true
	case "never":
		return false
	default:
		return term.IsTerminal(int(os.Stderr.Fd()))
	}
}

func wrapText(text string, width int) string {
	if width <= 0 {
		width = DefaultMaxLineLength
	}

	var lines []string
	var currentLine strings.Builder

	for _, word := range strings.Fields(text) {
		if currentLine.Len() > 0 && currentLine.Len()+1+len(word) > width {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
		}
		if currentLine.Len() > 0 {
			currentLine.WriteString(" ")
		}
		currentLine.WriteString(word)
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return strings.Join(lines, newline)
}

func formatStackTrace(err error, useColor bool) string {
	style := lipgloss.NewStyle()
	if useColor {
		style = style.Foreground(colorGray)
	}
	return style.Render(fmt.Sprintf("%+v", err))
}
