package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wasmcp/compose/wasmcperr"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(0, 1)
	kindStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	pathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// errorPanel renders a *wasmcperr.Error as a styled diagnostic panel: kind,
// chain of contexts, and cause, matching spec.md 7's "concise diagnostic...
// chain of contexts" requirement.
func errorPanel(err *wasmcperr.Error) string {
	var b strings.Builder
	b.WriteString(kindStyle.Render(string(err.Kind)))
	if len(err.Path) > 0 {
		b.WriteString("\n")
		b.WriteString(pathStyle.Render(strings.Join(err.Path, " > ")))
	}
	if err.Detail != "" {
		b.WriteString("\n")
		b.WriteString(err.Detail)
	}
	if err.Cause != nil {
		b.WriteString("\n")
		b.WriteString(pathStyle.Render("caused by: " + err.Cause.Error()))
	}
	return panelStyle.Render(b.String())
}

// sideBySideDiff renders the verbose-mode importer/exporter signature
// comparison named in spec.md 7 ("dumps... the importer's import signature
// and the exporter's export signature side-by-side to aid diagnosing WIT
// version drift").
func sideBySideDiff(importerLabel, importerIface, exporterLabel, exporterIface string) string {
	left := fmt.Sprintf("%s imports\n  %s", importerLabel, importerIface)
	right := fmt.Sprintf("%s exports\n  %s", exporterLabel, exporterIface)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(left),
		"  ",
		panelStyle.Render(right),
	)
}
