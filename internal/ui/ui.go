// Package ui renders per-row progress lines and the final summary for the
// terminal. Styling degrades to plain text automatically when stdout is not
// a TTY.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/fabrii9/prodsync/internal/batch"
)

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	headerStyle = lipgloss.NewStyle().Bold(true)
)

// RowLine renders the progress line for one result. n is 1-based.
func RowLine(n, total int, r batch.Result) string {
	prefix := faintStyle.Render(fmt.Sprintf("[%d/%d]", n, total))
	if r.OK {
		return fmt.Sprintf("%s %s -> %s", prefix, okStyle.Render("OK"), r.Message)
	}
	return fmt.Sprintf("%s %s", prefix, errStyle.Render(r.Message))
}

// Connecting renders the banner printed before a run starts.
func Connecting(url, database, user string, workers int) string {
	return fmt.Sprintf("Connecting to %s database=%s user=%s (workers=%d)...",
		url, database, user, workers)
}

// Summary renders the end-of-run block.
func Summary(s *batch.Summary) string {
	var b strings.Builder
	rule := strings.Repeat("=", 28)
	b.WriteString(rule + "\n")
	b.WriteString(headerStyle.Render("IMPORT FINISHED") + "\n")
	b.WriteString(fmt.Sprintf("Succeeded: %s\n", okStyle.Render(fmt.Sprintf("%d", s.Succeeded))))
	failed := fmt.Sprintf("%d", s.Failed)
	if s.Failed > 0 {
		failed = errStyle.Render(failed)
	}
	b.WriteString(fmt.Sprintf("Failed:    %s\n", failed))
	b.WriteString(fmt.Sprintf("Elapsed:   %s\n", s.Elapsed.Round(10*time.Millisecond)))
	b.WriteString(rule)
	return b.String()
}
