// Package report prints the console side of a stratplot run: the per-strategy
// summary table and the status lines around it.
package report

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mwiater/stratplot/metrics"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// WriteSummary renders rep as a table followed by the overall speedup line.
func WriteSummary(w io.Writer, rep metrics.Report) error {
	rows := make([][]string, 0, len(rep.Summaries))
	for _, s := range rep.Summaries {
		rows = append(rows, []string{
			s.Strategy.Label(),
			fmt.Sprintf("%d", s.Runs),
			millis(s.MeanMillis),
			millis(s.StdMillis),
			millis(s.P50Millis),
			millis(s.P95Millis),
			millis(s.MinMillis),
			millis(s.MaxMillis),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("Estrategia", "Corridas", "Media", "Desv.", "p50", "p95", "Mín", "Máx").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Rows(rows...)

	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return err
	}

	var line string
	if rep.HasSpeedup {
		line = fmt.Sprintf("%s %s  %s",
			labelStyle.Render("Speedup promedio (secuencial / especulativo):"),
			ratio(rep.OverallSpeedup),
			faintStyle.Render(fmt.Sprintf("(%d corridas emparejadas)", rep.MatchedRuns)))
	} else {
		line = faintStyle.Render("Speedup no disponible: falta una de las estrategias.")
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

// Success prints the confirmation line after the image was written.
func Success(w io.Writer, path string) {
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("Gráfica generada en: %s", path)))
}

// Error prints a failure diagnostic.
func Error(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
}

func millis(v float64) string {
	return fmt.Sprintf("%.3f ms", v)
}

func ratio(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "indefinido"
	}
	return fmt.Sprintf("%.3fx", v)
}
