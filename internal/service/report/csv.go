package report

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/carboniq/server/internal/domain"
)

// renderCSV writes the summary as three stacked sections: monthly totals,
// category breakdown, source breakdown. Numbers are tonnes CO2e.
func renderCSV(summary *domain.EmissionSummary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"section", "key", "tonnes_co2", "percent"},
	}
	for _, m := range summary.Monthly {
		rows = append(rows, []string{"monthly", m.MonthKey, formatTonnes(m.TotalTonnes), ""})
	}
	for _, c := range summary.Categories {
		rows = append(rows, []string{"category", string(c.Category), formatTonnes(c.TotalTonnes), fmt.Sprintf("%.1f", c.PercentageOfTotal)})
	}
	for _, s := range summary.Sources {
		rows = append(rows, []string{"source", s.SourceName, formatTonnes(s.TotalTonnes), ""})
	}
	rows = append(rows, []string{"total", "", formatTonnes(summary.TotalTonnes), ""})

	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatTonnes(t float64) string {
	return fmt.Sprintf("%.4f", t)
}
