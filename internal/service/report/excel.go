package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/carboniq/server/internal/domain"
)

// renderExcel builds a workbook with one sheet per breakdown dimension.
func renderExcel(name string, start, end time.Time, summary *domain.EmissionSummary) ([]byte, error) {
	f := excelize.NewFile()

	const overview = "Overview"
	f.SetSheetName("Sheet1", overview)
	f.SetCellValue(overview, "A1", "Report")
	f.SetCellValue(overview, "B1", name)
	f.SetCellValue(overview, "A2", "Period")
	f.SetCellValue(overview, "B2", fmt.Sprintf("%s to %s", start.Format("2006-01-02"), end.Format("2006-01-02")))
	f.SetCellValue(overview, "A3", "Total tonnes CO2e")
	f.SetCellValue(overview, "B3", summary.TotalTonnes)
	f.SetCellValue(overview, "A4", "This month tonnes CO2e")
	f.SetCellValue(overview, "B4", summary.ThisMonthTonnes)
	f.SetCellValue(overview, "A5", "Records")
	f.SetCellValue(overview, "B5", summary.RecordCount)
	if summary.Delta.Defined {
		f.SetCellValue(overview, "A6", "Month-over-month %")
		f.SetCellValue(overview, "B6", summary.Delta.Percent)
	}

	const monthly = "Monthly"
	if _, err := f.NewSheet(monthly); err != nil {
		return nil, err
	}
	f.SetCellValue(monthly, "A1", "Month")
	f.SetCellValue(monthly, "B1", "Tonnes CO2e")
	for i, m := range summary.Monthly {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(monthly, "A"+row, m.MonthKey)
		f.SetCellValue(monthly, "B"+row, m.TotalTonnes)
	}

	const categories = "Categories"
	if _, err := f.NewSheet(categories); err != nil {
		return nil, err
	}
	f.SetCellValue(categories, "A1", "Category")
	f.SetCellValue(categories, "B1", "Tonnes CO2e")
	f.SetCellValue(categories, "C1", "Percent of total")
	for i, c := range summary.Categories {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(categories, "A"+row, string(c.Category))
		f.SetCellValue(categories, "B"+row, c.TotalTonnes)
		f.SetCellValue(categories, "C"+row, c.PercentageOfTotal)
	}

	const sources = "Sources"
	if _, err := f.NewSheet(sources); err != nil {
		return nil, err
	}
	f.SetCellValue(sources, "A1", "Source")
	f.SetCellValue(sources, "B1", "Tonnes CO2e")
	for i, s := range summary.Sources {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(sources, "A"+row, s.SourceName)
		f.SetCellValue(sources, "B"+row, s.TotalTonnes)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
