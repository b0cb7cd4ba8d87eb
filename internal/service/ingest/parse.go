package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/carboniq/server/internal/ports"
)

// ColumnMapping names the header columns carrying each field. Upload forms
// vary in their header naming, so the mapping is configuration rather than
// hard-coded.
type ColumnMapping struct {
	Date   string `mapstructure:"date"`
	Source string `mapstructure:"source"`
	Unit   string `mapstructure:"unit"`
	Amount string `mapstructure:"amount"`
	Notes  string `mapstructure:"notes"`
}

func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		Date:   "date",
		Source: "source",
		Unit:   "unit",
		Amount: "amount",
		Notes:  "note",
	}
}

// ParseDelimited reads delimited text with a header row into raw rows using
// the column mapping. Header matching is case-insensitive; missing optional
// columns (unit, notes) yield empty fields. Malformed rows do not stop the
// read: each one is reported in the skipped slice and parsing continues with
// the next line.
func ParseDelimited(content []byte, mapping ColumnMapping) ([]ports.RawRow, []string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("ingest: read header: %w", err)
	}

	index := func(name string) int {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
		return -1
	}

	dateIdx := index(mapping.Date)
	sourceIdx := index(mapping.Source)
	amountIdx := index(mapping.Amount)
	unitIdx := index(mapping.Unit)
	notesIdx := index(mapping.Notes)

	if sourceIdx < 0 || amountIdx < 0 {
		return nil, nil, fmt.Errorf("ingest: header missing required columns %q and %q", mapping.Source, mapping.Amount)
	}

	field := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var rows []ports.RawRow
	var skipped []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped = append(skipped, fmt.Sprintf("line %d: malformed row: %v", parseErr.Line, parseErr.Err))
				continue
			}
			return nil, nil, fmt.Errorf("ingest: read row: %w", err)
		}
		if len(record) == 0 {
			continue
		}
		rows = append(rows, ports.RawRow{
			Date:       field(record, dateIdx),
			SourceName: field(record, sourceIdx),
			Unit:       field(record, unitIdx),
			Amount:     field(record, amountIdx),
			Notes:      field(record, notesIdx),
		})
	}
	return rows, skipped, nil
}

// ParseDataset reads the fixed predefined dataset blocks: headerless lines of
// "date,site,source,unit,amount". The site name lands in the notes field,
// matching how the upload page stored it.
func ParseDataset(dataset string) []ports.RawRow {
	var rows []ports.RawRow
	for _, line := range strings.Split(dataset, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 5 {
			continue
		}
		rows = append(rows, ports.RawRow{
			Date:       strings.TrimSpace(parts[0]),
			Notes:      strings.TrimSpace(parts[1]),
			SourceName: strings.TrimSpace(parts[2]),
			Unit:       strings.TrimSpace(parts[3]),
			Amount:     strings.TrimSpace(parts[4]),
		})
	}
	return rows
}
