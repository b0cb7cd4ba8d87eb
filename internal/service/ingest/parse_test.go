package ingest

import (
	"strings"
	"testing"
)

func TestParseDelimited_HeaderMapping(t *testing.T) {
	// Arrange
	content := []byte("Date,Source,Unit,Amount,Note\n2024-03-01,Electricity,kWh,120.5,main office\n2024-03-02,Diesel,L,40,\n")

	// Act
	rows, skipped, err := ParseDelimited(content, DefaultColumnMapping())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if len(skipped) != 0 {
		t.Fatalf("expected no skipped rows, got %v", skipped)
	}
	if rows[0].SourceName != "Electricity" || rows[0].Amount != "120.5" || rows[0].Notes != "main office" {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Unit != "L" || rows[1].Notes != "" {
		t.Errorf("unexpected second row: %+v", rows[1])
	}
}

func TestParseDelimited_CustomMapping(t *testing.T) {
	// Arrange
	content := []byte("when,activity,qty\n2024-01-15,Paper,12\n")
	mapping := ColumnMapping{Date: "when", Source: "activity", Amount: "qty"}

	// Act
	rows, _, err := ParseDelimited(content, mapping)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rows) != 1 || rows[0].SourceName != "Paper" || rows[0].Amount != "12" {
		t.Errorf("unexpected rows: %+v", rows)
	}
}

func TestParseDelimited_MissingRequiredColumns(t *testing.T) {
	// Arrange
	content := []byte("date,unit,note\n2024-01-15,kWh,x\n")

	// Act
	_, _, err := ParseDelimited(content, DefaultColumnMapping())

	// Assert
	if err == nil {
		t.Fatal("expected error for missing source and amount columns")
	}
}

func TestParseDelimited_MalformedRowDoesNotStopParsing(t *testing.T) {
	// Arrange: the second data row has a stray quote, the rows around it are
	// well-formed.
	content := []byte("date,source,unit,amount,note\n" +
		"2024-03-01,Electricity,kWh,120.5,\n" +
		"2024-03-02,Die\"sel,L,40,\n" +
		"2024-03-03,Diesel,L,55,\n" +
		"2024-03-04,Paper,kg,2,\n")

	// Act
	rows, skipped, err := ParseDelimited(content, DefaultColumnMapping())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d: %+v", len(rows), rows)
	}
	if rows[0].SourceName != "Electricity" || rows[1].SourceName != "Diesel" || rows[2].SourceName != "Paper" {
		t.Errorf("unexpected surviving rows: %+v", rows)
	}
	if len(skipped) != 1 || !strings.Contains(skipped[0], "malformed") {
		t.Errorf("expected one malformed-row report, got %v", skipped)
	}
}

func TestParseDataset_HeaderlessLines(t *testing.T) {
	// Arrange
	dataset := `
2024-02-01, Pune Plant, electricity, kWh, 900
2024-02-03, Pune Plant, diesel, L, 55

short,line
`

	// Act
	rows := ParseDataset(dataset)

	// Assert
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].SourceName != "electricity" || rows[0].Notes != "Pune Plant" || rows[0].Amount != "900" {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Date != "2024-02-03" || rows[1].Unit != "L" {
		t.Errorf("unexpected second row: %+v", rows[1])
	}
}
