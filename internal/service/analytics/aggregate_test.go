package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/carboniq/server/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleRecords() []domain.JoinedRecord {
	return []domain.JoinedRecord{
		{ID: "1", EmissionKgCo2: 1062.5, RecordedDate: day(2024, 1, 15), SourceName: "Electricity", Category: domain.CategoryEnergy},
		{ID: "2", EmissionKgCo2: 938.0, RecordedDate: day(2024, 1, 20), SourceName: "Diesel", Category: domain.CategoryTransport},
		{ID: "3", EmissionKgCo2: 1015.0, RecordedDate: day(2024, 2, 10), SourceName: "Natural Gas", Category: domain.CategoryEnergy},
		{ID: "4", EmissionKgCo2: 145.2, RecordedDate: day(2024, 2, 12), SourceName: "Car Travel", Category: domain.CategoryTransport},
		{ID: "5", EmissionKgCo2: 300.0, RecordedDate: day(2024, 3, 5), SourceName: "Paper", Category: domain.CategoryMaterials},
	}
}

func TestAggregate_TotalsAgree(t *testing.T) {
	summary := Aggregate(sampleRecords())

	var monthlySum, categorySum float64
	for _, b := range summary.Monthly {
		monthlySum += b.TotalTonnes
	}
	for _, b := range summary.Categories {
		categorySum += b.TotalTonnes
	}

	if math.Abs(monthlySum-categorySum) > 1e-9 {
		t.Errorf("monthly sum %f != category sum %f", monthlySum, categorySum)
	}
	if math.Abs(monthlySum-summary.TotalTonnes) > 1e-9 {
		t.Errorf("monthly sum %f != grand total %f", monthlySum, summary.TotalTonnes)
	}
}

func TestAggregate_PercentagesSumTo100(t *testing.T) {
	summary := Aggregate(sampleRecords())

	var pctSum float64
	for _, b := range summary.Categories {
		if b.PercentageOfTotal < 0 || b.PercentageOfTotal > 100 {
			t.Errorf("percentage out of range: %f", b.PercentageOfTotal)
		}
		pctSum += b.PercentageOfTotal
	}
	if math.Abs(pctSum-100) > 1e-9 {
		t.Errorf("percentages sum to %f, want 100", pctSum)
	}
}

func TestAggregate_ScopeBuckets(t *testing.T) {
	summary := Aggregate(sampleRecords())

	// Diesel + Natural Gas → scope 1, Electricity → scope 2, rest → scope 3
	if len(summary.Scopes) != 3 {
		t.Fatalf("expected 3 scope buckets, got %d", len(summary.Scopes))
	}
	byScope := make(map[string]float64)
	for _, b := range summary.Scopes {
		byScope[b.Scope] = b.TotalTonnes
	}
	if math.Abs(byScope["Scope 1"]-1.953) > 1e-9 {
		t.Errorf("expected 1.953 t for scope 1, got %f", byScope["Scope 1"])
	}
	if math.Abs(byScope["Scope 2"]-1.0625) > 1e-9 {
		t.Errorf("expected 1.0625 t for scope 2, got %f", byScope["Scope 2"])
	}
	if math.Abs(byScope["Scope 3"]-0.4452) > 1e-9 {
		t.Errorf("expected 0.4452 t for scope 3, got %f", byScope["Scope 3"])
	}
}

func TestAggregate_Empty(t *testing.T) {
	summary := Aggregate(nil)
	if summary.TotalTonnes != 0 {
		t.Errorf("expected zero total, got %f", summary.TotalTonnes)
	}
	if len(summary.Monthly) != 0 || len(summary.Categories) != 0 || len(summary.Sources) != 0 {
		t.Error("expected empty bucket sets")
	}
	if summary.Delta.Defined {
		t.Error("expected undefined delta for empty input")
	}
}

func TestAggregate_MonthlyOrderedAscending(t *testing.T) {
	summary := Aggregate(sampleRecords())
	for i := 1; i < len(summary.Monthly); i++ {
		if summary.Monthly[i-1].MonthKey >= summary.Monthly[i].MonthKey {
			t.Errorf("month keys not ascending: %s >= %s",
				summary.Monthly[i-1].MonthKey, summary.Monthly[i].MonthKey)
		}
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	records := sampleRecords()
	forward := Aggregate(records)

	reversed := make([]domain.JoinedRecord, len(records))
	for i, r := range records {
		reversed[len(records)-1-i] = r
	}
	backward := Aggregate(reversed)

	if len(forward.Monthly) != len(backward.Monthly) {
		t.Fatal("bucket counts differ under reordering")
	}
	for i := range forward.Monthly {
		if forward.Monthly[i] != backward.Monthly[i] {
			t.Errorf("monthly bucket %d differs: %+v vs %+v",
				i, forward.Monthly[i], backward.Monthly[i])
		}
	}
	for i := range forward.Categories {
		if forward.Categories[i] != backward.Categories[i] {
			t.Errorf("category bucket %d differs under reordering", i)
		}
	}
}

func TestMonthOverMonth_PlusTwentyOnePercent(t *testing.T) {
	delta := MonthOverMonth([]domain.MonthlyBucket{
		{MonthKey: "2024-01", TotalTonnes: 100},
		{MonthKey: "2024-02", TotalTonnes: 121},
	})
	if !delta.Defined {
		t.Fatal("expected defined delta")
	}
	if math.Abs(delta.Percent-21) > 1e-9 {
		t.Errorf("expected +21%%, got %f", delta.Percent)
	}
}

func TestMonthOverMonth_Guards(t *testing.T) {
	if d := MonthOverMonth([]domain.MonthlyBucket{{MonthKey: "2024-01", TotalTonnes: 50}}); d.Defined {
		t.Error("single month must not define a delta")
	}
	if d := MonthOverMonth(nil); d.Defined {
		t.Error("empty input must not define a delta")
	}
	zeroPrev := []domain.MonthlyBucket{
		{MonthKey: "2024-01", TotalTonnes: 0},
		{MonthKey: "2024-02", TotalTonnes: 10},
	}
	if d := MonthOverMonth(zeroPrev); d.Defined {
		t.Error("zero previous month must not divide")
	}
}
