package analytics

import (
	"errors"
	"math"
	"testing"

	"github.com/carboniq/server/internal/domain"
)

func TestProject_LinearTrend(t *testing.T) {
	// Perfectly linear history: 100, 110, 120 → slope 10/month.
	monthly := []domain.MonthlyBucket{
		{MonthKey: "2024-01", TotalTonnes: 100},
		{MonthKey: "2024-02", TotalTonnes: 110},
		{MonthKey: "2024-03", TotalTonnes: 120},
	}

	f, err := Project(monthly, 3)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if f.CurrentTonnes != 120 {
		t.Errorf("expected current 120, got %f", f.CurrentTonnes)
	}
	if math.Abs(f.PredictedTonnes-150) > 1e-9 {
		t.Errorf("expected predicted 150, got %f", f.PredictedTonnes)
	}
	if math.Abs(f.ChangePercent-25) > 1e-9 {
		t.Errorf("expected +25%%, got %f", f.ChangePercent)
	}
	if len(f.Projected) != 3 {
		t.Fatalf("expected 3 projected buckets, got %d", len(f.Projected))
	}
	if f.Projected[0].MonthKey != "2024-04" || f.Projected[2].MonthKey != "2024-06" {
		t.Errorf("unexpected projected month keys: %s .. %s",
			f.Projected[0].MonthKey, f.Projected[2].MonthKey)
	}
}

func TestProject_NeverNegative(t *testing.T) {
	monthly := []domain.MonthlyBucket{
		{MonthKey: "2024-01", TotalTonnes: 30},
		{MonthKey: "2024-02", TotalTonnes: 10},
	}

	f, err := Project(monthly, 6)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, b := range f.Projected {
		if b.TotalTonnes < 0 {
			t.Errorf("projection went negative in %s: %f", b.MonthKey, b.TotalTonnes)
		}
	}
}

func TestProject_NotEnoughHistory(t *testing.T) {
	_, err := Project([]domain.MonthlyBucket{{MonthKey: "2024-01", TotalTonnes: 10}}, 3)
	if !errors.Is(err, ErrNotEnoughHistory) {
		t.Errorf("expected ErrNotEnoughHistory, got %v", err)
	}
}

func TestProject_ConfidenceBounds(t *testing.T) {
	monthly := []domain.MonthlyBucket{
		{MonthKey: "2024-01", TotalTonnes: 100},
		{MonthKey: "2024-02", TotalTonnes: 100},
	}
	for _, horizon := range []int{1, 6, 12, 24} {
		f, err := Project(monthly, horizon)
		if err != nil {
			t.Fatalf("horizon %d: %v", horizon, err)
		}
		if f.Confidence < 20 || f.Confidence > 95 {
			t.Errorf("horizon %d: confidence out of bounds: %f", horizon, f.Confidence)
		}
	}
}
