package analytics

import (
	"sort"

	"github.com/carboniq/server/internal/domain"
)

const monthKeyLayout = "2006-01"

// Aggregate reduces joined records into the dashboard summary. The reduction
// is order-independent: the same record set yields the same buckets no matter
// the fetch order. Only the monthly sequence carries an ordering (ascending
// month key).
func Aggregate(records []domain.JoinedRecord) *domain.EmissionSummary {
	summary := &domain.EmissionSummary{
		Monthly:     []domain.MonthlyBucket{},
		Categories:  []domain.CategoryBucket{},
		Sources:     []domain.SourceBucket{},
		Scopes:      []domain.ScopeBucket{},
		RecordCount: len(records),
	}
	if len(records) == 0 {
		return summary
	}

	monthly := make(map[string]float64)
	byCategory := make(map[domain.SourceCategory]float64)
	bySource := make(map[string]float64)
	byScope := make(map[string]float64)

	var grandTotal float64
	for _, r := range records {
		tonnes := r.EmissionKgCo2 / 1000
		monthly[r.RecordedDate.Format(monthKeyLayout)] += tonnes
		byCategory[r.Category] += tonnes
		bySource[r.SourceName] += tonnes
		byScope[domain.ScopeForSource(r.SourceName)] += tonnes
		grandTotal += tonnes
	}
	summary.TotalTonnes = grandTotal

	monthKeys := make([]string, 0, len(monthly))
	for k := range monthly {
		monthKeys = append(monthKeys, k)
	}
	sort.Strings(monthKeys)
	for _, k := range monthKeys {
		summary.Monthly = append(summary.Monthly, domain.MonthlyBucket{
			MonthKey:    k,
			TotalTonnes: monthly[k],
		})
	}
	summary.ThisMonthTonnes = summary.Monthly[len(summary.Monthly)-1].TotalTonnes

	for cat, total := range byCategory {
		bucket := domain.CategoryBucket{Category: cat, TotalTonnes: total}
		if grandTotal > 0 {
			bucket.PercentageOfTotal = total / grandTotal * 100
		}
		summary.Categories = append(summary.Categories, bucket)
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		return summary.Categories[i].Category < summary.Categories[j].Category
	})

	for name, total := range bySource {
		summary.Sources = append(summary.Sources, domain.SourceBucket{SourceName: name, TotalTonnes: total})
	}
	sort.Slice(summary.Sources, func(i, j int) bool {
		if summary.Sources[i].TotalTonnes != summary.Sources[j].TotalTonnes {
			return summary.Sources[i].TotalTonnes > summary.Sources[j].TotalTonnes
		}
		return summary.Sources[i].SourceName < summary.Sources[j].SourceName
	})

	for scope, total := range byScope {
		summary.Scopes = append(summary.Scopes, domain.ScopeBucket{Scope: scope, TotalTonnes: total})
	}
	sort.Slice(summary.Scopes, func(i, j int) bool {
		return summary.Scopes[i].Scope < summary.Scopes[j].Scope
	})

	summary.Delta = MonthOverMonth(summary.Monthly)
	return summary
}

// MonthOverMonth computes the percentage change between the last two monthly
// buckets. With fewer than two months, or a zero previous month, the delta is
// undefined rather than a division by zero.
func MonthOverMonth(monthly []domain.MonthlyBucket) domain.MonthDelta {
	if len(monthly) < 2 {
		return domain.MonthDelta{}
	}
	previous := monthly[len(monthly)-2].TotalTonnes
	current := monthly[len(monthly)-1].TotalTonnes
	if previous == 0 {
		return domain.MonthDelta{}
	}
	return domain.MonthDelta{
		Percent: (current - previous) / previous * 100,
		Defined: true,
	}
}
