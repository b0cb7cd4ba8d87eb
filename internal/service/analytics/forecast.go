package analytics

import (
	"errors"
	"time"

	"github.com/carboniq/server/internal/domain"
)

var ErrNotEnoughHistory = errors.New("analytics: at least two months of data required for a forecast")

// Project fits a least-squares line through the monthly totals and extends it
// horizonMonths ahead. Confidence shrinks with the projection horizon and
// with sparse history; projections never go below zero.
func Project(monthly []domain.MonthlyBucket, horizonMonths int) (*domain.Forecast, error) {
	if horizonMonths < 1 {
		horizonMonths = 1
	}
	n := len(monthly)
	if n < 2 {
		return nil, ErrNotEnoughHistory
	}

	// Least squares over (index, total).
	var sumX, sumY, sumXY, sumXX float64
	for i, b := range monthly {
		x := float64(i)
		sumX += x
		sumY += b.TotalTonnes
		sumXY += x * b.TotalTonnes
		sumXX += x * x
	}
	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	var slope, intercept float64
	if denom != 0 {
		slope = (fn*sumXY - sumX*sumY) / denom
		intercept = (sumY - slope*sumX) / fn
	} else {
		intercept = sumY / fn
	}

	lastKey, err := time.Parse(monthKeyLayout, monthly[n-1].MonthKey)
	if err != nil {
		return nil, err
	}

	projected := make([]domain.MonthlyBucket, 0, horizonMonths)
	for i := 1; i <= horizonMonths; i++ {
		v := intercept + slope*float64(n-1+i)
		if v < 0 {
			v = 0
		}
		projected = append(projected, domain.MonthlyBucket{
			MonthKey:    lastKey.AddDate(0, i, 0).Format(monthKeyLayout),
			TotalTonnes: v,
		})
	}

	current := monthly[n-1].TotalTonnes
	predicted := projected[len(projected)-1].TotalTonnes

	f := &domain.Forecast{
		CurrentTonnes:   current,
		PredictedTonnes: predicted,
		Confidence:      confidence(n, horizonMonths),
		HorizonMonths:   horizonMonths,
		Projected:       projected,
	}
	if current != 0 {
		f.ChangePercent = (predicted - current) / current * 100
	}
	return f, nil
}

// confidence is a heuristic score: more history raises it, longer horizons
// lower it. Bounded to [20, 95].
func confidence(months, horizon int) float64 {
	score := 60.0 + 5.0*float64(months) - 4.0*float64(horizon)
	if score > 95 {
		score = 95
	}
	if score < 20 {
		score = 20
	}
	return score
}
