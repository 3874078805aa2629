// README: Month-over-month trend calculation for dashboard counters.
package dashboard

import "math"

const (
	TrendIncrement = "increment"
	TrendDecrement = "decrement"
	TrendNoChange  = "no change"
)

type Trend struct {
	Trend      string  `json:"trend"`
	Percentage float64 `json:"percentage"`
}

// CalculateTrend compares this month's count with last month's.
// Growth from zero is reported as a 100% increment.
func CalculateTrend(thisMonth, lastMonth int64) Trend {
	if lastMonth == 0 {
		if thisMonth == 0 {
			return Trend{Trend: TrendNoChange, Percentage: 0}
		}
		return Trend{Trend: TrendIncrement, Percentage: 100}
	}

	change := thisMonth - lastMonth
	pct := math.Abs(float64(change) / float64(lastMonth) * 100)
	switch {
	case change > 0:
		return Trend{Trend: TrendIncrement, Percentage: pct}
	case change < 0:
		return Trend{Trend: TrendDecrement, Percentage: pct}
	default:
		return Trend{Trend: TrendNoChange, Percentage: 0}
	}
}
