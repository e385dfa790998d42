package trends

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const day = 24 * 60 * 60

type TrendLine struct {
	// SlopePerDay is the least squares change of the metric value per day.
	SlopePerDay float64 `json:"slope_per_day"`
	Intercept   float64 `json:"intercept"`
	// RSquared is NaN when all values are equal.
	RSquared float64 `json:"-"`
	Points   int     `json:"points"`
}

func (t TrendLine) Direction() string {
	switch {
	case t.Points < 2 || math.Abs(t.SlopePerDay) < 1e-9:
		return "flat"
	case t.SlopePerDay > 0:
		return "up"
	default:
		return "down"
	}
}

// Trend fits a line through the points, x being days since the first point.
func Trend(points []Point) TrendLine {
	line := TrendLine{Points: len(points)}
	if len(points) < 2 {
		if len(points) == 1 {
			line.Intercept = points[0].Value
		}
		return line
	}

	origin := points[0].Date.Unix()
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(p.Date.Unix()-origin) / day
		ys[i] = p.Value
	}

	if stat.Variance(xs, nil) == 0 {
		line.Intercept = stat.Mean(ys, nil)
		return line
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	line.Intercept = alpha
	line.SlopePerDay = beta
	line.RSquared = stat.RSquared(xs, ys, nil, alpha, beta)
	return line
}
