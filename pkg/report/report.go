package report

import (
	"time"

	"github.com/mediatally/mediatally/pkg/series"
)

// Report is one full generation run over a date range: the dense daily
// series, a summary per period intersecting the range, ACF/PACF feature
// columns over the daily totals, and every non-fatal diagnostic collected
// along the way. Computed fresh per run, never persisted.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	From        time.Time
	To          time.Time
	FillPolicy  series.FillPolicy

	Series      series.DenseDailySeries
	Summaries   []series.PeriodSummary
	Diagnostics []series.Diagnostic

	// ACF and PACF are indexed by lag (0..MaxLag) over the daily total counts.
	ACF  []float64
	PACF []float64
}
