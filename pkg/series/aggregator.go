package series

import (
	"fmt"
	"time"

	"github.com/mediatally/mediatally/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

var ErrNoObservations = fmt.Errorf("no observations and no explicit range")
var ErrDuplicateObservation = fmt.Errorf("duplicate observation date")
var ErrInvalidRange = fmt.Errorf("range end before range start")

// DayClassifier is the slice of the calendar classifier the aggregator needs.
type DayClassifier interface {
	Classify(date time.Time) (calendar.DayClass, error)
}

// Aggregator turns sparse daily observations into a dense series over a
// complete date axis. It is stateless: every call is a pure function of its
// inputs and the immutable calendar configuration behind the classifier, so
// independent calls can safely run in parallel.
type Aggregator struct {
	classifier DayClassifier
}

func NewAggregator(classifier DayClassifier) *Aggregator {
	return &Aggregator{classifier: classifier}
}

// Densify builds a DenseDailySeries covering [start, end]. Zero values for
// start/end default to the min/max observation dates. Observations outside
// the explicit range are ignored. Every record carries the classifier's
// collection-day tag; classification failures (dates outside every configured
// school year) propagate as errors rather than being guessed at.
func (a *Aggregator) Densify(observations []DailyObservation, start, end time.Time, policy FillPolicy) (DenseDailySeries, error) {
	byDate := make(map[time.Time]DailyObservation, len(observations))
	counterNames := make(map[string]struct{})
	var minDate, maxDate time.Time

	for _, obs := range observations {
		d := calendar.DateOnly(obs.Date)
		if _, exists := byDate[d]; exists {
			return DenseDailySeries{}, fmt.Errorf("%w: %s", ErrDuplicateObservation, d.Format(time.DateOnly))
		}
		byDate[d] = obs
		for name := range obs.Counts {
			counterNames[name] = struct{}{}
		}
		if minDate.IsZero() || d.Before(minDate) {
			minDate = d
		}
		if maxDate.IsZero() || d.After(maxDate) {
			maxDate = d
		}
	}

	from := calendar.DateOnly(start)
	to := calendar.DateOnly(end)
	if start.IsZero() {
		from = minDate
	}
	if end.IsZero() {
		to = maxDate
	}
	if from.IsZero() || to.IsZero() {
		return DenseDailySeries{}, ErrNoObservations
	}
	if to.Before(from) {
		return DenseDailySeries{}, fmt.Errorf("%w: %s before %s",
			ErrInvalidRange, to.Format(time.DateOnly), from.Format(time.DateOnly))
	}

	series := DenseDailySeries{Start: from, End: to, Policy: policy}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		class, err := a.classifier.Classify(d)
		if err != nil {
			return DenseDailySeries{}, fmt.Errorf("classify %s: %w", d.Format(time.DateOnly), err)
		}
		isCollection := class == calendar.DayCollection

		if policy == CollectionDaysOnly && !isCollection {
			continue
		}

		record := Record{
			Date:          d,
			CollectionDay: isCollection,
		}
		if obs, ok := byDate[d]; ok {
			record.Observed = true
			record.Counts = cloneCounts(obs.Counts, counterNames)
		} else {
			record.Counts = zeroCounts(counterNames)
		}
		series.Records = append(series.Records, record)
	}

	return series, nil
}

// SummarizePeriod intersects the dense series with one period's date range.
// A summary where DaysWithData exceeds CollectionDays is mathematically
// impossible under correct inputs; it is logged and returned as a
// ConsistencyWarning diagnostic, never an error, so one bad period does not
// abort a report covering many.
func (a *Aggregator) SummarizePeriod(s DenseDailySeries, period calendar.Period) (PeriodSummary, []Diagnostic) {
	summary := PeriodSummary{Period: period}
	for _, r := range s.Records {
		if !period.Contains(r.Date) {
			continue
		}
		if r.CollectionDay {
			summary.CollectionDays++
		}
		if r.Observed {
			summary.DaysWithData++
		}
	}

	var diagnostics []Diagnostic
	if summary.DaysWithData > summary.CollectionDays {
		d := Diagnostic{
			Kind:     ConsistencyWarning,
			PeriodID: period.ID,
			Message: fmt.Sprintf("period %s has %d days with data but only %d collection days",
				period.ID, summary.DaysWithData, summary.CollectionDays),
		}
		log.Warnf("consistency warning: %s", d.Message)
		diagnostics = append(diagnostics, d)
	}
	return summary, diagnostics
}

// SummarizePeriods summarizes every given period, collecting all diagnostics
// across the run.
func (a *Aggregator) SummarizePeriods(s DenseDailySeries, periods []calendar.Period) ([]PeriodSummary, []Diagnostic) {
	summaries := make([]PeriodSummary, 0, len(periods))
	var diagnostics []Diagnostic
	for _, p := range periods {
		summary, diags := a.SummarizePeriod(s, p)
		summaries = append(summaries, summary)
		diagnostics = append(diagnostics, diags...)
	}
	return summaries, diagnostics
}

func cloneCounts(counts map[string]int, names map[string]struct{}) map[string]int {
	cloned := make(map[string]int, len(names))
	for name := range names {
		cloned[name] = counts[name]
	}
	return cloned
}

func zeroCounts(names map[string]struct{}) map[string]int {
	zeroed := make(map[string]int, len(names))
	for name := range names {
		zeroed[name] = 0
	}
	return zeroed
}
