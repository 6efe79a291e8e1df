package series

import (
	"fmt"
	"sort"
	"time"

	"github.com/mediatally/mediatally/pkg/calendar"
)

// DailyObservation is one sparse data point: a calendar date and its named
// counters (e.g. total files, per-file-type counts). Produced by upstream
// aggregation, consumed by the aggregator.
type DailyObservation struct {
	Date   time.Time
	Counts map[string]int
}

// Record is one entry of a dense series. Zero-filled records carry every
// counter name present in the input set to 0, never missing, so downstream
// sums need no null handling. Observed marks dates backed by a real
// observation; CollectionDay carries the classifier's verdict regardless of
// fill policy, so a filled gap is always distinguishable from real data.
type Record struct {
	Date          time.Time
	Counts        map[string]int
	CollectionDay bool
	Observed      bool
}

// DenseDailySeries covers [Start, End] with exactly one record per calendar
// day (under AllDaysZeroFilled), sorted ascending, no duplicates.
type DenseDailySeries struct {
	Start   time.Time
	End     time.Time
	Policy  FillPolicy
	Records []Record
}

// CounterNames returns the sorted union of counter names across the series.
func (s DenseDailySeries) CounterNames() []string {
	seen := make(map[string]struct{})
	for _, r := range s.Records {
		for name := range r.Counts {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Totals sums every counter across the series.
func (s DenseDailySeries) Totals() map[string]int {
	totals := make(map[string]int)
	for _, r := range s.Records {
		for name, v := range r.Counts {
			totals[name] += v
		}
	}
	return totals
}

// FillPolicy decides how dates without an observation are treated when
// building the dense series.
type FillPolicy int

const (
	// AllDaysZeroFilled includes every calendar day in range, tags its
	// collection status, and zero-fills the gaps.
	AllDaysZeroFilled FillPolicy = iota
	// CollectionDaysOnly restricts the output strictly to classified
	// collection days; non-collection days are omitted, not zero-filled.
	CollectionDaysOnly
)

func (p FillPolicy) String() string {
	switch p {
	case AllDaysZeroFilled:
		return "all_days_zero_filled"
	case CollectionDaysOnly:
		return "collection_days_only"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// ParseFillPolicy converts the configuration string form of a policy.
func ParseFillPolicy(s string) (FillPolicy, error) {
	switch s {
	case "all_days_zero_filled":
		return AllDaysZeroFilled, nil
	case "collection_days_only":
		return CollectionDaysOnly, nil
	default:
		return 0, fmt.Errorf("unknown fill policy: %q", s)
	}
}

// PeriodSummary is a derived view over one period: how many dates in its
// range are collection days and how many had a real observation.
type PeriodSummary struct {
	Period         calendar.Period
	CollectionDays int
	DaysWithData   int
}

// DiagnosticKind labels non-fatal anomalies detected during aggregation.
type DiagnosticKind string

const (
	// ConsistencyWarning flags DaysWithData > CollectionDays, which is
	// impossible under correct inputs and points at a classifier or
	// boundary defect rather than data sparsity.
	ConsistencyWarning DiagnosticKind = "consistency_warning"
)

// Diagnostic is a non-fatal anomaly. Batch callers collect diagnostics across
// a full run instead of stopping at the first one.
type Diagnostic struct {
	Kind     DiagnosticKind
	PeriodID string
	Message  string
}
