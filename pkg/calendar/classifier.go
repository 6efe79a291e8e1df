package calendar

import (
	"fmt"
	"sort"
	"time"
)

var ErrInvalidConfig = fmt.Errorf("invalid calendar configuration")
var ErrSchoolYearUnresolved = fmt.Errorf("date cannot be resolved to a configured school year")

// DayClass is the full classification of a single calendar date.
type DayClass int

const (
	// DayCollection is a weekday inside a configured period and not excluded.
	DayCollection DayClass = iota
	// DayWeekend falls on Saturday or Sunday.
	DayWeekend
	// DayExcluded is on the non-collection date list (holiday, break, closure).
	DayExcluded
	// DayOutOfPeriod is inside a school year's span but between its periods.
	DayOutOfPeriod
)

func (c DayClass) String() string {
	switch c {
	case DayCollection:
		return "collection"
	case DayWeekend:
		return "weekend"
	case DayExcluded:
		return "excluded"
	case DayOutOfPeriod:
		return "out_of_period"
	default:
		return fmt.Sprintf("unknown(%d)", int(c))
	}
}

type yearSpan struct {
	start time.Time
	end   time.Time
}

// Classifier answers whether a date is a valid collection day. It is a pure
// function of the Config it was built from: no caching, no hidden state.
type Classifier struct {
	cfg   Config
	spans map[string]yearSpan
}

// NewClassifier validates the configuration and builds a classifier from it.
// Validation failures wrap ErrInvalidConfig: a wrong period boundary would
// corrupt every downstream statistic, so nothing is silently repaired.
func NewClassifier(cfg Config) (*Classifier, error) {
	spans := make(map[string]yearSpan)
	byYear := make(map[string][]Period)

	for _, p := range cfg.Periods {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: period without an ID", ErrInvalidConfig)
		}
		if p.SchoolYear == "" {
			return nil, fmt.Errorf("%w: period %q has no school year", ErrInvalidConfig, p.ID)
		}
		if p.Start != DateOnly(p.Start) || p.End != DateOnly(p.End) {
			return nil, fmt.Errorf("%w: period %q boundaries must be plain dates", ErrInvalidConfig, p.ID)
		}
		if p.End.Before(p.Start) {
			return nil, fmt.Errorf("%w: period %q ends before it starts", ErrInvalidConfig, p.ID)
		}
		byYear[p.SchoolYear] = append(byYear[p.SchoolYear], p)
	}

	for year, periods := range byYear {
		sort.Slice(periods, func(i, j int) bool {
			return periods[i].Start.Before(periods[j].Start)
		})
		for i := 1; i < len(periods); i++ {
			if !periods[i].Start.After(periods[i-1].End) {
				return nil, fmt.Errorf("%w: periods %q and %q overlap within school year %s",
					ErrInvalidConfig, periods[i-1].ID, periods[i].ID, year)
			}
		}
		spans[year] = yearSpan{
			start: periods[0].Start,
			end:   periods[len(periods)-1].End,
		}
	}

	return &Classifier{cfg: cfg, spans: spans}, nil
}

// Config returns the configuration the classifier was built from.
func (c *Classifier) Config() Config {
	return c.cfg
}

// Classify resolves the date to a school year and classifies it. A date that
// falls outside every school year's span is a configuration gap, not a regular
// non-collection day, and is reported as ErrSchoolYearUnresolved so the
// operator can tell the two apart.
func (c *Classifier) Classify(date time.Time) (DayClass, error) {
	d := DateOnly(date)

	if _, ok := c.resolveSchoolYear(d); !ok {
		return 0, fmt.Errorf("%w: %s", ErrSchoolYearUnresolved, d.Format(time.DateOnly))
	}

	// Conjunctive rules: failing any one disqualifies the date exactly once.
	if IsWeekend(d) {
		return DayWeekend, nil
	}
	if c.cfg.IsExcluded(d) {
		return DayExcluded, nil
	}
	for _, p := range c.cfg.Periods {
		if p.Contains(d) {
			return DayCollection, nil
		}
	}
	return DayOutOfPeriod, nil
}

// IsCollectionDay reports whether the date is a valid collection day:
// a weekday, inside a configured period, and not on the exclusion list.
func (c *Classifier) IsCollectionDay(date time.Time) (bool, error) {
	class, err := c.Classify(date)
	if err != nil {
		return false, err
	}
	return class == DayCollection, nil
}

// CollectionDaysInRange returns every collection day in [start, end],
// both endpoints included, sorted ascending.
func (c *Classifier) CollectionDaysInRange(start, end time.Time) ([]time.Time, error) {
	from := DateOnly(start)
	to := DateOnly(end)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end %s before start %s",
			ErrInvalidConfig, to.Format(time.DateOnly), from.Format(time.DateOnly))
	}

	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		ok, err := c.IsCollectionDay(d)
		if err != nil {
			return nil, err
		}
		if ok {
			days = append(days, d)
		}
	}
	return days, nil
}

// PeriodFor returns the period containing the date, if any.
func (c *Classifier) PeriodFor(date time.Time) (Period, bool) {
	d := DateOnly(date)
	for _, p := range c.cfg.Periods {
		if p.Contains(d) {
			return p, true
		}
	}
	return Period{}, false
}

// PeriodsOverlapping returns all periods intersecting [start, end], sorted by
// start date.
func (c *Classifier) PeriodsOverlapping(start, end time.Time) []Period {
	from := DateOnly(start)
	to := DateOnly(end)

	var periods []Period
	for _, p := range c.cfg.Periods {
		if !p.End.Before(from) && !p.Start.After(to) {
			periods = append(periods, p)
		}
	}
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Start.Before(periods[j].Start)
	})
	return periods
}

// resolveSchoolYear finds the school year whose span contains the date.
// A school year's span runs from its earliest period start to its latest
// period end; dates in the span but between periods still resolve.
func (c *Classifier) resolveSchoolYear(d time.Time) (string, bool) {
	for year, span := range c.spans {
		if !d.Before(span.start) && !d.After(span.end) {
			return year, true
		}
	}
	return "", false
}
