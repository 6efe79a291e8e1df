package report

import (
	"context"
	"testing"
	"time"

	"github.com/mediatally/mediatally/internal/event_bus"
	"github.com/mediatally/mediatally/internal/utils"
	"github.com/mediatally/mediatally/pkg/calendar"
	"github.com/mediatally/mediatally/pkg/observation"
	"github.com/mediatally/mediatally/pkg/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type dailyCountsReaderStub struct {
	observations []series.DailyObservation
	lastFilter   observation.Filter
}

func (s *dailyCountsReaderStub) DailyCounts(ctx context.Context, from, to time.Time, filter observation.Filter) ([]series.DailyObservation, error) {
	s.lastFilter = filter
	return s.observations, nil
}

func (s *dailyCountsReaderStub) reset() {
	s.observations = nil
	s.lastFilter = observation.Filter{}
}

var readerStub = &dailyCountsReaderStub{}
var clock = &utils.MockClock{FixedNow: date(2023, time.January, 15)}

func setup(t *testing.T) (*ServiceImpl, *event_bus.EventBus, func()) {
	t.Helper()
	classifier, err := calendar.NewClassifier(calendar.Config{
		Periods: []calendar.Period{{
			ID:         "SY 22-23 P1",
			SchoolYear: "SY 22-23",
			Start:      date(2022, time.September, 6),
			End:        date(2022, time.December, 23),
		}},
		NonCollectionDates: map[time.Time]struct{}{
			date(2022, time.December, 23): {},
		},
	})
	require.NoError(t, err)

	bus := event_bus.NewEventBus()
	service := &ServiceImpl{
		reader:     readerStub,
		classifier: classifier,
		aggregator: series.NewAggregator(classifier),
		eventBus:   bus,
		clock:      clock,
		filter:     observation.Filter{FileTypes: []string{"JPG", "MP3"}, ExcludeOutliers: true},
		maxLag:     3,
	}
	return service, bus, func() {
		readerStub.reset()
	}
}

func TestServiceImpl_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("produces a dense series with period summaries", func(t *testing.T) {
		service, _, teardown := setup(t)
		defer teardown()

		readerStub.observations = []series.DailyObservation{
			{Date: date(2022, time.December, 19), Counts: map[string]int{observation.CounterTotal: 10}},
			{Date: date(2022, time.December, 21), Counts: map[string]int{observation.CounterTotal: 5}},
		}

		report, err := service.Generate(ctx,
			date(2022, time.December, 19), date(2022, time.December, 23), series.AllDaysZeroFilled)
		require.NoError(t, err)

		assert.NotEmpty(t, report.RunID)
		assert.Equal(t, clock.FixedNow, report.GeneratedAt)
		assert.Len(t, report.Series.Records, 5)
		require.Len(t, report.Summaries, 1)
		assert.Equal(t, "SY 22-23 P1", report.Summaries[0].Period.ID)
		assert.Equal(t, 4, report.Summaries[0].CollectionDays)
		assert.Equal(t, 2, report.Summaries[0].DaysWithData)
		assert.Empty(t, report.Diagnostics)

		// maxLag 3 over 5 records
		require.Len(t, report.ACF, 4)
		require.Len(t, report.PACF, 4)
		assert.InDelta(t, 1.0, report.ACF[0], 1e-9)

		assert.Equal(t, []string{"JPG", "MP3"}, readerStub.lastFilter.FileTypes)
		assert.True(t, readerStub.lastFilter.ExcludeOutliers)
	})

	t.Run("publishes a report generated event", func(t *testing.T) {
		service, bus, teardown := setup(t)
		defer teardown()

		var published []event_bus.ReportGenerated
		event_bus.SubscribeTyped[event_bus.ReportGenerated](bus, event_bus.ReportGeneratedEvent,
			func(e event_bus.EventT[event_bus.ReportGenerated]) error {
				published = append(published, e.Data)
				return nil
			})

		readerStub.observations = []series.DailyObservation{
			{Date: date(2022, time.December, 19), Counts: map[string]int{observation.CounterTotal: 1}},
		}

		report, err := service.Generate(ctx,
			date(2022, time.December, 19), date(2022, time.December, 23), series.AllDaysZeroFilled)
		require.NoError(t, err)

		require.Len(t, published, 1)
		assert.Equal(t, report.RunID, published[0].RunID)
		assert.Equal(t, 5, published[0].RecordCount)
		assert.Equal(t, "all_days_zero_filled", published[0].FillPolicy)
	})

	t.Run("skips feature columns for series shorter than two records", func(t *testing.T) {
		service, _, teardown := setup(t)
		defer teardown()

		readerStub.observations = []series.DailyObservation{
			{Date: date(2022, time.December, 19), Counts: map[string]int{observation.CounterTotal: 1}},
		}

		report, err := service.Generate(ctx,
			date(2022, time.December, 19), date(2022, time.December, 19), series.AllDaysZeroFilled)
		require.NoError(t, err)
		assert.Nil(t, report.ACF)
		assert.Nil(t, report.PACF)
	})

	t.Run("propagates classification gaps", func(t *testing.T) {
		service, _, teardown := setup(t)
		defer teardown()

		_, err := service.Generate(ctx,
			date(2021, time.March, 1), date(2021, time.March, 5), series.AllDaysZeroFilled)
		require.ErrorIs(t, err, calendar.ErrSchoolYearUnresolved)
	})

	t.Run("publishes consistency warnings per affected period", func(t *testing.T) {
		service, bus, teardown := setup(t)
		defer teardown()

		var warnings []event_bus.ConsistencyWarningRaised
		event_bus.SubscribeTyped[event_bus.ConsistencyWarningRaised](bus, event_bus.ConsistencyWarningEvent,
			func(e event_bus.EventT[event_bus.ConsistencyWarningRaised]) error {
				warnings = append(warnings, e.Data)
				return nil
			})

		// Data on the excluded Friday and the weekend pushes days-with-data
		// past the five collection days in the window.
		readerStub.observations = []series.DailyObservation{
			{Date: date(2022, time.December, 16), Counts: map[string]int{observation.CounterTotal: 1}},
			{Date: date(2022, time.December, 17), Counts: map[string]int{observation.CounterTotal: 1}},
			{Date: date(2022, time.December, 18), Counts: map[string]int{observation.CounterTotal: 1}},
			{Date: date(2022, time.December, 19), Counts: map[string]int{observation.CounterTotal: 1}},
			{Date: date(2022, time.December, 20), Counts: map[string]int{observation.CounterTotal: 1}},
			{Date: date(2022, time.December, 21), Counts: map[string]int{observation.CounterTotal: 1}},
			{Date: date(2022, time.December, 22), Counts: map[string]int{observation.CounterTotal: 1}},
			{Date: date(2022, time.December, 23), Counts: map[string]int{observation.CounterTotal: 1}},
		}

		report, err := service.Generate(ctx,
			date(2022, time.December, 16), date(2022, time.December, 23), series.AllDaysZeroFilled)
		require.NoError(t, err)

		require.Len(t, report.Diagnostics, 1)
		require.Len(t, warnings, 1)
		assert.Equal(t, "SY 22-23 P1", warnings[0].PeriodID)
		assert.Greater(t, warnings[0].DaysWithData, warnings[0].CollectionDays)
	})
}
