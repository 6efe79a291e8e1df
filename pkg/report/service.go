package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mediatally/mediatally/internal/event_bus"
	"github.com/mediatally/mediatally/internal/utils"
	"github.com/mediatally/mediatally/pkg/calendar"
	"github.com/mediatally/mediatally/pkg/observation"
	"github.com/mediatally/mediatally/pkg/series"
	"github.com/mediatally/mediatally/pkg/timeseries"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Generate(ctx context.Context, from, to time.Time, policy series.FillPolicy) (Report, error)
}

// DailyCountsReader is the slice of the observation service the report needs.
type DailyCountsReader interface {
	DailyCounts(ctx context.Context, from, to time.Time, filter observation.Filter) ([]series.DailyObservation, error)
}

type ServiceImpl struct {
	reader     DailyCountsReader
	classifier *calendar.Classifier
	aggregator *series.Aggregator
	eventBus   *event_bus.EventBus
	clock      utils.Clock

	filter observation.Filter
	maxLag int
}

func NewService(
	reader DailyCountsReader,
	classifier *calendar.Classifier,
	aggregator *series.Aggregator,
	eventBus *event_bus.EventBus,
	filter observation.Filter,
	maxLag int,
) *ServiceImpl {
	return &ServiceImpl{
		reader:     reader,
		classifier: classifier,
		aggregator: aggregator,
		eventBus:   eventBus,
		clock:      &utils.SystemClock{},
		filter:     filter,
		maxLag:     maxLag,
	}
}

// Generate runs the full pipeline for [from, to]: pull sparse daily counts,
// densify them under the requested fill policy, summarize every period
// intersecting the range, and compute the ACF/PACF feature columns over the
// dense total series. Consistency warnings are collected on the report and
// published on the event bus; only configuration problems abort the run.
func (s *ServiceImpl) Generate(ctx context.Context, from, to time.Time, policy series.FillPolicy) (Report, error) {
	observations, err := s.reader.DailyCounts(ctx, from, to, s.filter)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read daily counts: %w", err)
	}
	log.Debugf("report run: %d observed dates between %s and %s",
		len(observations), from.Format(time.DateOnly), to.Format(time.DateOnly))

	dense, err := s.aggregator.Densify(observations, from, to, policy)
	if err != nil {
		return Report{}, fmt.Errorf("failed to densify daily counts: %w", err)
	}

	periods := s.classifier.PeriodsOverlapping(from, to)
	summaries, diagnostics := s.aggregator.SummarizePeriods(dense, periods)

	report := Report{
		RunID:       uuid.NewString(),
		GeneratedAt: s.clock.Now(),
		From:        calendar.DateOnly(from),
		To:          calendar.DateOnly(to),
		FillPolicy:  policy,
		Series:      dense,
		Summaries:   summaries,
		Diagnostics: diagnostics,
	}

	if acf, pacf, ok := s.featureColumns(dense); ok {
		report.ACF = acf
		report.PACF = pacf
	}

	s.publish(ctx, report)
	return report, nil
}

// featureColumns computes ACF/PACF over the daily totals. Series too short
// for the configured lag get no feature columns rather than an error.
func (s *ServiceImpl) featureColumns(dense series.DenseDailySeries) ([]float64, []float64, bool) {
	maxLag := s.maxLag
	if maxLag >= len(dense.Records) {
		maxLag = len(dense.Records) - 1
	}
	if maxLag < 1 {
		return nil, nil, false
	}

	totals := make([]float64, 0, len(dense.Records))
	for _, r := range dense.Records {
		totals = append(totals, float64(r.Counts[observation.CounterTotal]))
	}

	acf, err := timeseries.ACF(totals, maxLag)
	if err != nil {
		log.Warnf("skipping ACF feature columns: %v", err)
		return nil, nil, false
	}
	pacf, err := timeseries.PACF(totals, maxLag)
	if err != nil {
		log.Warnf("skipping PACF feature columns: %v", err)
		return nil, nil, false
	}
	return acf, pacf, true
}

func (s *ServiceImpl) publish(ctx context.Context, report Report) {
	for _, d := range report.Diagnostics {
		summary := findSummary(report.Summaries, d.PeriodID)
		err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.ConsistencyWarningEvent,
			event_bus.ConsistencyWarningRaised{
				PeriodID:       d.PeriodID,
				CollectionDays: summary.CollectionDays,
				DaysWithData:   summary.DaysWithData,
				Message:        d.Message,
			}))
		if err != nil {
			log.Errorf("failed to publish consistency warning: %v", err)
		}
	}

	err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.ReportGeneratedEvent,
		event_bus.ReportGenerated{
			RunID:       report.RunID,
			From:        report.From,
			To:          report.To,
			FillPolicy:  report.FillPolicy.String(),
			RecordCount: len(report.Series.Records),
			Warnings:    len(report.Diagnostics),
		}))
	if err != nil {
		log.Errorf("failed to publish report generated event: %v", err)
	}
}

func findSummary(summaries []series.PeriodSummary, periodID string) series.PeriodSummary {
	for _, s := range summaries {
		if s.Period.ID == periodID {
			return s
		}
	}
	return series.PeriodSummary{}
}
