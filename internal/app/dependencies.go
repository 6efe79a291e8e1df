package app

import (
	"database/sql"
	"fmt"

	"github.com/mediatally/mediatally/internal/config"
	"github.com/mediatally/mediatally/internal/event_bus"
	"github.com/mediatally/mediatally/internal/utils"
	"github.com/mediatally/mediatally/pkg/calendar"
	"github.com/mediatally/mediatally/pkg/observation"
	"github.com/mediatally/mediatally/pkg/report"
	"github.com/mediatally/mediatally/pkg/series"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus

	Classifier      *calendar.Classifier
	CalendarHandler *calendar.Handler

	Aggregator *series.Aggregator

	ObservationRepo    observation.Repository
	ObservationService *observation.ServiceImpl
	ObservationHandler *observation.Handler

	ReportService *report.ServiceImpl
	CsvRenderer   *report.CsvRendererImpl
	XlsxRenderer  *report.XlsxRendererImpl
	ReportHandler *report.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	calendarConfig, err := calendar.Load(cfg.Calendar.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar configuration: %w", err)
	}
	deps.Classifier, err = calendar.NewClassifier(calendarConfig)
	if err != nil {
		return nil, err
	}
	deps.CalendarHandler = calendar.NewHandler(deps.Classifier)

	deps.Aggregator = series.NewAggregator(deps.Classifier)

	deps.ObservationRepo = observation.NewRepository(db)
	deps.ObservationService = observation.NewService(deps.ObservationRepo, deps.Classifier)
	deps.ObservationHandler = observation.NewHandler(deps.ObservationService)

	defaultPolicy, err := series.ParseFillPolicy(cfg.Report.FillPolicy)
	if err != nil {
		return nil, fmt.Errorf("invalid report.fillpolicy: %w", err)
	}
	filter := observation.Filter{
		FileTypes:       []string{"JPG", "MP3"},
		ExcludeOutliers: cfg.Report.ExcludeOutliers,
	}

	deps.ReportService = report.NewService(
		deps.ObservationService,
		deps.Classifier,
		deps.Aggregator,
		deps.EventBus,
		filter,
		cfg.Report.MaxLag,
	)
	deps.CsvRenderer = report.NewCsvRenderer()
	deps.XlsxRenderer = report.NewXlsxRenderer()
	deps.ReportHandler = report.NewHandler(deps.ReportService, deps.CsvRenderer, deps.XlsxRenderer, defaultPolicy)

	return deps, nil
}
