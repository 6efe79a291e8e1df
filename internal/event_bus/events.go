package event_bus

import "time"

const (
	ReportGeneratedEvent        EventType = "report.generated"
	ConsistencyWarningEvent     EventType = "report.consistency_warning"
	CalendarConfigReloadedEvent EventType = "calendar.config_reloaded"
)

type ReportGenerated struct {
	RunID       string
	From        time.Time
	To          time.Time
	FillPolicy  string
	RecordCount int
	Warnings    int
}

type ConsistencyWarningRaised struct {
	PeriodID       string
	CollectionDays int
	DaysWithData   int
	Message        string
}

type CalendarConfigReloaded struct {
	Path         string
	PeriodCount  int
	ExcludedDays int
}
