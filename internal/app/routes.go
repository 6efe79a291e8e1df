package app

import (
	"github.com/gorilla/mux"
	"github.com/mediatally/mediatally/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Calendar
	r.HandleFunc("/api/calendar/collection-days", deps.CalendarHandler.GetCollectionDays).Queries("from", "{from}", "to", "{to}").Methods("GET")
	r.HandleFunc("/api/calendar/periods", deps.CalendarHandler.GetPeriods).Methods("GET")

	// Media file ingestion
	r.HandleFunc("/api/mediafile", deps.ObservationHandler.IngestMediaFile).Methods("POST")
	r.HandleFunc("/api/mediafile/categories", deps.ObservationHandler.GetCategoryBreakdown).Queries("from", "{from}", "to", "{to}").Methods("GET")

	// Reports
	r.HandleFunc("/api/report/daily", deps.ReportHandler.GetDailyReport).Queries("from", "{from}", "to", "{to}").Methods("GET")
	r.HandleFunc("/api/report/periods", deps.ReportHandler.GetPeriodSummaries).Queries("from", "{from}", "to", "{to}").Methods("GET")
	r.HandleFunc("/api/report/export", deps.ReportHandler.ExportWorkbook).Queries("from", "{from}", "to", "{to}").Methods("GET")
}
