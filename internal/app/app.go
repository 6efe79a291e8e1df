package app

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/mediatally/mediatally/internal/config"
	"github.com/mediatally/mediatally/internal/database"
	"github.com/mediatally/mediatally/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, database, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	router *mux.Router
	srv    *http.Server
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	// DB + migrations
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	// db will be closed when server shuts down; defer not possible here, leave to process exit.
	if err := database.Migrate(cfg.Database); err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	// Build dependencies (services, handlers...)
	deps, err := BuildDependencies(db, cfg)
	if err != nil {
		return nil, err
	}

	subscribeEventLoggers(deps.EventBus)

	// Middleware chain
	SetupMiddleware(r, deps, cfg)

	// Routes
	RegisterRoutes(r, deps, cfg)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Listen,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, router: r, srv: srv}, nil
}

// Run starts the HTTP server and blocks.
func (a *Application) Run() error {
	log.Infof("Starting server on %s", a.srv.Addr)
	return a.srv.ListenAndServe()
}

// subscribeEventLoggers surfaces report lifecycle events in the logs, so
// consistency warnings appear even when nobody looks at the report payload.
func subscribeEventLoggers(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped[event_bus.ReportGenerated](bus, event_bus.ReportGeneratedEvent,
		func(e event_bus.EventT[event_bus.ReportGenerated]) error {
			log.Infof("report %s generated: %s..%s policy=%s records=%d warnings=%d",
				e.Data.RunID, e.Data.From.Format("2006-01-02"), e.Data.To.Format("2006-01-02"),
				e.Data.FillPolicy, e.Data.RecordCount, e.Data.Warnings)
			return nil
		})
	event_bus.SubscribeTyped[event_bus.ConsistencyWarningRaised](bus, event_bus.ConsistencyWarningEvent,
		func(e event_bus.EventT[event_bus.ConsistencyWarningRaised]) error {
			log.Warnf("period %s: days with data (%d) exceed collection days (%d)",
				e.Data.PeriodID, e.Data.DaysWithData, e.Data.CollectionDays)
			return nil
		})
}
