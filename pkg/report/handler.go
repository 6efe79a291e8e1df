package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mediatally/mediatally/internal/rest"
	"github.com/mediatally/mediatally/pkg/calendar"
	"github.com/mediatally/mediatally/pkg/series"
)

type Handler struct {
	service       Service
	csvRenderer   Renderer
	xlsxRenderer  *XlsxRendererImpl
	defaultPolicy series.FillPolicy
}

type RecordDTO struct {
	Date          string         `json:"date"`
	CollectionDay bool           `json:"collectionDay"`
	Observed      bool           `json:"observed"`
	Counts        map[string]int `json:"counts"`
}

type PeriodSummaryDTO struct {
	PeriodID       string `json:"periodId"`
	SchoolYear     string `json:"schoolYear"`
	Start          string `json:"start"`
	End            string `json:"end"`
	CollectionDays int    `json:"collectionDays"`
	DaysWithData   int    `json:"daysWithData"`
}

type DiagnosticDTO struct {
	Kind     string `json:"kind"`
	PeriodID string `json:"periodId"`
	Message  string `json:"message"`
}

type ReportDTO struct {
	RunID       string             `json:"runId"`
	GeneratedAt time.Time          `json:"generatedAt"`
	From        string             `json:"from"`
	To          string             `json:"to"`
	FillPolicy  string             `json:"fillPolicy"`
	Records     []RecordDTO        `json:"records"`
	Summaries   []PeriodSummaryDTO `json:"summaries"`
	Diagnostics []DiagnosticDTO    `json:"diagnostics"`
	ACF         []float64          `json:"acf,omitempty"`
	PACF        []float64          `json:"pacf,omitempty"`
}

func NewHandler(service Service, csvRenderer Renderer, xlsxRenderer *XlsxRendererImpl, defaultPolicy series.FillPolicy) *Handler {
	return &Handler{service, csvRenderer, xlsxRenderer, defaultPolicy}
}

func (h *Handler) GetDailyReport(w http.ResponseWriter, r *http.Request) {
	from, to, policy, ok := h.parseParams(w, r)
	if !ok {
		return
	}

	report, err := h.service.Generate(r.Context(), from, to, policy)
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	if r.Header.Get("Accept") == "text/csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		csv, err := h.csvRenderer.RenderReport(report)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := w.Write([]byte(csv)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(convertToJsonResponse(&report)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetPeriodSummaries(w http.ResponseWriter, r *http.Request) {
	from, to, policy, ok := h.parseParams(w, r)
	if !ok {
		return
	}

	report, err := h.service.Generate(r.Context(), from, to, policy)
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	response := struct {
		Summaries   []PeriodSummaryDTO `json:"summaries"`
		Diagnostics []DiagnosticDTO    `json:"diagnostics"`
	}{
		Summaries:   summariesToDTO(report.Summaries),
		Diagnostics: diagnosticsToDTO(report.Diagnostics),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	from, to, policy, ok := h.parseParams(w, r)
	if !ok {
		return
	}

	report, err := h.service.Generate(r.Context(), from, to, policy)
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	filename := fmt.Sprintf("mediatally_%s_%s.xlsx",
		report.From.Format(time.DateOnly), report.To.Format(time.DateOnly))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.xlsxRenderer.RenderWorkbook(report, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) parseParams(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, series.FillPolicy, bool) {
	fromString := r.URL.Query().Get("from")
	toString := r.URL.Query().Get("to")

	from, err := time.Parse(time.DateOnly, fromString)
	if err != nil {
		writeBadRequest(w, "Invalid from (date) format", "'from' must be in YYYY-MM-DD format")
		return time.Time{}, time.Time{}, 0, false
	}
	to, err := time.Parse(time.DateOnly, toString)
	if err != nil {
		writeBadRequest(w, "Invalid to (date) format", "'to' must be in YYYY-MM-DD format")
		return time.Time{}, time.Time{}, 0, false
	}

	policy := h.defaultPolicy
	if policyString := r.URL.Query().Get("policy"); policyString != "" {
		policy, err = series.ParseFillPolicy(policyString)
		if err != nil {
			writeBadRequest(w, "Invalid policy",
				"'policy' must be all_days_zero_filled or collection_days_only")
			return time.Time{}, time.Time{}, 0, false
		}
	}
	return from, to, policy, true
}

func writeBadRequest(w http.ResponseWriter, msg, details string) {
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: msg, Details: details}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeGenerationError(w http.ResponseWriter, err error) {
	if errors.Is(err, calendar.ErrSchoolYearUnresolved) || errors.Is(err, calendar.ErrInvalidConfig) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Range cannot be classified with the configured calendar",
			Details: err.Error(),
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func convertToJsonResponse(report *Report) *ReportDTO {
	records := make([]RecordDTO, 0, len(report.Series.Records))
	for _, record := range report.Series.Records {
		records = append(records, RecordDTO{
			Date:          record.Date.Format(time.DateOnly),
			CollectionDay: record.CollectionDay,
			Observed:      record.Observed,
			Counts:        record.Counts,
		})
	}

	return &ReportDTO{
		RunID:       report.RunID,
		GeneratedAt: report.GeneratedAt,
		From:        report.From.Format(time.DateOnly),
		To:          report.To.Format(time.DateOnly),
		FillPolicy:  report.FillPolicy.String(),
		Records:     records,
		Summaries:   summariesToDTO(report.Summaries),
		Diagnostics: diagnosticsToDTO(report.Diagnostics),
		ACF:         report.ACF,
		PACF:        report.PACF,
	}
}

func summariesToDTO(summaries []series.PeriodSummary) []PeriodSummaryDTO {
	dtos := make([]PeriodSummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		dtos = append(dtos, PeriodSummaryDTO{
			PeriodID:       s.Period.ID,
			SchoolYear:     s.Period.SchoolYear,
			Start:          s.Period.Start.Format(time.DateOnly),
			End:            s.Period.End.Format(time.DateOnly),
			CollectionDays: s.CollectionDays,
			DaysWithData:   s.DaysWithData,
		})
	}
	return dtos
}

func diagnosticsToDTO(diagnostics []series.Diagnostic) []DiagnosticDTO {
	dtos := make([]DiagnosticDTO, 0, len(diagnostics))
	for _, d := range diagnostics {
		dtos = append(dtos, DiagnosticDTO{
			Kind:     string(d.Kind),
			PeriodID: d.PeriodID,
			Message:  d.Message,
		})
	}
	return dtos
}
