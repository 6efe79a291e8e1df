package calendar

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/mediatally/mediatally/internal/rest"
)

type Handler struct {
	classifier *Classifier
}

type PeriodDTO struct {
	ID         string `json:"id"`
	SchoolYear string `json:"schoolYear"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

type CollectionDaysDTO struct {
	From  string   `json:"from"`
	To    string   `json:"to"`
	Count int      `json:"count"`
	Days  []string `json:"days"`
}

func NewHandler(classifier *Classifier) *Handler {
	return &Handler{classifier}
}

func (h *Handler) GetCollectionDays(w http.ResponseWriter, r *http.Request) {
	fromString := r.URL.Query().Get("from")
	toString := r.URL.Query().Get("to")
	from, err := time.Parse(time.DateOnly, fromString)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid from (date) format",
			Details: "'from' must be in YYYY-MM-DD format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}
	to, err := time.Parse(time.DateOnly, toString)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid to (date) format",
			Details: "'to' must be in YYYY-MM-DD format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	days, err := h.classifier.CollectionDaysInRange(from, to)
	if err != nil {
		if errors.Is(err, ErrSchoolYearUnresolved) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Range extends outside configured school years",
				Details: err.Error(),
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dto := CollectionDaysDTO{
		From:  DateOnly(from).Format(time.DateOnly),
		To:    DateOnly(to).Format(time.DateOnly),
		Count: len(days),
		Days:  make([]string, 0, len(days)),
	}
	for _, d := range days {
		dto.Days = append(dto.Days, d.Format(time.DateOnly))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetPeriods(w http.ResponseWriter, r *http.Request) {
	periods := h.classifier.Config().Periods

	dtos := make([]PeriodDTO, 0, len(periods))
	for _, p := range periods {
		dtos = append(dtos, PeriodDTO{
			ID:         p.ID,
			SchoolYear: p.SchoolYear,
			Start:      p.Start.Format(time.DateOnly),
			End:        p.End.Format(time.DateOnly),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
