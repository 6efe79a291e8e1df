package observation

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/mediatally/mediatally/internal/rest"
	"github.com/mediatally/mediatally/pkg/calendar"
)

type Handler struct {
	service Service
}

type MediaFileDTO struct {
	ID            int    `json:"id,omitempty"`
	FileName      string `json:"fileName"`
	FileType      string `json:"fileType"`
	RecordedOn    string `json:"recordedOn"`
	SchoolYear    string `json:"schoolYear,omitempty"`
	PeriodID      string `json:"periodId,omitempty"`
	CollectionDay bool   `json:"collectionDay"`
	Outlier       bool   `json:"outlier"`
}

type CategoryBreakdownDTO struct {
	SchoolNormal     int `json:"schoolNormal"`
	SchoolOutlier    int `json:"schoolOutlier"`
	NonSchoolNormal  int `json:"nonSchoolNormal"`
	NonSchoolOutlier int `json:"nonSchoolOutlier"`
	Total            int `json:"total"`
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) IngestMediaFile(w http.ResponseWriter, r *http.Request) {
	var dto MediaFileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	recordedOn, err := time.Parse(time.DateOnly, dto.RecordedOn)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid recordedOn format",
			Details: "recordedOn must be in YYYY-MM-DD format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			return
		}
		return
	}

	file, err := h.service.Ingest(r.Context(), MediaFile{
		FileName:   dto.FileName,
		FileType:   dto.FileType,
		RecordedOn: recordedOn,
		Outlier:    dto.Outlier,
	})
	if err != nil {
		if errors.Is(err, calendar.ErrSchoolYearUnresolved) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Date outside configured school years",
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

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(mediaFileToDTO(file)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseRange(w, r)
	if !ok {
		return
	}

	breakdown, err := h.service.CategoryBreakdown(r.Context(), from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(CategoryBreakdownDTO{
		SchoolNormal:     breakdown.SchoolNormal,
		SchoolOutlier:    breakdown.SchoolOutlier,
		NonSchoolNormal:  breakdown.NonSchoolNormal,
		NonSchoolOutlier: breakdown.NonSchoolOutlier,
		Total:            breakdown.Total(),
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func mediaFileToDTO(f MediaFile) MediaFileDTO {
	return MediaFileDTO{
		ID:            f.ID,
		FileName:      f.FileName,
		FileType:      f.FileType,
		RecordedOn:    f.RecordedOn.Format(time.DateOnly),
		SchoolYear:    f.SchoolYear,
		PeriodID:      f.PeriodID,
		CollectionDay: f.CollectionDay,
		Outlier:       f.Outlier,
	}
}

func parseRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	fromString := r.URL.Query().Get("from")
	toString := r.URL.Query().Get("to")
	from, err := time.Parse(time.DateOnly, fromString)
	if err != nil {
		writeDateError(w, "Invalid from (date) format", "'from' must be in YYYY-MM-DD format")
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse(time.DateOnly, toString)
	if err != nil {
		writeDateError(w, "Invalid to (date) format", "'to' must be in YYYY-MM-DD format")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func writeDateError(w http.ResponseWriter, msg, details string) {
	w.WriteHeader(http.StatusBadRequest)
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: msg, Details: details}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
