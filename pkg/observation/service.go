package observation

import (
	"context"
	"fmt"
	"time"

	"github.com/mediatally/mediatally/pkg/calendar"
	"github.com/mediatally/mediatally/pkg/series"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// Ingest stamps the file with its calendar classification and stores it.
	Ingest(ctx context.Context, file MediaFile) (MediaFile, error)
	DailyCounts(ctx context.Context, from, to time.Time, filter Filter) ([]series.DailyObservation, error)
	CategoryBreakdown(ctx context.Context, from, to time.Time) (CategoryBreakdown, error)
}

type ServiceImpl struct {
	repo       Repository
	classifier *calendar.Classifier
}

func NewService(repo Repository, classifier *calendar.Classifier) *ServiceImpl {
	return &ServiceImpl{repo: repo, classifier: classifier}
}

func (s *ServiceImpl) Ingest(ctx context.Context, file MediaFile) (MediaFile, error) {
	file.RecordedOn = calendar.DateOnly(file.RecordedOn)

	isCollection, err := s.classifier.IsCollectionDay(file.RecordedOn)
	if err != nil {
		return MediaFile{}, fmt.Errorf("failed to classify %s: %w", file.RecordedOn.Format(time.DateOnly), err)
	}
	file.CollectionDay = isCollection

	if period, ok := s.classifier.PeriodFor(file.RecordedOn); ok {
		file.SchoolYear = period.SchoolYear
		file.PeriodID = period.ID
	}

	id, err := s.repo.Store(ctx, file)
	if err != nil {
		return MediaFile{}, err
	}
	file.ID = id
	log.Debugf("ingested media file %d (%s, %s, collection=%t)", file.ID, file.FileType,
		file.RecordedOn.Format(time.DateOnly), file.CollectionDay)
	return file, nil
}

func (s *ServiceImpl) DailyCounts(ctx context.Context, from, to time.Time, filter Filter) ([]series.DailyObservation, error) {
	return s.repo.DailyCounts(ctx, from, to, filter)
}

func (s *ServiceImpl) CategoryBreakdown(ctx context.Context, from, to time.Time) (CategoryBreakdown, error) {
	return s.repo.CountByCategory(ctx, from, to)
}
