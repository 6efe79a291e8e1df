package observation

import (
	"context"
	"sort"
	"time"

	"github.com/mediatally/mediatally/pkg/calendar"
	"github.com/mediatally/mediatally/pkg/series"
)

// RepositoryStub is an in-memory Repository for tests.
type RepositoryStub struct {
	files  map[int]MediaFile
	nextID int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{files: make(map[int]MediaFile)}
}

func (s *RepositoryStub) Store(ctx context.Context, file MediaFile) (int, error) {
	s.nextID++
	file.ID = s.nextID
	file.RecordedOn = calendar.DateOnly(file.RecordedOn)
	s.files[file.ID] = file
	return file.ID, nil
}

func (s *RepositoryStub) DailyCounts(ctx context.Context, from, to time.Time, filter Filter) ([]series.DailyObservation, error) {
	byDate := make(map[time.Time]map[string]int)
	for _, f := range s.files {
		if !matches(f, from, to, filter) {
			continue
		}
		counts, ok := byDate[f.RecordedOn]
		if !ok {
			counts = map[string]int{CounterTotal: 0, CounterJPG: 0, CounterMP3: 0}
			byDate[f.RecordedOn] = counts
		}
		counts[CounterTotal]++
		switch f.FileType {
		case "JPG":
			counts[CounterJPG]++
		case "MP3":
			counts[CounterMP3]++
		}
	}

	observations := make([]series.DailyObservation, 0, len(byDate))
	for date, counts := range byDate {
		observations = append(observations, series.DailyObservation{Date: date, Counts: counts})
	}
	sort.Slice(observations, func(i, j int) bool {
		return observations[i].Date.Before(observations[j].Date)
	})
	return observations, nil
}

func (s *RepositoryStub) CountByCategory(ctx context.Context, from, to time.Time) (CategoryBreakdown, error) {
	var breakdown CategoryBreakdown
	for _, f := range s.files {
		if f.RecordedOn.Before(calendar.DateOnly(from)) || f.RecordedOn.After(calendar.DateOnly(to)) {
			continue
		}
		switch {
		case f.CollectionDay && !f.Outlier:
			breakdown.SchoolNormal++
		case f.CollectionDay && f.Outlier:
			breakdown.SchoolOutlier++
		case !f.CollectionDay && !f.Outlier:
			breakdown.NonSchoolNormal++
		default:
			breakdown.NonSchoolOutlier++
		}
	}
	return breakdown, nil
}

func (s *RepositoryStub) Reset() {
	s.files = make(map[int]MediaFile)
	s.nextID = 0
}

func matches(f MediaFile, from, to time.Time, filter Filter) bool {
	if f.RecordedOn.Before(calendar.DateOnly(from)) || f.RecordedOn.After(calendar.DateOnly(to)) {
		return false
	}
	if filter.CollectionDaysOnly && !f.CollectionDay {
		return false
	}
	if filter.ExcludeOutliers && f.Outlier {
		return false
	}
	if len(filter.FileTypes) > 0 {
		found := false
		for _, ft := range filter.FileTypes {
			if f.FileType == ft {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
