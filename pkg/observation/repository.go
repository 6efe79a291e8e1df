package observation

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mediatally/mediatally/pkg/calendar"
	"github.com/mediatally/mediatally/pkg/series"
)

type Repository interface {
	Store(ctx context.Context, file MediaFile) (int, error)
	DailyCounts(ctx context.Context, from, to time.Time, filter Filter) ([]series.DailyObservation, error)
	CountByCategory(ctx context.Context, from, to time.Time) (CategoryBreakdown, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, file MediaFile) (int, error) {
	query := `INSERT INTO media_file (
                            file_name,
                            file_type,
                            recorded_on,
                            school_year,
                            period_id,
                            is_collection_day,
                            is_outlier
						) VALUES ($1, $2, $3, $4, $5, $6, $7)
						RETURNING id`

	var id int
	err := r.db.QueryRowContext(ctx, query,
		file.FileName,
		file.FileType,
		calendar.DateOnly(file.RecordedOn),
		file.SchoolYear,
		file.PeriodID,
		file.CollectionDay,
		file.Outlier,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to store media file: %w", err)
	}
	return id, nil
}

// DailyCounts groups media files into per-date counters (total plus one
// counter per file type), sorted by date ascending. Dates with no matching
// files are absent from the result; densification is the aggregator's job.
func (r *RepositoryImpl) DailyCounts(ctx context.Context, from, to time.Time, filter Filter) ([]series.DailyObservation, error) {
	query := `SELECT recorded_on,
                     COUNT(*) AS total,
                     COUNT(*) FILTER (WHERE file_type = 'JPG') AS jpg,
                     COUNT(*) FILTER (WHERE file_type = 'MP3') AS mp3
              FROM media_file
              WHERE recorded_on BETWEEN $1 AND $2`
	args := []interface{}{calendar.DateOnly(from), calendar.DateOnly(to)}

	if len(filter.FileTypes) > 0 {
		placeholders := make([]string, 0, len(filter.FileTypes))
		for _, ft := range filter.FileTypes {
			args = append(args, ft)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		query += fmt.Sprintf(" AND file_type IN (%s)", strings.Join(placeholders, ", "))
	}
	if filter.CollectionDaysOnly {
		query += " AND is_collection_day"
	}
	if filter.ExcludeOutliers {
		query += " AND NOT is_outlier"
	}
	query += " GROUP BY recorded_on ORDER BY recorded_on"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily counts: %w", err)
	}
	defer rows.Close()

	var observations []series.DailyObservation
	for rows.Next() {
		var date time.Time
		var total, jpg, mp3 int
		if err := rows.Scan(&date, &total, &jpg, &mp3); err != nil {
			return nil, fmt.Errorf("failed to scan daily counts row: %w", err)
		}
		observations = append(observations, series.DailyObservation{
			Date: calendar.DateOnly(date),
			Counts: map[string]int{
				CounterTotal: total,
				CounterJPG:   jpg,
				CounterMP3:   mp3,
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read daily counts: %w", err)
	}
	return observations, nil
}

// CountByCategory computes the four mutually exclusive data-cleaning buckets
// for the range. The buckets always sum to the total file count.
func (r *RepositoryImpl) CountByCategory(ctx context.Context, from, to time.Time) (CategoryBreakdown, error) {
	query := `SELECT
                     COUNT(*) FILTER (WHERE is_collection_day AND NOT is_outlier) AS school_normal,
                     COUNT(*) FILTER (WHERE is_collection_day AND is_outlier) AS school_outlier,
                     COUNT(*) FILTER (WHERE NOT is_collection_day AND NOT is_outlier) AS non_school_normal,
                     COUNT(*) FILTER (WHERE NOT is_collection_day AND is_outlier) AS non_school_outlier
              FROM media_file
              WHERE recorded_on BETWEEN $1 AND $2`

	var breakdown CategoryBreakdown
	err := r.db.QueryRowContext(ctx, query, calendar.DateOnly(from), calendar.DateOnly(to)).Scan(
		&breakdown.SchoolNormal,
		&breakdown.SchoolOutlier,
		&breakdown.NonSchoolNormal,
		&breakdown.NonSchoolOutlier,
	)
	if err != nil {
		return CategoryBreakdown{}, fmt.Errorf("failed to count files by category: %w", err)
	}
	return breakdown, nil
}
