package observation

import "time"

// Counter names shared between the repository aggregation and the renderers.
const (
	CounterTotal = "total"
	CounterJPG   = "jpg"
	CounterMP3   = "mp3"
)

// MediaFile is one raw collected file as recorded by ingestion. Classification
// flags are stamped at ingestion time so aggregation filters stay cheap.
type MediaFile struct {
	ID            int
	FileName      string
	FileType      string // "JPG" or "MP3"
	RecordedOn    time.Time
	SchoolYear    string
	PeriodID      string
	CollectionDay bool
	Outlier       bool
}

// Filter narrows which media files participate in daily aggregation.
type Filter struct {
	FileTypes          []string
	CollectionDaysOnly bool
	ExcludeOutliers    bool
}

// CategoryBreakdown splits files into the four mutually exclusive
// data-cleaning categories. SchoolNormal is what the cleaned report keeps;
// the other three are the exclusion buckets.
type CategoryBreakdown struct {
	SchoolNormal     int
	SchoolOutlier    int
	NonSchoolNormal  int
	NonSchoolOutlier int
}

// Total is the sum over all four categories.
func (b CategoryBreakdown) Total() int {
	return b.SchoolNormal + b.SchoolOutlier + b.NonSchoolNormal + b.NonSchoolOutlier
}
