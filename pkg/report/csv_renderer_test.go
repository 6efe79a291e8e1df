package report

import (
	"strings"
	"testing"
	"time"

	"github.com/mediatally/mediatally/pkg/calendar"
	"github.com/mediatally/mediatally/pkg/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() Report {
	return Report{
		RunID:       "run-1",
		GeneratedAt: date(2023, time.January, 15),
		From:        date(2022, time.December, 19),
		To:          date(2022, time.December, 21),
		FillPolicy:  series.AllDaysZeroFilled,
		Series: series.DenseDailySeries{
			Start:  date(2022, time.December, 19),
			End:    date(2022, time.December, 21),
			Policy: series.AllDaysZeroFilled,
			Records: []series.Record{
				{Date: date(2022, time.December, 19), Counts: map[string]int{"jpg": 7, "mp3": 3, "total": 10}, CollectionDay: true, Observed: true},
				{Date: date(2022, time.December, 20), Counts: map[string]int{"jpg": 0, "mp3": 0, "total": 0}, CollectionDay: true},
				{Date: date(2022, time.December, 21), Counts: map[string]int{"jpg": 2, "mp3": 3, "total": 5}, CollectionDay: true, Observed: true},
			},
		},
		Summaries: []series.PeriodSummary{{
			Period: calendar.Period{
				ID:         "SY 22-23 P1",
				SchoolYear: "SY 22-23",
				Start:      date(2022, time.September, 6),
				End:        date(2022, time.December, 22),
			},
			CollectionDays: 3,
			DaysWithData:   2,
		}},
	}
}

func TestCsvRendererImpl_RenderReport(t *testing.T) {
	renderer := NewCsvRenderer()

	csv, err := renderer.RenderReport(sampleReport())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	require.Len(t, lines, 8)

	assert.Equal(t, "Date,Collection Day,Observed,jpg,mp3,total", lines[0])
	assert.Equal(t, "2022-12-19,true,true,7,3,10", lines[1])
	assert.Equal(t, "2022-12-20,true,false,0,0,0", lines[2])
	assert.Equal(t, "2022-12-21,true,true,2,3,5", lines[3])
	assert.Equal(t, "TOTAL,,,9,6,15", lines[4])
	assert.Equal(t, "Period,School Year,Collection Days,Days With Data", lines[6])
	assert.Equal(t, "SY 22-23 P1,SY 22-23,3,2", lines[7])
}
