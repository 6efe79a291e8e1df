package report

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

type Renderer interface {
	RenderReport(report Report) (string, error)
}

type CsvRendererImpl struct {
}

func NewCsvRenderer() *CsvRendererImpl {
	return &CsvRendererImpl{}
}

// RenderReport writes the dense daily series followed by a totals row and the
// per-period summary section.
func (t *CsvRendererImpl) RenderReport(report Report) (string, error) {
	counters := report.Series.CounterNames()

	header := make([]string, 0, len(counters)+3)
	header = append(header, "Date", "Collection Day", "Observed")
	header = append(header, counters...)

	data := make([][]string, 0, len(report.Series.Records)+len(report.Summaries)+4)
	data = append(data, header)

	for _, record := range report.Series.Records {
		row := make([]string, 0, len(counters)+3)
		row = append(row,
			record.Date.Format(time.DateOnly),
			strconv.FormatBool(record.CollectionDay),
			strconv.FormatBool(record.Observed),
		)
		for _, name := range counters {
			row = append(row, strconv.Itoa(record.Counts[name]))
		}
		data = append(data, row)
	}

	totals := report.Series.Totals()
	totalsRow := make([]string, 0, len(counters)+3)
	totalsRow = append(totalsRow, "TOTAL", "", "")
	for _, name := range counters {
		totalsRow = append(totalsRow, strconv.Itoa(totals[name]))
	}
	data = append(data, totalsRow)

	data = append(data, []string{})
	data = append(data, []string{"Period", "School Year", "Collection Days", "Days With Data"})
	for _, summary := range report.Summaries {
		data = append(data, []string{
			summary.Period.ID,
			summary.Period.SchoolYear,
			strconv.Itoa(summary.CollectionDays),
			strconv.Itoa(summary.DaysWithData),
		})
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if len(row) == 0 {
			// csv.Writer rejects empty records; write a single empty field.
			row = []string{""}
		}
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}
