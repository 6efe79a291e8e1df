package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	dailyCountsSheet   = "Daily Counts"
	periodSummarySheet = "Period Summary"
	acfPacfSheet       = "ACF PACF"
)

type XlsxRendererImpl struct {
}

func NewXlsxRenderer() *XlsxRendererImpl {
	return &XlsxRendererImpl{}
}

// RenderWorkbook writes the report as a multi-sheet workbook: the dense
// daily series, the per-period summary, and the ACF/PACF feature columns.
func (t *XlsxRendererImpl) RenderWorkbook(report Report, w io.Writer) error {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName("Sheet1", dailyCountsSheet); err != nil {
		return fmt.Errorf("failed to create daily counts sheet: %w", err)
	}
	if err := t.writeDailyCounts(wb, report); err != nil {
		return err
	}

	if _, err := wb.NewSheet(periodSummarySheet); err != nil {
		return fmt.Errorf("failed to create period summary sheet: %w", err)
	}
	if err := t.writePeriodSummary(wb, report); err != nil {
		return err
	}

	if len(report.ACF) > 0 {
		if _, err := wb.NewSheet(acfPacfSheet); err != nil {
			return fmt.Errorf("failed to create ACF/PACF sheet: %w", err)
		}
		if err := t.writeACFPACF(wb, report); err != nil {
			return err
		}
	}

	if err := wb.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (t *XlsxRendererImpl) writeDailyCounts(wb *excelize.File, report Report) error {
	counters := report.Series.CounterNames()

	header := append([]interface{}{"Date", "Collection Day", "Observed"}, toAnySlice(counters)...)
	if err := writeRow(wb, dailyCountsSheet, 1, header); err != nil {
		return err
	}

	rowNum := 2
	for _, record := range report.Series.Records {
		row := []interface{}{
			record.Date.Format(time.DateOnly),
			record.CollectionDay,
			record.Observed,
		}
		for _, name := range counters {
			row = append(row, record.Counts[name])
		}
		if err := writeRow(wb, dailyCountsSheet, rowNum, row); err != nil {
			return err
		}
		rowNum++
	}

	totals := report.Series.Totals()
	totalsRow := []interface{}{"TOTAL", nil, nil}
	for _, name := range counters {
		totalsRow = append(totalsRow, totals[name])
	}
	return writeRow(wb, dailyCountsSheet, rowNum, totalsRow)
}

func (t *XlsxRendererImpl) writePeriodSummary(wb *excelize.File, report Report) error {
	header := []interface{}{"Period", "School Year", "Start", "End", "Collection Days", "Days With Data"}
	if err := writeRow(wb, periodSummarySheet, 1, header); err != nil {
		return err
	}

	for i, summary := range report.Summaries {
		row := []interface{}{
			summary.Period.ID,
			summary.Period.SchoolYear,
			summary.Period.Start.Format(time.DateOnly),
			summary.Period.End.Format(time.DateOnly),
			summary.CollectionDays,
			summary.DaysWithData,
		}
		if err := writeRow(wb, periodSummarySheet, i+2, row); err != nil {
			return err
		}
	}

	// Diagnostic notes go below the summaries rather than failing the export.
	rowNum := len(report.Summaries) + 3
	for _, d := range report.Diagnostics {
		row := []interface{}{string(d.Kind), d.PeriodID, d.Message}
		if err := writeRow(wb, periodSummarySheet, rowNum, row); err != nil {
			return err
		}
		rowNum++
	}
	return nil
}

func (t *XlsxRendererImpl) writeACFPACF(wb *excelize.File, report Report) error {
	if err := writeRow(wb, acfPacfSheet, 1, []interface{}{"Lag", "ACF", "PACF"}); err != nil {
		return err
	}
	for lag := 0; lag < len(report.ACF); lag++ {
		row := []interface{}{lag, report.ACF[lag], report.PACF[lag]}
		if err := writeRow(wb, acfPacfSheet, lag+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(wb *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to resolve cell for row %d: %w", rowNum, err)
	}
	if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d on %s: %w", rowNum, sheet, err)
	}
	return nil
}

func toAnySlice(values []string) []interface{} {
	out := make([]interface{}, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}
