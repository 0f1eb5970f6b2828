// Package export は集計レポートを XLSX ワークブックとして書き出します。
package export

import (
	"fmt"
	"io"

	"github.com/ogurasousui/hiring-insights/internal/core/report"
	"github.com/xuri/excelize/v2"
)

// ContentType は XLSX の MIME タイプです。
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	quarterlySheet    = "Hires by quarter"
	aboveAverageSheet = "Above average"
)

var (
	quarterlyHeader    = []any{"department", "job", "q1", "q2", "q3", "q4"}
	aboveAverageHeader = []any{"department_id", "department", "hired"}
)

// WriteQuarterly は四半期別採用数を 1 シートのワークブックとして w へ書き出します。
func WriteQuarterly(w io.Writer, rows []report.QuarterlyHires) error {
	values := make([][]any, 0, len(rows))
	for _, r := range rows {
		values = append(values, []any{r.Department, r.Job, r.Q1, r.Q2, r.Q3, r.Q4})
	}
	return writeSheet(w, quarterlySheet, quarterlyHeader, values)
}

// WriteAboveAverage は平均超過部署を 1 シートのワークブックとして w へ書き出します。
func WriteAboveAverage(w io.Writer, rows []report.DepartmentHires) error {
	values := make([][]any, 0, len(rows))
	for _, r := range rows {
		values = append(values, []any{r.ID, r.Department, r.Hired})
	}
	return writeSheet(w, aboveAverageSheet, aboveAverageHeader, values)
}

func writeSheet(w io.Writer, sheet string, header []any, rows [][]any) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("export: close workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("export: freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("export: cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("export: set row %d: %w", row, err)
	}
	return nil
}
