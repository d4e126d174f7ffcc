// Package report renders the movement snapshot stream of a run as an xlsx workbook with a
// stacked column chart of pallets per area over time.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/inference-sim/warehouse-sim/sim"
)

// SheetName is the worksheet holding the movement table and chart.
const SheetName = "Movements"

// ChartTitle is the title of the stacked column chart.
const ChartTitle = "Pallet Movements Over Time"

var headings = []string{"Seq", "Day", "Event", "Storage", "LoadingDock", "Floor", "Buffer"}

// NewWorkbook builds the workbook in memory. The caller owns the returned file.
func NewWorkbook(snapshots []sim.MovementSnapshot) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		_ = f.Close()
		return nil, err
	}

	for i, h := range headings {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	for i, s := range snapshots {
		row := []any{s.Seq, s.Day, s.Event, s.Counts.Storage, s.Counts.LoadingDock, s.Counts.Floor, s.Counts.Buffer}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	if len(snapshots) == 0 {
		return f, nil
	}

	last := len(snapshots) + 1
	var series []excelize.ChartSeries
	for _, col := range []string{"D", "E", "F", "G"} {
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", SheetName, col),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", SheetName, last),
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", SheetName, col, col, last),
		})
	}
	if err := f.AddChart(SheetName, "I2", &excelize.Chart{
		Type:   excelize.ColStacked,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: ChartTitle}},
		Legend: excelize.ChartLegend{Position: "right"},
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("add chart: %w", err)
	}
	return f, nil
}

// WriteWorkbook renders snapshots and saves the workbook to path.
func WriteWorkbook(path string, snapshots []sim.MovementSnapshot) error {
	f, err := NewWorkbook(snapshots)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
