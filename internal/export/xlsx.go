// Package export writes dashboard data sets to spreadsheets.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"go-inventory-dashboard/internal/dashboard"
)

// ErrNoData is returned when none of the slots has a defined data set.
var ErrNoData = errors.New("no chart data to export")

var chartTypes = map[dashboard.Kind]excelize.ChartType{
	dashboard.KindPie:      excelize.Pie,
	dashboard.KindBar:      excelize.Col,
	dashboard.KindLine:     excelize.Line,
	dashboard.KindDoughnut: excelize.Doughnut,
}

// WriteWorkbook writes one sheet per slot with a defined data set: the
// label/value rows followed by a native chart of the slot's kind.
// It returns the slot mount ids that were exported.
func WriteWorkbook(w io.Writer, data dashboard.DataSets, slots []dashboard.Slot) ([]string, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	exported := []string{}
	for _, slot := range slots {
		ds, ok := data.Lookup(slot.DataVar)
		if !ok {
			continue
		}
		sheet := slot.MountID
		if len(exported) == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
		if err := writeSheet(f, sheet, slot, ds); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
		exported = append(exported, slot.MountID)
	}
	if len(exported) == 0 {
		return nil, ErrNoData
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return nil, err
	}
	return exported, nil
}

func writeSheet(f *excelize.File, sheet string, slot dashboard.Slot, ds dashboard.ChartDataSet) error {
	if err := f.SetSheetRow(sheet, "A1", &[]any{"Label", slot.Title}); err != nil {
		return err
	}
	n := len(ds.Labels)
	if len(ds.Data) < n {
		n = len(ds.Data)
	}
	for i := 0; i < n; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]any{ds.Labels[i], ds.Data[i]}); err != nil {
			return err
		}
	}
	if n == 0 {
		return nil
	}

	legend := excelize.ChartLegend{Position: "right"}
	if slot.Kind == dashboard.KindBar {
		legend.Position = "none"
	}
	last := n + 1
	return f.AddChart(sheet, "D2", &excelize.Chart{
		Type: chartTypes[slot.Kind],
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$B$1", sheet),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, last),
			Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", sheet, last),
		}},
		Title:  []excelize.RichTextRun{{Text: slot.Title}},
		Legend: legend,
	})
}
