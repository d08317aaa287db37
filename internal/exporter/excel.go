package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"cyberpulse/pkg/contracts/domain"
)

const excelSheet = "Incidents"

// WriteExcel writes a table to w as an Excel workbook with the original
// six columns. Missing values become empty cells, matching the CSV export.
func WriteExcel(w io.Writer, t domain.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), excelSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(csvHeader))
	for i, h := range csvHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(excelSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, rec := range t {
		row := []interface{}{
			rec.IncidentType,
			rec.Domain,
			cellValue(rec.Share2021),
			cellValue(rec.Share2023),
			cellValue(rec.MOE2021),
			cellValue(rec.MOE2023),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name for row %d: %w", i, err)
		}
		if err := f.SetSheetRow(excelSheet, cell, &row); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// cellValue maps a nullable share onto an Excel cell value, nil for an
// empty cell.
func cellValue(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
