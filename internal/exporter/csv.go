// Package exporter re-serializes filtered survey selections for download,
// in the original semicolon/Windows-1252 CSV format and as Excel workbooks.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"cyberpulse/pkg/contracts/domain"
)

// csvHeader is the six-column schema of the source files, in order.
var csvHeader = []string{"incident_type", "domain", "share_2021", "share_2023", "moe_2021", "moe_2023"}

// csvTitle is the metadata line written as the first physical line so an
// exported file parses back through the same loader path as the sources.
const csvTitle = "Share of enterprises affected by cyber incidents; CyberPulse export"

// WriteCSV writes a table to w as semicolon-delimited, Windows-1252
// encoded CSV: a title line, the header, then one row per record. Numeric
// values carry one decimal; missing values are blank cells.
func WriteCSV(w io.Writer, t domain.Table) error {
	encoded := transform.NewWriter(w, charmap.Windows1252.NewEncoder())
	cw := csv.NewWriter(encoded)
	cw.Comma = ';'

	if err := cw.Write([]string{csvTitle}); err != nil {
		return fmt.Errorf("write title line: %w", err)
	}
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rec := range t {
		row := []string{
			rec.IncidentType,
			rec.Domain,
			formatShare(rec.Share2021),
			formatShare(rec.Share2023),
			formatShare(rec.MOE2021),
			formatShare(rec.MOE2023),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return encoded.Close()
}

// formatShare renders a nullable percentage with one decimal, blank when
// missing.
func formatShare(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}
