// Command exportcsv renders a filtered incident selection to a CSV or
// XLSX file without starting the web server. It reads the same four
// survey files the server uses.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cyberpulse/internal/config"
	"cyberpulse/internal/dataset"
	"cyberpulse/internal/exporter"
	"cyberpulse/pkg/contracts/domain"
)

func main() {
	dimension := flag.String("dimension", "industry", "dimension to export: industry | size | region")
	domainValue := flag.String("domain", "", "domain value within the dimension (defaults per dimension)")
	compare := flag.Bool("compare-sweden", false, "append the Sweden rows to the selection")
	format := flag.String("format", "csv", "output format: csv | xlsx")
	dir := flag.String("dir", "", "directory with the survey csv files (defaults to data/ next to the executable)")
	out := flag.String("out", "", "output file path (defaults to <dimension>_<domain>.<format>)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := config.Default()
	if *dir != "" {
		cfg.Paths.DataDir = *dir
	}
	paths, err := cfg.ResolvePaths()
	if err != nil {
		logger.Error("Failed to resolve paths", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := dataset.NewLoader(logger).LoadAll(ctx, paths.DatasetFiles())
	if err != nil {
		logger.Error("Failed to load datasets", "error", err)
		os.Exit(1)
	}

	dim := domain.Dimension(*dimension)
	table, err := store.DimensionTable(dim)
	if err != nil {
		logger.Error("Unknown dimension", "dimension", *dimension)
		os.Exit(1)
	}

	values := table.DomainValues()
	value := *domainValue
	if value == "" {
		value = dataset.DefaultDomain(dim, values)
	}
	if len(table.FilterDomain(value)) == 0 {
		logger.Error("Domain value not found", "dimension", *dimension, "domain", value)
		os.Exit(1)
	}

	selection := dataset.Select(table, value, *compare)

	path := *out
	if path == "" {
		path = fmt.Sprintf("%s_%s.%s", *dimension, strings.ReplaceAll(value, " ", "_"), *format)
	}
	if err := writeFile(path, *format, selection); err != nil {
		logger.Error("Export failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Export complete",
		"file", filepath.Clean(path),
		"rows", len(selection))
}

func writeFile(path, format string, t domain.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch format {
	case "csv":
		return exporter.WriteCSV(f, t)
	case "xlsx":
		return exporter.WriteExcel(f, t)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
