// =============================================================================
// SUNAT Document Parser - XLSX Sink
// =============================================================================
//
// Writes one resultados_<timestamp>.xlsx workbook per batch: a sheet per
// non-empty entity plus an Estadisticas sheet. Numeric and date cells keep
// their native types so the workbook filters and sums correctly.
//
// =============================================================================

package sink

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/raknaros/sunat-parser/internal/batch"
	"github.com/raknaros/sunat-parser/internal/entity"
	"github.com/raknaros/sunat-parser/pkg/fileutil"
)

// statsSheet is the name of the statistics sheet.
const statsSheet = "Estadisticas"

// XLSXSink writes batch results as a single workbook.
type XLSXSink struct {
	logger    *slog.Logger
	outputDir string
}

// NewXLSXSink creates an XLSX sink targeting an output directory.
func NewXLSXSink(logger *slog.Logger, outputDir string) *XLSXSink {
	return &XLSXSink{logger: logger.With("sink", "xlsx"), outputDir: outputDir}
}

// Write persists every non-empty table as a sheet plus the statistics sheet.
func (s *XLSXSink) Write(ctx context.Context, ds *entity.Dataset, stats *batch.Stats) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := 0
	for _, table := range ds.Tables() {
		if table.Empty() {
			continue
		}
		if err := s.writeSheet(f, table, sheets == 0); err != nil {
			return fmt.Errorf("write sheet %s: %w", table.Name, err)
		}
		sheets++
	}

	if err := s.writeStatsSheet(f, stats, sheets == 0); err != nil {
		return fmt.Errorf("write statistics sheet: %w", err)
	}

	path := filepath.Join(s.outputDir, fileutil.StampedName("resultados", "xlsx"))
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	s.logger.Info("libro generado", "hojas", sheets+1, "archivo", path)
	return nil
}

// writeSheet renders one entity table. The first sheet reuses the workbook's
// default sheet so the file never carries an empty leading tab.
func (s *XLSXSink) writeSheet(f *excelize.File, table *entity.Table, first bool) error {
	name := table.Name
	if first {
		if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
			return err
		}
	} else {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	for col, label := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, label); err != nil {
			return err
		}
	}

	for r, row := range table.Rows {
		for c := range table.Columns {
			if c >= len(row) || row[c] == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, sheetValue(row[c])); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *XLSXSink) writeStatsSheet(f *excelize.File, stats *batch.Stats, first bool) error {
	if first {
		if err := f.SetSheetName(f.GetSheetName(0), statsSheet); err != nil {
			return err
		}
	} else {
		if _, err := f.NewSheet(statsSheet); err != nil {
			return err
		}
	}

	header, row := statsColumns(stats)
	for col := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(statsSheet, cell, header[col]); err != nil {
			return err
		}
		cell, err = excelize.CoordinatesToCellName(col+1, 2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(statsSheet, cell, row[col]); err != nil {
			return err
		}
	}
	return nil
}

// sheetValue adapts a table cell for excelize. Dates without a time of day
// render as plain dates; everything else keeps its native type.
func sheetValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return entity.FormatCell(t)
	}
	return v
}
