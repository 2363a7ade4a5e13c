// =============================================================================
// SUNAT Document Parser - CSV Sink
// =============================================================================
//
// Writes one resultados_<entity>_<timestamp>.csv per non-empty entity plus an
// estadisticas_<timestamp>.csv with the run counters. Output is UTF-8 with a
// header row, one file per entity, never appended.
//
// =============================================================================

package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/raknaros/sunat-parser/internal/batch"
	"github.com/raknaros/sunat-parser/internal/classify"
	"github.com/raknaros/sunat-parser/internal/entity"
	"github.com/raknaros/sunat-parser/pkg/fileutil"
)

// CSVSink writes batch results as CSV reports.
type CSVSink struct {
	logger    *slog.Logger
	outputDir string
}

// NewCSVSink creates a CSV sink targeting an output directory.
func NewCSVSink(logger *slog.Logger, outputDir string) *CSVSink {
	return &CSVSink{logger: logger.With("sink", "csv"), outputDir: outputDir}
}

// Write persists every non-empty table and the statistics report.
func (s *CSVSink) Write(ctx context.Context, ds *entity.Dataset, stats *batch.Stats) error {
	ts := fileutil.Timestamp()

	for _, table := range ds.Tables() {
		if table.Empty() {
			continue
		}
		path := filepath.Join(s.outputDir, fmt.Sprintf("resultados_%s_%s.csv", table.Name, ts))
		if err := s.writeTable(path, table); err != nil {
			return fmt.Errorf("write %s report: %w", table.Name, err)
		}
		s.logger.Info("reporte generado", "entidad", table.Name, "filas", table.Len(), "archivo", path)
	}

	statsPath := filepath.Join(s.outputDir, fmt.Sprintf("estadisticas_%s.csv", ts))
	if err := s.writeStats(statsPath, stats); err != nil {
		return fmt.Errorf("write statistics report: %w", err)
	}
	s.logger.Info("reporte de estadisticas generado", "archivo", statsPath)
	return nil
}

func (s *CSVSink) writeTable(path string, table *entity.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns); err != nil {
		return err
	}
	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i := range table.Columns {
			if i < len(row) {
				record[i] = entity.FormatCell(row[i])
			} else {
				record[i] = ""
			}
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (s *CSVSink) writeStats(path string, stats *batch.Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	header, row := statsColumns(stats)
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// sortedTypes returns the type tags seen in a batch in stable name order.
func sortedTypes(stats *batch.Stats) []classify.TypeTag {
	tags := make([]classify.TypeTag, 0, len(stats.ByType))
	for tag := range stats.ByType {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}
