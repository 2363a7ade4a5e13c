// =============================================================================
// SUNAT Document Parser - Batch Runner
// =============================================================================
//
// One run walks the input directory, classifies every regular file, routes it
// to its processor and folds the per-file datasets into one accumulated
// result. Files are strictly isolated: a file that fails, panics or matches
// no rule is counted and logged, and the walk continues. Discovery order is
// the walk order of the filesystem, and rows aggregate in that order.
//
// =============================================================================

package batch

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/raknaros/sunat-parser/internal/classify"
	"github.com/raknaros/sunat-parser/internal/entity"
	"github.com/raknaros/sunat-parser/internal/process"
	"github.com/raknaros/sunat-parser/pkg/fileutil"
)

// Stats summarizes one batch run.
type Stats struct {
	BatchID     string
	Total       int
	Processed   int
	Errors      int
	Unknown     int
	Unsupported int

	// ByType counts every classified file per type tag, including files
	// that later failed processing.
	ByType map[classify.TypeTag]int
}

// Runner executes batch runs against a processor registry.
type Runner struct {
	logger   *slog.Logger
	registry *process.Registry
}

// NewRunner creates a batch runner.
func NewRunner(logger *slog.Logger, registry *process.Registry) *Runner {
	return &Runner{logger: logger, registry: registry}
}

// Run processes every regular file under root and returns the accumulated
// dataset plus the run statistics. Only an unreadable root fails the run;
// per-file failures are absorbed into the statistics.
func (r *Runner) Run(root string) (*entity.Dataset, *Stats, error) {
	stats := &Stats{
		BatchID: uuid.NewString(),
		ByType:  make(map[classify.TypeTag]int),
	}
	dataset := entity.NewDataset()

	logger := r.logger.With("batch_id", stats.BatchID)
	logger.Info("lote iniciado", "directorio", root)

	err := fileutil.WalkFiles(root, func(path string, d fs.DirEntry) error {
		stats.Total++
		r.runFile(logger, path, dataset, stats)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walk input directory: %w", err)
	}

	logger.Info("lote completado",
		"total", stats.Total,
		"procesados", stats.Processed,
		"errores", stats.Errors,
		"desconocidos", stats.Unknown,
		"no_soportados", stats.Unsupported,
	)
	return dataset, stats, nil
}

// runFile classifies and processes a single file, updating the dataset and
// the statistics. A panicking processor is converted into a counted error so
// one poisoned file cannot take down the batch.
func (r *Runner) runFile(logger *slog.Logger, path string, dataset *entity.Dataset, stats *Stats) {
	name := filepath.Base(path)

	c := classify.Classify(name)
	stats.ByType[c.Type]++

	if c.Type == classify.Unknown {
		logger.Warn("archivo no reconocido", "archivo", name)
		stats.Unknown++
		return
	}

	proc, ok := r.registry.Lookup(c.Type)
	if !ok {
		logger.Warn("tipo sin procesador", "archivo", name, "tipo", c.Type)
		stats.Unsupported++
		return
	}

	ds, err := safeProcess(proc, path, c)
	if err != nil {
		logger.Error("archivo fallido", "archivo", name, "tipo", c.Type, "error", err)
		stats.Errors++
		return
	}

	dataset.Merge(ds)
	stats.Processed++
}

func safeProcess(proc process.Processor, path string, c classify.Classification) (ds *entity.Dataset, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ds = nil
			err = fmt.Errorf("processor panic: %v", rec)
		}
	}()
	return proc.Process(path, c)
}
