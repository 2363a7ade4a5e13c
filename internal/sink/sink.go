// =============================================================================
// SUNAT Document Parser - Result Sinks
// =============================================================================
//
// A sink consumes the aggregated dataset and the run statistics of one batch.
// Exactly one sink is active per run, selected by configuration. File sinks
// stamp every artifact with the batch start time so consecutive runs never
// overwrite each other.
//
// =============================================================================

package sink

import (
	"context"

	"github.com/raknaros/sunat-parser/internal/batch"
	"github.com/raknaros/sunat-parser/internal/entity"
)

// Sink persists a batch result.
type Sink interface {
	// Write persists every non-empty table of the dataset plus the run
	// statistics. Implementations must be safe to call with an empty
	// dataset: statistics are written regardless.
	Write(ctx context.Context, ds *entity.Dataset, stats *batch.Stats) error
}

// statsHeader and statsRow flatten run statistics into one tabular record,
// matching the layout of the estadisticas report: fixed counters first, then
// one column per document type seen in the batch.
func statsColumns(stats *batch.Stats) ([]string, []string) {
	header := []string{"Lote", "Total_Archivos", "Archivos_Procesados", "Errores", "Desconocidos", "No_Soportados"}
	row := []string{
		stats.BatchID,
		itoa(stats.Total),
		itoa(stats.Processed),
		itoa(stats.Errors),
		itoa(stats.Unknown),
		itoa(stats.Unsupported),
	}
	for _, tag := range sortedTypes(stats) {
		header = append(header, "Total_"+string(tag))
		row = append(row, itoa(stats.ByType[tag]))
	}
	return header, row
}
