// =============================================================================
// SUNAT Document Parser - Payroll Processor (Planilla / T-Registro)
// =============================================================================
//
// A planilla archive yields up to three independent entities, one per report
// section (TRA, IDE, SSA). Section columns come straight from the report
// header line plus the two provenance columns appended by the extractor, so
// each section's layout is whatever that month's export carried.
//
// =============================================================================

package process

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/raknaros/sunat-parser/internal/classify"
	"github.com/raknaros/sunat-parser/internal/entity"
	"github.com/raknaros/sunat-parser/internal/extract"
)

// payrollEntities maps a report section type to its entity name.
var payrollEntities = map[string]string{
	"TRA": entity.EntityPayrollTRA,
	"IDE": entity.EntityPayrollIDE,
	"SSA": entity.EntityPayrollSSA,
}

// PayrollProcessor handles T-Registro planilla archives.
type PayrollProcessor struct {
	logger *slog.Logger
}

// NewPayrollProcessor creates the planilla processor.
func NewPayrollProcessor(logger *slog.Logger) *PayrollProcessor {
	return &PayrollProcessor{logger: logger.With("processor", "planilla")}
}

// Process extracts every report section of one planilla archive. A section
// with data rows but no header line is dropped with an error log; the other
// sections still succeed.
func (p *PayrollProcessor) Process(path string, c classify.Classification) (*entity.Dataset, error) {
	name := filepath.Base(path)
	p.logger.Info("procesamiento iniciado", "archivo", name)

	report, err := extract.ExtractReport(path)
	if err != nil {
		p.logger.Error("procesamiento fallido", "archivo", name, "error", err)
		return nil, fmt.Errorf("planilla %s: %w", name, err)
	}
	for _, section := range report.SectionErrors {
		p.logger.Error("seccion sin cabecera", "archivo", name, "reporte", section)
	}

	ds := entity.NewDataset()
	var found []string
	for _, sectionType := range extract.ReportSectionTypes {
		section, ok := report.Sections[sectionType]
		if !ok || len(section.Rows) == 0 {
			continue
		}
		table := entity.NewTable(payrollEntities[sectionType], section.Columns)
		for _, row := range section.Rows {
			table.Append(row)
		}
		ds.Add(table)
		found = append(found, sectionType)
	}

	p.logger.Info("procesamiento exitoso", "archivo", name, "reportes", strings.Join(found, ","))
	return ds, nil
}

// DBMappings returns the relational targets of the payroll entities. The
// source labels here are report header labels, not canonical names: payroll
// sections keep their export layout end to end.
func (p *PayrollProcessor) DBMappings() map[string]DBMapping {
	return map[string]DBMapping{
		entity.EntityPayrollTRA: {
			Schema: "payroll",
			Table:  "tra",
			Columns: map[string]string{
				"Tipo Doc": "tipo_documento_id", "Nro Doc": "numero_documento",
				"ApePat": "apellido_paterno", "ApeMat": "apellido_materno",
				"Nombres": "nombres", "FecNac": "fecha_nacimiento",
				"ruc": "ruc_empresa", "timestamp": "fecha_reporte",
			},
		},
		entity.EntityPayrollIDE: {
			Schema: "payroll",
			Table:  "ide",
			Columns: map[string]string{
				"Tipo Doc": "tipo_documento_id", "Nro Doc": "numero_documento",
				"Fec Ini Lab": "fecha_inicio_laboral",
				"ruc":         "ruc_empresa", "timestamp": "fecha_reporte",
			},
		},
		entity.EntityPayrollSSA: {
			Schema: "payroll",
			Table:  "ssa",
			Columns: map[string]string{
				"Tipo Doc": "tipo_documento_id", "Nro Doc": "numero_documento",
				"ruc": "ruc_empresa", "timestamp": "fecha_reporte",
			},
		},
	}
}
