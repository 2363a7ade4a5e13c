package process

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/raknaros/sunat-parser/internal/classify"
	"github.com/raknaros/sunat-parser/internal/entity"
)

func TestValidateCleanTables(t *testing.T) {
	assert.Empty(t, Validate())
}

func TestCheckRenameDetectsDrift(t *testing.T) {
	renames := []FieldMap{
		{Source: "Ruc", Canonical: "ruc"},
		{Source: "Ruc", Canonical: "periodo_tributario"},
		{Source: "Extra", Canonical: "no_existe"},
	}
	problems := checkRename("prueba", renames, []string{"ruc", "periodo_tributario"})
	assert.Len(t, problems, 2)
}

func TestCheckMappingDetectsDrift(t *testing.T) {
	mapping := DBMapping{
		Schema:    "public",
		Table:     "cabeceras",
		KeyColumn: "cui",
		Columns:   map[string]string{"no_existe": "columna"},
	}
	problems := checkMapping("prueba", mapping, []string{"cui"})
	// The unknown column and the unmapped key column.
	assert.Len(t, problems, 2)

	empty := DBMapping{Columns: map[string]string{}}
	assert.Len(t, checkMapping("prueba", empty, nil), 1)
}

func TestRegistryCoversAllSupportedTypes(t *testing.T) {
	r := NewRegistry(testLogger())

	tags := []classify.TypeTag{
		classify.Factura, classify.BoletaVenta, classify.NotaCredito,
		classify.NotaDebito, classify.GuiaRemision,
		classify.SireVentas, classify.SireCompras, classify.Planilla,
	}
	for _, tag := range tags {
		_, ok := r.Lookup(tag)
		assert.True(t, ok, string(tag))
	}
	assert.Len(t, r.Supported(), len(tags))

	_, ok := r.Lookup(classify.Unknown)
	assert.False(t, ok)
}

func TestRegistryMergedDBMappings(t *testing.T) {
	merged := NewRegistry(testLogger()).DBMappings()

	assert.Contains(t, merged, entity.EntityHeaders)
	assert.Contains(t, merged, entity.EntitySales)
	assert.Contains(t, merged, entity.EntityPurchases)
	assert.Contains(t, merged, entity.EntityPayrollTRA)
	assert.Equal(t, "acc", merged[entity.EntitySales].Schema)
}
