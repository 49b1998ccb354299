package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"placsp/internal"
)

// Column order of the analytical dataset, one denormalized row per
// contract. Matches the store's dataset query.
var datasetHeaders = []string{
	"id_entry_num", "id_entry", "titulo", "id_licitacion",
	"fecha_actualizacion", "fecha_adjudicacion", "estado",
	"tipo_contrato", "codigo_subtipo_contrato",
	"importe_estimado", "importe_total", "importe_sin_impuestos",
	"codigo_cpv_principal", "codigo_region_nuts", "ofertas_recibidas", "id_plataforma",
	"empresa_nombre", "nif_empresa", "empresa_es_pyme", "empresa_pais",
	"organo_nombre", "organo_dir3", "organo_postalcode", "organo_localidad",
	"organo_email", "organo_telefono", "organo_nif",
	"tipo_organo", "actividad_organo",
}

func ExportDatasetCSV(rows []internal.DatasetRow, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(datasetHeaders); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, 0, len(datasetHeaders))
		for _, v := range datasetValues(row) {
			switch value := v.(type) {
			case string:
				record = append(record, value)
			case float64:
				record = append(record, strconv.FormatFloat(value, 'f', -1, 64))
			default:
				record = append(record, "")
			}
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func ExportDatasetXLSX(rows []internal.DatasetRow, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range datasetHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		for col, v := range datasetValues(row) {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func datasetValues(row internal.DatasetRow) []any {
	return []any{
		derefString(row.NaturalID),
		derefString(row.EntryID),
		derefString(row.Title),
		derefString(row.LicitationID),
		derefString(row.UpdatedAt),
		derefString(row.AwardDate),
		derefString(row.Status),
		derefString(row.ContractType),
		derefString(row.ContractSubtypeCode),
		derefFloat(row.EstimatedAmount),
		derefFloat(row.TotalAmount),
		derefFloat(row.TaxExclusiveAmount),
		derefString(row.CPVCode),
		derefString(row.NUTSCode),
		derefString(row.TendersReceived),
		derefString(row.PlatformID),
		derefString(row.CompanyName),
		derefString(row.CompanyTaxID),
		derefString(row.CompanySME),
		derefString(row.CompanyCountry),
		derefString(row.BodyName),
		derefString(row.BodyDIR3),
		derefString(row.BodyPostalCode),
		derefString(row.BodyCity),
		derefString(row.BodyEmail),
		derefString(row.BodyPhone),
		derefString(row.BodyTaxID),
		derefString(row.BodyType),
		derefString(row.BodyActivity),
	}
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
