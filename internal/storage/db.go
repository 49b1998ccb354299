package storage

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"placsp/internal"
	"placsp/internal/codes"
)

type DB struct {
	conn *sql.DB
}

// Open connects to the store. Schema creation is a separate, explicit step
// (InitSchema); opening has no side effects beyond the WAL pragma.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &DB{conn: conn}, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

// InitSchema creates the relational schema: the contract fact table, the
// two master tables, the three code tables and the run log.
func (d *DB) InitSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS tipo_contrato (
  codigo_tipo_contrato TEXT PRIMARY KEY,
  nombre_contrato TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tipo_organo (
  codigo_tipo_organo TEXT PRIMARY KEY,
  nombre_tipo_organo TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tipo_actividad_organo (
  codigo_actividad_organo TEXT PRIMARY KEY,
  nombre_actividad_organo TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS empresa (
  empresa_id INTEGER PRIMARY KEY AUTOINCREMENT,
  nif_empresa TEXT,
  empresa_nombre TEXT,
  empresa_pais TEXT,
  empresa_es_pyme TEXT
);
CREATE INDEX IF NOT EXISTS idx_empresa_nif ON empresa(nif_empresa);

CREATE TABLE IF NOT EXISTS organo (
  organo_id INTEGER PRIMARY KEY AUTOINCREMENT,
  organo_dir3 TEXT,
  organo_nombre TEXT,
  tipo_organo_codigo TEXT,
  actividad_organo_codigo TEXT,
  organo_postalcode TEXT,
  organo_localidad TEXT,
  organo_email TEXT,
  organo_telefono TEXT,
  organo_nif TEXT
);
CREATE INDEX IF NOT EXISTS idx_organo_nif ON organo(organo_nif);

CREATE TABLE IF NOT EXISTS contrato (
  contrato_id INTEGER PRIMARY KEY AUTOINCREMENT,
  id_entry_num TEXT,
  id_entry TEXT,
  titulo TEXT,
  id_licitacion TEXT,
  fecha_actualizacion TEXT,
  fecha_adjudicacion TEXT,
  estado TEXT,
  codigo_tipo_contrato TEXT,
  codigo_subtipo_contrato TEXT,
  importe_estimado REAL,
  importe_total REAL,
  importe_sin_impuestos REAL,
  codigo_cpv_principal TEXT,
  codigo_region_nuts TEXT,
  ofertas_recibidas TEXT,
  id_plataforma TEXT,
  contr_organo_id INTEGER,
  contr_empresa_id INTEGER,
  FOREIGN KEY(contr_organo_id) REFERENCES organo(organo_id),
  FOREIGN KEY(contr_empresa_id) REFERENCES empresa(empresa_id)
);
CREATE INDEX IF NOT EXISTS idx_contrato_id_entry_num ON contrato(id_entry_num);

CREATE TABLE IF NOT EXISTS ingest_runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// SeedCodeTables loads the fixed code tables. Safe to repeat: codes are
// keyed and upserted, independent of per-run inserts.
func (d *DB) SeedCodeTables() error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	seed := func(table, codeCol, nameCol string, m map[string]string) error {
		stmt, err := tx.Prepare(`
INSERT INTO ` + table + ` (` + codeCol + `, ` + nameCol + `) VALUES (?, ?)
ON CONFLICT(` + codeCol + `) DO UPDATE SET ` + nameCol + ` = excluded.` + nameCol)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for code, name := range m {
			if _, err := stmt.Exec(code, name); err != nil {
				return err
			}
		}
		return nil
	}

	if err := seed("tipo_contrato", "codigo_tipo_contrato", "nombre_contrato", codes.ContractType); err != nil {
		return err
	}
	if err := seed("tipo_organo", "codigo_tipo_organo", "nombre_tipo_organo", codes.BodyType); err != nil {
		return err
	}
	if err := seed("tipo_actividad_organo", "codigo_actividad_organo", "nombre_actividad_organo", codes.BodyActivity); err != nil {
		return err
	}

	return tx.Commit()
}

// InsertCompanies appends company rows. Deliberately no existing-row check:
// entity resolution depends on this being a plain append, and re-running it
// against a populated store duplicates natural keys.
func (d *DB) InsertCompanies(companies []internal.Company) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO empresa (nif_empresa, empresa_nombre, empresa_pais, empresa_es_pyme)
VALUES (?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range companies {
		if _, err := stmt.Exec(c.TaxID, c.Name, c.Country, c.SME); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListCompanies() ([]internal.Company, error) {
	rows, err := d.conn.Query(`
SELECT empresa_id, nif_empresa, empresa_nombre, empresa_pais, empresa_es_pyme
FROM empresa ORDER BY empresa_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Company
	for rows.Next() {
		var c internal.Company
		if err := rows.Scan(&c.ID, &c.TaxID, &c.Name, &c.Country, &c.SME); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// InsertBodies appends contracting-body rows, same append-only contract as
// InsertCompanies.
func (d *DB) InsertBodies(bodies []internal.ContractingBody) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO organo (
  organo_dir3, organo_nombre, tipo_organo_codigo, actividad_organo_codigo,
  organo_postalcode, organo_localidad, organo_email, organo_telefono, organo_nif
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range bodies {
		if _, err := stmt.Exec(
			b.DIR3, b.Name, b.TypeCode, b.ActivityCode,
			b.PostalCode, b.City, b.Email, b.Phone, b.TaxID,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListBodies() ([]internal.ContractingBody, error) {
	rows, err := d.conn.Query(`
SELECT organo_id, organo_dir3, organo_nombre, tipo_organo_codigo, actividad_organo_codigo,
       organo_postalcode, organo_localidad, organo_email, organo_telefono, organo_nif
FROM organo ORDER BY organo_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ContractingBody
	for rows.Next() {
		var b internal.ContractingBody
		if err := rows.Scan(
			&b.ID, &b.DIR3, &b.Name, &b.TypeCode, &b.ActivityCode,
			&b.PostalCode, &b.City, &b.Email, &b.Phone, &b.TaxID,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// InsertContracts appends the contract fact rows with their resolved
// foreign keys.
func (d *DB) InsertContracts(contracts []internal.Contract) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO contrato (
  id_entry_num, id_entry, titulo, id_licitacion,
  fecha_actualizacion, fecha_adjudicacion, estado,
  codigo_tipo_contrato, codigo_subtipo_contrato,
  importe_estimado, importe_total, importe_sin_impuestos,
  codigo_cpv_principal, codigo_region_nuts, ofertas_recibidas, id_plataforma,
  contr_organo_id, contr_empresa_id
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range contracts {
		if _, err := stmt.Exec(
			c.NaturalID, c.EntryID, c.Title, c.LicitationID,
			fmtTime(c.UpdatedAt), fmtTime(c.AwardDate), c.Status,
			c.ContractTypeCode, c.ContractSubtypeCode,
			c.EstimatedAmount, c.TotalAmount, c.TaxExclusiveAmount,
			c.CPVCode, c.NUTSCode, c.TendersReceived, c.PlatformID,
			c.BodyID, c.CompanyID,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) InsertRun(traceID string, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(
		`INSERT INTO ingest_runs (traceId, timingsJson, countsJson) VALUES (?, ?, ?)`,
		traceID, string(timingsJSON), string(countsJSON))
	return err
}

// DatasetRows reads back the analytical dataset: one denormalized row per
// contract with masters and code labels joined in.
func (d *DB) DatasetRows() ([]internal.DatasetRow, error) {
	rows, err := d.conn.Query(`
SELECT
  c.id_entry_num,
  c.id_entry,
  c.titulo,
  c.id_licitacion,
  c.fecha_actualizacion,
  c.fecha_adjudicacion,
  c.estado,
  tc.nombre_contrato,
  c.codigo_subtipo_contrato,
  c.importe_estimado,
  c.importe_total,
  c.importe_sin_impuestos,
  c.codigo_cpv_principal,
  c.codigo_region_nuts,
  c.ofertas_recibidas,
  c.id_plataforma,
  e.empresa_nombre,
  e.nif_empresa,
  e.empresa_es_pyme,
  e.empresa_pais,
  o.organo_nombre,
  o.organo_dir3,
  o.organo_postalcode,
  o.organo_localidad,
  o.organo_email,
  o.organo_telefono,
  o.organo_nif,
  tog.nombre_tipo_organo,
  tao.nombre_actividad_organo
FROM contrato c
LEFT JOIN empresa e ON c.contr_empresa_id = e.empresa_id
LEFT JOIN organo o ON c.contr_organo_id = o.organo_id
LEFT JOIN tipo_contrato tc ON c.codigo_tipo_contrato = tc.codigo_tipo_contrato
LEFT JOIN tipo_organo tog ON o.tipo_organo_codigo = tog.codigo_tipo_organo
LEFT JOIN tipo_actividad_organo tao ON o.actividad_organo_codigo = tao.codigo_actividad_organo
ORDER BY c.contrato_id
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.DatasetRow
	for rows.Next() {
		var row internal.DatasetRow
		if err := rows.Scan(
			&row.NaturalID,
			&row.EntryID,
			&row.Title,
			&row.LicitationID,
			&row.UpdatedAt,
			&row.AwardDate,
			&row.Status,
			&row.ContractType,
			&row.ContractSubtypeCode,
			&row.EstimatedAmount,
			&row.TotalAmount,
			&row.TaxExclusiveAmount,
			&row.CPVCode,
			&row.NUTSCode,
			&row.TendersReceived,
			&row.PlatformID,
			&row.CompanyName,
			&row.CompanyTaxID,
			&row.CompanySME,
			&row.CompanyCountry,
			&row.BodyName,
			&row.BodyDIR3,
			&row.BodyPostalCode,
			&row.BodyCity,
			&row.BodyEmail,
			&row.BodyPhone,
			&row.BodyTaxID,
			&row.BodyType,
			&row.BodyActivity,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

type TableCount struct {
	Table string
	Rows  int64
}

// TableCounts reports row counts per table, in schema order.
func (d *DB) TableCounts() ([]TableCount, error) {
	tables := []string{
		"contrato", "empresa", "organo",
		"tipo_contrato", "tipo_organo", "tipo_actividad_organo",
		"ingest_runs",
	}
	out := make([]TableCount, 0, len(tables))
	for _, table := range tables {
		var n int64
		if err := d.conn.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, TableCount{Table: table, Rows: n})
	}
	return out, nil
}

func fmtTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
