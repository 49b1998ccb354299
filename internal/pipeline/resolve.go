package pipeline

import (
	"placsp/internal"
	"placsp/internal/storage"
)

// Entity resolution runs in a fixed order: companies first, then
// contracting bodies, then the caller inserts the contract facts that
// reference both. The insert step is append-only on purpose: it performs no
// existing-row check, so running it twice against a populated store
// duplicates master rows. The orchestrator is expected to run it once per
// store, single-writer.

func keyPart(v *string) string {
	if v == nil {
		return "null"
	}
	return *v
}

func companyKey(taxID, name *string) string {
	return keyPart(taxID) + "|" + keyPart(name)
}

func bodyKey(name, taxID, dir3 *string) string {
	return keyPart(name) + "|" + keyPart(taxID) + "|" + keyPart(dir3)
}

// DedupeCompanies projects the batch onto candidate company rows, one per
// natural key, keeping the attributes of the key's last occurrence.
func DedupeCompanies(batch []internal.Contract) []internal.Company {
	idx := map[string]int{}
	out := make([]internal.Company, 0)
	for _, c := range batch {
		company := internal.Company{
			TaxID:   c.CompanyTaxID,
			Name:    c.CompanyName,
			Country: c.CompanyCountry,
			SME:     c.CompanySME,
		}
		key := companyKey(c.CompanyTaxID, c.CompanyName)
		if i, ok := idx[key]; ok {
			out[i] = company
		} else {
			idx[key] = len(out)
			out = append(out, company)
		}
	}
	return out
}

// DedupeBodies is DedupeCompanies for contracting bodies, keyed on
// (name, tax id, DIR3).
func DedupeBodies(batch []internal.Contract) []internal.ContractingBody {
	idx := map[string]int{}
	out := make([]internal.ContractingBody, 0)
	for _, c := range batch {
		body := internal.ContractingBody{
			DIR3:         c.BodyDIR3,
			Name:         c.BodyName,
			TypeCode:     c.BodyTypeCode,
			ActivityCode: c.BodyActivityCode,
			PostalCode:   c.BodyPostalCode,
			City:         c.BodyCity,
			Email:        c.BodyEmail,
			Phone:        c.BodyPhone,
			TaxID:        c.BodyTaxID,
		}
		key := bodyKey(c.BodyName, c.BodyTaxID, c.BodyDIR3)
		if i, ok := idx[key]; ok {
			out[i] = body
		} else {
			idx[key] = len(out)
			out = append(out, body)
		}
	}
	return out
}

// ResolveCompanies appends the batch's deduplicated companies to the store,
// re-reads the full master table and attaches the store-assigned surrogate
// id to every contract sharing the natural key. A key tuple with an unknown
// part never joins; such contracts keep a null company reference and still
// flow forward.
func ResolveCompanies(db *storage.DB, batch []internal.Contract) ([]internal.Contract, error) {
	if err := db.InsertCompanies(DedupeCompanies(batch)); err != nil {
		return nil, err
	}

	rows, err := db.ListCompanies()
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]int64, len(rows))
	for _, row := range rows {
		if row.TaxID == nil || row.Name == nil {
			continue
		}
		byKey[companyKey(row.TaxID, row.Name)] = row.ID
	}

	out := make([]internal.Contract, len(batch))
	copy(out, batch)
	for i := range out {
		if out[i].CompanyTaxID == nil || out[i].CompanyName == nil {
			continue
		}
		if id, ok := byKey[companyKey(out[i].CompanyTaxID, out[i].CompanyName)]; ok {
			assigned := id
			out[i].CompanyID = &assigned
		}
	}
	return out, nil
}

// ResolveBodies is ResolveCompanies for contracting bodies.
func ResolveBodies(db *storage.DB, batch []internal.Contract) ([]internal.Contract, error) {
	if err := db.InsertBodies(DedupeBodies(batch)); err != nil {
		return nil, err
	}

	rows, err := db.ListBodies()
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]int64, len(rows))
	for _, row := range rows {
		if row.Name == nil || row.TaxID == nil || row.DIR3 == nil {
			continue
		}
		byKey[bodyKey(row.Name, row.TaxID, row.DIR3)] = row.ID
	}

	out := make([]internal.Contract, len(batch))
	copy(out, batch)
	for i := range out {
		if out[i].BodyName == nil || out[i].BodyTaxID == nil || out[i].BodyDIR3 == nil {
			continue
		}
		if id, ok := byKey[bodyKey(out[i].BodyName, out[i].BodyTaxID, out[i].BodyDIR3)]; ok {
			assigned := id
			out[i].BodyID = &assigned
		}
	}
	return out, nil
}
