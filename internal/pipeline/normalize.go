package pipeline

import (
	"regexp"

	"placsp/internal"
)

var trailingDigits = regexp.MustCompile(`(\d+)$`)

// DeriveKey extracts the natural contract key, the trailing run of digits of
// the entry id. Ids without trailing digits have no key.
func DeriveKey(entryID *string) *string {
	if entryID == nil {
		return nil
	}
	m := trailingDigits.FindStringSubmatch(*entryID)
	if m == nil {
		return nil
	}
	return &m[1]
}

// Normalize projects the extracted batch onto contract rows and
// deduplicates them on the natural key. Later feed entries supersede
// earlier ones, so duplicates resolve last-wins in input order. Records
// without a key stay in the batch, unkeyed and undeduplicated.
//
// The summary columns, the contract object, the folder id and the raw award
// amounts are dropped here; they are restatements of structured fields or
// inputs already consumed upstream.
func Normalize(records []internal.Record) []internal.Contract {
	contracts := make([]internal.Contract, 0, len(records))
	for _, r := range records {
		contracts = append(contracts, toContract(r))
	}

	lastIdx := make(map[string]int, len(contracts))
	for i, c := range contracts {
		if c.NaturalID != nil {
			lastIdx[*c.NaturalID] = i
		}
	}

	out := make([]internal.Contract, 0, len(contracts))
	for i, c := range contracts {
		if c.NaturalID != nil && lastIdx[*c.NaturalID] != i {
			continue
		}
		out = append(out, c)
	}
	return out
}

func toContract(r internal.Record) internal.Contract {
	return internal.Contract{
		NaturalID: DeriveKey(r.EntryID),

		EntryID:      r.EntryID,
		Title:        r.Title,
		LicitationID: r.LicitationID,
		UpdatedAt:    r.UpdatedAt,
		AwardDate:    r.AwardDate,
		Status:       r.Status,

		ContractTypeCode:    r.ContractTypeCode,
		ContractSubtypeCode: r.ContractSubtypeCode,
		EstimatedAmount:     r.EstimatedAmount,
		TotalAmount:         r.TotalAmount,
		TaxExclusiveAmount:  r.TaxExclusiveAmount,
		CPVCode:             r.CPVCode,
		NUTSCode:            r.NUTSCode,
		TendersReceived:     r.TendersReceived,
		PlatformID:          r.PlatformID,

		CompanyTaxID:   r.CompanyTaxID,
		CompanyName:    r.CompanyName,
		CompanyCountry: r.CompanyCountry,
		CompanySME:     r.CompanySME,

		BodyDIR3:         r.BodyDIR3,
		BodyName:         r.BodyName,
		BodyTypeCode:     r.BodyTypeCode,
		BodyActivityCode: r.BodyActivityCode,
		BodyPostalCode:   r.BodyPostalCode,
		BodyCity:         r.BodyCity,
		BodyEmail:        r.BodyEmail,
		BodyPhone:        r.BodyPhone,
		BodyTaxID:        r.BodyTaxID,
	}
}
