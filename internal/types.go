package internal

import "time"

// EntryError captures an extraction failure for a single feed entry. The
// entry still produces a record (all fields unknown) so siblings are not
// affected.
type EntryError struct {
	EntryID string
	Message string
}

// Record is the flat output of extracting one feed <entry>. Every field is
// independently optional; nil is the unknown value.
type Record struct {
	EntryID   *string
	Title     *string
	UpdatedAt *time.Time

	// Duplicates parsed out of the free-text summary line. Lower confidence
	// than the structured tree, kept as separate columns.
	LicitationID  *string
	SummaryBody   *string
	SummaryAmount *float64
	SummaryStatus *string

	FolderID *string
	Status   *string

	BodyTypeCode     *string
	BodyTypeName     *string
	BodyActivityCode *string
	BodyActivityName *string

	BodyDIR3       *string
	BodyTaxID      *string
	PlatformID     *string
	BodyName       *string
	BodyPostalCode *string
	BodyCity       *string
	BodyCountry    *string
	BodyEmail      *string
	BodyPhone      *string

	ContractObject      *string
	ContractTypeCode    *string
	ContractTypeName    *string
	ContractSubtypeCode *string

	EstimatedAmount    *float64
	TotalAmount        *float64
	TaxExclusiveAmount *float64

	CPVCode       *string
	NUTSCode      *string
	DurationValue *string
	DurationUnit  *string

	AwardDate       *time.Time
	TendersReceived *string
	CompanySME      *string
	CompanyTaxID    *string
	CompanyName     *string
	CompanyCountry  *string

	AwardedWithTax *float64
	AwardedNoTax   *float64

	Err *EntryError
}

// Contract is one normalized row per natural contract id. The company and
// body attribute columns ride along until entity resolution rewires them
// into surrogate foreign keys.
type Contract struct {
	NaturalID *string // trailing digit run of EntryID; nil when the id has none

	EntryID      *string
	Title        *string
	LicitationID *string
	UpdatedAt    *time.Time
	AwardDate    *time.Time
	Status       *string

	ContractTypeCode    *string
	ContractSubtypeCode *string
	EstimatedAmount     *float64
	TotalAmount         *float64
	TaxExclusiveAmount  *float64
	CPVCode             *string
	NUTSCode            *string
	TendersReceived     *string
	PlatformID          *string

	CompanyTaxID   *string
	CompanyName    *string
	CompanyCountry *string
	CompanySME     *string

	BodyDIR3         *string
	BodyName         *string
	BodyTypeCode     *string
	BodyActivityCode *string
	BodyPostalCode   *string
	BodyCity         *string
	BodyEmail        *string
	BodyPhone        *string
	BodyTaxID        *string

	CompanyID *int64
	BodyID    *int64
}

// Company is a master-entity row, naturally keyed by (TaxID, Name).
type Company struct {
	ID      int64
	TaxID   *string
	Name    *string
	Country *string
	SME     *string
}

// ContractingBody is a master-entity row, naturally keyed by
// (Name, TaxID, DIR3).
type ContractingBody struct {
	ID           int64
	DIR3         *string
	Name         *string
	TypeCode     *string
	ActivityCode *string
	PostalCode   *string
	City         *string
	Email        *string
	Phone        *string
	TaxID        *string
}

// DatasetRow is one denormalized export row, one contract per row, with the
// master entities and code labels joined in. Dates come back as stored text.
type DatasetRow struct {
	NaturalID           *string
	EntryID             *string
	Title               *string
	LicitationID        *string
	UpdatedAt           *string
	AwardDate           *string
	Status              *string
	ContractType        *string
	ContractSubtypeCode *string
	EstimatedAmount     *float64
	TotalAmount         *float64
	TaxExclusiveAmount  *float64
	CPVCode             *string
	NUTSCode            *string
	TendersReceived     *string
	PlatformID          *string

	CompanyName    *string
	CompanyTaxID   *string
	CompanySME     *string
	CompanyCountry *string

	BodyName       *string
	BodyDIR3       *string
	BodyPostalCode *string
	BodyCity       *string
	BodyEmail      *string
	BodyPhone      *string
	BodyTaxID      *string
	BodyType       *string
	BodyActivity   *string
}
