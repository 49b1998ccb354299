package feed

import (
	"strings"
	"testing"
)

const nsDecl = `xmlns="http://www.w3.org/2005/Atom"
 xmlns:cbc="urn:dgpe:names:draft:codice:schema:xsd:CommonBasicComponents-2"
 xmlns:cac="urn:dgpe:names:draft:codice:schema:xsd:CommonAggregateComponents-2"
 xmlns:cac-place-ext="urn:dgpe:names:draft:codice-place-ext:schema:xsd:CommonAggregateComponents-2"
 xmlns:cbc-place-ext="urn:dgpe:names:draft:codice-place-ext:schema:xsd:CommonBasicComponents-2"`

func parseEntry(t *testing.T, body string) *Node {
	t.Helper()
	root, err := Parse(strings.NewReader(`<entry ` + nsDecl + `>` + body + `</entry>`))
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func TestExtractEntryStructuredAndSummaryIndependent(t *testing.T) {
	entry := parseEntry(t, `
<id>https://example.es/licitaciones/000345</id>
<title>Suministro de material</title>
<updated>2021-03-01T10:15:30+01:00</updated>
<summary>Id licitación: 12/2021; Órgano de Contratación: Nombre del resumen; Importe: 12.500 €; Estado: ADJ</summary>
<cac-place-ext:ContractFolderStatus>
  <cbc:ContractFolderID>EXP 12/2021</cbc:ContractFolderID>
  <cbc-place-ext:ContractFolderStatusCode>ADJ</cbc-place-ext:ContractFolderStatusCode>
  <cac-place-ext:LocatedContractingParty>
    <cbc:ContractingPartyTypeCode>3</cbc:ContractingPartyTypeCode>
    <cbc:ActivityCode>22</cbc:ActivityCode>
    <cac:Party>
      <cac:PartyIdentification><cbc:ID schemeName="DIR3">L01495573</cbc:ID></cac:PartyIdentification>
      <cac:PartyIdentification><cbc:ID schemeName="NIF">P4927500J</cbc:ID></cac:PartyIdentification>
      <cac:PartyIdentification><cbc:ID schemeName="OTRO">ignorado</cbc:ID></cac:PartyIdentification>
      <cac:PartyName><cbc:Name>Ayuntamiento de Zamora</cbc:Name></cac:PartyName>
    </cac:Party>
  </cac-place-ext:LocatedContractingParty>
</cac-place-ext:ContractFolderStatus>`)

	rec := ExtractEntry(entry)
	if rec.Err != nil {
		t.Fatalf("unexpected error: %+v", rec.Err)
	}

	// Structured and summary sources stay separate columns.
	if rec.BodyName == nil || *rec.BodyName != "Ayuntamiento de Zamora" {
		t.Fatalf("BodyName=%v", rec.BodyName)
	}
	if rec.SummaryBody == nil || *rec.SummaryBody != "Nombre del resumen" {
		t.Fatalf("SummaryBody=%v", rec.SummaryBody)
	}

	if rec.LicitationID == nil || *rec.LicitationID != "12/2021" {
		t.Fatalf("LicitationID=%v", rec.LicitationID)
	}
	if rec.SummaryAmount == nil || *rec.SummaryAmount != 12.5 {
		t.Fatalf("SummaryAmount=%v", rec.SummaryAmount)
	}
	if rec.SummaryStatus == nil || *rec.SummaryStatus != "ADJ" {
		t.Fatalf("SummaryStatus=%v", rec.SummaryStatus)
	}

	if rec.UpdatedAt == nil || rec.UpdatedAt.Year() != 2021 {
		t.Fatalf("UpdatedAt=%v", rec.UpdatedAt)
	}
	if rec.FolderID == nil || *rec.FolderID != "EXP 12/2021" {
		t.Fatalf("FolderID=%v", rec.FolderID)
	}
	if rec.Status == nil || *rec.Status != "ADJ" {
		t.Fatalf("Status=%v", rec.Status)
	}
}

func TestExtractEntryIdentifierSchemes(t *testing.T) {
	entry := parseEntry(t, `
<cac-place-ext:ContractFolderStatus>
  <cac-place-ext:LocatedContractingParty>
    <cac:Party>
      <cac:PartyIdentification><cbc:ID schemeName="DIR3">D1</cbc:ID></cac:PartyIdentification>
      <cac:PartyIdentification><cbc:ID schemeID="NIF">N1</cbc:ID></cac:PartyIdentification>
      <cac:PartyIdentification><cbc:ID schemeName="ID_PLATAFORMA">P1</cbc:ID></cac:PartyIdentification>
      <cac:PartyIdentification><cbc:ID schemeName="DESCONOCIDO">X1</cbc:ID></cac:PartyIdentification>
    </cac:Party>
  </cac-place-ext:LocatedContractingParty>
</cac-place-ext:ContractFolderStatus>`)

	rec := ExtractEntry(entry)
	if rec.BodyDIR3 == nil || *rec.BodyDIR3 != "D1" {
		t.Fatalf("DIR3=%v", rec.BodyDIR3)
	}
	// schemeID is the fallback attribute.
	if rec.BodyTaxID == nil || *rec.BodyTaxID != "N1" {
		t.Fatalf("NIF=%v", rec.BodyTaxID)
	}
	if rec.PlatformID == nil || *rec.PlatformID != "P1" {
		t.Fatalf("PlatformID=%v", rec.PlatformID)
	}
}

func TestExtractEntryUnknownCode(t *testing.T) {
	entry := parseEntry(t, `
<cac-place-ext:ContractFolderStatus>
  <cac:ProcurementProject>
    <cbc:TypeCode>99</cbc:TypeCode>
  </cac:ProcurementProject>
</cac-place-ext:ContractFolderStatus>`)

	rec := ExtractEntry(entry)
	if rec.ContractTypeCode == nil || *rec.ContractTypeCode != "99" {
		t.Fatalf("code=%v", rec.ContractTypeCode)
	}
	if rec.ContractTypeName != nil {
		t.Fatalf("label should be absent for unknown code, got %v", *rec.ContractTypeName)
	}
}

func TestExtractEntryKnownCodes(t *testing.T) {
	entry := parseEntry(t, `
<cac-place-ext:ContractFolderStatus>
  <cac:ProcurementProject>
    <cbc:TypeCode>1</cbc:TypeCode>
  </cac:ProcurementProject>
  <cac-place-ext:LocatedContractingParty>
    <cbc:ContractingPartyTypeCode>3</cbc:ContractingPartyTypeCode>
    <cbc:ActivityCode>22</cbc:ActivityCode>
  </cac-place-ext:LocatedContractingParty>
</cac-place-ext:ContractFolderStatus>`)

	rec := ExtractEntry(entry)
	if rec.ContractTypeName == nil || *rec.ContractTypeName != "Suministros" {
		t.Fatalf("ContractTypeName=%v", rec.ContractTypeName)
	}
	if rec.BodyTypeName == nil || *rec.BodyTypeName != "Autoridad local" {
		t.Fatalf("BodyTypeName=%v", rec.BodyTypeName)
	}
	if rec.BodyActivityName == nil || *rec.BodyActivityName != "Servicios de Carácter General" {
		t.Fatalf("BodyActivityName=%v", rec.BodyActivityName)
	}
}

func TestExtractEntryRecovers(t *testing.T) {
	// A nil entry forces a panic inside extraction; it must come back as a
	// record with Err set instead of crossing the boundary.
	rec := ExtractEntry(nil)
	if rec.Err == nil {
		t.Fatal("expected Err on panicking extraction")
	}
	if rec.Err.Message == "" {
		t.Fatal("expected a message on Err")
	}
	if rec.EntryID != nil || rec.Title != nil || rec.SummaryAmount != nil || rec.BodyName != nil {
		t.Fatalf("expected unknown fields: %+v", rec)
	}
}

func TestExtractEntryEmpty(t *testing.T) {
	rec := ExtractEntry(parseEntry(t, ``))
	if rec.Err != nil {
		t.Fatalf("empty entry is not an error: %+v", rec.Err)
	}
	if rec.EntryID != nil || rec.Title != nil || rec.SummaryAmount != nil || rec.BodyName != nil {
		t.Fatalf("expected unknown fields: %+v", rec)
	}
}

func TestExtractEntryTenderResult(t *testing.T) {
	entry := parseEntry(t, `
<cac-place-ext:ContractFolderStatus>
  <cac:TenderResult>
    <cbc:AwardDate>2021-02-28</cbc:AwardDate>
    <cbc:ReceivedTenderQuantity>3</cbc:ReceivedTenderQuantity>
    <cbc:SMEAwardedIndicator>true</cbc:SMEAwardedIndicator>
    <cac:WinningParty>
      <cac:PartyIdentification><cbc:ID>B49123456</cbc:ID></cac:PartyIdentification>
      <cac:PartyName><cbc:Name>Papelería Duero SL</cbc:Name></cac:PartyName>
      <cac:PhysicalLocation><cac:Address><cac:Country><cbc:IdentificationCode>ES</cbc:IdentificationCode></cac:Country></cac:Address></cac:PhysicalLocation>
    </cac:WinningParty>
    <cac:AwardedTenderedProject>
      <cac:LegalMonetaryTotal>
        <cbc:PayableAmount>14.520,33</cbc:PayableAmount>
        <cbc:TaxExclusiveAmount>12000</cbc:TaxExclusiveAmount>
      </cac:LegalMonetaryTotal>
    </cac:AwardedTenderedProject>
  </cac:TenderResult>
</cac-place-ext:ContractFolderStatus>`)

	rec := ExtractEntry(entry)
	if rec.CompanyTaxID == nil || *rec.CompanyTaxID != "B49123456" {
		t.Fatalf("CompanyTaxID=%v", rec.CompanyTaxID)
	}
	if rec.CompanyName == nil || *rec.CompanyName != "Papelería Duero SL" {
		t.Fatalf("CompanyName=%v", rec.CompanyName)
	}
	if rec.CompanyCountry == nil || *rec.CompanyCountry != "ES" {
		t.Fatalf("CompanyCountry=%v", rec.CompanyCountry)
	}
	if rec.CompanySME == nil || *rec.CompanySME != "true" {
		t.Fatalf("CompanySME=%v", rec.CompanySME)
	}
	if rec.AwardDate == nil || rec.AwardDate.Day() != 28 {
		t.Fatalf("AwardDate=%v", rec.AwardDate)
	}
	// Non-comma-aware parse, same as the summary amounts.
	if rec.AwardedWithTax == nil || *rec.AwardedWithTax != 14.52033 {
		t.Fatalf("AwardedWithTax=%v", rec.AwardedWithTax)
	}
	if rec.AwardedNoTax == nil || *rec.AwardedNoTax != 12000 {
		t.Fatalf("AwardedNoTax=%v", rec.AwardedNoTax)
	}
}
