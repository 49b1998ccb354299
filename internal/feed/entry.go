package feed

import (
	"fmt"
	"regexp"
	"strings"

	"placsp/internal"
	"placsp/internal/codes"
	"placsp/internal/util"
)

// The summary line packs a handful of fields into labeled, semicolon
// delimited segments. These are kept as separate low-confidence columns and
// never merged with the structured tree.
var (
	reLicitationID  = regexp.MustCompile(`(?i)Id\s*licitaci[oó]n:\s*([^;]+)`)
	reSummaryBody   = regexp.MustCompile(`(?i)[ÓO]rgano\s*de\s*Contrataci[oó]n:\s*([^;]+)`)
	reSummaryAmount = regexp.MustCompile(`(?i)Importe:\s*([-\d.,\s€]+)`)
	reSummaryStatus = regexp.MustCompile(`(?i)Estado:\s*([^;]+)`)
)

// Identifier schemes recognized inside cac:PartyIdentification. Anything
// else is dropped.
const (
	schemeDIR3     = "DIR3"
	schemeNIF      = "NIF"
	schemePlatform = "ID_PLATAFORMA"
)

// ExtractEntry maps one <entry> onto a flat Record. It never fails: a bad
// entry comes back with all fields unknown and Err set, so one broken
// fragment cannot drop or corrupt its siblings.
func ExtractEntry(entry *Node) (rec internal.Record) {
	defer func() {
		if r := recover(); r != nil {
			id := ""
			if rec.EntryID != nil {
				id = *rec.EntryID
			}
			rec = internal.Record{
				EntryID: rec.EntryID,
				Err:     &internal.EntryError{EntryID: id, Message: fmt.Sprint(r)},
			}
		}
	}()

	rec.EntryID = entry.Text("atom:id")
	rec.Title = entry.Text("atom:title")
	rec.UpdatedAt = util.ParseDate(entry.Text("atom:updated"))

	summary := ""
	if s := entry.Text("atom:summary"); s != nil {
		summary = *s
	}
	rec.LicitationID = matchSegment(reLicitationID, summary)
	rec.SummaryBody = matchSegment(reSummaryBody, summary)
	if m := reSummaryAmount.FindStringSubmatch(summary); m != nil {
		rec.SummaryAmount = util.SafeNumber(m[1])
	}
	rec.SummaryStatus = matchSegment(reSummaryStatus, summary)

	cfs := entry.Find("cac-place-ext:ContractFolderStatus")
	if cfs == nil {
		return rec
	}

	rec.FolderID = cfs.Text("cbc:ContractFolderID")
	rec.Status = cfs.Text("cbc-place-ext:ContractFolderStatusCode")

	if lcp := cfs.Find("cac-place-ext:LocatedContractingParty"); lcp != nil {
		extractContractingParty(lcp, &rec)
	}
	if pp := cfs.Find("cac:ProcurementProject"); pp != nil {
		extractProject(pp, &rec)
	}
	if trs := cfs.Find("cac:TenderResult"); trs != nil {
		extractTenderResult(trs, &rec)
	}

	return rec
}

func extractContractingParty(lcp *Node, rec *internal.Record) {
	rec.BodyTypeCode = lcp.Text("cbc:ContractingPartyTypeCode")
	rec.BodyTypeName = codes.Lookup(codes.BodyType, rec.BodyTypeCode)

	rec.BodyActivityCode = lcp.Text("cbc:ActivityCode")
	rec.BodyActivityName = codes.Lookup(codes.BodyActivity, rec.BodyActivityCode)

	party := lcp.Find("cac:Party")
	if party == nil {
		return
	}

	for _, pid := range party.FindAll("cac:PartyIdentification") {
		idNode := pid.Find("cbc:ID")
		if idNode == nil {
			continue
		}
		scheme := idNode.Attr("schemeName")
		if scheme == "" {
			scheme = idNode.Attr("schemeID")
		}
		value := idNode.text()

		switch scheme {
		case schemeDIR3:
			rec.BodyDIR3 = value
		case schemeNIF:
			rec.BodyTaxID = value
		case schemePlatform:
			rec.PlatformID = value
		}
	}

	rec.BodyName = party.Text("cac:PartyName/cbc:Name")
	rec.BodyPostalCode = party.Text("cac:PostalAddress/cbc:PostalZone")
	rec.BodyCity = party.Text("cac:PostalAddress/cbc:CityName")
	rec.BodyCountry = party.Text("cac:PostalAddress/cac:Country/cbc:Name")
	rec.BodyEmail = party.Text("cac:Contact/cbc:ElectronicMail")
	rec.BodyPhone = party.Text("cac:Contact/cbc:Telephone")
}

func extractProject(pp *Node, rec *internal.Record) {
	rec.ContractObject = pp.Text("cbc:Name")

	rec.ContractTypeCode = pp.Text("cbc:TypeCode")
	rec.ContractTypeName = codes.Lookup(codes.ContractType, rec.ContractTypeCode)
	rec.ContractSubtypeCode = pp.Text("cbc:SubTypeCode")

	if ba := pp.Find("cac:BudgetAmount"); ba != nil {
		rec.EstimatedAmount = numberAt(ba, "cbc:EstimatedOverallContractAmount")
		rec.TotalAmount = numberAt(ba, "cbc:TotalAmount")
		rec.TaxExclusiveAmount = numberAt(ba, "cbc:TaxExclusiveAmount")
	}

	rec.CPVCode = pp.Text("cac:RequiredCommodityClassification/cbc:ItemClassificationCode")
	rec.NUTSCode = pp.Text("cac:RealizedLocation/cbc:CountrySubentityCode")

	if dur := pp.Find("cac:PlannedPeriod/cbc:ContractDurationMeasure"); dur != nil {
		rec.DurationValue = dur.text()
		if unit := dur.Attr("unitCode"); unit != "" {
			rec.DurationUnit = &unit
		}
	}
}

func extractTenderResult(trs *Node, rec *internal.Record) {
	rec.AwardDate = util.ParseDate(trs.Text("cbc:AwardDate"))
	rec.TendersReceived = trs.Text("cbc:ReceivedTenderQuantity")
	rec.CompanySME = trs.Text("cbc:SMEAwardedIndicator")

	if wp := trs.Find("cac:WinningParty"); wp != nil {
		rec.CompanyTaxID = wp.Text("cac:PartyIdentification/cbc:ID")
		rec.CompanyName = wp.Text("cac:PartyName/cbc:Name")
		rec.CompanyCountry = wp.Text("cac:PhysicalLocation/cac:Address/cac:Country/cbc:IdentificationCode")
	}

	rec.AwardedWithTax = numberAt(trs, "cac:AwardedTenderedProject/cac:LegalMonetaryTotal/cbc:PayableAmount")
	rec.AwardedNoTax = numberAt(trs, "cac:AwardedTenderedProject/cac:LegalMonetaryTotal/cbc:TaxExclusiveAmount")
}

func matchSegment(re *regexp.Regexp, summary string) *string {
	m := re.FindStringSubmatch(summary)
	if m == nil {
		return nil
	}
	v := strings.TrimSpace(m[1])
	return &v
}

func numberAt(n *Node, path string) *float64 {
	s := n.Text(path)
	if s == nil {
		return nil
	}
	return util.SafeNumber(*s)
}
