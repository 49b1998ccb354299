package feed

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestReadFile(t *testing.T) {
	records, err := ReadFile(filepath.Join("testdata", "sample.atom"))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("len=%d", len(records))
	}

	first := records[0]
	if first.EntryID == nil || !strings.HasSuffix(*first.EntryID, "000101") {
		t.Fatalf("EntryID=%v", first.EntryID)
	}
	if first.BodyName == nil || *first.BodyName != "Ayuntamiento de Zamora" {
		t.Fatalf("BodyName=%v", first.BodyName)
	}
	if first.CompanyName == nil || *first.CompanyName != "Papelería Duero SL" {
		t.Fatalf("CompanyName=%v", first.CompanyName)
	}
	if first.EstimatedAmount == nil || *first.EstimatedAmount != 12500 {
		t.Fatalf("EstimatedAmount=%v", first.EstimatedAmount)
	}

	// Second entry has no folder status, only the base fields.
	second := records[1]
	if second.Err != nil {
		t.Fatalf("unexpected error: %+v", second.Err)
	}
	if second.BodyName != nil || second.CompanyName != nil {
		t.Fatalf("expected unknown structured fields: %+v", second)
	}
	if second.SummaryStatus == nil || *second.SummaryStatus != "PUB" {
		t.Fatalf("SummaryStatus=%v", second.SummaryStatus)
	}
}

func TestReadUnqualifiedFallback(t *testing.T) {
	doc := `<feed><entry><id>ID-7</id></entry><entry><id>ID-8</id></entry></feed>`
	records, err := Read(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("len=%d", len(records))
	}
}

func TestParseMixedContentText(t *testing.T) {
	root, err := Parse(strings.NewReader(`<a>x<b/>y</a>`))
	if err != nil {
		t.Fatal(err)
	}
	// Text after a child element does not belong to the parent's value.
	if got := root.text(); got == nil || *got != "x" {
		t.Fatalf("text=%v", got)
	}
}

func TestReadMalformed(t *testing.T) {
	records, err := Read(strings.NewReader(`<feed><entry>`))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if len(records) != 0 {
		t.Fatalf("len=%d", len(records))
	}
}

func TestReadNoEntries(t *testing.T) {
	records, err := Read(strings.NewReader(`<feed xmlns="http://www.w3.org/2005/Atom"><title>vacío</title></feed>`))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("len=%d", len(records))
	}
}
