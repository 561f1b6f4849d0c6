package rs3

import (
	"bytes"
	"strings"
	"testing"
)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<rst>
  <header>
    <relations>
      <rel name="cause" type="rst"/>
      <rel name="elaboration" type="rst"/>
      <rel name="contrast" type="multinuc"/>
    </relations>
  </header>
  <body>
    <segment id="1" parent="3" relname="span">
      First unit .
    </segment>
    <segment id="2" parent="1" relname="cause">Second unit .</segment>
    <group id="3" type="span"/>
  </body>
</rst>
`

func TestParseDocument(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Relations) != 3 {
		t.Fatalf("expected 3 relation declarations, got %d", len(doc.Relations))
	}
	rst := doc.RSTRelations()
	if len(rst) != 2 || rst[0] != "cause" || rst[1] != "elaboration" {
		t.Errorf("expected rst relations [cause elaboration], got %v", rst)
	}
	multinuc := doc.MultinucRelations()
	if len(multinuc) != 1 || multinuc[0] != "contrast" {
		t.Errorf("expected multinuc relations [contrast], got %v", multinuc)
	}

	if len(doc.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(doc.Segments))
	}
	seg := doc.Segments[0]
	if seg.ID != "1" || seg.Parent != "3" || seg.Relname != "span" {
		t.Errorf("unexpected segment record: %+v", seg)
	}
	if seg.Text != "First unit ." {
		t.Errorf("expected trimmed text %q, got %q", "First unit .", seg.Text)
	}

	if len(doc.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(doc.Groups))
	}
	grp := doc.Groups[0]
	if grp.ID != "3" || grp.Kind != "span" || grp.Parent != "" || grp.Relname != "" {
		t.Errorf("unexpected group record: %+v", grp)
	}
}

func TestParseMissingHeader(t *testing.T) {
	input := `<rst><body><segment id="1">x</segment></body></rst>`
	if _, err := Parse(strings.NewReader(input)); err == nil {
		t.Fatal("expected error for missing header")
	}
}

func TestParseMissingRelations(t *testing.T) {
	input := `<rst><header></header><body></body></rst>`
	if _, err := Parse(strings.NewReader(input)); err == nil {
		t.Fatal("expected error for missing relations")
	}
}

func TestParseMissingBody(t *testing.T) {
	input := `<rst><header><relations></relations></header></rst>`
	if _, err := Parse(strings.NewReader(input)); err == nil {
		t.Fatal("expected error for missing body")
	}
}

func TestParseInvalidXML(t *testing.T) {
	if _, err := Parse(strings.NewReader("<rst><header>")); err == nil {
		t.Fatal("expected error for truncated document")
	}
}

func TestParseDeclaredEncoding(t *testing.T) {
	// "Häuser" in ISO-8859-1: 0xE4 for ä.
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="ISO-8859-1"?>` + "\n")
	buf.WriteString("<rst><header><relations></relations></header><body>")
	buf.WriteString(`<segment id="1">H`)
	buf.WriteByte(0xE4)
	buf.WriteString("user</segment></body></rst>")

	doc, err := Parse(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(doc.Segments))
	}
	if doc.Segments[0].Text != "Häuser" {
		t.Errorf("expected decoded text %q, got %q", "Häuser", doc.Segments[0].Text)
	}
}
