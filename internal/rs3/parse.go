package rs3

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

type xmlDoc struct {
	XMLName xml.Name   `xml:"rst"`
	Header  *xmlHeader `xml:"header"`
	Body    *xmlBody   `xml:"body"`
}

type xmlHeader struct {
	Relations *xmlRelations `xml:"relations"`
}

type xmlRelations struct {
	Rels []xmlRel `xml:"rel"`
}

type xmlRel struct {
	Name string `xml:"name,attr"`
	Type string `xml:"type,attr"`
}

type xmlBody struct {
	Segments []xmlSegment `xml:"segment"`
	Groups   []xmlGroup   `xml:"group"`
}

type xmlSegment struct {
	ID      string `xml:"id,attr"`
	Parent  string `xml:"parent,attr"`
	Relname string `xml:"relname,attr"`
	Text    string `xml:",chardata"`
}

type xmlGroup struct {
	ID      string `xml:"id,attr"`
	Type    string `xml:"type,attr"`
	Parent  string `xml:"parent,attr"`
	Relname string `xml:"relname,attr"`
}

// Parse reads one RS3 document. A missing header, relations list or body is a
// fatal parse error; everything else about the records (duplicate ids, dangling
// parents) is left for the tree builder to resolve.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	// RS3 files in the wild declare ISO-8859-1 and friends in the XML prolog.
	dec.CharsetReader = charset.NewReaderLabel

	var raw xmlDoc
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode rs3: %w", err)
	}
	if raw.Header == nil {
		return nil, fmt.Errorf("rs3: missing header element")
	}
	if raw.Header.Relations == nil {
		return nil, fmt.Errorf("rs3: missing relations element in header")
	}
	if raw.Body == nil {
		return nil, fmt.Errorf("rs3: missing body element")
	}

	doc := &Document{}
	for _, rel := range raw.Header.Relations.Rels {
		doc.Relations = append(doc.Relations, Relation{Name: rel.Name, Type: rel.Type})
	}
	for _, seg := range raw.Body.Segments {
		doc.Segments = append(doc.Segments, Segment{
			ID:      seg.ID,
			Text:    strings.TrimSpace(seg.Text),
			Parent:  seg.Parent,
			Relname: seg.Relname,
		})
	}
	for _, grp := range raw.Body.Groups {
		doc.Groups = append(doc.Groups, Group{
			ID:      grp.ID,
			Kind:    grp.Type,
			Parent:  grp.Parent,
			Relname: grp.Relname,
		})
	}
	return doc, nil
}
