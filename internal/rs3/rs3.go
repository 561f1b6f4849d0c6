package rs3

// Relation is a relation declaration from the RS3 header. The declarations
// describe the annotation scheme; the tree and analysis never consume them.
type Relation struct {
	Name string
	Type string // "rst" or "multinuc"
}

// Segment is a terminal discourse unit carrying text.
type Segment struct {
	ID      string
	Text    string
	Parent  string // empty when the segment has no parent
	Relname string
}

// Group is an internal discourse unit spanning one or more children.
type Group struct {
	ID      string
	Kind    string // "span" or a multinuclear marker
	Parent  string
	Relname string
}

// Document is the record form of one RS3 file. Segments and Groups keep
// document order; ids are unique per slice but the id space is shared, so a
// segment and a group may collide (the tree builder resolves that).
type Document struct {
	Relations []Relation
	Segments  []Segment
	Groups    []Group
}

// RSTRelations returns the names of declared relations with type "rst".
func (d *Document) RSTRelations() []string {
	return d.relationsOfType("rst")
}

// MultinucRelations returns the names of declared relations with type "multinuc".
func (d *Document) MultinucRelations() []string {
	return d.relationsOfType("multinuc")
}

func (d *Document) relationsOfType(typ string) []string {
	var names []string
	for _, rel := range d.Relations {
		if rel.Type == typ {
			names = append(names, rel.Name)
		}
	}
	return names
}
