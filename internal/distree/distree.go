package distree

import (
	"strconv"

	"github.com/dgallion1/rstreport/internal/rs3"
)

// Node is one discourse unit in the combined tree. Text is set for nodes built
// from segments, Kind for nodes built from groups. Relname names the relation
// connecting this node to its parent; the literal "span" is a structural marker,
// not a semantic relation. Children keep document order.
type Node struct {
	ID       string
	Ord      int // numeric value of ID; ids encode text order, so compare by Ord
	Text     string
	Kind     string
	Relname  string
	Children []*Node
}

// Leaf reports whether the node has no children.
func (n *Node) Leaf() bool {
	return len(n.Children) == 0
}

// BuildStats describes the irregularities the builder tolerated. Callers are
// expected to log these as warnings; none of them change the output shape.
type BuildStats struct {
	Nodes         int
	Orphans       []string // ids whose parent resolved to no node
	DuplicateIDs  []string // ids present in both mappings (segment won)
	ExtraRoots    []string // parentless ids displaced by a later one
	NonNumericIDs []string // ids that failed numeric parsing (ordinal 0)
}

// Build constructs the discourse tree from segment and group records. Segments
// are processed first, then groups whose id is not already taken; the last
// parentless node in that order becomes the root. Nodes naming an unknown
// parent are dropped. Build never fails: a document with no parentless node
// yields a nil root.
func Build(segments []rs3.Segment, groups []rs3.Group) (*Node, BuildStats) {
	var stats BuildStats

	type entry struct {
		node   *Node
		parent string
	}
	byID := make(map[string]*entry, len(segments)+len(groups))
	var order []*entry

	ord := func(id string) int {
		n, err := strconv.Atoi(id)
		if err != nil {
			stats.NonNumericIDs = append(stats.NonNumericIDs, id)
			return 0
		}
		return n
	}

	for _, seg := range segments {
		e := &entry{
			node:   &Node{ID: seg.ID, Ord: ord(seg.ID), Text: seg.Text, Relname: seg.Relname},
			parent: seg.Parent,
		}
		if prev, ok := byID[seg.ID]; ok {
			// Repeated segment id: later record replaces the earlier one in place.
			*prev = *e
			continue
		}
		byID[seg.ID] = e
		order = append(order, e)
	}

	for _, grp := range groups {
		if _, ok := byID[grp.ID]; ok {
			stats.DuplicateIDs = append(stats.DuplicateIDs, grp.ID)
			continue
		}
		e := &entry{
			node:   &Node{ID: grp.ID, Ord: ord(grp.ID), Kind: grp.Kind, Relname: grp.Relname},
			parent: grp.Parent,
		}
		byID[grp.ID] = e
		order = append(order, e)
	}
	stats.Nodes = len(order)

	var root *Node
	for _, e := range order {
		if e.parent == "" {
			if root != nil {
				stats.ExtraRoots = append(stats.ExtraRoots, root.ID)
			}
			root = e.node
			continue
		}
		parent, ok := byID[e.parent]
		if !ok {
			stats.Orphans = append(stats.Orphans, e.node.ID)
			continue
		}
		parent.node.Children = append(parent.node.Children, e.node)
	}

	return root, stats
}
