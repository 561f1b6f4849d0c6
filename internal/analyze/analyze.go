// Package analyze derives structural statistics from a discourse tree in a
// single post-order traversal: how often each relation occurs, at which
// vertical position (top, middle, bottom) it occurs, and how many satellite
// relations attach right-to-left vs left-to-right in text order.
package analyze

import (
	"log/slog"
	"sort"

	"github.com/dgallion1/rstreport/internal/distree"
)

// Positions within the tree, classified per node from its depth and the shape
// of its children.
const (
	PosTop    = "top"
	PosMiddle = "middle"
	PosBottom = "bottom"
)

// The structural marker on plain span groups; never counted as a relation.
const spanMarker = "span"

// RelationCount is one relation's total and position breakdown.
type RelationCount struct {
	Name   string `json:"name"`
	Count  int    `json:"count"`
	Top    int    `json:"top"`
	Middle int    `json:"middle"`
	Bottom int    `json:"bottom"`
}

// Result is the outcome of analyzing one tree. Relations are sorted by
// descending count; ties keep the order in which the traversal first met the
// relation, so re-running on the same tree gives identical output.
type Result struct {
	Total       int             `json:"total"`
	Relations   []RelationCount `json:"relations"`
	RightToLeft int             `json:"right_to_left"`
	LeftToRight int             `json:"left_to_right"`
}

// Options control the traversal. Directionality toggles the left/right edge
// counting; relation and position counts are unaffected by it. Log, when set,
// receives a debug line per counted directional edge.
type Options struct {
	Directionality bool
	Log            *slog.Logger
}

type analyzer struct {
	opts   Options
	counts map[string]*RelationCount
	seen   []string // relation names in first-encounter order
	rtl    int
	ltr    int
}

// Analyze walks the tree rooted at root. A nil root yields a zero Result; the
// caller is responsible for surfacing the missing-root condition to users.
func Analyze(root *distree.Node, opts Options) Result {
	a := &analyzer{
		opts:   opts,
		counts: make(map[string]*RelationCount),
	}
	if root != nil {
		a.walk(root, 0)
	}

	// Relations stays non-nil so encoded results keep a stable shape.
	res := Result{Relations: []RelationCount{}, RightToLeft: a.rtl, LeftToRight: a.ltr}
	for _, name := range a.seen {
		rc := a.counts[name]
		res.Relations = append(res.Relations, *rc)
		res.Total += rc.Count
	}
	sort.SliceStable(res.Relations, func(i, j int) bool {
		return res.Relations[i].Count > res.Relations[j].Count
	})
	return res
}

// walk classifies and counts the node, then recurses. It returns the lowest
// and highest ordinal found in the node's subtree, including the node itself.
func (a *analyzer) walk(n *distree.Node, depth int) (lo, hi int) {
	pos := classify(n, depth)
	if n.Relname != "" && n.Relname != spanMarker {
		rc, ok := a.counts[n.Relname]
		if !ok {
			rc = &RelationCount{Name: n.Relname}
			a.counts[n.Relname] = rc
			a.seen = append(a.seen, n.Relname)
		}
		rc.Count++
		switch pos {
		case PosTop:
			rc.Top++
		case PosMiddle:
			rc.Middle++
		case PosBottom:
			rc.Bottom++
		}
	}

	// Running extent: starts at the node's own ordinal and folds in each
	// child's subtree after that child has been compared, so later siblings
	// see the cumulative span of everything processed so far.
	lo, hi = n.Ord, n.Ord
	for _, child := range n.Children {
		clo, chi := a.walk(child, depth+1)
		if a.opts.Directionality {
			switch {
			case chi < lo:
				a.rtl++
				if a.opts.Log != nil {
					a.opts.Log.Debug("right-to-left relation", "child", child.ID, "parent", n.ID)
				}
			case clo > hi:
				a.ltr++
				if a.opts.Log != nil {
					a.opts.Log.Debug("left-to-right relation", "child", child.ID, "parent", n.ID)
				}
			}
		}
		lo = min(lo, clo)
		hi = max(hi, chi)
	}
	return lo, hi
}

// classify applies the position rule: the top three levels are "top" no matter
// their shape; below that, a node whose subtree is at most one level deep is
// "bottom", everything else "middle".
func classify(n *distree.Node, depth int) string {
	if depth <= 2 {
		return PosTop
	}
	if n.Leaf() {
		return PosBottom
	}
	allLeaves := true
	for _, child := range n.Children {
		if !child.Leaf() {
			allLeaves = false
			break
		}
	}
	if allLeaves {
		return PosBottom
	}
	return PosMiddle
}
