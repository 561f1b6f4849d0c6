// Package report renders a discourse tree and its analysis as text. The text
// layout is fixed: downstream consumers diff these reports, so the glyphs,
// labels and blank lines must not drift.
package report

import (
	"fmt"
	"strings"

	"github.com/dgallion1/rstreport/internal/analyze"
	"github.com/dgallion1/rstreport/internal/distree"
)

const (
	noRootTree     = "No root node found!"
	noRootAnalysis = "No root node for analysis!"
)

// Tree renders the indented outline of the tree, one node per line.
func Tree(root *distree.Node) string {
	if root == nil {
		return noRootTree
	}
	var sb strings.Builder
	writeNode(&sb, root, 0, "")
	return sb.String()
}

func writeNode(sb *strings.Builder, n *distree.Node, level int, prefix string) {
	info := n.ID + ": " + textOrPlaceholder(n)
	if n.Relname != "" {
		info += " (relname: " + n.Relname + ")"
	}
	if n.Kind != "" {
		info += " (type: " + n.Kind + ")"
	}

	sb.WriteString(prefix)
	if level > 0 {
		sb.WriteString("└── ")
	}
	sb.WriteString(info)
	sb.WriteByte('\n')

	if level > 0 {
		if strings.Contains(prefix, "└") {
			prefix += "    "
		} else {
			prefix += "│   "
		}
	}
	for i, child := range n.Children {
		connector := "├── "
		if i == len(n.Children)-1 {
			connector = "└── "
		}
		writeNode(sb, child, level+1, prefix+connector)
	}
}

func textOrPlaceholder(n *distree.Node) string {
	if n.Text == "" {
		return "No text"
	}
	return n.Text
}

// Analysis renders the relation/position/directionality summary. hasRoot
// selects the explicit no-root message over an all-zero summary.
func Analysis(hasRoot bool, res analyze.Result) string {
	if !hasRoot {
		return noRootAnalysis
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "\nTotal relations: %d times\n\nRelation counts:\n", res.Total)
	for _, rc := range res.Relations {
		fmt.Fprintf(&sb, "%s: %d times (%s)\n", rc.Name, rc.Count, positionBreakdown(rc))
	}
	fmt.Fprintf(&sb, "\nTotal Right to Left relations: %d\n", res.RightToLeft)
	fmt.Fprintf(&sb, "Total Left to Right relations: %d\n", res.LeftToRight)
	return sb.String()
}

func positionBreakdown(rc analyze.RelationCount) string {
	var parts []string
	if rc.Top > 0 {
		parts = append(parts, fmt.Sprintf("top: %d times", rc.Top))
	}
	if rc.Middle > 0 {
		parts = append(parts, fmt.Sprintf("middle: %d times", rc.Middle))
	}
	if rc.Bottom > 0 {
		parts = append(parts, fmt.Sprintf("bottom: %d times", rc.Bottom))
	}
	return strings.Join(parts, ", ")
}

// Render composes the full report file: tree section, then analysis section.
func Render(root *distree.Node, res analyze.Result) string {
	var sb strings.Builder
	sb.WriteString("Tree Structure:\n")
	sb.WriteString(Tree(root))
	sb.WriteString("\n")
	sb.WriteString("\nAnalysis of Relations and Positions:\n")
	sb.WriteString(Analysis(root != nil, res))
	sb.WriteString("\n")
	return sb.String()
}
