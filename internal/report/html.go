package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dgallion1/rstreport/internal/analyze"
	"github.com/dgallion1/rstreport/internal/distree"
)

// Markdown renders the report as a markdown document. The tree keeps its text
// layout inside a fenced block; the analysis becomes a table.
func Markdown(name string, root *distree.Node, res analyze.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Discourse analysis: %s\n\n", name)

	sb.WriteString("## Tree structure\n\n")
	if root == nil {
		sb.WriteString(noRootTree + "\n")
	} else {
		sb.WriteString("```\n")
		sb.WriteString(Tree(root))
		sb.WriteString("```\n")
	}

	sb.WriteString("\n## Relations and positions\n\n")
	if root == nil {
		sb.WriteString(noRootAnalysis + "\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "Total relations: %d\n\n", res.Total)
	if len(res.Relations) > 0 {
		sb.WriteString("| Relation | Count | Top | Middle | Bottom |\n")
		sb.WriteString("|---|---|---|---|---|\n")
		for _, rc := range res.Relations {
			fmt.Fprintf(&sb, "| %s | %d | %d | %d | %d |\n", rc.Name, rc.Count, rc.Top, rc.Middle, rc.Bottom)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Right to left relations: %d\n\n", res.RightToLeft)
	fmt.Fprintf(&sb, "Left to right relations: %d\n", res.LeftToRight)
	return sb.String()
}

// HTML converts a markdown report to HTML. The table extension is needed for
// the relation breakdown.
func HTML(markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}
