package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgallion1/rstreport/internal/analyze"
	"github.com/dgallion1/rstreport/internal/distree"
	"github.com/dgallion1/rstreport/internal/report"
	"github.com/dgallion1/rstreport/internal/rs3"
)

// Processor analyzes single annotation files and writes sibling reports.
type Processor struct {
	ReportSuffix   string
	Directionality bool
	Log            *slog.Logger
	Stats          *RunStats
}

// ProcessFile parses, builds, analyzes and reports one file. The report is
// written next to the input with the processor's suffix appended; the report
// path is returned. Structural irregularities in the input are logged as
// warnings and never fail the file.
func (p *Processor) ProcessFile(path string) (string, error) {
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	doc, err := rs3.Parse(f)
	f.Close()
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}

	root, stats := distree.Build(doc.Segments, doc.Groups)
	p.logBuildStats(path, root, stats)

	res := analyze.Analyze(root, analyze.Options{
		Directionality: p.Directionality,
		Log:            p.Log,
	})

	out := path + p.ReportSuffix
	content := report.Render(root, res)
	if err := os.WriteFile(out, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write report %s: %w", out, err)
	}

	if p.Stats != nil {
		p.Stats.Record(time.Since(start).Milliseconds(), stats.Nodes, res.Total)
	}
	p.Log.Info("analysis written",
		"input", path,
		"report", out,
		"nodes", stats.Nodes,
		"relations", res.Total,
	)
	return out, nil
}

func (p *Processor) logBuildStats(path string, root *distree.Node, stats distree.BuildStats) {
	if root == nil {
		p.Log.Warn("no root node found", "file", path)
	}
	if len(stats.Orphans) > 0 {
		p.Log.Warn("orphaned nodes dropped", "file", path, "ids", stats.Orphans)
	}
	if len(stats.DuplicateIDs) > 0 {
		p.Log.Warn("segment/group id collisions, segment kept", "file", path, "ids", stats.DuplicateIDs)
	}
	if len(stats.ExtraRoots) > 0 {
		p.Log.Warn("multiple parentless nodes, last one kept", "file", path, "ids", stats.ExtraRoots)
	}
	if len(stats.NonNumericIDs) > 0 {
		p.Log.Warn("non-numeric node ids", "file", path, "ids", stats.NonNumericIDs)
	}
}
