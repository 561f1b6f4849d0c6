package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<rst>
  <header>
    <relations>
      <rel name="cause" type="rst"/>
    </relations>
  </header>
  <body>
    <segment id="1" parent="3" relname="span">First unit .</segment>
    <segment id="2" parent="1" relname="cause">Second unit .</segment>
    <group id="3" type="span"/>
  </body>
</rst>
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFindFilesFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.rs3"), sampleDoc)
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignore me")
	writeFile(t, filepath.Join(dir, "nested", "a.rs3"), sampleDoc)

	files, err := FindFiles(dir, ".rs3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %v", len(files), files)
	}
	if !strings.HasSuffix(files[0], "b.rs3") || !strings.HasSuffix(files[1], filepath.Join("nested", "a.rs3")) {
		t.Errorf("expected sorted paths [b.rs3 nested/a.rs3], got %v", files)
	}
}

func TestProcessFileWritesReport(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.rs3")
	writeFile(t, input, sampleDoc)

	proc := &Processor{
		ReportSuffix:   "_analysis.txt",
		Directionality: true,
		Log:            discardLogger(),
		Stats:          NewRunStats(time.Hour),
	}
	out, err := proc.ProcessFile(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != input+"_analysis.txt" {
		t.Errorf("expected sibling report path, got %q", out)
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	text := string(content)
	if !strings.HasPrefix(text, "Tree Structure:\n") {
		t.Errorf("expected tree section header, got %q", text)
	}
	if !strings.Contains(text, "Total relations: 1 times") {
		t.Errorf("expected one counted relation, got %q", text)
	}
	if !strings.Contains(text, "cause: 1 times (top: 1 times)") {
		t.Errorf("expected cause at top, got %q", text)
	}

	snap := proc.Stats.Snapshot()
	if snap.Count != 1 {
		t.Errorf("expected 1 latency sample, got %d", snap.Count)
	}
	if snap.FilesTotal != 1 || snap.NodesTotal != 3 || snap.RelationsTotal != 1 {
		t.Errorf("expected totals files=1 nodes=3 relations=1, got %+v", snap)
	}
}

func TestRunStatsSnapshot(t *testing.T) {
	stats := NewRunStats(time.Hour)
	for i, ms := range []int64{100, 200, 300, 400, 500} {
		stats.Record(ms, 10+i, i)
	}

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Errorf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 || snap.P50Ms != 300 {
		t.Errorf("expected avg=p50=300, got avg=%f p50=%f", snap.AvgMs, snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Errorf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.FilesTotal != 5 {
		t.Errorf("expected files_total=5, got %d", snap.FilesTotal)
	}
	if snap.NodesTotal != 60 {
		t.Errorf("expected nodes_total=60, got %d", snap.NodesTotal)
	}
	if snap.RelationsTotal != 10 {
		t.Errorf("expected relations_total=10, got %d", snap.RelationsTotal)
	}
}

func TestRunStatsPrunesWindowKeepsTotals(t *testing.T) {
	stats := NewRunStats(10 * time.Millisecond)
	stats.Record(100, 3, 1)
	time.Sleep(25 * time.Millisecond)

	snap := stats.Snapshot()
	if snap.Count != 0 {
		t.Errorf("expected empty latency window after prune, got %d", snap.Count)
	}
	if snap.FilesTotal != 1 || snap.NodesTotal != 3 || snap.RelationsTotal != 1 {
		t.Errorf("expected lifetime totals to survive pruning, got %+v", snap)
	}
}

func TestProcessFileNoRoot(t *testing.T) {
	doc := `<rst><header><relations/></header><body>
<segment id="1" parent="2">a</segment>
<segment id="2" parent="1">b</segment>
</body></rst>`
	dir := t.TempDir()
	input := filepath.Join(dir, "cycle.rs3")
	writeFile(t, input, doc)

	proc := &Processor{ReportSuffix: "_analysis.txt", Directionality: true, Log: discardLogger()}
	out, err := proc.ProcessFile(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(content), "No root node found!") {
		t.Errorf("expected no-root tree section, got %q", content)
	}
	if !strings.Contains(string(content), "No root node for analysis!") {
		t.Errorf("expected no-root analysis section, got %q", content)
	}
}

func TestProcessFileUnparsable(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.rs3")
	writeFile(t, input, "<rst><header>")

	proc := &Processor{ReportSuffix: "_analysis.txt", Log: discardLogger()}
	if _, err := proc.ProcessFile(input); err == nil {
		t.Fatal("expected error for unparsable file")
	}
	if _, err := os.Stat(input + "_analysis.txt"); !os.IsNotExist(err) {
		t.Errorf("no report must be written for a failed file")
	}
}

func TestWorkerProcessMixedResults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.rs3"), sampleDoc)
	writeFile(t, filepath.Join(dir, "bad.rs3"), "<rst><header>")

	proc := &Processor{ReportSuffix: "_analysis.txt", Directionality: true, Log: discardLogger()}
	w := NewWorker(proc, ".rs3", discardLogger(), 2)

	job := &Job{ID: "j1", Dir: dir, Status: StatusQueued, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusPartial {
		t.Errorf("expected partial status, got %q", snap.Status)
	}
	if snap.Progress.TotalFiles != 2 || snap.Progress.FilesProcessed != 2 {
		t.Errorf("expected 2/2 files processed, got %+v", snap.Progress)
	}
	if snap.Progress.ReportsWritten != 1 {
		t.Errorf("expected 1 report written, got %d", snap.Progress.ReportsWritten)
	}
	if len(snap.Progress.Errors) != 1 {
		t.Errorf("expected 1 recorded error, got %v", snap.Progress.Errors)
	}
}

func TestWorkerEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	proc := &Processor{ReportSuffix: "_analysis.txt", Log: discardLogger()}
	w := NewWorker(proc, ".rs3", discardLogger(), 2)

	job := &Job{ID: "j2", Dir: dir, Status: StatusQueued, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	w.Process(context.Background(), job)

	if got := job.Snapshot().Status; got != StatusCompleted {
		t.Errorf("expected completed status for empty dir, got %q", got)
	}
}

func TestJobStoreCleanup(t *testing.T) {
	store := NewJobStore(10 * time.Millisecond)
	job := &Job{ID: "old", UpdatedAt: time.Now().Add(-time.Minute)}
	store.Put(job)

	store.Cleanup()
	if store.Get("old") != nil {
		t.Fatal("expected expired job to be evicted")
	}

	fresh := &Job{ID: "fresh", UpdatedAt: time.Now()}
	store.Put(fresh)
	store.Cleanup()
	if store.Get("fresh") == nil {
		t.Fatal("expected fresh job to survive cleanup")
	}
}

func TestNewJobIDDistinct(t *testing.T) {
	a := NewJobID("/data", time.Now())
	b := NewJobID("/data", time.Now().Add(time.Nanosecond))
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
	if len(a) != 20 {
		t.Errorf("expected 20-char id, got %d", len(a))
	}
}
