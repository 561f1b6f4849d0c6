package pipeline

import (
	"context"
	"fmt"
	"log/slog"
)

// Worker processes a single scan job.
type Worker struct {
	proc               *Processor
	suffix             string
	log                *slog.Logger
	maxConcurrentFiles int
}

func NewWorker(proc *Processor, suffix string, log *slog.Logger, maxFiles int) *Worker {
	if maxFiles <= 0 {
		maxFiles = 1
	}
	return &Worker{
		proc:               proc,
		suffix:             suffix,
		log:                log,
		maxConcurrentFiles: maxFiles,
	}
}

// Process runs the full scan for a job: discover files, analyze each with
// bounded concurrency, write one report per input. Files are independent, so
// parallelism stops at the file boundary; a single tree's analysis is
// sequential.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "dir", job.Dir)

	job.SetStatus(StatusScanning, "scanning")
	files, err := FindFiles(job.Dir, w.suffix)
	if err != nil {
		log.Error("scan failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "scanning")
		return
	}
	job.SetTotalFiles(len(files))
	log.Info("scan complete", "files", len(files))

	if len(files) == 0 {
		job.SetStatus(StatusCompleted, "done")
		return
	}

	job.SetStatus(StatusAnalyzing, "analyzing")
	type fileResult struct {
		path string
		err  error
	}
	results := make(chan fileResult, len(files))
	sem := make(chan struct{}, w.maxConcurrentFiles)

	for _, path := range files {
		sem <- struct{}{}
		go func(path string) {
			defer func() { <-sem }()
			select {
			case <-ctx.Done():
				results <- fileResult{path: path, err: ctx.Err()}
				return
			default:
			}
			_, err := w.proc.ProcessFile(path)
			results <- fileResult{path: path, err: err}
		}(path)
	}

	hadErrors := false
	wrote := 0
	for range files {
		r := <-results
		if r.err != nil {
			log.Error("file failed", "file", r.path, "error", r.err)
			job.AddError(fmt.Sprintf("%s: %s", r.path, r.err))
			hadErrors = true
			job.IncrProcessed(false)
			continue
		}
		wrote++
		job.IncrProcessed(true)
	}

	switch {
	case hadErrors && wrote > 0:
		job.SetStatus(StatusPartial, "done")
	case hadErrors:
		job.SetStatus(StatusFailed, "analyzing")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
	log.Info("job finished", "reports", wrote, "errors", hadErrors)
}
