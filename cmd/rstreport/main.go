package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dgallion1/rstreport/internal/config"
	"github.com/dgallion1/rstreport/internal/pipeline"
)

func main() {
	cfg := config.Load()

	suffix := flag.String("suffix", cfg.FileSuffix, "annotation file suffix to discover")
	reportSuffix := flag.String("report-suffix", cfg.ReportSuffix, "suffix appended to each input path for its report")
	workers := flag.Int("workers", cfg.MaxConcurrentFiles, "number of files analyzed in parallel")
	direction := flag.Bool("directionality", cfg.Directionality, "count right-to-left / left-to-right relations")
	verbose := flag.Bool("v", false, "log per-edge directionality traces")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <directory>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	dir := flag.Arg(0)

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	files, err := pipeline.FindFiles(dir, *suffix)
	if err != nil {
		log.Error("scan failed", "dir", dir, "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		log.Info("no annotation files found", "dir", dir, "suffix", *suffix)
		return
	}

	proc := &pipeline.Processor{
		ReportSuffix:   *reportSuffix,
		Directionality: *direction,
		Log:            log,
		Stats:          pipeline.NewRunStats(time.Hour),
	}

	// Files are independent; bounded fan-out, no ordering requirement.
	sem := make(chan struct{}, max(*workers, 1))
	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := 0

	for _, path := range files {
		wg.Add(1)
		sem <- struct{}{}
		go func(path string) {
			defer wg.Done()
			defer func() { <-sem }()
			out, err := proc.ProcessFile(path)
			if err != nil {
				log.Error("file failed", "file", path, "error", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			fmt.Printf("Analysis written to: %s\n", out)
		}(path)
	}
	wg.Wait()

	if failed > 0 {
		log.Error("finished with failures", "failed", failed, "total", len(files))
		os.Exit(1)
	}
}
