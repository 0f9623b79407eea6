// Command library fills the library index, either by scanning directories of
// tagged audio files or by generating a demo collection.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	library "github.com/okian/nextalbum/internal/adapters/library"
	"github.com/okian/nextalbum/internal/config"
	"github.com/okian/nextalbum/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		seed    = flag.Int("seed", 0, "Generate a demo library with this many albums instead of scanning")
		exts    = flag.String("ext", "mp3", "Comma-separated file extensions to index")
		verbose = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}
	if err := logger.Init(logger.WithFormat(logger.Format(cfg.LogFormat))); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	level := cfg.LogLevel
	if *verbose {
		level = "debug"
	}
	_ = logger.SetLevelString(level)
	log := logger.Get()

	index, err := library.Open(ctx, cfg.LibraryPath, library.WithLogger(log.Named("library")))
	if err != nil {
		log.Error(ctx, "failed to open library index", logger.Error(err))
		return 1
	}
	defer func() { _ = index.Close() }()

	roots := flag.Args()
	if len(roots) == 0 {
		roots = cfg.ScanRoots
	}

	var report library.ScanReport
	switch {
	case *seed > 0:
		report, err = library.Seed(ctx, index, library.SeedConfig{Albums: *seed})
	case len(roots) > 0:
		scanner := library.NewScanner(index,
			library.WithScanLogger(log.Named("scanner")),
			library.WithExtensions(strings.Split(*exts, ",")...),
		)
		report, err = scanner.Scan(ctx, roots...)
	default:
		os.Stderr.WriteString("usage: library [-seed N | -ext mp3 DIR...]\n" +
			"with no directories, scan_roots from the configuration are used\n")
		return 2
	}
	if err != nil {
		log.Error(ctx, "library update failed", logger.Error(err))
		return 1
	}

	tracks, albums, err := index.Count(ctx)
	if err != nil {
		log.Error(ctx, "failed to count library", logger.Error(err))
		return 1
	}
	log.Info(ctx, "library updated",
		logger.Int("indexed", report.Indexed),
		logger.Int("skipped", report.Skipped),
		logger.Int("failed", report.Failed),
		logger.Int("tracks", tracks),
		logger.Int("albums", albums),
	)
	return 0
}
