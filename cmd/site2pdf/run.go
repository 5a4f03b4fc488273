package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/log"

	site2pdf "github.com/alnah/go-site2pdf"
	"github.com/alnah/go-site2pdf/internal/config"
)

// runCrawl executes the crawl command: load config, merge flags, run the
// pipeline, print a summary.
func runCrawl(ctx context.Context, positionalArgs []string, flags *crawlFlags, env *Environment) error {
	cfg := config.DefaultConfig()
	var err error
	if flags.common.config != "" {
		cfg, err = config.LoadConfig(flags.common.config)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	mergeFlags(flags, cfg)

	if len(positionalArgs) > 0 {
		cfg.Crawl.URL = positionalArgs[0]
	}
	if cfg.Crawl.URL == "" {
		return ErrNoSeedURL
	}

	// Fill derived defaults after the seed URL is final.
	if cfg.Crawl.Pattern == "" {
		cfg.Crawl.Pattern = cfg.Crawl.URL
	}
	if cfg.Document.Title == "" {
		cfg.Document.Title = titleFromURL(cfg.Crawl.URL)
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = outputDirFromURL(cfg.Crawl.URL)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	opts, err := serviceOptions(cfg, flags, env)
	if err != nil {
		return err
	}

	svc := site2pdf.New(opts...)
	defer func() {
		if cerr := svc.Close(); cerr != nil {
			fmt.Fprintf(env.Stderr, "Warning: closing service: %v\n", cerr)
		}
	}()

	job := site2pdf.Job{
		Crawl: site2pdf.CrawlSpec{
			SeedURL:    cfg.Crawl.URL,
			URLPattern: cfg.Crawl.Pattern,
			MaxDepth:   cfg.Crawl.MaxDepth,
			MaxPages:   cfg.Crawl.MaxPages,
		},
		OutputDir:      cfg.Output.Dir,
		DocumentTitle:  cfg.Document.Title,
		CoverSubtitle:  cfg.Document.Subtitle,
		KeepIndividual: cfg.Output.KeepIndividual,
		Organize:       cfg.Output.Organize,
	}

	start := env.Now()
	stop := startProgress(env, flags, cfg.Crawl.URL)
	result, err := svc.Run(ctx, job)
	stop()
	if err != nil {
		return err
	}

	printSummary(env.Stdout, result, flags.common.quiet, env.Now().Sub(start))
	return nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *crawlFlags, cfg *config.Config) {
	if flags.scope.pattern != "" {
		cfg.Crawl.Pattern = flags.scope.pattern
	}
	if flags.scope.maxDepth >= 0 {
		cfg.Crawl.MaxDepth = flags.scope.maxDepth
	}
	if flags.scope.maxPages > 0 {
		cfg.Crawl.MaxPages = flags.scope.maxPages
	}

	if flags.render.workers > 0 {
		cfg.Render.Workers = flags.render.workers
	}
	if flags.render.timeout != "" {
		cfg.Render.Timeout = flags.render.timeout
	}

	if flags.document.title != "" {
		cfg.Document.Title = flags.document.title
	}
	if flags.document.subtitle != "" {
		cfg.Document.Subtitle = flags.document.subtitle
	}

	if flags.output.dir != "" {
		cfg.Output.Dir = flags.output.dir
	}
	if flags.output.noKeepIndividual {
		cfg.Output.KeepIndividual = false
	}
	if flags.output.noOrganize {
		cfg.Output.Organize = false
	}
}

// serviceOptions translates the merged config into Service options.
func serviceOptions(cfg *config.Config, flags *crawlFlags, env *Environment) ([]site2pdf.Option, error) {
	opts := []site2pdf.Option{
		site2pdf.WithWorkers(cfg.Render.Workers),
	}

	if cfg.Render.Timeout != "" {
		d, err := time.ParseDuration(cfg.Render.Timeout)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid timeout %q: %v", ErrInvalidTimeout, cfg.Render.Timeout, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidTimeout, d)
		}
		opts = append(opts, site2pdf.WithTimeout(d))
	}

	level := log.WarnLevel
	switch {
	case flags.common.quiet:
		level = log.ErrorLevel
	case flags.common.verbose:
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(env.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: flags.common.verbose,
	})
	opts = append(opts, site2pdf.WithLogger(logger))

	return opts, nil
}

// startProgress runs a spinner on stderr while the pipeline works. Verbose
// mode logs per-page progress instead, and quiet mode prints nothing, so the
// spinner only runs in the default mode. The returned func stops it.
func startProgress(env *Environment, flags *crawlFlags, url string) func() {
	if flags.common.quiet || flags.common.verbose {
		return func() {}
	}
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(env.Stderr))
	sp.Suffix = fmt.Sprintf(" Crawling %s ...", url)
	sp.Start()
	return sp.Stop
}

// printSummary reports the outcome of a run.
func printSummary(w io.Writer, result *site2pdf.Result, quiet bool, elapsed time.Duration) {
	if quiet {
		fmt.Fprintln(w, result.MergedPath)
		return
	}

	report := result.Report
	if result.Aborted != nil {
		fmt.Fprintf(w, "Warning: %v; assembled the pages collected so far\n", result.Aborted)
	}
	fmt.Fprintf(w, "Merged document: %s\n", result.MergedPath)
	if result.IndividualDir != "" {
		fmt.Fprintf(w, "Individual PDFs: %s\n", result.IndividualDir)
	}
	fmt.Fprintf(w, "Pages: %d visited, %d duplicates, %d rejected (%.1fs)\n",
		report.Visited, report.Duplicates, report.Rejected, elapsed.Seconds())

	if report.FetchFailures > 0 || report.RenderFailures > 0 {
		fmt.Fprintf(w, "Failures: %d fetch, %d render\n", report.FetchFailures, report.RenderFailures)
		for _, sample := range report.Samples {
			fmt.Fprintf(w, "  %s\n", sample)
		}
	}
	for _, skipped := range result.Skipped {
		fmt.Fprintf(w, "Skipped: %s\n", skipped)
	}
}
