package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// crawlScopeFlags holds discovery bound flags.
type crawlScopeFlags struct {
	pattern  string
	maxDepth int
	maxPages int
}

// renderFlags holds browser rendering flags.
type renderFlags struct {
	workers int
	timeout string
}

// documentFlags holds cover page metadata flags.
type documentFlags struct {
	title    string
	subtitle string
}

// outputFlags holds output destination flags.
type outputFlags struct {
	dir              string
	noKeepIndividual bool
	noOrganize       bool
}

// crawlFlags holds all flags for the crawl command.
type crawlFlags struct {
	common   commonFlags
	scope    crawlScopeFlags
	render   renderFlags
	document documentFlags
	output   outputFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-page progress")
}

// addScopeFlags adds discovery bound flags to a FlagSet.
func addScopeFlags(fs *flag.FlagSet, f *crawlScopeFlags) {
	fs.StringVarP(&f.pattern, "pattern", "p", "", "only follow links containing this substring (default: seed URL)")
	fs.IntVarP(&f.maxDepth, "max-depth", "d", -1, "link recursion depth from the seed (seed = 0)")
	fs.IntVarP(&f.maxPages, "max-pages", "n", 0, "hard cap on pages to include")
}

// addRenderFlags adds browser rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel renderers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-page render timeout (e.g., 30s, 2m)")
}

// addDocumentFlags adds cover page metadata flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.title, "doc-title", "", "document title (\"\" = derived from URL)")
	fs.StringVar(&f.subtitle, "doc-subtitle", "", "cover subtitle")
}

// addOutputFlags adds output destination flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.dir, "output", "o", "", "output directory (\"\" = derived from URL)")
	fs.BoolVar(&f.noKeepIndividual, "no-individual", false, "discard per-page PDFs after merging")
	fs.BoolVar(&f.noOrganize, "no-organize", false, "keep per-page PDFs next to the merged document")
}

// parseCrawlFlags parses crawl command flags and returns positional args.
func parseCrawlFlags(args []string) (*crawlFlags, []string, error) {
	fs := flag.NewFlagSet("crawl", flag.ContinueOnError)
	f := &crawlFlags{}

	addCommonFlags(fs, &f.common)
	addScopeFlags(fs, &f.scope)
	addRenderFlags(fs, &f.render)
	addDocumentFlags(fs, &f.document)
	addOutputFlags(fs, &f.output)

	fs.Usage = func() { printCrawlUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
