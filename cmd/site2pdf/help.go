package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: site2pdf <url> [flags]")
	fmt.Fprintln(w, "       site2pdf <command>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Crawl a documentation site and merge every page into a single")
	fmt.Fprintln(w, "bookmarked PDF with a cover page and table of contents.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show this message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'site2pdf help crawl' for the full flag reference.")
}

// printCrawlUsage prints the full flag reference.
func printCrawlUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: site2pdf <url> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  url    Seed URL to start crawling from (optional if config has crawl.url)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Scope:")
	fmt.Fprintln(w, "  -p, --pattern <s>         Only follow links containing this substring")
	fmt.Fprintln(w, "                            (default: the seed URL itself)")
	fmt.Fprintln(w, "  -d, --max-depth <n>       Link recursion depth from the seed (seed = 0)")
	fmt.Fprintln(w, "  -n, --max-pages <n>       Hard cap on pages to include")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel renderers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <s>         Per-page render timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --doc-title <s>       Document title (\"\" = derived from URL)")
	fmt.Fprintln(w, "      --doc-subtitle <s>    Cover subtitle")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (\"\" = derived from URL)")
	fmt.Fprintln(w, "      --no-individual       Discard per-page PDFs after merging")
	fmt.Fprintln(w, "      --no-organize         Keep per-page PDFs next to the merged document")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors and the merged path")
	fmt.Fprintln(w, "  -v, --verbose             Show per-page progress")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "crawl":
		printCrawlUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: site2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: site2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
