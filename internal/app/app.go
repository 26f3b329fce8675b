package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "health":
		return runHealth(args[1:])
	case "analyze":
		return runAnalyze(args[1:])
	case "validate":
		return runValidate(args[1:])
	case "import":
		return runImport(args[1:])
	case "publish":
		return runPublish(args[1:])
	case "ingest":
		return runIngest(args[1:])
	case "consume":
		return runConsume(args[1:])
	case "report":
		return runReport(args[1:])
	case "digest":
		return runDigest(args[1:])
	case "serve":
		return runServe(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "trendscope CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  trendscope <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  health    Verify database connectivity")
	fmt.Fprintln(os.Stderr, "  analyze   Run the analyses over a JSON rows file (no database)")
	fmt.Fprintln(os.Stderr, "  validate  Validate JSON rows files against the row schema")
	fmt.Fprintln(os.Stderr, "  import    Validate a JSON rows file and upsert it into the store")
	fmt.Fprintln(os.Stderr, "  publish   Validate a JSON rows file and publish it to Kafka")
	fmt.Fprintln(os.Stderr, "  ingest    Collect configured feeds into the store")
	fmt.Fprintln(os.Stderr, "  consume   Upsert rows streamed from Kafka")
	fmt.Fprintln(os.Stderr, "  report    Print analyses over the most recent stored rows")
	fmt.Fprintln(os.Stderr, "  digest    Render the daily digest as HTML or Markdown")
	fmt.Fprintln(os.Stderr, "  serve     Start Echo API server")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"trendscope <command> -h\" for command-specific flags.")
}
