// ABOUTME: Help display for the storyboard CLI with grouped flags, examples, and environment status.
// ABOUTME: Provides printHelp for usage output and envStatus for API key detection.
package main

import (
	"fmt"
	"io"
	"os"
)

const boardASCII = `
  ┌─────────┬─────────┬─────────┐
  │ TO DO   │ DOING   │ DONE    │
  ├─────────┼─────────┼─────────┤
  │ ▒▒▒▒▒▒  │ ▒▒▒▒    │ ▒▒▒▒▒   │
  │ ▒▒▒▒    │         │ ▒▒▒     │
  │ ▒▒▒▒▒   │         │         │
  └─────────┴─────────┴─────────┘
`

// printHelp writes a formatted help message to w, including usage patterns,
// grouped flags, examples, and environment status.
func printHelp(w io.Writer, ver string) {
	fmt.Fprint(w, boardASCII)
	fmt.Fprintf(w, "storyboard %s — brief-to-backlog generator and kanban board\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  storyboard -serve                   Start the web UI")
	fmt.Fprintln(w, "  storyboard -generate <brief.yaml>   Generate a backlog from a brief file")
	fmt.Fprintln(w, "  storyboard -tui <spec-id>           Open a spec's board in the terminal")
	fmt.Fprintln(w, "  storyboard -list                    List generated specs")
	fmt.Fprintln(w, "  storyboard -export <spec-id>        Print a spec's backlog to stdout")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -bind <addr>          Listen address (default: 127.0.0.1:7870)")
	fmt.Fprintln(w, "  -home <dir>           Data directory (default: ~/.storyboard)")
	fmt.Fprintln(w, "  -format <fmt>         Export format: markdown, yaml (default: markdown)")
	fmt.Fprintln(w, "  -version              Print version and exit")
	fmt.Fprintln(w, "  -help                 Show this help")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  storyboard -serve")
	fmt.Fprintln(w, "  storyboard -serve -bind 127.0.0.1:9000")
	fmt.Fprintln(w, "  storyboard -generate brief.yaml")
	fmt.Fprintln(w, "  storyboard -export 01JC0Z -format yaml > backlog.yaml")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  GEMINI_API_KEY        %s\n", envStatus("GEMINI_API_KEY"))
	fmt.Fprintf(w, "  OPENAI_API_KEY        %s\n", envStatus("OPENAI_API_KEY"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  One API key is required for backlog generation.")
	fmt.Fprintln(w, "  Server settings: STORYBOARD_HOME, STORYBOARD_BIND,")
	fmt.Fprintln(w, "  STORYBOARD_ALLOW_REMOTE, STORYBOARD_AUTH_TOKEN, STORYBOARD_MODEL.")
}

// envStatus returns "[set]" if the named environment variable is non-empty,
// or "[not set]" otherwise.
func envStatus(key string) string {
	if os.Getenv(key) != "" {
		return "[set]"
	}
	return "[not set]"
}
