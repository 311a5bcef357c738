// ABOUTME: CLI entrypoint for storyboard with serve, generate, tui, list, and export modes.
// ABOUTME: Wires together the store, model gateway, web server, and terminal UI with signal handling.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	"github.com/2389-research/storyboard/board"
	"github.com/2389-research/storyboard/core"
	"github.com/2389-research/storyboard/export"
	"github.com/2389-research/storyboard/generate"
	"github.com/2389-research/storyboard/llm"
	"github.com/2389-research/storyboard/server"
	"github.com/2389-research/storyboard/store"
	"github.com/2389-research/storyboard/tui"
	"github.com/2389-research/storyboard/web"
)

var version = "dev"

// cliConfig holds all CLI configuration parsed from flags and positional arguments.
type cliConfig struct {
	serve        bool
	generateFile string
	tuiSpec      string
	list         bool
	exportSpec   string
	format       string
	bind         string
	home         string
	showVersion  bool
}

func main() {
	if err := server.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	cfg := parseFlags()

	if cfg.showVersion {
		fmt.Printf("storyboard %s\n", version)
		os.Exit(0)
	}

	os.Exit(run(cfg))
}

// parseFlags parses command-line flags and returns a populated cliConfig.
func parseFlags() cliConfig {
	var cfg cliConfig

	fs := flag.NewFlagSet("storyboard", flag.ContinueOnError)
	fs.BoolVar(&cfg.serve, "serve", false, "Start the web UI")
	fs.StringVar(&cfg.generateFile, "generate", "", "Generate a backlog from a YAML brief file")
	fs.StringVar(&cfg.tuiSpec, "tui", "", "Open a spec's board in the terminal")
	fs.BoolVar(&cfg.list, "list", false, "List generated specs")
	fs.StringVar(&cfg.exportSpec, "export", "", "Print a spec's backlog to stdout")
	fs.StringVar(&cfg.format, "format", "markdown", "Export format: markdown, yaml")
	fs.StringVar(&cfg.bind, "bind", "", "Listen address (default: 127.0.0.1:7870)")
	fs.StringVar(&cfg.home, "home", "", "Data directory (default: ~/.storyboard)")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		printHelp(os.Stderr, version)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	return cfg
}

// run dispatches to the appropriate mode based on the config.
// Returns an exit code: 0 for success, 1 for failure.
func run(cfg cliConfig) int {
	// Flag overrides take precedence over the environment; config validation
	// happens once, in ConfigFromEnv.
	if cfg.bind != "" {
		_ = os.Setenv("STORYBOARD_BIND", cfg.bind)
	}
	if cfg.home != "" {
		_ = os.Setenv("STORYBOARD_HOME", cfg.home)
	}

	srvCfg, err := server.ConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if err := os.MkdirAll(srvCfg.Home, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: create data directory: %v\n", err)
		return 1
	}

	st, err := store.Open(srvCfg.DBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: open store: %v\n", err)
		return 1
	}
	defer func() { _ = st.Close() }()

	switch {
	case cfg.serve:
		return runServe(srvCfg, st)
	case cfg.generateFile != "":
		return runGenerate(srvCfg, st, cfg.generateFile)
	case cfg.tuiSpec != "":
		return runTUI(st, cfg.tuiSpec)
	case cfg.list:
		return runList(st)
	case cfg.exportSpec != "":
		return runExport(st, cfg.exportSpec, cfg.format)
	}

	printHelp(os.Stderr, version)
	return 0
}

// runServe starts the web server and blocks until SIGINT/SIGTERM, then shuts
// down gracefully.
func runServe(srvCfg *server.Config, st *store.Store) int {
	gateway, err := llm.FromEnv(srvCfg.Model)
	if err != nil {
		var cfgErr *llm.ConfigurationError
		if !errors.As(err, &cfgErr) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		// No API key: the board still works, generation is disabled.
		fmt.Fprintln(os.Stderr, "warning: no API key found, backlog generation disabled")
		gateway = nil
	}

	webSrv, err := web.NewServer(srvCfg, st, gateway)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	httpSrv := &http.Server{
		Addr:              srvCfg.Bind,
		Handler:           webSrv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("storyboard listening on http://%s\n", srvCfg.Bind)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	case <-ctx.Done():
		fmt.Println("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "error: shutdown: %v\n", err)
			return 1
		}
	}
	return 0
}

// runGenerate reads a YAML brief file and runs the two-stage generation pipeline.
func runGenerate(srvCfg *server.Config, st *store.Store, briefPath string) int {
	data, err := os.ReadFile(briefPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	var brief core.Brief
	if err := yaml.Unmarshal(data, &brief); err != nil {
		fmt.Fprintf(os.Stderr, "error: parse brief: %v\n", err)
		return 1
	}

	gateway, err := llm.FromEnv(srvCfg.Model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Set GEMINI_API_KEY or OPENAI_API_KEY to generate backlogs.")
		return 1
	}

	pipeline := generate.NewPipeline(gateway, st)
	res, err := pipeline.Generate(context.Background(), brief)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if !res.Success {
		fmt.Fprintln(os.Stderr, "error: the model returned output that could not be parsed; nothing was saved")
		return 1
	}

	fmt.Printf("generated spec %s\n", res.SpecID)
	fmt.Printf("view it with: storyboard -tui %s\n", res.SpecID)
	return 0
}

// runTUI opens one spec's board in the terminal.
func runTUI(st *store.Store, rawID string) int {
	specID, err := ulid.Parse(rawID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid spec id %q\n", rawID)
		return 1
	}
	spec, err := st.GetSpec(specID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	engine, err := board.NewEngine(specID, st)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	p := tea.NewProgram(tui.NewBoardModel(spec, engine), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runList prints all specs, newest first.
func runList(st *store.Store) int {
	specs, err := st.ListSpecs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if len(specs) == 0 {
		fmt.Println("no specs yet; run storyboard -generate <brief.yaml>")
		return 0
	}
	for _, spec := range specs {
		fmt.Printf("%s  %s  %s\n", spec.ID, spec.CreatedAt.Local().Format("2006-01-02 15:04"), spec.Title)
	}
	return 0
}

// runExport prints one spec's backlog to stdout in the requested format.
func runExport(st *store.Store, rawID, format string) int {
	specID, err := ulid.Parse(rawID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid spec id %q\n", rawID)
		return 1
	}
	spec, err := st.GetSpec(specID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	items, err := st.ListWorkItems(specID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	switch format {
	case "markdown":
		fmt.Print(export.ExportMarkdown(spec, items))
	case "yaml":
		out, err := export.ExportYAML(spec, items)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		fmt.Print(out)
	default:
		fmt.Fprintf(os.Stderr, "error: unknown format %q (markdown, yaml)\n", format)
		return 1
	}
	return 0
}
