// ABOUTME: Tests for CLI mode dispatch and the help output.
// ABOUTME: Exercises list, export, and generate error paths against a temp store.
package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/2389-research/storyboard/core"
	"github.com/2389-research/storyboard/server"
	"github.com/2389-research/storyboard/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestPrintHelp(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "1.2.3")
	out := buf.String()
	for _, want := range []string{"storyboard 1.2.3", "-serve", "-generate", "-tui", "GEMINI_API_KEY"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestEnvStatus(t *testing.T) {
	t.Setenv("STB_TEST_KEY", "x")
	if envStatus("STB_TEST_KEY") != "[set]" {
		t.Error("expected [set]")
	}
	t.Setenv("STB_TEST_KEY", "")
	if envStatus("STB_TEST_KEY") != "[not set]" {
		t.Error("expected [not set]")
	}
}

func TestRunListEmpty(t *testing.T) {
	st := openTestStore(t)
	if code := runList(st); code != 0 {
		t.Errorf("exit code = %d", code)
	}
}

func TestRunExportBadID(t *testing.T) {
	st := openTestStore(t)
	if code := runExport(st, "not-a-ulid", "markdown"); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestRunExportUnknownFormat(t *testing.T) {
	st := openTestStore(t)
	spec := core.NewSpec(core.Brief{Title: "T", Goal: "G", Users: "U", Constraints: "C"})
	if err := st.CreateSpecWithItems(spec, nil); err != nil {
		t.Fatalf("CreateSpecWithItems: %v", err)
	}
	if code := runExport(st, spec.ID.String(), "pdf"); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if code := runExport(st, spec.ID.String(), "markdown"); code != 0 {
		t.Errorf("markdown exit code = %d, want 0", code)
	}
}

func TestRunTUIBadID(t *testing.T) {
	st := openTestStore(t)
	if code := runTUI(st, "nope"); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestRunGenerateMissingFile(t *testing.T) {
	st := openTestStore(t)
	srvCfg := &server.Config{Home: t.TempDir(), Bind: "127.0.0.1:0"}
	if code := runGenerate(srvCfg, st, filepath.Join(t.TempDir(), "missing.yaml")); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}
