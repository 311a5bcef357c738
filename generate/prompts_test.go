// ABOUTME: Tests for prompt assembly: field embedding, risks omission, story section.
// ABOUTME: Also pins determinism of the pure builder.
package generate

import (
	"strings"
	"testing"

	"github.com/2389-research/storyboard/core"
)

func TestBriefPromptEmbedsFields(t *testing.T) {
	b := core.Brief{Title: "X", Goal: "G", Users: "U", Constraints: "C", Risks: "R"}
	p := BriefPrompt(b, "")

	for _, want := range []string{"Title: X", "Project Goals: G", "Target Users: U", "Constraints: C", "Risks: R"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}
	if strings.Contains(p, "User Stories:") {
		t.Error("story section should be absent without prior-stage output")
	}
}

func TestBriefPromptOmitsEmptyRisks(t *testing.T) {
	b := core.Brief{Title: "X", Goal: "G", Users: "U", Constraints: "C"}
	if strings.Contains(BriefPrompt(b, ""), "Risks:") {
		t.Error("empty risks should not produce a Risks section")
	}
}

func TestBriefPromptAppendsStories(t *testing.T) {
	b := core.Brief{Title: "X", Goal: "G", Users: "U", Constraints: "C"}
	raw := `[{"title":"S1"}]`
	p := BriefPrompt(b, raw)
	if !strings.Contains(p, "User Stories: "+raw) {
		t.Errorf("prompt missing labeled story section:\n%s", p)
	}
}

func TestBriefPromptDeterministic(t *testing.T) {
	b := core.Brief{Title: "X", Goal: "G", Users: "U", Constraints: "C", Risks: "R"}
	if BriefPrompt(b, "s") != BriefPrompt(b, "s") {
		t.Error("BriefPrompt is not deterministic")
	}
}
