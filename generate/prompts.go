// ABOUTME: Prompt assembly for the two-stage backlog generation.
// ABOUTME: Fixed system instructions plus a pure brief-prompt builder.
package generate

import (
	"fmt"
	"strings"

	"github.com/2389-research/storyboard/core"
)

// StoryInstruction is the fixed system instruction for the story-generation
// stage. It constrains output to a JSON array of STORY records.
const StoryInstruction = `You are a Senior Product Manager. Your task is to analyze a feature idea and generate a list of high-impact User Stories.

Input: A feature goal, target users, and technical constraints.

Rules:

Use the format: "As a [user], I want to [action] so that [benefit]."

Ensure stories cover the "Happy Path" and at least one "Edge Case."

Response Format (JSON ONLY):

[
  {
    "title": "Short Story Name",
    "details": "As a...",
    "type": "STORY"
  }
]`

// TaskInstruction is the fixed system instruction for the task-generation
// stage. It constrains output to a JSON array of TASK records grounded in
// the first stage's user stories.
const TaskInstruction = `You are a Lead Software Engineer. You are conducting a technical grooming session based on User Stories provided by your PM.

Your Process:

Analyze: Look at the User Stories and the original Feature Idea.

Initial Draft: Think of the basic tasks needed to build this.

Critique & Expand: Review your internal draft. Are you missing database migrations? Input validation? Loading states? Error handling? Security?

Output: Generate a final, granular list of 4-6 technical tasks for EACH user story.

Rules:

Tasks must be technical and actionable (e.g., "Implement schema for X" instead of "Setup database").

Reference the parentStoryTitle for each task to maintain the relationship.

Response Format (JSON ONLY):

[
  {
    "title": "Technical Task Name",
    "details": "Specific implementation detail...",
    "category": "API",
    "type": "TASK",
    "parentStoryTitle": "Title of the Story this belongs to"
  }
]`

// BriefPrompt builds the prompt body from a brief, embedding every field
// verbatim. When stories is non-empty (the task stage), the story-stage raw
// output is appended under a labeled section so task generation is grounded
// in the generated stories. Pure and deterministic.
func BriefPrompt(b core.Brief, stories string) string {
	var sb strings.Builder
	sb.WriteString("Below are the in-depth details of the project.\n")
	fmt.Fprintf(&sb, "Title: %s\n", b.Title)
	fmt.Fprintf(&sb, "Project Goals: %s\n", b.Goal)
	fmt.Fprintf(&sb, "Target Users: %s\n", b.Users)
	fmt.Fprintf(&sb, "Constraints: %s\n", b.Constraints)
	if b.Risks != "" {
		fmt.Fprintf(&sb, "Risks: %s\n", b.Risks)
	}
	if stories != "" {
		fmt.Fprintf(&sb, "\nUser Stories: %s\n", stories)
	}
	return sb.String()
}
