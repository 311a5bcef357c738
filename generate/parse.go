// ABOUTME: Decoding of untrusted model output at the generation boundary.
// ABOUTME: Strips code fences and decodes story/task JSON arrays, failing soft on bad shapes.
package generate

import (
	"encoding/json"
	"fmt"
	"strings"
)

// storyRecord is the decoded shape of one story-stage array element.
type storyRecord struct {
	Title   string `json:"title"`
	Details string `json:"details"`
}

// taskRecord is the decoded shape of one task-stage array element.
// ParentStoryTitle is accepted but not persisted; the persistence model
// carries no story-task relation.
type taskRecord struct {
	Title            string `json:"title"`
	Details          string `json:"details"`
	Category         string `json:"category"`
	ParentStoryTitle string `json:"parentStoryTitle"`
}

// stripCodeFences removes a surrounding markdown code fence (``` or
// ```json) from raw model output, if present.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop a language tag on the opening fence line.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first == "" || !strings.ContainsAny(first, "[{") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// decodeStories parses the story-stage output into records. Any decode
// failure or record without a title is an error; the caller soft-fails.
func decodeStories(raw string) ([]storyRecord, error) {
	var records []storyRecord
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &records); err != nil {
		return nil, fmt.Errorf("decode story payload: %w", err)
	}
	for i, r := range records {
		if strings.TrimSpace(r.Title) == "" {
			return nil, fmt.Errorf("story record %d has no title", i)
		}
	}
	return records, nil
}

// decodeTasks parses the task-stage output into records, with the same
// title requirement as decodeStories.
func decodeTasks(raw string) ([]taskRecord, error) {
	var records []taskRecord
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &records); err != nil {
		return nil, fmt.Errorf("decode task payload: %w", err)
	}
	for i, r := range records {
		if strings.TrimSpace(r.Title) == "" {
			return nil, fmt.Errorf("task record %d has no title", i)
		}
	}
	return records, nil
}
