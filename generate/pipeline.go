// ABOUTME: Two-stage generation pipeline: brief -> stories -> tasks -> atomic persist.
// ABOUTME: Gateway failures are hard errors; malformed model output is a reported soft failure.
package generate

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/2389-research/storyboard/core"
	"github.com/2389-research/storyboard/llm"
	"github.com/2389-research/storyboard/store"
)

// Stage labels for generation failures.
const (
	StageStories = "stories"
	StageTasks   = "tasks"
)

// GenerationError is a hard pipeline failure: the gateway errored or
// returned an empty result at one of the two stages. Nothing is persisted.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed at %s stage: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("generation failed at %s stage: empty model output", e.Stage)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one Generate call. Success false with a nil
// error is the soft-failure path: both model calls completed but the output
// could not be decoded, and nothing was persisted.
type Result struct {
	Success bool
	SpecID  ulid.ULID
}

// Pipeline orchestrates the two sequential model calls and the atomic
// persist. The task stage is conditioned on the story stage's raw output,
// so the calls cannot run in parallel.
type Pipeline struct {
	gateway llm.Gateway
	store   *store.Store
}

// NewPipeline creates a Pipeline over a gateway and a store.
func NewPipeline(gateway llm.Gateway, st *store.Store) *Pipeline {
	return &Pipeline{gateway: gateway, store: st}
}

// Generate turns a brief into a persisted spec with ordered work items.
//
// Stage failures (transport errors, empty model output) return a
// *GenerationError and persist nothing. Decode failures after both stages
// succeed return Result{Success: false} with a nil error, also persisting
// nothing; the caller decides how to present the retryable condition. On
// success the spec and every item are committed in one transaction:
// stories at order 0..S-1, tasks at order S..S+T-1, all in TODO.
func (p *Pipeline) Generate(ctx context.Context, brief core.Brief) (Result, error) {
	if err := brief.Validate(); err != nil {
		return Result{}, err
	}

	storyRaw, err := p.gateway.Invoke(ctx, StoryInstruction, BriefPrompt(brief, ""))
	if err != nil {
		return Result{}, &GenerationError{Stage: StageStories, Err: err}
	}
	if strings.TrimSpace(storyRaw) == "" {
		return Result{}, &GenerationError{Stage: StageStories}
	}

	taskRaw, err := p.gateway.Invoke(ctx, TaskInstruction, BriefPrompt(brief, storyRaw))
	if err != nil {
		return Result{}, &GenerationError{Stage: StageTasks, Err: err}
	}
	if strings.TrimSpace(taskRaw) == "" {
		return Result{}, &GenerationError{Stage: StageTasks}
	}

	stories, err := decodeStories(storyRaw)
	if err != nil {
		log.Printf("generate soft-fail stage=%s err=%v", StageStories, err)
		return Result{Success: false}, nil
	}
	tasks, err := decodeTasks(taskRaw)
	if err != nil {
		log.Printf("generate soft-fail stage=%s err=%v", StageTasks, err)
		return Result{Success: false}, nil
	}

	spec := core.NewSpec(brief)
	items := make([]core.WorkItem, 0, len(stories)+len(tasks))
	for i, s := range stories {
		items = append(items, core.NewWorkItem(spec.ID, core.TypeStory, s.Title, s.Details, "", i))
	}
	for i, t := range tasks {
		items = append(items, core.NewWorkItem(spec.ID, core.TypeTask, t.Title, t.Details, t.Category, len(stories)+i))
	}

	if err := p.store.CreateSpecWithItems(spec, items); err != nil {
		return Result{}, fmt.Errorf("persist generated spec: %w", err)
	}

	log.Printf("generate ok spec=%s provider=%s stories=%d tasks=%d",
		spec.ID, p.gateway.Name(), len(stories), len(tasks))
	return Result{Success: true, SpecID: spec.ID}, nil
}
