package script

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"time"

	"github.com/jacoelho/flame"
	"github.com/jacoelho/flame/internal/ratelimit"
	"github.com/jacoelho/flame/internal/template"
	"github.com/jacoelho/flame/tree"
	"github.com/theory/jsonpath"
)

// Options configures a Runner.
type Options struct {
	// Pacer limits operations per second. nil runs unpaced.
	Pacer *ratelimit.Pacer
	// Output receives one JSON line per executed step. nil discards.
	Output io.Writer
	// Logger receives step diagnostics. nil discards.
	Logger *slog.Logger
	// Variables seeds template data; captures are added as steps run.
	Variables map[string]any
}

// Runner executes scripts against a single store, carrying captured
// variables from one script to the next.
type Runner struct {
	store  *flame.Store
	pacer  *ratelimit.Pacer
	output io.Writer
	logger *slog.Logger
	vars   map[string]any
}

// New returns a runner for store.
func New(store *flame.Store, opts Options) *Runner {
	r := &Runner{
		store:  store,
		pacer:  opts.Pacer,
		output: opts.Output,
		logger: opts.Logger,
		vars:   maps.Clone(opts.Variables),
	}
	if r.vars == nil {
		r.vars = make(map[string]any)
	}
	if r.pacer == nil {
		r.pacer = ratelimit.New(0)
	}
	if r.output == nil {
		r.output = io.Discard
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r
}

// Variables returns a copy of the current template data.
func (r *Runner) Variables() map[string]any {
	return maps.Clone(r.vars)
}

// StepResult is the outcome of one step, written as a JSON line.
type StepResult struct {
	File   string     `json:"file,omitempty"`
	Step   int        `json:"step"`
	Name   string     `json:"name"`
	Op     string     `json:"op"`
	Path   string     `json:"path"`
	Result tree.Value `json:"result"`
	OK     bool       `json:"ok"`
	Error  string     `json:"error,omitempty"`
}

// Run executes steps in order. A failing step is recorded and execution
// continues with the next one. Run stops early only when ctx is done or the
// output cannot be written.
func (r *Runner) Run(ctx context.Context, file string, steps []Step) (*FileResult, error) {
	result := &FileResult{Filename: file}
	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
	}()

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := r.pacer.Wait(ctx); err != nil {
			return result, err
		}

		outcome := r.runStep(step)
		outcome.File = file
		outcome.Step = i + 1
		result.Steps++
		if !outcome.OK {
			result.Failures = append(result.Failures, Failure{Step: outcome.Step, Name: outcome.Name, Message: outcome.Error})
		}

		line, err := json.Marshal(outcome)
		if err != nil {
			return result, fmt.Errorf("encode step %d: %w", outcome.Step, err)
		}
		if _, err := fmt.Fprintf(r.output, "%s\n", line); err != nil {
			return result, fmt.Errorf("write step %d: %w", outcome.Step, err)
		}
	}
	return result, nil
}

func (r *Runner) runStep(step Step) StepResult {
	outcome := StepResult{Name: step.Label(), Op: step.Op, Path: step.Path}

	resolved, err := r.resolve(step)
	if err != nil {
		return r.fail(outcome, err)
	}
	outcome.Name, outcome.Path = resolved.Label(), resolved.Path

	value, err := r.execute(resolved)
	if err != nil {
		return r.fail(outcome, err)
	}

	if resolved.Select != "" {
		if value, err = selectPath(value, resolved.Select); err != nil {
			return r.fail(outcome, err)
		}
	}
	outcome.Result = value

	if resolved.Expect.Set && !tree.Equal(value, resolved.Expect.Value) {
		return r.fail(outcome, fmt.Errorf("%w: got %s, want %s", ErrExpectation, value, resolved.Expect.Value))
	}

	if resolved.Capture != "" {
		r.capture(resolved, value)
	}

	outcome.OK = true
	r.logger.Debug("step passed", "step", outcome.Name, "result", value)
	return outcome
}

func (r *Runner) fail(outcome StepResult, err error) StepResult {
	outcome.Error = err.Error()
	r.logger.Info("step failed", "step", outcome.Name, "error", err)
	return outcome
}

func (r *Runner) execute(step Step) (tree.Value, error) {
	switch flame.Op(step.Op) {
	case flame.OpGet:
		q, err := step.query()
		if err != nil {
			return tree.Null(), err
		}
		return r.store.Get(step.Path, q)
	case flame.OpPut:
		return r.store.Put(step.Path, step.Value.Value), nil
	case flame.OpPatch:
		return r.store.Patch(step.Path, step.Value.Value)
	case flame.OpPost:
		return r.store.Post(step.Path, step.Value.Value)
	case flame.OpDelete:
		return r.store.Remove(step.Path), nil
	default:
		return tree.Null(), fmt.Errorf("%w: unsupported op %q", ErrInvalidScript, step.Op)
	}
}

// capture stores the step result under step.Capture. A post without select
// captures the minted key.
func (r *Runner) capture(step Step, value tree.Value) {
	if flame.Op(step.Op) == flame.OpPost && step.Select == "" {
		if c, ok := value.AsContainer(); ok {
			value, _ = c.Get("name")
		}
	}
	r.vars[step.Capture] = value.Interface()
}

// resolve renders templates in the path, params and string leaves of the
// value, query and expectation.
func (r *Runner) resolve(step Step) (Step, error) {
	var err error
	if step.Name, err = template.Render("name", step.Name, r.vars); err != nil {
		return step, fmt.Errorf("name: %w", err)
	}
	if step.Path, err = template.Render("path", step.Path, r.vars); err != nil {
		return step, fmt.Errorf("path: %w", err)
	}
	if step.Params, err = template.Render("params", step.Params, r.vars); err != nil {
		return step, fmt.Errorf("params: %w", err)
	}
	if step.Value.Value, err = r.render(step.Value.Value); err != nil {
		return step, fmt.Errorf("value: %w", err)
	}
	if step.Query.Value, err = r.render(step.Query.Value); err != nil {
		return step, fmt.Errorf("query: %w", err)
	}
	if step.Expect.Value, err = r.render(step.Expect.Value); err != nil {
		return step, fmt.Errorf("expect: %w", err)
	}
	return step, nil
}

func (r *Runner) render(v tree.Value) (tree.Value, error) {
	if s, ok := v.AsString(); ok {
		out, err := template.Render("value", s, r.vars)
		if err != nil {
			return tree.Null(), err
		}
		return tree.String(out), nil
	}

	c, ok := v.AsContainer()
	if !ok {
		return v, nil
	}
	out := tree.NewContainer()
	out.SetSequence(c.IsSequence())
	for key, item := range c.All() {
		rendered, err := r.render(item)
		if err != nil {
			return tree.Null(), fmt.Errorf("%s: %w", key, err)
		}
		out.Set(key, rendered)
	}
	return tree.Object(out), nil
}

var errNoMatch = errors.New("select matched nothing")

// selectPath applies a JSONPath query. A single match is returned as is,
// several as a sequence.
func selectPath(v tree.Value, expr string) (tree.Value, error) {
	path, err := jsonpath.Parse(expr)
	if err != nil {
		return tree.Null(), fmt.Errorf("invalid select %s: %w", expr, err)
	}

	matches := path.Select(v.Interface())
	switch len(matches) {
	case 0:
		return tree.Null(), fmt.Errorf("%w: %s", errNoMatch, expr)
	case 1:
		return tree.FromAny(matches[0])
	default:
		return tree.FromAny([]any(matches))
	}
}
