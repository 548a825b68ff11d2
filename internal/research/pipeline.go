package research

import (
	"context"
	"fmt"
	"log"
)

// Stage is one unit of the research workflow. Reads and Writes declare its
// contract against the shared context; Run produces the values for every
// key in Writes. Placeholder is substituted for any output the stage fails
// to produce, so downstream stages always find their inputs.
type Stage struct {
	Name        string
	Title       string
	Reads       []string
	Writes      []string
	Placeholder string
	Run         func(ctx context.Context, rc *Context) (map[string]string, error)
}

// StageStatus records how one stage ended. A failed stage still leaves
// placeholder output behind, so Err is informational, not fatal.
type StageStatus struct {
	Name string
	OK   bool
	Err  error
}

// RunReport is the outcome of Execute: the grown context plus the per-stage
// record of what succeeded and what degraded.
type RunReport struct {
	Context *Context
	Stages  []StageStatus
}

// Pipeline is a validated, ordered sequence of stages over a shared
// context.
type Pipeline struct {
	seed   []string
	stages []Stage
}

// NewPipeline validates the stage sequence against the seed keys: every
// key a stage reads must be a seed key or written by a strictly earlier
// stage, and no key may be written twice. Wiring mistakes surface here,
// before any stage runs.
func NewPipeline(seedKeys []string, stages []Stage) (*Pipeline, error) {
	available := make(map[string]bool, len(seedKeys))
	for _, k := range seedKeys {
		if available[k] {
			return nil, fmt.Errorf("%w: duplicate seed key %q", ErrInvalidPipeline, k)
		}
		available[k] = true
	}

	for _, st := range stages {
		if st.Name == "" || st.Run == nil {
			return nil, fmt.Errorf("%w: stage missing name or run func", ErrInvalidPipeline)
		}
		if len(st.Writes) == 0 {
			return nil, fmt.Errorf("%w: stage %q writes nothing", ErrInvalidPipeline, st.Name)
		}
		for _, k := range st.Reads {
			if !available[k] {
				return nil, fmt.Errorf("%w: stage %q reads %q before it is written", ErrInvalidPipeline, st.Name, k)
			}
		}
		for _, k := range st.Writes {
			if available[k] {
				return nil, fmt.Errorf("%w: stage %q rewrites %q", ErrInvalidPipeline, st.Name, k)
			}
			available[k] = true
		}
	}

	return &Pipeline{seed: append([]string(nil), seedKeys...), stages: stages}, nil
}

// Execute seeds the context and runs every stage in order. A stage that
// errors or panics has its declared outputs filled with its placeholder
// and the run continues; the pipeline itself always completes.
func (p *Pipeline) Execute(ctx context.Context, seed map[string]string) (*RunReport, error) {
	rc := NewContext()
	for _, k := range p.seed {
		if err := rc.Set(k, seed[k]); err != nil {
			return nil, err
		}
	}

	report := &RunReport{Context: rc}
	for _, st := range p.stages {
		status := StageStatus{Name: st.Name, OK: true}

		out, err := runStage(ctx, st, rc)
		if err != nil {
			log.Printf("[research] stage %s failed: %v", st.Name, err)
			status.OK = false
			status.Err = err
		}

		for _, k := range st.Writes {
			v, ok := out[k]
			if !ok || v == "" {
				v = st.Placeholder
			}
			if err := rc.Set(k, v); err != nil {
				return nil, err
			}
		}

		report.Stages = append(report.Stages, status)
	}

	return report, nil
}

func runStage(ctx context.Context, st Stage, rc *Context) (out map[string]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("stage %s panicked: %v", st.Name, r)
		}
	}()
	return st.Run(ctx, rc)
}
