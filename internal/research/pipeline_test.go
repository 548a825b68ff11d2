package research

import (
	"context"
	"errors"
	"testing"
)

func TestContextWritesOnce(t *testing.T) {
	rc := NewContext()

	if err := rc.Set("query", "hello"); err != nil {
		t.Fatalf("first write must succeed: %v", err)
	}
	if err := rc.Set("query", "other"); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("second write must be rejected, got %v", err)
	}
	if v, ok := rc.Get("query"); !ok || v != "hello" {
		t.Errorf("original value must survive, got %q", v)
	}
}

func TestContextKeysKeepInsertionOrder(t *testing.T) {
	rc := NewContext()
	for _, k := range []string{"c", "a", "b"} {
		if err := rc.Set(k, k); err != nil {
			t.Fatal(err)
		}
	}

	keys := rc.Keys()
	want := []string{"c", "a", "b"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys out of order: %v", keys)
		}
	}
}

func echoStage(name string, reads, writes []string) Stage {
	return Stage{
		Name:   name,
		Writes: writes,
		Reads:  reads,
		Run: func(ctx context.Context, rc *Context) (map[string]string, error) {
			out := make(map[string]string)
			for _, w := range writes {
				out[w] = "from " + name
			}
			return out, nil
		},
	}
}

func TestPipelineRejectsReadBeforeWrite(t *testing.T) {
	_, err := NewPipeline([]string{"query"}, []Stage{
		echoStage("first", []string{"later"}, []string{"early"}),
		echoStage("second", nil, []string{"later"}),
	})
	if !errors.Is(err, ErrInvalidPipeline) {
		t.Fatalf("reading a key written later must fail composition, got %v", err)
	}
}

func TestPipelineRejectsWriteCollision(t *testing.T) {
	_, err := NewPipeline([]string{"query"}, []Stage{
		echoStage("first", nil, []string{"out"}),
		echoStage("second", nil, []string{"out"}),
	})
	if !errors.Is(err, ErrInvalidPipeline) {
		t.Fatalf("two stages writing one key must fail composition, got %v", err)
	}

	_, err = NewPipeline([]string{"query"}, []Stage{
		echoStage("first", nil, []string{"query"}),
	})
	if !errors.Is(err, ErrInvalidPipeline) {
		t.Fatalf("rewriting a seed key must fail composition, got %v", err)
	}
}

func TestPipelineRejectsStageWithoutWrites(t *testing.T) {
	_, err := NewPipeline(nil, []Stage{{Name: "noop", Run: func(ctx context.Context, rc *Context) (map[string]string, error) {
		return nil, nil
	}}})
	if !errors.Is(err, ErrInvalidPipeline) {
		t.Fatalf("a stage with no outputs must fail composition, got %v", err)
	}
}

func TestPipelineExecutesInOrder(t *testing.T) {
	p, err := NewPipeline([]string{"query"}, []Stage{
		echoStage("first", []string{"query"}, []string{"a"}),
		{
			Name:   "second",
			Reads:  []string{"a"},
			Writes: []string{"b"},
			Run: func(ctx context.Context, rc *Context) (map[string]string, error) {
				return map[string]string{"b": "saw " + rc.GetString("a")}, nil
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	report, err := p.Execute(context.Background(), map[string]string{"query": "q"})
	if err != nil {
		t.Fatal(err)
	}
	if got := report.Context.GetString("b"); got != "saw from first" {
		t.Errorf("second stage must see first stage output, got %q", got)
	}
	for _, st := range report.Stages {
		if !st.OK {
			t.Errorf("stage %s unexpectedly failed: %v", st.Name, st.Err)
		}
	}
}

func TestPipelineFailedStageLeavesPlaceholder(t *testing.T) {
	p, err := NewPipeline(nil, []Stage{
		{
			Name:        "broken",
			Writes:      []string{"out"},
			Placeholder: "nothing here",
			Run: func(ctx context.Context, rc *Context) (map[string]string, error) {
				return nil, errors.New("upstream down")
			},
		},
		{
			Name:   "after",
			Reads:  []string{"out"},
			Writes: []string{"final"},
			Run: func(ctx context.Context, rc *Context) (map[string]string, error) {
				return map[string]string{"final": rc.GetString("out")}, nil
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	report, err := p.Execute(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := report.Context.GetString("out"); got != "nothing here" {
		t.Errorf("failed stage must leave its placeholder, got %q", got)
	}
	if got := report.Context.GetString("final"); got != "nothing here" {
		t.Errorf("downstream stage must still run over the placeholder, got %q", got)
	}
	if report.Stages[0].OK || report.Stages[0].Err == nil {
		t.Errorf("failed stage must be reported as failed")
	}
	if !report.Stages[1].OK {
		t.Errorf("later stages must not be poisoned by an earlier failure")
	}
}

func TestPipelineRecoversFromPanic(t *testing.T) {
	p, err := NewPipeline(nil, []Stage{{
		Name:        "panicky",
		Writes:      []string{"out"},
		Placeholder: "fallback",
		Run: func(ctx context.Context, rc *Context) (map[string]string, error) {
			panic("boom")
		},
	}})
	if err != nil {
		t.Fatal(err)
	}

	report, err := p.Execute(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := report.Context.GetString("out"); got != "fallback" {
		t.Errorf("panicking stage must leave its placeholder, got %q", got)
	}
	if report.Stages[0].OK {
		t.Errorf("panicking stage must be reported as failed")
	}
}
