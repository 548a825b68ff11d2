package history

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nivesh.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndGetRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run := RunRecord{
		ID:     "run-1",
		Query:  "Tell me about Tata Motors stock",
		Kind:   "company",
		Entity: "Tata Motors",
		Ticker: "TATAMOTORS",
	}
	sections := []SectionRecord{
		{Title: "Company Introduction", Body: "intro"},
		{Title: "Investment Suggestion", Body: "suggestion"},
	}

	if err := s.SaveRun(ctx, run, sections); err != nil {
		t.Fatalf("save run: %v", err)
	}

	got, gotSections, err := s.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if got.Entity != "Tata Motors" || got.Status != StatusDone {
		t.Errorf("unexpected run: %+v", got.RunRecord)
	}
	if len(gotSections) != 2 || gotSections[0].Title != "Company Introduction" || gotSections[1].Seq != 2 {
		t.Errorf("sections out of order: %+v", gotSections)
	}
}

func TestSaveRunUpserts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run := RunRecord{ID: "run-1", Query: "q", Kind: "company", Status: StatusDegraded}
	if err := s.SaveRun(ctx, run, nil); err != nil {
		t.Fatal(err)
	}

	run.Status = StatusDone
	run.ReportPath = "/tmp/report.md"
	if err := s.SaveRun(ctx, run, nil); err != nil {
		t.Fatal(err)
	}

	got, _, err := s.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusDone || got.ReportPath != "/tmp/report.md" {
		t.Errorf("second save must replace the record: %+v", got.RunRecord)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := s.SaveRun(ctx, RunRecord{ID: id, Query: id, Kind: "sector"}, nil); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("limit not honored, got %d runs", len(runs))
	}
	if runs[0].ID != "c" {
		t.Errorf("newest run must come first, got %s", runs[0].ID)
	}
}

func TestGetMissingRun(t *testing.T) {
	s := openTestStore(t)
	if _, _, err := s.GetRun(context.Background(), "nope"); err == nil {
		t.Fatalf("missing run must error")
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatalf("empty path must be rejected")
	}
}
