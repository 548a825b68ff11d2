package narrative

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type fakeChatModel struct {
	reply string
	err   error
}

func (f *fakeChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func TestGenerateJSONParsesFencedReply(t *testing.T) {
	c := NewClientWithModel(&fakeChatModel{
		reply: "```json\n{\"sector\": \"Defence\", \"search_query\": \"Indian defence stocks\"}\n```",
	})

	var out struct {
		Sector      string `json:"sector"`
		SearchQuery string `json:"search_query"`
	}
	if err := c.GenerateJSON(context.Background(), "identify the sector", &out); err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
	if out.Sector != "Defence" || out.SearchQuery != "Indian defence stocks" {
		t.Errorf("unexpected parse result: %+v", out)
	}
}

func TestGenerateJSONPaddedReply(t *testing.T) {
	c := NewClientWithModel(&fakeChatModel{
		reply: "Here is the answer: {\"is_negative\": true, \"summary\": \"probe underway\"} hope that helps",
	})

	var out struct {
		IsNegative bool   `json:"is_negative"`
		Summary    string `json:"summary"`
	}
	if err := c.GenerateJSON(context.Background(), "classify", &out); err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
	if !out.IsNegative || out.Summary != "probe underway" {
		t.Errorf("unexpected parse result: %+v", out)
	}
}

func TestGenerateJSONRejectsProse(t *testing.T) {
	c := NewClientWithModel(&fakeChatModel{reply: "I cannot answer that."})

	var out map[string]interface{}
	if err := c.GenerateJSON(context.Background(), "classify", &out); err == nil {
		t.Fatalf("expected error for non-JSON reply")
	}
}

func TestGenerateEmptyReply(t *testing.T) {
	c := NewClientWithModel(&fakeChatModel{reply: "   "})

	if _, err := c.Generate(context.Background(), "hello"); err == nil {
		t.Fatalf("expected error for empty reply")
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"{\"a\":1}":                    "{\"a\":1}",
		"```json\n{\"a\":1}\n```":      "{\"a\":1}",
		"```\n{\"a\":1}\n```":          "{\"a\":1}",
		"noise before {\"a\":1} after": "{\"a\":1}",
		"no json at all":               "no json at all",
	}
	for in, want := range cases {
		if got := stripCodeFences(in); got != want {
			t.Errorf("stripCodeFences(%q) = %q, want %q", in, got, want)
		}
	}
}
