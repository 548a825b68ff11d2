package dataflows

import (
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("transient")

func TestCacheManagerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cm := NewCacheManager(dir, time.Hour, true)

	type payload struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	in := payload{Name: "RELIANCE", Price: 2870.5}

	if err := cm.Set("yahoo", "quote", "RELIANCE.NS", in); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out payload
	if !cm.Get("yahoo", "quote", "RELIANCE.NS", &out) {
		t.Fatalf("expected cache hit")
	}
	if out != in {
		t.Errorf("cache round trip mismatch: got %+v, want %+v", out, in)
	}

	if cm.Get("yahoo", "quote", "TCS.NS", &out) {
		t.Errorf("expected miss for different params")
	}
}

func TestCacheManagerDisabled(t *testing.T) {
	dir := t.TempDir()
	cm := NewCacheManager(dir, time.Hour, false)

	if err := cm.Set("yahoo", "quote", "INFY.NS", map[string]string{"a": "b"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out map[string]string
	if cm.Get("yahoo", "quote", "INFY.NS", &out) {
		t.Errorf("disabled cache must never hit")
	}
}

func TestCacheManagerExpiry(t *testing.T) {
	dir := t.TempDir()
	cm := NewCacheManager(dir, -time.Second, true)

	if err := cm.Set("yahoo", "quote", "HDFC.NS", "value"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out string
	if cm.Get("yahoo", "quote", "HDFC.NS", &out) {
		t.Errorf("expired entry must miss")
	}
}

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}

	attempts := 0
	err := WithRetry(cfg, func() error {
		attempts++
		if attempts < 3 {
			return errTransient
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithRetry: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithRetryExhausts(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}

	attempts := 0
	err := WithRetry(cfg, func() error {
		attempts++
		return errTransient
	})
	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestNormalizeTicker(t *testing.T) {
	cases := map[string]string{
		"reliance":    "RELIANCE",
		" TCS.NS ":    "TCS",
		"INFY.BO":     "INFY",
		"TATAMOTORS":  "TATAMOTORS",
		"hdfcbank.ns": "HDFCBANK",
	}
	for in, want := range cases {
		if got := NormalizeTicker(in); got != want {
			t.Errorf("NormalizeTicker(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStripHTMLTags(t *testing.T) {
	in := `<a href="x">Adani&nbsp;Group</a> faces <b>probe</b> &amp; review`
	want := "Adani Group faces probe & review"
	if got := stripHTMLTags(in); got != want {
		t.Errorf("stripHTMLTags = %q, want %q", got, want)
	}
}
