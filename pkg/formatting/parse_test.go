package formatting_test

import (
	"errors"
	"testing"

	"github.com/lectio-edu/lectio/pkg/formatting"
)

type sample struct {
	Approved bool   `json:"approved"`
	Feedback string `json:"feedback"`
}

func TestParse(t *testing.T) {
	t.Run("direct JSON", func(t *testing.T) {
		got, err := formatting.Parse[sample](`{"approved":true,"feedback":"looks good"}`)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if !got.Approved || got.Feedback != "looks good" {
			t.Errorf("Parse = %+v", got)
		}
	})

	t.Run("direct JSON with whitespace", func(t *testing.T) {
		got, err := formatting.Parse[sample](`  {"approved":true,"feedback":"padded"}  `)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Feedback != "padded" {
			t.Errorf("Feedback = %q, want padded", got.Feedback)
		}
	})

	t.Run("markdown fenced JSON", func(t *testing.T) {
		input := "```json\n{\"approved\":false,\"feedback\":\"fenced\"}\n```"
		got, err := formatting.Parse[sample](input)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Approved || got.Feedback != "fenced" {
			t.Errorf("Parse = %+v", got)
		}
	})

	t.Run("markdown fenced without language tag", func(t *testing.T) {
		input := "```\n{\"approved\":true,\"feedback\":\"bare\"}\n```"
		got, err := formatting.Parse[sample](input)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Feedback != "bare" {
			t.Errorf("Feedback = %q, want bare", got.Feedback)
		}
	})

	t.Run("markdown fenced with surrounding text", func(t *testing.T) {
		input := "Here is my assessment:\n```json\n{\"approved\":true,\"feedback\":\"wrapped\"}\n```\nDone."
		got, err := formatting.Parse[sample](input)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got.Feedback != "wrapped" {
			t.Errorf("Feedback = %q, want wrapped", got.Feedback)
		}
	})

	t.Run("invalid content returns ErrParseFailed", func(t *testing.T) {
		_, err := formatting.Parse[sample]("not json at all")
		if !errors.Is(err, formatting.ErrParseFailed) {
			t.Errorf("error = %v, want ErrParseFailed", err)
		}
	})

	t.Run("empty string returns ErrParseFailed", func(t *testing.T) {
		_, err := formatting.Parse[sample]("")
		if !errors.Is(err, formatting.ErrParseFailed) {
			t.Errorf("error = %v, want ErrParseFailed", err)
		}
	})

	t.Run("invalid JSON in code fence returns ErrParseFailed", func(t *testing.T) {
		input := "```json\n{broken\n```"
		_, err := formatting.Parse[sample](input)
		if !errors.Is(err, formatting.ErrParseFailed) {
			t.Errorf("error = %v, want ErrParseFailed", err)
		}
	})

	t.Run("parses into map type", func(t *testing.T) {
		got, err := formatting.Parse[map[string]any](`{"key":"value"}`)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if got["key"] != "value" {
			t.Errorf("got[key] = %v, want value", got["key"])
		}
	})

	t.Run("parses into slice type", func(t *testing.T) {
		got, err := formatting.Parse[[]int](`[1,2,3]`)
		if err != nil {
			t.Fatalf("Parse error: %v", err)
		}
		if len(got) != 3 || got[0] != 1 || got[2] != 3 {
			t.Errorf("got = %v, want [1 2 3]", got)
		}
	})
}
