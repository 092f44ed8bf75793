package parse

import (
	"context"
	"testing"
)

func TestNoopParser_ZeroConfidence(t *testing.T) {
	var p Parser = NoopParser{}

	for _, text := range []string{"", "Fotboll för Rafael på måndag 17:00", "lorem ipsum"} {
		got, err := p.Parse(context.Background(), text)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", text, err)
		}
		if got.Confidence != 0 {
			t.Errorf("Parse(%q).Confidence = %v, want 0", text, got.Confidence)
		}
		if got.Title != "" || got.PersonID != 0 || got.Date != "" {
			t.Errorf("Parse(%q) must return an empty result, got %+v", text, got)
		}
	}
}
