package vocab

import (
	"math/rand/v2"
	"testing"

	"github.com/ktnk/toeiq/internal/history"
)

func TestBuildChoices_CorrectAtZero(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	choices, idx, id := BuildChoices(rng, "交渉する", "動詞")

	if len(choices) != 4 {
		t.Fatalf("expected 4 choices, got %d", len(choices))
	}
	if idx != 0 || choices[0] != "交渉する" {
		t.Fatalf("correct meaning must be at index 0, got %v (idx %d)", choices, idx)
	}
	if id != history.WordID("交渉する") {
		t.Fatal("word ID must be derived from the meaning")
	}
}

func TestBuildChoices_NoDuplicates(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	choices, _, _ := BuildChoices(rng, "収益", "名詞")

	seen := map[string]bool{}
	for _, c := range choices {
		if c == placeholderChoice {
			continue
		}
		if seen[c] {
			t.Fatalf("duplicate choice %q in %v", c, choices)
		}
		seen[c] = true
	}
}

func TestBuildChoices_UnknownPOSFallsBack(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	choices, _, _ := BuildChoices(rng, "特別な意味", "存在しない品詞")

	if len(choices) != 4 {
		t.Fatalf("expected 4 choices, got %d", len(choices))
	}
	if choices[0] != "特別な意味" {
		t.Fatalf("correct meaning must survive the fallback, got %v", choices)
	}
}

func TestBuildChoices_EmptyCorrect(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	choices, idx, _ := BuildChoices(rng, "", "名詞")
	if choices != nil || idx != 0 {
		t.Fatalf("expected empty result, got %v", choices)
	}
}
