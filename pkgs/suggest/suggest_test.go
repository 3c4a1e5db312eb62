package suggest_test

import (
	"testing"

	"github.com/loomscript/loom/pkgs/suggest"
)

func TestSuggestFindsClosestTypo(t *testing.T) {
	best, ok := suggest.Suggest("greting", []string{"greeting", "farewell"})
	if !ok {
		t.Fatal("expected a suggestion")
	}
	if best != "greeting" {
		t.Fatalf("got %q, want %q", best, "greeting")
	}
}

func TestSuggestReturnsNothingForEmptyCandidates(t *testing.T) {
	_, ok := suggest.Suggest("anything", nil)
	if ok {
		t.Fatal("expected no suggestion with no candidates")
	}
}

func TestSuggestRejectsUnrelatedNames(t *testing.T) {
	_, ok := suggest.Suggest("ab", []string{"completelyDifferentProcedureName"})
	if ok {
		t.Fatal("expected no suggestion for an unrelated name")
	}
}
