// Package suggest offers "did you mean" hints when the VM fails to
// resolve a procedure name, using fuzzy string matching over the names
// actually defined in the running program.
package suggest

import "github.com/lithammer/fuzzysearch/fuzzy"

// Suggest returns the closest match to name among candidates, and whether
// one was found close enough to be worth surfacing. An empty candidate
// list, or no match within a reasonable edit distance, reports ok=false.
func Suggest(name string, candidates []string) (best string, ok bool) {
	if len(candidates) == 0 {
		return "", false
	}

	ranks := fuzzy.RankFindNormalizedFold(name, candidates)
	if len(ranks) == 0 {
		return "", false
	}

	closest := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < closest.Distance {
			closest = r
		}
	}

	// A distance past half the target's length is not a useful suggestion —
	// it's likely an unrelated name, not a typo.
	if closest.Distance > (len(name)/2)+1 {
		return "", false
	}

	return closest.Target, true
}
