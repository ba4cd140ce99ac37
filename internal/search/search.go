// Package search implements the weighted-ratio fuzzy matcher entity
// lookup runs on: a blend of plain, partial, token-sort, and token-set
// ratios scoring [0, 100], with no index maintained — a linear scan over
// entity names.
package search

import (
	"context"
	"sort"
	"strings"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/engine"
)

// MinScore is the floor below which a candidate is dropped.
const MinScore = 50

// Hit pairs a matched entity with its composite score, preserving the
// candidate's original scan order for the ties-broken-by-insertion-order
// rule.
type Hit struct {
	Entity domain.Entity
	Score  int
	order  int
}

// Find scores every candidate's name against query, optionally filtered
// to one entity kind, keeps scores >= MinScore, and returns the top k
// ordered by score descending with ties broken by insertion order.
func Find(ctx context.Context, eng engine.Engine, query string, kind domain.EntityType, topK int) ([]Hit, error) {
	entities, err := eng.AllEntities(ctx)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(entities))
	for i, e := range entities {
		if kind != "" && e.EntityType != kind {
			continue
		}
		score := weightedRatio(query, e.Name)
		if score < MinScore {
			continue
		}
		hits = append(hits, Hit{Entity: e, Score: score, order: i})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].order < hits[j].order
	})
	if topK > 0 && topK < len(hits) {
		hits = hits[:topK]
	}
	return hits, nil
}

// weightedRatio blends the four component ratios into a single [0, 100]
// score, taking the strongest signal the way fuzzywuzzy-style matchers
// do: exact/near-exact matches are plain-ratio dominated, substring
// matches are partial-ratio dominated, and word-order-insensitive matches
// are caught by the token variants.
func weightedRatio(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return 100
	}

	scores := []int{
		plainRatio(a, b),
		partialRatio(a, b),
		tokenSortRatio(a, b),
		tokenSetRatio(a, b),
	}
	best := 0
	for _, s := range scores {
		if s > best {
			best = s
		}
	}
	return best
}

func plainRatio(a, b string) int {
	return ratioFromDistance(a, b, levenshtein(a, b))
}

// partialRatio finds the best-aligned substring of the longer string
// against the shorter one, so "acme corp" scores high against "acme
// corporation international".
func partialRatio(a, b string) int {
	shorter, longer := a, b
	if len(a) > len(b) {
		shorter, longer = b, a
	}
	if len(shorter) == 0 {
		return 0
	}
	maxStart := len(longer) - len(shorter)
	best := 0
	for i := 0; i <= maxStart; i++ {
		window := longer[i : i+len(shorter)]
		if score := ratioFromDistance(shorter, window, levenshtein(shorter, window)); score > best {
			best = score
		}
	}
	return best
}

func tokenSortRatio(a, b string) int {
	return plainRatio(sortedTokens(a), sortedTokens(b))
}

func tokenSetRatio(a, b string) int {
	setA := tokenSet(a)
	setB := tokenSet(b)
	inter, onlyA, onlyB := intersectTokens(setA, setB)

	sortedInter := strings.Join(inter, " ")
	combinedA := strings.TrimSpace(sortedInter + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(sortedInter + " " + strings.Join(onlyB, " "))

	best := plainRatio(sortedInter, combinedA)
	if s := plainRatio(sortedInter, combinedB); s > best {
		best = s
	}
	if s := plainRatio(combinedA, combinedB); s > best {
		best = s
	}
	return best
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, t := range strings.Fields(s) {
		out[t] = struct{}{}
	}
	return out
}

func intersectTokens(a, b map[string]struct{}) (inter, onlyA, onlyB []string) {
	for t := range a {
		if _, ok := b[t]; ok {
			inter = append(inter, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range b {
		if _, ok := a[t]; !ok {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(inter)
	sort.Strings(onlyA)
	sort.Strings(onlyB)
	return
}

func ratioFromDistance(a, b string, dist int) int {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 100
	}
	return int(100 * (1 - float64(dist)/float64(maxLen)))
}

// levenshtein computes the classic edit distance with a single rolling
// row, O(len(a)*len(b)) time and O(len(b)) space.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	cur := make([]int, lb+1)

	for i := 1; i <= la; i++ {
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			cur[j] = min3(del, ins, sub)
		}
		prev, cur = cur, prev
	}
	return prev[lb]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
