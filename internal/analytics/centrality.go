package analytics

import (
	"context"
	"sort"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/engine"
)

// Scored pairs an entity id/name with a computed metric score, the
// uniform return shape for every top-N centrality query.
type Scored struct {
	ID    string
	Name  string
	Score float64
}

// undirectedAdjacency builds a plain adjacency list over every entity,
// deduplicating multi-edges between the same pair, since every measure
// in this file operates on the undirected projection.
func undirectedAdjacency(ctx context.Context, eng engine.Engine) ([]domain.Entity, map[string][]string, error) {
	entities, err := eng.AllEntities(ctx)
	if err != nil {
		return nil, nil, err
	}
	rels, err := eng.AllRelationships(ctx)
	if err != nil {
		return nil, nil, err
	}

	adj := make(map[string]map[string]struct{}, len(entities))
	for _, e := range entities {
		adj[e.ID] = map[string]struct{}{}
	}
	for _, r := range rels {
		if _, ok := adj[r.SourceID]; ok {
			adj[r.SourceID][r.TargetID] = struct{}{}
		}
		if _, ok := adj[r.TargetID]; ok {
			adj[r.TargetID][r.SourceID] = struct{}{}
		}
	}

	out := make(map[string][]string, len(adj))
	for id, set := range adj {
		neighbors := make([]string, 0, len(set))
		for n := range set {
			neighbors = append(neighbors, n)
		}
		sort.Strings(neighbors)
		out[id] = neighbors
	}
	return entities, out, nil
}

// DegreeCentrality computes deg(v) / (n-1) for every entity, returning
// the top n scored by descending degree.
func DegreeCentrality(ctx context.Context, eng engine.Engine, topN int) ([]Scored, error) {
	entities, adj, err := undirectedAdjacency(ctx, eng)
	if err != nil {
		return nil, err
	}
	denom := float64(len(entities) - 1)
	if denom <= 0 {
		denom = 1
	}
	scores := make([]Scored, 0, len(entities))
	names := namesByID(entities)
	for id, neighbors := range adj {
		scores = append(scores, Scored{ID: id, Name: names[id], Score: float64(len(neighbors)) / denom})
	}
	return topSorted(scores, topN), nil
}

// BetweennessCentrality runs Brandes' algorithm on the undirected
// projection, O(V*E); callers are expected to warn above ~1000 entities
// at large organization scale.
func BetweennessCentrality(ctx context.Context, eng engine.Engine, topN int) ([]Scored, error) {
	entities, adj, err := undirectedAdjacency(ctx, eng)
	if err != nil {
		return nil, err
	}
	names := namesByID(entities)
	centrality := make(map[string]float64, len(entities))
	for id := range adj {
		centrality[id] = 0
	}

	for _, s := range entities {
		stack := []string{}
		pred := map[string][]string{}
		sigma := map[string]float64{s.ID: 1}
		dist := map[string]int{s.ID: 0}
		queue := []string{s.ID}

		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)
			for _, w := range adj[v] {
				if _, ok := dist[w]; !ok {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					pred[w] = append(pred[w], v)
				}
			}
		}

		delta := map[string]float64{}
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range pred[w] {
				delta[v] += (sigma[v] / sigma[w]) * (1 + delta[w])
			}
			if w != s.ID {
				centrality[w] += delta[w]
			}
		}
	}

	// undirected graph: Brandes counts each pair's path twice.
	scores := make([]Scored, 0, len(centrality))
	for id, c := range centrality {
		scores = append(scores, Scored{ID: id, Name: names[id], Score: c / 2})
	}
	return topSorted(scores, topN), nil
}

const (
	pageRankDamping    = 0.85
	pageRankConvergeEps = 1e-6
	pageRankMaxIter     = 100
)

// PageRank runs power iteration with damping 0.85, convergence threshold
// 1e-6, max 100 iterations. On failure to converge it returns the last
// iterate; callers are expected to surface a warning in that case.
func PageRank(ctx context.Context, eng engine.Engine, topN int) ([]Scored, bool, error) {
	entities, adj, err := undirectedAdjacency(ctx, eng)
	if err != nil {
		return nil, false, err
	}
	n := len(entities)
	if n == 0 {
		return nil, true, nil
	}
	names := namesByID(entities)

	rank := make(map[string]float64, n)
	for id := range adj {
		rank[id] = 1.0 / float64(n)
	}

	converged := false
	for iter := 0; iter < pageRankMaxIter; iter++ {
		next := make(map[string]float64, n)
		base := (1 - pageRankDamping) / float64(n)
		for id := range adj {
			next[id] = base
		}
		for id, neighbors := range adj {
			if len(neighbors) == 0 {
				// dangling node: redistribute its mass evenly.
				share := pageRankDamping * rank[id] / float64(n)
				for id2 := range adj {
					next[id2] += share
				}
				continue
			}
			share := pageRankDamping * rank[id] / float64(len(neighbors))
			for _, nb := range neighbors {
				next[nb] += share
			}
		}

		delta := 0.0
		for id := range adj {
			delta += abs(next[id] - rank[id])
		}
		rank = next
		if delta < pageRankConvergeEps {
			converged = true
			break
		}
	}

	scores := make([]Scored, 0, len(rank))
	for id, s := range rank {
		scores = append(scores, Scored{ID: id, Name: names[id], Score: s})
	}
	return topSorted(scores, topN), converged, nil
}

// MostConnected returns the top n entities by raw degree (not normalized),
// for the find_most_connected tool.
func MostConnected(ctx context.Context, eng engine.Engine, topN int) ([]Scored, error) {
	entities, adj, err := undirectedAdjacency(ctx, eng)
	if err != nil {
		return nil, err
	}
	names := namesByID(entities)
	scores := make([]Scored, 0, len(adj))
	for id, neighbors := range adj {
		scores = append(scores, Scored{ID: id, Name: names[id], Score: float64(len(neighbors))})
	}
	return topSorted(scores, topN), nil
}

func namesByID(entities []domain.Entity) map[string]string {
	out := make(map[string]string, len(entities))
	for _, e := range entities {
		out[e.ID] = e.Name
	}
	return out
}

// topSorted orders by descending score, breaking ties by id for
// deterministic output, then truncates to n.
func topSorted(scores []Scored, n int) []Scored {
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].ID < scores[j].ID
	})
	if n > 0 && n < len(scores) {
		scores = scores[:n]
	}
	return scores
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
