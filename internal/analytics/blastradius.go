// Package analytics implements the graph algorithms that sit above
// engine.Engine's storage/traversal primitives: centrality measures,
// blast radius, risk scoring, and attack-path lookup. None of it is
// backend-specific; both the memory and sqlstore engines get identical
// behaviour for free.
package analytics

import (
	"context"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/engine"
)

// BlastRadius runs an undirected BFS from source, grouping reachable
// entities by hop distance, bounded by maxDepth. Depth 0 always contains
// exactly the source vertex.
func BlastRadius(ctx context.Context, eng engine.Engine, sourceID string, maxDepth int) (map[int][]domain.Entity, error) {
	src, err := eng.GetEntity(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	result := map[int][]domain.Entity{0: {src}}
	if maxDepth <= 0 {
		return result, nil
	}

	visited := map[string]struct{}{sourceID: {}}
	frontier := []string{sourceID}

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		var next []string
		var layer []domain.Entity
		for _, id := range frontier {
			neighbors, err := eng.Neighbors(ctx, id, engine.DirBoth, nil)
			if err != nil {
				return nil, err
			}
			for _, n := range neighbors {
				if _, seen := visited[n.ID]; seen {
					continue
				}
				visited[n.ID] = struct{}{}
				next = append(next, n.ID)
				layer = append(layer, n)
			}
		}
		if len(layer) > 0 {
			result[depth] = layer
		}
		frontier = next
	}
	return result, nil
}

// ShortestPath returns the undirected shortest path between src and tgt
// as an ordered list of entity ids, or nil if unreachable. ShortestPath(v,
// v) always returns [v].
func ShortestPath(ctx context.Context, eng engine.Engine, srcID, tgtID string) ([]string, error) {
	if srcID == tgtID {
		if _, err := eng.GetEntity(ctx, srcID); err != nil {
			return nil, err
		}
		return []string{srcID}, nil
	}

	prev := map[string]string{srcID: ""}
	frontier := []string{srcID}
	for len(frontier) > 0 {
		var next []string
		for _, id := range frontier {
			neighbors, err := eng.Neighbors(ctx, id, engine.DirBoth, nil)
			if err != nil {
				return nil, err
			}
			for _, n := range neighbors {
				if _, seen := prev[n.ID]; seen {
					continue
				}
				prev[n.ID] = id
				if n.ID == tgtID {
					return reconstructPath(prev, srcID, tgtID), nil
				}
				next = append(next, n.ID)
			}
		}
		frontier = next
	}
	return nil, nil
}

func reconstructPath(prev map[string]string, src, tgt string) []string {
	var path []string
	cur := tgt
	for {
		path = append([]string{cur}, path...)
		if cur == src {
			return path
		}
		cur = prev[cur]
	}
}

// AttackPath is an alias for ShortestPath used by the analytics surface
// under its domain-specific name.
func AttackPath(ctx context.Context, eng engine.Engine, srcID, tgtID string) ([]string, error) {
	return ShortestPath(ctx, eng, srcID, tgtID)
}
