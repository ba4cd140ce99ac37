package tools

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/analytics"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/engine"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/search"
)

func init() {
	register(&Tool{Name: "load_graph", Write: false, Handler: loadGraph})
	register(&Tool{Name: "get_statistics", Write: false, Handler: getStatistics})
	register(&Tool{Name: "list_entities", Write: false, Handler: listEntities})
	register(&Tool{Name: "get_entity", Write: false, Handler: getEntity})
	register(&Tool{Name: "get_neighbors", Write: false, Handler: getNeighbors})
	register(&Tool{Name: "find_shortest_path", Write: false, Handler: findShortestPath})
	register(&Tool{Name: "get_blast_radius", Write: false, Handler: getBlastRadius})
	register(&Tool{Name: "compute_centrality", Write: false, Handler: computeCentrality})
	register(&Tool{Name: "find_most_connected", Write: false, Handler: findMostConnected})
	register(&Tool{Name: "search_entities", Write: false, Handler: searchEntities})
}

type loadGraphArgs struct {
	Path string `json:"path"`
}

// loadGraph is the one read tool that runs before RequireGraph would make
// sense of anything, so it bypasses the dispatcher's RequireGraph stage by
// calling graphstate.Load directly rather than through an already-loaded
// engine.
func loadGraph(ctx context.Context, d *Dispatcher, raw json.RawMessage) (any, error) {
	var args loadGraphArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if args.Path == "" {
		return nil, domain.NewError(domain.ErrValidation, "path is required")
	}
	if err := d.State.Load(ctx, args.Path); err != nil {
		return nil, err
	}
	eng, err := d.State.RequireGraph(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := eng.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"entity_count":       stats.EntityCount,
		"relationship_count": stats.RelationshipCount,
		"path":               args.Path,
	}, nil
}

func getStatistics(ctx context.Context, d *Dispatcher, raw json.RawMessage) (any, error) {
	eng, err := d.State.RequireGraph(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := eng.Stats(ctx)
	if err != nil {
		return nil, err
	}

	countsByType := map[string]int{}
	for k, v := range stats.EntityCountByType {
		countsByType[string(k)] = v
	}
	relCountsByType := map[string]int{}
	for k, v := range stats.RelationshipCountByType {
		relCountsByType[string(k)] = v
	}

	density := 0.0
	n := stats.EntityCount
	if n > 1 {
		density = 2 * float64(stats.RelationshipCount) / float64(n*(n-1))
	}

	connected, err := isWeaklyConnected(ctx, eng)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"counts_by_type":              countsByType,
		"relationship_counts_by_type": relCountsByType,
		"entity_count":                stats.EntityCount,
		"relationship_count":          stats.RelationshipCount,
		"density":                     density,
		"weak_connectivity":           connected,
	}, nil
}

// isWeaklyConnected reports whether the undirected projection of the graph
// is a single component, BFS-ing out from an arbitrary entity.
func isWeaklyConnected(ctx context.Context, eng engine.Engine) (bool, error) {
	entities, err := eng.AllEntities(ctx)
	if err != nil {
		return false, err
	}
	if len(entities) <= 1 {
		return true, nil
	}

	visited := map[string]bool{entities[0].ID: true}
	queue := []string{entities[0].ID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		neighbors, err := eng.Neighbors(ctx, cur, engine.DirBoth, nil)
		if err != nil {
			return false, err
		}
		for _, n := range neighbors {
			if !visited[n.ID] {
				visited[n.ID] = true
				queue = append(queue, n.ID)
			}
		}
	}
	return len(visited) == len(entities), nil
}

type listEntitiesArgs struct {
	Type  string `json:"type"`
	Limit int    `json:"limit"`
}

func listEntities(ctx context.Context, d *Dispatcher, raw json.RawMessage) (any, error) {
	var args listEntitiesArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if args.Limit <= 0 {
		args.Limit = 50
	}
	eng, err := d.State.RequireGraph(ctx)
	if err != nil {
		return nil, err
	}
	entities, err := eng.ListEntities(ctx, domain.EntityType(args.Type), args.Limit, 0)
	if err != nil {
		return nil, err
	}
	return compactAll(entities), nil
}

type getEntityArgs struct {
	ID string `json:"id"`
}

func getEntity(ctx context.Context, d *Dispatcher, raw json.RawMessage) (any, error) {
	var args getEntityArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if err := validateIDFormat(args.ID); err != nil {
		return nil, err
	}
	eng, err := d.State.RequireGraph(ctx)
	if err != nil {
		return nil, err
	}
	e, err := eng.GetEntity(ctx, args.ID)
	if err != nil {
		return nil, err
	}
	return compact(e), nil
}

type getNeighborsArgs struct {
	ID               string `json:"id"`
	Direction        string `json:"direction"`
	RelationshipType string `json:"relationship_type"`
}

func getNeighbors(ctx context.Context, d *Dispatcher, raw json.RawMessage) (any, error) {
	var args getNeighborsArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if err := validateIDFormat(args.ID); err != nil {
		return nil, err
	}
	dir := engine.DirBoth
	switch args.Direction {
	case "", "both":
		dir = engine.DirBoth
	case "in":
		dir = engine.DirIn
	case "out":
		dir = engine.DirOut
	default:
		return nil, domain.NewError(domain.ErrValidation, "unknown direction %q", args.Direction)
	}

	var relTypes []domain.RelationshipType
	if args.RelationshipType != "" {
		relTypes = []domain.RelationshipType{domain.RelationshipType(args.RelationshipType)}
	}

	eng, err := d.State.RequireGraph(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := eng.GetEntity(ctx, args.ID); err != nil {
		return nil, err
	}
	neighbors, err := eng.Neighbors(ctx, args.ID, dir, relTypes)
	if err != nil {
		return nil, err
	}
	return compactAll(neighbors), nil
}

type shortestPathArgs struct {
	Src string `json:"src"`
	Tgt string `json:"tgt"`
}

func findShortestPath(ctx context.Context, d *Dispatcher, raw json.RawMessage) (any, error) {
	var args shortestPathArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if err := validateIDFormat(args.Src); err != nil {
		return nil, err
	}
	if err := validateIDFormat(args.Tgt); err != nil {
		return nil, err
	}
	eng, err := d.State.RequireGraph(ctx)
	if err != nil {
		return nil, err
	}
	path, err := analytics.ShortestPath(ctx, eng, args.Src, args.Tgt)
	if err != nil {
		return nil, err
	}
	if path == nil {
		return nil, nil
	}
	return path, nil
}

type blastRadiusArgs struct {
	ID    string `json:"id"`
	Depth int    `json:"depth"`
}

func getBlastRadius(ctx context.Context, d *Dispatcher, raw json.RawMessage) (any, error) {
	var args blastRadiusArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if err := validateIDFormat(args.ID); err != nil {
		return nil, err
	}
	if args.Depth <= 0 {
		args.Depth = 3
	}
	eng, err := d.State.RequireGraph(ctx)
	if err != nil {
		return nil, err
	}
	layers, err := analytics.BlastRadius(ctx, eng, args.ID, args.Depth)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	for depth, entities := range layers {
		out[strconv.Itoa(depth)] = compactAll(entities)
	}
	return out, nil
}

type centralityArgs struct {
	Metric string `json:"metric"`
	TopN   int    `json:"top_n"`
}

func computeCentrality(ctx context.Context, d *Dispatcher, raw json.RawMessage) (any, error) {
	var args centralityArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if args.TopN <= 0 {
		args.TopN = 20
	}
	eng, err := d.State.RequireGraph(ctx)
	if err != nil {
		return nil, err
	}

	switch args.Metric {
	case "degree", "":
		return analytics.DegreeCentrality(ctx, eng, args.TopN)
	case "betweenness":
		return analytics.BetweennessCentrality(ctx, eng, args.TopN)
	case "pagerank":
		scores, _, err := analytics.PageRank(ctx, eng, args.TopN)
		return scores, err
	default:
		return nil, domain.NewError(domain.ErrValidation, "unknown centrality metric %q", args.Metric)
	}
}

type mostConnectedArgs struct {
	TopN int `json:"top_n"`
}

func findMostConnected(ctx context.Context, d *Dispatcher, raw json.RawMessage) (any, error) {
	var args mostConnectedArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if args.TopN <= 0 {
		args.TopN = 10
	}
	eng, err := d.State.RequireGraph(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.MostConnected(ctx, eng, args.TopN)
}

type searchEntitiesArgs struct {
	Query string `json:"query"`
	Type  string `json:"type"`
	Limit int    `json:"limit"`
}

func searchEntities(ctx context.Context, d *Dispatcher, raw json.RawMessage) (any, error) {
	var args searchEntitiesArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if args.Limit <= 0 {
		args.Limit = 10
	}
	eng, err := d.State.RequireGraph(ctx)
	if err != nil {
		return nil, err
	}
	hits, err := search.Find(ctx, eng, args.Query, domain.EntityType(args.Type), args.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]compactEntity, 0, len(hits))
	for _, h := range hits {
		out = append(out, compact(h.Entity))
	}
	return out, nil
}
