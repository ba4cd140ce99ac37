package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/engine"
	_ "github.com/thehipsterciso/hc-enterprise-kg/internal/engine/memory"
)

// buildChain creates v -[depends_on]-> w -[stores]-> d, a small fixture
// for exercising blast-radius traversal.
func buildChain(t *testing.T) (engine.Engine, domain.Entity, domain.Entity, domain.Entity) {
	t.Helper()
	ctx := context.Background()
	eng, err := engine.New("memory")
	require.NoError(t, err)
	now := time.Now().UTC()

	v, err := eng.AddEntity(ctx, domain.NewEntity(domain.EntitySystem, "v", now))
	require.NoError(t, err)
	w, err := eng.AddEntity(ctx, domain.NewEntity(domain.EntitySystem, "w", now))
	require.NoError(t, err)
	d, err := eng.AddEntity(ctx, domain.NewEntity(domain.EntityDataAsset, "d", now))
	require.NoError(t, err)

	_, err = eng.AddRelationship(ctx, domain.NewRelationship(domain.RelDependsOn, v.ID, w.ID, 0.8, 0.9, now))
	require.NoError(t, err)
	_, err = eng.AddRelationship(ctx, domain.NewRelationship(domain.RelStores, w.ID, d.ID, 0.8, 0.9, now))
	require.NoError(t, err)

	return eng, v, w, d
}

func TestBlastRadiusDepthZeroIsSourceOnly(t *testing.T) {
	eng, v, _, _ := buildChain(t)
	result, err := BlastRadius(context.Background(), eng, v.ID, 0)
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Len(t, result[0], 1)
	assert.Equal(t, v.ID, result[0][0].ID)
}

func TestBlastRadiusDepthOneAndTwo(t *testing.T) {
	ctx := context.Background()
	eng, v, w, d := buildChain(t)

	r1, err := BlastRadius(ctx, eng, v.ID, 1)
	require.NoError(t, err)
	require.Len(t, r1[1], 1)
	assert.Equal(t, w.ID, r1[1][0].ID)
	assert.NotContains(t, r1, 2)

	r2, err := BlastRadius(ctx, eng, v.ID, 2)
	require.NoError(t, err)
	require.Len(t, r2[2], 1)
	assert.Equal(t, d.ID, r2[2][0].ID)
}

func TestShortestPathSameVertex(t *testing.T) {
	eng, v, _, _ := buildChain(t)
	path, err := ShortestPath(context.Background(), eng, v.ID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{v.ID}, path)
}

func TestShortestPathFindsChain(t *testing.T) {
	eng, v, w, d := buildChain(t)
	path, err := ShortestPath(context.Background(), eng, v.ID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{v.ID, w.ID, d.ID}, path)
}

func TestDegreeCentralityOrdersByDegree(t *testing.T) {
	eng, _, w, _ := buildChain(t)
	scores, err := DegreeCentrality(context.Background(), eng, 1)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, w.ID, scores[0].ID)
}

func TestPageRankConvergesOnSmallGraph(t *testing.T) {
	eng, _, _, _ := buildChain(t)
	scores, converged, err := PageRank(context.Background(), eng, 10)
	require.NoError(t, err)
	assert.True(t, converged)
	assert.Len(t, scores, 3)
}

func TestRiskScoreCountsCriticalVulnerabilities(t *testing.T) {
	ctx := context.Background()
	eng, err := engine.New("memory")
	require.NoError(t, err)
	now := time.Now().UTC()

	control, err := eng.AddEntity(ctx, domain.NewEntity(domain.EntityControl, "control", now))
	require.NoError(t, err)
	vuln := domain.NewEntity(domain.EntityVulnerability, "vuln", now)
	vuln.Fields["severity"] = "critical"
	vuln, err = eng.AddEntity(ctx, vuln)
	require.NoError(t, err)
	_, err = eng.AddRelationship(ctx, domain.NewRelationship(domain.RelRemediates, control.ID, vuln.ID, 0.5, 0.8, now))
	require.NoError(t, err)

	score, err := RiskScore(ctx, eng, control.ID)
	require.NoError(t, err)
	assert.Greater(t, score, 0.0)
}
