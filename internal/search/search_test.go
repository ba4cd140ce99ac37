package search

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

func seedNamed(t *testing.T, names ...string) engine.Engine {
	t.Helper()
	ctx := context.Background()
	eng, err := engine.New("memory")
	require.NoError(t, err)
	now := time.Now().UTC()
	for _, n := range names {
		_, err := eng.AddEntity(ctx, domain.NewEntity(domain.EntitySystem, n, now))
		require.NoError(t, err)
	}
	return eng
}

func TestFindExactMatchScoresHighest(t *testing.T) {
	eng := seedNamed(t, "Billing Service", "Notification Service", "Inventory Service")
	hits, err := Find(context.Background(), eng, "Billing Service", "", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "Billing Service", hits[0].Entity.Name)
	assert.Equal(t, 100, hits[0].Score)
}

func TestFindDropsBelowMinScore(t *testing.T) {
	eng := seedNamed(t, "Billing Service")
	hits, err := Find(context.Background(), eng, "zzz totally unrelated query", "", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestFindTokenOrderInsensitive(t *testing.T) {
	eng := seedNamed(t, "Service Billing")
	hits, err := Find(context.Background(), eng, "Billing Service", "", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, 100, hits[0].Score)
}

func TestFindRespectsKindFilter(t *testing.T) {
	ctx := context.Background()
	eng, err := engine.New("memory")
	require.NoError(t, err)
	now := time.Now().UTC()
	_, err = eng.AddEntity(ctx, domain.NewEntity(domain.EntitySystem, "Acme Gateway", now))
	require.NoError(t, err)
	_, err = eng.AddEntity(ctx, domain.NewEntity(domain.EntityVendor, "Acme Gateway", now))
	require.NoError(t, err)

	hits, err := Find(ctx, eng, "Acme Gateway", domain.EntityVendor, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, domain.EntityVendor, hits[0].Entity.EntityType)
}

func TestFindTopKTruncates(t *testing.T) {
	eng := seedNamed(t, "Service One", "Service Two", "Service Three")
	hits, err := Find(context.Background(), eng, "Service", "", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}
