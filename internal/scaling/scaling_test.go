package scaling

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForIndustryFallsBackToTechnology(t *testing.T) {
	assert.Equal(t, ByIndustry["technology"], ForIndustry("technology"))
	assert.Equal(t, ByIndustry["technology"], ForIndustry("not-a-real-industry"))
}

func TestSizeTierMultiplierBuckets(t *testing.T) {
	assert.Equal(t, 0.7, SizeTierMultiplier(100))
	assert.Equal(t, 1.0, SizeTierMultiplier(250))
	assert.Equal(t, 1.2, SizeTierMultiplier(2000))
	assert.Equal(t, 1.4, SizeTierMultiplier(10000))
}

func TestScaledRangeStaysWithinFloorAndCeiling(t *testing.T) {
	r := ScaledRange(20000, 8, 5, 200)
	assert.GreaterOrEqual(t, r.Low, 5)
	assert.LessOrEqual(t, r.High, 200)
	assert.Less(t, r.Low, r.High)
}

func TestScaledRangeGrowsWithEmployeeCount(t *testing.T) {
	small := ScaledRange(100, 12, 1, 100000)
	large := ScaledRange(20000, 12, 1, 100000)
	assert.Less(t, small.High, large.High)
}

func TestMergeOnlyOverridesSetFields(t *testing.T) {
	base := ByIndustry["technology"]
	systems := 99.0
	merged := Merge(base, Overrides{Systems: &systems})
	assert.Equal(t, 99.0, merged.Systems)
	assert.Equal(t, base.Vendors, merged.Vendors)
}

func TestLoadOverridesFileParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte("systems: 5\nvendors: 10\n"), 0o644))

	o, err := LoadOverridesFile(path)
	require.NoError(t, err)
	require.NotNil(t, o.Systems)
	assert.Equal(t, 5.0, *o.Systems)
	require.NotNil(t, o.Vendors)
	assert.Equal(t, 10.0, *o.Vendors)
	assert.Nil(t, o.Policies)
}

func TestLoadOverridesFileMissingFileErrors(t *testing.T) {
	_, err := LoadOverridesFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
