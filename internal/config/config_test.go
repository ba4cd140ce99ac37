package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearGraphEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GRAPH_DEFAULT_PATH", "GRAPH_STRICT", "GRAPH_BACKEND", "ENVIRONMENT", "LOG_LEVEL", "HTTP_BIND_ADDR", "ATP_SOCKET_PATH"} {
		old, ok := os.LookupEnv(key)
		os.Unsetenv(key)
		t.Cleanup(func() {
			if ok {
				os.Setenv(key, old)
			}
		})
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	clearGraphEnv(t)
	cfg := Load()
	assert.Equal(t, "", cfg.GraphDefaultPath)
	assert.False(t, cfg.GraphStrict)
	assert.Equal(t, "memory", cfg.GraphBackend)
	assert.Equal(t, "local", cfg.Env)
}

func TestLoadReadsOverrides(t *testing.T) {
	clearGraphEnv(t)
	os.Setenv("GRAPH_DEFAULT_PATH", "/data/graph.json")
	os.Setenv("GRAPH_STRICT", "true")
	os.Setenv("GRAPH_BACKEND", "sqlite")

	cfg := Load()
	assert.Equal(t, "/data/graph.json", cfg.GraphDefaultPath)
	assert.True(t, cfg.GraphStrict)
	assert.Equal(t, "sqlite", cfg.GraphBackend)
}

func TestGraphStrictAcceptsTruthyVariants(t *testing.T) {
	clearGraphEnv(t)
	for _, v := range []string{"1", "true", "TRUE", "yes", "on"} {
		os.Setenv("GRAPH_STRICT", v)
		assert.True(t, Load().GraphStrict, "expected %q to be truthy", v)
	}
	for _, v := range []string{"0", "false", "no", "off"} {
		os.Setenv("GRAPH_STRICT", v)
		assert.False(t, Load().GraphStrict, "expected %q to be falsy", v)
	}
}
