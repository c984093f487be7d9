package app

import (
	"testing"

	"github.com/annaglova/breedhub-sub002/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "badger with data dir", mutate: func(c *Config) { c.Store = StoreBadger; c.DataDir = "/tmp/x" }},
		{name: "upper case level", mutate: func(c *Config) { c.LogLevel = "DEBUG" }},
		{name: "unknown store", mutate: func(c *Config) { c.Store = "postgres" }, wantErr: "Store"},
		{name: "badger without data dir", mutate: func(c *Config) { c.Store = StoreBadger }, wantErr: "data_dir is required"},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "LogFormat"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "trace" }, wantErr: "LogLevel"},
		{name: "port out of range", mutate: func(c *Config) { c.HealthcheckPort = 70000 }, wantErr: "HealthcheckPort"},
		{name: "notify url", mutate: func(c *Config) { c.NotifyURL = "not a url" }, wantErr: "NotifyURL"},
		{name: "opposite pair of three", mutate: func(c *Config) { c.Opposites = [][]string{{"a", "b", "c"}} }, wantErr: "Opposites"},
		{name: "opposite with empty id", mutate: func(c *Config) { c.Opposites = [][]string{{"a", ""}} }, wantErr: "Opposites"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			got, err := NewConfig(cfg)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, got)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"full.yaml": `
store: badger
data_dir: /var/lib/confgraph
seed_path: ./seed
log_level: debug
log_format: json
healthcheck_port: 8080
max_cascade_nodes: 500
user: ops
notify_url: ws://localhost:3000
notify_namespace: /config
opposites:
  - [property_required, property_not_required]
`,
		"empty.yaml":   "",
		"unknown.yaml": "workers: 10\n",
	})

	t.Run("full file", func(t *testing.T) {
		cfg, err := LoadConfigFile(dir + "/full.yaml")
		require.NoError(t, err)
		assert.Equal(t, &Config{
			Store:           StoreBadger,
			DataDir:         "/var/lib/confgraph",
			SeedPath:        "./seed",
			LogFormat:       "json",
			LogLevel:        "debug",
			HealthcheckPort: 8080,
			MaxCascadeNodes: 500,
			User:            "ops",
			NotifyURL:       "ws://localhost:3000",
			NotifyNamespace: "/config",
			Opposites:       [][]string{{"property_required", "property_not_required"}},
		}, cfg)
		assert.Equal(t, [][2]string{{"property_required", "property_not_required"}}, cfg.OppositePairs())
	})

	t.Run("empty file gives defaults", func(t *testing.T) {
		cfg, err := LoadConfigFile(dir + "/empty.yaml")
		require.NoError(t, err)
		want := DefaultConfig()
		assert.Equal(t, &want, cfg)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadConfigFile(dir + "/unknown.yaml")
		assert.ErrorContains(t, err, "field workers not found")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfigFile(dir + "/nope.yaml")
		assert.ErrorContains(t, err, "failed to read config file")
	})
}
