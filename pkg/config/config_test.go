package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	symerr "github.com/matzehuels/symtower/pkg/errors"
	"github.com/matzehuels/symtower/pkg/symmetry"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		format string
		input  string
	}{
		{
			name:   "toml",
			format: "toml",
			input: `
[symmetry]
max_generators = 20
detect_subgroups = false
usage = 2
strict_fixings = false

[server]
addr = ":9090"
request_timeout = "5s"
cache_dir = "/tmp/symtower"
`,
		},
		{
			name:   "yaml",
			format: "yaml",
			input: `
symmetry:
  max_generators: 20
  detect_subgroups: false
  usage: 2
  strict_fixings: false
server:
  addr: ":9090"
  request_timeout: 5s
  cache_dir: /tmp/symtower
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.input), tt.format)
			require.NoError(t, err)

			o := cfg.Symmetry
			assert.Equal(t, 20, o.MaxGenerators)
			assert.False(t, o.DetectSubgroups)
			assert.False(t, o.StrictFixings)
			assert.Equal(t, symmetry.UsageOrbitalFixing, o.Usage)
			// untouched keys keep their defaults
			assert.True(t, o.DetectOrbitopes)
			assert.True(t, o.RecomputeRestart)
			assert.Equal(t, symmetry.DefaultCompressThreshold, o.CompressThreshold)
			assert.NotNil(t, o.Logger)

			assert.Equal(t, ":9090", cfg.Server.Addr)
			assert.Equal(t, Duration(5*time.Second), cfg.Server.RequestTimeout)
			assert.Equal(t, int64(DefaultMaxModelBytes), cfg.Server.MaxModelBytes)
			assert.Equal(t, "/tmp/symtower", cfg.Server.CacheDir)
			assert.Equal(t, Duration(DefaultCacheTTL), cfg.Server.CacheTTL)
		})
	}
}

func TestParseZeroCompressThreshold(t *testing.T) {
	cfg, err := Parse([]byte("[symmetry]\ncompress_threshold = 0.0\n"), "toml")
	require.NoError(t, err)
	assert.Zero(t, cfg.Symmetry.CompressThreshold)
	assert.Equal(t, symmetry.DefaultCompressMinVars, cfg.Symmetry.CompressMinVars)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		input  string
		code   symerr.Code
	}{
		{"format", "ini", "", symerr.ErrCodeInvalidFormat},
		{"syntax", "toml", "[symmetry", symerr.ErrCodeInvalidFormat},
		{"duration", "toml", "[server]\nrequest_timeout = \"soon\"", symerr.ErrCodeInvalidFormat},
		{"range", "toml", "[symmetry]\nadd_conss_timing = 7", symerr.ErrCodeInvalidInput},
		{"negative limit", "yaml", "symmetry:\n  max_generators: -2", symerr.ErrCodeInvalidInput},
		{"body size", "yaml", "server:\n  max_model_bytes: -1", symerr.ErrCodeInvalidInput},
		{"cache ttl", "toml", "[server]\ncache_ttl = \"-1m\"", symerr.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input), tt.format)
			require.Error(t, err)
			assert.True(t, symerr.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "symtower.toml")
	require.NoError(t, os.WriteFile(path, []byte("[symmetry]\ncheck_symmetries = true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Symmetry.CheckSymmetries)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.True(t, symerr.Is(err, symerr.ErrCodeFileNotFound))
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, symmetry.DefaultMaxGenerators, cfg.Symmetry.MaxGenerators)
	assert.Equal(t, Duration(DefaultRequestTimeout), cfg.Server.RequestTimeout)
}
