package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanonone/epgm/pkg/epgm"
	"github.com/sanonone/epgm/pkg/stream"
)

func TestDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, epgm.DefaultLabels(), cfg.Labels)
	require.NoError(t, cfg.Validate())

	c, err := cfg.Compression()
	require.NoError(t, err)
	assert.Equal(t, stream.CompressionNone, c)
}

func TestLoadYAML(t *testing.T) {
	t.Setenv("EPGM_TEST_EDGE_LABEL", "Link")
	cfg, err := Load("testdata/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, epgm.DefaultGraphLabel, cfg.Labels.Graph, "keys missing from the file keep their default")
	assert.Equal(t, "Node", cfg.Labels.Vertex)
	assert.Equal(t, "Link", cfg.Labels.Edge)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 100, cfg.Log.MaxSize)

	c, err := cfg.Compression()
	require.NoError(t, err)
	assert.Equal(t, stream.CompressionSnappy, c)

	gen, err := cfg.Identifier.Generator()
	require.NoError(t, err)
	assert.Equal(t, [5]byte{1, 2, 3, 4, 5}, gen.Discriminator())
}

func TestLoadTOML(t *testing.T) {
	t.Setenv("EPGM_TEST_LOG_DIR", "/var/log")
	cfg, err := Load("testdata/config.toml")
	require.NoError(t, err)

	assert.Equal(t, "Snapshot", cfg.Labels.Graph)
	assert.Equal(t, epgm.DefaultVertexLabel, cfg.Labels.Vertex)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "/var/log/epgm.log", cfg.Log.File)
	assert.Equal(t, 10, cfg.Log.MaxSize)
	assert.Equal(t, "none", cfg.Stream.Compression)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load("testdata/empty.yml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"testdata/missing.yaml", "could not read"},
		{"testdata/unknown_key.yaml", "vertx"},
		{"testdata/unknown_key.toml", "compresion"},
		{"testdata/bad_value.yaml", "gzip"},
	}
	for _, tc := range cases {
		t.Run(filepath.Base(tc.path), func(t *testing.T) {
			_, err := Load(tc.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "epgm.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "unsupported configuration format")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"short discriminator", func(c *Config) { c.Identifier.Discriminator = "0102" }},
		{"non hex discriminator", func(c *Config) { c.Identifier.Discriminator = "zz02030405" }},
		{"compression", func(c *Config) { c.Stream.Compression = "lz4" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGeneratorWithoutDiscriminator(t *testing.T) {
	a, err := IdentifierConfig{}.Generator()
	require.NoError(t, err)
	b, err := IdentifierConfig{}.Generator()
	require.NoError(t, err)
	assert.NotEqual(t, a.New(), b.New())
}

func TestFactories(t *testing.T) {
	cfg := Default()
	cfg.Labels.Vertex = "Node"
	cfg.Identifier.Discriminator = "aabbccddee"

	f, err := cfg.Factories()
	require.NoError(t, err)
	v := f.Vertices.CreateVertex()
	assert.Equal(t, "Node", v.Label())
	assert.Equal(t, []byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee}, v.ID().Bytes()[4:9])

	cfg.Identifier.Discriminator = "bad"
	_, err = cfg.Factories()
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)
	defer closer.Close()

	log.Info("[GDL] hidden")
	log.Warn("[GDL] shown", "source", "x.gdl")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"), out)
	assert.Contains(t, out, `"source":"x.gdl"`)

	_, _, err = LogConfig{Level: "loud"}.NewLogger(&buf)
	assert.Error(t, err)
}

func TestNewLoggerWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "epgm.log")
	log, closer, err := LogConfig{File: path, MaxSize: 1}.NewLogger(nil)
	require.NoError(t, err)

	log.Info("[STREAM] graph written", "vertices", 3)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "graph written")
	assert.Contains(t, string(data), "vertices=3")
}
