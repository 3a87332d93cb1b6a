package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJsonConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setup.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"prefix": "!"}`), 0o644))

	cfg, err := NewJsonConfig(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"prefix": "!"}`, string(cfg.Raw))
}

func TestNewJsonConfigMissingFile(t *testing.T) {
	cfg, err := NewJsonConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}
