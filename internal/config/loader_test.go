package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name   string `mapstructure:"name" validate:"required"`
	Server struct {
		Addr string `mapstructure:"addr" default:":8080"`
		Mode string `mapstructure:"mode" default:"debug"`
	} `mapstructure:"server"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.yaml"), []byte(content), 0o644))
	return dir
}

func TestLoaderLoad(t *testing.T) {
	dir := writeConfig(t, "name: demo\nserver:\n  addr: \":9090\"\n")

	cfg := &testConfig{}
	require.NoError(t, NewLoader("app.yaml", dir).Load(cfg))

	assert.Equal(t, "demo", cfg.Name)
	// 文件里的值覆盖默认值，缺省字段保留默认值
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Server.Mode)
}

func TestLoaderValidation(t *testing.T) {
	dir := writeConfig(t, "server:\n  addr: \":9090\"\n")

	err := NewLoader("app.yaml", dir).Load(&testConfig{})
	assert.Error(t, err)
}

func TestLoaderMissingFile(t *testing.T) {
	err := NewLoader("app.yaml", t.TempDir()).Load(&testConfig{})
	assert.Error(t, err)
}
