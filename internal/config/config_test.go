package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alusus-go/corelang/internal/config"
)

func writeTOML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corec.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadParsesAllFields(t *testing.T) {
	path := writeTOML(t, `
start_module = "root.Program"
max_live_states = 32
max_token_length = 12
target = "treewalk"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "root.Program", cfg.StartModule)
	assert.Equal(t, 32, cfg.MaxLiveStates)
	assert.Equal(t, 12, cfg.MaxTokenLength)
	assert.Equal(t, config.TargetTreewalk, cfg.Target)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := writeTOML(t, `this is not = = toml`)
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestFillDefaultsLeavesSetFieldsAlone(t *testing.T) {
	cfg := config.Config{StartModule: "root.Custom", MaxLiveStates: 8}
	filled := cfg.FillDefaults()
	assert.Equal(t, "root.Custom", filled.StartModule)
	assert.Equal(t, 8, filled.MaxLiveStates)
	assert.Equal(t, config.DefaultMaxTokenLength, filled.MaxTokenLength)
	assert.Equal(t, config.TargetTreewalk, filled.Target)
}

func TestFillDefaultsAppliesZeroValueDefaults(t *testing.T) {
	filled := config.Config{}.FillDefaults()
	assert.Equal(t, "root.Program", filled.StartModule)
	assert.Equal(t, config.DefaultMaxLiveStates, filled.MaxLiveStates)
	assert.Equal(t, config.DefaultMaxTokenLength, filled.MaxTokenLength)
	assert.Equal(t, config.TargetTreewalk, filled.Target)
}

func TestValidateRejectsEmptyStartModule(t *testing.T) {
	cfg := config.Config{Target: config.TargetTreewalk}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownTarget(t *testing.T) {
	cfg := config.Config{StartModule: "root.Program", Target: config.TargetGenerator("bogus")}
	assert.Error(t, cfg.Validate())
}

func TestValidateAcceptsFilledDefaults(t *testing.T) {
	cfg := config.Config{}.FillDefaults()
	assert.NoError(t, cfg.Validate())
}

func TestParseTargetGeneratorIsCaseInsensitive(t *testing.T) {
	tg, err := config.ParseTargetGenerator("  JIT ")
	require.NoError(t, err)
	assert.Equal(t, config.TargetJIT, tg)
}

func TestParseTargetGeneratorRejectsUnknown(t *testing.T) {
	_, err := config.ParseTargetGenerator("bogus")
	assert.Error(t, err)
}
