package config

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultsFromEnvironment(t *testing.T) {
	t.Setenv("NEVERINSTALL_VOICE", "occult")
	t.Setenv("NEVERINSTALL_SPEED", "0.5")
	t.Setenv("NEVERINSTALL_SHUFFLE", "off")
	t.Setenv("NEVERINSTALL_STAGES", "boot, ai,,xorg")
	t.Setenv("NEVERINSTALL_SEED", "42")
	t.Setenv("NEVERINSTALL_NORMAL", "not-a-bool")

	cfg := Defaults()
	assert.Equal(t, "occult", cfg.Voice)
	assert.Equal(t, 0.5, cfg.Speed)
	assert.False(t, cfg.Shuffle)
	assert.Equal(t, []string{"boot", "ai", "xorg"}, cfg.Stages)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.False(t, cfg.Normal)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestNormalizeAndValidate(t *testing.T) {
	cfg := App{Voice: " OPSEC ", LogLevel: "WARN", Speed: 250, Stages: []string{" Boot ", " "}}
	cfg.Normalize()
	assert.Equal(t, "opsec", cfg.Voice)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 100.0, cfg.Speed)
	assert.Equal(t, []string{"boot"}, cfg.Stages)
	require.NoError(t, cfg.Validate())

	cfg.LogLevel = "loud"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogLevel")
}

func TestDefaultSimulationIsValid(t *testing.T) {
	require.NoError(t, DefaultSimulation().Validate())
}

func TestLoadSimulationWithoutPath(t *testing.T) {
	sim, err := LoadSimulation("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSimulation(), sim)
}

func TestLoadSimulationOverlay(t *testing.T) {
	path := writeFile(t, "sim.yaml", `
boot:
  log_count: {min: 2, max: 4}
cloud:
  rate_limit_rate: 0.5
`)
	sim, err := LoadSimulation(path)
	require.NoError(t, err)
	assert.Equal(t, Range{2, 4}, sim.Boot.LogCount)
	assert.Equal(t, 0.5, sim.Cloud.RateLimit)
	assert.Equal(t, DefaultSimulation().Boot.LogDelay, sim.Boot.LogDelay)
	assert.Equal(t, DefaultSimulation().AI, sim.AI)
}

func TestLoadSimulationEmptyFile(t *testing.T) {
	sim, err := LoadSimulation(writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultSimulation(), sim)
}

func TestLoadSimulationRejectsUnknownKeys(t *testing.T) {
	_, err := LoadSimulation(writeFile(t, "typo.yaml", "boot:\n  log_cuont: {min: 1, max: 2}\n"))
	require.Error(t, err)
}

func TestLoadSimulationRejectsInvalidValues(t *testing.T) {
	_, err := LoadSimulation(writeFile(t, "bad.yaml", "ai:\n  oom_rate: 1.5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OutOfMemory")

	_, err = LoadSimulation(writeFile(t, "range.yaml", "boot:\n  log_delay_ms: {min: 300, max: 10}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogDelay")
}

func TestLoadSimulationMissingFile(t *testing.T) {
	_, err := LoadSimulation(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestRangePick(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	r := Range{Min: 5, Max: 8}
	for i := 0; i < 200; i++ {
		v := r.Pick(rng)
		require.GreaterOrEqual(t, v, 5)
		require.Less(t, v, 8)
	}
	assert.Equal(t, 9, Range{Min: 9, Max: 9}.Pick(rng))
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))

	const key = "NEVERINSTALL_DOTENV_PROBE"
	t.Cleanup(func() { os.Unsetenv(key) })
	path := writeFile(t, ".env", key+"=from-file\n")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv(key))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Equal(t, []string{"a", "b"}, SplitList(" a ,, b "))
}
