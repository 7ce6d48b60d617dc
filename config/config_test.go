package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
clock:
  schedule_path: schedule.txt
  mode: elapsed
  micro_step_seconds: 0.5
dispatch:
  human_penalty_factor: 1.25
  robot_disallow_exact: ["fragile"]
fleet:
  workers:
    - id: amr-01
      role: robotic
      nominal_speed: 1.5
audit:
  backend: jsonl
  path: audit.jsonl
world_path: world.yaml
tick_seconds: 2
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", validYAML))
	require.NoError(t, err)

	assert.Equal(t, "schedule.txt", cfg.Clock.SchedulePath)
	assert.Equal(t, 0.5, cfg.Clock.MicroStepSeconds)
	assert.Equal(t, 1000, cfg.Clock.MaxStepsPerTick, "default applied")
	assert.Equal(t, 1.25, cfg.Dispatch.HumanPenaltyFactor)
	assert.Equal(t, []string{"fragile"}, cfg.Dispatch.RobotDisallowExact)
	require.Len(t, cfg.Fleet.Workers, 1)
	assert.Equal(t, "amr-01", cfg.Fleet.Workers[0].ID)
	assert.Equal(t, 2.0, cfg.TickSeconds)
	assert.Equal(t, 100, cfg.TickIntervalMS, "default applied")
}

func TestLoadJSON(t *testing.T) {
	content := `{
  "clock": {"schedule_path": "s.txt"},
  "fleet": {"workers": [{"id": "w1", "role": "human", "nominal_speed": 1}]},
  "world_path": "w.json"
}`
	cfg, err := Load(writeConfig(t, "config.json", content))
	require.NoError(t, err)
	assert.Equal(t, "s.txt", cfg.Clock.SchedulePath)
	assert.Equal(t, "elapsed", cfg.Clock.Mode, "default applied")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FS_TICK_SECONDS", "5")
	cfg, err := Load(writeConfig(t, "config.yaml", validYAML))
	require.NoError(t, err)
	assert.Equal(t, 5.0, cfg.TickSeconds)
}

func TestLoadRejectsUnsupportedFormat(t *testing.T) {
	_, err := Load(writeConfig(t, "config.toml", "x = 1"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	missingWorld := strings.Replace(validYAML, "world_path: world.yaml", "", 1)
	_, err := Load(writeConfig(t, "config.yaml", missingWorld))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "world_path")
}

func TestDecodeWorldYAML(t *testing.T) {
	in := strings.NewReader(`
locations:
  - {code: A, x: 0, y: 0}
  - {code: B, x: 10, y: 5}
blocked:
  - [A, B]
`)
	w, err := DecodeWorld(in, "yaml")
	require.NoError(t, err)
	require.Len(t, w.Locations, 2)
	assert.Equal(t, "B", w.Locations[1].Code)
	assert.Equal(t, 10.0, w.Locations[1].X)
	require.Len(t, w.Blocked, 1)
	assert.Equal(t, [2]string{"A", "B"}, w.Blocked[0])
}

func TestDecodeWorldJSON(t *testing.T) {
	in := strings.NewReader(`{"locations": [{"code": "A", "x": 1, "y": 2}]}`)
	w, err := DecodeWorld(in, "json")
	require.NoError(t, err)
	require.Len(t, w.Locations, 1)
	assert.Equal(t, 2.0, w.Locations[0].Y)
}

func TestDecodeWorldRejectsEmpty(t *testing.T) {
	_, err := DecodeWorld(strings.NewReader(`{"locations": []}`), "json")
	assert.Error(t, err)
}
