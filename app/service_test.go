package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logistics-sim/fleetsim/config"
	"github.com/logistics-sim/fleetsim/core/clock"
	"github.com/logistics-sim/fleetsim/core/dispatch"
	"github.com/logistics-sim/fleetsim/core/dispatch/logging"
	"github.com/logistics-sim/fleetsim/core/fleet"
	"github.com/logistics-sim/fleetsim/core/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	world := writeFile(t, dir, "world.yaml", `
locations:
  - {code: A, x: 0, y: 0}
  - {code: B, x: 10, y: 0}
  - {code: C, x: 20, y: 0}
`)
	schedule := writeFile(t, dir, "schedule.txt", "00:01,A,B,std\n00:02,B,C,std\n")

	cfg := &config.Config{
		Clock: clock.Config{
			SchedulePath:     schedule,
			Mode:             string(clock.ModeElapsed),
			MicroStepSeconds: 1,
		},
		Dispatch: dispatch.Config{HumanPenaltyFactor: 1},
		Fleet: fleet.Config{
			Workers: []fleet.WorkerConfig{
				{ID: "amr-01", Role: string(model.RoleRobotic), NominalSpeed: 5},
			},
			Idle: fleet.IdleConfig{DwellSeconds: 60},
		},
		Audit:     logging.Config{Backend: "jsonl", Path: filepath.Join(dir, "audit.jsonl")},
		WorldPath: world,
	}
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestServiceRunsScheduleToCompletion(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	defer func() { require.NoError(t, svc.Close()) }()

	require.NoError(t, svc.Clock.Begin())
	for i := 0; i < 200 && (svc.Clock.Running() || !svc.Fleet.Quiescent()); i++ {
		svc.Step()
	}
	assert.False(t, svc.Clock.Running(), "schedule should be exhausted")
	assert.True(t, svc.Fleet.Quiescent(), "worker queues should drain")

	records, err := svc.Dispatcher.AuditRecords(context.Background(), logging.Query{})
	require.NoError(t, err)
	require.Len(t, records, 2, "one audit record per event")
	for i, rec := range records {
		assert.Equal(t, model.OutcomeAssigned, rec.Outcome, "record %d", i)
		assert.Equal(t, "amr-01", rec.WorkerID)
	}
	assert.Equal(t, "id_000", records[0].TaskID)
	assert.Equal(t, "id_001", records[1].TaskID)
}

func TestServiceRunHonorsContext(t *testing.T) {
	svc, err := New(testConfig(t))
	require.NoError(t, err)
	defer func() { require.NoError(t, svc.Close()) }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, svc.Run(ctx))
}

func TestServiceUnknownBlockedPairIsTolerated(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	cfg.WorldPath = writeFile(t, dir, "world.yaml", `
locations:
  - {code: A, x: 0, y: 0}
  - {code: B, x: 10, y: 0}
  - {code: C, x: 20, y: 0}
blocked:
  - [A, NOPE]
`)
	svc, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, svc.Close())
}

func TestServiceMissingWorldFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.WorldPath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := New(cfg)
	assert.Error(t, err)
}
