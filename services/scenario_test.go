package services

import (
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cqbsim-backend/models"
)

func TestScenarioFileName(t *testing.T) {
	ts := time.Date(2026, 3, 7, 9, 5, 2, 0, time.Local)
	assert.Equal(t, "Scenario_03_07_2026_09_05_02.json", ScenarioFileName(ts))
}

func TestParseScenario_JSONShape(t *testing.T) {
	data := []byte(`{
		"bluePrint": "maps/house.png",
		"robot": {"id": 0, "pos": [100, 120], "route": [[100, 120], [300, 120]]},
		"enemy": [[0, [400, 200]], [3, [50, 60]]]
	}`)

	sc, err := ParseScenario(data, ".json")
	require.NoError(t, err)
	require.NotNil(t, sc.BluePrint)
	assert.Equal(t, "maps/house.png", *sc.BluePrint)
	require.NotNil(t, sc.Robot)
	assert.Equal(t, models.XY{100, 120}, sc.Robot.Pos)
	assert.Equal(t, []models.XY{{100, 120}, {300, 120}}, sc.Robot.Route)
	assert.Equal(t, []models.ScenarioEnemy{
		{ID: 0, Pos: models.XY{400, 200}},
		{ID: 3, Pos: models.XY{50, 60}},
	}, sc.Enemy)
}

func TestParseScenario_YAML(t *testing.T) {
	data := []byte(`
robot:
  id: 0
  pos: [10, 20]
  route: [[10, 20], [10, 80]]
enemy:
  - [1, [30, 40]]
`)

	sc, err := ParseScenario(data, ".yml")
	require.NoError(t, err)
	assert.Nil(t, sc.BluePrint)
	require.NotNil(t, sc.Robot)
	assert.Equal(t, models.XY{10, 20}, sc.Robot.Pos)
	assert.Equal(t, []models.ScenarioEnemy{{ID: 1, Pos: models.XY{30, 40}}}, sc.Enemy)
}

func TestParseScenario_Errors(t *testing.T) {
	_, err := ParseScenario([]byte(`{}`), ".txt")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = ParseScenario([]byte(`{"enemy": [[1]]}`), ".json")
	assert.Error(t, err)
}

func TestSimulator_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	bpPath := filepath.Join(dir, "plan.png")
	f, err := os.Create(bpPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, wallImage(50, 50, 25)))
	require.NoError(t, f.Close())

	src := NewSimulator(DefaultConfig(), nil)
	require.NoError(t, src.LoadBlueprint(bpPath))
	src.PlantRobot(models.Point{X: 100, Y: 100})
	src.AddWaypoint(models.Point{X: 200, Y: 100})
	src.AddWaypoint(models.Point{X: 200, Y: 200})
	src.AddEnemy(models.Point{X: 300, Y: 300})
	src.AddEnemy(models.Point{X: 400, Y: 100})
	src.SelectNear(300, 300, 0)
	src.DeleteSelected()

	path, err := src.SaveScenario(filepath.Join(dir, "scenarios"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "Scenario_"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.JSONEq(t, `[[1, [400, 100]]]`, string(doc["enemy"]))
	assert.JSONEq(t, `{"id": 0, "pos": [100, 100], "route": [[100, 100], [200, 100], [200, 200]]}`, string(doc["robot"]))

	dst := NewSimulator(DefaultConfig(), nil)
	dst.PlantRobot(models.Point{X: 5, Y: 5})
	dst.AddEnemy(models.Point{X: 6, Y: 6})
	require.NoError(t, dst.LoadScenario(path))

	assert.Equal(t, bpPath, dst.Blueprint())
	assert.True(t, dst.HasGrid())

	robot := dst.Robot()
	require.NotNil(t, robot)
	assert.Equal(t, models.Point{X: 100, Y: 100}, robot.Origin)
	assert.Equal(t, []models.Point{{X: 100, Y: 100}, {X: 200, Y: 100}, {X: 200, Y: 200}}, robot.Route)
	assert.Equal(t, models.ModeIdle, robot.Mode)

	enemies := dst.Enemies()
	require.Len(t, enemies, 1)
	assert.Equal(t, 1, enemies[0].ID)
	assert.Equal(t, models.Point{X: 400, Y: 100}, enemies[0].Origin)

	assert.Equal(t, src.ToScenario(), dst.ToScenario())
}

func TestSimulator_ApplyScenarioWithoutBlueprint(t *testing.T) {
	sim, _ := newOpenSim(t)
	sim.AddEnemy(models.Point{X: 1, Y: 1})

	err := sim.ApplyScenario(&models.Scenario{
		Robot: &models.ScenarioRobot{ID: 0, Pos: models.XY{50, 50}},
		Enemy: []models.ScenarioEnemy{{ID: 4, Pos: models.XY{60, 60}}},
	})
	require.NoError(t, err)

	require.NotNil(t, sim.Robot())
	assert.Equal(t, []models.Point{{X: 50, Y: 50}}, sim.Robot().Route)
	enemies := sim.Enemies()
	require.Len(t, enemies, 1)
	assert.Equal(t, 4, enemies[0].ID)
	assert.True(t, sim.HasGrid(), "existing grid is kept when no blueprint is given")
}

func TestSimulator_LoadScenarioMissingBlueprint(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bluePrint": "nowhere.png", "robot": null, "enemy": []}`), 0o644))

	sim := NewSimulator(DefaultConfig(), nil)
	assert.Error(t, sim.LoadScenario(path))
}

func TestSimulator_LoadScenarioMissingBlueprintKeepsWorld(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bluePrint": "nowhere.png", "robot": {"id": 0, "pos": [1, 1], "route": []}, "enemy": []}`), 0o644))

	sim, _ := newOpenSim(t)
	sim.PlantRobot(models.Point{X: 5, Y: 5})
	sim.AddEnemy(models.Point{X: 6, Y: 6})

	assert.Error(t, sim.LoadScenario(path))
	require.NotNil(t, sim.Robot())
	assert.Equal(t, models.Point{X: 5, Y: 5}, sim.Robot().Origin)
	assert.Len(t, sim.Enemies(), 1)
}

func TestSimulator_ApplyScenarioIsAtomic(t *testing.T) {
	sim, _ := newOpenSim(t)
	sim.PlantRobot(models.Point{X: 5, Y: 5})
	sim.AddEnemy(models.Point{X: 6, Y: 6})
	sim.AddEnemy(models.Point{X: 7, Y: 7})

	sc := &models.Scenario{
		Robot: &models.ScenarioRobot{ID: 0, Pos: models.XY{100, 100}},
		Enemy: []models.ScenarioEnemy{{ID: 0, Pos: models.XY{300, 300}}},
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			assert.NoError(t, sim.ApplyScenario(sc))
		}
	}()

	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		sim.Tick()
		snap := sim.Snapshot()
		require.NotNil(t, snap.Robot, "robot missing mid-restore")
		switch snap.Robot.Origin {
		case models.Point{X: 5, Y: 5}:
			assert.Len(t, snap.Enemies, 2)
		case models.Point{X: 100, Y: 100}:
			assert.Len(t, snap.Enemies, 1)
		default:
			t.Fatalf("unexpected robot origin %v", snap.Robot.Origin)
		}
	}
}
