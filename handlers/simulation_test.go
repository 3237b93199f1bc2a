package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cqbsim-backend/models"
	"cqbsim-backend/services"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	c := services.DefaultConfig()
	c.BlueprintDir = t.TempDir()
	c.ScenarioDir = t.TempDir()
	InitSimulation(c)
	Manager = NewClientManager()

	app := fiber.New()
	api := app.Group("/api")
	RegisterRoutes(api)
	RegisterLogRoutes(api)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &out), string(data))
	}
	return resp.StatusCode, out
}

func TestPlantRobotAndState(t *testing.T) {
	app := setupApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/robot", models.PositionCommand{X: 100, Y: 200})
	require.Equal(t, http.StatusOK, status)
	robot := body["robot"].(map[string]interface{})
	assert.Equal(t, float64(0), robot["id"])
	assert.Equal(t, "idle", robot["mode"])

	status, body = doJSON(t, app, http.MethodGet, "/api/state", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["has_grid"])
	require.NotNil(t, body["robot"])
	pos := body["robot"].(map[string]interface{})["position"].(map[string]interface{})
	assert.Equal(t, float64(100), pos["x"])
	assert.Equal(t, float64(200), pos["y"])
}

func TestRobotCommandsWithoutRobot(t *testing.T) {
	app := setupApp(t)

	for _, path := range []string{"/api/robot/auto", "/api/robot/reset", "/api/route/waypoints"} {
		status, body := doJSON(t, app, http.MethodPost, path, map[string]interface{}{"enabled": true, "x": 1, "y": 1})
		assert.Equal(t, http.StatusNotFound, status, path)
		assert.Equal(t, services.ErrNoRobot.Error(), body["error"])
		assert.NotContains(t, body, "success", path)
	}

	status, _ := doJSON(t, app, http.MethodDelete, "/api/route", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAutoRouteViaTicks(t *testing.T) {
	app := setupApp(t)
	doJSON(t, app, http.MethodPost, "/api/robot", models.PositionCommand{X: 0, Y: 0})
	doJSON(t, app, http.MethodPost, "/api/route/waypoints", models.PositionCommand{X: 15, Y: 0})

	status, body := doJSON(t, app, http.MethodPost, "/api/robot/auto", models.AutoMoveCommand{Enabled: true})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "auto_route", body["robot"].(map[string]interface{})["mode"])

	doJSON(t, app, http.MethodPost, "/api/simulation/tick", nil)
	status, body = doJSON(t, app, http.MethodPost, "/api/simulation/tick", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["tick"])
	robot := body["robot"].(map[string]interface{})
	assert.Equal(t, "idle", robot["mode"])
	assert.Equal(t, float64(15), robot["position"].(map[string]interface{})["x"])
}

func TestManualAndStepValidation(t *testing.T) {
	app := setupApp(t)
	doJSON(t, app, http.MethodPost, "/api/robot", models.PositionCommand{X: 50, Y: 50})

	status, _ := doJSON(t, app, http.MethodPost, "/api/robot/manual", models.ManualCommand{Enabled: true, Direction: "sideways"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/robot/manual", models.ManualCommand{Enabled: true, Direction: "right"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "manual", body["robot"].(map[string]interface{})["mode"])

	status, _ = doJSON(t, app, http.MethodPost, "/api/robot/step", models.StepCommand{Direction: "up"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = doJSON(t, app, http.MethodPost, "/api/robot/step", models.StepCommand{Direction: "backward", Ticks: 1})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "replay", body["robot"].(map[string]interface{})["mode"])
}

func TestEnemiesAndSelection(t *testing.T) {
	app := setupApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/enemies", models.PositionCommand{X: 300, Y: 300})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, float64(0), body["id"])
	doJSON(t, app, http.MethodPost, "/api/enemies", models.PositionCommand{X: 600, Y: 100})

	status, body = doJSON(t, app, http.MethodGet, "/api/enemies", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["count"])

	status, body = doJSON(t, app, http.MethodGet, "/api/enemies/1", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "enemy", body["kind"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/enemies/9", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, app, http.MethodDelete, "/api/selected", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = doJSON(t, app, http.MethodPost, "/api/select", models.PositionCommand{X: 302, Y: 299})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])

	status, body = doJSON(t, app, http.MethodGet, "/api/selected", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["id"])

	status, body = doJSON(t, app, http.MethodDelete, "/api/selected", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["removed"].(map[string]interface{})["id"])

	status, body = doJSON(t, app, http.MethodPost, "/api/enemies", models.PositionCommand{X: 10, Y: 10})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, float64(2), body["id"], "ids are not reused")
}

func TestSensorsPartialUpdate(t *testing.T) {
	app := setupApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/sensors", map[string]interface{}{"lidar": true, "camera": true})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["lidar"])
	assert.Equal(t, true, body["camera"])
	assert.Equal(t, true, body["sound"], "unspecified sensors keep their state")
	assert.Equal(t, false, body["sonar"])

	_, body = doJSON(t, app, http.MethodGet, "/api/sensors", nil)
	assert.Equal(t, true, body["lidar"])
}

func TestPredictions(t *testing.T) {
	app := setupApp(t)
	doJSON(t, app, http.MethodPost, "/api/enemies", models.PositionCommand{X: 300, Y: 300})

	status, body := doJSON(t, app, http.MethodPost, "/api/predictions", models.PredictionCommand{Range: 5})
	require.Equal(t, http.StatusOK, status)
	enemy := body["enemies"].([]interface{})[0].(map[string]interface{})
	require.NotNil(t, enemy["predicted"])
}

func TestGenerateBlueprintAndMap(t *testing.T) {
	app := setupApp(t)

	status, body := doJSON(t, app, http.MethodGet, "/api/map", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["has_grid"])

	status, body = doJSON(t, app, http.MethodPost, "/api/blueprint/generate", models.GenerateBlueprintCommand{Rooms: 2, Seed: 11})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["rooms"])
	path := body["path"].(string)

	status, body = doJSON(t, app, http.MethodGet, "/api/map", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["has_grid"])
	assert.Equal(t, float64(900), body["width"])
	assert.Equal(t, path, body["blueprint"])

	status, body = doJSON(t, app, http.MethodPost, "/api/blueprint", models.BlueprintCommand{Path: filepath.Base(path)})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["has_grid"])

	status, _ = doJSON(t, app, http.MethodPost, "/api/blueprint", models.BlueprintCommand{Path: "missing.png"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGeneratedMapRejectsWallPlacement(t *testing.T) {
	app := setupApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/blueprint/generate",
		models.GenerateBlueprintCommand{Width: 50000, Height: 50000, Rooms: 1, Seed: 5})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(900), body["width"])
	assert.Equal(t, float64(600), body["height"])

	// 외벽 (방은 10% 여백 안쪽에만 생긴다)
	status, body = doJSON(t, app, http.MethodPost, "/api/robot", models.PositionCommand{X: 0, Y: 0})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "position is inside a wall", body["error"])
	assert.False(t, sim.HasRobot())

	status, _ = doJSON(t, app, http.MethodPost, "/api/enemies", models.PositionCommand{X: 899, Y: 599})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Empty(t, sim.Enemies())

	status, _ = doJSON(t, app, http.MethodPost, "/api/robot", models.PositionCommand{X: 20, Y: 20})
	assert.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodPost, "/api/enemies", models.PositionCommand{X: 30, Y: 30})
	assert.Equal(t, http.StatusCreated, status)
}

func TestScenarioSaveAndLoad(t *testing.T) {
	app := setupApp(t)
	doJSON(t, app, http.MethodPost, "/api/robot", models.PositionCommand{X: 100, Y: 100})
	doJSON(t, app, http.MethodPost, "/api/route/waypoints", models.PositionCommand{X: 150, Y: 100})
	doJSON(t, app, http.MethodPost, "/api/enemies", models.PositionCommand{X: 400, Y: 400})

	status, body := doJSON(t, app, http.MethodPost, "/api/scenario/save", nil)
	require.Equal(t, http.StatusOK, status)
	path := body["path"].(string)

	doJSON(t, app, http.MethodPost, "/api/reinit", nil)
	_, body = doJSON(t, app, http.MethodGet, "/api/state", nil)
	assert.Nil(t, body["robot"])

	status, body = doJSON(t, app, http.MethodPost, "/api/scenario/load", models.BlueprintCommand{Path: filepath.Base(path)})
	require.Equal(t, http.StatusOK, status)
	robot := body["robot"].(map[string]interface{})
	assert.Len(t, robot["route"], 2)
	assert.Len(t, body["enemies"], 1)

	status, _ = doJSON(t, app, http.MethodPost, "/api/scenario/load", models.BlueprintCommand{Path: "scenario.txt"})
	assert.Equal(t, http.StatusBadRequest, status, "missing file is a read error")
}

func TestPauseResume(t *testing.T) {
	app := setupApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/simulation/pause", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["paused"])
	assert.True(t, runner.IsPaused())

	doJSON(t, app, http.MethodPost, "/api/simulation/resume", nil)
	assert.False(t, runner.IsPaused())
}

func TestLogsWithoutDatabase(t *testing.T) {
	app := setupApp(t)
	services.CloseDatabase()

	status, _ := doJSON(t, app, http.MethodGet, "/api/logs/recent", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/logs/type", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/logs/range?start=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
