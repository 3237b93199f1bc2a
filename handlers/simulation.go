package handlers

import (
	"errors"
	"log"
	"path/filepath"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"cqbsim-backend/models"
	"cqbsim-backend/services"
)

var (
	sim    *services.Simulator
	runner *services.Runner
	mapGen *services.MapGenerator
	cfg    services.Config
)

// InitSimulation - 시뮬레이터와 틱 루프 생성 (루프는 StartSimulation에서 시작)
func InitSimulation(c services.Config) *services.Simulator {
	cfg = c
	sim = services.NewSimulator(cfg, handleSimEvent)
	runner = services.NewRunner(sim, cfg.TickPeriod, cfg.UpdateRate, BroadcastState)
	mapGen = services.NewMapGenerator(0)
	log.Println("✅ 시뮬레이터 초기화 완료")
	return sim
}

// StartSimulation - 틱 루프 시작
func StartSimulation() {
	if runner != nil {
		runner.Start()
	}
}

// StopSimulation - 틱 루프 중지
func StopSimulation() {
	if runner != nil {
		runner.Stop()
	}
}

// handleSimEvent - 이벤트를 로그 버퍼에 넣고 주요 이벤트는 웹으로 알림
func handleSimEvent(ev models.SimEvent) {
	services.LogEvent(ev)

	var msgType string
	switch ev.Type {
	case models.EventEnemyDetected:
		msgType = models.MessageTypeEnemyDetected
	case models.EventObstacleStop:
		msgType = models.MessageTypeObstacleStop
	case models.EventBlueprintLoaded:
		msgType = models.MessageTypeMapUpdate
	default:
		return
	}
	Manager.BroadcastMessage(models.WebSocketMessage{Type: msgType, Data: ev.Data})
}

// RegisterRoutes - REST API 등록
func RegisterRoutes(api fiber.Router) {
	api.Get("/state", HandleGetState)
	api.Get("/map", HandleGetMap)

	api.Post("/blueprint", HandleLoadBlueprint)
	api.Post("/blueprint/generate", HandleGenerateBlueprint)

	api.Post("/robot", HandlePlantRobot)
	api.Post("/robot/auto", HandleAutoMove)
	api.Post("/robot/manual", HandleManualControl)
	api.Post("/robot/step", HandleStep)
	api.Post("/robot/resume", HandleResumeReplay)
	api.Post("/robot/reset", HandleResetRobot)

	api.Get("/enemies", HandleGetEnemies)
	api.Get("/enemies/:id", HandleGetEnemy)
	api.Post("/enemies", HandleAddEnemy)

	api.Post("/select", HandleSelect)
	api.Get("/selected", HandleGetSelected)
	api.Delete("/selected", HandleDeleteSelected)

	api.Post("/route/waypoints", HandleAddWaypoint)
	api.Delete("/route", HandleClearRoute)

	api.Get("/sensors", HandleGetSensors)
	api.Post("/sensors", HandleSetSensors)
	api.Post("/predictions", HandlePredictions)
	api.Post("/reinit", HandleReInit)

	api.Post("/scenario/save", HandleSaveScenario)
	api.Post("/scenario/load", HandleLoadScenario)

	api.Post("/simulation/pause", HandlePause)
	api.Post("/simulation/resume", HandleResume)
	api.Post("/simulation/tick", HandleTick)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func robotNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": services.ErrNoRobot.Error()})
}

// onGeneratedWall - 합성 맵이 로드된 상태에서 (x, y)가 벽이거나 맵 밖인지 확인
func onGeneratedWall(x, y int) bool {
	path := mapGen.ActivePath()
	if path == "" || path != sim.Blueprint() {
		return false
	}
	return !mapGen.IsPositionValid(x, y)
}

func wallPlacement(c *fiber.Ctx) error {
	return badRequest(c, "position is inside a wall")
}

func robotResponse(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"robot":   sim.Robot(),
	})
}

// ========================================
// 조회
// ========================================

// HandleGetState - 전체 상태 스냅샷
func HandleGetState(c *fiber.Ctx) error {
	return c.JSON(sim.Snapshot())
}

// HandleGetMap - 그리드 크기와 장애물 수
func HandleGetMap(c *fiber.Ctx) error {
	grid := sim.Grid()
	if grid == nil {
		return c.JSON(fiber.Map{"has_grid": false})
	}
	return c.JSON(fiber.Map{
		"has_grid":  true,
		"width":     grid.Width(),
		"height":    grid.Height(),
		"obstacles": grid.ObstacleCount(),
		"blueprint": sim.Blueprint(),
	})
}

// ========================================
// 블루프린트
// ========================================

// HandleLoadBlueprint - 블루프린트 파일 로드 (상대 경로는 블루프린트 디렉터리 기준)
func HandleLoadBlueprint(c *fiber.Ctx) error {
	var req models.BlueprintCommand
	if err := c.BodyParser(&req); err != nil || req.Path == "" {
		return badRequest(c, "path is required")
	}

	path := req.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.BlueprintDir, path)
	}
	if err := sim.LoadBlueprint(path); err != nil {
		log.Printf("❌ 블루프린트 로드 실패: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	mapGen.ClearMap()
	return HandleGetMap(c)
}

// HandleGenerateBlueprint - 합성 블루프린트를 생성해 저장하고 로드
func HandleGenerateBlueprint(c *fiber.Ctx) error {
	var req models.GenerateBlueprintCommand
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid body")
		}
	}
	if req.Rooms <= 0 {
		req.Rooms = 4
	}

	mapGen.SetSeed(req.Seed)
	bp := mapGen.GenerateBlueprint(req.Width, req.Height, req.Rooms)
	path, err := mapGen.SaveActive(cfg.BlueprintDir)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if err := sim.LoadBlueprint(path); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	log.Printf("🧱 합성 블루프린트 생성: %s (방 %d개)", path, len(bp.Rooms))
	return c.JSON(fiber.Map{
		"success": true,
		"id":      bp.ID,
		"path":    path,
		"width":   bp.Image.Bounds().Dx(),
		"height":  bp.Image.Bounds().Dy(),
		"rooms":   len(bp.Rooms),
	})
}

// ========================================
// 로봇
// ========================================

// HandlePlantRobot - 로봇 배치
func HandlePlantRobot(c *fiber.Ctx) error {
	var req models.PositionCommand
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "x and y are required")
	}
	if onGeneratedWall(req.X, req.Y) {
		return wallPlacement(c)
	}
	sim.PlantRobot(models.Point{X: req.X, Y: req.Y})
	return robotResponse(c)
}

// HandleAutoMove - 자동 주행 on/off
func HandleAutoMove(c *fiber.Ctx) error {
	var req models.AutoMoveCommand
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if !sim.HasRobot() {
		return robotNotFound(c)
	}
	sim.SetAutoMove(req.Enabled)
	return robotResponse(c)
}

// HandleManualControl - 수동 조작 on/off, 방향 변경
func HandleManualControl(c *fiber.Ctx) error {
	var req models.ManualCommand
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	dir, ok := models.ParseDirection(req.Direction)
	if req.Enabled && !ok {
		return badRequest(c, "unknown direction: "+req.Direction)
	}
	if !sim.HasRobot() {
		return robotNotFound(c)
	}
	sim.SetManualControl(req.Enabled, dir)
	return robotResponse(c)
}

// HandleStep - 궤적 재생 앞/뒤 이동
func HandleStep(c *fiber.Ctx) error {
	var req models.StepCommand
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if !sim.HasRobot() {
		return robotNotFound(c)
	}
	switch req.Direction {
	case "forward":
		sim.StepForward(req.Ticks)
	case "backward":
		sim.StepBackward(req.Ticks)
	default:
		return badRequest(c, "direction must be forward or backward")
	}
	return robotResponse(c)
}

// HandleResumeReplay - 재생 모드 종료
func HandleResumeReplay(c *fiber.Ctx) error {
	if !sim.HasRobot() {
		return robotNotFound(c)
	}
	sim.ResumeFromReplay()
	return robotResponse(c)
}

// HandleResetRobot - 원점 복귀
func HandleResetRobot(c *fiber.Ctx) error {
	if !sim.HasRobot() {
		return robotNotFound(c)
	}
	sim.ResetRobot()
	return robotResponse(c)
}

// HandleAddWaypoint - 웨이포인트 추가
func HandleAddWaypoint(c *fiber.Ctx) error {
	var req models.PositionCommand
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "x and y are required")
	}
	if !sim.HasRobot() {
		return robotNotFound(c)
	}
	sim.AddWaypoint(models.Point{X: req.X, Y: req.Y})
	return robotResponse(c)
}

// HandleClearRoute - 경로 초기화
func HandleClearRoute(c *fiber.Ctx) error {
	if !sim.HasRobot() {
		return robotNotFound(c)
	}
	sim.ClearRoute()
	return robotResponse(c)
}

// ========================================
// 적 / 선택
// ========================================

// HandleGetEnemies - 적 목록
func HandleGetEnemies(c *fiber.Ctx) error {
	enemies := sim.Enemies()
	return c.JSON(fiber.Map{
		"count":   len(enemies),
		"enemies": enemies,
	})
}

// HandleGetEnemy - id로 적 조회
func HandleGetEnemy(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid id")
	}
	enemy, ok := sim.Enemy(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "enemy not found"})
	}
	return c.JSON(enemy)
}

// HandleAddEnemy - 적 추가
func HandleAddEnemy(c *fiber.Ctx) error {
	var req models.PositionCommand
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "x and y are required")
	}
	if onGeneratedWall(req.X, req.Y) {
		return wallPlacement(c)
	}
	id := sim.AddEnemy(models.Point{X: req.X, Y: req.Y})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"id":      id,
	})
}

// HandleSelect - 좌표 근처 대상 선택
func HandleSelect(c *fiber.Ctx) error {
	var req models.PositionCommand
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "x and y are required")
	}
	count := sim.SelectNear(req.X, req.Y, 0)
	resp := fiber.Map{"success": true, "count": count}
	if info, ok := sim.SelectedInfo(); ok {
		resp["selected"] = info
	}
	return c.JSON(resp)
}

// HandleGetSelected - 선택된 대상 정보
func HandleGetSelected(c *fiber.Ctx) error {
	info, ok := sim.SelectedInfo()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "nothing selected"})
	}
	return c.JSON(info)
}

// HandleDeleteSelected - 선택된 대상 삭제
func HandleDeleteSelected(c *fiber.Ctx) error {
	removed, ok := sim.DeleteSelected()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "nothing selected"})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"removed": removed,
	})
}

// HandlePredictions - 적 예측 위치 생성
func HandlePredictions(c *fiber.Ctx) error {
	var req models.PredictionCommand
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid body")
		}
	}
	sim.GenerateEnemyPredictions(req.Range)
	return HandleGetEnemies(c)
}

// HandleReInit - 모든 대상 제거
func HandleReInit(c *fiber.Ctx) error {
	sim.ReInit()
	return c.JSON(fiber.Map{"success": true})
}

// ========================================
// 센서
// ========================================

// HandleGetSensors - 센서 활성화 상태
func HandleGetSensors(c *fiber.Ctx) error {
	return c.JSON(sim.Sensors())
}

// HandleSetSensors - 지정된 센서만 변경
func HandleSetSensors(c *fiber.Ctx) error {
	var req models.SensorCommand
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	flags := sim.Sensors()
	setFlag(&flags.Sonar, req.Sonar)
	setFlag(&flags.Sound, req.Sound)
	setFlag(&flags.Lidar, req.Lidar)
	setFlag(&flags.Camera, req.Camera)
	setFlag(&flags.Detection, req.Detection)
	setFlag(&flags.Avoidance, req.Avoidance)
	sim.SetSensors(flags)

	return c.JSON(flags)
}

func setFlag(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// ========================================
// 시나리오
// ========================================

// HandleSaveScenario - 현재 상태를 시나리오 파일로 저장
func HandleSaveScenario(c *fiber.Ctx) error {
	path, err := sim.SaveScenario(cfg.ScenarioDir)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"path":     path,
		"scenario": sim.ToScenario(),
	})
}

// HandleLoadScenario - 시나리오 파일 로드 (상대 경로는 시나리오 디렉터리 기준)
func HandleLoadScenario(c *fiber.Ctx) error {
	var req models.BlueprintCommand
	if err := c.BodyParser(&req); err != nil || req.Path == "" {
		return badRequest(c, "path is required")
	}

	path := req.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.ScenarioDir, path)
	}
	if err := sim.LoadScenario(path); err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, services.ErrUnknownFormat) {
			status = fiber.StatusUnsupportedMediaType
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(sim.Snapshot())
}

// ========================================
// 시뮬레이션 루프
// ========================================

// HandlePause - 틱 진행 일시정지
func HandlePause(c *fiber.Ctx) error {
	runner.Pause()
	return c.JSON(fiber.Map{"success": true, "paused": true})
}

// HandleResume - 틱 진행 재개
func HandleResume(c *fiber.Ctx) error {
	runner.Resume()
	return c.JSON(fiber.Map{"success": true, "paused": false})
}

// HandleTick - 게이트를 거치지 않고 한 틱 진행
func HandleTick(c *fiber.Ctx) error {
	sim.Tick()
	snap := sim.Snapshot()
	BroadcastState(snap)
	return c.JSON(snap)
}
