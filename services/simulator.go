package services

import (
	"errors"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"cqbsim-backend/algorithms"
	"cqbsim-backend/models"
)

var (
	ErrNoBlueprint = errors.New("no blueprint configured")
	ErrNoRobot     = errors.New("no robot planted")
)

// 장애물 회피 트립와이어 (셀)
const obstacleStopDistance = 20

// DefaultSensors - 기본 센서 상태 (소리 방위만 켜짐)
func DefaultSensors() models.SensorFlags {
	return models.SensorFlags{Sound: true}
}

// Simulator - 맵 위의 로봇, 적, 점유 그리드를 소유하고 틱 단위로 진행
//
// 모든 공개 메서드는 하나의 뮤텍스로 직렬화된다. eventFunc는 잠금을 가진 상태로
// 호출되므로 Simulator 메서드를 다시 호출하면 안 된다.
type Simulator struct {
	cfg Config

	grid      *algorithms.OccupancyGrid
	blueprint string

	robot       *models.Robot
	enemies     []*models.Enemy
	nextEnemyID int

	sensors  models.SensorFlags
	readings models.SensorReadings
	tick     int64

	rng       *rand.Rand
	eventFunc func(models.SimEvent)
	mu        sync.Mutex
}

// NewSimulator - 시뮬레이터 생성
func NewSimulator(cfg Config, eventFunc func(models.SimEvent)) *Simulator {
	return &Simulator{
		cfg:       cfg,
		sensors:   DefaultSensors(),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		eventFunc: eventFunc,
	}
}

// SetEventFunc - 이벤트 수신 함수 설정
func (s *Simulator) SetEventFunc(f func(models.SimEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventFunc = f
}

// SetSeed - 예측 위치 난수 시드 고정 (테스트/재현용)
func (s *Simulator) SetSeed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng = rand.New(rand.NewSource(seed))
}

// Config - 현재 설정
func (s *Simulator) Config() Config {
	return s.cfg
}

// ========================================
// 점유 그리드
// ========================================

// BuildGrid - 픽셀 버퍼로 점유 그리드를 새로 만든다 (기존 그리드는 교체)
func (s *Simulator) BuildGrid(pixels []algorithms.RGB, width, height int) {
	grid := algorithms.Build(pixels, width, height)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid = grid
	log.Printf("🗺️  점유 그리드 생성: 이미지 %dx%d, 장애물 셀 %d개", width, height, grid.ObstacleCount())
}

// SetGrid - 이미 만들어진 그리드 설정 (nil이면 제거)
func (s *Simulator) SetGrid(grid *algorithms.OccupancyGrid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid = grid
	if grid == nil {
		s.clearGridReadings()
	}
}

// HasGrid - 그리드 존재 여부
func (s *Simulator) HasGrid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid != nil
}

// Grid - 현재 그리드 (없으면 nil). 그리드는 생성 후 변경되지 않는다.
func (s *Simulator) Grid() *algorithms.OccupancyGrid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid
}

// Blueprint - 현재 블루프린트 경로
func (s *Simulator) Blueprint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blueprint
}

// ========================================
// 배치 / 선택
// ========================================

// PlantRobot - 로봇 배치 (기존 로봇은 교체, id는 항상 0)
func (s *Simulator) PlantRobot(pos models.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.plantRobot(0, pos)
	s.emit(models.EventRobotPlanted, map[string]interface{}{"x": pos.X, "y": pos.Y})
}

func (s *Simulator) plantRobot(id int, pos models.Point) {
	s.robot = models.NewRobot(id, pos, s.cfg.RobotSpeed, s.cfg.TrajectoryMax)
	s.readings = models.SensorReadings{}
}

// AddEnemy - 적 추가, 새 id 반환 (id는 삭제 후에도 재사용하지 않음)
func (s *Simulator) AddEnemy(pos models.Point) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.addEnemy(s.nextEnemyID, pos)
	s.emit(models.EventEnemyAdded, map[string]interface{}{"id": id, "x": pos.X, "y": pos.Y})
	return id
}

func (s *Simulator) addEnemy(id int, pos models.Point) int {
	s.enemies = append(s.enemies, models.NewEnemy(id, pos))
	if id >= s.nextEnemyID {
		s.nextEnemyID = id + 1
	}
	return id
}

// SelectNear - (x, y)에서 threshold 이내의 로봇/적을 선택하고 나머지는 선택 해제
//
// threshold <= 0이면 설정값을 사용한다. 선택된 대상 수를 반환한다.
func (s *Simulator) SelectNear(x, y int, threshold float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if threshold <= 0 {
		threshold = s.cfg.SelectThreshold
	}

	count := 0
	if s.robot != nil {
		s.robot.Selected = s.robot.IsNear(x, y, threshold)
		if s.robot.Selected {
			count++
			log.Printf("🎯 로봇 선택: (%d, %d)", x, y)
		}
	}
	for _, e := range s.enemies {
		e.Selected = e.IsNear(x, y, threshold)
		if e.Selected {
			count++
			log.Printf("🎯 적 %d 선택: (%d, %d)", e.ID, x, y)
		}
	}
	return count
}

// SelectedInfo - 선택된 대상 정보 (로봇 우선, 다음은 첫 번째 선택된 적)
func (s *Simulator) SelectedInfo() (models.Entity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.robot != nil && s.robot.Selected {
		return s.robot.Entity, true
	}
	for _, e := range s.enemies {
		if e.Selected {
			return e.Entity, true
		}
	}
	return models.Entity{}, false
}

// DeleteSelected - 선택된 로봇을 제거하거나, 없으면 첫 번째 선택된 적을 제거
func (s *Simulator) DeleteSelected() (models.Entity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.robot != nil && s.robot.Selected {
		s.robot.SetAutoMove(false)
		removed := s.robot.Entity
		s.robot = nil
		s.readings = models.SensorReadings{}
		s.emit(models.EventTargetDeleted, map[string]interface{}{"kind": removed.Kind, "id": removed.ID})
		return removed, true
	}

	for i, e := range s.enemies {
		if e.Selected {
			s.enemies = append(s.enemies[:i], s.enemies[i+1:]...)
			// 인덱스 기반 결과는 다음 틱에 다시 계산된다
			s.readings.DetectedEnemy = nil
			s.readings.SoundBearings = nil
			s.emit(models.EventTargetDeleted, map[string]interface{}{"kind": e.Kind, "id": e.ID})
			return e.Entity, true
		}
	}
	return models.Entity{}, false
}

// ========================================
// 조회
// ========================================

// HasRobot - 로봇 존재 여부
func (s *Simulator) HasRobot() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.robot != nil
}

// Robot - 로봇 상태 복사본 (없으면 nil)
func (s *Simulator) Robot() *models.RobotSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.NewRobotSnapshot(s.robot)
}

// Enemies - 모든 적 (추가된 순서)
func (s *Simulator) Enemies() []models.Enemy {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Enemy, len(s.enemies))
	for i, e := range s.enemies {
		out[i] = *e
	}
	return out
}

// Enemy - id로 적 조회
func (s *Simulator) Enemy(id int) (models.Enemy, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.enemies {
		if e.ID == id {
			return *e, true
		}
	}
	return models.Enemy{}, false
}

// ========================================
// 로봇 제어 (로봇이 없으면 모두 no-op)
// ========================================

// AddWaypoint - 로봇 경로에 웨이포인트 추가
func (s *Simulator) AddWaypoint(p models.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.robot == nil {
		return
	}
	s.robot.AddWaypoint(p)
	s.emit(models.EventWaypointAdded, map[string]interface{}{"x": p.X, "y": p.Y})
}

// ClearRoute - 로봇 경로 초기화
func (s *Simulator) ClearRoute() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.robot == nil {
		return
	}
	s.robot.ClearRoute()
	s.emit(models.EventRouteCleared, nil)
}

// SetAutoMove - 자동 주행 시작/정지
func (s *Simulator) SetAutoMove(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.robot == nil {
		return
	}
	s.robot.SetAutoMove(enabled)
	s.emit(models.EventAutoMove, map[string]interface{}{"enabled": enabled})
}

// SetManualControl - 수동 조작 on/off 및 방향 설정
func (s *Simulator) SetManualControl(enabled bool, dir models.Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.robot == nil {
		return
	}
	s.robot.SetManualControl(enabled, dir)
	s.emit(models.EventManualControl, map[string]interface{}{"enabled": enabled, "direction": string(dir)})
}

// StepForward - 궤적 앞으로 n 틱 (n <= 0이면 설정값)
func (s *Simulator) StepForward(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.robot == nil {
		return
	}
	if n <= 0 {
		n = s.cfg.StepTicks
	}
	s.robot.StepForward(n)
	s.emit(models.EventStep, map[string]interface{}{"ticks": n})
}

// StepBackward - 궤적 뒤로 n 틱 (n <= 0이면 설정값)
func (s *Simulator) StepBackward(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.robot == nil {
		return
	}
	if n <= 0 {
		n = s.cfg.StepTicks
	}
	s.robot.StepBackward(n)
	s.emit(models.EventStep, map[string]interface{}{"ticks": -n})
}

// ResumeFromReplay - 재생 모드 종료
func (s *Simulator) ResumeFromReplay() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.robot != nil {
		s.robot.ResumeFromReplay()
	}
}

// ResetRobot - 로봇을 원점으로 복귀
func (s *Simulator) ResetRobot() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.robot == nil {
		return
	}
	s.robot.ResetToOrigin()
	s.emit(models.EventReset, nil)
}

// ========================================
// 센서 설정
// ========================================

// SetSensors - 센서 활성화 상태 일괄 설정
func (s *Simulator) SetSensors(flags models.SensorFlags) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sensors = flags
	s.dropDisabledReadings()
}

// Sensors - 센서 활성화 상태
func (s *Simulator) Sensors() models.SensorFlags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sensors
}

// EnableSonar - 소나 on/off
func (s *Simulator) EnableSonar(on bool) {
	s.updateSensors(func(f *models.SensorFlags) { f.Sonar = on })
}

// EnableSound - 소리 방위 on/off
func (s *Simulator) EnableSound(on bool) {
	s.updateSensors(func(f *models.SensorFlags) { f.Sound = on })
}

// EnableLidar - 라이다 on/off
func (s *Simulator) EnableLidar(on bool) {
	s.updateSensors(func(f *models.SensorFlags) { f.Lidar = on })
}

// EnableCamera - 카메라 on/off
func (s *Simulator) EnableCamera(on bool) {
	s.updateSensors(func(f *models.SensorFlags) { f.Camera = on })
}

// EnableCameraDetection - 카메라 적 탐지 on/off (카메라가 켜져 있어야 동작)
func (s *Simulator) EnableCameraDetection(on bool) {
	s.updateSensors(func(f *models.SensorFlags) { f.Detection = on })
}

// EnableObstacleAvoidance - 장애물 회피 on/off
func (s *Simulator) EnableObstacleAvoidance(on bool) {
	s.updateSensors(func(f *models.SensorFlags) { f.Avoidance = on })
}

func (s *Simulator) updateSensors(apply func(*models.SensorFlags)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apply(&s.sensors)
	s.dropDisabledReadings()
}

// dropDisabledReadings - 꺼진 센서의 이전 결과 제거
func (s *Simulator) dropDisabledReadings() {
	if !s.sensors.Sonar {
		s.readings.Sonar = nil
	}
	if !s.sensors.Sound {
		s.readings.SoundBearings = nil
	}
	if !s.sensors.Lidar {
		s.readings.Lidar = nil
	}
	if !s.sensors.Camera {
		s.readings.Camera = nil
	}
	if !s.sensors.Camera || !s.sensors.Detection {
		s.readings.DetectedEnemy = nil
	}
}

func (s *Simulator) clearGridReadings() {
	s.readings.Sonar = nil
	s.readings.Lidar = nil
	s.readings.Camera = nil
	s.readings.DetectedEnemy = nil
}

// ========================================
// 적 예측 위치
// ========================================

// GenerateEnemyPredictions - 모든 적에 대해 원점 ± rangePx 범위의 무작위 예측 위치 생성
func (s *Simulator) GenerateEnemyPredictions(rangePx int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rangePx <= 0 {
		rangePx = s.cfg.PredictionRange
	}
	for _, e := range s.enemies {
		dx := s.rng.Intn(2*rangePx+1) - rangePx
		dy := s.rng.Intn(2*rangePx+1) - rangePx
		e.SetPredicted(e.Origin.Add(models.Point{X: dx, Y: dy}))
	}
	s.emit(models.EventPredictions, map[string]interface{}{"range": rangePx, "count": len(s.enemies)})
}

// ========================================
// 초기화 / 시나리오
// ========================================

// ReInit - 로봇과 적을 모두 제거 (그리드와 센서 설정은 유지)
func (s *Simulator) ReInit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reInit()
	s.emit(models.EventReInit, nil)
}

func (s *Simulator) reInit() {
	s.robot = nil
	s.enemies = nil
	s.nextEnemyID = 0
	s.readings = models.SensorReadings{}
}

// SetRobot - 저장된 정보로 로봇 복원
//
// route가 원점으로 시작하면 그 원점은 건너뛴다 (route[0]은 항상 원점).
func (s *Simulator) SetRobot(id int, pos models.Point, route []models.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setRobot(id, pos, route)
}

func (s *Simulator) setRobot(id int, pos models.Point, route []models.Point) {
	s.plantRobot(id, pos)
	if len(route) > 0 && route[0] == pos {
		route = route[1:]
	}
	for _, wp := range route {
		s.robot.AddWaypoint(wp)
	}
}

// SetEnemies - 저장된 적 목록 추가 (id가 이미 쓰였으면 새 id 부여)
func (s *Simulator) SetEnemies(list []models.ScenarioEnemy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setEnemies(list)
}

func (s *Simulator) setEnemies(list []models.ScenarioEnemy) {
	used := make(map[int]bool, len(s.enemies))
	for _, e := range s.enemies {
		used[e.ID] = true
	}
	for _, info := range list {
		id := info.ID
		if id < 0 || used[id] {
			id = s.nextEnemyID
		}
		used[id] = true
		s.addEnemy(id, info.Pos.ToPoint())
	}
}

// ========================================
// 틱
// ========================================

// Tick - 로봇 이동 후 켜진 센서를 고정 순서로 계산
//
// 순서: 소나 → 소리 방위 → 라이다 → 장애물 회피 → 카메라 → 적 탐지
func (s *Simulator) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tick++
	if s.robot == nil {
		return
	}

	wasRouting := s.robot.Mode() == models.ModeAutoRoute
	s.robot.Tick()
	if wasRouting && s.robot.Mode() == models.ModeIdle {
		pos := s.robot.Position()
		s.emit(models.EventRouteComplete, map[string]interface{}{"x": pos.X, "y": pos.Y})
	}

	s.updateSonar()
	s.updateSoundBearings()
	s.updateLidar()
	s.checkObstacleAvoidance()
	s.updateCamera()
	s.updateDetection()
	s.readings.HeadingDegrees = s.robot.HeadingDegrees()

	s.emit(models.EventTick, nil)
}

// TickCount - 지금까지 진행한 틱 수
func (s *Simulator) TickCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

func (s *Simulator) updateSonar() {
	s.readings.Sonar = nil
	if !s.sensors.Sonar || s.grid == nil {
		return
	}
	pos := s.robot.Position()
	if reading, ok := s.grid.Sonar(pos.X, pos.Y); ok {
		s.readings.Sonar = &reading
	}
}

// updateSoundBearings - 소리는 벽에 가려지지 않으므로 그리드 없이도 계산
func (s *Simulator) updateSoundBearings() {
	s.readings.SoundBearings = nil
	if !s.sensors.Sound {
		return
	}
	pos := s.robot.Position()
	bearings := make([]float64, len(s.enemies))
	for i, e := range s.enemies {
		bearings[i] = algorithms.Bearing(pos.X, pos.Y, e.Origin.X, e.Origin.Y)
	}
	s.readings.SoundBearings = bearings
}

func (s *Simulator) updateLidar() {
	s.readings.Lidar = nil
	if !s.sensors.Lidar {
		return
	}
	if beam, ok := s.beam(s.robot.HeadingDegrees()); ok {
		s.readings.Lidar = &beam
	}
}

// checkObstacleAvoidance - 라이다 거리가 (0, 20) 이면 이동 강제 정지
func (s *Simulator) checkObstacleAvoidance() {
	if !s.sensors.Avoidance {
		return
	}
	mode := s.robot.Mode()
	if mode != models.ModeAutoRoute && mode != models.ModeManual {
		return
	}

	var dist int
	if s.readings.Lidar != nil {
		dist = s.readings.Lidar.Distance
	} else if beam, ok := s.beam(s.robot.HeadingDegrees()); ok {
		dist = beam.Distance
	} else {
		return
	}

	if dist > 0 && dist < obstacleStopDistance {
		s.robot.SetAutoMove(false)
		log.Printf("🛑 장애물 감지로 정지 (거리 %d)", dist)
		s.emit(models.EventObstacleStop, map[string]interface{}{"distance": dist})
	}
}

func (s *Simulator) updateCamera() {
	s.readings.Camera = nil
	if !s.sensors.Camera {
		return
	}
	heading := s.robot.HeadingDegrees()
	left, ok := s.beam(heading - s.cfg.CameraHalfAngle)
	if !ok {
		return
	}
	right, _ := s.beam(heading + s.cfg.CameraHalfAngle)
	s.readings.Camera = &models.CameraReading{Left: left, Right: right}
}

// updateDetection - 카메라 시야각 안에 있고 센서 최대 도달 거리 이내인 적의 인덱스
func (s *Simulator) updateDetection() {
	previous := s.readings.DetectedEnemy
	s.readings.DetectedEnemy = nil
	if !s.sensors.Detection || s.readings.Camera == nil {
		return
	}

	reach := math.Max(float64(s.readings.Camera.Left.Distance), float64(s.readings.Camera.Right.Distance))
	if s.readings.Lidar != nil {
		reach = math.Max(reach, float64(s.readings.Lidar.Distance))
	}

	pos := s.robot.Position()
	heading := s.robot.HeadingDegrees()
	detected := []int{}
	for i, e := range s.enemies {
		bearing := algorithms.Bearing(pos.X, pos.Y, e.Origin.X, e.Origin.Y)
		if !algorithms.InCone(bearing, heading, s.cfg.CameraHalfAngle) {
			continue
		}
		if pos.DistanceTo(e.Origin) <= reach {
			detected = append(detected, i)
		}
	}
	s.readings.DetectedEnemy = detected

	if len(detected) > 0 && !sameInts(previous, detected) {
		ids := make([]int, len(detected))
		for i, idx := range detected {
			ids[i] = s.enemies[idx].ID
		}
		s.emit(models.EventEnemyDetected, map[string]interface{}{"ids": ids})
	}
}

// beam - 로봇 위치에서 빔 터치 (그리드가 없으면 ok=false)
func (s *Simulator) beam(angle float64) (algorithms.BeamResult, bool) {
	if s.grid == nil {
		return algorithms.BeamResult{}, false
	}
	pos := s.robot.Position()
	return s.grid.BeamTouch(pos.X, pos.Y, angle), true
}

// ========================================
// 결과 조회
// ========================================

// SonarData - 마지막 소나 결과
func (s *Simulator) SonarData() (algorithms.SonarReading, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readings.Sonar == nil {
		return algorithms.SonarReading{}, false
	}
	return *s.readings.Sonar, true
}

// LidarData - 마지막 라이다 결과
func (s *Simulator) LidarData() (algorithms.BeamResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readings.Lidar == nil {
		return algorithms.BeamResult{}, false
	}
	return *s.readings.Lidar, true
}

// CameraData - 마지막 카메라 결과
func (s *Simulator) CameraData() (models.CameraReading, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readings.Camera == nil {
		return models.CameraReading{}, false
	}
	return *s.readings.Camera, true
}

// SoundBearings - 적별 소리 방위 (적 순서와 동일)
func (s *Simulator) SoundBearings() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]float64(nil), s.readings.SoundBearings...)
}

// DetectedEnemies - 탐지된 적 인덱스
func (s *Simulator) DetectedEnemies() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.readings.DetectedEnemy...)
}

// HeadingDegrees - 로봇 진행 각도 (로봇이 없으면 ok=false)
func (s *Simulator) HeadingDegrees() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.robot == nil {
		return 0, false
	}
	return s.robot.HeadingDegrees(), true
}

// Snapshot - 렌더링용 전체 상태
func (s *Simulator) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Simulator) snapshot() models.Snapshot {
	detected := make(map[int]bool, len(s.readings.DetectedEnemy))
	for _, idx := range s.readings.DetectedEnemy {
		detected[idx] = true
	}

	enemies := make([]models.EnemySnapshot, len(s.enemies))
	for i, e := range s.enemies {
		enemies[i] = models.EnemySnapshot{Enemy: *e, Detected: detected[i]}
	}

	readings := s.readings
	readings.SoundBearings = append([]float64(nil), s.readings.SoundBearings...)
	readings.DetectedEnemy = append([]int(nil), s.readings.DetectedEnemy...)

	return models.Snapshot{
		Tick:      s.tick,
		HasGrid:   s.grid != nil,
		Blueprint: s.blueprint,
		Robot:     models.NewRobotSnapshot(s.robot),
		Enemies:   enemies,
		Sensors:   s.sensors,
		Readings:  readings,
	}
}

// emit - 이벤트 전달 (잠금 상태에서 호출)
func (s *Simulator) emit(eventType string, data map[string]interface{}) {
	if s.eventFunc == nil {
		return
	}
	readings := s.readings
	s.eventFunc(models.SimEvent{
		Type:     eventType,
		Tick:     s.tick,
		Robot:    models.NewRobotSnapshot(s.robot),
		Readings: &readings,
		Data:     data,
	})
}

func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
