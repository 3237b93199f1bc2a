package models

import (
	"math"
	"strings"
)

// ========================================
// 로봇 이동 모드
// ========================================
const (
	ModeIdle      RobotMode = "idle"       // 정지
	ModeAutoRoute RobotMode = "auto_route" // 웨이포인트 자동 주행
	ModeManual    RobotMode = "manual"     // 수동 조작 (방향 명령)
	ModeReplay    RobotMode = "replay"     // 궤적 스텝 재생
)

// RobotMode - 로봇 이동 모드 타입 (항상 하나만 활성)
type RobotMode string

// 기본값
const (
	DefaultMoveSpeed     = 10  // 픽셀/틱
	DefaultTrajectoryMax = 100 // 궤적 최대 길이
)

// ========================================
// 수동 조작 방향
// ========================================
type Direction string

const (
	DirUpLeft    Direction = "upleft"
	DirUp        Direction = "up"
	DirUpRight   Direction = "upright"
	DirLeft      Direction = "left"
	DirStop      Direction = "stop"
	DirRight     Direction = "right"
	DirDownLeft  Direction = "downleft"
	DirDown      Direction = "down"
	DirDownRight Direction = "downright"
)

var directionVectors = map[Direction]Point{
	DirUpLeft:    {-1, -1},
	DirUp:        {0, -1},
	DirUpRight:   {1, -1},
	DirLeft:      {-1, 0},
	DirStop:      {0, 0},
	DirRight:     {1, 0},
	DirDownLeft:  {-1, 1},
	DirDown:      {0, 1},
	DirDownRight: {1, 1},
}

// ParseDirection - 문자열을 방향으로 변환 ("return"은 stop의 별칭)
func ParseDirection(s string) (Direction, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "return" {
		return DirStop, true
	}
	d := Direction(s)
	_, ok := directionVectors[d]
	return d, ok
}

// Vector - 방향 단위 벡터 ({-1,0,1}²)
func (d Direction) Vector() Point {
	return directionVectors[d]
}

// Robot - 이동하는 로봇
type Robot struct {
	Entity

	current    Point
	route      []Point // route[0] == Origin
	trajectory []Point
	trajMax    int
	speed      int

	mode      RobotMode
	heading   Point // 원시(정규화 안 된) 방향 벡터
	direction Point // 수동 조작 방향
	targetIdx int
	replayIdx int
}

// NewRobot - 로봇 생성
func NewRobot(id int, pos Point, speed, trajMax int) *Robot {
	if speed <= 0 {
		speed = DefaultMoveSpeed
	}
	if trajMax <= 0 {
		trajMax = DefaultTrajectoryMax
	}
	return &Robot{
		Entity: Entity{
			ID:     id,
			Origin: pos,
			Kind:   KindRobot,
		},
		current:    pos,
		route:      []Point{pos},
		trajectory: []Point{pos},
		trajMax:    trajMax,
		speed:      speed,
		mode:       ModeIdle,
	}
}

// ========================================
// 조회
// ========================================

func (r *Robot) Position() Point { return r.current }
func (r *Robot) Mode() RobotMode { return r.mode }
func (r *Robot) Speed() int { return r.speed }
func (r *Robot) Heading() Point { return r.heading }
func (r *Robot) Direction() Point { return r.direction }
func (r *Robot) TargetIndex() int { return r.targetIdx }
func (r *Robot) ReplayIndex() int { return r.replayIdx }
func (r *Robot) TrajectoryMax() int { return r.trajMax }

// IsMoving - 자동 주행 중 여부
func (r *Robot) IsMoving() bool { return r.mode == ModeAutoRoute }

// Route - 경로 복사본
func (r *Robot) Route() []Point {
	out := make([]Point, len(r.route))
	copy(out, r.route)
	return out
}

// Trajectory - 궤적 복사본
func (r *Robot) Trajectory() []Point {
	out := make([]Point, len(r.trajectory))
	copy(out, r.trajectory)
	return out
}

// HeadingDegrees - 180 - atan2(dx, dy) 규약의 진행 각도
func (r *Robot) HeadingDegrees() float64 {
	return 180 - math.Atan2(float64(r.heading.X), float64(r.heading.Y))*180/math.Pi
}

// ========================================
// 경로
// ========================================

// AddWaypoint - 경로 끝에 웨이포인트 추가
func (r *Robot) AddWaypoint(p Point) {
	r.route = append(r.route, p)
}

// ClearRoute - 경로를 원점 하나로 초기화 (궤적, 현재 위치는 유지)
func (r *Robot) ClearRoute() {
	r.route = []Point{r.Origin}
	if r.targetIdx >= len(r.route) {
		r.targetIdx = 0
	}
}

// ========================================
// 모드 전환
// ========================================

// SetAutoMove - 자동 주행 on/off, 수동 조작은 항상 해제된다
func (r *Robot) SetAutoMove(enabled bool) {
	r.direction = Point{}
	if !enabled {
		r.mode = ModeIdle
		return
	}
	r.mode = ModeAutoRoute
	r.updateHeading()
}

// SetManualControl - 수동 조작 on/off
//
// 처음 켤 때 현재 목표 웨이포인트 방향으로 heading을 한 번 계산하고,
// 이후 호출마다 dir을 현재 방향으로 반영한다. 끄면 자동 주행으로 돌아간다.
func (r *Robot) SetManualControl(enabled bool, dir Direction) {
	if !enabled {
		r.direction = Point{}
		r.mode = ModeAutoRoute
		r.updateHeading()
		return
	}

	if r.mode != ModeManual {
		r.mode = ModeManual
		r.direction = Point{}
		r.updateHeading()
	}
	r.SetDirection(dir)
}

// SetDirection - 수동 조작 방향 변경 (수동 모드가 아니거나 잘못된 방향이면 무시)
func (r *Robot) SetDirection(dir Direction) {
	if r.mode != ModeManual {
		return
	}
	vec, ok := directionVectors[dir]
	if !ok {
		return
	}
	r.direction = vec
	// 정지는 방향이 없으므로 heading 유지
	if !vec.IsZero() {
		r.heading = vec
	}
}

// StepForward - 궤적에서 n 스텝 앞으로 이동 (재생 모드)
func (r *Robot) StepForward(n int) {
	r.step(n)
}

// StepBackward - 궤적에서 n 스텝 뒤로 이동 (재생 모드)
func (r *Robot) StepBackward(n int) {
	r.step(-n)
}

func (r *Robot) step(delta int) {
	r.mode = ModeReplay
	r.direction = Point{}

	idx := r.replayIdx + delta
	if idx < 0 {
		idx = 0
	}
	if last := len(r.trajectory) - 1; idx > last {
		idx = last
	}
	r.replayIdx = idx
	r.current = r.trajectory[idx]
}

// ResumeFromReplay - 재생 모드 종료
func (r *Robot) ResumeFromReplay() {
	if r.mode == ModeReplay {
		r.mode = ModeIdle
	}
}

// ResetToOrigin - 원점으로 복귀, 궤적 초기화
func (r *Robot) ResetToOrigin() {
	r.mode = ModeIdle
	r.direction = Point{}
	r.current = r.Origin
	r.trajectory = []Point{r.Origin}
	r.targetIdx = 0
	r.replayIdx = 0
}

// ========================================
// 틱
// ========================================

// Tick - 한 시뮬레이션 스텝 진행
func (r *Robot) Tick() {
	switch r.mode {
	case ModeManual:
		// 원점만 있는 경로는 어떤 모드에서도 움직이지 않는다
		if len(r.route) < 2 {
			return
		}
		r.current = r.current.Add(r.direction.Scale(r.speed))
		r.record(r.current)
	case ModeAutoRoute:
		r.advanceRoute()
	case ModeReplay, ModeIdle:
		// 재생은 StepForward/StepBackward로만 위치가 바뀐다
	}
}

// advanceRoute - 목표 웨이포인트로 moveSpeed 만큼 이동
func (r *Robot) advanceRoute() {
	if len(r.route) < 2 {
		return
	}

	// 이미 도착한 웨이포인트는 틱을 소비하지 않고 건너뛴다
	for r.current == r.route[r.targetIdx] && r.targetIdx < len(r.route)-1 {
		r.targetIdx++
		r.updateHeading()
	}

	target := r.route[r.targetIdx]
	dist := r.current.DistanceTo(target)

	if dist <= float64(r.speed) {
		r.current = target
		if r.targetIdx < len(r.route)-1 {
			r.targetIdx++
			r.updateHeading()
		} else {
			r.mode = ModeIdle
		}
	} else {
		dx, dy := target.X-r.current.X, target.Y-r.current.Y
		scale := float64(r.speed) / dist
		move := Point{X: int(float64(dx) * scale), Y: int(float64(dy) * scale)}
		// 절삭으로 제자리에 멈추지 않도록 최소 1픽셀은 이동
		if move.IsZero() {
			if abs(dx) >= abs(dy) {
				move.X = sign(dx)
			} else {
				move.Y = sign(dy)
			}
		}
		r.current = r.current.Add(move)
	}

	r.record(r.current)
}

// updateHeading - 현재 목표 웨이포인트 방향으로 heading 재계산
func (r *Robot) updateHeading() {
	if r.targetIdx >= len(r.route) {
		return
	}
	next := r.route[r.targetIdx]
	vec := Point{X: next.X - r.current.X, Y: next.Y - r.current.Y}
	if vec.IsZero() {
		return
	}
	r.heading = vec
}

// record - 궤적에 위치 추가 (직전 위치와 같으면 무시, 가득 차면 가장 오래된 것 삭제)
func (r *Robot) record(p Point) {
	if len(r.trajectory) > 0 && r.trajectory[len(r.trajectory)-1] == p {
		return
	}
	if len(r.trajectory) >= r.trajMax {
		r.trajectory = append(r.trajectory[:0], r.trajectory[1:]...)
	}
	r.trajectory = append(r.trajectory, p)
	r.replayIdx = len(r.trajectory) - 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
