package models

import "math"

// Point - 맵 상의 정수 픽셀 좌표
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Add - 벡터 덧셈
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Scale - 스칼라 곱
func (p Point) Scale(k int) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// IsZero - (0,0) 여부
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// DistanceTo - 유클리드 거리
func (p Point) DistanceTo(o Point) float64 {
	dx := float64(o.X - p.X)
	dy := float64(o.Y - p.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// EntityKind - 맵에 배치된 대상 종류
type EntityKind string

const (
	KindRobot EntityKind = "robot"
	KindEnemy EntityKind = "enemy"
)

// Entity - 로봇과 적이 공유하는 기본 정보
//
// Origin은 배치된 위치이며 생성 이후 바뀌지 않는다.
type Entity struct {
	ID       int        `json:"id"`
	Origin   Point      `json:"origin"`
	Kind     EntityKind `json:"kind"`
	Selected bool       `json:"selected"`
}

// IsNear - (x, y)가 Origin에서 threshold 픽셀 이내인지
func (e *Entity) IsNear(x, y int, threshold float64) bool {
	return e.Origin.DistanceTo(Point{X: x, Y: y}) <= threshold
}
