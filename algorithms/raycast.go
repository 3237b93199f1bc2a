package algorithms

import "math"

// SonarReading - 4방향 초음파 거리 (셀 단위)
type SonarReading struct {
	Front int `json:"front"` // -y
	Back  int `json:"back"`  // +y
	Left  int `json:"left"`  // -x
	Right int `json:"right"` // +x
}

// BeamResult - 빔 터치 결과
type BeamResult struct {
	Distance int  `json:"distance"` // 빔이 진행한 거리
	X        int  `json:"x"`        // 종료 셀
	Y        int  `json:"y"`
	Hit      bool `json:"hit"` // 장애물에 닿았으면 true, 그리드를 벗어났으면 false
}

// Sonar - 현재 셀에서 축 방향으로 장애물까지의 거리
//
// 장애물이 없으면 해당 방향 그리드 경계까지의 거리를 반환한다.
// (x, y)가 그리드 밖이면 ok=false.
func (g *OccupancyGrid) Sonar(x, y int) (SonarReading, bool) {
	if !g.InBounds(x, y) {
		return SonarReading{}, false
	}

	return SonarReading{
		Front: g.march(x, y, 0, -1, y),
		Back:  g.march(x, y, 0, 1, g.height-y),
		Left:  g.march(x, y, -1, 0, x),
		Right: g.march(x, y, 1, 0, g.width-x),
	}, true
}

// march - 한 축을 따라 장애물 탐색, 없으면 edge 반환
func (g *OccupancyGrid) march(x, y, dx, dy, edge int) int {
	for cx, cy := x, y; g.InBounds(cx, cy); cx, cy = cx+dx, cy+dy {
		if g.cells[cy][cx] == CellObstacle {
			return abs(cx-x) + abs(cy-y)
		}
	}
	return edge
}

// BeamTouch - 각도 방향으로 장애물 또는 경계까지 빔 진행
//
// angle은 HeadingDegrees 규약(0° = -y 방향, 시계 방향 증가)을 따른다.
// 장애물에 닿으면 그 셀까지의 거리, 경계를 벗어나면 벗어나기 전까지 진행한 거리를 반환한다.
func (g *OccupancyGrid) BeamTouch(x, y int, angle float64) BeamResult {
	rad := angle * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)

	for step := 1; ; step++ {
		cx := x + int(math.Round(float64(step)*sin))
		cy := y - int(math.Round(float64(step)*cos))

		if !g.InBounds(cx, cy) {
			return BeamResult{Distance: step - 1, X: cx, Y: cy}
		}
		if g.cells[cy][cx] == CellObstacle {
			return BeamResult{Distance: step, X: cx, Y: cy, Hit: true}
		}
	}
}

// HeadingDegrees - 방향 벡터를 각도로 변환
//
// 180 - atan2(dx, dy) 규약. 인자 순서가 (dx, dy)인 점에 주의.
// (0,-1) → 0°, (1,0) → 90°, (0,1) → 180°, (-1,0) → 270°.
func HeadingDegrees(dx, dy float64) float64 {
	return 180 - math.Atan2(dx, dy)*180/math.Pi
}

// Bearing - from에서 to를 바라보는 각도
func Bearing(fromX, fromY, toX, toY int) float64 {
	return HeadingDegrees(float64(toX-fromX), float64(toY-fromY))
}

// AngleDiff - 두 각도의 차이를 (-180, 180] 범위로 정규화
func AngleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// InCone - bearing이 [heading-halfAngle, heading+halfAngle] 안에 있는지
func InCone(bearing, heading, halfAngle float64) bool {
	return math.Abs(AngleDiff(bearing, heading)) <= halfAngle
}

// Distance - 두 점 사이 유클리드 거리
func Distance(x1, y1, x2, y2 int) float64 {
	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	return math.Sqrt(dx*dx + dy*dy)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
