package algorithms

// 그리드 크기 (열 x 행)
const (
	GridWidth  = 900
	GridHeight = 600
)

// 셀 값
const (
	CellFree     uint8 = 0
	CellObstacle uint8 = 1
)

// DarkThreshold - R+G+B 합이 이 값 이하이면 장애물로 분류
const DarkThreshold = 120

// RGB - 블루프린트 픽셀
type RGB struct {
	R, G, B uint8
}

// IsDark - 어두운 픽셀(벽) 여부
func (p RGB) IsDark() bool {
	return int(p.R)+int(p.G)+int(p.B) <= DarkThreshold
}

// OccupancyGrid - 이진 장애물 행렬
//
// Build 이후에는 변경되지 않는다. 다시 만들려면 Build를 새로 호출한다.
type OccupancyGrid struct {
	width  int
	height int
	cells  [][]uint8 // cells[y][x]
}

// NewOccupancyGrid - 장애물이 없는 빈 그리드 생성
func NewOccupancyGrid(width, height int) *OccupancyGrid {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return &OccupancyGrid{
		width:  width,
		height: height,
		cells:  cells,
	}
}

// Build - 블루프린트 픽셀로 그리드 생성
//
// pixels는 행 우선(row-major) 순서이며 길이는 imageWidth*imageHeight 이다.
// 분류된 이미지는 GridWidth x GridHeight 그리드 중앙에 배치되고,
// 바깥 영역은 모두 빈 셀로 남는다.
func Build(pixels []RGB, imageWidth, imageHeight int) *OccupancyGrid {
	grid := NewOccupancyGrid(GridWidth, GridHeight)

	offsetX := (GridWidth - imageWidth) / 2
	offsetY := (GridHeight - imageHeight) / 2

	for i, p := range pixels {
		if i >= imageWidth*imageHeight {
			break
		}
		if !p.IsDark() {
			continue
		}
		x := i%imageWidth + offsetX
		y := i/imageWidth + offsetY
		// 그리드보다 큰 이미지는 잘라낸다
		if !grid.InBounds(x, y) {
			continue
		}
		grid.cells[y][x] = CellObstacle
	}

	return grid
}

// Width - 열 개수
func (g *OccupancyGrid) Width() int { return g.width }

// Height - 행 개수
func (g *OccupancyGrid) Height() int { return g.height }

// InBounds - 그리드 범위 내 검사
func (g *OccupancyGrid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// IsObstacle - 장애물 셀 여부 (범위 밖은 false)
func (g *OccupancyGrid) IsObstacle(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.cells[y][x] == CellObstacle
}

// SetObstacle - 셀 하나를 장애물로 표시 (그리드 조립/테스트용)
func (g *OccupancyGrid) SetObstacle(x, y int) {
	if g.InBounds(x, y) {
		g.cells[y][x] = CellObstacle
	}
}

// ObstacleCount - 장애물 셀 개수
func (g *OccupancyGrid) ObstacleCount() int {
	count := 0
	for _, row := range g.cells {
		for _, c := range row {
			if c == CellObstacle {
				count++
			}
		}
	}
	return count
}
