package services

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"cqbsim-backend/algorithms"
)

const (
	wallThickness = 4
	doorWidth     = 30
	minRoomSize   = 60
)

var (
	wallColor  = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	floorColor = color.RGBA{R: 235, G: 235, B: 235, A: 255}
)

// GeneratedBlueprint - 합성 블루프린트 이미지
type GeneratedBlueprint struct {
	ID        string
	Image     *image.RGBA
	Rooms     []image.Rectangle
	CreatedAt time.Time
}

// MapGenerator - 블루프린트 파일 없이 실행할 때 쓰는 합성 평면도 생성기
type MapGenerator struct {
	mu           sync.RWMutex
	active       *GeneratedBlueprint
	activePath   string
	generationMu sync.Mutex
	rng          *rand.Rand
}

// NewMapGenerator - seed가 0이면 현재 시각을 시드로 사용
func NewMapGenerator(seed int64) *MapGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MapGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// SetSeed - 이후 생성에 쓸 난수 시드 변경 (0이면 무시)
func (mg *MapGenerator) SetSeed(seed int64) {
	if seed == 0 {
		return
	}
	mg.generationMu.Lock()
	defer mg.generationMu.Unlock()
	mg.rng = rand.New(rand.NewSource(seed))
}

// GenerateBlueprint - 외벽과 문이 뚫린 방 rooms개를 가진 width×height 이미지 생성
//
// 크기가 0 이하이거나 그리드보다 크면 그리드 크기를 쓴다.
func (mg *MapGenerator) GenerateBlueprint(width, height, rooms int) *GeneratedBlueprint {
	mg.generationMu.Lock()
	defer mg.generationMu.Unlock()

	if width <= 0 || width > algorithms.GridWidth {
		width = algorithms.GridWidth
	}
	if height <= 0 || height > algorithms.GridHeight {
		height = algorithms.GridHeight
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fillRect(img, img.Bounds(), floorColor)
	drawOutline(img, img.Bounds(), -1)

	bp := &GeneratedBlueprint{
		ID:        uuid.New().String(),
		Image:     img,
		Rooms:     mg.generateRooms(width, height, rooms),
		CreatedAt: time.Now(),
	}
	for _, room := range bp.Rooms {
		drawOutline(img, room, mg.rng.Intn(4))
	}

	mg.mu.Lock()
	mg.active = bp
	mg.activePath = ""
	mg.mu.Unlock()

	return bp
}

// generateRooms - 외벽 안쪽 여백(10%) 내부에 무작위 방 배치
func (mg *MapGenerator) generateRooms(width, height, count int) []image.Rectangle {
	rooms := make([]image.Rectangle, 0, count)

	minX := width / 10
	maxX := width - width/10
	minY := height / 10
	maxY := height - height/10
	if maxX-minX < minRoomSize || maxY-minY < minRoomSize {
		return rooms
	}

	for i := 0; i < count; i++ {
		w := minRoomSize + mg.rng.Intn(max(1, (maxX-minX)/3))
		h := minRoomSize + mg.rng.Intn(max(1, (maxY-minY)/3))
		if w > maxX-minX {
			w = maxX - minX
		}
		if h > maxY-minY {
			h = maxY - minY
		}
		x := minX + mg.rng.Intn(maxX-minX-w+1)
		y := minY + mg.rng.Intn(maxY-minY-h+1)
		rooms = append(rooms, image.Rect(x, y, x+w, y+h))
	}
	return rooms
}

// GetActive - 마지막으로 생성된 블루프린트
func (mg *MapGenerator) GetActive() *GeneratedBlueprint {
	mg.mu.RLock()
	defer mg.mu.RUnlock()
	return mg.active
}

// SaveActive - 활성 블루프린트를 dir에 PNG로 저장하고 경로를 기억
func (mg *MapGenerator) SaveActive(dir string) (string, error) {
	bp := mg.GetActive()
	if bp == nil {
		return "", fmt.Errorf("no generated blueprint")
	}
	path, err := bp.SavePNG(dir)
	if err != nil {
		return "", err
	}

	mg.mu.Lock()
	if mg.active == bp {
		mg.activePath = path
	}
	mg.mu.Unlock()
	return path, nil
}

// ActivePath - 활성 블루프린트가 저장된 경로 (없거나 저장 전이면 "")
func (mg *MapGenerator) ActivePath() string {
	mg.mu.RLock()
	defer mg.mu.RUnlock()
	return mg.activePath
}

// IsPositionValid - 그리드 좌표 (x, y)가 활성 블루프린트 안이고 벽이 아닌지 확인
//
// 블루프린트는 그리드 중앙에 놓이므로 이미지 좌표로 옮겨서 검사한다.
func (mg *MapGenerator) IsPositionValid(x, y int) bool {
	mg.mu.RLock()
	defer mg.mu.RUnlock()

	if mg.active == nil {
		return false
	}
	offX, offY := mg.active.Offset()
	p := image.Point{X: x - offX, Y: y - offY}
	if !p.In(mg.active.Image.Bounds()) {
		return false
	}
	c := mg.active.Image.RGBAAt(p.X, p.Y)
	return !algorithms.RGB{R: c.R, G: c.G, B: c.B}.IsDark()
}

// Offset - 그리드 안에서 이미지 왼쪽 위 모서리 위치
func (bp *GeneratedBlueprint) Offset() (int, int) {
	b := bp.Image.Bounds()
	return (algorithms.GridWidth - b.Dx()) / 2, (algorithms.GridHeight - b.Dy()) / 2
}

// SavePNG - 블루프린트를 dir에 PNG로 저장하고 경로 반환
func (bp *GeneratedBlueprint) SavePNG(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create blueprint dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("generated_%s.png", bp.ID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create blueprint file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, bp.Image); err != nil {
		return "", fmt.Errorf("encode blueprint: %w", err)
	}
	return path, nil
}

// ClearMap - 활성 블루프린트 제거
func (mg *MapGenerator) ClearMap() {
	mg.mu.Lock()
	defer mg.mu.Unlock()
	mg.active = nil
	mg.activePath = ""
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// drawOutline - 사각형 테두리 벽. door가 0~3이면 위/오른쪽/아래/왼쪽 벽 가운데에 문을 낸다.
func drawOutline(img *image.RGBA, r image.Rectangle, door int) {
	t := wallThickness
	top := image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t)
	right := image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y)
	bottom := image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y)
	left := image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y)

	for i, wall := range []image.Rectangle{top, right, bottom, left} {
		fillRect(img, wall, wallColor)
		if i == door {
			cx, cy := (wall.Min.X+wall.Max.X)/2, (wall.Min.Y+wall.Max.Y)/2
			gap := image.Rect(cx-doorWidth/2, cy-doorWidth/2, cx+doorWidth/2, cy+doorWidth/2).Intersect(wall)
			fillRect(img, gap, floorColor)
		}
	}
}
