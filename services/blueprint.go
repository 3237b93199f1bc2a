package services

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"

	_ "golang.org/x/image/bmp"

	"cqbsim-backend/algorithms"
	"cqbsim-backend/models"
)

// DecodeBlueprint - png/jpeg/bmp 이미지를 RGB 픽셀 버퍼로 디코딩
func DecodeBlueprint(r io.Reader) ([]algorithms.RGB, int, int, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode blueprint: %w", err)
	}
	pixels, w, h := ImagePixels(img)
	log.Printf("🖼️  블루프린트 디코딩: %s %dx%d", format, w, h)
	return pixels, w, h, nil
}

// ImagePixels - image.Image를 행 우선 RGB 버퍼로 변환 (알파는 무시)
func ImagePixels(img image.Image) ([]algorithms.RGB, int, int) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]algorithms.RGB, 0, w*h)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			// 알파를 곱하지 않은 원래 RGB로 판정 (투명 배경이 검게 되지 않도록)
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pixels = append(pixels, algorithms.RGB{R: c.R, G: c.G, B: c.B})
		}
	}
	return pixels, w, h
}

// LoadBlueprint - 블루프린트 파일로 그리드를 만들고 경로를 기억
func (s *Simulator) LoadBlueprint(path string) error {
	grid, w, h, err := readBlueprintGrid(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setBlueprint(grid, path, w, h)
	return nil
}

// readBlueprintGrid - 파일을 디코딩해 그리드 생성 (잠금 불필요)
func readBlueprintGrid(path string) (*algorithms.OccupancyGrid, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("open blueprint %s: %w", path, err)
	}
	defer f.Close()

	pixels, w, h, err := DecodeBlueprint(f)
	if err != nil {
		return nil, 0, 0, err
	}
	return algorithms.Build(pixels, w, h), w, h, nil
}

// setBlueprint - 잠금 상태에서 그리드와 경로 교체
func (s *Simulator) setBlueprint(grid *algorithms.OccupancyGrid, path string, w, h int) {
	s.grid = grid
	s.blueprint = path
	log.Printf("🗺️  점유 그리드 생성: 이미지 %dx%d, 장애물 셀 %d개", w, h, grid.ObstacleCount())
	s.emit(models.EventBlueprintLoaded, map[string]interface{}{"path": path, "width": w, "height": h})
}

// RebuildGrid - 기억해 둔 블루프린트로 그리드 재생성 (없으면 ErrNoBlueprint)
func (s *Simulator) RebuildGrid() error {
	path := s.Blueprint()
	if path == "" {
		log.Printf("⚠️  블루프린트가 설정되지 않아 그리드를 만들 수 없음")
		return ErrNoBlueprint
	}
	return s.LoadBlueprint(path)
}
