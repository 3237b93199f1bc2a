package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"cqbsim-backend/algorithms"
	"cqbsim-backend/models"
)

// ErrUnknownFormat - 지원하지 않는 시나리오 파일 확장자
var ErrUnknownFormat = errors.New("unknown scenario format")

// ScenarioFileName - Scenario_MM_DD_YYYY_HH_MM_SS.json
func ScenarioFileName(t time.Time) string {
	return "Scenario_" + t.Format("01_02_2006_15_04_05") + ".json"
}

// ParseScenario - 확장자(.json, .yaml, .yml)에 따라 시나리오 파싱
func ParseScenario(data []byte, ext string) (*models.Scenario, error) {
	var sc models.Scenario
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &sc); err != nil {
			return nil, fmt.Errorf("parse scenario json: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &sc); err != nil {
			return nil, fmt.Errorf("parse scenario yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	return &sc, nil
}

// ReadScenario - 파일에서 시나리오 읽기
func ReadScenario(path string) (*models.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	return ParseScenario(data, filepath.Ext(path))
}

// ToScenario - 현재 상태를 시나리오 문서로 변환 (route는 원점 포함)
func (s *Simulator) ToScenario() *models.Scenario {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := &models.Scenario{Enemy: []models.ScenarioEnemy{}}
	if s.blueprint != "" {
		bp := s.blueprint
		sc.BluePrint = &bp
	}
	if s.robot != nil {
		route := s.robot.Route()
		xy := make([]models.XY, len(route))
		for i, p := range route {
			xy[i] = p.ToXY()
		}
		sc.Robot = &models.ScenarioRobot{
			ID:    s.robot.ID,
			Pos:   s.robot.Origin.ToXY(),
			Route: xy,
		}
	}
	for _, e := range s.enemies {
		sc.Enemy = append(sc.Enemy, models.ScenarioEnemy{ID: e.ID, Pos: e.Origin.ToXY()})
	}
	return sc
}

// SaveScenario - dir에 타임스탬프 이름의 JSON 파일로 저장
func (s *Simulator) SaveScenario(dir string) (string, error) {
	sc := s.ToScenario()

	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode scenario: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create scenario dir: %w", err)
	}

	path := filepath.Join(dir, ScenarioFileName(time.Now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write scenario: %w", err)
	}

	log.Printf("💾 시나리오 저장: %s", path)
	return path, nil
}

// LoadScenario - 파일에서 시나리오를 읽어 적용
func (s *Simulator) LoadScenario(path string) error {
	sc, err := ReadScenario(path)
	if err != nil {
		return err
	}
	if err := s.ApplyScenario(sc); err != nil {
		return err
	}
	log.Printf("📂 시나리오 로드: %s", path)
	return nil
}

// ApplyScenario - 이동 정지, 초기화, 블루프린트 재생성 후 로봇/적 복원
//
// 블루프린트 디코딩은 잠금 밖에서 먼저 하고, 상태 교체는 한 번의 잠금 안에서 끝낸다.
func (s *Simulator) ApplyScenario(sc *models.Scenario) error {
	var (
		grid   *algorithms.OccupancyGrid
		bpPath string
		bpW    int
		bpH    int
	)
	if sc.BluePrint != nil && *sc.BluePrint != "" {
		bpPath = *sc.BluePrint
		var err error
		if grid, bpW, bpH, err = readBlueprintGrid(bpPath); err != nil {
			return fmt.Errorf("scenario blueprint: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.robot != nil {
		s.robot.SetAutoMove(false)
		s.emit(models.EventAutoMove, map[string]interface{}{"enabled": false})
	}
	s.reInit()
	s.emit(models.EventReInit, nil)

	if grid != nil {
		s.setBlueprint(grid, bpPath, bpW, bpH)
	}

	if sc.Robot != nil {
		route := make([]models.Point, len(sc.Robot.Route))
		for i, p := range sc.Robot.Route {
			route[i] = p.ToPoint()
		}
		s.setRobot(sc.Robot.ID, sc.Robot.Pos.ToPoint(), route)
	}
	s.setEnemies(sc.Enemy)
	return nil
}
