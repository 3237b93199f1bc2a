package models

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Scenario - 저장/로드되는 시나리오 문서
//
// JSON 형식:
//
//	{"bluePrint": "...", "robot": {"id": 0, "pos": [x, y], "route": [[x, y], ...]}, "enemy": [[id, [x, y]], ...]}
type Scenario struct {
	BluePrint *string         `json:"bluePrint" yaml:"bluePrint"`
	Robot     *ScenarioRobot  `json:"robot" yaml:"robot"`
	Enemy     []ScenarioEnemy `json:"enemy" yaml:"enemy"`
}

// ScenarioRobot - 로봇 정보 (route는 원점 포함)
type ScenarioRobot struct {
	ID    int  `json:"id" yaml:"id"`
	Pos   XY   `json:"pos" yaml:"pos"`
	Route []XY `json:"route" yaml:"route"`
}

// ScenarioEnemy - [id, [x, y]] 형태의 적 정보
type ScenarioEnemy struct {
	ID  int
	Pos XY
}

// XY - [x, y] 배열로 직렬화되는 좌표
type XY [2]int

// ToPoint - Point 변환
func (p XY) ToPoint() Point {
	return Point{X: p[0], Y: p[1]}
}

// ToXY - XY 변환
func (p Point) ToXY() XY {
	return XY{p.X, p.Y}
}

// MarshalJSON - [id, [x, y]]
func (e ScenarioEnemy) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{e.ID, e.Pos})
}

// UnmarshalJSON - [id, [x, y]]
func (e *ScenarioEnemy) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("enemy entry: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("enemy entry: expected [id, [x, y]], got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &e.ID); err != nil {
		return fmt.Errorf("enemy id: %w", err)
	}
	if err := json.Unmarshal(raw[1], &e.Pos); err != nil {
		return fmt.Errorf("enemy pos: %w", err)
	}
	return nil
}

// MarshalYAML - JSON과 같은 [id, [x, y]] 형태
func (e ScenarioEnemy) MarshalYAML() (interface{}, error) {
	return []interface{}{e.ID, []int{e.Pos[0], e.Pos[1]}}, nil
}

// UnmarshalYAML - [id, [x, y]]
func (e *ScenarioEnemy) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode || len(value.Content) != 2 {
		return fmt.Errorf("enemy entry (line %d): expected [id, [x, y]]", value.Line)
	}
	if err := value.Content[0].Decode(&e.ID); err != nil {
		return fmt.Errorf("enemy id: %w", err)
	}
	var pos []int
	if err := value.Content[1].Decode(&pos); err != nil {
		return fmt.Errorf("enemy pos: %w", err)
	}
	if len(pos) != 2 {
		return fmt.Errorf("enemy pos (line %d): expected [x, y]", value.Line)
	}
	e.Pos = XY{pos[0], pos[1]}
	return nil
}
