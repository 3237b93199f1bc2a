package models

import "cqbsim-backend/algorithms"

// SensorFlags - 센서 활성화 상태
type SensorFlags struct {
	Sonar     bool `json:"sonar"`
	Sound     bool `json:"sound"`
	Lidar     bool `json:"lidar"`
	Camera    bool `json:"camera"`
	Detection bool `json:"detection"` // 카메라 적 탐지
	Avoidance bool `json:"avoidance"` // 라이다 장애물 회피
}

// CameraReading - 카메라 시야각 양 끝 빔
type CameraReading struct {
	Left  algorithms.BeamResult `json:"left"`
	Right algorithms.BeamResult `json:"right"`
}

// SensorReadings - 마지막 틱의 센서 결과 (비활성/측정 불가 센서는 nil)
type SensorReadings struct {
	Sonar          *algorithms.SonarReading `json:"sonar"`
	Lidar          *algorithms.BeamResult   `json:"lidar"`
	Camera         *CameraReading           `json:"camera"`
	SoundBearings  []float64                `json:"sound_bearings"`
	DetectedEnemy  []int                    `json:"detected_enemies"` // 적 인덱스
	HeadingDegrees float64                  `json:"heading_degrees"`
}

// RobotSnapshot - 로봇 상태
type RobotSnapshot struct {
	Entity
	Position       Point     `json:"position"`
	Route          []Point   `json:"route"`
	Trajectory     []Point   `json:"trajectory"`
	Mode           RobotMode `json:"mode"`
	Heading        Point     `json:"heading"`
	HeadingDegrees float64   `json:"heading_degrees"`
	TargetIndex    int       `json:"target_index"`
	ReplayIndex    int       `json:"replay_index"`
	Speed          int       `json:"speed"`
}

// EnemySnapshot - 적 상태
type EnemySnapshot struct {
	Enemy
	Detected bool `json:"detected"`
}

// Snapshot - 틱 이후 전체 상태 (렌더링/전송용)
type Snapshot struct {
	Tick      int64           `json:"tick"`
	HasGrid   bool            `json:"has_grid"`
	Blueprint string          `json:"blueprint"`
	Robot     *RobotSnapshot  `json:"robot"`
	Enemies   []EnemySnapshot `json:"enemies"`
	Sensors   SensorFlags     `json:"sensors"`
	Readings  SensorReadings  `json:"readings"`
}

// NewRobotSnapshot - 로봇 상태 복사
func NewRobotSnapshot(r *Robot) *RobotSnapshot {
	if r == nil {
		return nil
	}
	return &RobotSnapshot{
		Entity:         r.Entity,
		Position:       r.Position(),
		Route:          r.Route(),
		Trajectory:     r.Trajectory(),
		Mode:           r.Mode(),
		Heading:        r.Heading(),
		HeadingDegrees: r.HeadingDegrees(),
		TargetIndex:    r.TargetIndex(),
		ReplayIndex:    r.ReplayIndex(),
		Speed:          r.Speed(),
	}
}
