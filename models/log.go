package models

import (
	"time"
)

// 이벤트 타입 상수
const (
	EventRobotPlanted    = "robot_planted"
	EventEnemyAdded      = "enemy_added"
	EventTargetDeleted   = "target_deleted"
	EventWaypointAdded   = "waypoint_added"
	EventRouteCleared    = "route_cleared"
	EventAutoMove        = "auto_move"
	EventManualControl   = "manual_control"
	EventStep            = "step"
	EventReset           = "reset"
	EventReInit          = "reinit"
	EventBlueprintLoaded = "blueprint_loaded"
	EventPredictions     = "predictions"
	EventObstacleStop    = "obstacle_stop"
	EventEnemyDetected   = "enemy_detected"
	EventRouteComplete   = "route_complete"
	EventTick            = "tick"
)

// SimEvent - 시뮬레이터가 발생시키는 이벤트
type SimEvent struct {
	Type     string
	Tick     int64
	Robot    *RobotSnapshot // 이벤트 시점의 로봇 (없으면 nil)
	Readings *SensorReadings
	Data     map[string]interface{}
}

// SimLog - 시뮬레이션 이벤트 로그
type SimLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	RunID     string    `gorm:"index;size:36" json:"run_id"` // 서버 실행 단위 UUID
	EventType string    `gorm:"index;size:32" json:"event_type"`
	Tick      int64     `json:"tick"`

	// 로봇 상태
	PositionX int     `json:"position_x"`
	PositionY int     `json:"position_y"`
	Heading   float64 `json:"heading"` // degrees
	Mode      string  `json:"mode"`

	// 센서
	SonarFront    int `json:"sonar_front"`
	SonarBack     int `json:"sonar_back"`
	SonarLeft     int `json:"sonar_left"`
	SonarRight    int `json:"sonar_right"`
	LidarDistance int `json:"lidar_distance"`
	Detected      int `json:"detected"` // 탐지된 적 수

	// 메타데이터
	DataJSON string `json:"data_json"` // 이벤트 데이터 JSON
}
