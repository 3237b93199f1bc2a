package models

// ========================================
// 메시지 타입 상수
// ========================================
const (
	// Server → Web
	MessageTypeState         = "state"          // 틱마다 전체 상태 스냅샷
	MessageTypeEnemyDetected = "enemy_detected" // 카메라 적 탐지
	MessageTypeObstacleStop  = "obstacle_stop"  // 장애물 회피 정지
	MessageTypeMapUpdate     = "map_update"     // 블루프린트/그리드 변경
	MessageTypeSystemInfo    = "system_info"    // 시스템 정보

	// Web → Server
	MessageTypeCommand       = "command"        // 로봇 명령
	MessageTypeModeChange    = "mode_change"    // 자동/수동 전환
	MessageTypeEmergencyStop = "emergency_stop" // 긴급 정지
)

// ========================================
// 공통 WebSocket 메시지 형식
// ========================================
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"` // Unix timestamp (ms)
}

// ========================================
// 명령 메시지
// ========================================

// 좌표 명령 (로봇 배치, 적 추가, 웨이포인트, 선택)
type PositionCommand struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// 자동 주행 명령
type AutoMoveCommand struct {
	Enabled bool `json:"enabled"`
}

// 수동 조작 명령
type ManualCommand struct {
	Enabled   bool   `json:"enabled"`
	Direction string `json:"direction"` // upleft, up, upright, left, stop, right, downleft, down, downright
}

// 궤적 스텝 명령
type StepCommand struct {
	Direction string `json:"direction"` // "forward" | "backward"
	Ticks     int    `json:"ticks"`
}

// 센서 활성화 명령 (nil이면 변경 없음)
type SensorCommand struct {
	Sonar     *bool `json:"sonar"`
	Sound     *bool `json:"sound"`
	Lidar     *bool `json:"lidar"`
	Camera    *bool `json:"camera"`
	Detection *bool `json:"detection"`
	Avoidance *bool `json:"avoidance"`
}

// 예측 위치 생성 명령
type PredictionCommand struct {
	Range int `json:"range"`
}

// 블루프린트 로드 명령
type BlueprintCommand struct {
	Path string `json:"path"`
}

// 합성 블루프린트 생성 명령
type GenerateBlueprintCommand struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Rooms  int   `json:"rooms"`
	Seed   int64 `json:"seed"`
}

// WebSocket command 메시지의 data
type RobotCommand struct {
	Action    string `json:"action"` // auto, manual, forward, backward, reset
	Enabled   bool   `json:"enabled"`
	Direction string `json:"direction"`
	Ticks     int    `json:"ticks"`
}

// 긴급 정지 명령
type EmergencyStopCommand struct {
	Reason string `json:"reason"` // 정지 사유
}

// 모드 전환 명령
type ModeChangeCommand struct {
	Mode      string `json:"mode"` // auto_route, manual, idle
	Direction string `json:"direction"`
}
