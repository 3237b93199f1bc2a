package services

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config - 환경 변수 기반 설정
type Config struct {
	HTTPAddr    string
	CORSOrigins string

	TickPeriod time.Duration // 외부 타이머 주기
	UpdateRate time.Duration // 실제 시뮬레이션 스텝 최소 간격

	RobotSpeed      int
	TrajectoryMax   int
	CameraHalfAngle float64
	SelectThreshold float64
	PredictionRange int
	StepTicks       int

	BlueprintDir string
	ScenarioDir  string

	DBDriver   string // "", "mysql", "sqlite"
	SQLitePath string
	MySQL      MySQLConfig

	LogFlushSize     int
	LogFlushInterval time.Duration
}

// MySQLConfig - MySQL 접속 정보
type MySQLConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// DefaultConfig - 기본 설정
func DefaultConfig() Config {
	return Config{
		HTTPAddr:         ":3000",
		CORSOrigins:      "http://localhost:5173, http://localhost:3000",
		TickPeriod:       500 * time.Millisecond,
		UpdateRate:       time.Second,
		RobotSpeed:       10,
		TrajectoryMax:    100,
		CameraHalfAngle:  15,
		SelectThreshold:  8,
		PredictionRange:  50,
		StepTicks:        3,
		BlueprintDir:     "blueprints",
		ScenarioDir:      "scenarios",
		SQLitePath:       "cqbsim.db",
		MySQL:            MySQLConfig{Port: 3306},
		LogFlushSize:     50,
		LogFlushInterval: 10 * time.Second,
	}
}

// LoadConfig - 환경 변수에서 설정 읽기 (.env는 main에서 godotenv로 로드)
func LoadConfig() Config {
	cfg := DefaultConfig()

	cfg.HTTPAddr = envString("CQB_HTTP_ADDR", cfg.HTTPAddr)
	cfg.CORSOrigins = envString("CQB_CORS_ORIGINS", cfg.CORSOrigins)
	cfg.TickPeriod = time.Duration(envInt("CQB_TICK_PERIOD_MS", int(cfg.TickPeriod/time.Millisecond))) * time.Millisecond
	cfg.UpdateRate = time.Duration(envInt("CQB_UPDATE_RATE_MS", int(cfg.UpdateRate/time.Millisecond))) * time.Millisecond
	cfg.RobotSpeed = envInt("CQB_ROBOT_SPEED", cfg.RobotSpeed)
	cfg.TrajectoryMax = envInt("CQB_TRAJECTORY_MAX", cfg.TrajectoryMax)
	cfg.CameraHalfAngle = envFloat("CQB_CAMERA_HALF_ANGLE", cfg.CameraHalfAngle)
	cfg.SelectThreshold = envFloat("CQB_SELECT_THRESHOLD", cfg.SelectThreshold)
	cfg.PredictionRange = envInt("CQB_PREDICTION_RANGE", cfg.PredictionRange)
	cfg.StepTicks = envInt("CQB_STEP_TICKS", cfg.StepTicks)
	cfg.BlueprintDir = envString("CQB_BLUEPRINT_DIR", cfg.BlueprintDir)
	cfg.ScenarioDir = envString("CQB_SCENARIO_DIR", cfg.ScenarioDir)

	cfg.DBDriver = envString("CQB_DB_DRIVER", cfg.DBDriver)
	cfg.SQLitePath = envString("CQB_SQLITE_PATH", cfg.SQLitePath)
	cfg.MySQL.Host = os.Getenv("MYSQL_HOST")
	cfg.MySQL.Port = envInt("MYSQL_PORT", cfg.MySQL.Port)
	cfg.MySQL.User = os.Getenv("MYSQL_USER")
	cfg.MySQL.Password = os.Getenv("MYSQL_PASSWORD")
	cfg.MySQL.Database = os.Getenv("MYSQL_DATABASE")

	cfg.LogFlushSize = envInt("CQB_LOG_FLUSH_SIZE", cfg.LogFlushSize)
	cfg.LogFlushInterval = time.Duration(envInt("CQB_LOG_FLUSH_INTERVAL_S", int(cfg.LogFlushInterval/time.Second))) * time.Second

	return cfg
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("⚠️  %s=%q 값이 잘못되어 기본값 %d 사용", key, v, def)
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		log.Printf("⚠️  %s=%q 값이 잘못되어 기본값 %.1f 사용", key, v, def)
		return def
	}
	return f
}
