package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cqbsim-backend/models"
)

// 로깅 버퍼 (비동기 일괄 처리)
type LogBuffer struct {
	logs      []models.SimLog
	mu        sync.Mutex
	flushSize int           // 일괄 저장 크기
	flushTime time.Duration // 자동 플러시 시간
	stopChan  chan bool
	runID     string
	warnedDB  bool
}

var logBuffer *LogBuffer

// InitLogging - 로깅 시스템 초기화. 실행마다 새 run ID를 발급한다.
func InitLogging(flushSize int, flushInterval time.Duration) {
	logBuffer = &LogBuffer{
		logs:      make([]models.SimLog, 0, flushSize*2),
		flushSize: flushSize,
		flushTime: flushInterval,
		stopChan:  make(chan bool),
		runID:     uuid.New().String(),
	}

	// 자동 플러시 고루틴 시작
	go logBuffer.autoFlush()

	log.Printf("✅ 로깅 시스템 초기화 완료 (run: %s, flushSize: %d, flushInterval: %v)",
		logBuffer.runID, flushSize, flushInterval)
}

// RunID - 현재 실행 ID (로깅 미초기화 시 "")
func RunID() string {
	if logBuffer == nil {
		return ""
	}
	return logBuffer.runID
}

// autoFlush - 주기적 로그 저장
func (lb *LogBuffer) autoFlush() {
	ticker := time.NewTicker(lb.flushTime)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lb.Flush()
		case <-lb.stopChan:
			lb.Flush() // 종료 시 남은 로그 저장
			return
		}
	}
}

// AddLog - 로그 버퍼에 추가 (비동기)
func AddLog(logEntry models.SimLog) {
	if logBuffer == nil {
		return
	}

	logBuffer.mu.Lock()
	logEntry.RunID = logBuffer.runID
	logBuffer.logs = append(logBuffer.logs, logEntry)
	size := len(logBuffer.logs)
	logBuffer.mu.Unlock()

	// 버퍼 크기가 차면 즉시 플러시
	if size >= logBuffer.flushSize {
		go logBuffer.Flush()
	}
}

// Pending - 아직 저장되지 않은 로그 수
func (lb *LogBuffer) Pending() int {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return len(lb.logs)
}

// Flush - 버퍼의 모든 로그를 DB에 저장 (DB가 없으면 버린다)
func (lb *LogBuffer) Flush() {
	lb.mu.Lock()
	if len(lb.logs) == 0 {
		lb.mu.Unlock()
		return
	}

	// 로그 복사 및 버퍼 초기화
	logsToSave := make([]models.SimLog, len(lb.logs))
	copy(logsToSave, lb.logs)
	lb.logs = lb.logs[:0]

	if db == nil {
		if !lb.warnedDB {
			lb.warnedDB = true
			log.Printf("⚠️  DB 없음: 로그 %d개 폐기 (이후 경고 생략)", len(logsToSave))
		}
		lb.mu.Unlock()
		return
	}
	lb.mu.Unlock()

	// DB 일괄 저장
	if err := db.CreateInBatches(logsToSave, 100).Error; err != nil {
		log.Printf("❌ 로그 저장 실패: %v", err)
	} else {
		log.Printf("💾 로그 %d개 저장 완료", len(logsToSave))
	}
}

// FlushLogs - 현재 버퍼 즉시 저장
func FlushLogs() {
	if logBuffer != nil {
		logBuffer.Flush()
	}
}

// LogEvent - 시뮬레이터 이벤트를 로그 행으로 변환
func LogEvent(ev models.SimEvent) {
	AddLog(NewSimLog(ev))
}

// NewSimLog - 이벤트에서 로봇 상태, 센서 값, 데이터 JSON 추출
func NewSimLog(ev models.SimEvent) models.SimLog {
	entry := models.SimLog{
		CreatedAt: time.Now(),
		EventType: ev.Type,
		Tick:      ev.Tick,
	}

	if ev.Robot != nil {
		entry.PositionX = ev.Robot.Position.X
		entry.PositionY = ev.Robot.Position.Y
		entry.Heading = ev.Robot.HeadingDegrees
		entry.Mode = string(ev.Robot.Mode)
	}

	if r := ev.Readings; r != nil {
		if r.Sonar != nil {
			entry.SonarFront = r.Sonar.Front
			entry.SonarBack = r.Sonar.Back
			entry.SonarLeft = r.Sonar.Left
			entry.SonarRight = r.Sonar.Right
		}
		if r.Lidar != nil {
			entry.LidarDistance = r.Lidar.Distance
		}
		entry.Detected = len(r.DetectedEnemy)
	}

	if len(ev.Data) > 0 {
		if dataJSON, err := json.Marshal(ev.Data); err == nil {
			entry.DataJSON = string(dataJSON)
		}
	}
	return entry
}

// GetRecentLogs - 최근 로그 조회 (runID가 비어 있으면 전체 실행)
func GetRecentLogs(runID string, limit int) ([]models.SimLog, error) {
	if db == nil {
		return nil, ErrNoDatabase
	}
	var logs []models.SimLog
	query := db.Model(&models.SimLog{})
	if runID != "" {
		query = query.Where("run_id = ?", runID)
	}
	err := query.Order("id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// GetLogsByTimeRange - 시간 범위로 로그 조회
func GetLogsByTimeRange(runID string, start, end time.Time, limit int) ([]models.SimLog, error) {
	if db == nil {
		return nil, ErrNoDatabase
	}
	var logs []models.SimLog
	query := db.Where("created_at BETWEEN ? AND ?", start, end)
	if runID != "" {
		query = query.Where("run_id = ?", runID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Order("id DESC").Find(&logs).Error
	return logs, err
}

// GetLogsByEventType - 이벤트 타입별 로그 조회
func GetLogsByEventType(runID string, eventType string, limit int) ([]models.SimLog, error) {
	if db == nil {
		return nil, ErrNoDatabase
	}
	var logs []models.SimLog
	query := db.Where("event_type = ?", eventType)
	if runID != "" {
		query = query.Where("run_id = ?", runID)
	}
	err := query.Order("id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// GetLogStats - 로그 통계
func GetLogStats(runID string, hours int) (map[string]interface{}, error) {
	if db == nil {
		return nil, ErrNoDatabase
	}
	since := time.Now().Add(-time.Duration(hours) * time.Hour)

	base := func() *gorm.DB {
		q := db.Model(&models.SimLog{}).Where("created_at >= ?", since)
		if runID != "" {
			q = q.Where("run_id = ?", runID)
		}
		return q
	}

	var totalLogs int64
	if err := base().Count(&totalLogs).Error; err != nil {
		return nil, fmt.Errorf("count logs: %w", err)
	}

	// 이벤트 타입별 카운트
	var eventCounts []struct {
		EventType string
		Count     int64
	}
	if err := base().Select("event_type, COUNT(*) as count").Group("event_type").Scan(&eventCounts).Error; err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	eventMap := make(map[string]int64)
	for _, ec := range eventCounts {
		eventMap[ec.EventType] = ec.Count
	}

	var maxTick int64
	base().Select("COALESCE(MAX(tick), 0)").Scan(&maxTick)

	return map[string]interface{}{
		"run_id":       runID,
		"total_logs":   totalLogs,
		"event_counts": eventMap,
		"max_tick":     maxTick,
		"time_range":   fmt.Sprintf("Last %d hours", hours),
	}, nil
}

// StopLogging - 로깅 시스템 종료
func StopLogging() {
	if logBuffer != nil {
		logBuffer.stopChan <- true
		log.Println("🛑 로깅 시스템 종료")
	}
}
