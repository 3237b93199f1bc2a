package services

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cqbsim-backend/models"
)

// ErrNoDatabase - DB가 설정되지 않은 상태에서 조회
var ErrNoDatabase = errors.New("database not configured")

// DB 인스턴스 (CQB_DB_DRIVER가 비어 있으면 nil)
var db *gorm.DB

// InitDatabase - 설정된 드라이버로 DB 연결
func InitDatabase(cfg Config) error {
	switch cfg.DBDriver {
	case "":
		db = nil
		log.Println("⚠️  DB 드라이버가 설정되지 않아 이벤트 로그는 저장되지 않습니다.")
		return nil

	case "mysql":
		m := cfg.MySQL
		if m.Host == "" || m.User == "" || m.Password == "" || m.Database == "" {
			return fmt.Errorf("MySQL 환경 변수가 모두 설정되지 않았습니다: MYSQL_HOST, MYSQL_USER, MYSQL_PASSWORD, MYSQL_DATABASE")
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			m.User, m.Password, m.Host, m.Port, m.Database)
		if err := InitDatabaseWith(mysql.Open(dsn)); err != nil {
			return err
		}
		log.Printf("📡 연결 정보: %s:%s@%s:%d/%s", m.User, maskPassword(m.Password), m.Host, m.Port, m.Database)
		return nil

	case "sqlite":
		if err := InitDatabaseWith(sqlite.Open(cfg.SQLitePath)); err != nil {
			return err
		}
		log.Printf("📡 SQLite 파일: %s", cfg.SQLitePath)
		return nil

	default:
		return fmt.Errorf("지원하지 않는 DB 드라이버: %q", cfg.DBDriver)
	}
}

// InitDatabaseWith - 주어진 dialector로 연결 후 마이그레이션
func InitDatabaseWith(dialector gorm.Dialector) error {
	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("DB 연결 실패: %w", err)
	}

	// AutoMigrate - 테이블 자동 생성
	if err := conn.AutoMigrate(&models.SimLog{}); err != nil {
		return fmt.Errorf("마이그레이션 실패: %w", err)
	}

	db = conn
	log.Printf("✅ %s 연결 및 마이그레이션 완료", dialector.Name())
	return nil
}

// GetDB - GORM 인스턴스 반환
func GetDB() *gorm.DB {
	return db
}

// CloseDatabase - 연결 종료
func CloseDatabase() {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	db = nil
}

func maskPassword(p string) string {
	if len(p) <= 3 {
		return "***"
	}
	return p[:3] + "***"
}
