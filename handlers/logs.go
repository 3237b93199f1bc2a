package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"cqbsim-backend/models"
	"cqbsim-backend/services"
)

// RegisterLogRoutes - 로그 조회 API 등록
func RegisterLogRoutes(api fiber.Router) {
	logsAPI := api.Group("/logs")
	logsAPI.Get("/recent", HandleGetRecentLogs)     // 최근 로그
	logsAPI.Get("/range", HandleGetLogsByTimeRange) // 시간 범위
	logsAPI.Get("/type", HandleGetLogsByEventType)  // 이벤트 타입별
	logsAPI.Get("/stats", HandleGetLogStats)        // 통계
}

// runIDQuery - 기본은 현재 실행, "all"이면 전체
func runIDQuery(c *fiber.Ctx) string {
	runID := c.Query("run_id", services.RunID())
	if runID == "all" {
		return ""
	}
	return runID
}

func limitQuery(c *fiber.Ctx) int {
	limit, err := strconv.Atoi(c.Query("limit", "100"))
	if err != nil || limit <= 0 {
		limit = 100
	}
	return limit
}

func logQueryError(c *fiber.Ctx, err error, msg string) error {
	if errors.Is(err, services.ErrNoDatabase) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": msg,
	})
}

// HandleGetRecentLogs - 최근 로그 조회
func HandleGetRecentLogs(c *fiber.Ctx) error {
	logs, err := services.GetRecentLogs(runIDQuery(c), limitQuery(c))
	if err != nil {
		return logQueryError(c, err, "Failed to fetch logs")
	}
	return logsResponse(c, logs, nil)
}

// HandleGetLogsByTimeRange - 시간 범위로 로그 조회
func HandleGetLogsByTimeRange(c *fiber.Ctx) error {
	startStr := c.Query("start") // RFC3339 format
	endStr := c.Query("end")     // RFC3339 format

	// 기본: 최근 24시간
	start := time.Now().Add(-24 * time.Hour)
	if startStr != "" {
		parsed, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			return badRequest(c, "Invalid start time format (use RFC3339)")
		}
		start = parsed
	}

	end := time.Now()
	if endStr != "" {
		parsed, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			return badRequest(c, "Invalid end time format (use RFC3339)")
		}
		end = parsed
	}

	logs, err := services.GetLogsByTimeRange(runIDQuery(c), start, end, limitQuery(c))
	if err != nil {
		return logQueryError(c, err, "Failed to fetch logs")
	}
	return logsResponse(c, logs, fiber.Map{
		"time_range": fiber.Map{
			"start": start.Format(time.RFC3339),
			"end":   end.Format(time.RFC3339),
		},
	})
}

// HandleGetLogsByEventType - 이벤트 타입별 로그 조회
func HandleGetLogsByEventType(c *fiber.Ctx) error {
	eventType := c.Query("event_type")
	if eventType == "" {
		return badRequest(c, "event_type parameter is required")
	}

	logs, err := services.GetLogsByEventType(runIDQuery(c), eventType, limitQuery(c))
	if err != nil {
		return logQueryError(c, err, "Failed to fetch logs")
	}
	return logsResponse(c, logs, fiber.Map{"event_type": eventType})
}

// HandleGetLogStats - 로그 통계 조회
func HandleGetLogStats(c *fiber.Ctx) error {
	hours, err := strconv.Atoi(c.Query("hours", "24"))
	if err != nil || hours <= 0 {
		hours = 24
	}

	stats, err := services.GetLogStats(runIDQuery(c), hours)
	if err != nil {
		return logQueryError(c, err, "Failed to fetch stats")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}

func logsResponse(c *fiber.Ctx, logs []models.SimLog, extra fiber.Map) error {
	resp := fiber.Map{
		"success": true,
		"count":   len(logs),
		"logs":    logs,
	}
	for k, v := range extra {
		resp[k] = v
	}
	return c.JSON(resp)
}
