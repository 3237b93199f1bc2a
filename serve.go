package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"github.com/spf13/cobra"

	"cqbsim-backend/handlers"
	"cqbsim-backend/services"
)

func serveCmd() *cobra.Command {
	var (
		addr      string
		blueprint string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "HTTP/WebSocket 서버와 틱 루프 실행",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := services.LoadConfig()
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			return runServer(cfg, blueprint)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (기본값: CQB_HTTP_ADDR)")
	cmd.Flags().StringVarP(&blueprint, "blueprint", "b", "", "시작 시 로드할 블루프린트 이미지")
	return cmd
}

func runServer(cfg services.Config, blueprint string) error {
	if err := services.InitDatabase(cfg); err != nil {
		return fmt.Errorf("DB 초기화 실패: %w", err)
	}
	defer services.CloseDatabase()

	// 로그 flushSize개마다, 또는 flushInterval마다 일괄 저장
	services.InitLogging(cfg.LogFlushSize, cfg.LogFlushInterval)
	defer services.StopLogging() // 종료 시 남은 로그 저장

	sim := handlers.InitSimulation(cfg)
	if blueprint != "" {
		if err := sim.LoadBlueprint(blueprint); err != nil {
			log.Printf("❌ 블루프린트 로드 실패: %v", err)
		}
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	go handlers.Manager.Start()
	handlers.StartSimulation()
	defer handlers.StopSimulation()

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("CQB 시뮬레이터 서버가 실행 중입니다.")
	})

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "OK",
			"clients": handlers.Manager.GetClientCount(),
			"run_id":  services.RunID(),
			"tick":    sim.TickCount(),
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	handlers.RegisterRoutes(api)
	handlers.RegisterLogRoutes(api)

	// WebSocket
	app.Use("/websocket", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/websocket/web", websocket.New(handlers.HandleWebClientWebSocket))

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("🛑 종료 신호 수신")
		_ = app.Shutdown()
	}()

	log.Printf("🚀 서버 시작: http://localhost%s", cfg.HTTPAddr)
	log.Printf("📡 WebSocket: ws://localhost%s/websocket/web", cfg.HTTPAddr)
	log.Printf("💾 로그 API: GET http://localhost%s/api/logs/*", cfg.HTTPAddr)
	return app.Listen(cfg.HTTPAddr)
}
