package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"cqbsim-backend/models"
)

// jsonWriter - 클라이언트 전송 대상 (*websocket.Conn)
type jsonWriter interface {
	WriteJSON(v interface{}) error
}

// Client - 웹 클라이언트. 연결 하나에 쓰는 고루틴은 항상 하나뿐이어야 하므로 모든 전송은 Send를 거친다.
type Client struct {
	Conn      *websocket.Conn
	Connected time.Time

	out     jsonWriter
	writeMu sync.Mutex
}

// NewClient - 연결로 클라이언트 생성
func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		Conn:      conn,
		Connected: time.Now(),
		out:       conn,
	}
}

// Send - 메시지 전송 (브로드캐스트와 응답이 겹쳐도 한 번에 하나씩 쓴다)
func (c *Client) Send(msg models.WebSocketMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.out.WriteJSON(msg)
}

// 클라이언트 관리자
type ClientManager struct {
	clients    map[*websocket.Conn]*Client
	broadcast  chan models.WebSocketMessage
	register   chan *Client
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
}

// 전역 클라이언트 관리자
var Manager = NewClientManager()

// NewClientManager - 클라이언트 관리자 생성
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients:    make(map[*websocket.Conn]*Client),
		broadcast:  make(chan models.WebSocketMessage, 100),
		register:   make(chan *Client),
		unregister: make(chan *websocket.Conn),
	}
}

// 클라이언트 관리 시작
func (manager *ClientManager) Start() {
	for {
		select {
		case client := <-manager.register:
			manager.mutex.Lock()
			manager.clients[client.Conn] = client
			manager.mutex.Unlock()
			log.Printf("클라이언트 등록: %s", client.Conn.RemoteAddr())

		case conn := <-manager.unregister:
			manager.mutex.Lock()
			if _, ok := manager.clients[conn]; ok {
				delete(manager.clients, conn)
				_ = conn.Close()
				log.Printf("클라이언트 해제: %s", conn.RemoteAddr())
			}
			manager.mutex.Unlock()

		case message := <-manager.broadcast:
			manager.handleBroadcast(message)
		}
	}
}

func (manager *ClientManager) handleBroadcast(message models.WebSocketMessage) {
	manager.mutex.RLock()
	var failed []*websocket.Conn
	for conn, client := range manager.clients {
		if err := client.Send(message); err != nil {
			log.Printf("전송 실패 (%s): %v", conn.RemoteAddr(), err)
			failed = append(failed, conn)
		}
	}
	manager.mutex.RUnlock()

	for _, conn := range failed {
		go func(c *websocket.Conn) { manager.unregister <- c }(conn)
	}
}

// BroadcastMessage - 큐가 가득 차면 메시지를 버린다 (시뮬레이터 잠금 중에도 호출됨)
func (manager *ClientManager) BroadcastMessage(msg models.WebSocketMessage) bool {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixMilli()
	}
	select {
	case manager.broadcast <- msg:
		return true
	default:
		log.Printf("⚠️  브로드캐스트 큐가 가득 차 %s 메시지 폐기", msg.Type)
		return false
	}
}

func (manager *ClientManager) GetClientCount() int {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()
	return len(manager.clients)
}

// BroadcastState - 틱 이후 상태 전송
func BroadcastState(snap models.Snapshot) {
	Manager.BroadcastMessage(models.WebSocketMessage{
		Type: models.MessageTypeState,
		Data: snap,
	})
}

// Web 클라이언트 WebSocket Handler
func HandleWebClientWebSocket(c *websocket.Conn) {
	client := NewClient(c)

	Manager.register <- client

	defer func() {
		Manager.unregister <- c
	}()

	// 연결 확인 메시지와 현재 상태 전송
	welcomeMsg := models.WebSocketMessage{
		Type: models.MessageTypeSystemInfo,
		Data: map[string]interface{}{
			"message":      "웹 클라이언트 연결됨",
			"connected_at": client.Connected.Format(time.RFC3339),
		},
		Timestamp: time.Now().UnixMilli(),
	}
	_ = client.Send(welcomeMsg)
	if sim != nil {
		_ = client.Send(models.WebSocketMessage{
			Type:      models.MessageTypeState,
			Data:      sim.Snapshot(),
			Timestamp: time.Now().UnixMilli(),
		})
	}

	for {
		var msg models.WebSocketMessage
		if err := c.ReadJSON(&msg); err != nil {
			log.Printf("웹 메시지 읽기 오류: %v", err)
			break
		}

		log.Printf("웹 메시지: %s - %+v", msg.Type, msg.Data)

		if err := ApplyWebCommand(msg); err != nil {
			log.Printf("❌ 명령 처리 실패: %v", err)
			_ = client.Send(models.WebSocketMessage{
				Type:      models.MessageTypeSystemInfo,
				Data:      map[string]interface{}{"error": err.Error()},
				Timestamp: time.Now().UnixMilli(),
			})
		}
	}
}

// ApplyWebCommand - 웹 클라이언트 메시지를 시뮬레이터 명령으로 변환
func ApplyWebCommand(msg models.WebSocketMessage) error {
	if sim == nil {
		return fmt.Errorf("simulation not initialized")
	}

	switch msg.Type {
	case models.MessageTypeCommand:
		var cmd models.RobotCommand
		if err := decodeData(msg.Data, &cmd); err != nil {
			return err
		}
		return applyRobotCommand(cmd)

	case models.MessageTypeModeChange:
		var cmd models.ModeChangeCommand
		if err := decodeData(msg.Data, &cmd); err != nil {
			return err
		}
		switch models.RobotMode(cmd.Mode) {
		case models.ModeAutoRoute:
			sim.SetAutoMove(true)
		case models.ModeIdle:
			sim.SetAutoMove(false)
		case models.ModeManual:
			dir, ok := models.ParseDirection(cmd.Direction)
			if !ok {
				dir = models.DirStop
			}
			sim.SetManualControl(true, dir)
		default:
			return fmt.Errorf("unknown mode: %q", cmd.Mode)
		}
		return nil

	case models.MessageTypeEmergencyStop:
		var cmd models.EmergencyStopCommand
		_ = decodeData(msg.Data, &cmd)
		sim.SetAutoMove(false)
		log.Printf("🚨 긴급 정지: %s", cmd.Reason)
		Manager.BroadcastMessage(models.WebSocketMessage{
			Type: models.MessageTypeSystemInfo,
			Data: map[string]interface{}{"message": "긴급 정지", "reason": cmd.Reason},
		})
		return nil

	default:
		return fmt.Errorf("unknown message type: %q", msg.Type)
	}
}

func applyRobotCommand(cmd models.RobotCommand) error {
	switch cmd.Action {
	case "auto":
		sim.SetAutoMove(cmd.Enabled)
	case "manual":
		dir, ok := models.ParseDirection(cmd.Direction)
		if cmd.Enabled && !ok {
			return fmt.Errorf("unknown direction: %q", cmd.Direction)
		}
		sim.SetManualControl(cmd.Enabled, dir)
	case "forward":
		sim.StepForward(cmd.Ticks)
	case "backward":
		sim.StepBackward(cmd.Ticks)
	case "resume":
		sim.ResumeFromReplay()
	case "reset":
		sim.ResetRobot()
	default:
		return fmt.Errorf("unknown action: %q", cmd.Action)
	}
	return nil
}

// decodeData - interface{}로 받은 data를 구조체로 변환
func decodeData(data interface{}, out interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode data: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
