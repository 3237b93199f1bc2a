package services

import (
	"log"
	"sync"
	"time"

	"cqbsim-backend/models"
)

// TickGate - 외부 타이머가 더 자주 깨워도 MinInterval 간격으로만 스텝을 허용
type TickGate struct {
	MinInterval time.Duration
	last        time.Time
}

// Allow - now가 마지막 허용 시각으로부터 MinInterval 이상 지났으면 true
func (g *TickGate) Allow(now time.Time) bool {
	if !g.last.IsZero() && now.Sub(g.last) < g.MinInterval {
		return false
	}
	g.last = now
	return true
}

// Runner - 시뮬레이터 메인 루프
type Runner struct {
	sim           *Simulator
	gate          TickGate
	period        time.Duration
	broadcastFunc func(models.Snapshot)

	IsRunning bool
	paused    bool
	stopChan  chan bool
	mu        sync.Mutex
}

// NewRunner - period마다 깨어나 updateRate 간격으로 Tick 실행
func NewRunner(sim *Simulator, period, updateRate time.Duration, broadcastFunc func(models.Snapshot)) *Runner {
	return &Runner{
		sim:           sim,
		gate:          TickGate{MinInterval: updateRate},
		period:        period,
		broadcastFunc: broadcastFunc,
		stopChan:      make(chan bool, 1),
	}
}

// Start - 시뮬레이션 시작
func (r *Runner) Start() {
	r.mu.Lock()
	if r.IsRunning {
		r.mu.Unlock()
		return
	}
	r.IsRunning = true
	r.mu.Unlock()

	log.Printf("🚀 시뮬레이션 루프 시작 (주기 %v, 스텝 간격 %v)", r.period, r.gate.MinInterval)
	go r.run()
}

// Stop - 시뮬레이션 중지
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.IsRunning {
		r.mu.Unlock()
		return
	}
	r.IsRunning = false
	r.mu.Unlock()

	r.stopChan <- true
	log.Println("🛑 시뮬레이션 루프 중지")
}

// Pause - 틱 진행 잠금 (명령은 계속 처리됨)
func (r *Runner) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = true
	log.Println("⏸️  시뮬레이션 일시정지")
}

// Resume - 틱 진행 재개
func (r *Runner) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = false
	log.Println("▶️  시뮬레이션 재개")
}

// IsPaused - 일시정지 여부
func (r *Runner) IsPaused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

func (r *Runner) run() {
	ticker := time.NewTicker(r.period)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		case now := <-ticker.C:
			r.Step(now)
		}
	}
}

// Step - 게이트를 통과하면 한 틱 진행하고 상태 전송. 진행했으면 true.
func (r *Runner) Step(now time.Time) bool {
	r.mu.Lock()
	if r.paused || !r.gate.Allow(now) {
		r.mu.Unlock()
		return false
	}
	r.mu.Unlock()

	r.sim.Tick()
	if r.broadcastFunc != nil {
		r.broadcastFunc(r.sim.Snapshot())
	}
	return true
}

// RunTicks - 타이머 없이 n 틱 진행 (헤드리스 실행용)
func RunTicks(sim *Simulator, n int) models.Snapshot {
	for i := 0; i < n; i++ {
		sim.Tick()
	}
	return sim.Snapshot()
}
