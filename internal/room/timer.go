package room

import (
	"sync"
	"time"
)

// Timer 房间倒计时句柄
// 显式存放在Room上，停止是一个可审计的明确操作
type Timer struct {
	stop chan struct{}
	once sync.Once
}

func newTimer() *Timer {
	return &Timer{stop: make(chan struct{})}
}

// Stop 停止倒计时，可重复调用
func (t *Timer) Stop() {
	t.once.Do(func() {
		close(t.stop)
	})
}

// startCountdown 启动房间的权威倒计时
// 调用方必须持有 m.mu
func (m *Manager) startCountdown(room *Room) {
	t := newTimer()
	room.timer = t

	interval := m.cfg.TickInterval
	if interval <= 0 {
		interval = time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				if !m.tick(room.Code) {
					return
				}
			}
		}
	}()
}

// tick 执行一次倒计时，返回是否继续
// 房间可能在倒计时期间被删除或结束，每次都要重新检查
func (m *Manager) tick(code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[code]
	if !ok || room.Status != StatusPlaying {
		return false
	}

	room.TimeRemaining--

	if room.TimeRemaining <= 0 {
		room.TimeRemaining = 0
		m.finishRoom(room, false)
		return false
	}

	m.broadcaster.BroadcastToRoom(code, EventTimerUpdate, TimerUpdatePayload{
		Seconds: room.TimeRemaining,
	})
	return true
}
