package state

import (
	"sync"
	"time"

	"github.com/Freeeeeet/connect_portal/internal/booking"
)

// DefaultTTL - сколько живёт брошенный диалог бронирования
const DefaultTTL = 30 * time.Minute

type entry struct {
	flow    booking.Flow
	touched time.Time
}

// Manager хранит диалоги бронирования по ключу сессии
type Manager struct {
	mu    sync.RWMutex
	flows map[string]entry // userID -> flow
	ttl   time.Duration
	now   func() time.Time
}

// NewManager создаёт менеджер состояний; ttl <= 0 отключает истечение
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		flows: make(map[string]entry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get возвращает текущий диалог пользователя
func (sm *Manager) Get(key string) (booking.Flow, bool) {
	sm.mu.RLock()
	e, exists := sm.flows[key]
	sm.mu.RUnlock()

	if !exists {
		return booking.Flow{}, false
	}
	if sm.expired(e) {
		sm.Clear(key)
		return booking.Flow{}, false
	}
	return e.flow, true
}

// Set сохраняет диалог и продлевает его жизнь
func (sm *Manager) Set(key string, f booking.Flow) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.flows[key] = entry{flow: f, touched: sm.now()}
}

// Clear удаляет диалог пользователя
func (sm *Manager) Clear(key string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.flows, key)
}

// Sweep удаляет истёкшие диалоги и возвращает их число
func (sm *Manager) Sweep() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for key, e := range sm.flows {
		if sm.expired(e) {
			delete(sm.flows, key)
			removed++
		}
	}
	return removed
}

// Len - число активных диалогов
func (sm *Manager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return len(sm.flows)
}

func (sm *Manager) expired(e entry) bool {
	return sm.ttl > 0 && sm.now().Sub(e.touched) > sm.ttl
}
