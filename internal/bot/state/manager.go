package state

import "sync"

// Chat conversation states
const (
	None                 = "none"
	WaitingForWindowDays = "waiting_for_window_days"
	WaitingForReading    = "waiting_for_reading"
)

// StateManager tracks what a chat is expected to send next.
type StateManager interface {
	SetUserState(chatID int64, state string)
	GetUserState(chatID int64) string
	ClearUserState(chatID int64)
}

// Manager keeps chat states in process memory.
type Manager struct {
	userStates map[int64]string
	mu         sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{userStates: make(map[int64]string)}
}

func (m *Manager) SetUserState(chatID int64, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userStates[chatID] = state
}

// GetUserState returns None for chats without a state.
func (m *Manager) GetUserState(chatID int64) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, exists := m.userStates[chatID]
	if !exists {
		return None
	}
	return state
}

func (m *Manager) ClearUserState(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.userStates, chatID)
}
