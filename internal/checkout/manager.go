package checkout

import (
	"errors"
	"sync"
)

var ErrUnknownAttempt = errors.New("no checkout attempt for gateway order")

// Manager tracks in-flight attempts keyed by gateway order id, so the
// verify and cancel paths can resolve the attempt the session started.
// Attempts are removed on resolution; an abandoned attempt is dropped the
// next time the same user starts a checkout.
type Manager struct {
	mu       sync.Mutex
	attempts map[string]*Attempt
	byUser   map[string]string // userID -> gateway order id
}

func NewManager() *Manager {
	return &Manager{
		attempts: map[string]*Attempt{},
		byUser:   map[string]string{},
	}
}

// Track registers an attempt under its gateway order id. A previous
// unresolved attempt by the same user is cancelled and replaced.
func (m *Manager) Track(userID string, a *Attempt) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.byUser[userID]; ok {
		if old, ok := m.attempts[prev]; ok {
			_ = old.Cancel()
			delete(m.attempts, prev)
		}
	}
	m.attempts[a.GatewayOrderID()] = a
	m.byUser[userID] = a.GatewayOrderID()
}

func (m *Manager) Lookup(gatewayOrderID string) (*Attempt, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[gatewayOrderID]
	return a, ok
}

// Complete resolves and removes the attempt for a finished payment.
func (m *Manager) Complete(p CallbackPayload) error {
	a, ok := m.take(p.GatewayOrderID)
	if !ok {
		return ErrUnknownAttempt
	}
	return a.Complete(p)
}

// Cancel resolves the attempt with the cancelled variant (user dismissed
// the hosted UI). The cart is untouched.
func (m *Manager) Cancel(gatewayOrderID string) error {
	a, ok := m.take(gatewayOrderID)
	if !ok {
		return ErrUnknownAttempt
	}
	return a.Cancel()
}

func (m *Manager) take(gatewayOrderID string) (*Attempt, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[gatewayOrderID]
	if ok {
		delete(m.attempts, gatewayOrderID)
		for user, id := range m.byUser {
			if id == gatewayOrderID {
				delete(m.byUser, user)
				break
			}
		}
	}
	return a, ok
}
