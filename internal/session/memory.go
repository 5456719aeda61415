package session

import (
	"sync"
)

type memoryStore struct {
	mu      sync.RWMutex
	records map[int64]Conversation

	locksMu sync.Mutex
	locks   map[int64]*chatLock
}

// chatLock is a per-conversation mutex; refs counts holders and waiters.
type chatLock struct {
	mu   sync.Mutex
	refs int
}

// NewMemoryStore constructs an in-memory Store.
func NewMemoryStore() Store {
	return NewMemoryStoreWith(nil)
}

// NewMemoryStoreWith builds a Store on top of the given backing map.
// A nil map is replaced with a fresh one; tests pass a pre-seeded map.
func NewMemoryStoreWith(backing map[int64]Conversation) Store {
	if backing == nil {
		backing = make(map[int64]Conversation)
	}
	return &memoryStore{
		records: backing,
		locks:   make(map[int64]*chatLock),
	}
}

// Get returns the stored conversation or the empty record.
func (m *memoryStore) Get(id int64) Conversation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.records[id]
}

// Set merges a partial update into the conversation.
func (m *memoryStore) Set(id int64, upd Update) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conv := m.records[id]
	if upd.WalletAddress != nil && conv.WalletAddress == "" {
		conv.WalletAddress = *upd.WalletAddress
	}
	if upd.ContractAddress != nil {
		conv.ContractAddress = *upd.ContractAddress
	}
	if upd.Pending != nil {
		conv.Pending = *upd.Pending
	}
	if conv.IsEmpty() {
		delete(m.records, id)
		return
	}
	m.records[id] = conv
}

// Clear drops the conversation.
func (m *memoryStore) Clear(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
}

// Lock acquires the per-conversation mutex. The entry is dropped once the
// last holder releases it, so idle chats keep no lock around.
func (m *memoryStore) Lock(id int64) func() {
	m.locksMu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &chatLock{}
		m.locks[id] = l
	}
	l.refs++
	m.locksMu.Unlock()

	l.mu.Lock()
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()
			m.locksMu.Lock()
			defer m.locksMu.Unlock()
			l.refs--
			if l.refs == 0 {
				delete(m.locks, id)
			}
		})
	}
}

// Len reports the number of live conversations.
func (m *memoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
