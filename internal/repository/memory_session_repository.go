package repository

import (
	"context"
	"sync"
	"time"

	"Moim-App/internal/domain/repository"
)

// MemorySessionRepository インメモリのセッション状態ストア。
// ローカル開発とテストで使用する
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]memorySessionEntry
	ttl      time.Duration
}

type memorySessionEntry struct {
	state    repository.SessionState
	expireAt time.Time
}

// NewMemorySessionRepository 新しいMemorySessionRepositoryインスタンスを作成
func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]memorySessionEntry),
		ttl:      ttl,
	}
}

func (r *MemorySessionRepository) Get(ctx context.Context, sessionID string) (*repository.SessionState, error) {
	r.mu.RLock()
	entry, ok := r.sessions[sessionID]
	r.mu.RUnlock()

	if !ok || time.Now().After(entry.expireAt) {
		return nil, repository.ErrSessionNotFound
	}

	state := entry.state
	return &state, nil
}

func (r *MemorySessionRepository) Set(ctx context.Context, sessionID string, state *repository.SessionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = memorySessionEntry{
		state:    *state,
		expireAt: time.Now().Add(r.ttl),
	}
	return nil
}
