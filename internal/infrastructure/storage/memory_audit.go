package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/greenwayvn/advisor-bot/internal/domain/repository"
)

type memoryAuditRepository struct {
	mu      sync.RWMutex
	entries []repository.AuditEntry
}

// NewMemoryAuditRepository keeps the audit log in memory. Used when no
// Postgres DSN is configured and as the fallback when the database is down.
func NewMemoryAuditRepository() repository.AuditRepository {
	return &memoryAuditRepository{entries: make([]repository.AuditEntry, 0, 256)}
}

func (m *memoryAuditRepository) Save(_ context.Context, entry repository.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

// ListRecent returns the newest entries first.
func (m *memoryAuditRepository) ListRecent(_ context.Context, limit int) ([]repository.AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	res := make([]repository.AuditEntry, 0, limit)
	for i := n - 1; i >= 0 && len(res) < limit; i-- {
		res = append(res, m.entries[i])
	}
	return res, nil
}
