package repository

import (
	"context"
	"time"

	"github.com/greenwayvn/advisor-bot/internal/domain/entity"
)

// AuditEntry is one handled message, mirrored to the audit log.
type AuditEntry struct {
	ID                 string
	ChatID             int64
	UserName           string
	Text               string
	Intent             entity.Intent
	MatchedComboID     string
	MatchedComboName   string
	MatchedProductCode string
	MatchedProductName string
	CreatedAt          time.Time
}

// AuditRepository records every handled message. Failures are log-only; the
// user-facing reply never depends on the audit write.
type AuditRepository interface {
	Save(ctx context.Context, entry AuditEntry) error
	ListRecent(ctx context.Context, limit int) ([]AuditEntry, error)
}
