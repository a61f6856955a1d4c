package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/greenwayvn/advisor-bot/internal/domain/entity"
	"github.com/greenwayvn/advisor-bot/internal/domain/repository"
)

const (
	postgresConnectAttempts = 20
	postgresConnectDelay    = 2 * time.Second
)

type postgresAuditRepository struct {
	db *sql.DB
}

// NewPostgresAuditRepository opens the audit database, creating the table on
// first start. The container setups this runs in bring Postgres up in
// parallel with the bot, so the connect loop retries before giving up.
func NewPostgresAuditRepository(dsn string) (repository.AuditRepository, error) {
	db, err := openPostgresWithRetry(dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	schema := `
CREATE TABLE IF NOT EXISTS audit_log (
	id TEXT PRIMARY KEY,
	chat_id BIGINT NOT NULL,
	user_name TEXT,
	text TEXT,
	intent TEXT,
	matched_combo_id TEXT,
	matched_combo_name TEXT,
	matched_product_code TEXT,
	matched_product_name TEXT,
	created_at TIMESTAMPTZ DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_audit_log_chat_time ON audit_log (chat_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_audit_log_time ON audit_log (created_at DESC);
`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create audit_log table: %w", err)
	}
	return &postgresAuditRepository{db: db}, nil
}

// NewAuditRepository picks Postgres when a DSN is given and falls back to the
// in-memory store when the DSN is empty or the database is unreachable. The
// audit log is best-effort; losing it must never keep the bot from starting.
func NewAuditRepository(dsn string) repository.AuditRepository {
	if strings.TrimSpace(dsn) == "" {
		return NewMemoryAuditRepository()
	}
	repo, err := NewPostgresAuditRepository(dsn)
	if err != nil {
		log.Printf("audit store: Postgres unavailable, falling back to memory: %v", err)
		return NewMemoryAuditRepository()
	}
	return repo
}

func openPostgresWithRetry(dsn string) (*sql.DB, error) {
	var lastErr error
	for attempt := 1; attempt <= postgresConnectAttempts; attempt++ {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			if pingErr := db.Ping(); pingErr == nil {
				return db, nil
			} else {
				err = pingErr
			}
		}
		if db != nil {
			_ = db.Close()
		}
		lastErr = err
		if attempt < postgresConnectAttempts {
			time.Sleep(postgresConnectDelay)
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("postgres connection failed")
	}
	return nil, lastErr
}

func (p *postgresAuditRepository) Save(ctx context.Context, entry repository.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := p.db.ExecContext(ctx, `
	INSERT INTO audit_log (id, chat_id, user_name, text, intent,
		matched_combo_id, matched_combo_name, matched_product_code, matched_product_name, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, entry.ID, entry.ChatID, entry.UserName, entry.Text, string(entry.Intent),
		entry.MatchedComboID, entry.MatchedComboName, entry.MatchedProductCode, entry.MatchedProductName, entry.CreatedAt)
	return err
}

func (p *postgresAuditRepository) ListRecent(ctx context.Context, limit int) ([]repository.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.db.QueryContext(ctx, `
	SELECT id, chat_id, user_name, text, intent,
		matched_combo_id, matched_combo_name, matched_product_code, matched_product_name, created_at
	FROM audit_log
	ORDER BY created_at DESC
	LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []repository.AuditEntry
	for rows.Next() {
		var e repository.AuditEntry
		var intent string
		if err := rows.Scan(&e.ID, &e.ChatID, &e.UserName, &e.Text, &intent,
			&e.MatchedComboID, &e.MatchedComboName, &e.MatchedProductCode, &e.MatchedProductName, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Intent = entity.Intent(intent)
		res = append(res, e)
	}
	return res, rows.Err()
}
