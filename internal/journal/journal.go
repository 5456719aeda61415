// Package journal records the collaborator lookups performed for each chat.
package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Lookup kinds.
const (
	KindWalletProfile = "wallet_profile"
	KindMetadata      = "metadata"
	KindScore         = "score"
	KindAnomaly       = "anomaly"
	KindPrice         = "price"
	KindHolderTrend   = "holder_trend"
	KindAnalytics     = "analytics"
	KindMarketTrend   = "market_trend"
)

// Outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeNoData = "no_data"
	OutcomeFailed = "failed"
)

// Entry is one row of the lookups table.
type Entry struct {
	ID              uuid.UUID `db:"id"`
	ChatID          int64     `db:"chat_id"`
	Kind            string    `db:"kind"`
	ContractAddress string    `db:"contract_address"`
	WalletAddress   string    `db:"wallet_address"`
	TokenID         string    `db:"token_id"`
	TimeRange       string    `db:"time_range"`
	Outcome         string    `db:"outcome"`
	DurationMS      int64     `db:"duration_ms"`
	CreatedAt       time.Time `db:"created_at"`
}

// Journal stores lookup entries.
type Journal interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, chatID int64, limit int) ([]Entry, error)
}

// Postgres is a Journal backed by the lookups table.
type Postgres struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db, now: time.Now}
}

const insertLookup = `INSERT INTO lookups
	(id, chat_id, kind, contract_address, wallet_address, token_id, time_range, outcome, duration_ms, created_at)
	VALUES (:id, :chat_id, :kind, :contract_address, :wallet_address, :token_id, :time_range, :outcome, :duration_ms, :created_at)`

// Record inserts e, assigning an id and timestamp when missing.
func (p *Postgres) Record(ctx context.Context, e Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = p.now().UTC()
	}
	if _, err := p.db.NamedExecContext(ctx, insertLookup, e); err != nil {
		return fmt.Errorf("journal: insert lookup: %w", err)
	}
	return nil
}

const selectRecent = `SELECT id, chat_id, kind, contract_address, wallet_address, token_id, time_range, outcome, duration_ms, created_at
	FROM lookups WHERE chat_id = $1 ORDER BY created_at DESC LIMIT $2`

// Recent returns the latest entries of a chat, newest first.
func (p *Postgres) Recent(ctx context.Context, chatID int64, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []Entry
	if err := p.db.SelectContext(ctx, &out, selectRecent, chatID, limit); err != nil {
		return nil, fmt.Errorf("journal: select recent: %w", err)
	}
	return out, nil
}

// Nop discards entries.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }

func (Nop) Recent(context.Context, int64, int) ([]Entry, error) { return nil, nil }
