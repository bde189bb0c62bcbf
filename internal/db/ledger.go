package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openpaws/openpaws/internal/db/models"
)

// Ledger appends and aggregates AI usage records.
type Ledger struct {
	db  *gorm.DB
	now func() time.Time
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db, now: time.Now}
}

// Record stores rec, filling ID and Timestamp when unset.
func (l *Ledger) Record(ctx context.Context, rec *models.UsageRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp == 0 {
		rec.Timestamp = l.now().UnixMilli()
	}
	if err := l.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}
	return nil
}

// Summary returns per-provider totals for records at or after since, ordered
// by provider name.
func (l *Ledger) Summary(ctx context.Context, since time.Time) ([]models.ProviderSpend, error) {
	var out []models.ProviderSpend
	err := l.db.WithContext(ctx).
		Model(&models.UsageRecord{}).
		Select("provider, COUNT(*) AS requests, " +
			"SUM(prompt_tokens) AS prompt_tokens, SUM(completion_tokens) AS completion_tokens, " +
			"SUM(total_tokens) AS total_tokens, SUM(cost_usd) AS cost_usd").
		Where("timestamp >= ?", since.UnixMilli()).
		Group("provider").
		Order("provider").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize usage: %w", err)
	}
	return out, nil
}

// Recent returns the latest records, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]models.UsageRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []models.UsageRecord
	if err := l.db.WithContext(ctx).Order("timestamp DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list usage: %w", err)
	}
	return out, nil
}
