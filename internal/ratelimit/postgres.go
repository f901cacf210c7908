package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Bucket is the persisted state of one token bucket.
type Bucket struct {
	Key       string    `gorm:"primaryKey;type:text"`
	Tokens    float64   `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Bucket) TableName() string { return "rate_buckets" }

type postgresGate struct {
	db       *gorm.DB
	policies map[Action]Policy
	now      func() time.Time
}

// NewPostgresGate shares buckets between every instance connected to the same database.
func NewPostgresGate(db *gorm.DB, policies map[Action]Policy) Gate {
	return &postgresGate{db: db, policies: policies, now: time.Now}
}

var errExhausted = errors.New("bucket exhausted")

func (g *postgresGate) Check(ctx context.Context, action Action, identity string) error {
	p, err := policyFor(g.policies, action)
	if err != nil {
		return err
	}
	key := bucketKey(action, identity)
	now := g.now().UTC()

	err = g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := Bucket{Key: key, Tokens: float64(p.Capacity), UpdatedAt: now}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}

		var b Bucket
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&b, "key = ?", key).Error; err != nil {
			return err
		}

		tokens := refill(b.Tokens, b.UpdatedAt, now, p)
		if tokens < 1 {
			return errExhausted
		}

		return tx.Model(&Bucket{}).Where("key = ?", key).Updates(map[string]interface{}{
			"tokens":     tokens - 1,
			"updated_at": now,
		}).Error
	})
	if errors.Is(err, errExhausted) {
		return fmt.Errorf("%s: %w", action, apperr.ErrRateLimited)
	}
	if err != nil {
		return fmt.Errorf("ratelimit: %w", err)
	}
	return nil
}
