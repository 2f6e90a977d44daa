// Package services – idempotent request bookkeeping
//
// IdempotencyService remembers which entity a (user, scope, key) triple
// produced so that a retried POST replays the original result instead of
// creating a second booking.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/campus-resource-hub/internal/repo"
)

// IdempotencyService stores and resolves Idempotency-Key records.
type IdempotencyService struct {
	DB  *gorm.DB
	TTL time.Duration
}

// NewIdempotencyService returns a service whose records expire after ttl
// (24h when ttl <= 0).
func NewIdempotencyService(db *gorm.DB, ttl time.Duration) *IdempotencyService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyService{DB: db, TTL: ttl}
}

// Lookup reports the target id recorded for (userID, scope, key) if the
// record is still valid at now. Its signature matches
// middleware.IdempotencyLookup.
func (s *IdempotencyService) Lookup(ctx context.Context, userID, scope, key string, now time.Time) (string, bool, error) {
	rec, err := repo.GetIdempotency(ctx, s.DB, userID, scope, key, now)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return rec.TargetID, true, nil
}

// Remember records that (userID, scope, key) produced targetID with the given
// HTTP status. A concurrent request that already stored the same key wins;
// that case is not an error.
func (s *IdempotencyService) Remember(ctx context.Context, userID, scope, key, targetID string, status int) error {
	_, err := repo.CreateIdempotency(ctx, s.DB, userID, scope, key, targetID, status, s.TTL)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil
	}
	return err
}
