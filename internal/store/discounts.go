// internal/store/discounts.go
package store

import (
	"context"
	"database/sql"
	"time"

	apperrors "staytruth-engine/internal/common/errors"
)

// DiscountStore persists the reward codes issued for contributions.
type DiscountStore struct {
	db *sql.DB
}

func NewDiscountStore(db *sql.DB) *DiscountStore {
	return &DiscountStore{db: db}
}

func (s *DiscountStore) InsertDiscountCode(ctx context.Context, code string, discount float64, validUntil time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO discount_codes (code, discount, valid_until) VALUES ($1, $2, $3)`,
		code, discount, validUntil)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("insert_discount_code", err)
	}
	return nil
}
