// internal/store/users.go
package store

import (
	"context"
	"database/sql"

	apperrors "staytruth-engine/internal/common/errors"

	"github.com/lib/pq"
)

// UserStore persists per-user personalization state.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// UpdateTasteVector overwrites the user's taste vector in one statement.
// The previous vector is fully replaced; there is no partial update.
func (s *UserStore) UpdateTasteVector(ctx context.Context, userID string, vector []float64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE user_profiles SET taste_vector = $2, taste_vector_updated_at = NOW() WHERE user_id = $1`,
		userID, pq.Float64Array(vector))
	if err != nil {
		return apperrors.NewTasteVectorWriteFailedError(userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewTasteVectorWriteFailedError(userID, err)
	}
	if affected == 0 {
		return apperrors.NewUserNotFoundError(userID)
	}
	return nil
}
