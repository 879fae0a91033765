package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jskelly/legisync/internal/domain"
	"gorm.io/gorm"
)

// LockRepository manages advisory lock rows in the system_locks table.
// Acquisition is a single conditional insert enforced by the primary key on
// lock_key, so two concurrent acquirers cannot both succeed.
type LockRepository struct {
	db *gorm.DB
}

// NewLockRepository creates a new LockRepository.
// Parameters:
//   - db: GORM database handle used for queries.
//
// Returns:
//   - *LockRepository: repository instance bound to db.
func NewLockRepository(db *gorm.DB) *LockRepository {
	return &LockRepository{db: db}
}

// TryAcquire attempts to acquire the named lock by inserting its row.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - key: lock key.
//
// Returns:
//   - bool: true if the lock was acquired; false if it is already held.
//   - error: non-nil if the insert fails for any other reason.
func (r *LockRepository) TryAcquire(ctx context.Context, key string) (bool, error) {
	lock := &domain.SystemLock{
		LockKey:    key,
		AcquiredAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(lock).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Release deletes the lock row for the key. Releasing a lock that is not
// held is a no-op, not an error.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - key: lock key.
//
// Returns:
//   - error: non-nil if the delete fails.
func (r *LockRepository) Release(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Delete(&domain.SystemLock{}, "lock_key = ?", key).Error
}

// IsHeld reports whether a lock row currently exists for the key.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - key: lock key.
//
// Returns:
//   - bool: true if the lock row exists.
//   - error: non-nil if the lookup fails.
func (r *LockRepository) IsHeld(ctx context.Context, key string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.SystemLock{}).
		Where("lock_key = ?", key).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
