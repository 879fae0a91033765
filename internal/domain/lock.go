package domain

import "time"

// SystemLock is an advisory lock row. Its presence is the lock: the unique
// constraint on lock_key makes acquisition an atomic insert-if-absent, so two
// concurrent imports for the same key cannot both acquire it.
type SystemLock struct {
	LockKey    string    `gorm:"type:text;primaryKey;column:lock_key" json:"lock_key"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// TableName returns the database table name for SystemLock.
func (SystemLock) TableName() string {
	return "system_locks"
}
