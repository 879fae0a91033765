package repository

import (
	"context"

	"github.com/jskelly/legisync/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LegislatorRepository handles legislator data operations.
type LegislatorRepository struct {
	db *gorm.DB
}

// NewLegislatorRepository creates a new LegislatorRepository.
// Parameters:
//   - db: GORM database handle used for queries.
//
// Returns:
//   - *LegislatorRepository: repository instance bound to db.
func NewLegislatorRepository(db *gorm.DB) *LegislatorRepository {
	return &LegislatorRepository{db: db}
}

// Upsert creates or updates a legislator record keyed by bioguide_id.
// A record with the same ID always overwrites the prior stored version.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - legislator: legislator record to create or update.
//
// Returns:
//   - error: non-nil if the upsert fails.
func (r *LegislatorRepository) Upsert(ctx context.Context, legislator *domain.Legislator) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "bioguide_id"}},
		UpdateAll: true,
	}).Create(legislator).Error
}

// GetByBioguideID retrieves a legislator by its bioguide ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - bioguideID: stable external legislator identifier.
//
// Returns:
//   - *domain.Legislator: legislator record if found.
//   - error: non-nil if lookup fails.
func (r *LegislatorRepository) GetByBioguideID(ctx context.Context, bioguideID string) (*domain.Legislator, error) {
	var legislator domain.Legislator
	if err := r.db.WithContext(ctx).First(&legislator, "bioguide_id = ?", bioguideID).Error; err != nil {
		return nil, err
	}
	return &legislator, nil
}

// ExistsByBioguideID checks if a legislator with the given bioguide ID exists.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - bioguideID: stable external legislator identifier.
//
// Returns:
//   - bool: true if a record exists.
//   - error: non-nil if the lookup fails.
func (r *LegislatorRepository) ExistsByBioguideID(ctx context.Context, bioguideID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Legislator{}).
		Where("bioguide_id = ?", bioguideID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the total number of stored legislators.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//
// Returns:
//   - int64: number of legislator rows.
//   - error: non-nil if the query fails.
func (r *LegislatorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Legislator{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListByState retrieves legislators for a state with pagination.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - state: state name to filter by; empty means all.
//   - limit: maximum number of records to return.
//   - offset: number of records to skip.
//
// Returns:
//   - []domain.Legislator: matching legislator records.
//   - error: non-nil if the query fails.
func (r *LegislatorRepository) ListByState(ctx context.Context, state string, limit, offset int) ([]domain.Legislator, error) {
	var legislators []domain.Legislator
	query := r.db.WithContext(ctx)
	if state != "" {
		query = query.Where("state = ?", state)
	}
	if err := query.
		Limit(limit).
		Offset(offset).
		Order("last_name, first_name").
		Find(&legislators).Error; err != nil {
		return nil, err
	}
	return legislators, nil
}
