package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jskelly/legisync/internal/congress"
	"github.com/jskelly/legisync/internal/domain"
	"github.com/jskelly/legisync/internal/logger"
)

// MemberLister retrieves the complete member list for one congress.
// *congress.Client is the production implementation.
type MemberLister interface {
	ListMembers(ctx context.Context, congressNum int) ([]congress.Member, error)
}

// LegislatorStore is the slice of the legislator repository the import
// pipeline writes through.
type LegislatorStore interface {
	Upsert(ctx context.Context, legislator *domain.Legislator) error
	ExistsByBioguideID(ctx context.Context, bioguideID string) (bool, error)
}

// LockStore manages the advisory lock row that keeps concurrent imports for
// the same range from running twice.
type LockStore interface {
	TryAcquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// ImportService owns the end-to-end legislator import run: lock acquisition,
// descending iteration over the requested congress range, pagination and
// batch reconciliation per congress, error aggregation, and guaranteed lock
// release on every exit path.
type ImportService struct {
	client          MemberLister
	legislatorStore LegislatorStore
	lockStore       LockStore
	logger          *logger.Logger
	batchSize       int
	batchDelay      time.Duration
}

// ImportConfig holds configuration for the import service.
type ImportConfig struct {
	BatchSize  int
	BatchDelay time.Duration
}

// NewImportService creates a new import service.
// Parameters:
//   - client: congress.gov member lister.
//   - legislatorStore: legislator store.
//   - lockStore: advisory lock store.
//   - log: logger instance.
//   - cfg: batching configuration.
//
// Returns:
//   - *ImportService: initialized service.
func NewImportService(
	client MemberLister,
	legislatorStore LegislatorStore,
	lockStore LockStore,
	log *logger.Logger,
	cfg *ImportConfig,
) *ImportService {
	return &ImportService{
		client:          client,
		legislatorStore: legislatorStore,
		lockStore:       lockStore,
		logger:          log,
		batchSize:       cfg.BatchSize,
		batchDelay:      cfg.BatchDelay,
	}
}

// log returns a logger from context if available, otherwise returns the default logger
func (s *ImportService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// LockKey derives the advisory lock key for a congress range.
func LockKey(startCongress, endCongress int) string {
	return fmt.Sprintf("import_legislators_%d_%d", startCongress, endCongress)
}

// Run executes one import across the congress range [endCongress, startCongress],
// iterated in descending order. startCongress must be >= endCongress.
//
// A per-member failure is recorded and the run continues; a pagination failure
// for any congress aborts the whole run with whatever totals were accumulated
// before it. The advisory lock is released on every exit path.
func (s *ImportService) Run(ctx context.Context, startCongress, endCongress int) *domain.ImportResult {
	start := time.Now()
	ctx = logger.SetImportID(ctx, uuid.New().String())

	lockKey := LockKey(startCongress, endCongress)

	acquired, err := s.lockStore.TryAcquire(ctx, lockKey)
	if err != nil {
		s.log(ctx).WithError(err).Error("Failed to acquire import lock")
		return &domain.ImportResult{
			Status:  domain.ImportStatusError,
			Message: fmt.Sprintf("failed to acquire lock: %v", err),
		}
	}
	if !acquired {
		s.log(ctx).WithField("lock_key", lockKey).Info("Import already running, skipping")
		return &domain.ImportResult{Status: domain.ImportStatusLocked}
	}

	result := &domain.ImportResult{Status: domain.ImportStatusSuccess}

	// Unconditional release: a failure anywhere in the run must not leave the
	// lock row behind. A failed release is logged but never changes the result.
	defer func() {
		if err := s.lockStore.Release(context.WithoutCancel(ctx), lockKey); err != nil {
			s.log(ctx).WithField("lock_key", lockKey).WithError(err).Error("Failed to release import lock")
		}
	}()

	s.log(ctx).WithFields(logger.Fields{
		"start_congress": startCongress,
		"end_congress":   endCongress,
		"lock_key":       lockKey,
	}).Info("Starting legislator import")

	for congressNum := startCongress; congressNum >= endCongress; congressNum-- {
		sessionCtx := logger.WithField(ctx, logger.FieldCongress, congressNum)

		members, err := s.client.ListMembers(sessionCtx, congressNum)
		if err != nil {
			// A listing failure aborts the run; only per-member failures are isolated
			s.log(sessionCtx).WithError(err).Error("Failed to list members, aborting run")
			result.Status = domain.ImportStatusError
			result.Message = err.Error()
			break
		}

		inserted, updated, errs := s.reconcile(sessionCtx, members)
		result.Imported += inserted
		result.Updated += updated
		result.Errors = append(result.Errors, errs...)
	}

	logger.With(logger.Fields{
		logger.FieldStatus:     string(result.Status),
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
		"imported":             result.Imported,
		"updated":              result.Updated,
		"failed":               len(result.Errors),
	}).Info(ctx, "Legislator import finished")

	return result
}

// reconcile upserts one congress's member list in fixed-size batches.
// Members within a batch are reconciled concurrently; batch boundaries are
// strictly sequential, with a fixed pause between batches as a write-rate
// throttle. A per-member failure is recorded and never aborts the batch.
func (s *ImportService) reconcile(ctx context.Context, members []congress.Member) (inserted, updated int, errs []string) {
	var mu sync.Mutex

	for batchStart := 0; batchStart < len(members); batchStart += s.batchSize {
		batchEnd := batchStart + s.batchSize
		if batchEnd > len(members) {
			batchEnd = len(members)
		}
		batch := members[batchStart:batchEnd]

		var wg sync.WaitGroup
		for _, member := range batch {
			wg.Add(1)
			go func(m congress.Member) {
				defer wg.Done()

				wasInsert, err := s.reconcileMember(ctx, m)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					id := m.BioguideID
					if id == "" {
						id = "unknown"
					}
					errs = append(errs, fmt.Sprintf("%s: %v", id, err))
					return
				}
				if wasInsert {
					inserted++
				} else {
					updated++
				}
			}(member)
		}
		wg.Wait()

		// Fixed pause before the next batch regardless of outcome
		if batchEnd < len(members) {
			select {
			case <-time.After(s.batchDelay):
			case <-ctx.Done():
				return inserted, updated, errs
			}
		}
	}

	return inserted, updated, errs
}

// reconcileMember maps and upserts a single member, reporting whether the
// upsert created a new row. Classification probes existence before the
// upsert and is best-effort: concurrent reconciliation of a duplicate ID in
// the same batch could count two inserts for one row.
func (s *ImportService) reconcileMember(ctx context.Context, m congress.Member) (wasInsert bool, err error) {
	legislator := mapLegislator(m, time.Now())

	exists, err := s.legislatorStore.ExistsByBioguideID(ctx, legislator.BioguideID)
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}

	if err := s.legislatorStore.Upsert(ctx, &legislator); err != nil {
		s.log(ctx).WithField(logger.FieldBioguideID, legislator.BioguideID).
			WithError(err).Error("Failed to upsert legislator")
		return false, fmt.Errorf("failed to upsert: %w", err)
	}

	return !exists, nil
}
