package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"repomanage/internal/domain"
	"repomanage/internal/logger"
	"repomanage/internal/repository"
)

// ErrInvalidSnapshot matches every snapshot rejected by Import
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// ImportResult summarizes an applied snapshot
type ImportResult struct {
	Languages int    `json:"languages"`
	Repos     int    `json:"repos"`
	NextID    uint64 `json:"next_id"`
}

// StoreService exports, imports and reports on the whole store
type StoreService struct {
	base
}

// NewStoreService creates a new store service
func NewStoreService(store *repository.Store, eventBus *EventBus, opts ...Option) *StoreService {
	return &StoreService{base: newBase(store, eventBus, opts)}
}

// Export copies every record and the counter position into a snapshot
func (s *StoreService) Export(ctx context.Context) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{
		Languages: []domain.ProgrammingLanguage{},
		Repos:     []domain.Repo{},
	}
	err := s.run(ctx, "export", func() error {
		next, err := s.store.Counter.Peek()
		if err != nil {
			return err
		}
		snap.NextID = next

		langs, err := s.store.Languages.All()
		if err != nil {
			return err
		}
		for _, e := range langs {
			snap.Languages = append(snap.Languages, e.Entity)
		}

		repos, err := s.store.Repos.All()
		if err != nil {
			return err
		}
		for _, e := range repos {
			snap.Repos = append(snap.Repos, e.Entity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Import writes every record of snap under its own id, overwriting records
// of the same kind, and raises the counter past every imported id and to at
// least snap.NextID. The counter is never lowered. Nothing is written when
// any record is rejected.
func (s *StoreService) Import(ctx context.Context, snap *domain.Snapshot) (*ImportResult, error) {
	var result ImportResult
	err := s.run(ctx, "import", func() error {
		if err := s.check(snap); err != nil {
			return err
		}

		for _, l := range snap.Languages {
			s.store.Languages.Check(l)
		}
		for _, r := range snap.Repos {
			s.store.Repos.Check(r)
		}

		for _, l := range snap.Languages {
			if err := s.store.Languages.Insert(l.ID, l); err != nil {
				return err
			}
		}
		for _, r := range snap.Repos {
			if err := s.store.Repos.Insert(r.ID, r); err != nil {
				return err
			}
		}

		floor := snap.NextID
		if max, ok := snap.MaxID(); ok && max+1 > floor {
			floor = max + 1
		}
		next, err := s.store.Counter.AdvanceTo(floor)
		if err != nil {
			return err
		}

		result = ImportResult{
			Languages: len(snap.Languages),
			Repos:     len(snap.Repos),
			NextID:    next,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.From(ctx).Info("snapshot imported",
		logger.Count(result.Languages+result.Repos),
		zap.Uint64("next_id", result.NextID))
	s.publish(EventSnapshotImported, result)
	return &result, nil
}

// Stats reports the counter position and region sizes
func (s *StoreService) Stats(ctx context.Context) (*repository.Stats, error) {
	var stats *repository.Stats
	err := s.run(ctx, "stats", func() error {
		var err error
		stats, err = s.store.Stats()
		return err
	})
	return stats, err
}

// check rejects invalid records, ids used twice in the snapshot, and ids
// already held by the other kind of record in the store
func (s *StoreService) check(snap *domain.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: empty document", ErrInvalidSnapshot)
	}

	seen := make(map[uint64]string, len(snap.Languages)+len(snap.Repos))
	claim := func(entity string, id uint64) error {
		if prev, dup := seen[id]; dup {
			return fmt.Errorf("%w: id %d claimed by %s and %s", ErrInvalidSnapshot, id, prev, entity)
		}
		seen[id] = entity
		return nil
	}

	for _, l := range snap.Languages {
		if msg := l.Validate(); msg != "" {
			return fmt.Errorf("%w: %s %d: %s", ErrInvalidSnapshot, domain.EntityLanguage, l.ID, msg)
		}
		if err := claim(domain.EntityLanguage, l.ID); err != nil {
			return err
		}
		_, taken, err := s.store.Repos.Get(l.ID)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: id %d already belongs to a %s", ErrInvalidSnapshot, l.ID, domain.EntityRepo)
		}
	}

	for _, r := range snap.Repos {
		if msg := r.Validate(); msg != "" {
			return fmt.Errorf("%w: %s %d: %s", ErrInvalidSnapshot, domain.EntityRepo, r.ID, msg)
		}
		if err := claim(domain.EntityRepo, r.ID); err != nil {
			return err
		}
		_, taken, err := s.store.Languages.Get(r.ID)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: id %d already belongs to a %s", ErrInvalidSnapshot, r.ID, domain.EntityLanguage)
		}
	}

	if max, ok := snap.MaxID(); ok && max == ^uint64(0) {
		return fmt.Errorf("%w: id %d leaves no room for the counter", ErrInvalidSnapshot, max)
	}
	return nil
}
