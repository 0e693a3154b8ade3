package service

import (
	"context"

	"repomanage/internal/domain"
	"repomanage/internal/repository"
)

// RepoService provides the repository operations
type RepoService struct {
	base
}

// NewRepoService creates a new repository service
func NewRepoService(store *repository.Store, eventBus *EventBus, opts ...Option) *RepoService {
	return &RepoService{base: newBase(store, eventBus, opts)}
}

// GetRepo retrieves a single repository by ID
func (s *RepoService) GetRepo(ctx context.Context, id uint64) (*domain.Repo, error) {
	var repo domain.Repo
	err := s.run(ctx, "get_repo", func() error {
		var err error
		repo, err = s.load(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &repo, nil
}

// ListRepos returns every repository in ascending id order. An empty
// collection is reported as NotFound with id 0.
func (s *RepoService) ListRepos(ctx context.Context) ([]domain.Repo, error) {
	var repos []domain.Repo
	err := s.run(ctx, "get_all_repos", func() error {
		entries, err := s.store.Repos.All()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return domain.NotFound(domain.EntityRepo, 0)
		}
		repos = make([]domain.Repo, 0, len(entries))
		for _, e := range entries {
			repos = append(repos, e.Entity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return repos, nil
}

// CreateRepo validates the payload and stores it under a fresh id
func (s *RepoService) CreateRepo(ctx context.Context, p domain.RepoPayload) (*domain.Repo, error) {
	var repo domain.Repo
	err := s.run(ctx, "create_repo", func() error {
		if msg := p.Validate(); msg != "" {
			return domain.CreateFail(msg)
		}

		next, err := s.store.Counter.Peek()
		if err != nil {
			return err
		}
		repo = domain.Repo{ID: next}
		repo.Apply(p)
		repo.Touch(s.now())
		s.store.Repos.Check(repo)

		if repo.ID, err = s.store.Counter.NextID(); err != nil {
			return err
		}
		return s.store.Repos.Insert(repo.ID, repo)
	})
	if err != nil {
		return nil, err
	}

	s.publish(EventRepoCreated, repo)
	return &repo, nil
}

// UpdateRepo replaces every mutable field of an existing repository
func (s *RepoService) UpdateRepo(ctx context.Context, id uint64, p domain.RepoPayload) (*domain.Repo, error) {
	return s.update(ctx, "update_repo", id, p.Validate(), func(r *domain.Repo) {
		r.Apply(p)
	})
}

// UpdateRepoName replaces only the name of an existing repository
func (s *RepoService) UpdateRepoName(ctx context.Context, id uint64, name string) (*domain.Repo, error) {
	return s.update(ctx, "update_repo_name", id, domain.ValidateRepoName(name), func(r *domain.Repo) {
		r.RepoName = name
	})
}

// UpdateRepoDescription replaces only the description of an existing repository
func (s *RepoService) UpdateRepoDescription(ctx context.Context, id uint64, description string) (*domain.Repo, error) {
	return s.update(ctx, "update_repo_description", id, domain.ValidateDescription(description), func(r *domain.Repo) {
		r.Description = description
	})
}

// DeleteRepo removes a repository and returns it
func (s *RepoService) DeleteRepo(ctx context.Context, id uint64) (*domain.Repo, error) {
	var repo domain.Repo
	err := s.run(ctx, "delete_repo", func() error {
		removed, ok, err := s.store.Repos.Remove(id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFound(domain.EntityRepo, id)
		}
		repo = removed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(EventRepoDeleted, repo)
	return &repo, nil
}

// update validates first, then loads, mutates, re-stamps and stores
func (s *RepoService) update(ctx context.Context, op string, id uint64, invalid string, mutate func(*domain.Repo)) (*domain.Repo, error) {
	var repo domain.Repo
	err := s.run(ctx, op, func() error {
		if invalid != "" {
			return domain.UpdateFail(invalid)
		}

		var err error
		if repo, err = s.load(id); err != nil {
			return err
		}
		mutate(&repo)
		repo.Touch(s.now())
		return s.store.Repos.Insert(id, repo)
	})
	if err != nil {
		return nil, err
	}

	s.publish(EventRepoUpdated, repo)
	return &repo, nil
}

func (s *RepoService) load(id uint64) (domain.Repo, error) {
	repo, ok, err := s.store.Repos.Get(id)
	if err != nil {
		return domain.Repo{}, err
	}
	if !ok {
		return domain.Repo{}, domain.NotFound(domain.EntityRepo, id)
	}
	return repo, nil
}
