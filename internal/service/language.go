package service

import (
	"context"

	"repomanage/internal/domain"
	"repomanage/internal/repository"
)

// LanguageService provides the programming language operations
type LanguageService struct {
	base
}

// NewLanguageService creates a new language service
func NewLanguageService(store *repository.Store, eventBus *EventBus, opts ...Option) *LanguageService {
	return &LanguageService{base: newBase(store, eventBus, opts)}
}

// GetLanguage retrieves a single language by ID
func (s *LanguageService) GetLanguage(ctx context.Context, id uint64) (*domain.ProgrammingLanguage, error) {
	var lang domain.ProgrammingLanguage
	err := s.run(ctx, "get_language", func() error {
		var err error
		lang, err = s.load(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &lang, nil
}

// ListLanguages returns every language in ascending id order, or NotFound
// with id 0 when there are none
func (s *LanguageService) ListLanguages(ctx context.Context) ([]domain.ProgrammingLanguage, error) {
	var langs []domain.ProgrammingLanguage
	err := s.run(ctx, "get_all_languages", func() error {
		entries, err := s.store.Languages.All()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return domain.NotFound(domain.EntityLanguage, 0)
		}
		langs = make([]domain.ProgrammingLanguage, 0, len(entries))
		for _, e := range entries {
			langs = append(langs, e.Entity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return langs, nil
}

// AddLanguage stores a new language under a fresh id
func (s *LanguageService) AddLanguage(ctx context.Context, p domain.LanguagePayload) (*domain.ProgrammingLanguage, error) {
	var lang domain.ProgrammingLanguage
	err := s.run(ctx, "add_language", func() error {
		if msg := p.Validate(); msg != "" {
			return domain.CreateFail(msg)
		}

		next, err := s.store.Counter.Peek()
		if err != nil {
			return err
		}
		lang = domain.ProgrammingLanguage{ID: next}
		lang.Apply(p)
		lang.Touch(s.now())
		s.store.Languages.Check(lang)

		if lang.ID, err = s.store.Counter.NextID(); err != nil {
			return err
		}
		return s.store.Languages.Insert(lang.ID, lang)
	})
	if err != nil {
		return nil, err
	}

	s.publish(EventLanguageCreated, lang)
	return &lang, nil
}

// UpdateLanguage renames an existing language
func (s *LanguageService) UpdateLanguage(ctx context.Context, id uint64, p domain.LanguagePayload) (*domain.ProgrammingLanguage, error) {
	var lang domain.ProgrammingLanguage
	err := s.run(ctx, "update_language", func() error {
		if msg := p.Validate(); msg != "" {
			return domain.UpdateFail(msg)
		}

		var err error
		if lang, err = s.load(id); err != nil {
			return err
		}
		lang.Apply(p)
		lang.Touch(s.now())
		return s.store.Languages.Insert(id, lang)
	})
	if err != nil {
		return nil, err
	}

	s.publish(EventLanguageUpdated, lang)
	return &lang, nil
}

func (s *LanguageService) load(id uint64) (domain.ProgrammingLanguage, error) {
	lang, ok, err := s.store.Languages.Get(id)
	if err != nil {
		return domain.ProgrammingLanguage{}, err
	}
	if !ok {
		return domain.ProgrammingLanguage{}, domain.NotFound(domain.EntityLanguage, id)
	}
	return lang, nil
}
