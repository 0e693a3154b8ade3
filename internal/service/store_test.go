package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repomanage/internal/domain"
)

func stamp(v uint64) *uint64 { return &v }

func TestExportEmptyStore(t *testing.T) {
	ts := newTestServices(t)

	snap, err := ts.admin.Export(ctx)
	require.NoError(t, err)
	assert.Zero(t, snap.NextID)
	assert.Empty(t, snap.Languages)
	assert.Empty(t, snap.Repos)
	assert.NotNil(t, snap.Repos, "empty collections export as empty lists")
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newTestServices(t)

	lang, err := src.languages.AddLanguage(ctx, domain.LanguagePayload{Name: "Go"})
	require.NoError(t, err)
	repo, err := src.repos.CreateRepo(ctx, domain.RepoPayload{LanguageID: lang.ID, RepoName: "x", Description: "y"})
	require.NoError(t, err)
	gone, err := src.repos.CreateRepo(ctx, domain.RepoPayload{RepoName: "tmp", Description: "tmp"})
	require.NoError(t, err)
	_, err = src.repos.DeleteRepo(ctx, gone.ID)
	require.NoError(t, err)

	snap, err := src.admin.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), snap.NextID)

	dst := newTestServices(t)
	result, err := dst.admin.Import(ctx, snap)
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Languages: 1, Repos: 1, NextID: 3}, result)

	e := dst.nextEvent(t)
	assert.Equal(t, EventSnapshotImported, e.Type)

	gotRepo, err := dst.repos.GetRepo(ctx, repo.ID)
	require.NoError(t, err)
	assert.Equal(t, repo, gotRepo)

	gotLang, err := dst.languages.GetLanguage(ctx, lang.ID)
	require.NoError(t, err)
	assert.Equal(t, lang, gotLang)

	// The deleted id stays retired in the new store
	fresh, err := dst.repos.CreateRepo(ctx, domain.RepoPayload{RepoName: "n", Description: "d"})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), fresh.ID)
}

func TestImportAdvancesCounter(t *testing.T) {
	tests := []struct {
		name     string
		before   int
		snap     *domain.Snapshot
		wantNext uint64
	}{
		{
			name:     "raised past highest id",
			snap:     &domain.Snapshot{Repos: []domain.Repo{{ID: 9, RepoName: "x", Description: "y"}}},
			wantNext: 10,
		},
		{
			name:     "raised to snapshot counter",
			snap:     &domain.Snapshot{NextID: 20, Languages: []domain.ProgrammingLanguage{{ID: 2, Name: "Go"}}},
			wantNext: 20,
		},
		{
			name:     "never lowered",
			before:   5,
			snap:     &domain.Snapshot{Languages: []domain.ProgrammingLanguage{{ID: 1, Name: "Go"}}},
			wantNext: 5,
		},
		{
			name:     "empty snapshot keeps counter",
			before:   2,
			snap:     &domain.Snapshot{},
			wantNext: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServices(t)
			for i := 0; i < tt.before; i++ {
				_, err := ts.store.Counter.NextID()
				require.NoError(t, err)
			}

			result, err := ts.admin.Import(ctx, tt.snap)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNext, result.NextID)

			next, err := ts.store.Counter.Peek()
			require.NoError(t, err)
			assert.Equal(t, tt.wantNext, next)
		})
	}
}

func TestImportRejectsInvalidSnapshots(t *testing.T) {
	tests := []struct {
		name  string
		seed  bool
		snap  *domain.Snapshot
		match string
	}{
		{
			name:  "nil document",
			snap:  nil,
			match: "empty document",
		},
		{
			name:  "invalid repo",
			snap:  &domain.Snapshot{Repos: []domain.Repo{{ID: 1, Description: "y"}}},
			match: domain.MsgInvalidRepoName,
		},
		{
			name:  "invalid language",
			snap:  &domain.Snapshot{Languages: []domain.ProgrammingLanguage{{ID: 1}}},
			match: domain.MsgInvalidLanguageName,
		},
		{
			name: "id shared across kinds",
			snap: &domain.Snapshot{
				Languages: []domain.ProgrammingLanguage{{ID: 4, Name: "Go"}},
				Repos:     []domain.Repo{{ID: 4, RepoName: "x", Description: "y"}},
			},
			match: "id 4 claimed by",
		},
		{
			name: "id held by other kind in store",
			seed: true,
			snap: &domain.Snapshot{
				Languages: []domain.ProgrammingLanguage{{ID: 0, Name: "Go"}},
			},
			match: "already belongs to a Repo",
		},
		{
			name:  "counter cannot advance",
			snap:  &domain.Snapshot{Languages: []domain.ProgrammingLanguage{{ID: ^uint64(0), Name: "Go"}}},
			match: "no room for the counter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServices(t)
			if tt.seed {
				_, err := ts.repos.CreateRepo(ctx, domain.RepoPayload{RepoName: "x", Description: "y"})
				require.NoError(t, err)
				ts.nextEvent(t)
			}

			_, err := ts.admin.Import(ctx, tt.snap)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSnapshot))
			assert.Contains(t, err.Error(), tt.match)
			ts.noEvent(t)

			_, err = ts.languages.ListLanguages(ctx)
			assert.True(t, errors.Is(err, domain.ErrNotFound), "nothing is written on rejection")
		})
	}
}

func TestImportOverwritesSameKind(t *testing.T) {
	ts := newTestServices(t)

	repo, err := ts.repos.CreateRepo(ctx, domain.RepoPayload{RepoName: "old", Description: "y"})
	require.NoError(t, err)

	_, err = ts.admin.Import(ctx, &domain.Snapshot{
		Repos: []domain.Repo{{ID: repo.ID, RepoName: "new", Description: "y", UpdatedAt: stamp(1)}},
	})
	require.NoError(t, err)

	got, err := ts.repos.GetRepo(ctx, repo.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.RepoName)
	assert.Equal(t, uint64(1), *got.UpdatedAt, "imported stamps are kept")
}

func TestStoreStats(t *testing.T) {
	ts := newTestServices(t)

	_, err := ts.repos.CreateRepo(ctx, domain.RepoPayload{RepoName: "x", Description: "y"})
	require.NoError(t, err)
	_, err = ts.languages.AddLanguage(ctx, domain.LanguagePayload{Name: "Go"})
	require.NoError(t, err)

	stats, err := ts.admin.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stats.NextID)
	assert.Equal(t, uint64(1), stats.Regions["repos"].Entries)
	assert.Equal(t, uint64(1), stats.Regions["languages"].Entries)
}

func TestEventBus(t *testing.T) {
	bus := NewEventBus()
	a := make(chan Event, 1)
	b := make(chan Event) // unbuffered and never read
	bus.Subscribe(a)
	bus.Subscribe(b)

	bus.Publish(Event{Type: EventRepoCreated})
	assert.Equal(t, EventRepoCreated, (<-a).Type)

	bus.Unsubscribe(a)
	bus.Publish(Event{Type: EventRepoDeleted})
	select {
	case e := <-a:
		t.Fatalf("unsubscribed channel received %s", e.Type)
	default:
	}

	var nilBus *EventBus
	assert.NotPanics(t, func() { nilBus.Publish(Event{Type: EventRepoCreated}) })
}
