package gallery_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vbonduro/folio/internal/api"
	"github.com/vbonduro/folio/internal/domain"
	"github.com/vbonduro/folio/internal/gallery"
	"github.com/vbonduro/folio/internal/mocks"
)

var (
	works = []domain.Work{
		{ID: 1, Title: "Abajour Tahina", ImageURL: "abajour.png", CategoryID: 1},
		{ID: 2, Title: "Appartement Paris V", ImageURL: "paris5.png", CategoryID: 2},
	}
	categories = []domain.Category{{ID: 1, Name: "Objects"}, {ID: 2, Name: "Apartments"}}
)

func newLoadedController(t *testing.T) (*gallery.Controller, *mocks.MockBackend) {
	t.Helper()
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	backend.EXPECT().ListWorks(gomock.Any()).Return(works, nil)
	backend.EXPECT().ListCategories(gomock.Any()).Return(categories, nil)

	c := gallery.NewController(backend, slog.Default())
	require.NoError(t, c.Load(context.Background()))
	return c, backend
}

func TestLoad(t *testing.T) {
	c, _ := newLoadedController(t)

	snap := c.Snapshot()
	assert.Equal(t, works, snap.Works)
	assert.Equal(t, categories, snap.Categories)

	cat, ok := c.Category(2)
	assert.True(t, ok)
	assert.Equal(t, "Apartments", cat.Name)
	_, ok = c.Category(9)
	assert.False(t, ok)
}

func TestControllerOwnsLoadedSlices(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	fetched := []domain.Work{
		{ID: 1, Title: "Abajour Tahina", ImageURL: "abajour.png", CategoryID: 1},
		{ID: 2, Title: "Appartement Paris V", ImageURL: "paris5.png", CategoryID: 2},
	}
	backend.EXPECT().ListWorks(gomock.Any()).Return(fetched, nil)
	backend.EXPECT().ListCategories(gomock.Any()).Return(categories, nil)
	backend.EXPECT().DeleteWork(gomock.Any(), "tok", int64(1)).Return(nil)

	c := gallery.NewController(backend, slog.Default())
	require.NoError(t, c.Load(context.Background()))
	require.NoError(t, c.DeleteWork(context.Background(), "tok", 1))

	assert.Equal(t, int64(1), fetched[0].ID)
	assert.Equal(t, int64(2), fetched[1].ID)
	assert.Equal(t, []domain.Work{fetched[1]}, c.Snapshot().Works)
}

func TestLoadFetchesConcurrently(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)

	categoriesStarted := make(chan struct{})
	backend.EXPECT().ListWorks(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]domain.Work, error) {
		select {
		case <-categoriesStarted:
			return works, nil
		case <-time.After(2 * time.Second):
			return nil, errors.New("categories request was not in flight")
		}
	})
	backend.EXPECT().ListCategories(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]domain.Category, error) {
		close(categoriesStarted)
		return categories, nil
	})

	c := gallery.NewController(backend, slog.Default())
	require.NoError(t, c.Load(context.Background()))
	assert.Len(t, c.Snapshot().Works, 2)
}

func TestLoadFailureKeepsPriorState(t *testing.T) {
	c, backend := newLoadedController(t)

	backend.EXPECT().ListWorks(gomock.Any()).Return([]domain.Work{{ID: 9, Title: "new", ImageURL: "n.png", CategoryID: 1}}, nil)
	backend.EXPECT().ListCategories(gomock.Any()).Return(nil, &api.APIError{Status: 500})

	err := c.Load(context.Background())
	assert.Equal(t, 500, api.StatusOf(err))
	assert.Equal(t, works, c.Snapshot().Works)
}

func TestEnsureLoadedRetriesUntilSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	c := gallery.NewController(backend, slog.Default())

	backend.EXPECT().ListWorks(gomock.Any()).Return(nil, api.ErrUnavailable)
	backend.EXPECT().ListCategories(gomock.Any()).Return(categories, nil)
	c.EnsureLoaded(context.Background())
	assert.Empty(t, c.Snapshot().Works)

	backend.EXPECT().ListWorks(gomock.Any()).Return(works, nil)
	backend.EXPECT().ListCategories(gomock.Any()).Return(categories, nil)
	c.EnsureLoaded(context.Background())
	assert.Len(t, c.Snapshot().Works, 2)

	// Loaded: no further backend calls.
	c.EnsureLoaded(context.Background())
}

func TestCreateWorkAppends(t *testing.T) {
	c, backend := newLoadedController(t)
	nw := domain.NewWork{Title: "Lamp", CategoryID: 1, Image: []byte("x")}
	created := domain.Work{ID: 3, Title: "Lamp", ImageURL: "lamp.png", CategoryID: 1}
	backend.EXPECT().CreateWork(gomock.Any(), "abc", nw).Return(created, nil)

	got, err := c.CreateWork(context.Background(), "abc", nw)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	snap := c.Snapshot().Works
	require.Len(t, snap, 3)
	assert.Equal(t, created, snap[2])
}

func TestCreateWorkFailureLeavesState(t *testing.T) {
	c, backend := newLoadedController(t)
	backend.EXPECT().CreateWork(gomock.Any(), "abc", gomock.Any()).Return(domain.Work{}, &api.APIError{Status: 400})

	_, err := c.CreateWork(context.Background(), "abc", domain.NewWork{Title: "Lamp"})
	assert.Error(t, err)
	assert.Equal(t, works, c.Snapshot().Works)
}

func TestDeleteWorkRemovesOnSuccess(t *testing.T) {
	c, backend := newLoadedController(t)
	backend.EXPECT().DeleteWork(gomock.Any(), "abc", int64(1)).Return(nil)

	require.NoError(t, c.DeleteWork(context.Background(), "abc", 1))
	assert.Equal(t, works[1:], c.Snapshot().Works)
}

func TestDeleteWorkKeepsOnFailure(t *testing.T) {
	c, backend := newLoadedController(t)
	backend.EXPECT().DeleteWork(gomock.Any(), "abc", int64(1)).Return(&api.APIError{Status: 401})

	err := c.DeleteWork(context.Background(), "abc", 1)
	assert.Equal(t, 401, api.StatusOf(err))
	assert.Equal(t, works, c.Snapshot().Works)
}

func TestSnapshotIsACopy(t *testing.T) {
	c, _ := newLoadedController(t)

	snap := c.Snapshot()
	snap.Works[0].Title = "changed"

	assert.Equal(t, "Abajour Tahina", c.Snapshot().Works[0].Title)
}
