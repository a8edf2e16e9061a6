// Package gallery owns the in-memory copy of the portfolio (works and
// categories) and derives the views rendered from it.
package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vbonduro/folio/internal/domain"
)

// Backend is the subset of api.Client the controller requires.
type Backend interface {
	ListWorks(ctx context.Context) ([]domain.Work, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateWork(ctx context.Context, token string, nw domain.NewWork) (domain.Work, error)
	DeleteWork(ctx context.Context, token string, id int64) error
}

// Controller holds the works and categories fetched from the backend and keeps
// them in step with successful creates and deletes, so views never need a
// refetch. It is safe for concurrent use.
type Controller struct {
	backend Backend
	logger  *slog.Logger

	mu         sync.RWMutex
	loaded     bool
	works      []domain.Work
	categories []domain.Category
}

func NewController(backend Backend, logger *slog.Logger) *Controller {
	return &Controller{backend: backend, logger: logger}
}

// Load fetches works and categories concurrently and replaces the state only
// when both succeed. On failure the previous state is kept.
func (c *Controller) Load(ctx context.Context) error {
	var works []domain.Work
	var cats []domain.Category

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		works, err = c.backend.ListWorks(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = c.backend.ListCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load gallery: %w", err)
	}

	c.mu.Lock()
	c.works = slices.Clone(works)
	c.categories = slices.Clone(cats)
	c.loaded = true
	c.mu.Unlock()

	c.logger.Info("gallery loaded", "works", len(works), "categories", len(cats))
	return nil
}

// EnsureLoaded loads the state unless a previous Load succeeded. Failures are
// logged and leave the (possibly empty) state untouched.
func (c *Controller) EnsureLoaded(ctx context.Context) {
	if c.Loaded() {
		return
	}
	if err := c.Load(ctx); err != nil {
		c.logger.Error("gallery load failed", "error", err)
	}
}

// Loaded reports whether a Load has succeeded.
func (c *Controller) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Snapshot is a copy of the controller state at one instant.
type Snapshot struct {
	Works      []domain.Work
	Categories []domain.Category
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Works:      slices.Clone(c.works),
		Categories: slices.Clone(c.categories),
	}
}

// CreateWork posts nw to the backend and appends the created work.
func (c *Controller) CreateWork(ctx context.Context, token string, nw domain.NewWork) (domain.Work, error) {
	work, err := c.backend.CreateWork(ctx, token, nw)
	if err != nil {
		return domain.Work{}, err
	}

	c.mu.Lock()
	c.works = append(c.works, work)
	c.mu.Unlock()

	c.logger.Info("work created", "work_id", work.ID, "category_id", work.CategoryID)
	return work, nil
}

// DeleteWork deletes the work on the backend and, only if that succeeds,
// removes it from the state.
func (c *Controller) DeleteWork(ctx context.Context, token string, id int64) error {
	if err := c.backend.DeleteWork(ctx, token, id); err != nil {
		return err
	}

	c.mu.Lock()
	c.works = slices.DeleteFunc(c.works, func(w domain.Work) bool { return w.ID == id })
	c.mu.Unlock()

	c.logger.Info("work deleted", "work_id", id)
	return nil
}

// Category returns the category with the given id.
func (c *Controller) Category(id int64) (domain.Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return domain.Category{}, false
}
