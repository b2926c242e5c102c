package session

import (
	"context"
	"sync"
	"time"

	"storefront/backend/models"
	"storefront/backend/utils"
)

// CatalogSource fetches the published course list.
type CatalogSource interface {
	FetchCatalog(ctx context.Context) ([]models.Course, error)
}

// Catalog caches the course list shared by every session. A failed refresh
// keeps the previous list.
type Catalog struct {
	source CatalogSource
	log    *utils.Logger

	mu        sync.RWMutex
	courses   []models.Course
	fetchedAt time.Time
}

func NewCatalog(source CatalogSource, log *utils.Logger) *Catalog {
	return &Catalog{source: source, log: log.With("component", "catalog")}
}

func (c *Catalog) Refresh(ctx context.Context) error {
	courses, err := c.source.FetchCatalog(ctx)
	if err != nil {
		c.log.Warn("catalog refresh failed, keeping cached list", "error", err, "cached", len(c.Courses()))
		return err
	}

	c.mu.Lock()
	c.courses = courses
	c.fetchedAt = time.Now()
	c.mu.Unlock()
	c.log.Debug("catalog refreshed", "courses", len(courses))
	return nil
}

// Courses returns the cached list. The slice is replaced, never edited, on
// refresh, so callers may keep it but must not modify it.
func (c *Catalog) Courses() []models.Course {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.courses
}

func (c *Catalog) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}
