// Package directory holds the category list shared by the desktop mega-menu
// and the mobile accordion of one mounted navigation shell.
package directory

import (
	"context"
	"sync"

	"branakids/navigation/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Lister fetches raw category records from the storefront.
type Lister interface {
	ListCategories(ctx context.Context) ([]domain.CategoryRecord, error)
}

// Directory loads categories at most once per lifetime. Failures degrade to
// an empty list and are never returned to callers.
type Directory struct {
	lister Lister

	once       sync.Once
	mu         sync.RWMutex
	categories []domain.Category
	loaded     bool
}

func New(lister Lister) *Directory {
	return &Directory{
		lister: lister,
	}
}

// Load fetches the categories on first call and returns the cached list on
// every later call. Concurrent callers wait for the first fetch.
func (d *Directory) Load(ctx context.Context) []domain.Category {
	d.once.Do(func() {
		categories := d.fetch(ctx)

		d.mu.Lock()
		d.categories = categories
		d.loaded = true
		d.mu.Unlock()
	})

	return d.Snapshot()
}

// Snapshot returns a copy of the cached list without fetching. It is empty
// until Load has completed.
func (d *Directory) Snapshot() []domain.Category {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]domain.Category, len(d.categories))
	copy(out, d.categories)
	return out
}

// Loaded reports whether the single fetch has settled, successfully or not.
func (d *Directory) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}

func (d *Directory) fetch(ctx context.Context) []domain.Category {
	records, err := d.lister.ListCategories(ctx)
	if err != nil {
		log.Warnf("⚠️ Category directory unavailable, rendering empty menu: %v", err)
		return []domain.Category{}
	}

	categories := make([]domain.Category, 0, len(records))
	for _, record := range records {
		categories = append(categories, record.Normalize())
	}

	log.Debugf("📂 Loaded %d categories", len(categories))
	return categories
}
