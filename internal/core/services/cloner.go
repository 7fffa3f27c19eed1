package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/skycatch/internal/core/domain"
	"github.com/custodia-labs/skycatch/internal/core/ports/driven"
)

// ResultCloner copies a cached query's found rows to a new query.
type ResultCloner struct {
	founds driven.FoundStore
}

// NewResultCloner creates a new result cloner.
func NewResultCloner(founds driven.FoundStore) *ResultCloner {
	return &ResultCloner{founds: founds}
}

// Copy duplicates every found row owned by cachedQuery into rows owned by
// newQuery and returns the number copied. Each clone gets a fresh identity
// key and shares nothing with its original: deleting the cached query and
// its rows later must leave the copies intact.
func (c *ResultCloner) Copy(ctx context.Context, newQuery, cachedQuery *domain.Query) (int, error) {
	rows, err := c.founds.ByQuery(ctx, cachedQuery.ID)
	if err != nil {
		return 0, fmt.Errorf("read cached results: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	clones := make([]domain.Found, len(rows))
	for i, row := range rows {
		clones[i] = row.CloneFor(newQuery.ID)
	}

	if _, err := c.founds.Add(ctx, clones); err != nil {
		return 0, fmt.Errorf("save cloned results: %w", err)
	}

	return len(clones), nil
}
