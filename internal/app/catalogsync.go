package app

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"booking_relay/internal/domain"
)

// CatalogStore is the write side of a persistent catalog.
type CatalogStore interface {
	UpsertItem(ctx context.Context, kind domain.ActionType, position int, it domain.CatalogItem) error
}

type CatalogSyncService struct {
	src   domain.CatalogSource
	store CatalogStore
}

func NewCatalogSyncService(src domain.CatalogSource, store CatalogStore) *CatalogSyncService {
	return &CatalogSyncService{src: src, store: store}
}

type SyncReport struct {
	Written int
	Failed  int
}

// Sync copies every item from the source into the store with at most
// workers concurrent writes. Per-item failures are counted and logged; the
// returned error joins them.
func (s *CatalogSyncService) Sync(ctx context.Context, workers int) (SyncReport, error) {
	if workers <= 0 {
		workers = 1
	}
	c, err := s.src.Load(ctx)
	if err != nil {
		return SyncReport{}, errors.Wrap(err, "load catalog source")
	}

	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		rep  SyncReport
		errs error
	)

	for _, kind := range []domain.ActionType{domain.ActionRent, domain.ActionBuy} {
		for i, it := range c.List(kind) {
			// acquire before launching the goroutine; release inside it
			if err := sem.Acquire(ctx, 1); err != nil {
				wg.Wait()
				return rep, errors.Wrap(err, "semaphore acquire")
			}

			wg.Add(1)
			go func(kind domain.ActionType, pos int, it domain.CatalogItem) {
				defer wg.Done()
				defer sem.Release(1)

				err := s.store.UpsertItem(ctx, kind, pos, it)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					rep.Failed++
					errs = errors.CombineErrors(errs, err)
					log.Warn().Str("kind", string(kind)).Int64("id", it.ID).Err(err).Msg("catalog item sync failed")
					return
				}
				rep.Written++
			}(kind, i, it)
		}
	}

	wg.Wait()
	return rep, errs
}
