package service

import (
	"context"
	"fmt"
	"time"

	"nisasim/internal/db/models/postgres/public/model"
	"nisasim/internal/domain"
	"nisasim/internal/logger"
	"nisasim/internal/repository"
	"nisasim/internal/strategy"
	"nisasim/internal/util"
	"nisasim/pkg/googlefinance"
)

// PriceFetcher is the slice of the googlefinance client the sync
// engine needs. The underlying query slot is a singleton - callers
// must make sure only one sync operation runs at a time.
type PriceFetcher interface {
	Fetch(ctx context.Context, searchTerm string, from, to time.Time) ([]googlefinance.Quote, error)
}

type SyncService interface {
	// Sync seeds the catalog on first run, bootstraps or incrementally
	// updates the price store, then registers every strategy's
	// allocation for today.
	Sync(ctx context.Context) error
	Bootstrap(ctx context.Context) ([]domain.InstrumentSync, error)
	Update(ctx context.Context) ([]domain.InstrumentSync, error)
	NeedsUpdate(ctx context.Context) bool
}

type syncServiceHandler struct {
	InstrumentRepository repository.InstrumentRepository
	PriceRepository      repository.PriceRepository
	Fetcher              PriceFetcher
	AllocationService    AllocationService

	now func() time.Time
}

func NewSyncService(
	instrumentRepository repository.InstrumentRepository,
	priceRepository repository.PriceRepository,
	fetcher PriceFetcher,
	allocationService AllocationService,
) SyncService {
	return &syncServiceHandler{
		InstrumentRepository: instrumentRepository,
		PriceRepository:      priceRepository,
		Fetcher:              fetcher,
		AllocationService:    allocationService,
		now:                  time.Now,
	}
}

// the tracked index funds; seeded once, immutable afterward
func defaultCatalog() []model.Instrument {
	return []model.Instrument{
		{Key: "MSCI_ACWI", SearchTerm: "ACWI", DisplayKeyword: "全世界"},
		{Key: "sp500", SearchTerm: "SPY", DisplayKeyword: "S＆P"},
		{Key: "nikkei225", SearchTerm: "NI225", DisplayKeyword: "日経"},
		{Key: "topix", SearchTerm: "topix", DisplayKeyword: "topix"},
		{Key: "FTSE_Emerging", SearchTerm: "VWO", DisplayKeyword: "新興国株式インデックス・ファンド"},
		{Key: "MSCI_World", SearchTerm: "VEA", DisplayKeyword: "先進国"},
	}
}

func (h *syncServiceHandler) Sync(ctx context.Context) error {
	log := logger.FromContext(ctx)

	count, err := h.InstrumentRepository.Count()
	if err != nil {
		return fmt.Errorf("failed to count instruments: %w", err)
	}
	if count == 0 {
		log.Info("seeding instrument catalog")
		if err := h.InstrumentRepository.Add(defaultCatalog()); err != nil {
			return fmt.Errorf("failed to seed instrument catalog: %w", err)
		}
	}

	priceCount, err := h.PriceRepository.Count()
	if err != nil {
		return fmt.Errorf("failed to count price points: %w", err)
	}

	var outcomes []domain.InstrumentSync
	if priceCount == 0 {
		outcomes, err = h.Bootstrap(ctx)
	} else {
		outcomes, err = h.Update(ctx)
	}
	if err != nil {
		return err
	}
	for _, o := range outcomes {
		if o.Status != domain.SyncStatusSuccess {
			log.Warnf("instrument %s: %s (%v)", o.InstrumentKey, o.Status, o.Err)
		}
	}

	for _, s := range strategy.All() {
		if _, err := h.AllocationService.Run(ctx, s); err != nil {
			return fmt.Errorf("failed to register %s allocation: %w", s.Name(), err)
		}
	}

	return nil
}

// Bootstrap populates an empty store with the trailing 1-year window
// for every catalog instrument. A failed instrument is skipped, not
// fatal. Rows not stamped with today's refresh marker afterwards are
// leftovers from an aborted earlier bootstrap and get pruned.
func (h *syncServiceHandler) Bootstrap(ctx context.Context) ([]domain.InstrumentSync, error) {
	log := logger.FromContext(ctx)
	today := util.DateOf(h.now())

	instruments, err := h.InstrumentRepository.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}

	outcomes := []domain.InstrumentSync{}
	for _, ins := range instruments {
		quotes, err := h.Fetcher.Fetch(ctx, ins.SearchTerm, today.AddDate(-1, 0, 0), today)
		if err != nil {
			log.Warnf("skipping %s: fetch failed: %v", ins.Key, err)
			outcomes = append(outcomes, domain.InstrumentSync{
				InstrumentKey: ins.Key,
				Status:        domain.SyncStatusError,
				Err:           err,
			})
			continue
		}
		if len(quotes) == 0 {
			outcomes = append(outcomes, domain.InstrumentSync{
				InstrumentKey: ins.Key,
				Status:        domain.SyncStatusSkipped,
			})
			continue
		}

		points := make([]model.PricePoint, 0, len(quotes))
		for _, q := range quotes {
			points = append(points, model.PricePoint{
				Date:          q.Date,
				InstrumentKey: ins.Key,
				Close:         q.Close,
				LastRefreshed: today,
			})
		}
		if err := h.PriceRepository.Add(points); err != nil {
			log.Warnf("skipping %s: store failed: %v", ins.Key, err)
			outcomes = append(outcomes, domain.InstrumentSync{
				InstrumentKey: ins.Key,
				Status:        domain.SyncStatusError,
				Err:           err,
			})
			continue
		}

		outcomes = append(outcomes, domain.InstrumentSync{
			InstrumentKey: ins.Key,
			Status:        domain.SyncStatusSuccess,
			Points:        len(points),
		})
	}

	if len(instruments) > 0 {
		pruned, err := h.PriceRepository.DeleteNotRefreshedOn(today)
		if err != nil {
			log.Warnf("failed to prune stale price points: %v", err)
		} else if pruned > 0 {
			log.Infof("pruned %d stale price points", pruned)
		}
	}

	return outcomes, nil
}

// Update fetches from the day after the latest stored date through
// now. Remote data wins on conflict: an existing row is overwritten.
// Each point commits on its own, so one bad point cannot roll back
// the rest of the batch.
func (h *syncServiceHandler) Update(ctx context.Context) ([]domain.InstrumentSync, error) {
	log := logger.FromContext(ctx)
	today := util.DateOf(h.now())

	latest, err := h.PriceRepository.LatestDate()
	if err != nil {
		return nil, fmt.Errorf("failed to get latest price date: %w", err)
	}
	from := util.DateOf(*latest).AddDate(0, 0, 1)
	if from.After(today) {
		log.Info("price store already current")
		return nil, nil
	}

	instruments, err := h.InstrumentRepository.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}

	outcomes := []domain.InstrumentSync{}
	for _, ins := range instruments {
		quotes, err := h.Fetcher.Fetch(ctx, ins.SearchTerm, from, h.now())
		if err != nil {
			log.Warnf("skipping %s: fetch failed: %v", ins.Key, err)
			outcomes = append(outcomes, domain.InstrumentSync{
				InstrumentKey: ins.Key,
				Status:        domain.SyncStatusError,
				Err:           err,
			})
			continue
		}
		if len(quotes) == 0 {
			outcomes = append(outcomes, domain.InstrumentSync{
				InstrumentKey: ins.Key,
				Status:        domain.SyncStatusSkipped,
			})
			continue
		}

		applied := 0
		for _, q := range quotes {
			err := h.PriceRepository.Upsert(model.PricePoint{
				Date:          q.Date,
				InstrumentKey: ins.Key,
				Close:         q.Close,
				LastRefreshed: today,
			})
			if err != nil {
				log.Warnf("failed to upsert %s %s: %v", ins.Key, q.Date.Format(time.DateOnly), err)
				continue
			}
			applied++
		}

		outcomes = append(outcomes, domain.InstrumentSync{
			InstrumentKey: ins.Key,
			Status:        domain.SyncStatusSuccess,
			Points:        applied,
		})
	}

	return outcomes, nil
}

// NeedsUpdate is the staleness gate consumed by the external trigger.
// Any evaluation failure means "no update needed" - repeated failures
// must not cascade into repeated refetches.
func (h *syncServiceHandler) NeedsUpdate(ctx context.Context) bool {
	log := logger.FromContext(ctx)
	today := util.DateOf(h.now())

	lastRefresh, err := h.PriceRepository.LatestRefresh()
	if err != nil {
		log.Warnf("staleness check failed, assuming no update needed: %v", err)
		return false
	}
	if util.SameDay(*lastRefresh, today) {
		return false
	}

	latest, err := h.PriceRepository.LatestDate()
	if err != nil {
		log.Warnf("staleness check failed, assuming no update needed: %v", err)
		return false
	}
	// Friday's close stays the freshest data all weekend
	if util.IsWeekend(today) && util.DaysBetween(*latest, today) < 3 {
		return false
	}

	return true
}
