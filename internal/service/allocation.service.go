package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"nisasim/internal/db/models/postgres/public/model"
	"nisasim/internal/domain"
	"nisasim/internal/logger"
	"nisasim/internal/repository"
	"nisasim/internal/strategy"
	"nisasim/internal/util"

	"github.com/shopspring/decimal"
)

// fixed notional the weights get converted against (yen)
const fixedNotional = 33333

type AllocationService interface {
	// Run computes today's allocation for the strategy and registers
	// it. Registration is idempotent per (day, instrument, strategy).
	Run(ctx context.Context, s strategy.Strategy) (map[string]domain.Recommendation, error)
	// LatestResults returns the newest persisted row per instrument
	// for the strategy, largest amount first.
	LatestResults(ctx context.Context, s strategy.Strategy) ([]domain.StrategyResult, error)
}

type allocationServiceHandler struct {
	InstrumentRepository       repository.InstrumentRepository
	PriceRepository            repository.PriceRepository
	AllocationResultRepository repository.AllocationResultRepository

	now func() time.Time
}

func NewAllocationService(
	instrumentRepository repository.InstrumentRepository,
	priceRepository repository.PriceRepository,
	allocationResultRepository repository.AllocationResultRepository,
) AllocationService {
	return &allocationServiceHandler{
		InstrumentRepository:       instrumentRepository,
		PriceRepository:            priceRepository,
		AllocationResultRepository: allocationResultRepository,
		now:                        time.Now,
	}
}

func (h *allocationServiceHandler) priceMatrix() (domain.PriceMatrix, error) {
	series, err := h.PriceRepository.ListSeries()
	if err != nil {
		return domain.PriceMatrix{}, err
	}

	return domain.NewPriceMatrix(series), nil
}

func (h *allocationServiceHandler) Run(ctx context.Context, s strategy.Strategy) (map[string]domain.Recommendation, error) {
	log := logger.FromContext(ctx)

	matrix, err := h.priceMatrix()
	if err != nil {
		return nil, fmt.Errorf("failed to load price matrix: %w", err)
	}

	weights, err := s.Calculate(matrix)
	if err != nil {
		// no default allocation - the caller decides what to surface
		return nil, fmt.Errorf("failed to calculate %s allocation: %w", s.Name(), err)
	}

	today := util.DateOf(h.now())
	recommendations := map[string]domain.Recommendation{}
	rows := make([]model.AllocationResult, 0, len(weights))
	for key, w := range weights {
		amount := decimal.NewFromFloat(w).
			Mul(decimal.NewFromInt(fixedNotional)).
			Round(0).
			IntPart()

		var keyword *string
		if ins, err := h.InstrumentRepository.Get(key); err == nil {
			keyword = &ins.DisplayKeyword
		} else {
			log.Warnf("no catalog entry for %s: %v", key, err)
		}

		recommendations[key] = domain.Recommendation{
			WeightFraction: w,
			WeightAmount:   amount,
			DisplayKeyword: keyword,
		}
		rows = append(rows, model.AllocationResult{
			Date:          today,
			InstrumentKey: key,
			StrategyID:    s.ID(),
			WeightPercent: int32(math.Round(w * 100)),
			WeightAmount:  int32(amount),
		})
	}

	if err := h.AllocationResultRepository.AddIfMissing(rows); err != nil {
		return nil, fmt.Errorf("failed to register allocation results: %w", err)
	}

	return recommendations, nil
}

func (h *allocationServiceHandler) LatestResults(ctx context.Context, s strategy.Strategy) ([]domain.StrategyResult, error) {
	log := logger.FromContext(ctx)

	rows, err := h.AllocationResultRepository.ListForStrategy(s.ID())
	if err != nil {
		return nil, err
	}

	// rows arrive newest first; keep the first per instrument
	seen := map[string]struct{}{}
	results := []domain.StrategyResult{}
	for _, r := range rows {
		if _, ok := seen[r.InstrumentKey]; ok {
			continue
		}
		seen[r.InstrumentKey] = struct{}{}

		var keyword *string
		if ins, err := h.InstrumentRepository.Get(r.InstrumentKey); err == nil {
			keyword = &ins.DisplayKeyword
		} else {
			log.Warnf("no catalog entry for %s: %v", r.InstrumentKey, err)
		}

		results = append(results, domain.StrategyResult{
			Date:           r.Date,
			InstrumentKey:  r.InstrumentKey,
			DisplayKeyword: keyword,
			WeightPercent:  r.WeightPercent,
			WeightAmount:   r.WeightAmount,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].WeightAmount > results[j].WeightAmount
	})

	return results, nil
}
