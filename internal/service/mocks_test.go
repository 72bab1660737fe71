package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"nisasim/internal/db/models/postgres/public/model"
	"nisasim/internal/domain"
	"nisasim/internal/strategy"
	"nisasim/internal/util"
	"nisasim/pkg/googlefinance"
)

type fakeInstrumentRepository struct {
	instruments []model.Instrument
}

func (f *fakeInstrumentRepository) List() ([]model.Instrument, error) {
	return f.instruments, nil
}

func (f *fakeInstrumentRepository) Get(key string) (*model.Instrument, error) {
	for _, ins := range f.instruments {
		if ins.Key == key {
			return &ins, nil
		}
	}
	return nil, fmt.Errorf("instrument %s not found", key)
}

func (f *fakeInstrumentRepository) Count() (int, error) {
	return len(f.instruments), nil
}

func (f *fakeInstrumentRepository) Add(instruments []model.Instrument) error {
	f.instruments = append(f.instruments, instruments...)
	return nil
}

type pricePointKey struct {
	date          time.Time
	instrumentKey string
}

type fakePriceRepository struct {
	rows       map[pricePointKey]model.PricePoint
	upsertErrs map[pricePointKey]error
}

func newFakePriceRepository() *fakePriceRepository {
	return &fakePriceRepository{
		rows:       map[pricePointKey]model.PricePoint{},
		upsertErrs: map[pricePointKey]error{},
	}
}

func (f *fakePriceRepository) put(p model.PricePoint) {
	f.rows[pricePointKey{date: p.Date, instrumentKey: p.InstrumentKey}] = p
}

func (f *fakePriceRepository) Add(prices []model.PricePoint) error {
	for _, p := range prices {
		f.put(p)
	}
	return nil
}

func (f *fakePriceRepository) Upsert(price model.PricePoint) error {
	k := pricePointKey{date: price.Date, instrumentKey: price.InstrumentKey}
	if err, ok := f.upsertErrs[k]; ok {
		return err
	}
	f.rows[k] = price
	return nil
}

func (f *fakePriceRepository) sorted() []model.PricePoint {
	out := make([]model.PricePoint, 0, len(f.rows))
	for _, p := range f.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].InstrumentKey != out[j].InstrumentKey {
			return out[i].InstrumentKey < out[j].InstrumentKey
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func (f *fakePriceRepository) List(instrumentKey string) ([]domain.PricePoint, error) {
	out := []domain.PricePoint{}
	for _, p := range f.sorted() {
		if p.InstrumentKey == instrumentKey {
			out = append(out, domain.PricePoint{Date: p.Date, Close: p.Close})
		}
	}
	return out, nil
}

func (f *fakePriceRepository) ListSeries() ([]domain.PriceSeries, error) {
	series := []domain.PriceSeries{}
	for _, p := range f.sorted() {
		if len(series) == 0 || series[len(series)-1].InstrumentKey != p.InstrumentKey {
			series = append(series, domain.PriceSeries{InstrumentKey: p.InstrumentKey})
		}
		last := &series[len(series)-1]
		last.Points = append(last.Points, domain.PricePoint{Date: p.Date, Close: p.Close})
	}
	return series, nil
}

func (f *fakePriceRepository) Count() (int, error) {
	return len(f.rows), nil
}

func (f *fakePriceRepository) LatestDate() (*time.Time, error) {
	if len(f.rows) == 0 {
		return nil, errors.New("no price points")
	}
	var latest time.Time
	for k := range f.rows {
		if k.date.After(latest) {
			latest = k.date
		}
	}
	return &latest, nil
}

func (f *fakePriceRepository) LatestRefresh() (*time.Time, error) {
	if len(f.rows) == 0 {
		return nil, errors.New("no price points")
	}
	var latest time.Time
	for _, p := range f.rows {
		if p.LastRefreshed.After(latest) {
			latest = p.LastRefreshed
		}
	}
	return &latest, nil
}

func (f *fakePriceRepository) DeleteNotRefreshedOn(day time.Time) (int64, error) {
	var deleted int64
	for k, p := range f.rows {
		if !util.SameDay(p.LastRefreshed, day) {
			delete(f.rows, k)
			deleted++
		}
	}
	return deleted, nil
}

type fetchCall struct {
	searchTerm string
	from       time.Time
	to         time.Time
}

type fakeFetcher struct {
	quotesByTerm map[string][]googlefinance.Quote
	errsByTerm   map[string]error
	calls        []fetchCall
}

func (f *fakeFetcher) Fetch(_ context.Context, searchTerm string, from, to time.Time) ([]googlefinance.Quote, error) {
	f.calls = append(f.calls, fetchCall{searchTerm: searchTerm, from: from, to: to})
	if err, ok := f.errsByTerm[searchTerm]; ok {
		return nil, err
	}
	return f.quotesByTerm[searchTerm], nil
}

type allocationResultKey struct {
	date          time.Time
	instrumentKey string
	strategyID    int32
}

type fakeAllocationResultRepository struct {
	rows map[allocationResultKey]model.AllocationResult
}

func newFakeAllocationResultRepository() *fakeAllocationResultRepository {
	return &fakeAllocationResultRepository{
		rows: map[allocationResultKey]model.AllocationResult{},
	}
}

func (f *fakeAllocationResultRepository) AddIfMissing(results []model.AllocationResult) error {
	for _, r := range results {
		k := allocationResultKey{date: r.Date, instrumentKey: r.InstrumentKey, strategyID: r.StrategyID}
		if _, ok := f.rows[k]; ok {
			continue
		}
		f.rows[k] = r
	}
	return nil
}

func (f *fakeAllocationResultRepository) ListForStrategy(strategyID int32) ([]model.AllocationResult, error) {
	out := []model.AllocationResult{}
	for _, r := range f.rows {
		if r.StrategyID == strategyID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

type fakeAllocationService struct {
	runs []strategy.Strategy
}

func (f *fakeAllocationService) Run(_ context.Context, s strategy.Strategy) (map[string]domain.Recommendation, error) {
	f.runs = append(f.runs, s)
	return map[string]domain.Recommendation{}, nil
}

func (f *fakeAllocationService) LatestResults(_ context.Context, _ strategy.Strategy) ([]domain.StrategyResult, error) {
	return nil, nil
}
