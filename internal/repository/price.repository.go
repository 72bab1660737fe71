package repository

import (
	"database/sql"
	"fmt"
	"nisasim/internal/db/models/postgres/public/model"
	"nisasim/internal/db/models/postgres/public/table"
	"nisasim/internal/domain"
	"time"

	"github.com/go-jet/jet/v2/postgres"
)

// PriceRepository owns the price_point table: one close per
// (date, instrument) with a last-refreshed stamp for staleness checks.
type PriceRepository interface {
	Add(prices []model.PricePoint) error
	Upsert(price model.PricePoint) error
	List(instrumentKey string) ([]domain.PricePoint, error)
	ListSeries() ([]domain.PriceSeries, error)
	Count() (int, error)
	LatestDate() (*time.Time, error)
	LatestRefresh() (*time.Time, error)
	DeleteNotRefreshedOn(day time.Time) (int64, error)
}

type priceRepositoryHandler struct {
	Db *sql.DB
}

func NewPriceRepository(db *sql.DB) PriceRepository {
	return priceRepositoryHandler{Db: db}
}

// Add bulk-upserts a batch of points. Remote data is authoritative, so
// an existing (date, instrument) row gets its close and refresh stamp
// replaced.
func (h priceRepositoryHandler) Add(prices []model.PricePoint) error {
	if len(prices) == 0 {
		return nil
	}
	query := table.PricePoint.
		INSERT(table.PricePoint.AllColumns).
		MODELS(prices).
		ON_CONFLICT(table.PricePoint.Date, table.PricePoint.InstrumentKey).
		DO_UPDATE(
			postgres.SET(
				table.PricePoint.Close.SET(table.PricePoint.EXCLUDED.Close),
				table.PricePoint.LastRefreshed.SET(table.PricePoint.EXCLUDED.LastRefreshed),
			),
		)

	_, err := query.Exec(h.Db)
	if err != nil {
		return fmt.Errorf("failed to add price points: %w", err)
	}

	return nil
}

// Upsert writes a single point in its own implicit transaction, so a
// bad point during an incremental pass cannot roll back its batch.
func (h priceRepositoryHandler) Upsert(price model.PricePoint) error {
	return h.Add([]model.PricePoint{price})
}

func (h priceRepositoryHandler) List(instrumentKey string) ([]domain.PricePoint, error) {
	query := table.PricePoint.
		SELECT(table.PricePoint.AllColumns).
		WHERE(table.PricePoint.InstrumentKey.EQ(postgres.String(instrumentKey))).
		ORDER_BY(table.PricePoint.Date.ASC())

	rows := []model.PricePoint{}
	err := query.Query(h.Db, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices for %s: %w", instrumentKey, err)
	}

	out := make([]domain.PricePoint, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.PricePoint{
			Date:  r.Date,
			Close: r.Close,
		})
	}

	return out, nil
}

// ListSeries returns every stored close grouped into one ordered
// series per instrument.
func (h priceRepositoryHandler) ListSeries() ([]domain.PriceSeries, error) {
	query := table.PricePoint.
		SELECT(table.PricePoint.AllColumns).
		ORDER_BY(table.PricePoint.InstrumentKey.ASC(), table.PricePoint.Date.ASC())

	rows := []model.PricePoint{}
	err := query.Query(h.Db, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list price points: %w", err)
	}

	series := []domain.PriceSeries{}
	for _, r := range rows {
		if len(series) == 0 || series[len(series)-1].InstrumentKey != r.InstrumentKey {
			series = append(series, domain.PriceSeries{InstrumentKey: r.InstrumentKey})
		}
		last := &series[len(series)-1]
		last.Points = append(last.Points, domain.PricePoint{Date: r.Date, Close: r.Close})
	}

	return series, nil
}

func (h priceRepositoryHandler) Count() (int, error) {
	query := table.PricePoint.
		SELECT(postgres.COUNT(table.PricePoint.InstrumentKey).AS("count"))

	var result struct {
		Count int
	}
	err := query.Query(h.Db, &result)
	if err != nil {
		return 0, fmt.Errorf("failed to count price points: %w", err)
	}

	return result.Count, nil
}

func (h priceRepositoryHandler) LatestDate() (*time.Time, error) {
	query := table.PricePoint.
		SELECT(table.PricePoint.AllColumns).
		ORDER_BY(table.PricePoint.Date.DESC()).
		LIMIT(1)

	result := model.PricePoint{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest price date: %w", err)
	}

	return &result.Date, nil
}

func (h priceRepositoryHandler) LatestRefresh() (*time.Time, error) {
	query := table.PricePoint.
		SELECT(table.PricePoint.AllColumns).
		ORDER_BY(table.PricePoint.LastRefreshed.DESC()).
		LIMIT(1)

	result := model.PricePoint{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest refresh stamp: %w", err)
	}

	return &result.LastRefreshed, nil
}

// DeleteNotRefreshedOn prunes rows left behind by an aborted bootstrap:
// anything whose refresh stamp does not match the given day.
func (h priceRepositoryHandler) DeleteNotRefreshedOn(day time.Time) (int64, error) {
	query := table.PricePoint.
		DELETE().
		WHERE(table.PricePoint.LastRefreshed.NOT_EQ(postgres.DateT(day)))

	res, err := query.Exec(h.Db)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale price points: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	return n, nil
}
