package repository

import (
	"database/sql"
	"fmt"
	"nisasim/internal/db/models/postgres/public/model"
	"nisasim/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
)

// AllocationResultRepository owns the allocation_result table. Rows are
// written at most once per (date, instrument, strategy); re-running a
// strategy on the same day is a no-op.
type AllocationResultRepository interface {
	AddIfMissing(results []model.AllocationResult) error
	ListForStrategy(strategyID int32) ([]model.AllocationResult, error)
}

type allocationResultRepositoryHandler struct {
	Db *sql.DB
}

func NewAllocationResultRepository(db *sql.DB) AllocationResultRepository {
	return allocationResultRepositoryHandler{Db: db}
}

func (h allocationResultRepositoryHandler) AddIfMissing(results []model.AllocationResult) error {
	if len(results) == 0 {
		return nil
	}
	query := table.AllocationResult.
		INSERT(table.AllocationResult.AllColumns).
		MODELS(results).
		ON_CONFLICT(
			table.AllocationResult.Date,
			table.AllocationResult.InstrumentKey,
			table.AllocationResult.StrategyID,
		).
		DO_NOTHING()

	_, err := query.Exec(h.Db)
	if err != nil {
		return fmt.Errorf("failed to add allocation results: %w", err)
	}

	return nil
}

// ListForStrategy returns every row for the strategy, newest first.
func (h allocationResultRepositoryHandler) ListForStrategy(strategyID int32) ([]model.AllocationResult, error) {
	query := table.AllocationResult.
		SELECT(table.AllocationResult.AllColumns).
		WHERE(table.AllocationResult.StrategyID.EQ(postgres.Int32(strategyID))).
		ORDER_BY(table.AllocationResult.Date.DESC())

	result := []model.AllocationResult{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocation results for strategy %d: %w", strategyID, err)
	}

	return result, nil
}
