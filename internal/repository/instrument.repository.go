package repository

import (
	"database/sql"
	"fmt"
	"nisasim/internal/db/models/postgres/public/model"
	"nisasim/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
)

// InstrumentRepository is the read side of the instrument catalog.
// The catalog is seeded once and immutable afterward.
type InstrumentRepository interface {
	List() ([]model.Instrument, error)
	Get(key string) (*model.Instrument, error)
	Count() (int, error)
	Add(instruments []model.Instrument) error
}

type instrumentRepositoryHandler struct {
	Db *sql.DB
}

func NewInstrumentRepository(db *sql.DB) InstrumentRepository {
	return instrumentRepositoryHandler{Db: db}
}

func (h instrumentRepositoryHandler) List() ([]model.Instrument, error) {
	query := table.Instrument.
		SELECT(table.Instrument.AllColumns).
		ORDER_BY(table.Instrument.Key.ASC())

	result := []model.Instrument{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}

	return result, nil
}

func (h instrumentRepositoryHandler) Get(key string) (*model.Instrument, error) {
	query := table.Instrument.
		SELECT(table.Instrument.AllColumns).
		WHERE(table.Instrument.Key.EQ(postgres.String(key)))

	result := model.Instrument{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to get instrument %s: %w", key, err)
	}

	return &result, nil
}

func (h instrumentRepositoryHandler) Count() (int, error) {
	query := table.Instrument.
		SELECT(postgres.COUNT(table.Instrument.Key).AS("count"))

	var result struct {
		Count int
	}
	err := query.Query(h.Db, &result)
	if err != nil {
		return 0, fmt.Errorf("failed to count instruments: %w", err)
	}

	return result.Count, nil
}

func (h instrumentRepositoryHandler) Add(instruments []model.Instrument) error {
	if len(instruments) == 0 {
		return nil
	}
	query := table.Instrument.
		INSERT(table.Instrument.AllColumns).
		MODELS(instruments).
		ON_CONFLICT(table.Instrument.Key).
		DO_NOTHING()

	_, err := query.Exec(h.Db)
	if err != nil {
		return fmt.Errorf("failed to add instruments: %w", err)
	}

	return nil
}
