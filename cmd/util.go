package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"nisasim/api"
	"nisasim/internal/repository"
	"nisasim/internal/service"
	"nisasim/internal/util"
	"nisasim/pkg/googlefinance"

	_ "github.com/lib/pq"
)

func CloseDependencies(handler *api.ApiHandler) {
	err := handler.Db.Close()
	if err != nil {
		log.Fatalf("failed to close db: %v", err)
	}
}

func InitializeDependencies() (*api.ApiHandler, error) {
	secrets, err := util.LoadSecrets()
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	dbConn, err := sql.Open("postgres", secrets.Db.ToConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	transport, err := googlefinance.NewSheetsTransport(
		context.Background(),
		secrets.Sheets.CredentialsFile,
		secrets.Sheets.SpreadsheetID,
		secrets.Sheets.Worksheet,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets transport: %w", err)
	}
	fetcher := googlefinance.NewClient(transport)

	instrumentRepository := repository.NewInstrumentRepository(dbConn)
	priceRepository := repository.NewPriceRepository(dbConn)
	allocationResultRepository := repository.NewAllocationResultRepository(dbConn)

	allocationService := service.NewAllocationService(
		instrumentRepository,
		priceRepository,
		allocationResultRepository,
	)
	syncService := service.NewSyncService(
		instrumentRepository,
		priceRepository,
		fetcher,
		allocationService,
	)

	return &api.ApiHandler{
		Db:                   dbConn,
		SyncService:          syncService,
		AllocationService:    allocationService,
		PriceRepository:      priceRepository,
		ApiRequestRepository: repository.ApiRequestRepositoryHandler{},
	}, nil
}
