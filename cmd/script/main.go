package main

import (
	"context"

	"nisasim/cmd"
	"nisasim/internal/logger"

	_ "github.com/lib/pq"
)

// one-shot sync for cron-style invocation
func main() {
	log := logger.New()

	handler, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}
	defer cmd.CloseDependencies(handler)

	ctx := context.Background()

	if !handler.SyncService.NeedsUpdate(ctx) {
		log.Info("price store is fresh, nothing to do")
		return
	}

	if err := handler.SyncService.Sync(ctx); err != nil {
		log.Fatalf("sync failed: %v", err)
	}
	log.Info("sync complete")
}
