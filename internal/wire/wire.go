// Package wire provides dependency injection for the telephone application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"os"
	"sync"

	"github.com/example/telephone/internal/adapters/filesystem"
	"github.com/example/telephone/internal/adapters/sqlite"
	"github.com/example/telephone/internal/app"
	"github.com/example/telephone/internal/config"
	"github.com/example/telephone/internal/db"
	"github.com/example/telephone/internal/ports/primary"
)

var (
	gameService       primary.GameService
	chainService      primary.ChainService
	allocationService primary.AllocationService
	once              sync.Once
)

// GameService returns the singleton GameService instance.
func GameService() primary.GameService {
	once.Do(initServices)
	return gameService
}

// ChainService returns the singleton ChainService instance.
func ChainService() primary.ChainService {
	once.Do(initServices)
	return chainService
}

// AllocationService returns the singleton AllocationService instance.
func AllocationService() primary.AllocationService {
	once.Do(initServices)
	return allocationService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	// Get database connection
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	gameRepo := sqlite.NewGameRepository(database)
	chainRepo := sqlite.NewChainRepository(database)
	msgRepo := sqlite.NewMessageRepository(database)
	sessionRepo := sqlite.NewSessionRepository(database)

	// Audio recordings live on disk under the configured media root.
	// A missing config file falls back to the default location.
	var cfg *config.Config
	if home, err := os.UserHomeDir(); err == nil {
		cfg, _ = config.LoadConfig(home)
	}
	mediaRoot, err := config.MediaRootOrDefault(cfg)
	if err != nil {
		log.Fatalf("failed to resolve media root: %v", err)
	}
	store, err := filesystem.NewAudioStore(mediaRoot)
	if err != nil {
		log.Fatalf("failed to initialize audio store: %v", err)
	}

	// Create services (primary ports implementation)
	gameService = app.NewGameService(gameRepo, chainRepo, msgRepo, store)
	chainService = app.NewChainService(chainRepo, msgRepo, store)
	allocationService = app.NewAllocationService(gameRepo, chainRepo, msgRepo, sessionRepo, store)
}
