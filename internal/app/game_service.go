package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/example/telephone/internal/ports/primary"
	"github.com/example/telephone/internal/ports/secondary"
)

// GameServiceImpl implements the GameService interface.
type GameServiceImpl struct {
	gameRepo  secondary.GameRepository
	chainRepo secondary.ChainRepository
	msgRepo   secondary.MessageRepository
	store     secondary.AudioStore
}

// NewGameService creates a new GameService with injected dependencies.
func NewGameService(
	gameRepo secondary.GameRepository,
	chainRepo secondary.ChainRepository,
	msgRepo secondary.MessageRepository,
	store secondary.AudioStore,
) *GameServiceImpl {
	return &GameServiceImpl{
		gameRepo:  gameRepo,
		chainRepo: chainRepo,
		msgRepo:   msgRepo,
		store:     store,
	}
}

// CreateGame creates a new game with NumChains chains, each seeded with one
// empty message awaiting its first recording.
func (s *GameServiceImpl) CreateGame(ctx context.Context, req primary.CreateGameRequest) (*primary.CreateGameResponse, error) {
	if req.NumChains < 1 {
		return nil, fmt.Errorf("a game needs at least one chain, got %d", req.NumChains)
	}

	gameID, err := s.gameRepo.Create(ctx, &secondary.GameRecord{
		Name:       req.Name,
		ChainOrder: req.ChainOrder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	chainIDs := make([]int64, 0, req.NumChains)
	for i := 0; i < req.NumChains; i++ {
		chainID, err := s.chainRepo.Create(ctx, &secondary.ChainRecord{GameID: gameID})
		if err != nil {
			return nil, fmt.Errorf("failed to create chain: %w", err)
		}

		// Every chain starts with one empty seed slot
		_, err = s.msgRepo.Create(ctx, &secondary.MessageRecord{ChainID: chainID})
		if err != nil {
			return nil, fmt.Errorf("failed to seed chain %d: %w", chainID, err)
		}

		chainIDs = append(chainIDs, chainID)
	}

	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created game: %w", err)
	}

	return &primary.CreateGameResponse{
		GameID:   gameID,
		ChainIDs: chainIDs,
		Game:     game,
	}, nil
}

// GetGame retrieves a game by ID.
func (s *GameServiceImpl) GetGame(ctx context.Context, gameID int64) (*primary.Game, error) {
	record, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	numChains, err := s.gameRepo.CountChains(ctx, gameID)
	if err != nil {
		return nil, err
	}

	return s.recordToGame(record, numChains), nil
}

// ListGames lists visible games, newest first. Inactive games are hidden
// unless explicitly requested.
func (s *GameServiceImpl) ListGames(ctx context.Context, filters primary.GameFilters) ([]*primary.Game, error) {
	repoFilters := secondary.GameFilters{Status: primary.GameStatusActive}
	if filters.IncludeInactive {
		repoFilters.Status = ""
	}

	records, err := s.gameRepo.List(ctx, repoFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	games := make([]*primary.Game, len(records))
	for i, r := range records {
		numChains, err := s.gameRepo.CountChains(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		games[i] = s.recordToGame(r, numChains)
	}
	return games, nil
}

// SetGameStatus toggles a game between active and inactive.
func (s *GameServiceImpl) SetGameStatus(ctx context.Context, gameID int64, status string) error {
	if status != primary.GameStatusActive && status != primary.GameStatusInactive {
		return fmt.Errorf("invalid game status %q", status)
	}
	return s.gameRepo.UpdateStatus(ctx, gameID, status)
}

// ExportGame copies a game's recordings into DestDir. Export names encode
// the lineage: gen{generation}-{seed|parent<id>}-message{id}.wav.
func (s *GameServiceImpl) ExportGame(ctx context.Context, req primary.ExportGameRequest) (*primary.ExportGameResponse, error) {
	if _, err := s.gameRepo.GetByID(ctx, req.GameID); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(req.DestDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	chains, err := s.chainRepo.ListByGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, chain := range chains {
		messages, err := s.msgRepo.ListByChain(ctx, chain.ID)
		if err != nil {
			return nil, err
		}

		for _, msg := range messages {
			if msg.Audio == "" {
				continue
			}

			name := exportName(msg)
			if err := s.copyRecording(ctx, msg.Audio, filepath.Join(req.DestDir, name)); err != nil {
				return nil, fmt.Errorf("failed to export message %d: %w", msg.ID, err)
			}
			files = append(files, name)
		}
	}

	return &primary.ExportGameResponse{Files: files}, nil
}

func (s *GameServiceImpl) copyRecording(ctx context.Context, relPath, dest string) error {
	src, err := s.store.Open(ctx, relPath)
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// exportName builds the per-recording export filename.
func exportName(msg *secondary.MessageRecord) string {
	parent := "seed"
	if msg.ParentID != 0 {
		parent = fmt.Sprintf("parent%d", msg.ParentID)
	}
	return fmt.Sprintf("gen%d-%s-message%d.wav", msg.Generation, parent, msg.ID)
}

func (s *GameServiceImpl) recordToGame(r *secondary.GameRecord, numChains int) *primary.Game {
	return &primary.Game{
		ID:         r.ID,
		Name:       r.Name,
		ChainOrder: r.ChainOrder,
		Status:     r.Status,
		NumChains:  numChains,
		CreatedAt:  r.CreatedAt,
	}
}

// Ensure GameServiceImpl implements the interface
var _ primary.GameService = (*GameServiceImpl)(nil)
