package app

import (
	"context"
	"fmt"
	"io"

	"github.com/example/telephone/internal/core/allocation"
	coremessage "github.com/example/telephone/internal/core/message"
	"github.com/example/telephone/internal/ports/primary"
	"github.com/example/telephone/internal/ports/secondary"
)

// ChainServiceImpl implements the ChainService interface.
type ChainServiceImpl struct {
	chainRepo secondary.ChainRepository
	msgRepo   secondary.MessageRepository
	store     secondary.AudioStore
}

// NewChainService creates a new ChainService with injected dependencies.
func NewChainService(
	chainRepo secondary.ChainRepository,
	msgRepo secondary.MessageRepository,
	store secondary.AudioStore,
) *ChainServiceImpl {
	return &ChainServiceImpl{
		chainRepo: chainRepo,
		msgRepo:   msgRepo,
		store:     store,
	}
}

// AddChain creates an additional chain in a game, seeded with one empty message.
func (s *ChainServiceImpl) AddChain(ctx context.Context, gameID int64) (*primary.CreateChainResponse, error) {
	exists, err := s.chainRepo.GameExists(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate game: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("game %d not found", gameID)
	}

	chainID, err := s.chainRepo.Create(ctx, &secondary.ChainRecord{GameID: gameID})
	if err != nil {
		return nil, fmt.Errorf("failed to create chain: %w", err)
	}

	seedID, err := s.msgRepo.Create(ctx, &secondary.MessageRecord{ChainID: chainID})
	if err != nil {
		return nil, fmt.Errorf("failed to seed chain %d: %w", chainID, err)
	}

	return &primary.CreateChainResponse{ChainID: chainID, SeedID: seedID}, nil
}

// Nest produces the serializable tree view of a chain: the seed message
// with recursively nested children, plus depth and width summary stats.
// The tree is assembled iteratively so arbitrarily deep chains cannot
// exhaust the stack.
func (s *ChainServiceImpl) Nest(ctx context.Context, chainID int64) (*primary.ChainTree, error) {
	if _, err := s.chainRepo.GetByID(ctx, chainID); err != nil {
		return nil, err
	}

	messages, err := s.msgRepo.ListByChain(ctx, chainID)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("chain %d has no messages", chainID)
	}

	nodes := make(map[int64]*primary.MessageNode, len(messages))
	childCount := make(map[int64]int, len(messages))
	for _, msg := range messages {
		childCount[msg.ParentID]++
	}

	var root *primary.MessageNode
	perGeneration := make(map[int]int)
	maxGeneration := 0

	// messages arrive in insertion order, so every parent precedes its
	// children and a single pass links the whole tree
	for _, msg := range messages {
		node := &primary.MessageNode{
			ID:         msg.ID,
			Generation: msg.Generation,
			CanSprout:  msg.Audio != "",
			CanClose:   msg.Audio == "" && childCount[msg.ID] == 0,
			CanUpload:  msg.Audio == "",
		}
		if msg.Audio != "" {
			audio := msg.Audio
			node.Audio = &audio
		}
		nodes[msg.ID] = node

		if msg.ParentID == 0 {
			root = node
		} else if parent, ok := nodes[msg.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		}

		perGeneration[msg.Generation]++
		if msg.Generation > maxGeneration {
			maxGeneration = msg.Generation
		}
	}

	if root == nil {
		return nil, fmt.Errorf("chain %d has no seed message", chainID)
	}

	branches := 0
	for _, count := range perGeneration {
		if count > branches {
			branches = count
		}
	}

	return &primary.ChainTree{
		ChainID:     chainID,
		Generations: maxGeneration + 1,
		Branches:    branches,
		Messages:    root,
	}, nil
}

// Sprout grows an additional empty child under a filled message, forking a
// second branch of the conversation.
func (s *ChainServiceImpl) Sprout(ctx context.Context, messageID int64) (int64, error) {
	msg, err := s.msgRepo.GetByID(ctx, messageID)
	if err != nil {
		return 0, err
	}

	result := coremessage.CanSprout(coremessage.SproutContext{
		MessageID: msg.ID,
		HasAudio:  msg.Audio != "",
	})
	if !result.Allowed {
		return 0, fmt.Errorf("%s", result.Reason)
	}

	return replicateMessage(ctx, s.msgRepo, msg)
}

// Close prunes an empty leaf message from its chain. Messages with audio
// or children are protected; the tree is left unchanged on refusal.
func (s *ChainServiceImpl) Close(ctx context.Context, messageID int64) error {
	msg, err := s.msgRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}

	children, err := s.msgRepo.CountChildren(ctx, messageID)
	if err != nil {
		return err
	}

	result := coremessage.CanPrune(coremessage.PruneContext{
		MessageID:   msg.ID,
		HasAudio:    msg.Audio != "",
		HasChildren: children > 0,
	})
	if !result.Allowed {
		return fmt.Errorf("%s: %w", result.Reason, allocation.ErrNotPrunable)
	}

	return s.msgRepo.Delete(ctx, messageID)
}

// SeedChain records starting audio into a chain's empty seed slot and
// spawns the first response slot, so the experiment begins from a known
// prompt.
func (s *ChainServiceImpl) SeedChain(ctx context.Context, chainID int64, audio io.Reader) error {
	chain, err := s.chainRepo.GetByID(ctx, chainID)
	if err != nil {
		return err
	}

	messages, err := s.msgRepo.ListByChain(ctx, chainID)
	if err != nil {
		return err
	}

	var seed *secondary.MessageRecord
	for _, msg := range messages {
		if msg.ParentID == 0 {
			seed = msg
			break
		}
	}
	if seed == nil {
		return fmt.Errorf("chain %d has no seed message", chainID)
	}
	if seed.Audio != "" {
		return fmt.Errorf("chain %d is already seeded: %w", chainID, allocation.ErrAlreadyFilled)
	}

	stored, err := s.store.Save(ctx, audioPathFor(chain.GameID, chainID, seed.Generation), audio)
	if err != nil {
		return fmt.Errorf("failed to store seed audio: %w", err)
	}

	filled, err := s.msgRepo.Fill(ctx, seed.ID, stored)
	if err != nil {
		return err
	}
	if !filled {
		s.store.Remove(ctx, stored)
		return fmt.Errorf("chain %d is already seeded: %w", chainID, allocation.ErrAlreadyFilled)
	}

	seed.Audio = stored
	if _, err := replicateMessage(ctx, s.msgRepo, seed); err != nil {
		return err
	}
	return nil
}

// Ensure ChainServiceImpl implements the interface
var _ primary.ChainService = (*ChainServiceImpl)(nil)
