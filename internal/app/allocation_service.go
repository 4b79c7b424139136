package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/example/telephone/internal/core/allocation"
	"github.com/example/telephone/internal/ports/primary"
	"github.com/example/telephone/internal/ports/secondary"
)

// maxSubmitAttempts bounds the fork-on-conflict loop in Submit. Each lost
// race redirects the recording to a freshly created empty sibling, so more
// than a couple of iterations means something other than player contention
// is wrong.
const maxSubmitAttempts = 3

// AllocationServiceImpl implements the AllocationService interface: the
// protocol that decides, for any player at any moment, which unfinished
// slot in which chain they should fill next.
type AllocationServiceImpl struct {
	gameRepo    secondary.GameRepository
	chainRepo   secondary.ChainRepository
	msgRepo     secondary.MessageRepository
	sessionRepo secondary.SessionRepository
	store       secondary.AudioStore
	rng         *rand.Rand
}

// NewAllocationService creates a new AllocationService with injected dependencies.
func NewAllocationService(
	gameRepo secondary.GameRepository,
	chainRepo secondary.ChainRepository,
	msgRepo secondary.MessageRepository,
	sessionRepo secondary.SessionRepository,
	store secondary.AudioStore,
) *AllocationServiceImpl {
	return &AllocationServiceImpl{
		gameRepo:    gameRepo,
		chainRepo:   chainRepo,
		msgRepo:     msgRepo,
		sessionRepo: sessionRepo,
		store:       store,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// StartSession opens a session against a game. New sessions start
// uninstructed and hold no receipts.
func (s *AllocationServiceImpl) StartSession(ctx context.Context, gameID int64) (*primary.Session, error) {
	if _, err := s.gameRepo.GetByID(ctx, gameID); err != nil {
		return nil, err
	}

	record := &secondary.SessionRecord{
		Token:  uuid.NewString(),
		GameID: gameID,
	}
	if err := s.sessionRepo.Put(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.recordToSession(record), nil
}

// Accept records that the player has read the instructions, moving the
// session into the playing state.
func (s *AllocationServiceImpl) Accept(ctx context.Context, token string) error {
	session, err := s.sessionRepo.Get(ctx, token)
	if err != nil {
		return err
	}

	session.Instructed = true
	if err := s.sessionRepo.Put(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

// NextTask returns the slot the player should record into, or the
// completion state once every chain carries their receipt.
func (s *AllocationServiceImpl) NextTask(ctx context.Context, token string) (*primary.TaskResponse, error) {
	session, err := s.sessionRepo.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if !session.Instructed {
		return &primary.TaskResponse{State: primary.StateUninstructed}, nil
	}

	return s.allocate(ctx, session)
}

// Submit records audio into a slot, grows the chain, updates the player's
// receipts, and returns their next task.
//
// If the slot was filled by another player between allocation and submit,
// the recording is redirected to a new empty sibling branched from the
// slot's parent. A submission is never rejected because of a lost race;
// the cost is an extra branch in the tree.
func (s *AllocationServiceImpl) Submit(ctx context.Context, req primary.SubmitRequest) (*primary.TaskResponse, error) {
	session, err := s.sessionRepo.Get(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	if !session.Instructed {
		return nil, fmt.Errorf("session %s has not accepted the instructions", req.Token)
	}

	if req.Audio == nil {
		return nil, fmt.Errorf("no audio attached to submission")
	}
	data, err := io.ReadAll(req.Audio)
	if err != nil {
		return nil, fmt.Errorf("failed to read submitted audio: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no audio attached to submission")
	}

	winner, err := s.fillWithRedirect(ctx, req.MessageID, data)
	if err != nil {
		return nil, err
	}

	// Keep the chain growable: the slot just filled gets an empty child
	if _, err := replicateMessage(ctx, s.msgRepo, winner); err != nil {
		return nil, err
	}

	session.Receipts = append(session.Receipts, winner.ChainID)
	session.Messages = append(session.Messages, winner.ID)
	if err := s.sessionRepo.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	return s.allocate(ctx, session)
}

// Clear forgets the player's progress, returning the session to the
// uninstructed state. The message tree is untouched: a second pass through
// the game will meet different, now-filled audio.
func (s *AllocationServiceImpl) Clear(ctx context.Context, token string) error {
	session, err := s.sessionRepo.Get(ctx, token)
	if err != nil {
		return err
	}

	session.Instructed = false
	session.Receipts = nil
	session.Messages = nil
	if err := s.sessionRepo.Put(ctx, session); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	return nil
}

// GetSession retrieves the current session state.
func (s *AllocationServiceImpl) GetSession(ctx context.Context, token string) (*primary.Session, error) {
	record, err := s.sessionRepo.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.recordToSession(record), nil
}

// allocate runs one pass of the pick-chain/pick-slot cycle for a playing
// session. Chains drained of empty slots between pick and select are
// excluded transiently and the pick retried; exhaustion degrades to the
// complete state, never to an error.
func (s *AllocationServiceImpl) allocate(ctx context.Context, session *secondary.SessionRecord) (*primary.TaskResponse, error) {
	game, err := s.gameRepo.GetByID(ctx, session.GameID)
	if err != nil {
		return nil, err
	}

	chains, err := s.chainRepo.ListByGame(ctx, session.GameID)
	if err != nil {
		return nil, err
	}

	chainIDs := make([]int64, len(chains))
	methods := make(map[int64]string, len(chains))
	for i, chain := range chains {
		chainIDs[i] = chain.ID
		methods[chain.ID] = chain.SelectionMethod
	}

	excluded := make(map[int64]bool, len(session.Receipts))
	for _, id := range session.Receipts {
		excluded[id] = true
	}

	for {
		chainID, err := allocation.PickNextChain(chainIDs, excluded, game.ChainOrder, s.rng)
		if errors.Is(err, allocation.ErrNoChains) || errors.Is(err, allocation.ErrAllChainsVisited) {
			return s.complete(session), nil
		}
		if err != nil {
			return nil, err
		}

		empties, err := s.msgRepo.ListEmptyByChain(ctx, chainID)
		if err != nil {
			return nil, err
		}
		slots := make([]allocation.Slot, len(empties))
		for i, msg := range empties {
			slots[i] = allocation.Slot{ID: msg.ID, Generation: msg.Generation}
		}

		messageID, err := allocation.SelectEmptyMessage(slots, methods[chainID], s.rng)
		if errors.Is(err, allocation.ErrNoEmptyMessage) {
			// Chain fully consumed between pick and select; retry without it
			excluded[chainID] = true
			continue
		}
		if err != nil {
			return nil, err
		}

		return s.taskFor(ctx, chainID, messageID, empties)
	}
}

// taskFor assembles the playing response for an allocated slot, attaching
// the parent's recording as the imitation prompt when one exists.
func (s *AllocationServiceImpl) taskFor(ctx context.Context, chainID, messageID int64, empties []*secondary.MessageRecord) (*primary.TaskResponse, error) {
	var msg *secondary.MessageRecord
	for _, candidate := range empties {
		if candidate.ID == messageID {
			msg = candidate
			break
		}
	}
	if msg == nil {
		return nil, fmt.Errorf("allocated message %d not found in chain %d", messageID, chainID)
	}

	task := &primary.Task{
		MessageID:  msg.ID,
		ChainID:    chainID,
		Generation: msg.Generation,
	}
	if msg.ParentID != 0 {
		parent, err := s.msgRepo.GetByID(ctx, msg.ParentID)
		if err != nil {
			return nil, err
		}
		task.PromptAudio = parent.Audio
	}

	return &primary.TaskResponse{State: primary.StatePlaying, Task: task}, nil
}

// fillWithRedirect claims a slot for the submitted recording. A slot found
// filled forks a new empty sibling from its parent (or, for a contested
// seed, a child of the seed itself) and the claim moves there.
func (s *AllocationServiceImpl) fillWithRedirect(ctx context.Context, messageID int64, data []byte) (*secondary.MessageRecord, error) {
	targetID := messageID

	for attempt := 0; attempt < maxSubmitAttempts; attempt++ {
		msg, err := s.msgRepo.GetByID(ctx, targetID)
		if err != nil {
			return nil, err
		}

		if msg.Audio != "" {
			targetID, err = s.forkFrom(ctx, msg)
			if err != nil {
				return nil, err
			}
			continue
		}

		chain, err := s.chainRepo.GetByID(ctx, msg.ChainID)
		if err != nil {
			return nil, err
		}

		stored, err := s.store.Save(ctx, audioPathFor(chain.GameID, chain.ID, msg.Generation), bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to store recording: %w", err)
		}

		filled, err := s.msgRepo.Fill(ctx, msg.ID, stored)
		if err != nil {
			return nil, err
		}
		if !filled {
			// Lost the slot between fetch and fill; drop the orphaned
			// file and fork on the next iteration
			s.store.Remove(ctx, stored)
			continue
		}

		msg.Audio = stored
		return msg, nil
	}

	return nil, fmt.Errorf("could not claim a slot for message %d after %d attempts", messageID, maxSubmitAttempts)
}

// forkFrom creates the empty sibling that receives a redirected recording.
func (s *AllocationServiceImpl) forkFrom(ctx context.Context, conflicted *secondary.MessageRecord) (int64, error) {
	base := conflicted
	if conflicted.ParentID != 0 {
		parent, err := s.msgRepo.GetByID(ctx, conflicted.ParentID)
		if err != nil {
			return 0, err
		}
		base = parent
	}
	return replicateMessage(ctx, s.msgRepo, base)
}

func (s *AllocationServiceImpl) complete(session *secondary.SessionRecord) *primary.TaskResponse {
	return &primary.TaskResponse{
		State:          primary.StateComplete,
		CompletionCode: completionCode(session.GameID, session.Messages),
	}
}

func (s *AllocationServiceImpl) recordToSession(r *secondary.SessionRecord) *primary.Session {
	state := primary.StateUninstructed
	if r.Instructed {
		state = primary.StatePlaying
	}
	return &primary.Session{
		Token:      r.Token,
		GameID:     r.GameID,
		State:      state,
		Receipts:   r.Receipts,
		Messages:   r.Messages,
		Instructed: r.Instructed,
	}
}

// Ensure AllocationServiceImpl implements the interface
var _ primary.AllocationService = (*AllocationServiceImpl)(nil)
