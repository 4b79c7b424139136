package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/example/telephone/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockGameRepository implements secondary.GameRepository for testing.
type mockGameRepository struct {
	games     map[int64]*secondary.GameRecord
	chainRepo *mockChainRepository
	nextID    int64
	createErr error
}

func newMockGameRepository(chainRepo *mockChainRepository) *mockGameRepository {
	return &mockGameRepository{
		games:     make(map[int64]*secondary.GameRecord),
		chainRepo: chainRepo,
	}
}

func (m *mockGameRepository) Create(ctx context.Context, game *secondary.GameRecord) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.nextID++
	stored := *game
	stored.ID = m.nextID
	if stored.ChainOrder == "" {
		stored.ChainOrder = "sequential"
	}
	if stored.Status == "" {
		stored.Status = "active"
	}
	m.games[stored.ID] = &stored
	return stored.ID, nil
}

func (m *mockGameRepository) GetByID(ctx context.Context, id int64) (*secondary.GameRecord, error) {
	if game, ok := m.games[id]; ok {
		return game, nil
	}
	return nil, fmt.Errorf("game %d not found", id)
}

func (m *mockGameRepository) List(ctx context.Context, filters secondary.GameFilters) ([]*secondary.GameRecord, error) {
	var ids []int64
	for id, g := range m.games {
		if filters.Status != "" && g.Status != filters.Status {
			continue
		}
		ids = append(ids, id)
	}
	// Newest first
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	result := make([]*secondary.GameRecord, len(ids))
	for i, id := range ids {
		result[i] = m.games[id]
	}
	return result, nil
}

func (m *mockGameRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	game, ok := m.games[id]
	if !ok {
		return fmt.Errorf("game %d not found", id)
	}
	game.Status = status
	return nil
}

func (m *mockGameRepository) CountChains(ctx context.Context, gameID int64) (int, error) {
	count := 0
	for _, c := range m.chainRepo.chains {
		if c.GameID == gameID {
			count++
		}
	}
	return count, nil
}

// mockChainRepository implements secondary.ChainRepository for testing.
type mockChainRepository struct {
	chains       map[int64]*secondary.ChainRecord
	gameExists   bool
	nextID       int64
	createErr    error
	listByGameFn func(gameID int64) ([]*secondary.ChainRecord, error)
}

func newMockChainRepository() *mockChainRepository {
	return &mockChainRepository{
		chains:     make(map[int64]*secondary.ChainRecord),
		gameExists: true,
	}
}

func (m *mockChainRepository) Create(ctx context.Context, chain *secondary.ChainRecord) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.nextID++
	stored := *chain
	stored.ID = m.nextID
	if stored.SelectionMethod == "" {
		stored.SelectionMethod = "youngest"
	}
	m.chains[stored.ID] = &stored
	return stored.ID, nil
}

func (m *mockChainRepository) GetByID(ctx context.Context, id int64) (*secondary.ChainRecord, error) {
	if chain, ok := m.chains[id]; ok {
		return chain, nil
	}
	return nil, fmt.Errorf("chain %d not found", id)
}

func (m *mockChainRepository) ListByGame(ctx context.Context, gameID int64) ([]*secondary.ChainRecord, error) {
	if m.listByGameFn != nil {
		return m.listByGameFn(gameID)
	}
	var ids []int64
	for id, c := range m.chains {
		if c.GameID == gameID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make([]*secondary.ChainRecord, len(ids))
	for i, id := range ids {
		result[i] = m.chains[id]
	}
	return result, nil
}

func (m *mockChainRepository) GameExists(ctx context.Context, gameID int64) (bool, error) {
	return m.gameExists, nil
}

// mockMessageRepository implements secondary.MessageRepository for testing.
// It mirrors the SQLite adapter's invariants: one parent-less message per
// chain and a conditional, lose-able Fill.
type mockMessageRepository struct {
	messages map[int64]*secondary.MessageRecord
	nextID   int64
}

func newMockMessageRepository() *mockMessageRepository {
	return &mockMessageRepository{
		messages: make(map[int64]*secondary.MessageRecord),
	}
}

func (m *mockMessageRepository) Create(ctx context.Context, message *secondary.MessageRecord) (int64, error) {
	if message.ParentID == 0 {
		for _, existing := range m.messages {
			if existing.ChainID == message.ChainID && existing.ParentID == 0 {
				return 0, errors.New("chain already has a seed message")
			}
		}
	}
	m.nextID++
	stored := *message
	stored.ID = m.nextID
	m.messages[stored.ID] = &stored
	return stored.ID, nil
}

func (m *mockMessageRepository) GetByID(ctx context.Context, id int64) (*secondary.MessageRecord, error) {
	if msg, ok := m.messages[id]; ok {
		copied := *msg
		return &copied, nil
	}
	return nil, fmt.Errorf("message %d not found", id)
}

func (m *mockMessageRepository) ListByChain(ctx context.Context, chainID int64) ([]*secondary.MessageRecord, error) {
	var result []*secondary.MessageRecord
	for _, msg := range m.messages {
		if msg.ChainID == chainID {
			copied := *msg
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockMessageRepository) ListEmptyByChain(ctx context.Context, chainID int64) ([]*secondary.MessageRecord, error) {
	all, _ := m.ListByChain(ctx, chainID)
	var result []*secondary.MessageRecord
	for _, msg := range all {
		if msg.Audio == "" {
			result = append(result, msg)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Generation < result[j].Generation })
	return result, nil
}

func (m *mockMessageRepository) Fill(ctx context.Context, id int64, audioPath string) (bool, error) {
	msg, ok := m.messages[id]
	if !ok {
		return false, fmt.Errorf("message %d not found", id)
	}
	if msg.Audio != "" {
		return false, nil
	}
	msg.Audio = audioPath
	return true, nil
}

func (m *mockMessageRepository) CountChildren(ctx context.Context, id int64) (int, error) {
	count := 0
	for _, msg := range m.messages {
		if msg.ParentID == id {
			count++
		}
	}
	return count, nil
}

func (m *mockMessageRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.messages[id]; !ok {
		return fmt.Errorf("message %d not found", id)
	}
	delete(m.messages, id)
	return nil
}

// mockSessionRepository implements secondary.SessionRepository for testing.
type mockSessionRepository struct {
	sessions map[string]*secondary.SessionRecord
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{
		sessions: make(map[string]*secondary.SessionRecord),
	}
}

func (m *mockSessionRepository) Get(ctx context.Context, token string) (*secondary.SessionRecord, error) {
	if session, ok := m.sessions[token]; ok {
		copied := *session
		copied.Receipts = append([]int64(nil), session.Receipts...)
		copied.Messages = append([]int64(nil), session.Messages...)
		return &copied, nil
	}
	return nil, fmt.Errorf("session %s not found", token)
}

func (m *mockSessionRepository) Put(ctx context.Context, session *secondary.SessionRecord) error {
	copied := *session
	copied.Receipts = append([]int64(nil), session.Receipts...)
	copied.Messages = append([]int64(nil), session.Messages...)
	m.sessions[session.Token] = &copied
	return nil
}

func (m *mockSessionRepository) Delete(ctx context.Context, token string) error {
	if _, ok := m.sessions[token]; !ok {
		return fmt.Errorf("session %s not found", token)
	}
	delete(m.sessions, token)
	return nil
}

// mockAudioStore implements secondary.AudioStore in memory, including the
// collision deduplication of the filesystem adapter.
type mockAudioStore struct {
	files map[string][]byte
}

func newMockAudioStore() *mockAudioStore {
	return &mockAudioStore{files: make(map[string][]byte)}
}

func (m *mockAudioStore) Save(ctx context.Context, relPath string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	stored := relPath
	ext := ".wav"
	stem := strings.TrimSuffix(relPath, ext)
	for n := 1; ; n++ {
		if _, taken := m.files[stored]; !taken {
			break
		}
		stored = fmt.Sprintf("%s-%d%s", stem, n, ext)
	}

	m.files[stored] = data
	return stored, nil
}

func (m *mockAudioStore) Open(ctx context.Context, relPath string) (io.ReadCloser, error) {
	data, ok := m.files[relPath]
	if !ok {
		return nil, fmt.Errorf("audio %s not found", relPath)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockAudioStore) Remove(ctx context.Context, relPath string) error {
	delete(m.files, relPath)
	return nil
}

// Ensure mocks implement the interfaces
var (
	_ secondary.GameRepository    = (*mockGameRepository)(nil)
	_ secondary.ChainRepository   = (*mockChainRepository)(nil)
	_ secondary.MessageRepository = (*mockMessageRepository)(nil)
	_ secondary.SessionRepository = (*mockSessionRepository)(nil)
	_ secondary.AudioStore        = (*mockAudioStore)(nil)
)
