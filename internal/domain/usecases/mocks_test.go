package usecases

import (
	"context"
	"errors"
	"sync"

	"github.com/tiendabot/salesrag-go/internal/domain/entities"
)

// mockEmbedder implements ports.EmbeddingGateway. By default every text
// embeds to the same unit vector so ingested chunks always match later
// questions; tests override vectors for threshold scenarios.
type mockEmbedder struct {
	calls   [][]string
	vectors map[string][]float32
	fail    bool
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.fail {
		return nil, errors.New("embedding service unavailable")
	}
	m.calls = append(m.calls, texts)
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := m.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = []float32{1, 0}
		}
	}
	return out, nil
}

// mockCompleter implements ports.CompletionGateway.
type mockCompleter struct {
	prompts []string
	answer  string
	fail    bool
}

func (m *mockCompleter) Complete(_ context.Context, prompt string) (string, error) {
	if m.fail {
		return "", errors.New("completion service unavailable")
	}
	m.prompts = append(m.prompts, prompt)
	if m.answer != "" {
		return m.answer, nil
	}
	return "respuesta de prueba", nil
}

// mockVectorStore implements ports.VectorStore.
type mockVectorStore struct {
	records []entities.ChunkRecord
	failAdd bool
}

func (m *mockVectorStore) Add(_ context.Context, records []entities.ChunkRecord) error {
	if m.failAdd {
		return errors.New("store unavailable")
	}
	m.records = append(m.records, records...)
	return nil
}

func (m *mockVectorStore) GetAll(_ context.Context) ([]entities.ChunkRecord, error) {
	return m.records, nil
}

func (m *mockVectorStore) Count(_ context.Context) (int, error) {
	return len(m.records), nil
}

// mockRegistry implements ports.ProductRegistry.
type mockRegistry struct {
	mu    sync.Mutex
	codes map[string]struct{}
}

func newMockRegistry() *mockRegistry {
	return &mockRegistry{codes: make(map[string]struct{})}
}

func (m *mockRegistry) Reserve(_ context.Context, products []entities.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]struct{})
	for _, p := range products {
		if _, ok := m.codes[p.Code]; ok {
			return &entities.DuplicateCodeError{Code: p.Code}
		}
		if _, ok := seen[p.Code]; ok {
			return &entities.DuplicateCodeError{Code: p.Code}
		}
		seen[p.Code] = struct{}{}
	}
	for _, p := range products {
		m.codes[p.Code] = struct{}{}
	}
	return nil
}

func (m *mockRegistry) Release(_ context.Context, codes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, code := range codes {
		delete(m.codes, code)
	}
	return nil
}

func (m *mockRegistry) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.codes), nil
}

// mockHistory implements ports.HistoryStore.
type mockHistory struct {
	turns map[string][]entities.ConversationTurn
}

func newMockHistory() *mockHistory {
	return &mockHistory{turns: make(map[string][]entities.ConversationTurn)}
}

func (m *mockHistory) Append(_ context.Context, phone string, role entities.Role, content string) error {
	m.turns[phone] = append(m.turns[phone], entities.ConversationTurn{Role: role, Content: content})
	return nil
}

func (m *mockHistory) Recent(_ context.Context, phone string, limit int) ([]entities.ConversationTurn, error) {
	all := m.turns[phone]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}
