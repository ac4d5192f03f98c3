package usecases

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tiendabot/salesrag-go/internal/domain/entities"
)

const testPolicy = "Sos un vendedor experto de un ecommerce."

func newAskUC(embedder *mockEmbedder, completer *mockCompleter, store *mockVectorStore, hist *mockHistory) *AskUseCase {
	return NewAskUseCase(embedder, completer, store, hist, testPolicy, 0.5, 10, nil)
}

func TestAsk_FallbackWhenNoChunksStored(t *testing.T) {
	completer := &mockCompleter{}
	hist := newMockHistory()
	uc := newAskUC(&mockEmbedder{}, completer, &mockVectorStore{}, hist)

	answer, err := uc.Ask(context.Background(), "351555", "Carlos Gomez", "¿Tienen heladeras?")

	require.NoError(t, err)
	require.Contains(t, answer, "Carlos Gomez")
	require.Contains(t, answer, "no tenemos el producto")
	require.Empty(t, completer.prompts, "no completion call may happen on the fallback path")

	turns := hist.turns["351555"]
	require.Len(t, turns, 2)
	require.Equal(t, entities.RoleCustomer, turns[0].Role)
	require.Equal(t, "¿Tienen heladeras?", turns[0].Content)
	require.Equal(t, entities.RoleAssistant, turns[1].Role)
	require.Equal(t, answer, turns[1].Content)
}

func TestAsk_FallbackWhenNothingMeetsThreshold(t *testing.T) {
	embedder := &mockEmbedder{vectors: map[string][]float32{
		"¿Tienen notebooks?": {1, 0},
	}}
	completer := &mockCompleter{}
	store := &mockVectorStore{records: []entities.ChunkRecord{
		{ID: "A1_0", ProductCode: "A1", Text: "Heladera", Embedding: []float32{0, 1}},
	}}
	uc := newAskUC(embedder, completer, store, newMockHistory())

	answer, err := uc.Ask(context.Background(), "351555", "Ana", "¿Tienen notebooks?")

	require.NoError(t, err)
	require.Contains(t, answer, "Ana")
	require.Empty(t, completer.prompts)
}

func TestAsk_MatchingChunksReachThePrompt(t *testing.T) {
	embedder := &mockEmbedder{vectors: map[string][]float32{
		"¿Qué heladeras tienen?": {1, 0},
	}}
	completer := &mockCompleter{answer: "Tenemos una Heladera No Frost a $500000."}
	store := &mockVectorStore{records: []entities.ChunkRecord{
		{ID: "A1_0", ProductCode: "A1", Text: "Codigo: A1\nDescripcion: Heladera\nPrecio: 500000", Embedding: []float32{1, 0}},
		{ID: "B2_0", ProductCode: "B2", Text: "Codigo: B2\nDescripcion: Notebook", Embedding: []float32{0, 1}},
	}}
	hist := newMockHistory()
	uc := newAskUC(embedder, completer, store, hist)

	answer, err := uc.Ask(context.Background(), "351555", "Ana", "¿Qué heladeras tienen?")

	require.NoError(t, err)
	require.Equal(t, "Tenemos una Heladera No Frost a $500000.", answer)
	require.Len(t, completer.prompts, 1)

	prompt := completer.prompts[0]
	require.Contains(t, prompt, testPolicy)
	require.Contains(t, prompt, "- Codigo: A1 Descripcion: Heladera Precio: 500000")
	require.NotContains(t, prompt, "Notebook", "chunks below the threshold must not leak into context")
	require.Contains(t, prompt, "Mensaje actual del cliente:\n¿Qué heladeras tienen?")
	require.Contains(t, prompt, "Respuesta del vendedor")

	turns := hist.turns["351555"]
	require.Len(t, turns, 2)
	require.Equal(t, answer, turns[1].Content)
}

func TestAsk_HistoryIsWindowedAndRendered(t *testing.T) {
	embedder := &mockEmbedder{}
	completer := &mockCompleter{}
	store := &mockVectorStore{records: []entities.ChunkRecord{
		{ID: "A1_0", ProductCode: "A1", Text: "Heladera", Embedding: []float32{1, 0}},
	}}
	hist := newMockHistory()
	uc := newAskUC(embedder, completer, store, hist)

	ctx := context.Background()
	for i := 0; i < 6; i++ {
		require.NoError(t, hist.Append(ctx, "351555", entities.RoleCustomer, fmt.Sprintf("pregunta %d", i)))
		require.NoError(t, hist.Append(ctx, "351555", entities.RoleAssistant, fmt.Sprintf("respuesta %d", i)))
	}

	_, err := uc.Ask(ctx, "351555", "Ana", "¿Y el precio?")
	require.NoError(t, err)

	prompt := completer.prompts[0]
	// Window of 10 over 12 turns: the first two fall out.
	require.NotContains(t, prompt, "pregunta 0")
	require.NotContains(t, prompt, "respuesta 0")
	require.Contains(t, prompt, "Cliente: pregunta 1")
	require.Contains(t, prompt, "Vendedor: respuesta 5")
}

func TestAsk_ModelOutputIsCleaned(t *testing.T) {
	embedder := &mockEmbedder{}
	completer := &mockCompleter{answer: "Tenemos  heladeras.\nConsulte\\nprecios. "}
	store := &mockVectorStore{records: []entities.ChunkRecord{
		{ID: "A1_0", ProductCode: "A1", Text: "Heladera", Embedding: []float32{1, 0}},
	}}
	uc := newAskUC(embedder, completer, store, newMockHistory())

	answer, err := uc.Ask(context.Background(), "351555", "Ana", "¿Tienen heladeras?")

	require.NoError(t, err)
	require.Equal(t, "Tenemos heladeras. Consulte precios.", answer)
}

func TestAsk_EmbeddingFailure(t *testing.T) {
	uc := newAskUC(&mockEmbedder{fail: true}, &mockCompleter{}, &mockVectorStore{}, newMockHistory())

	_, err := uc.Ask(context.Background(), "351555", "Ana", "¿Tienen heladeras?")

	var gateway *entities.GatewayError
	require.ErrorAs(t, err, &gateway)
	require.Equal(t, "embed", gateway.Op)
}

func TestAsk_CompletionFailureLeavesHistoryUntouched(t *testing.T) {
	embedder := &mockEmbedder{}
	store := &mockVectorStore{records: []entities.ChunkRecord{
		{ID: "A1_0", ProductCode: "A1", Text: "Heladera", Embedding: []float32{1, 0}},
	}}
	hist := newMockHistory()
	uc := newAskUC(embedder, &mockCompleter{fail: true}, store, hist)

	_, err := uc.Ask(context.Background(), "351555", "Ana", "¿Tienen heladeras?")

	var gateway *entities.GatewayError
	require.ErrorAs(t, err, &gateway)
	require.Equal(t, "complete", gateway.Op)
	require.Empty(t, hist.turns["351555"])
}

func TestAsk_ZeroThresholdIsRespected(t *testing.T) {
	embedder := &mockEmbedder{vectors: map[string][]float32{
		"consulta": {1, 0},
	}}
	completer := &mockCompleter{}
	store := &mockVectorStore{records: []entities.ChunkRecord{
		{ID: "A1_0", ProductCode: "A1", Text: "Heladera", Embedding: []float32{0, 1}},
	}}
	uc := NewAskUseCase(embedder, completer, store, newMockHistory(), testPolicy, 0, 10, nil)

	// Threshold 0 keeps the orthogonal chunk instead of silently
	// falling back to the 0.5 default.
	_, err := uc.Ask(context.Background(), "351555", "Ana", "consulta")

	require.NoError(t, err)
	require.Len(t, completer.prompts, 1)
	require.Contains(t, completer.prompts[0], "- Heladera")
}

func TestAsk_ScoreAtThresholdIncluded(t *testing.T) {
	embedder := &mockEmbedder{vectors: map[string][]float32{
		"consulta": {1, 0},
	}}
	completer := &mockCompleter{}
	// cosine ≈ 0.497, rounded to 0.50: inclusive threshold keeps it.
	store := &mockVectorStore{records: []entities.ChunkRecord{
		{ID: "A1_0", ProductCode: "A1", Text: "Heladera", Embedding: []float32{0.497, 0.8677}},
	}}
	uc := newAskUC(embedder, completer, store, newMockHistory())

	_, err := uc.Ask(context.Background(), "351555", "Ana", "consulta")

	require.NoError(t, err)
	require.Len(t, completer.prompts, 1)
}
