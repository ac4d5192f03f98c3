package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tiendabot/salesrag-go/internal/domain/entities"
	"github.com/tiendabot/salesrag-go/internal/domain/ports"
	"github.com/tiendabot/salesrag-go/internal/similarity"
)

const (
	// DefaultSimilarityThreshold is the minimum cosine score for a chunk
	// to be included as context.
	DefaultSimilarityThreshold = 0.5
	// DefaultMaxHistory is the number of most recent turns supplied to
	// the model.
	DefaultMaxHistory = 10
)

// AskUseCase answers a customer question: it retrieves relevant product
// chunks, merges conversation history, and issues a single completion
// constrained by the sales policy prompt.
type AskUseCase struct {
	embedder  ports.EmbeddingGateway
	completer ports.CompletionGateway
	vectors   ports.VectorStore
	history   ports.HistoryStore
	policy    string
	threshold float64
	maxTurns  int
	logger    *slog.Logger
}

// NewAskUseCase creates an AskUseCase with injected dependencies.
// The policy text is the system prompt the completion is constrained by.
func NewAskUseCase(
	embedder ports.EmbeddingGateway,
	completer ports.CompletionGateway,
	vectors ports.VectorStore,
	history ports.HistoryStore,
	policy string,
	threshold float64,
	maxTurns int,
	logger *slog.Logger,
) *AskUseCase {
	// Zero is a valid threshold (keep non-negative scores); only an
	// out-of-range value falls back to the default.
	if threshold < -1 || threshold > 1 {
		threshold = DefaultSimilarityThreshold
	}
	if maxTurns <= 0 {
		maxTurns = DefaultMaxHistory
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AskUseCase{
		embedder:  embedder,
		completer: completer,
		vectors:   vectors,
		history:   history,
		policy:    policy,
		threshold: threshold,
		maxTurns:  maxTurns,
		logger:    logger,
	}
}

// Ask answers a customer question. If no stored chunk meets the
// similarity threshold it returns the fixed fallback message without
// calling the completion gateway. Both the question and the answer are
// appended to the phone's history on every path.
func (uc *AskUseCase) Ask(ctx context.Context, phone, customerName, question string) (string, error) {
	vectors, err := uc.embedder.EmbedBatch(ctx, []string{question})
	if err != nil {
		return "", &entities.GatewayError{Op: "embed", Err: err}
	}
	if len(vectors) != 1 {
		return "", &entities.GatewayError{
			Op:  "embed",
			Err: fmt.Errorf("expected 1 embedding, got %d", len(vectors)),
		}
	}
	questionVec := vectors[0]

	records, err := uc.vectors.GetAll(ctx)
	if err != nil {
		return "", fmt.Errorf("reading vector store: %w", err)
	}

	// Exhaustive scan; matched chunks keep store order.
	var contextChunks []string
	for _, record := range records {
		score := similarity.Cosine(questionVec, record.Embedding)
		if score >= uc.threshold {
			contextChunks = append(contextChunks, CleanText(record.Text))
		}
	}

	if len(contextChunks) == 0 {
		answer := fallbackMessage(customerName)
		if err := uc.remember(ctx, phone, question, answer); err != nil {
			return "", err
		}
		uc.logger.InfoContext(ctx, "no matching products, fallback issued", "phone", phone)
		return answer, nil
	}

	turns, err := uc.history.Recent(ctx, phone, uc.maxTurns)
	if err != nil {
		return "", fmt.Errorf("reading history: %w", err)
	}

	prompt := uc.buildPrompt(question, contextChunks, turns)
	answer, err := uc.completer.Complete(ctx, prompt)
	if err != nil {
		return "", &entities.GatewayError{Op: "complete", Err: err}
	}
	answer = CleanText(answer)

	if err := uc.remember(ctx, phone, question, answer); err != nil {
		return "", err
	}
	uc.logger.InfoContext(ctx, "question answered",
		"phone", phone,
		"matched_chunks", len(contextChunks),
		"history_turns", len(turns))
	return answer, nil
}

// fallbackMessage is the fixed reply when no chunk meets the threshold.
func fallbackMessage(customerName string) string {
	return CleanText(fmt.Sprintf(
		"Hola %s, somos tienda virtual, trabajamos por encargo directo de fábricas a su domicilio. "+
			"En este momento no tenemos el producto que está buscando. "+
			"Cuénteme un poco más así veo si puedo ayudarle.",
		customerName,
	))
}

// buildPrompt assembles the single completion prompt: policy text,
// rendered history, bulleted product context, and the cleaned question.
func (uc *AskUseCase) buildPrompt(question string, contextChunks []string, turns []entities.ConversationTurn) string {
	var sb strings.Builder
	sb.WriteString(uc.policy)

	sb.WriteString("\n\nHistorial reciente de la conversación:\n")
	for _, turn := range turns {
		if turn.Role == entities.RoleCustomer {
			sb.WriteString("Cliente: ")
		} else {
			sb.WriteString("Vendedor: ")
		}
		sb.WriteString(CleanText(turn.Content))
		sb.WriteString("\n")
	}

	sb.WriteString("\nProductos disponibles relevantes:\n")
	for _, chunk := range contextChunks {
		sb.WriteString("- ")
		sb.WriteString(chunk)
		sb.WriteString("\n")
	}

	sb.WriteString("\nMensaje actual del cliente:\n")
	sb.WriteString(CleanText(question))
	sb.WriteString("\n\nRespuesta del vendedor (natural, clara y estilo WhatsApp):")
	return sb.String()
}

func (uc *AskUseCase) remember(ctx context.Context, phone, question, answer string) error {
	if err := uc.history.Append(ctx, phone, entities.RoleCustomer, question); err != nil {
		return fmt.Errorf("recording question: %w", err)
	}
	if err := uc.history.Append(ctx, phone, entities.RoleAssistant, answer); err != nil {
		return fmt.Errorf("recording answer: %w", err)
	}
	return nil
}
