// Package index holds the in-memory vector index over law sections and the
// citation engine that answers queries against it.
package index

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/westeros-labs/lawsearch/internal/docs"
	"github.com/westeros-labs/lawsearch/internal/models"
)

// ErrNotReady is returned while the index has not been loaded. The query
// handler maps it to the 503 "not ready" detail.
var ErrNotReady = errors.New("index not loaded")

// Embedder and Completer are the two slices of the OpenAI client the engine
// uses, split out so tests can stub them.
type Embedder interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

type Completer interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type entry struct {
	section docs.Section
	vector  []float32
}

type Engine struct {
	embedder  Embedder
	completer Completer
	logger    *logrus.Logger
	chatModel string
	topK      int

	mu      sync.RWMutex
	entries []entry
	ready   bool
}

func NewEngine(embedder Embedder, completer Completer, chatModel string, topK int, logger *logrus.Logger) *Engine {
	if topK <= 0 {
		topK = 3
	}
	return &Engine{
		embedder:  embedder,
		completer: completer,
		logger:    logger,
		chatModel: chatModel,
		topK:      topK,
	}
}

// Load embeds every section and swaps in the new index. Until the first
// successful Load the engine reports not ready and refuses queries.
func (e *Engine) Load(ctx context.Context, sections []docs.Section) error {
	if len(sections) == 0 {
		return fmt.Errorf("no sections to index")
	}

	texts := make([]string, len(sections))
	for i, section := range sections {
		texts[i] = section.Label + "\n" + section.Text
	}

	resp, err := e.embedder.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: openai.AdaEmbeddingV2,
	})
	if err != nil {
		return fmt.Errorf("failed to embed sections: %w", err)
	}
	if len(resp.Data) != len(sections) {
		return fmt.Errorf("embedding count mismatch: got %d for %d sections", len(resp.Data), len(sections))
	}

	entries := make([]entry, len(sections))
	for i, section := range sections {
		entries[i] = entry{section: section, vector: resp.Data[i].Embedding}
	}

	e.mu.Lock()
	e.entries = entries
	e.ready = true
	e.mu.Unlock()

	e.logger.WithField("sections", len(entries)).Info("Law index loaded")
	return nil
}

func (e *Engine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ready
}

// Query embeds the query, retrieves the top-k closest sections and asks the
// chat model for an answer grounded in them. The retrieved sections come back
// as the citations.
func (e *Engine) Query(ctx context.Context, query string) (*models.Output, error) {
	e.mu.RLock()
	ready := e.ready
	entries := e.entries
	e.mu.RUnlock()

	if !ready {
		return nil, ErrNotReady
	}

	resp, err := e.embedder.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{query},
		Model: openai.AdaEmbeddingV2,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}

	matches := rank(entries, resp.Data[0].Embedding, e.topK)

	completion, err := e.completer.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(matches, query)},
		},
		MaxTokens:   512,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	citations := make([]models.Citation, len(matches))
	for i, match := range matches {
		citations[i] = models.Citation{
			Source: match.section.Label,
			Text:   match.section.Text,
		}
	}

	e.logger.WithFields(logrus.Fields{
		"query":     query,
		"citations": len(citations),
	}).Debug("Query answered")

	return &models.Output{
		Query:     query,
		Response:  completion.Choices[0].Message.Content,
		Citations: citations,
	}, nil
}

const systemPrompt = "You are a legal assistant for the laws of Westeros. " +
	"Answer the question using only the numbered sources provided. " +
	"Cite sources inline as [Source N]. If the sources do not cover the " +
	"question, say so instead of guessing."

func buildPrompt(matches []entry, query string) string {
	var b strings.Builder
	b.WriteString("Sources:\n\n")
	for i, match := range matches {
		fmt.Fprintf(&b, "Source %d (%s):\n%s\n\n", i+1, match.section.Label, match.section.Text)
	}
	fmt.Fprintf(&b, "Question: %s", query)
	return b.String()
}

// rank returns the top-k entries by cosine similarity to the query vector.
func rank(entries []entry, queryVector []float32, k int) []entry {
	type scored struct {
		entry entry
		score float64
	}

	ranked := make([]scored, len(entries))
	for i, en := range entries {
		ranked[i] = scored{entry: en, score: cosineSimilarity(en.vector, queryVector)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if k > len(ranked) {
		k = len(ranked)
	}

	matches := make([]entry, k)
	for i := 0; i < k; i++ {
		matches[i] = ranked[i].entry
	}
	return matches
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
