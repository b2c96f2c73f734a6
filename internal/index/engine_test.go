package index

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/westeros-labs/lawsearch/internal/docs"
)

// stubEmbedder returns fixed vectors keyed by a substring of the input text.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (s *stubEmbedder) CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	if s.err != nil {
		return openai.EmbeddingResponse{}, s.err
	}

	inputs := conv.Convert().Input.([]string)
	resp := openai.EmbeddingResponse{}
	for _, input := range inputs {
		vector := []float32{0, 0, 1}
		for key, v := range s.vectors {
			if strings.Contains(input, key) {
				vector = v
				break
			}
		}
		resp.Data = append(resp.Data, openai.Embedding{Embedding: vector})
	}
	return resp, nil
}

type stubCompleter struct {
	answer     string
	err        error
	lastPrompt string
}

func (s *stubCompleter) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	s.lastPrompt = request.Messages[len(request.Messages)-1].Content
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.answer}},
		},
	}, nil
}

var testSections = []docs.Section{
	{LawID: "1", LawName: "Guest Right", Label: "Law 1 - Guest Right", Text: "A guest is protected."},
	{LawID: "2", LawName: "The Watch", Label: "Law 2 - The Watch", Text: "Desertion is punished by death."},
	{LawID: "3", LawName: "Coinage", Label: "Law 3 - Coinage", Text: "Debasing coin is treason."},
}

func newLoadedEngine(t *testing.T, embedder Embedder, completer Completer) *Engine {
	t.Helper()
	engine := NewEngine(embedder, completer, "gpt-4", 2, logrus.New())
	require.NoError(t, engine.Load(context.Background(), testSections))
	return engine
}

func TestEngine_NotReadyBeforeLoad(t *testing.T) {
	engine := NewEngine(&stubEmbedder{}, &stubCompleter{}, "gpt-4", 2, logrus.New())

	assert.False(t, engine.Ready())

	_, err := engine.Query(context.Background(), "q")
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestEngine_QueryRetrievesClosestSections(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"Guest Right": {1, 0, 0},
		"The Watch":   {0, 1, 0},
		"Coinage":     {0.1, 0.1, 0.9},
		"desertion":   {0.1, 0.9, 0}, // the query, closest to The Watch
	}}
	completer := &stubCompleter{answer: "Deserters are executed [Source 1]."}

	engine := newLoadedEngine(t, embedder, completer)
	assert.True(t, engine.Ready())

	output, err := engine.Query(context.Background(), "what happens to desertion?")
	require.NoError(t, err)

	assert.Equal(t, "what happens to desertion?", output.Query)
	assert.Equal(t, "Deserters are executed [Source 1].", output.Response)

	require.Len(t, output.Citations, 2)
	assert.Equal(t, "Law 2 - The Watch", output.Citations[0].Source)
	assert.Equal(t, "Desertion is punished by death.", output.Citations[0].Text)

	// prompt numbers the retrieved sections in rank order
	assert.Contains(t, completer.lastPrompt, "Source 1 (Law 2 - The Watch):")
	assert.Contains(t, completer.lastPrompt, "Question: what happens to desertion?")
}

func TestEngine_TopKBoundedBySectionCount(t *testing.T) {
	engine := NewEngine(&stubEmbedder{}, &stubCompleter{answer: "a"}, "gpt-4", 10, logrus.New())
	require.NoError(t, engine.Load(context.Background(), testSections))

	output, err := engine.Query(context.Background(), "anything")
	require.NoError(t, err)
	assert.Len(t, output.Citations, 3)
}

func TestEngine_LoadFailures(t *testing.T) {
	engine := NewEngine(&stubEmbedder{err: errors.New("quota exceeded")}, &stubCompleter{}, "gpt-4", 2, logrus.New())

	err := engine.Load(context.Background(), testSections)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to embed sections")
	assert.False(t, engine.Ready())

	err = NewEngine(&stubEmbedder{}, &stubCompleter{}, "gpt-4", 2, logrus.New()).
		Load(context.Background(), nil)
	assert.Error(t, err)
}

func TestEngine_QueryPropagatesCompletionError(t *testing.T) {
	engine := newLoadedEngine(t, &stubEmbedder{}, &stubCompleter{err: errors.New("model overloaded")})

	_, err := engine.Query(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate answer")
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, cosineSimilarity(nil, nil))
}
