package biz_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/campus-chat/internal/chatbot/biz"
	"github.com/kart-io/campus-chat/internal/model"
	"github.com/kart-io/campus-chat/pkg/llm"
)

var testDocs = []model.Document{
	{
		ID:       0,
		Question: "What is SREC?",
		Answer:   "Sree Rama Engineering College",
		Text:     "Q: What is SREC?\nA: Sree Rama Engineering College",
	},
	{
		ID:       1,
		Question: "Where is the campus?",
		Answer:   "Tirupathi",
		Text:     "Q: Where is the campus?\nA: Tirupathi",
	},
}

func newTestRetriever(t *testing.T, build bool) *biz.Retriever {
	t.Helper()

	embedder := &fakeEmbedder{vectors: map[string][]float32{
		testDocs[0].Text: {1, 0, 0},
		testDocs[1].Text: {0, 1, 0},
		"What is SREC?":  {0.9, 0.1, 0},
		"campus":         {0.1, 0.9, 0},
	}}

	r := biz.NewRetriever(embedder, &biz.RetrieverConfig{TopK: 3})
	if build {
		require.NoError(t, r.BuildIndex(context.Background(), testDocs))
	}
	return r
}

func history() []model.Turn {
	return []model.Turn{
		{Role: model.RoleUser, Content: "earlier question"},
		{Role: model.RoleAssistant, Content: "earlier answer"},
	}
}

func TestComposeTimeQuestionDiscardsHistory(t *testing.T) {
	c := biz.NewComposer(newTestRetriever(t, true))

	msgs := c.Compose(context.Background(), "what time is it?", history())

	require.Len(t, msgs, 2)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "current time in IST")
	assert.Equal(t, llm.RoleUser, msgs[1].Role)
	assert.Equal(t, "what time is it?", msgs[1].Content)
}

func TestComposeCampusQuestionInjectsContext(t *testing.T) {
	c := biz.NewComposer(newTestRetriever(t, true))

	msgs := c.Compose(context.Background(), "What is SREC?", history())

	require.Len(t, msgs, 4)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, testDocs[0].Text)
	assert.Contains(t, msgs[0].Content, "ONLY the provided context")

	// History follows the system prompt, user message comes last
	assert.Equal(t, "earlier question", msgs[1].Content)
	assert.Equal(t, "earlier answer", msgs[2].Content)
	assert.Equal(t, llm.RoleUser, msgs[3].Role)
	assert.Equal(t, "What is SREC?", msgs[3].Content)
}

func TestComposeCampusQuestionRetrieverDisabled(t *testing.T) {
	c := biz.NewComposer(newTestRetriever(t, false))

	msgs := c.Compose(context.Background(), "What is SREC?", history())

	// No system prompt when retrieval is unavailable
	require.Len(t, msgs, 3)
	assert.Equal(t, llm.RoleUser, msgs[0].Role)
	assert.Equal(t, llm.RoleUser, msgs[2].Role)
}

func TestComposeDefaultBranch(t *testing.T) {
	c := biz.NewComposer(newTestRetriever(t, true))

	msgs := c.Compose(context.Background(), "tell me a joke", history())

	require.Len(t, msgs, 3)
	for _, m := range msgs {
		assert.NotEqual(t, llm.RoleSystem, m.Role)
	}
	assert.Equal(t, "tell me a joke", msgs[2].Content)
}

func TestRetrieverContextSeparator(t *testing.T) {
	r := newTestRetriever(t, true)

	result := r.Retrieve(context.Background(), "campus")
	require.NotNil(t, result)
	require.Len(t, result.Sources, 2)

	// Closest document first
	assert.Equal(t, 1, result.Sources[0].ID)
	assert.True(t, strings.Contains(result.Context, biz.ContextSeparator))
	assert.Equal(t,
		testDocs[1].Text+biz.ContextSeparator+testDocs[0].Text,
		result.Context,
	)
}

func TestRetrieverEmbedFailureDegrades(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		testDocs[0].Text: {1, 0, 0},
		testDocs[1].Text: {0, 1, 0},
	}}
	r := biz.NewRetriever(embedder, &biz.RetrieverConfig{TopK: 3})
	require.NoError(t, r.BuildIndex(context.Background(), testDocs))

	// No vector registered for this query, EmbedSingle fails
	assert.Nil(t, r.Retrieve(context.Background(), "unseen query"))
}

func TestRetrieverBuildIndexFailure(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{}}
	r := biz.NewRetriever(embedder, &biz.RetrieverConfig{TopK: 3})

	err := r.BuildIndex(context.Background(), testDocs)
	assert.Error(t, err)
	assert.False(t, r.Enabled())
	assert.Equal(t, 0, r.DocumentCount())
}
