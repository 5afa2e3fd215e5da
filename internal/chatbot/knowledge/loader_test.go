package knowledge_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/campus-chat/internal/chatbot/knowledge"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qa.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `[
		{"question": "What is SREC?", "answer": "Sree Rama Engineering College"},
		{"question": "Where is it located?", "answer": "Tirupathi"}
	]`)

	result := knowledge.Load(path)
	require.Equal(t, knowledge.StatusLoaded, result.Status)
	require.Len(t, result.Documents, 2)

	assert.Equal(t, 0, result.Documents[0].ID)
	assert.Equal(t, "What is SREC?", result.Documents[0].Question)
	assert.Equal(t, "Q: What is SREC?\nA: Sree Rama Engineering College", result.Documents[0].Text)
	assert.Equal(t, 1, result.Documents[1].ID)
}

func TestLoadMissingFile(t *testing.T) {
	result := knowledge.Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, knowledge.StatusUnavailable, result.Status)
	assert.NotEmpty(t, result.Reason)
	assert.Empty(t, result.Documents)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeFile(t, `{"not": "an array"`)

	result := knowledge.Load(path)
	assert.Equal(t, knowledge.StatusUnavailable, result.Status)
	assert.NotEmpty(t, result.Reason)
}

func TestLoadEmptyArray(t *testing.T) {
	path := writeFile(t, `[]`)

	result := knowledge.Load(path)
	assert.Equal(t, knowledge.StatusLoaded, result.Status)
	assert.Empty(t, result.Documents)
}
