package conversation_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/campus-chat/internal/chatbot/conversation"
	"github.com/kart-io/campus-chat/internal/model"
)

func TestSessionAppendAndSnapshot(t *testing.T) {
	m := conversation.NewManager(10)
	s := m.Session("abc")

	s.Append(model.RoleUser, "hello")
	s.Append(model.RoleAssistant, "hi there")

	turns := s.Snapshot()
	require.Len(t, turns, 2)
	assert.Equal(t, model.RoleUser, turns[0].Role)
	assert.Equal(t, "hello", turns[0].Content)
	assert.Equal(t, model.RoleAssistant, turns[1].Role)
	assert.NotEmpty(t, turns[0].Timestamp.Time)
	assert.NotEmpty(t, turns[0].Timestamp.Date)
}

func TestSessionEviction(t *testing.T) {
	m := conversation.NewManager(2) // bound of 4 turns
	s := m.Session("abc")

	for i := 0; i < 5; i++ {
		s.Append(model.RoleUser, fmt.Sprintf("msg-%d", i))
	}

	turns := s.Snapshot()
	require.Len(t, turns, 4)
	// Oldest turn evicted first
	assert.Equal(t, "msg-1", turns[0].Content)
	assert.Equal(t, "msg-4", turns[3].Content)
}

func TestSessionClear(t *testing.T) {
	m := conversation.NewManager(10)
	s := m.Session("abc")
	s.Append(model.RoleUser, "hello")

	s.Clear()
	assert.Equal(t, 0, s.Len())

	// Session remains usable after clearing
	s.Append(model.RoleUser, "again")
	assert.Equal(t, 1, s.Len())
}

func TestSessionIsolation(t *testing.T) {
	m := conversation.NewManager(10)

	m.Session("a").Append(model.RoleUser, "for a")
	m.Session("b").Append(model.RoleUser, "for b")

	assert.Equal(t, 1, m.Session("a").Len())
	assert.Equal(t, 1, m.Session("b").Len())
	assert.Equal(t, 2, m.SessionCount())

	m.Session("a").Clear()
	assert.Equal(t, 0, m.Session("a").Len())
	assert.Equal(t, 1, m.Session("b").Len())
}

func TestEmptySessionIDUsesDefault(t *testing.T) {
	m := conversation.NewManager(10)

	m.Session("").Append(model.RoleUser, "hello")
	assert.Equal(t, 1, m.Session(conversation.DefaultSessionID).Len())
}

func TestSnapshotIsCopy(t *testing.T) {
	m := conversation.NewManager(10)
	s := m.Session("abc")
	s.Append(model.RoleUser, "hello")

	snap := s.Snapshot()
	snap[0].Content = "mutated"

	assert.Equal(t, "hello", s.Snapshot()[0].Content)
}
