package memory

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_PlaceholderStaysOutOfBuffer(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewInMemoryStore(time.Hour), zerolog.Nop())

	require.NoError(t, m.Append(ctx, "s1", NewMessage(RoleUser, "any jokes")))

	placeholder := NewMessage(RoleAssistant, "🤔 Let me check that for you...")
	placeholder.Pending = true
	require.NoError(t, m.Append(ctx, "s1", placeholder))

	history, err := m.GetFormattedHistory(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "User: any jokes\n", history)

	final := placeholder
	final.Content = "Why did the tomato blush?"
	final.Pending = false
	require.NoError(t, m.Replace(ctx, "s1", final))

	history, err = m.GetFormattedHistory(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "User: any jokes\nAssistant: Why did the tomato blush?\n", history)

	msgs, err := m.GetMessages(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, placeholder.ID, msgs[1].ID)
	assert.Equal(t, 1, m.GetActiveSessionCount())
}

func TestManager_ReloadsFromStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore(time.Hour)
	require.NoError(t, store.SaveMessage(ctx, "s1", NewMessage(RoleUser, "hello")))
	require.NoError(t, store.SaveMessage(ctx, "s1", NewMessage(RoleAssistant, "hi there")))

	m := NewManager(store, zerolog.Nop())
	history, err := m.GetFormattedHistory(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "User: hello\nAssistant: hi there\n", history)
}

func TestManager_ClearSession(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewInMemoryStore(time.Hour), zerolog.Nop())

	require.NoError(t, m.Append(ctx, "s1", NewMessage(RoleUser, "hello")))
	require.NoError(t, m.ClearSession(ctx, "s1"))
	assert.Equal(t, 0, m.GetActiveSessionCount())

	history, err := m.GetFormattedHistory(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "No previous conversation.", history)

	messages, err := m.GetMessages(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestManager_ReplaceUnknown(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewInMemoryStore(time.Hour), zerolog.Nop())
	assert.Error(t, m.Replace(ctx, "s1", NewMessage(RoleAssistant, "x")))
}

func TestManager_ExpiredSessionResetsBuffer(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewInMemoryStore(time.Millisecond), zerolog.Nop())

	require.NoError(t, m.Append(ctx, "s1", NewMessage(RoleUser, "where is the milk")))
	time.Sleep(5 * time.Millisecond)

	history, err := m.GetFormattedHistory(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "No previous conversation.", history)
}

func TestManager_ForgetKeepsStoredHistory(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewInMemoryStore(time.Hour), zerolog.Nop())

	require.NoError(t, m.Append(ctx, "s1", NewMessage(RoleUser, "where is the milk")))
	require.NoError(t, m.Append(ctx, "s2", NewMessage(RoleUser, "hello")))
	assert.Equal(t, 2, m.GetActiveSessionCount())

	m.Forget("s1")
	assert.Equal(t, 1, m.GetActiveSessionCount())

	history, err := m.GetFormattedHistory(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "User: where is the milk\n", history)
	assert.Equal(t, 2, m.GetActiveSessionCount())
}
