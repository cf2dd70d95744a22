package session

import (
	"testing"

	"github.com/hupe1980/lifemesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ core.SessionStore = (*InMemoryStore)(nil)

func TestInMemoryStore_Lifecycle(t *testing.T) {
	s := NewInMemoryStore()

	_, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.AppendEvent("missing", core.NewEvent("r", "a")), ErrNotFound)

	_, err = s.Create("s1")
	require.NoError(t, err)

	require.NoError(t, s.AppendEvent("s1", core.NewMessageEvent("r", "IdeaAgent", "ideas")))
	require.NoError(t, s.ApplyDelta("s1", map[string]any{"ideas": "ideas"}))

	sess, err := s.Get("s1")
	require.NoError(t, err)
	assert.Len(t, sess.GetEvents(), 1)
	v, ok := sess.GetState("ideas")
	assert.True(t, ok)
	assert.Equal(t, "ideas", v)

	// clones are detached from the stored session
	sess.SetState("ideas", "mutated")
	again, _ := s.Get("s1")
	v, _ = again.GetState("ideas")
	assert.Equal(t, "ideas", v)

	assert.Equal(t, []string{"s1"}, s.List())
	s.Delete("s1")
	assert.Empty(t, s.List())
}
