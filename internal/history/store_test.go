package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docseekhq/docseek/internal/models"
)

// newTestStore creates a store in a temp dir with a deterministic,
// strictly increasing clock.
func newTestStore(t *testing.T, maxHistory int) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "history.json"), maxHistory, 50)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	})
	s.Load()
	return s
}

func TestAddMessage_RetentionCap(t *testing.T) {
	s := newTestStore(t, 4)

	for i := 0; i < 10; i++ {
		s.AddMessage("c1", models.RoleUser, fmt.Sprintf("msg-%d", i))
		msgs := s.Messages("c1")
		assert.LessOrEqual(t, len(msgs), 4, "cap must hold after every insert")
	}

	// Survivors are exactly the newest four, in original relative order.
	msgs := s.Messages("c1")
	require.Len(t, msgs, 4)
	for i, m := range msgs {
		assert.Equal(t, fmt.Sprintf("msg-%d", i+6), m.Content)
	}
}

func TestMessages_InsertionOrder(t *testing.T) {
	s := newTestStore(t, 50)
	s.AddMessage("c1", models.RoleUser, "first")
	s.AddMessage("c1", models.RoleAssistant, "second")
	s.AddMessage("c1", models.RoleUser, "third")

	msgs := s.Messages("c1")
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)
	assert.Equal(t, "third", msgs[2].Content)
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
}

func TestMessages_TwoFieldContract(t *testing.T) {
	s := newTestStore(t, 50)
	s.AddMessage("c1", models.RoleUser, "hello")

	data, err := json.Marshal(s.Messages("c1"))
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Len(t, raw[0], 2, "only role and content may leak to the prompt")
	assert.Contains(t, raw[0], "role")
	assert.Contains(t, raw[0], "content")
}

func TestMessages_UnknownConversation(t *testing.T) {
	s := newTestStore(t, 50)
	assert.Empty(t, s.Messages("nonexistent"))
}

func TestLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")

	s1 := NewStore(path, 50, 50)
	s1.Load()
	s1.AddMessage("c1", models.RoleUser, "hi")
	s1.AddMessage("c1", models.RoleAssistant, "hello")
	s1.AddMessage("c2", models.RoleUser, "other")

	s2 := NewStore(path, 50, 50)
	s2.Load()

	require.Len(t, s2.Messages("c1"), 2)
	assert.Equal(t, "hi", s2.Messages("c1")[0].Content)
	assert.Equal(t, "hello", s2.Messages("c1")[1].Content)
	require.Len(t, s2.Messages("c2"), 1)

	// Timestamps survive the round trip in the durable representation.
	var onDisk map[string][]models.Message
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.NotEmpty(t, onDisk["c1"][0].Timestamp)
}

func TestLoad_MissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope", "history.json"), 50, 50)
	s.Load()
	assert.Empty(t, s.Conversations())
}

func TestLoad_CorruptedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewStore(path, 50, 50)
	s.Load()
	assert.Empty(t, s.Conversations())

	// The store stays writable after the degraded load.
	s.AddMessage("c1", models.RoleUser, "hi")
	assert.Len(t, s.Messages("c1"), 1)
}

func TestClear_SingleConversation(t *testing.T) {
	s := newTestStore(t, 50)
	s.AddMessage("c1", models.RoleUser, "a")
	s.AddMessage("c2", models.RoleUser, "b")

	s.Clear("c1")

	assert.Empty(t, s.Messages("c1"))
	assert.Len(t, s.Messages("c2"), 1)
}

func TestClearAll(t *testing.T) {
	s := newTestStore(t, 50)
	s.AddMessage("c1", models.RoleUser, "a")
	s.AddMessage("c2", models.RoleUser, "b")

	s.ClearAll()

	assert.Empty(t, s.Conversations())
}

func TestConversations_SummaryTruncation(t *testing.T) {
	s := newTestStore(t, 50)
	long := strings.Repeat("x", 80)
	s.AddMessage("c1", models.RoleUser, long)
	s.AddMessage("c2", models.RoleUser, "short")

	var byID = map[string]models.ConversationSummary{}
	for _, c := range s.Conversations() {
		byID[c.ID] = c
	}

	assert.Equal(t, strings.Repeat("x", 50)+Ellipsis, byID["c1"].LastMessage)
	assert.Equal(t, "short", byID["c2"].LastMessage)
	assert.Equal(t, 1, byID["c1"].MessageCount)
}

func TestConversations_RecentFirst(t *testing.T) {
	s := newTestStore(t, 50)
	s.AddMessage("old", models.RoleUser, "a")
	s.AddMessage("mid", models.RoleUser, "b")
	s.AddMessage("new", models.RoleUser, "c")
	s.AddMessage("mid", models.RoleAssistant, "d") // bumps mid to most recent

	convs := s.Conversations()
	require.Len(t, convs, 3)
	assert.Equal(t, "mid", convs[0].ID)
	assert.Equal(t, "new", convs[1].ID)
	assert.Equal(t, "old", convs[2].ID)
	assert.Equal(t, 2, convs[0].MessageCount)
}

func TestSave_UnwritablePathDoesNotFail(t *testing.T) {
	// A file used as the parent "directory" makes MkdirAll fail.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	s := NewStore(filepath.Join(blocker, "history.json"), 50, 50)
	s.Load()
	s.AddMessage("c1", models.RoleUser, "hi") // save fails, must not panic

	assert.Len(t, s.Messages("c1"), 1, "in-memory state survives a failed save")
}
