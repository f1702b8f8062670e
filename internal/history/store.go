// Package history provides the durable, bounded, multi-conversation
// message store. It is the sole authority over message ordering,
// retention, and the prompt shape handed to the LLM client.
package history

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/docseekhq/docseek/internal/models"
)

// Ellipsis marks a truncated last-message preview in summaries.
const Ellipsis = "..."

// Clock returns the current time. Injected by tests to produce
// deterministic timestamps.
type Clock func() time.Time

// Store is a JSON-file-backed conversation log. All operations, reads
// included, serialize behind one mutex: Save rewrites the whole file,
// so an unserialized read-modify-write from two turns would lose
// updates.
//
// Concurrent processes sharing the file are not supported; the store
// assumes single-writer access.
type Store struct {
	path          string
	maxHistory    int
	previewLength int
	now           Clock

	mu            sync.Mutex
	conversations map[string][]models.Message
}

// NewStore creates a store persisting to path, keeping at most
// maxHistory messages per conversation. Call Load before first use.
func NewStore(path string, maxHistory, previewLength int) *Store {
	return &Store{
		path:          path,
		maxHistory:    maxHistory,
		previewLength: previewLength,
		now:           time.Now,
		conversations: make(map[string][]models.Message),
	}
}

// SetClock overrides the timestamp source. Test hook.
func (s *Store) SetClock(c Clock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = c
}

// Load reads the persisted store into memory. A missing file starts an
// empty store. An unparseable file is logged and degrades to an empty
// store rather than failing startup; the corrupt content is overwritten
// on the next save.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("history: could not read %s: %v; starting fresh", s.path, err)
		}
		s.conversations = make(map[string][]models.Message)
		return
	}
	if len(data) == 0 {
		s.conversations = make(map[string][]models.Message)
		return
	}

	var loaded map[string][]models.Message
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Printf("history: could not parse %s: %v; starting fresh", s.path, err)
		s.conversations = make(map[string][]models.Message)
		return
	}
	s.conversations = loaded
}

// AddMessage appends a message with a fresh timestamp, enforces the
// retention cap (oldest evicted first), and persists. The conversation
// is created if absent.
func (s *Store) AddMessage(conversationID string, role models.Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := append(s.conversations[conversationID], models.Message{
		Role:      role,
		Content:   content,
		Timestamp: s.now().Format("2006-01-02T15:04:05.000000"),
	})
	if len(msgs) > s.maxHistory {
		msgs = msgs[len(msgs)-s.maxHistory:]
	}
	s.conversations[conversationID] = msgs
	s.saveLocked()
}

// Messages returns the conversation's messages in insertion order,
// narrowed to the role/content pairs the LLM client accepts. Unknown
// ids yield an empty slice, never an error.
func (s *Store) Messages(conversationID string) []models.PromptMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.conversations[conversationID]
	result := make([]models.PromptMessage, len(msgs))
	for i, m := range msgs {
		result[i] = models.PromptMessage{Role: m.Role, Content: m.Content}
	}
	return result
}

// Conversations summarizes every conversation holding at least one
// message, ordered by most recent activity. Long last messages are
// truncated to the preview length with an ellipsis marker.
//
// A cleared conversation is indistinguishable from one never seen:
// zero-message conversations are treated as absent.
func (s *Store) Conversations() []models.ConversationSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	type entry struct {
		summary models.ConversationSummary
		lastAt  string
	}
	entries := make([]entry, 0, len(s.conversations))
	for id, msgs := range s.conversations {
		if len(msgs) == 0 {
			continue
		}
		last := msgs[len(msgs)-1]
		preview := last.Content
		if len(preview) > s.previewLength {
			preview = preview[:s.previewLength] + Ellipsis
		}
		entries = append(entries, entry{
			summary: models.ConversationSummary{
				ID:           id,
				LastMessage:  preview,
				MessageCount: len(msgs),
			},
			lastAt: last.Timestamp,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].lastAt != entries[j].lastAt {
			return entries[i].lastAt > entries[j].lastAt
		}
		return entries[i].summary.ID < entries[j].summary.ID
	})

	result := make([]models.ConversationSummary, len(entries))
	for i, e := range entries {
		result[i] = e.summary
	}
	return result
}

// Clear deletes one conversation and persists.
func (s *Store) Clear(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, conversationID)
	s.saveLocked()
}

// ClearAll deletes every conversation and persists.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations = make(map[string][]models.Message)
	s.saveLocked()
}

// Save persists the in-memory store. Exposed for shutdown flushing;
// mutating operations save automatically.
func (s *Store) Save() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveLocked()
}

// saveLocked rewrites the whole file. Write failures are logged and
// swallowed: the conversation continues with in-memory state and the
// next mutation retries the write. Callers must hold s.mu.
func (s *Store) saveLocked() {
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("history: could not create %s: %v", dir, err)
			return
		}
	}

	data, err := json.MarshalIndent(s.conversations, "", "  ")
	if err != nil {
		log.Printf("history: could not encode store: %v", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		log.Printf("history: could not write %s: %v", s.path, err)
	}
}
