// Package memory keeps a per-session sliding window of conversation
// turns. State is process-local only and is lost on restart.
package memory

import (
	"strings"
	"sync"
	"time"
)

const defaultMaxMessages = 20

// Turn is one message in a conversation.
type Turn struct {
	Role      string
	Content   string
	Timestamp time.Time
	Metadata  map[string]string
}

// Conversations maps session ids to bounded, ordered turn logs.
// Distinct sessions are safe to use concurrently; concurrent writes to
// the same session may interleave, which is accepted.
type Conversations struct {
	mu          sync.RWMutex
	maxMessages int
	sessions    map[string][]Turn
}

func New(maxMessages int) *Conversations {
	if maxMessages <= 0 {
		maxMessages = defaultMaxMessages
	}
	return &Conversations{
		maxMessages: maxMessages,
		sessions:    make(map[string][]Turn),
	}
}

// Add appends a turn to the session, creating it lazily and evicting
// the oldest turn once the window is full.
func (c *Conversations) Add(sessionID, role, content string, metadata map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	turns := append(c.sessions[sessionID], Turn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
		Metadata:  metadata,
	})
	if len(turns) > c.maxMessages {
		turns = turns[len(turns)-c.maxMessages:]
	}
	c.sessions[sessionID] = turns
}

// History returns the session's turns oldest-first. lastN > 0 tail-
// slices to the most recent lastN turns. The returned slice is a copy.
func (c *Conversations) History(sessionID string, lastN int) []Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()

	turns := c.sessions[sessionID]
	if lastN > 0 && lastN < len(turns) {
		turns = turns[len(turns)-lastN:]
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// ContextText renders the history as "Role: content" lines in
// chronological order, for verbatim inclusion in the answer prompt.
// Returns "" when the session has no history.
func (c *Conversations) ContextText(sessionID string) string {
	turns := c.History(sessionID, 0)
	if len(turns) == 0 {
		return ""
	}

	lines := make([]string, len(turns))
	for i, turn := range turns {
		lines[i] = capitalize(turn.Role) + ": " + turn.Content
	}
	return strings.Join(lines, "\n")
}

// Clear removes the session's history. Clearing an unknown session is
// a no-op.
func (c *Conversations) Clear(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, sessionID)
}

// Len reports how many turns the session currently holds.
func (c *Conversations) Len(sessionID string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions[sessionID])
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
