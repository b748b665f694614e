package bot

import "sync"

// ConversationEntry is one prompt/response exchange recorded for a user.
type ConversationEntry struct {
	Prompt   string
	Response string
}

// ConversationCache maps users to their prompt/response history. Entries
// are keyed by exact string equality on (user, prompt), no normalization:
// case and whitespace differences produce distinct entries, which is what
// makes duplicate-prompt suppression exact. Entries live for the process
// lifetime; there is no eviction.
type ConversationCache struct {
	mu    sync.Mutex
	users map[string]*userHistory
}

type userHistory struct {
	responses map[string]string
	order     []string
}

// NewConversationCache creates an empty cache.
func NewConversationCache() *ConversationCache {
	return &ConversationCache{
		users: make(map[string]*userHistory),
	}
}

// Update inserts or overwrites the entry for (user, prompt), creating the
// user's sub-mapping lazily. A repeated identical prompt overwrites its
// response in place and keeps its original position.
func (c *ConversationCache) Update(user, prompt, response string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.users[user]
	if !ok {
		h = &userHistory{responses: make(map[string]string)}
		c.users[user] = h
	}
	if _, exists := h.responses[prompt]; !exists {
		h.order = append(h.order, prompt)
	}
	h.responses[prompt] = response
}

// History returns the insertion-ordered entries for a user, or an empty
// slice for an unknown user. The returned slice is a copy.
func (c *ConversationCache) History(user string) []ConversationEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.users[user]
	if !ok {
		return nil
	}

	entries := make([]ConversationEntry, 0, len(h.order))
	for _, prompt := range h.order {
		entries = append(entries, ConversationEntry{Prompt: prompt, Response: h.responses[prompt]})
	}
	return entries
}

// Lookup is the exact-match cache read used to short-circuit duplicate
// prompts. The second return reports whether an entry exists.
func (c *ConversationCache) Lookup(user, prompt string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.users[user]
	if !ok {
		return "", false
	}
	response, ok := h.responses[prompt]
	return response, ok
}

// Stats reports the number of known users and total cached entries.
func (c *ConversationCache) Stats() (users, entries int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, h := range c.users {
		entries += len(h.order)
	}
	return len(c.users), entries
}
