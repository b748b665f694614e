package bot

import "testing"

func TestConversationCacheUpdateIsIdempotent(t *testing.T) {
	t.Parallel()

	c := NewConversationCache()
	c.Update("alice", "hi", "hello")
	c.Update("alice", "hi", "hello")

	history := c.History("alice")
	if len(history) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(history))
	}
	if history[0].Prompt != "hi" || history[0].Response != "hello" {
		t.Errorf("unexpected entry: %+v", history[0])
	}
}

func TestConversationCacheIsolatesUsers(t *testing.T) {
	t.Parallel()

	c := NewConversationCache()
	c.Update("alice", "p", "r")

	if got := c.History("bob"); len(got) != 0 {
		t.Errorf("expected empty history for bob, got %d entries", len(got))
	}
}

func TestConversationCachePreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	c := NewConversationCache()
	c.Update("alice", "first", "1")
	c.Update("alice", "second", "2")
	c.Update("alice", "third", "3")

	history := c.History("alice")
	if len(history) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(history))
	}
	for i, want := range []string{"first", "second", "third"} {
		if history[i].Prompt != want {
			t.Errorf("entry %d prompt = %q, want %q", i, history[i].Prompt, want)
		}
	}
}

func TestConversationCacheOverwriteKeepsPosition(t *testing.T) {
	t.Parallel()

	c := NewConversationCache()
	c.Update("alice", "first", "1")
	c.Update("alice", "second", "2")
	c.Update("alice", "first", "updated")

	history := c.History("alice")
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if history[0].Prompt != "first" || history[0].Response != "updated" {
		t.Errorf("overwritten entry moved or kept stale response: %+v", history[0])
	}
}

func TestConversationCacheKeysAreExact(t *testing.T) {
	t.Parallel()

	c := NewConversationCache()
	c.Update("alice", "Hello", "a")
	c.Update("alice", "hello", "b")
	c.Update("alice", "hello ", "c")

	if got := c.History("alice"); len(got) != 3 {
		t.Errorf("expected 3 distinct entries for case/whitespace variants, got %d", len(got))
	}
}

func TestConversationCacheLookup(t *testing.T) {
	t.Parallel()

	c := NewConversationCache()
	c.Update("alice", "hi", "hello")

	if resp, ok := c.Lookup("alice", "hi"); !ok || resp != "hello" {
		t.Errorf("Lookup = (%q, %v), want (hello, true)", resp, ok)
	}
	if _, ok := c.Lookup("alice", "other"); ok {
		t.Error("expected miss for unknown prompt")
	}
	if _, ok := c.Lookup("bob", "hi"); ok {
		t.Error("expected miss for unknown user")
	}
}

func TestConversationCacheStats(t *testing.T) {
	t.Parallel()

	c := NewConversationCache()
	c.Update("alice", "a", "1")
	c.Update("alice", "b", "2")
	c.Update("bob", "c", "3")

	users, entries := c.Stats()
	if users != 2 || entries != 3 {
		t.Errorf("Stats = (%d, %d), want (2, 3)", users, entries)
	}
}
