package ai

import (
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func roleCounts(messages []openai.ChatCompletionMessage) map[string]int {
	counts := make(map[string]int)
	for _, m := range messages {
		counts[m.Role]++
	}
	return counts
}

func TestComposePromptWithoutHistory(t *testing.T) {
	t.Parallel()

	messages := ComposePrompt("relay bot", "what time is it", "alice", nil)

	if len(messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(messages))
	}

	counts := roleCounts(messages)
	if counts[openai.ChatMessageRoleSystem] != 2 {
		t.Errorf("system entries = %d, want 2", counts[openai.ChatMessageRoleSystem])
	}
	if counts[openai.ChatMessageRoleAssistant] != 1 {
		t.Errorf("assistant entries = %d, want 1", counts[openai.ChatMessageRoleAssistant])
	}
	if counts[openai.ChatMessageRoleUser] != 1 {
		t.Errorf("user entries = %d, want 1", counts[openai.ChatMessageRoleUser])
	}
}

func TestComposePromptWithHistory(t *testing.T) {
	t.Parallel()

	history := []HistoryEntry{
		{Prompt: "hi", Response: "hello"},
		{Prompt: "how are you", Response: "fine"},
	}
	messages := ComposePrompt("relay bot", "next question", "alice", history)

	if len(messages) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(messages))
	}

	counts := roleCounts(messages)
	if counts[openai.ChatMessageRoleSystem] != 2 {
		t.Errorf("system entries = %d, want 2", counts[openai.ChatMessageRoleSystem])
	}
	if counts[openai.ChatMessageRoleAssistant] != 2 {
		t.Errorf("assistant entries = %d, want 2", counts[openai.ChatMessageRoleAssistant])
	}
	if counts[openai.ChatMessageRoleUser] != 1 {
		t.Errorf("user entries = %d, want 1", counts[openai.ChatMessageRoleUser])
	}
}

func TestComposePromptOrdering(t *testing.T) {
	t.Parallel()

	history := []HistoryEntry{{Prompt: "hi", Response: "hello"}}
	messages := ComposePrompt("relay bot", "question", "alice", history)

	wantRoles := []string{
		openai.ChatMessageRoleSystem,
		openai.ChatMessageRoleSystem,
		openai.ChatMessageRoleAssistant,
		openai.ChatMessageRoleAssistant,
		openai.ChatMessageRoleUser,
	}
	for i, want := range wantRoles {
		if messages[i].Role != want {
			t.Errorf("message %d role = %q, want %q", i, messages[i].Role, want)
		}
	}
}

func TestComposePromptContent(t *testing.T) {
	t.Parallel()

	history := []HistoryEntry{{Prompt: "hi", Response: "hello"}}
	messages := ComposePrompt("relay bot", "question", "alice", history)

	if !strings.Contains(messages[0].Content, "Your name is relay bot") {
		t.Errorf("identity entry missing bot name: %q", messages[0].Content)
	}
	if !strings.Contains(messages[2].Content, "alice") || !strings.Contains(messages[2].Content, "Do NOT mention their name") {
		t.Errorf("user-identity entry malformed: %q", messages[2].Content)
	}
	if !strings.Contains(messages[3].Content, "Q: hi, A: hello") {
		t.Errorf("history entry missing Q/A segment: %q", messages[3].Content)
	}
	if !strings.Contains(messages[3].Content, "Don't greet them again") {
		t.Errorf("history entry missing re-greet instruction: %q", messages[3].Content)
	}
	if messages[4].Content != "alice writes: question." {
		t.Errorf("user entry = %q", messages[4].Content)
	}
}

func TestFormatHistory(t *testing.T) {
	t.Parallel()

	history := []HistoryEntry{
		{Prompt: "a", Response: "1"},
		{Prompt: "b", Response: "2"},
	}

	got := FormatHistory(history)
	want := "Q: a, A: 1 Q: b, A: 2"
	if got != want {
		t.Errorf("FormatHistory = %q, want %q", got, want)
	}

	if FormatHistory(nil) != "" {
		t.Errorf("FormatHistory(nil) = %q, want empty", FormatHistory(nil))
	}
}
