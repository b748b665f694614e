package console

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/dmarques/relaybot/internal/gateway"
)

type recordingHandler struct {
	mu       sync.Mutex
	messages []*gateway.Message
}

func (h *recordingHandler) OnMessageCreated(_ context.Context, msg *gateway.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msg)
}

func (h *recordingHandler) OnMemberJoined(context.Context, gateway.Member) {}
func (h *recordingHandler) OnMemberLeft(context.Context, gateway.Member)  {}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunDispatchesLines(t *testing.T) {
	t.Parallel()

	input := strings.NewReader("alice: <@1> hello\n\nbare line without author\n")
	g := New(discardLogger(), input, io.Discard, "1")

	h := &recordingHandler{}
	g.SetHandler(h)

	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(h.messages) != 2 {
		t.Fatalf("dispatched %d messages, want 2 (blank lines skipped)", len(h.messages))
	}

	first := h.messages[0]
	if first.AuthorName != "alice" {
		t.Errorf("author = %q, want alice", first.AuthorName)
	}
	if first.Content != "<@1> hello" {
		t.Errorf("content = %q", first.Content)
	}
	if !first.MentionsBot {
		t.Error("message mentioning <@1> must set MentionsBot")
	}

	second := h.messages[1]
	if second.AuthorName != "console" {
		t.Errorf("fallback author = %q, want console", second.AuthorName)
	}
	if second.MentionsBot {
		t.Error("plain line must not set MentionsBot")
	}
}

func TestRunRequiresHandler(t *testing.T) {
	t.Parallel()

	g := New(discardLogger(), strings.NewReader(""), io.Discard, "1")
	if err := g.Run(context.Background()); err == nil {
		t.Fatal("Run without a handler must fail")
	}
}

func TestUserIDIsStable(t *testing.T) {
	t.Parallel()

	if userID("alice") != userID("alice") {
		t.Error("userID must be deterministic for the same username")
	}
	if userID("alice") == userID("bob") {
		t.Error("distinct usernames must map to distinct IDs")
	}
}

func TestSendToChannelHandleEditsAndDeletes(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	g := New(discardLogger(), strings.NewReader(""), &out, "1")

	sent, err := g.SendToChannel(context.Background(), "general", "hello")
	if err != nil {
		t.Fatalf("SendToChannel: %v", err)
	}
	if err := sent.Edit(context.Background(), "hello again"); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if err := sent.Delete(context.Background()); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	output := out.String()
	for _, want := range []string{"[#general]", "hello", "[edit", "hello again", "[delete"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}
