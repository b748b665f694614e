package bot

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dmarques/relaybot/internal/gateway"
)

// showHistory renders the requesting user's conversation history into the
// channel. An empty history gets the fixed no-chats notice; otherwise a
// placeholder is posted and then edited to carry the rendered entries in
// insertion order.
func (r *Router) showHistory(ctx context.Context, msg *gateway.Message) {
	user := msg.AuthorName
	history := r.cache.History(user)

	_ = r.gw.ShowTyping(ctx, msg.ChannelID)

	if len(history) == 0 {
		r.send(ctx, msg.ChannelID, r.cfg.Bot.Messages.NoHistory)
		return
	}

	placeholder := r.send(ctx, msg.ChannelID, fmt.Sprintf(r.cfg.Bot.Messages.FetchingHistory, user))

	body := r.cfg.Bot.Messages.HistoryHeader + "\n" + renderHistory(history)
	if placeholder == nil {
		r.send(ctx, msg.ChannelID, body)
		return
	}

	if err := placeholder.Edit(ctx, body); err != nil {
		r.log.ErrorContext(ctx, "Failed to edit history placeholder", "user", user, "error", err)
	}
}

// renderHistory formats each prompt/response pair as a display unit, with
// the prompt's first letter capitalized.
func renderHistory(entries []ConversationEntry) string {
	units := make([]string, 0, len(entries))
	for _, e := range entries {
		units = append(units, fmt.Sprintf("Q: %s\nA: %s", capitalize(e.Prompt), e.Response))
	}
	return strings.Join(units, "\n\n")
}

// capitalize upper-cases the first letter of s.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + s[size:]
}
