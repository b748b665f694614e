package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dmarques/relaybot/internal/ai"
	"github.com/dmarques/relaybot/internal/config"
	"github.com/dmarques/relaybot/internal/gateway"
)

const (
	moderationTimeout  = 30 * time.Second
	sendMessageTimeout = 10 * time.Second
)

// Router consumes inbound gateway events and decides whether to moderate,
// relay a direct message, show history, or query the completion API. All
// shared state (cache, rate gate, strikes) is injected at construction so
// tests get isolated instances.
type Router struct {
	log     *slog.Logger
	cfg     *config.Config
	gw      gateway.Client
	ai      ai.Client
	cache   *ConversationCache
	gate    *RateGate
	strikes *StrikeTracker
	botID   string
	now     func() time.Time

	mu        sync.Mutex
	lastReply time.Time
}

// NewRouter creates a message router with its dependencies.
func NewRouter(
	log *slog.Logger,
	cfg *config.Config,
	gw gateway.Client,
	aiClient ai.Client,
	cache *ConversationCache,
	gate *RateGate,
	strikes *StrikeTracker,
	botID string,
) *Router {
	return &Router{
		log:     log.With("component", "router"),
		cfg:     cfg,
		gw:      gw,
		ai:      aiClient,
		cache:   cache,
		gate:    gate,
		strikes: strikes,
		botID:   botID,
		now:     time.Now,
	}
}

type intentKind int

const (
	intentIgnore intentKind = iota
	intentDirectMessage
	intentHistory
	intentCompletionQuery
)

// intent is the classification of one inbound message, computed once and
// then dispatched.
type intent struct {
	kind     intentKind
	targetID string
	content  string
}

func (r *Router) classify(msg *gateway.Message) intent {
	if msg.AuthorID == r.botID {
		return intent{kind: intentIgnore}
	}

	m := ParseMention(msg.Content)
	switch {
	case m.TargetUserID != "" && m.TargetUserID != r.botID && m.MessageContent != "" && !r.isExcludedCommand(m.MessageContent):
		return intent{kind: intentDirectMessage, targetID: m.TargetUserID, content: m.MessageContent}

	case m.TargetUserID != "" && strings.TrimSpace(m.MessageContent) == r.cfg.Bot.HistoryCommand:
		return intent{kind: intentHistory}

	case m.TargetUserID != "" && msg.MentionsBot && !r.repliedRecently():
		return intent{kind: intentCompletionQuery, content: m.MessageContent}

	default:
		return intent{kind: intentIgnore}
	}
}

// isExcludedCommand reports whether content is a command token that must
// never be relayed as a direct message.
func (r *Router) isExcludedCommand(content string) bool {
	return strings.TrimSpace(content) == r.cfg.Bot.HistoryCommand
}

// OnMessageCreated handles one inbound chat message.
func (r *Router) OnMessageCreated(ctx context.Context, msg *gateway.Message) {
	if msg == nil || msg.Content == "" {
		return
	}

	in := r.classify(msg)
	switch in.kind {
	case intentDirectMessage:
		r.relayDirectMessage(ctx, in.targetID, in.content)
	case intentHistory:
		r.showHistory(ctx, msg)
	case intentCompletionQuery:
		r.moderateAndComplete(ctx, msg, in.content)
	default:
		r.log.DebugContext(ctx, "Ignoring message", "author_id", msg.AuthorID)
	}
}

// OnMemberJoined announces a new member in the default channel.
func (r *Router) OnMemberJoined(ctx context.Context, member gateway.Member) {
	r.send(ctx, r.cfg.Bot.DefaultChannelID, fmt.Sprintf(r.cfg.Bot.Messages.MemberJoined, member.Username))
}

// OnMemberLeft announces a member's departure in the default channel.
func (r *Router) OnMemberLeft(ctx context.Context, member gateway.Member) {
	r.send(ctx, r.cfg.Bot.DefaultChannelID, fmt.Sprintf(r.cfg.Bot.Messages.MemberLeft, member.Username))
}

// AnnouncePresence posts the bot's greeting and usage instructions to the
// default channel.
func (r *Router) AnnouncePresence(ctx context.Context) {
	name := r.cfg.Bot.Name
	msg := fmt.Sprintf(
		"Hello everyone! I'm the **%s**, now online and ready to chat. To chat with me, "+
			"**type @%s followed by your prompt**. "+
			"To see your history, **type @%s %s** "+
			"and to send a **DM (direct message)** to a user type **@<username> followed by your message**",
		name, name, name, r.cfg.Bot.HistoryCommand,
	)
	r.send(ctx, r.cfg.Bot.DefaultChannelID, msg)
}

func (r *Router) relayDirectMessage(ctx context.Context, targetID, content string) {
	if err := r.gw.SendDirectMessage(ctx, targetID, content); err != nil {
		r.log.ErrorContext(ctx, "Failed to send direct message", "target_id", targetID, "error", err)
		return
	}
	r.log.DebugContext(ctx, "Direct message relayed", "target_id", targetID)
}

// moderateAndComplete runs the moderation gate on the raw message text and,
// if clean, proceeds to the completion query. A moderation failure rejects
// the message: it is never treated as clean.
func (r *Router) moderateAndComplete(ctx context.Context, msg *gateway.Message, prompt string) {
	modCtx, cancel := context.WithTimeout(ctx, moderationTimeout)
	defer cancel()

	categories, err := r.ai.Moderate(modCtx, msg.Content)
	if err != nil {
		r.log.ErrorContext(ctx, "Moderation check failed, rejecting message",
			"author_id", msg.AuthorID, "error", err)
		return
	}

	if len(categories) > 0 {
		r.handleViolation(ctx, msg, categories)
		return
	}

	r.queryCompletion(ctx, msg, prompt)
}

// handleViolation records a strike, applies a timeout when the escalation
// policy calls for one, posts a warning naming the violated categories, and
// caches the warning as the response for audit. The flagged message itself
// is deleted best effort.
func (r *Router) handleViolation(ctx context.Context, msg *gateway.Message, categories []string) {
	user := msg.AuthorName

	if duration, act := r.strikes.RecordViolation(user); act {
		member := gateway.Member{UserID: msg.AuthorID, Username: user}
		if err := r.gw.ApplyTimeout(ctx, member, duration, r.cfg.Bot.Messages.TimeoutReason); err != nil {
			// The strike stands even when the punitive action fails,
			// e.g. when the member outranks the bot.
			r.log.ErrorContext(ctx, "Cannot timeout member", "user", user, "error", err)
		}
	}

	warning := fmt.Sprintf(r.cfg.Bot.Messages.ModerationWarning, strings.Join(categories, ", "))
	r.send(ctx, msg.ChannelID, warning)
	r.cache.Update(user, ParseMention(msg.Content).MessageContent, warning)

	if err := r.gw.DeleteMessage(ctx, msg.ChannelID, msg.ID); err != nil {
		r.log.DebugContext(ctx, "Could not delete flagged message", "message_id", msg.ID, "error", err)
	}
}

// queryCompletion runs the completion path: duplicate-prompt short circuit,
// placeholder announcement, rate gate, prompt composition, API call, reply
// relay, and cache update. The placeholder is removed regardless of outcome.
func (r *Router) queryCompletion(ctx context.Context, msg *gateway.Message, prompt string) {
	user := msg.AuthorName

	if cached, ok := r.cache.Lookup(user, prompt); ok {
		r.log.DebugContext(ctx, "Duplicate prompt, replying from cache", "user", user)
		r.send(ctx, msg.ChannelID, fmt.Sprintf("<@%s> %s", msg.AuthorID, cached))
		return
	}

	_ = r.gw.ShowTyping(ctx, msg.ChannelID)

	placeholder := r.send(ctx, msg.ChannelID, r.cfg.Bot.Messages.FetchingResponse)
	defer func() {
		if placeholder == nil {
			return
		}
		if err := placeholder.Delete(ctx); err != nil {
			r.log.DebugContext(ctx, "Failed to delete placeholder message", "error", err)
		}
	}()

	if !r.gate.TryAcquire(r.now()) {
		r.log.DebugContext(ctx, "Rate gate denied completion request", "user", user)
		return
	}

	history := r.cache.History(user)
	entries := make([]ai.HistoryEntry, 0, len(history))
	for _, e := range history {
		entries = append(entries, ai.HistoryEntry{Prompt: e.Prompt, Response: e.Response})
	}

	aiCtx, cancel := context.WithTimeout(ctx, r.cfg.AI.Timeout)
	defer cancel()

	reply, err := r.ai.CreateCompletion(aiCtx, ai.ComposePrompt(r.cfg.Bot.Name, prompt, user, entries))
	if err != nil {
		r.log.ErrorContext(ctx, "Completion request failed", "user", user, "error", err)
		r.send(ctx, msg.ChannelID, r.cfg.Bot.Messages.GeneralError)
		return
	}

	if reply == "" {
		r.log.WarnContext(ctx, "Empty completion reply", "user", user)
		r.send(ctx, msg.ChannelID, fmt.Sprintf("<@%s> %s", msg.AuthorID, r.cfg.Bot.Messages.FetchFailed))
		return
	}

	r.send(ctx, msg.ChannelID, fmt.Sprintf("<@%s> %s", msg.AuthorID, reply))
	r.cache.Update(user, prompt, reply)
	r.markReplied()
}

// send posts text to a channel, falling back to the default channel when
// none is given. Send failures are logged and yield a nil handle; they
// never propagate.
func (r *Router) send(ctx context.Context, channelID, text string) gateway.SentMessage {
	if channelID == "" {
		channelID = r.cfg.Bot.DefaultChannelID
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()

	sent, err := r.gw.SendToChannel(sendCtx, channelID, text)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send message to channel", "channel_id", channelID, "error", err)
		return nil
	}
	return sent
}

func (r *Router) repliedRecently() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.lastReply.IsZero() && r.now().Sub(r.lastReply) < r.cfg.Bot.ReplyWindow
}

func (r *Router) markReplied() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastReply = r.now()
}
