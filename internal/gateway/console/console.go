// Package console implements a line-oriented gateway adapter for local
// development. It reads inbound messages from stdin, one per line, in the
// form "username: message text", and writes outbound operations to stdout.
// It exists so the bot binary runs end to end without a platform
// connection; a production deployment swaps in a real gateway adapter.
package console

import (
	"bufio"
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmarques/relaybot/internal/gateway"
)

// Gateway is a console-backed gateway.Client plus an event loop feeding a
// gateway.Handler.
type Gateway struct {
	log     *slog.Logger
	in      io.Reader
	out     io.Writer
	botID   string
	handler gateway.Handler

	mu     sync.Mutex
	nextID atomic.Int64
}

// New creates a console gateway. SetHandler must be called before Run.
func New(log *slog.Logger, in io.Reader, out io.Writer, botID string) *Gateway {
	return &Gateway{
		log:   log.With("component", "console_gateway"),
		in:    in,
		out:   out,
		botID: botID,
	}
}

// SetHandler wires the event consumer. It exists because the router and
// the gateway reference each other: the gateway is built first, then the
// router, then this.
func (g *Gateway) SetHandler(handler gateway.Handler) {
	g.handler = handler
}

// Run reads input lines and dispatches them as message-created events until
// EOF or context cancellation. Each line has the form "username: text"; the
// author ID is derived from the username so mention tokens stay stable
// across lines.
func (g *Gateway) Run(ctx context.Context) error {
	if g.handler == nil {
		return fmt.Errorf("console gateway has no handler set")
	}

	scanner := bufio.NewScanner(g.in)
	lines := make(chan string)

	go func() {
		defer close(lines)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("console input failed: %w", err)
				}
				return nil
			}
			g.dispatch(ctx, line)
		}
	}
}

func (g *Gateway) dispatch(ctx context.Context, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	author := "console"
	content := line
	if name, rest, ok := strings.Cut(line, ": "); ok && !strings.Contains(name, " ") {
		author = name
		content = rest
	}

	msg := &gateway.Message{
		ID:          strconv.FormatInt(g.nextID.Add(1), 10),
		AuthorID:    userID(author),
		AuthorName:  author,
		ChannelID:   "console",
		Content:     content,
		MentionsBot: strings.Contains(content, "<@"+g.botID+">"),
	}
	g.handler.OnMessageCreated(ctx, msg)
}

// userID derives a stable numeric ID from a username so that a user can be
// mentioned as <@ID> in later lines.
func userID(username string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return strconv.FormatUint(uint64(h.Sum32()), 10)
}

type sentMessage struct {
	g  *Gateway
	id int64
}

// SendToChannel prints the message and returns an editable handle.
func (g *Gateway) SendToChannel(_ context.Context, channelID, text string) (gateway.SentMessage, error) {
	id := g.nextID.Add(1)
	g.printf("[#%s] bot (%d): %s\n", channelID, id, text)
	return &sentMessage{g: g, id: id}, nil
}

// SendDirectMessage prints the direct message.
func (g *Gateway) SendDirectMessage(_ context.Context, userID, text string) error {
	g.printf("[dm -> %s] %s\n", userID, text)
	return nil
}

// ApplyTimeout prints the timeout that a real gateway would enforce.
func (g *Gateway) ApplyTimeout(_ context.Context, member gateway.Member, duration time.Duration, reason string) error {
	g.printf("[timeout] %s for %s: %s\n", member.Username, duration, reason)
	return nil
}

// ShowTyping is a no-op on the console.
func (g *Gateway) ShowTyping(context.Context, string) error {
	return nil
}

// DeleteMessage prints the deletion a real gateway would perform.
func (g *Gateway) DeleteMessage(_ context.Context, channelID, messageID string) error {
	g.printf("[#%s] deleted message %s\n", channelID, messageID)
	return nil
}

func (m *sentMessage) Edit(_ context.Context, content string) error {
	m.g.printf("[edit %d] %s\n", m.id, content)
	return nil
}

func (m *sentMessage) Delete(context.Context) error {
	m.g.printf("[delete %d]\n", m.id)
	return nil
}

func (g *Gateway) printf(format string, args ...any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, err := fmt.Fprintf(g.out, format, args...); err != nil {
		g.log.Error("Failed to write console output", "error", err)
	}
}
