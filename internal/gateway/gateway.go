// Package gateway defines the port between the bot core and the real-time
// messaging platform. The connection and event subscription mechanism lives
// behind these interfaces; adapters translate platform events into Message
// and Member values and hand them to the router.
package gateway

import (
	"context"
	"time"
)

// Message is an inbound chat message as seen by the router.
type Message struct {
	ID          string
	AuthorID    string
	AuthorName  string
	ChannelID   string
	Content     string
	MentionsBot bool
}

// Member identifies a server member for join/leave events and timeouts.
type Member struct {
	UserID   string
	Username string
}

// SentMessage is a handle to a message the bot posted, allowing the
// placeholder edit/delete lifecycle.
type SentMessage interface {
	// Edit replaces the message content.
	Edit(ctx context.Context, content string) error

	// Delete removes the message from the channel.
	Delete(ctx context.Context) error
}

// Client is the outbound surface of the messaging platform.
type Client interface {
	// SendToChannel posts text to a channel and returns a handle to the
	// posted message.
	SendToChannel(ctx context.Context, channelID, text string) (SentMessage, error)

	// SendDirectMessage delivers text to a user's direct channel.
	SendDirectMessage(ctx context.Context, userID, text string) error

	// ApplyTimeout mutes a member for the given duration. Fails with an
	// error when the platform refuses (e.g. the member outranks the bot).
	ApplyTimeout(ctx context.Context, member Member, duration time.Duration, reason string) error

	// ShowTyping displays a typing indicator in the channel. Best effort.
	ShowTyping(ctx context.Context, channelID string) error

	// DeleteMessage removes an inbound message, used after moderation
	// flags it. Best effort.
	DeleteMessage(ctx context.Context, channelID, messageID string) error
}

// Handler receives gateway events. The router implements this; adapters
// call it from their event loops.
type Handler interface {
	OnMessageCreated(ctx context.Context, msg *Message)
	OnMemberJoined(ctx context.Context, member Member)
	OnMemberLeft(ctx context.Context, member Member)
}
