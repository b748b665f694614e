package ai

import (
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// systemPrompts is the fixed block of behavioral instructions sent under the
// system role before every completion request.
var systemPrompts = []string{
	"You are a helpful assistant.",
	"You try to give the shortest but friendliest reply possible.",
	"You are in a chatroom, and you try to answer each user's question(s) individually.",
	"You may or may not have access to the user's previous chats.",
	"Do not refer to anyone by their name under any circumstances, unless it's very relevant to the prompt.",
}

// HistoryEntry is one prior prompt/response pair folded into the composed
// message sequence.
type HistoryEntry struct {
	Prompt   string
	Response string
}

// ComposePrompt builds the ordered instruction sequence sent to the
// completion API. The ordering is contractual:
//
//	system (bot identity), system (behavioral instructions),
//	assistant (user identity), assistant (history, only if non-empty),
//	user (current prompt)
func ComposePrompt(botName, userPrompt, user string, history []HistoryEntry) []openai.ChatCompletionMessage {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: fmt.Sprintf("Your name is %s and %s only. ", botName, botName),
		},
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: strings.Join(systemPrompts, " "),
		},
		{
			Role:    openai.ChatMessageRoleAssistant,
			Content: fmt.Sprintf("This user is called %s. Do NOT mention their name.", user),
		},
	}

	if len(history) > 0 {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleAssistant,
			Content: fmt.Sprintf("The previous conversations with this user are: %s. Don't greet them again.", FormatHistory(history)),
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: fmt.Sprintf("%s writes: %s.", user, userPrompt),
	})

	return messages
}

// FormatHistory renders prior conversations as repeated "Q: <prompt>, A:
// <response>" segments joined by single spaces.
func FormatHistory(history []HistoryEntry) string {
	segments := make([]string, 0, len(history))
	for _, e := range history {
		segments = append(segments, fmt.Sprintf("Q: %s, A: %s", e.Prompt, e.Response))
	}
	return strings.Join(segments, " ")
}
