// Package bot implements the core relay bot: mention parsing, the
// conversation cache, rate gating, strike tracking, and the message router
// that orchestrates them.
package bot

import (
	"regexp"
	"strings"
)

// mentionPattern recognizes a leading user or role mention token of the form
// <@DIGITS> or <@&DIGITS>, optionally followed by a space and trailing text.
var mentionPattern = regexp.MustCompile(`<@&?(\d+)> ?(.*)`)

// Mention is the result of parsing a message for a leading mention token.
// The zero value means no mention was found.
type Mention struct {
	TargetUserID   string
	MessageContent string
}

// ParseMention extracts a target-user reference and trailing message text
// from raw input. When no mention token is present both fields are empty.
// Whitespace around the trailing content is trimmed.
func ParseMention(text string) Mention {
	match := mentionPattern.FindStringSubmatch(text)
	if match == nil {
		return Mention{}
	}
	return Mention{
		TargetUserID:   match[1],
		MessageContent: strings.TrimSpace(match[2]),
	}
}
