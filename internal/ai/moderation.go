package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Moderate submits text to the moderation endpoint and returns the names of
// violated categories. This is a safety-critical path: any failure of the
// underlying call is surfaced to the caller rather than reported as clean.
func (c *sdkClient) Moderate(ctx context.Context, text string) ([]string, error) {
	c.log.DebugContext(ctx, "Requesting moderation check")

	resp, err := c.api.Moderations(ctx, openai.ModerationRequest{
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("moderation API call failed: %w", err)
	}

	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("moderation API returned no results")
	}

	violated := flaggedCategories(resp.Results[0].Categories)
	if len(violated) > 0 {
		c.log.InfoContext(ctx, "Moderation flagged content", "categories", violated)
	}
	return violated, nil
}

// flaggedCategories lists the category names whose flag is set, in the
// order the classification result declares them.
func flaggedCategories(c openai.ResultCategories) []string {
	var violated []string
	for _, cat := range []struct {
		name    string
		flagged bool
	}{
		{"hate", c.Hate},
		{"hate/threatening", c.HateThreatening},
		{"harassment", c.Harassment},
		{"harassment/threatening", c.HarassmentThreatening},
		{"self-harm", c.SelfHarm},
		{"self-harm/intent", c.SelfHarmIntent},
		{"self-harm/instructions", c.SelfHarmInstructions},
		{"sexual", c.Sexual},
		{"sexual/minors", c.SexualMinors},
		{"violence", c.Violence},
		{"violence/graphic", c.ViolenceGraphic},
	} {
		if cat.flagged {
			violated = append(violated, cat.name)
		}
	}
	return violated
}
