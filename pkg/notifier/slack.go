package notifier

import (
	"fmt"

	"github.com/younsl/volcost/internal/models"
)

// slackMaxBlocks is the block limit Slack enforces per message
const slackMaxBlocks = 50

// SlackMessage is the body accepted by a Slack incoming webhook
type SlackMessage struct {
	Channel string       `json:"channel,omitempty"`
	Text    string       `json:"text"`
	Blocks  []SlackBlock `json:"blocks"`
}

// SlackBlock is a header, section or context block
type SlackBlock struct {
	Type     string      `json:"type"`
	Text     *SlackText  `json:"text,omitempty"`
	Elements []SlackText `json:"elements,omitempty"`
}

// SlackText is a text object
type SlackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Slack renders reports as Block Kit messages
type Slack struct {
	Channel string
}

// NewSlack creates a webhook notifier for a Slack incoming webhook.
// An empty channel posts to the webhook's default channel.
func NewSlack(url, channel string) *Webhook {
	return NewWebhook(url, Slack{Channel: channel}, nil)
}

// Payload builds a header, the total and one section per volume line
func (s Slack) Payload(report models.Report) (any, error) {
	blocks := []SlackBlock{
		{Type: "header", Text: &SlackText{Type: "plain_text", Text: report.Title}},
		{Type: "section", Text: &SlackText{Type: "mrkdwn", Text: "*" + report.TotalLine + "*"}},
	}

	if report.Empty() {
		blocks = append(blocks, section("No unattached volumes found."))
	}

	var footer []SlackBlock
	if report.FailedLookups > 0 {
		footer = append(footer, SlackBlock{
			Type:     "context",
			Elements: []SlackText{{Type: "mrkdwn", Text: failedLookupNote(report.FailedLookups)}},
		})
	}

	room := slackMaxBlocks - len(blocks) - len(footer)
	lines := report.Lines
	if len(lines) > room {
		// keep one block for the overflow notice
		shown := room - 1
		hidden := len(lines) - shown
		lines = lines[:shown]
		footer = append([]SlackBlock{section(fmt.Sprintf("_…and %d more volumes_", hidden))}, footer...)
	}
	for _, line := range lines {
		blocks = append(blocks, section(line))
	}
	blocks = append(blocks, footer...)

	return SlackMessage{
		Channel: s.Channel,
		Text:    report.Title + ": " + report.TotalLine,
		Blocks:  blocks,
	}, nil
}

func section(text string) SlackBlock {
	return SlackBlock{Type: "section", Text: &SlackText{Type: "mrkdwn", Text: text}}
}

func failedLookupNote(n int) string {
	if n == 1 {
		return "Cost lookup failed for 1 volume; its cost is reported as 0."
	}
	return fmt.Sprintf("Cost lookup failed for %d volumes; their cost is reported as 0.", n)
}
