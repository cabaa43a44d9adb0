package notifier

import "github.com/younsl/volcost/internal/models"

const (
	adaptiveCardSchema      = "http://adaptivecards.io/schemas/adaptive-card.json"
	adaptiveCardVersion     = "1.5"
	adaptiveCardContentType = "application/vnd.microsoft.card.adaptive"
)

// TeamsMessage is the body accepted by a Teams workflow webhook
type TeamsMessage struct {
	Attachments []TeamsAttachment `json:"attachments"`
}

// TeamsAttachment wraps one adaptive card
type TeamsAttachment struct {
	ContentType string       `json:"contentType"`
	Content     AdaptiveCard `json:"content"`
}

// AdaptiveCard is the card rendered in the channel
type AdaptiveCard struct {
	Schema  string         `json:"$schema"`
	Type    string         `json:"type"`
	MSTeams map[string]any `json:"msteams,omitempty"`
	Version string         `json:"version"`
	Body    []TextBlock    `json:"body"`
}

// TextBlock is an adaptive card text element
type TextBlock struct {
	Type   string `json:"type"`
	Text   string `json:"text"`
	Weight string `json:"weight,omitempty"`
	Size   string `json:"size,omitempty"`
	Color  string `json:"color,omitempty"`
	Wrap   bool   `json:"wrap"`
}

// Teams renders reports as adaptive cards
type Teams struct{}

// NewTeams creates a webhook notifier for a Teams workflow URL
func NewTeams(url string) *Webhook {
	return NewWebhook(url, Teams{}, nil)
}

// Payload builds the Teams workflow message: headline, total, one line per volume
func (Teams) Payload(report models.Report) (any, error) {
	body := []TextBlock{
		{Type: "TextBlock", Text: report.Title, Weight: "Bolder", Size: "ExtraLarge", Wrap: true},
		{Type: "TextBlock", Text: report.TotalLine, Weight: "Bolder", Size: "Large", Wrap: true},
	}

	if report.Empty() {
		body = append(body, TextBlock{Type: "TextBlock", Text: "No unattached volumes found.", Color: "Good", Wrap: true})
	}

	for _, line := range report.Lines {
		body = append(body, TextBlock{Type: "TextBlock", Text: line, Wrap: true})
	}

	if report.FailedLookups > 0 {
		body = append(body, TextBlock{
			Type:  "TextBlock",
			Text:  failedLookupNote(report.FailedLookups),
			Color: "Warning",
			Wrap:  true,
		})
	}

	return TeamsMessage{
		Attachments: []TeamsAttachment{{
			ContentType: adaptiveCardContentType,
			Content: AdaptiveCard{
				Schema:  adaptiveCardSchema,
				Type:    "AdaptiveCard",
				MSTeams: map[string]any{"width": "Full"},
				Version: adaptiveCardVersion,
				Body:    body,
			},
		}},
	}, nil
}
