package notifier

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younsl/volcost/internal/models"
)

func sampleReport() models.Report {
	return models.Report{
		Title:     "Unattached block storage volumes and their cost (2026-09)",
		TotalLine: "Total cost: $12.00",
		Lines: []string{
			"ID: vol-1, Name: data, Size: 100GB, Previous month cost: $8.00",
			"ID: vol-2, Name: N/A, Size: 50GB, Previous month cost: $4.00",
		},
		Volumes: []models.Volume{{ID: "vol-1"}, {ID: "vol-2"}},
	}
}

func TestWebhookPostsTeamsCard(t *testing.T) {
	var (
		calls       int
		contentType string
		got         TeamsMessage
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	err := NewTeams(server.URL).Send(context.Background(), sampleReport())
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, "application/json", contentType)
	require.Len(t, got.Attachments, 1)
	card := got.Attachments[0].Content
	assert.Equal(t, adaptiveCardContentType, got.Attachments[0].ContentType)
	assert.Equal(t, "AdaptiveCard", card.Type)
	assert.Equal(t, "Full", card.MSTeams["width"])
	require.Len(t, card.Body, 4)
	assert.Equal(t, "ExtraLarge", card.Body[0].Size)
	assert.Equal(t, "Total cost: $12.00", card.Body[1].Text)
	assert.Equal(t, "Large", card.Body[1].Size)
	assert.True(t, card.Body[3].Wrap)
}

func TestWebhookReturnsErrorOnBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("invalid payload\n"))
	}))
	defer server.Close()

	err := NewSlack(server.URL, "").Send(context.Background(), sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "invalid payload")
}

func TestWebhookHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewTeams(server.URL).Send(ctx, sampleReport())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTeamsPayloadEmptyReport(t *testing.T) {
	report := models.Report{Title: "t", TotalLine: "Total cost: $0.00"}

	payload, err := Teams{}.Payload(report)
	require.NoError(t, err)

	body := payload.(TeamsMessage).Attachments[0].Content.Body
	require.Len(t, body, 3)
	assert.Equal(t, "No unattached volumes found.", body[2].Text)
}

func TestTeamsPayloadFailedLookupNote(t *testing.T) {
	report := sampleReport()
	report.FailedLookups = 2

	payload, err := Teams{}.Payload(report)
	require.NoError(t, err)

	body := payload.(TeamsMessage).Attachments[0].Content.Body
	last := body[len(body)-1]
	assert.Equal(t, "Warning", last.Color)
	assert.Contains(t, last.Text, "2 volumes")
}

func TestSlackPayload(t *testing.T) {
	payload, err := Slack{Channel: "#finops"}.Payload(sampleReport())
	require.NoError(t, err)

	msg := payload.(SlackMessage)
	assert.Equal(t, "#finops", msg.Channel)
	require.Len(t, msg.Blocks, 4)
	assert.Equal(t, "header", msg.Blocks[0].Type)
	assert.Equal(t, "*Total cost: $12.00*", msg.Blocks[1].Text.Text)
	assert.Equal(t, sampleReport().Lines[1], msg.Blocks[3].Text.Text)
}

func TestSlackPayloadCapsBlocks(t *testing.T) {
	report := sampleReport()
	report.Lines = nil
	for i := 0; i < 120; i++ {
		report.Lines = append(report.Lines, "line")
	}
	report.FailedLookups = 1

	payload, err := Slack{}.Payload(report)
	require.NoError(t, err)

	blocks := payload.(SlackMessage).Blocks
	assert.Len(t, blocks, slackMaxBlocks)
	// header, total, 46 lines, overflow notice, failure context
	assert.Contains(t, blocks[len(blocks)-2].Text.Text, "74 more volumes")
	assert.Equal(t, "context", blocks[len(blocks)-1].Type)
}

func TestWriterPrintsPayload(t *testing.T) {
	var buf bytes.Buffer

	err := NewWriter(&buf, Slack{}).Send(context.Background(), sampleReport())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(buf.String(), "{\n"))
	assert.Contains(t, buf.String(), `"type": "header"`)
}
