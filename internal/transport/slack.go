package transport

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// slackAPI is the subset of the Slack client used by SlackSender.
type slackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackSender posts messages via the Slack Web API.
type SlackSender struct {
	client slackAPI
}

// NewSlackSender creates a Slack sender from a bot token.
func NewSlackSender(botToken string) *SlackSender {
	return &SlackSender{client: slack.New(botToken)}
}

// Name implements Sender.
func (s *SlackSender) Name() string {
	return "slack"
}

// Send posts plain text to a Slack channel. Markup interpretation is
// left disabled so safety tips render exactly as composed.
func (s *SlackSender) Send(ctx context.Context, channelID, text string) error {
	_, _, err := s.client.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("post slack message to %s: %w", channelID, err)
	}
	return nil
}
