package transport

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// lineAPI is the subset of the LINE Messaging API used by LineSender.
type lineAPI interface {
	PushMessage(request *messaging_api.PushMessageRequest, xLineRetryKey string) (*messaging_api.PushMessageResponse, error)
}

// LineSender pushes messages via the LINE Messaging API.
type LineSender struct {
	client lineAPI
}

// NewLineSender creates a LINE sender from a channel access token.
func NewLineSender(channelToken string) (*LineSender, error) {
	client, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("create messaging API client: %w", err)
	}
	return &LineSender{client: client}, nil
}

// Name implements Sender.
func (s *LineSender) Name() string {
	return "line"
}

// Send pushes plain text to a LINE chat. A fresh retry key is attached
// so the API can deduplicate retried pushes.
func (s *LineSender) Send(ctx context.Context, channelID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := &messaging_api.PushMessageRequest{
		To: channelID,
		Messages: []messaging_api.MessageInterface{
			&messaging_api.TextMessage{Text: text},
		},
	}
	if _, err := s.client.PushMessage(req, uuid.NewString()); err != nil {
		return fmt.Errorf("push line message to %s: %w", channelID, err)
	}
	return nil
}
