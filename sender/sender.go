package sender

import "context"

// SendResult carries the provider's message id for a delivered message.
type SendResult struct {
	MessageID string
}

// MessageSender delivers a text message to a shopper through the chat
// messaging API.
type MessageSender interface {
	SendText(ctx context.Context, shopperID, text string) (SendResult, error)
}
