package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MessengerSender delivers texts through the platform messaging send API.
type MessengerSender struct {
	apiURL      string
	accessToken string
	httpClient  *http.Client
}

func NewMessengerSender(apiURL, accessToken string) (*MessengerSender, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("messaging access token not set")
	}
	return &MessengerSender{
		apiURL:      apiURL,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type sendRequest struct {
	Recipient struct {
		ID string `json:"id"`
	} `json:"recipient"`
	Message struct {
		Text string `json:"text"`
	} `json:"message"`
	MessagingType string `json:"messaging_type"`
}

type sendResponse struct {
	MessageID string `json:"message_id"`
	Error     *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (s *MessengerSender) SendText(ctx context.Context, shopperID, text string) (SendResult, error) {
	var payload sendRequest
	payload.Recipient.ID = shopperID
	payload.Message.Text = text
	payload.MessagingType = "MESSAGE_TAG"

	body, err := json.Marshal(payload)
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to marshal send request: %w", err)
	}

	url := fmt.Sprintf("%s?access_token=%s", s.apiURL, s.accessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return SendResult{}, fmt.Errorf("send request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var parsed sendResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return SendResult{}, fmt.Errorf("unexpected send response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || parsed.Error != nil {
		msg := "unknown error"
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return SendResult{}, fmt.Errorf("send rejected (status %d): %s", resp.StatusCode, msg)
	}

	return SendResult{MessageID: parsed.MessageID}, nil
}
