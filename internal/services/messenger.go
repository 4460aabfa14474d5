package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

const defaultSendAPIURL = "https://graph.facebook.com/v19.0/me/messages"

// MessengerService delivers outbound messages through the messaging
// platform's Send API. Sends are best-effort: failures are logged, not
// retried — there is no secondary channel to notify the user anyway.
type MessengerService struct {
	pageToken  string
	apiURL     string
	httpClient *http.Client
}

// NewMessengerService creates a new Send API client
func NewMessengerService() (*MessengerService, error) {
	pageToken := os.Getenv("PAGE_ACCESS_TOKEN")
	if pageToken == "" {
		return nil, fmt.Errorf("missing PAGE_ACCESS_TOKEN in environment variables")
	}

	apiURL := os.Getenv("SEND_API_URL")
	if apiURL == "" {
		apiURL = defaultSendAPIURL
	}

	return &MessengerService{
		pageToken:  pageToken,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type sendRequest struct {
	Recipient struct {
		ID string `json:"id"`
	} `json:"recipient"`
	MessagingType string  `json:"messaging_type"`
	Message       Message `json:"message"`
}

// Send delivers one message to a messaging-platform user.
func (m *MessengerService) Send(userID string, msg Message) error {
	req := sendRequest{MessagingType: "RESPONSE", Message: msg}
	req.Recipient.ID = userID

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, m.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build send request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	q := httpReq.URL.Query()
	q.Set("access_token", m.pageToken)
	httpReq.URL.RawQuery = q.Encode()

	resp, err := m.httpClient.Do(httpReq)
	if err != nil {
		log.Printf("❌ Failed to send message to %s: %v", userID, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("❌ Send API returned %d for %s: %s", resp.StatusCode, userID, string(data))
		return fmt.Errorf("send API returned %d", resp.StatusCode)
	}

	return nil
}
