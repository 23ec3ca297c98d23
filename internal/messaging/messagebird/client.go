// Package messagebird implements the MessageBird Conversations API client:
// replies into an existing conversation and inbound media download.
package messagebird

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"kairos/internal/circuitbreaker"
	"kairos/internal/common/errors"
	commonhttp "kairos/internal/common/http"
	"kairos/internal/common/logging"
)

// Client talks to the MessageBird Conversations API.
type Client struct {
	accessKey string
	baseURL   string
	http      *http.Client
	breaker   *circuitbreaker.GoBreakerAdapter
}

// Config holds MessageBird client configuration. BaseURL defaults to the
// production Conversations API and is overridable for tests.
type Config struct {
	AccessKey string
	BaseURL   string
	Timeout   time.Duration
}

// NewClient creates a MessageBird client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.AccessKey == "" {
		return nil, errors.ConfigError("messagebird access key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://conversations.messagebird.com/v1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		accessKey: cfg.AccessKey,
		baseURL:   cfg.BaseURL,
		http:      commonhttp.NewHTTPClientWithTimeout(cfg.Timeout),
		breaker:   circuitbreaker.NewGoBreaker("messagebird", circuitbreaker.MessagingConfig, logging.GetGlobalLogger()),
	}, nil
}

type sendMessageRequest struct {
	Type    string      `json:"type"`
	Content textContent `json:"content"`
}

type textContent struct {
	Text string `json:"text"`
}

// SendText replies into a conversation. The recipient is the conversation
// ID from the inbound webhook, not a phone number.
func (c *Client) SendText(ctx context.Context, conversationID, text string) error {
	payload := sendMessageRequest{Type: "text", Content: textContent{Text: text}}
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.InternalError("encoding messagebird message failed", err)
	}

	endpoint := fmt.Sprintf("%s/conversations/%s/messages", c.baseURL, conversationID)
	return c.breaker.Execute(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return errors.InternalError("building messagebird send request failed", err)
		}
		req.Header.Set("Authorization", "AccessKey "+c.accessKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return errors.TransportError("sending messagebird message failed", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			logging.Error("messagebird send rejected", nil,
				logging.Int("status", resp.StatusCode),
				logging.String("body", string(respBody)))
			return errors.TransportError(fmt.Sprintf("messagebird send returned status %d", resp.StatusCode), nil)
		}
		return nil
	})
}

// DownloadMedia fetches inbound media by the URL carried in the webhook
// payload.
func (c *Client) DownloadMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	var data []byte
	err := c.breaker.Execute(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
		if err != nil {
			return errors.InternalError("building media download request failed", err)
		}
		req.Header.Set("Authorization", "AccessKey "+c.accessKey)

		resp, err := c.http.Do(req)
		if err != nil {
			return errors.TransportError("downloading messagebird media failed", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return errors.TransportError(fmt.Sprintf("messagebird media download returned status %d", resp.StatusCode), nil)
		}
		data, err = io.ReadAll(io.LimitReader(resp.Body, 25<<20))
		if err != nil {
			return errors.TransportError("reading messagebird media failed", err)
		}
		return nil
	})
	return data, err
}
