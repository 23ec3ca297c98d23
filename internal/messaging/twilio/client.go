// Package twilio implements the Twilio Messages API client used for the
// WhatsApp-via-Twilio channel: outbound text replies and inbound media
// download.
package twilio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kairos/internal/circuitbreaker"
	"kairos/internal/common/errors"
	commonhttp "kairos/internal/common/http"
	"kairos/internal/common/logging"
)

// Client talks to the Twilio REST API for one account.
type Client struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	http       *http.Client
	breaker    *circuitbreaker.GoBreakerAdapter
}

// Config holds Twilio client configuration. BaseURL defaults to the
// production API and is overridable for tests.
type Config struct {
	AccountSID string
	AuthToken  string
	From       string
	BaseURL    string
	Timeout    time.Duration
}

// NewClient creates a Twilio messaging client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, errors.ConfigError("twilio account sid and auth token are required")
	}
	if cfg.From == "" {
		cfg.From = "whatsapp:+14155238886"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.twilio.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.From,
		baseURL:    cfg.BaseURL,
		http:       commonhttp.NewHTTPClientWithTimeout(cfg.Timeout),
		breaker:    circuitbreaker.NewGoBreaker("twilio", circuitbreaker.MessagingConfig, logging.GetGlobalLogger()),
	}, nil
}

// SendText sends a message through the Messages endpoint. Recipient is in
// Twilio's "whatsapp:+123..." form, as received in the webhook.
func (c *Client) SendText(ctx context.Context, recipient, text string) error {
	form := url.Values{}
	form.Set("From", c.from)
	form.Set("To", recipient)
	form.Set("Body", text)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	return c.breaker.Execute(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return errors.InternalError("building twilio send request failed", err)
		}
		req.SetBasicAuth(c.accountSID, c.authToken)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.http.Do(req)
		if err != nil {
			return errors.TransportError("sending twilio message failed", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			logging.Error("twilio send rejected", nil,
				logging.Int("status", resp.StatusCode),
				logging.String("body", string(body)))
			return errors.TransportError(fmt.Sprintf("twilio send returned status %d", resp.StatusCode), nil)
		}
		return nil
	})
}

// DownloadMedia fetches inbound media by the MediaUrl0 URL from the
// webhook form. Twilio media URLs require basic auth with the account
// credentials.
func (c *Client) DownloadMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	var data []byte
	err := c.breaker.Execute(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
		if err != nil {
			return errors.InternalError("building media download request failed", err)
		}
		req.SetBasicAuth(c.accountSID, c.authToken)

		resp, err := c.http.Do(req)
		if err != nil {
			return errors.TransportError("downloading twilio media failed", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return errors.TransportError(fmt.Sprintf("twilio media download returned status %d", resp.StatusCode), nil)
		}
		data, err = io.ReadAll(io.LimitReader(resp.Body, 25<<20))
		if err != nil {
			return errors.TransportError("reading twilio media failed", err)
		}
		return nil
	})
	return data, err
}
