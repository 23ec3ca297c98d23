// Package whatsapp implements the WhatsApp Cloud API (Graph API) client:
// inbound media download, outbound text and document messages, media
// upload, and access-token validation.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"kairos/internal/circuitbreaker"
	"kairos/internal/common/errors"
	commonhttp "kairos/internal/common/http"
	"kairos/internal/common/logging"
)

// Client talks to the Graph API on behalf of one WhatsApp business number.
type Client struct {
	token         string
	phoneNumberID string
	baseURL       string
	http          *http.Client
	breaker       *circuitbreaker.GoBreakerAdapter
}

// Config holds WhatsApp client configuration. BaseURL defaults to the
// production Graph API and is overridable for tests.
type Config struct {
	Token         string
	PhoneNumberID string
	BaseURL       string
	Timeout       time.Duration
}

// NewClient creates a WhatsApp Cloud API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" || cfg.PhoneNumberID == "" {
		return nil, errors.ConfigError("whatsapp token and phone number id are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://graph.facebook.com/v18.0"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		token:         cfg.Token,
		phoneNumberID: cfg.PhoneNumberID,
		baseURL:       cfg.BaseURL,
		http:          commonhttp.NewHTTPClientWithTimeout(cfg.Timeout),
		breaker:       circuitbreaker.NewGoBreaker("whatsapp", circuitbreaker.MessagingConfig, logging.GetGlobalLogger()),
	}, nil
}

type mediaURLResponse struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
}

// mediaURL resolves a media ID to its short-lived download URL.
func (c *Client) mediaURL(ctx context.Context, mediaID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+mediaID, nil)
	if err != nil {
		return "", errors.InternalError("building media url request failed", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.TransportError("resolving whatsapp media url failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.TransportError(fmt.Sprintf("whatsapp media lookup returned status %d", resp.StatusCode), nil)
	}
	var mu mediaURLResponse
	if err := json.NewDecoder(resp.Body).Decode(&mu); err != nil {
		return "", errors.TransportError("decoding whatsapp media url failed", err)
	}
	if mu.URL == "" {
		return "", errors.NotFoundError("whatsapp media url")
	}
	return mu.URL, nil
}

// DownloadMedia fetches inbound media by its media ID. The Graph API
// returns a short-lived URL which must itself be fetched with the bearer
// token.
func (c *Client) DownloadMedia(ctx context.Context, mediaID string) ([]byte, error) {
	var data []byte
	err := c.breaker.Execute(ctx, func() error {
		url, err := c.mediaURL(ctx, mediaID)
		if err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return errors.InternalError("building media download request failed", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.http.Do(req)
		if err != nil {
			return errors.TransportError("downloading whatsapp media failed", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return errors.TransportError(fmt.Sprintf("whatsapp media download returned status %d", resp.StatusCode), nil)
		}
		data, err = io.ReadAll(io.LimitReader(resp.Body, 25<<20))
		if err != nil {
			return errors.TransportError("reading whatsapp media failed", err)
		}
		return nil
	})
	return data, err
}

type sendTextRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

// SendText sends a plain text message.
func (c *Client) SendText(ctx context.Context, recipient, text string) error {
	payload := sendTextRequest{
		MessagingProduct: "whatsapp",
		To:               recipient,
		Type:             "text",
		Text:             textBody{Body: text},
	}
	return c.breaker.Execute(ctx, func() error {
		return c.postMessages(ctx, payload)
	})
}

type sendDocumentRequest struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Document         documentBody `json:"document"`
}

type documentBody struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Caption  string `json:"caption,omitempty"`
}

// SendDocument sends a previously uploaded media item as a document
// attachment.
func (c *Client) SendDocument(ctx context.Context, recipient, mediaID, filename, caption string) error {
	payload := sendDocumentRequest{
		MessagingProduct: "whatsapp",
		To:               recipient,
		Type:             "document",
		Document:         documentBody{ID: mediaID, Filename: filename, Caption: caption},
	}
	return c.breaker.Execute(ctx, func() error {
		return c.postMessages(ctx, payload)
	})
}

func (c *Client) postMessages(ctx context.Context, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.InternalError("encoding whatsapp message failed", err)
	}
	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.InternalError("building whatsapp send request failed", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.TransportError("sending whatsapp message failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		logging.Error("whatsapp send rejected", nil,
			logging.Int("status", resp.StatusCode),
			logging.String("body", string(respBody)))
		return errors.TransportError(fmt.Sprintf("whatsapp send returned status %d", resp.StatusCode), nil)
	}
	return nil
}

type uploadResponse struct {
	ID string `json:"id"`
}

// UploadMedia uploads a file (ICS attachments) and returns the media ID to
// reference in a document message.
func (c *Client) UploadMedia(ctx context.Context, filename, mimeType string, data []byte) (string, error) {
	var mediaID string
	err := c.breaker.Execute(ctx, func() error {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		if err := w.WriteField("messaging_product", "whatsapp"); err != nil {
			return errors.InternalError("writing upload form failed", err)
		}
		if err := w.WriteField("type", mimeType); err != nil {
			return errors.InternalError("writing upload form failed", err)
		}
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			return errors.InternalError("writing upload form failed", err)
		}
		if _, err := part.Write(data); err != nil {
			return errors.InternalError("writing upload form failed", err)
		}
		if err := w.Close(); err != nil {
			return errors.InternalError("writing upload form failed", err)
		}

		url := fmt.Sprintf("%s/%s/media", c.baseURL, c.phoneNumberID)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
		if err != nil {
			return errors.InternalError("building upload request failed", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", w.FormDataContentType())

		resp, err := c.http.Do(req)
		if err != nil {
			return errors.TransportError("uploading whatsapp media failed", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return errors.TransportError(fmt.Sprintf("whatsapp upload returned status %d", resp.StatusCode), nil)
		}
		var up uploadResponse
		if err := json.NewDecoder(resp.Body).Decode(&up); err != nil {
			return errors.TransportError("decoding upload response failed", err)
		}
		if up.ID == "" {
			return errors.TransportError("whatsapp upload returned no media id", nil)
		}
		mediaID = up.ID
		return nil
	})
	return mediaID, err
}

// ValidateToken checks that the access token is still accepted by the
// Graph API. A 401 means the token expired and operators need to rotate
// it.
func (c *Client) ValidateToken(ctx context.Context) error {
	url := fmt.Sprintf("%s/%s?fields=id", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.InternalError("building token check request failed", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.TransportError("whatsapp token check failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return errors.AuthError("whatsapp access token is expired or invalid")
	default:
		return errors.TransportError(fmt.Sprintf("whatsapp token check returned status %d", resp.StatusCode), nil)
	}
}
