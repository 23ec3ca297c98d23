// Package ocr extracts text from invitation images via the Google Cloud
// Vision REST API.
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
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

// TextExtractor is the interface the webhook handlers consume.
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// Client calls the Vision images:annotate endpoint. All calls run through
// a circuit breaker so a Vision outage cannot pile up in-flight webhook
// goroutines.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	breaker *circuitbreaker.GoBreakerAdapter
}

// Config holds Vision client configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a Vision OCR client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.ConfigError("vision api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://vision.googleapis.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		http:    commonhttp.NewHTTPClientWithTimeout(cfg.Timeout),
		breaker: circuitbreaker.NewGoBreaker("vision-ocr", circuitbreaker.OCRConfig, logging.GetGlobalLogger()),
	}, nil
}

type annotateRequest struct {
	Requests []imageRequest `json:"requests"`
}

type imageRequest struct {
	Image    imageContent `json:"image"`
	Features []feature    `json:"features"`
}

type imageContent struct {
	Content string `json:"content"`
}

type feature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults,omitempty"`
}

type annotateResponse struct {
	Responses []struct {
		TextAnnotations []struct {
			Description string `json:"description"`
		} `json:"textAnnotations"`
		FullTextAnnotation struct {
			Text string `json:"text"`
		} `json:"fullTextAnnotation"`
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

// ExtractText runs TEXT_DETECTION on the image and returns the full
// recognized text. An empty result is an OCR error: the caller has nothing
// to parse.
func (c *Client) ExtractText(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", errors.ValidationError("image data is empty")
	}

	var text string
	err := c.breaker.Execute(ctx, func() error {
		var err error
		text, err = c.annotate(ctx, image)
		return err
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func (c *Client) annotate(ctx context.Context, image []byte) (string, error) {
	payload := annotateRequest{
		Requests: []imageRequest{{
			Image:    imageContent{Content: base64.StdEncoding.EncodeToString(image)},
			Features: []feature{{Type: "TEXT_DETECTION", MaxResults: 1}},
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.InternalError("encoding vision request failed", err)
	}

	url := fmt.Sprintf("%s/v1/images:annotate?key=%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", errors.InternalError("building vision request failed", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.OCRError("vision request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", errors.OCRError("reading vision response failed", err)
	}
	if resp.StatusCode != http.StatusOK {
		logging.Error("vision api returned an error", nil,
			logging.Int("status", resp.StatusCode),
			logging.String("body", truncate(string(respBody), 500)))
		return "", errors.OCRError(fmt.Sprintf("vision api returned status %d", resp.StatusCode), nil)
	}

	var annotated annotateResponse
	if err := json.Unmarshal(respBody, &annotated); err != nil {
		return "", errors.OCRError("decoding vision response failed", err)
	}
	if len(annotated.Responses) == 0 {
		return "", errors.OCRError("vision response contained no results", nil)
	}

	r := annotated.Responses[0]
	if r.Error.Message != "" {
		return "", errors.OCRError("vision api error: "+r.Error.Message, nil)
	}
	if len(r.TextAnnotations) > 0 && r.TextAnnotations[0].Description != "" {
		return r.TextAnnotations[0].Description, nil
	}
	if r.FullTextAnnotation.Text != "" {
		return r.FullTextAnnotation.Text, nil
	}
	return "", errors.OCRError("no text detected in image", nil)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
