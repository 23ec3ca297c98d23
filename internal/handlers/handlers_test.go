package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kairos/internal/common/errors"
	"kairos/internal/config"
	"kairos/internal/messaging"
)

type fakeOCR struct {
	text string
	err  error
}

func (f *fakeOCR) ExtractText(ctx context.Context, image []byte) (string, error) {
	return f.text, f.err
}

type sentMessage struct {
	recipient string
	text      string
}

// fakeClient records sends and serves canned media, signalling done so
// tests can wait for the async pipeline.
type fakeClient struct {
	mu    sync.Mutex
	sent  []sentMessage
	media []byte
	done  chan struct{}
}

func newFakeClient(media []byte) *fakeClient {
	return &fakeClient{media: media, done: make(chan struct{}, 10)}
}

func (f *fakeClient) SendText(ctx context.Context, recipient, text string) error {
	f.mu.Lock()
	f.sent = append(f.sent, sentMessage{recipient: recipient, text: text})
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func (f *fakeClient) DownloadMedia(ctx context.Context, ref string) ([]byte, error) {
	if f.media == nil {
		return nil, errors.TransportError("no media", nil)
	}
	return f.media, nil
}

func (f *fakeClient) UploadMedia(ctx context.Context, filename, mimeType string, data []byte) (string, error) {
	return "media-1", nil
}

func (f *fakeClient) SendDocument(ctx context.Context, recipient, mediaID, filename, caption string) error {
	f.done <- struct{}{}
	return nil
}

func (f *fakeClient) waitForSend(t *testing.T) sentMessage {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a reply")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

const invitationText = `WEDDING INVITATION
Gabriella Squilloni and Marco Cavallaro
invite you to the
MARRIAGE
of their children
SILVIA & JAMES EDMUND
SATURDAY
03.01.2015
4 pm
reception to follow
LANDTSCAP`

func testConfig() *config.Config {
	return &config.Config{
		Port:                "8080",
		BaseURL:             "http://localhost:8080",
		WhatsAppVerifyToken: "verify-me",
	}
}

func newTestRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func TestVerifyWhatsApp(t *testing.T) {
	h := New(Options{
		Config:   testConfig(),
		OCR:      &fakeOCR{},
		WhatsApp: newFakeClient(nil),
	})
	router := newTestRouter(h)

	t.Run("valid token echoes challenge", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/webhook/whatsapp?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=12345", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "12345", rec.Body.String())
	})

	t.Run("wrong token is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/webhook/whatsapp?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestReceiveWhatsAppImage(t *testing.T) {
	client := newFakeClient([]byte("image-bytes"))
	h := New(Options{
		Config:   testConfig(),
		OCR:      &fakeOCR{text: invitationText},
		WhatsApp: client,
	})
	router := newTestRouter(h)

	payload := `{"entry":[{"changes":[{"value":{"messages":[{"from":"27821234567","type":"image","image":{"id":"media-9"}}]}}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	msg := client.waitForSend(t)
	assert.Equal(t, "27821234567", msg.recipient)
	assert.Contains(t, msg.text, "Silvia")
	assert.Contains(t, msg.text, "calendar.google.com")
	assert.Contains(t, msg.text, "Outlook")
}

func TestReceiveWhatsAppTextGetsHelp(t *testing.T) {
	client := newFakeClient(nil)
	h := New(Options{
		Config:   testConfig(),
		OCR:      &fakeOCR{},
		WhatsApp: client,
	})
	router := newTestRouter(h)

	payload := `{"entry":[{"changes":[{"value":{"messages":[{"from":"27821234567","type":"text","text":{"body":"hi"}}]}}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	msg := client.waitForSend(t)
	assert.Equal(t, messaging.HelpMessage, msg.text)
}

func TestReceiveWhatsAppMalformedPayloadStillOK(t *testing.T) {
	h := New(Options{
		Config:   testConfig(),
		OCR:      &fakeOCR{},
		WhatsApp: newFakeClient(nil),
	})
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReceiveWhatsAppUnreadableImage(t *testing.T) {
	client := newFakeClient([]byte("image-bytes"))
	h := New(Options{
		Config:   testConfig(),
		OCR:      &fakeOCR{err: errors.OCRError("no text detected in image", nil)},
		WhatsApp: client,
	})
	router := newTestRouter(h)

	payload := `{"entry":[{"changes":[{"value":{"messages":[{"from":"27821234567","type":"image","image":{"id":"media-9"}}]}}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	msg := client.waitForSend(t)
	assert.Equal(t, messaging.UnreadableMessage, msg.text)
}

func TestReceiveTwilioImage(t *testing.T) {
	client := newFakeClient([]byte("image-bytes"))
	h := New(Options{
		Config: testConfig(),
		OCR:    &fakeOCR{text: invitationText},
		Twilio: client,
	})
	router := newTestRouter(h)

	form := url.Values{}
	form.Set("From", "whatsapp:+27821234567")
	form.Set("MediaUrl0", "https://api.twilio.com/media/abc")
	req := httptest.NewRequest(http.MethodPost, "/webhook/twilio", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	msg := client.waitForSend(t)
	assert.Equal(t, "whatsapp:+27821234567", msg.recipient)
	assert.Contains(t, msg.text, "calendar.google.com")
}

func TestReceiveTwilioTextGetsHelp(t *testing.T) {
	client := newFakeClient(nil)
	h := New(Options{
		Config: testConfig(),
		OCR:    &fakeOCR{},
		Twilio: client,
	})
	router := newTestRouter(h)

	form := url.Values{}
	form.Set("From", "whatsapp:+27821234567")
	form.Set("Body", "hello")
	req := httptest.NewRequest(http.MethodPost, "/webhook/twilio", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	msg := client.waitForSend(t)
	assert.Equal(t, messaging.HelpMessage, msg.text)
}

func TestReceiveMessageBirdImage(t *testing.T) {
	client := newFakeClient([]byte("image-bytes"))
	h := New(Options{
		Config:      testConfig(),
		OCR:         &fakeOCR{text: invitationText},
		MessageBird: client,
	})
	router := newTestRouter(h)

	payload := `{"type":"message.created","message":{"conversationId":"conv-1","type":"image","content":{"image":{"url":"https://media.messagebird.com/abc"}}}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook/messagebird", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	msg := client.waitForSend(t)
	assert.Equal(t, "conv-1", msg.recipient)
	assert.Contains(t, msg.text, "calendar.google.com")
}

func TestUnconfiguredPlatformsHaveNoRoutes(t *testing.T) {
	h := New(Options{Config: testConfig(), OCR: &fakeOCR{}})
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	h := New(Options{Config: testConfig(), OCR: &fakeOCR{}})
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
