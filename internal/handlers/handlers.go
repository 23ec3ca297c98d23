// Package handlers wires the platform webhooks to the OCR, parsing and
// calendar pipeline. Webhook endpoints always answer 200 immediately and
// do the real work in a goroutine: messaging platforms retry aggressively
// on anything else, and a retried image would just be processed twice.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"kairos/internal/common/logging"
	"kairos/internal/config"
	"kairos/internal/messaging"
	"kairos/internal/ocr"
	"kairos/internal/shorturl"
)

// processTimeout bounds one inbound image end to end: media download,
// OCR, and the reply.
const processTimeout = 60 * time.Second

// MediaClient is a platform client that can both reply and fetch inbound
// media.
type MediaClient interface {
	messaging.Sender
	messaging.MediaFetcher
}

// WhatsAppClient adds the WhatsApp-only document attachment flow.
type WhatsAppClient interface {
	MediaClient
	UploadMedia(ctx context.Context, filename, mimeType string, data []byte) (string, error)
	SendDocument(ctx context.Context, recipient, mediaID, filename, caption string) error
}

// Handlers holds the webhook endpoints and their collaborators. Platform
// clients are nil when the platform is not configured; their routes are
// not registered.
type Handlers struct {
	config      *config.Config
	ocr         ocr.TextExtractor
	whatsapp    WhatsAppClient
	twilio      MediaClient
	messagebird MediaClient
	shortener   *shorturl.Service
}

// Options carries the collaborators for New. Any nil platform client
// disables that platform's routes; a nil Shortener disables short links.
type Options struct {
	Config      *config.Config
	OCR         ocr.TextExtractor
	WhatsApp    WhatsAppClient
	Twilio      MediaClient
	MessageBird MediaClient
	Shortener   *shorturl.Service
}

// New creates the webhook handlers.
func New(opts Options) *Handlers {
	return &Handlers{
		config:      opts.Config,
		ocr:         opts.OCR,
		whatsapp:    opts.WhatsApp,
		twilio:      opts.Twilio,
		messagebird: opts.MessageBird,
		shortener:   opts.Shortener,
	}
}

// RegisterRoutes attaches all endpoints to the router.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	if h.whatsapp != nil {
		r.HandleFunc("/webhook/whatsapp", h.VerifyWhatsApp).Methods(http.MethodGet)
		r.HandleFunc("/webhook/whatsapp", h.ReceiveWhatsApp).Methods(http.MethodPost)
	}
	if h.twilio != nil {
		r.HandleFunc("/webhook/twilio", h.ReceiveTwilio).Methods(http.MethodPost)
	}
	if h.messagebird != nil {
		r.HandleFunc("/webhook/messagebird", h.ReceiveMessageBird).Methods(http.MethodPost)
	}
	if h.shortener != nil {
		r.HandleFunc("/r/{id}", h.Redirect).Methods(http.MethodGet)
	}
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
}

// Health reports service liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Redirect resolves a short link and redirects to the calendar provider.
func (h *Handlers) Redirect(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	target, err := h.shortener.Resolve(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// respondOK acknowledges a webhook delivery.
func respondOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// processContext builds the detached context used by the async pipeline.
// The request context dies as soon as the 200 is written.
func processContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), processTimeout)
}

func logSendFailure(platform string, err error) {
	if err != nil {
		logging.Error("sending reply failed", err, logging.String("platform", platform))
	}
}
