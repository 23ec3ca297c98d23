package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"kairos/internal/common/logging"
)

// whatsAppPayload is the Cloud API webhook envelope, reduced to the fields
// the assistant reads.
type whatsAppPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []whatsAppMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type whatsAppMessage struct {
	From  string `json:"from"`
	Type  string `json:"type"`
	Image struct {
		ID string `json:"id"`
	} `json:"image"`
	Text struct {
		Body string `json:"body"`
	} `json:"text"`
}

// VerifyWhatsApp answers Meta's webhook subscription handshake: echo
// hub.challenge when the verify token matches, 403 otherwise.
func (h *Handlers) VerifyWhatsApp(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == h.config.WhatsAppVerifyToken {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(q.Get("hub.challenge")))
		return
	}
	logging.Warn("whatsapp webhook verification rejected")
	w.WriteHeader(http.StatusForbidden)
}

// ReceiveWhatsApp handles inbound Cloud API deliveries. Status updates and
// unsupported message types are acknowledged and ignored.
func (h *Handlers) ReceiveWhatsApp(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		respondOK(w)
		return
	}

	var payload whatsAppPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		logging.Warn("unparseable whatsapp webhook payload", logging.Err(err))
		respondOK(w)
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				h.dispatchWhatsApp(msg)
			}
		}
	}
	respondOK(w)
}

func (h *Handlers) dispatchWhatsApp(msg whatsAppMessage) {
	switch msg.Type {
	case "image":
		mediaID := msg.Image.ID
		recipient := msg.From
		go func() {
			ctx, cancel := processContext()
			defer cancel()

			image, err := h.whatsapp.DownloadMedia(ctx, mediaID)
			if err != nil {
				logging.Error("downloading whatsapp media failed", err)
				logSendFailure("whatsapp", h.whatsapp.SendText(ctx, recipient, "Sorry, I couldn't download that image. Please try sending it again."))
				return
			}
			h.processImage(ctx, "whatsapp", h.whatsapp, recipient, image)
		}()
	case "text":
		recipient := msg.From
		go func() {
			ctx, cancel := processContext()
			defer cancel()
			h.replyHelp(ctx, "whatsapp", h.whatsapp, recipient)
		}()
	default:
		logging.Debug("ignoring whatsapp message", logging.String("type", msg.Type))
	}
}
