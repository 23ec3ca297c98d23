package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"kairos/internal/common/logging"
)

// messageBirdPayload is the Conversations API webhook envelope, reduced to
// the fields the assistant reads. Replies go back into the conversation,
// so the conversation ID is the recipient.
type messageBirdPayload struct {
	Type    string `json:"type"`
	Message struct {
		ConversationID string `json:"conversationId"`
		Type           string `json:"type"`
		Content        struct {
			Image struct {
				URL string `json:"url"`
			} `json:"image"`
		} `json:"content"`
	} `json:"message"`
}

// ReceiveMessageBird handles inbound Conversations API events.
func (h *Handlers) ReceiveMessageBird(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		respondOK(w)
		return
	}

	var payload messageBirdPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		logging.Warn("unparseable messagebird webhook payload", logging.Err(err))
		respondOK(w)
		return
	}

	if payload.Type != "message.created" && payload.Type != "message.received" {
		respondOK(w)
		return
	}
	conversationID := payload.Message.ConversationID
	if conversationID == "" {
		respondOK(w)
		return
	}

	switch payload.Message.Type {
	case "image":
		mediaURL := payload.Message.Content.Image.URL
		go func() {
			ctx, cancel := processContext()
			defer cancel()

			image, err := h.messagebird.DownloadMedia(ctx, mediaURL)
			if err != nil {
				logging.Error("downloading messagebird media failed", err)
				logSendFailure("messagebird", h.messagebird.SendText(ctx, conversationID, "Sorry, I couldn't download that image. Please try sending it again."))
				return
			}
			h.processImage(ctx, "messagebird", h.messagebird, conversationID, image)
		}()
	case "text":
		go func() {
			ctx, cancel := processContext()
			defer cancel()
			h.replyHelp(ctx, "messagebird", h.messagebird, conversationID)
		}()
	default:
		logging.Debug("ignoring messagebird message", logging.String("type", payload.Message.Type))
	}
	respondOK(w)
}
