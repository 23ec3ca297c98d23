package handlers

import (
	"context"

	"kairos/internal/calendar"
	"kairos/internal/common/errors"
	"kairos/internal/common/logging"
	"kairos/internal/messaging"
	"kairos/internal/parser"
)

// processImage runs the core pipeline for one inbound invitation image:
// OCR, parse, build links, reply. It never returns an error; every outcome
// ends in some reply to the user.
func (h *Handlers) processImage(ctx context.Context, platform string, sender messaging.Sender, recipient string, image []byte) {
	text, err := h.ocr.ExtractText(ctx, image)
	if err != nil {
		logging.Error("ocr failed", err, logging.String("platform", platform))
		reply := messaging.ProcessingFailedMessage
		if errors.IsType(err, errors.ErrTypeOCR) || errors.IsType(err, errors.ErrTypeValidation) {
			reply = messaging.UnreadableMessage
		}
		logSendFailure(platform, sender.SendText(ctx, recipient, reply))
		return
	}

	details := parser.Parse(text)
	if !details.Usable() {
		logging.Info("invitation did not yield usable event details",
			logging.String("platform", platform))
		logSendFailure(platform, sender.SendText(ctx, recipient, messaging.UnreadableMessage))
		return
	}

	links := calendar.BuildLinks(details)
	if h.shortener != nil {
		links = h.shortener.ShortenLinks(ctx, links)
	}

	logging.Info("invitation processed",
		logging.String("platform", platform),
		logging.String("title", details.Title))
	logSendFailure(platform, sender.SendText(ctx, recipient, messaging.FormatEventMessage(details, links)))

	if platform == "whatsapp" {
		h.sendCalendarAttachment(ctx, recipient, details)
	}
}

// sendCalendarAttachment uploads an ICS file and sends it as a document.
// Attachment failures are logged only; the user already has the links.
func (h *Handlers) sendCalendarAttachment(ctx context.Context, recipient string, details *parser.EventDetails) {
	ics, err := calendar.BuildICS(details)
	if err != nil {
		logging.Error("building ics attachment failed", err)
		return
	}
	mediaID, err := h.whatsapp.UploadMedia(ctx, "invite.ics", "text/calendar", []byte(ics))
	if err != nil {
		logging.Error("uploading ics attachment failed", err)
		return
	}
	if err := h.whatsapp.SendDocument(ctx, recipient, mediaID, "invite.ics", details.Title); err != nil {
		logging.Error("sending ics attachment failed", err)
	}
}

// replyHelp answers text messages with usage instructions.
func (h *Handlers) replyHelp(ctx context.Context, platform string, sender messaging.Sender, recipient string) {
	logSendFailure(platform, sender.SendText(ctx, recipient, messaging.HelpMessage))
}
