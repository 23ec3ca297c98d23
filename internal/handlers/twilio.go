package handlers

import (
	"net/http"

	"kairos/internal/common/logging"
)

// ReceiveTwilio handles Twilio's form-encoded inbound message webhook.
// Media arrives as pre-authorized URLs in MediaUrl0..N; only the first is
// processed.
func (h *Handlers) ReceiveTwilio(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		logging.Warn("unparseable twilio webhook form", logging.Err(err))
		respondOK(w)
		return
	}

	from := r.PostFormValue("From")
	mediaURL := r.PostFormValue("MediaUrl0")

	if from == "" {
		respondOK(w)
		return
	}

	if mediaURL != "" {
		go func() {
			ctx, cancel := processContext()
			defer cancel()

			image, err := h.twilio.DownloadMedia(ctx, mediaURL)
			if err != nil {
				logging.Error("downloading twilio media failed", err)
				logSendFailure("twilio", h.twilio.SendText(ctx, from, "Sorry, I couldn't download that image. Please try sending it again."))
				return
			}
			h.processImage(ctx, "twilio", h.twilio, from, image)
		}()
	} else {
		go func() {
			ctx, cancel := processContext()
			defer cancel()
			h.replyHelp(ctx, "twilio", h.twilio, from)
		}()
	}
	respondOK(w)
}
