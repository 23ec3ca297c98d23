// Package messaging defines the contract the webhook handlers use to reply
// to users and the shared message formatting, independent of which
// platform (WhatsApp, Twilio, MessageBird) carries the conversation.
package messaging

import (
	"context"
	"fmt"
	"strings"

	"kairos/internal/calendar"
	"kairos/internal/parser"
)

// Sender delivers replies back to a user on one platform.
type Sender interface {
	// SendText sends a plain text message to the recipient.
	SendText(ctx context.Context, recipient, text string) error
}

// MediaFetcher downloads inbound media referenced by a webhook payload.
type MediaFetcher interface {
	// DownloadMedia fetches the bytes of a media item by its platform
	// reference (a media ID or a direct URL, depending on the platform).
	DownloadMedia(ctx context.Context, ref string) ([]byte, error)
}

// Canned replies sent by the webhook handlers.
const (
	HelpMessage = "Hi! Send me a photo of an event invitation and I'll reply " +
		"with add-to-calendar links for Google, Outlook, Yahoo and Apple."

	UnreadableMessage = "Sorry, I couldn't read the event details from that " +
		"image. Try a clearer photo of the invitation."

	ProcessingFailedMessage = "Something went wrong while processing your " +
		"invitation. Please try again in a moment."
)

// FormatEventMessage renders the reply summarizing the parsed event with
// its calendar links.
func FormatEventMessage(details *parser.EventDetails, links calendar.Links) string {
	var b strings.Builder

	b.WriteString("📅 ")
	b.WriteString(details.Title)
	b.WriteString("\n")
	if details.Date != "" {
		fmt.Fprintf(&b, "\nDate: %s", details.Date)
	}
	if details.Time != "" {
		fmt.Fprintf(&b, "\nTime: %s", details.Time)
	}
	if details.Location != "" {
		fmt.Fprintf(&b, "\nLocation: %s", details.Location)
	}

	b.WriteString("\n\nAdd to your calendar:")
	for _, p := range []struct{ key, label string }{
		{calendar.ProviderGoogle, "Google"},
		{calendar.ProviderOutlook, "Outlook"},
		{calendar.ProviderYahoo, "Yahoo"},
		{calendar.ProviderApple, "Apple"},
	} {
		if link, ok := links[p.key]; ok {
			fmt.Fprintf(&b, "\n%s: %s", p.label, link)
		}
	}
	return b.String()
}
