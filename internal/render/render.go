// Package render turns relay envelopes into what a client shows: a status line and a list of links.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/vm-affekt/fbdl/internal/app"
)

type StatusKind string

const (
	StatusInfo    StatusKind = "info"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

const (
	MsgLinksAvailable   = "Download links available:"
	MsgNoLinks          = "no links found"
	MsgProcessingFailed = "error processing download links"
	MsgEnterURL         = "Please enter a Facebook video URL."
	MsgNotFacebookURL   = "The URL does not look like a valid Facebook URL."

	defaultLabel = "standard quality"
)

type Link struct {
	Index int
	Label string
	URL   string
}

type View struct {
	Status     string
	StatusKind StatusKind
	Links      []Link
}

func Status(kind StatusKind, msg string) View {
	return View{Status: msg, StatusKind: kind}
}

// FromEnvelope builds the view for a relay response.
func FromEnvelope(env app.Envelope) View {
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "an error occurred"
		}
		return Status(StatusError, "Error: "+msg)
	}

	var listing app.MediaListing
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &listing); err != nil {
			return Status(StatusError, MsgProcessingFailed)
		}
	}
	links := Links(listing)
	if len(links) == 0 {
		return Status(StatusError, MsgNoLinks)
	}
	return View{
		Status:     MsgLinksAvailable,
		StatusKind: StatusSuccess,
		Links:      links,
	}
}

// Links returns one link per media entry that has a URL, numbered from 1.
func Links(listing app.MediaListing) []Link {
	links := make([]Link, 0, len(listing.Medias))
	for _, m := range listing.Medias {
		if m.URL == "" {
			continue
		}
		links = append(links, Link{
			Index: len(links) + 1,
			Label: Label(m),
			URL:   m.URL,
		})
	}
	return links
}

func Label(m app.Media) string {
	switch {
	case m.Quality != "":
		return string(m.Quality)
	case m.FormattedSize != "":
		return fmt.Sprintf("Video (%s)", m.FormattedSize)
	case m.Width != 0 && m.Height != 0:
		return fmt.Sprintf("%dx%d", m.Width, m.Height)
	default:
		return defaultLabel
	}
}
