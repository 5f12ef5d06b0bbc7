package app

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"
)

type DownloadRequest struct {
	VideoURL string `json:"videoUrl"`
}

// Envelope is the response shape shared by every client of the relay.
// Data is present only on success and Error only on failure.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func SuccessEnvelope(data json.RawMessage) Envelope {
	return Envelope{Success: true, Data: data}
}

func ErrorEnvelope(msg string) Envelope {
	return Envelope{Success: false, Error: msg}
}

// MediaListing is the part of the extraction API payload that clients render.
// The relay itself never decodes it.
type MediaListing struct {
	Medias []Media `json:"medias"`
}

// Media is one entry of the listing. Decoding it never fails: fields of an
// unexpected type are left empty, and an entry that is not an object decodes
// to a Media without URL.
type Media struct {
	URL           string
	Quality       Text
	FormattedSize Text
	Width         Dimension
	Height        Dimension
	Type          Text
	Extension     Text
}

func (m *Media) UnmarshalJSON(b []byte) error {
	*m = Media{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil
	}
	// url must be a real string, a number is not a link
	if raw, ok := fields["url"]; ok {
		_ = json.Unmarshal(raw, &m.URL)
	}
	for key, dst := range map[string]json.Unmarshaler{
		"quality":       &m.Quality,
		"formattedSize": &m.FormattedSize,
		"width":         &m.Width,
		"height":        &m.Height,
		"type":          &m.Type,
		"extension":     &m.Extension,
	} {
		if raw, ok := fields[key]; ok {
			_ = dst.UnmarshalJSON(raw)
		}
	}
	return nil
}

// Text is a label the API sends as a string or as a bare number.
// Any other JSON value decodes to the empty string.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	*t = ""
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch {
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			*t = Text(s)
		}
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(b, &n); err == nil {
			*t = Text(n.String())
		}
	}
	return nil
}

// Dimension is a pixel size that the API sends either as a number or as a numeric string.
// Values that are neither decode to 0.
type Dimension int

func (d *Dimension) UnmarshalJSON(b []byte) error {
	*d = 0
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		b = []byte(strings.TrimSpace(s))
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil || f < 0 {
		return nil
	}
	*d = Dimension(f)
	return nil
}

type DownloadService interface {
	// FetchLinks returns the extraction API payload for link verbatim.
	FetchLinks(ctx context.Context, link string) (json.RawMessage, error)
}
