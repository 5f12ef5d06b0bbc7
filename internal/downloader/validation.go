package downloader

import (
	"fmt"
	"strings"

	"github.com/vm-affekt/fbdl/internal/app"
)

var facebookHostMarkers = []string{
	"facebook.com/",
	"fb.com/",
	"fb.watch/",
	"m.facebook.com/",
}

// IsFacebookURL reports whether link looks like a Facebook video link.
// It is a plain substring check: no scheme or host parsing is done.
func IsFacebookURL(link string) bool {
	for _, marker := range facebookHostMarkers {
		if strings.Contains(link, marker) {
			return true
		}
	}
	return false
}

func ValidateLink(link string) error {
	if link == "" {
		return app.NewUserError(app.KindInvalidInput, "missing URL")
	}
	if !IsFacebookURL(link) {
		return app.NewUserError(app.KindInvalidInput, "invalid URL").
			WithCause(fmt.Errorf("string %q doesn't contain facebook host", link))
	}
	return nil
}
