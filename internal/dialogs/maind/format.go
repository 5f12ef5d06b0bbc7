package maind

import (
	"fmt"
	"html"
	"unicode/utf8"

	"github.com/vm-affekt/fbdl/internal/render"
)

// MaxMessageLen is the Telegram limit for the text of one message.
const MaxMessageLen = 4096

// FormatView renders v as Telegram HTML messages: the status line and one numbered link per line.
// Links are split across messages so that none is longer than MaxMessageLen runes;
// a single line that is longer on its own is sent as its own message.
func FormatView(v render.View) []string {
	var status string
	if v.StatusKind == render.StatusSuccess {
		status = fmt.Sprintf("<b>%s</b>", escape(v.Status))
	} else {
		status = escape(v.Status)
	}

	msgs := make([]string, 0, 1)
	cur, curLen := status, utf8.RuneCountInString(status)
	for _, l := range v.Links {
		line := fmt.Sprintf("%d. <a href=\"%s\">%s</a>", l.Index, escape(l.URL), escape(l.Label))
		lineLen := utf8.RuneCountInString(line)
		if curLen+1+lineLen > MaxMessageLen {
			msgs = append(msgs, cur)
			cur, curLen = line, lineLen
			continue
		}
		cur += "\n" + line
		curLen += 1 + lineLen
	}
	return append(msgs, cur)
}

func escape(s string) string {
	return html.EscapeString(s)
}
