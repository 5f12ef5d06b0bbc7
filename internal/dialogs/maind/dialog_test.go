package maind

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vm-affekt/fbdl/internal/app"
	"github.com/vm-affekt/fbdl/internal/render"
)

type sentMessage struct {
	replyTo int
	text    string
}

type fakeRUP struct {
	sent []sentMessage
}

func (f *fakeRUP) User() *tgbotapi.User {
	return &tgbotapi.User{ID: 1, UserName: "tester"}
}

func (f *fakeRUP) SendReplyf(_ context.Context, replyToMsgID int, text string, args ...interface{}) (int, error) {
	f.sent = append(f.sent, sentMessage{replyTo: replyToMsgID, text: fmt.Sprintf(text, args...)})
	return len(f.sent), nil
}

type fakeService struct {
	calls   int
	payload json.RawMessage
	err     error
}

func (f *fakeService) FetchLinks(_ context.Context, _ string) (json.RawMessage, error) {
	f.calls++
	return f.payload, f.err
}

func TestDialog_OnMessage(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name      string
		text      string
		service   *fakeService
		wantCalls int
		wantErr   string
		wantReply string
	}{
		{
			name:      "should_reply_with_links",
			text:      " https://facebook.com/video/123 ",
			service:   &fakeService{payload: json.RawMessage(`{"medias":[{"url":"http://x/1.mp4","quality":"HD"}]}`)},
			wantCalls: 1,
			wantReply: "<b>Download links available:</b>\n1. <a href=\"http://x/1.mp4\">HD</a>",
		},
		{
			name:      "should_reply_no_links_found",
			text:      "https://fb.watch/abc/",
			service:   &fakeService{payload: json.RawMessage(`{"medias":[]}`)},
			wantCalls: 1,
			wantReply: "no links found",
		},
		{
			name:      "should_return_user_error_on_other_link",
			text:      "https://youtube.com/watch?v=1",
			service:   &fakeService{},
			wantCalls: 0,
			wantErr:   msgSendLink,
		},
		{
			name:      "should_return_user_error_on_relay_failure",
			text:      "https://facebook.com/video/123",
			service:   &fakeService{err: app.NewUserError(app.KindUpstreamApplication, "bad <link>")},
			wantCalls: 1,
			wantErr:   "Error: error processing request: bad &lt;link&gt;",
		},
		{
			name:      "should_greet_on_start",
			text:      "/start",
			service:   &fakeService{},
			wantCalls: 0,
			wantReply: msgGreeting,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rup := &fakeRUP{}
			d := New(rup, tt.service)
			err := d.OnMessage(ctx, tt.text, 7)
			if tt.service.calls != tt.wantCalls {
				t.Errorf("service calls = %d, want %d", tt.service.calls, tt.wantCalls)
			}
			if tt.wantErr != "" {
				if msg := app.UserMessageOf(err); msg != tt.wantErr {
					t.Errorf("OnMessage() user message = %q, want %q (err=%v)", msg, tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("OnMessage() error = %v", err)
			}
			if len(rup.sent) != 1 {
				t.Fatalf("sent %d messages, want 1", len(rup.sent))
			}
			if rup.sent[0].text != tt.wantReply {
				t.Errorf("reply = %q, want %q", rup.sent[0].text, tt.wantReply)
			}
		})
	}
}

func TestDialog_OnMessage_sendsLongListingInParts(t *testing.T) {
	longURL := "https://video.xx.fbcdn.net/v/" + strings.Repeat("x", 480) + ".mp4"
	medias := make([]string, 0, 8)
	for i := 0; i < 8; i++ {
		medias = append(medias, fmt.Sprintf(`{"url":%q,"quality":"HD"}`, longURL))
	}
	service := &fakeService{payload: json.RawMessage(`{"medias":[` + strings.Join(medias, ",") + `]}`)}
	rup := &fakeRUP{}

	if err := New(rup, service).OnMessage(context.Background(), "https://facebook.com/video/1", 7); err != nil {
		t.Fatalf("OnMessage() error = %v", err)
	}
	if len(rup.sent) < 2 {
		t.Fatalf("sent %d messages, want the listing split in several", len(rup.sent))
	}
	links := 0
	for _, m := range rup.sent {
		if m.replyTo != 7 {
			t.Errorf("replyTo = %d, want 7", m.replyTo)
		}
		if n := utf8.RuneCountInString(m.text); n > MaxMessageLen {
			t.Errorf("message has %d runes, limit is %d", n, MaxMessageLen)
		}
		links += strings.Count(m.text, "<a href=")
	}
	if links != 8 {
		t.Errorf("sent %d links, want 8", links)
	}
}

func TestFormatView_escapes(t *testing.T) {
	got := FormatView(render.View{
		Status:     render.MsgLinksAvailable,
		StatusKind: render.StatusSuccess,
		Links: []render.Link{
			{Index: 1, Label: "Video (1 MB)", URL: "http://x/a.mp4?a=1&b=\"2\""},
			{Index: 2, Label: "<hd>", URL: "http://x/b.mp4"},
		},
	})
	want := strings.Join([]string{
		"<b>Download links available:</b>",
		"1. <a href=\"http://x/a.mp4?a=1&amp;b=&#34;2&#34;\">Video (1 MB)</a>",
		"2. <a href=\"http://x/b.mp4\">&lt;hd&gt;</a>",
	}, "\n")
	if len(got) != 1 || got[0] != want {
		t.Errorf("FormatView() =\n%q\nwant\n%s", got, want)
	}
}

func TestFormatView_splitsLongListings(t *testing.T) {
	longURL := "https://video.xx.fbcdn.net/v/t42.1790-2/" + strings.Repeat("a1B2c3", 80) + ".mp4?_nc_cat=1&oh=00_AfB&oe=65"
	tests := []struct {
		name      string
		links     int
		wantParts int
	}{
		{name: "should_keep_short_listing_in_one_message", links: 2, wantParts: 1},
		{name: "should_split_eight_long_links", links: 8, wantParts: 2},
		{name: "should_split_many_long_links", links: 30, wantParts: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := render.View{Status: render.MsgLinksAvailable, StatusKind: render.StatusSuccess}
			for i := 1; i <= tt.links; i++ {
				v.Links = append(v.Links, render.Link{Index: i, Label: "HD", URL: longURL})
			}
			parts := FormatView(v)
			if len(parts) != tt.wantParts {
				t.Errorf("FormatView() gave %d messages, want %d", len(parts), tt.wantParts)
			}
			lines := 0
			for i, p := range parts {
				if n := utf8.RuneCountInString(p); n > MaxMessageLen {
					t.Errorf("message %d has %d runes, limit is %d", i, n, MaxMessageLen)
				}
				lines += strings.Count(p, "\n") + 1
			}
			// status line plus one line per link, nothing lost at the boundaries
			if lines != tt.links+1 {
				t.Errorf("got %d lines across messages, want %d", lines, tt.links+1)
			}
			for i, p := range parts[1:] {
				if !strings.Contains(p[:14], ". <a href=") {
					t.Errorf("message %d does not start with a link: %.20q", i+1, p)
				}
			}
		})
	}
}
