// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package telegram

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tgmodels "github.com/go-telegram/bot/models"

	"ecardfactory/internal/apperr"
	"ecardfactory/internal/models"
)

func newBotServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(srv.Close)
	return srv, NewClient("123:secret", "-10042", srv.URL)
}

func TestSendMessage(t *testing.T) {
	var path string
	var form map[string]string
	_, c := newBotServer(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		form = map[string]string{
			"chat_id":    r.FormValue("chat_id"),
			"text":       r.FormValue("text"),
			"parse_mode": strings.Trim(r.FormValue("parse_mode"), `"`),
		}
		w.Write([]byte(`{"ok":true,"result":{"message_id":991,"date":0,"chat":{"id":-10042,"type":"group"}}}`))
	})

	sent, err := c.SendMessage(context.Background(), "<b>hi</b>", ParseModeHTML)
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if path != "/bot123:secret/sendMessage" {
		t.Errorf("path: got %q", path)
	}
	if form["chat_id"] != "-10042" || form["text"] != "<b>hi</b>" || form["parse_mode"] != "HTML" {
		t.Errorf("form: got %v", form)
	}
	if sent.MessageID != 991 || !sent.Sent {
		t.Errorf("sent: got %+v", sent)
	}
}

func TestSendPhotoBytesMultipart(t *testing.T) {
	var filename, caption string
	var photo []byte
	_, c := newBotServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		caption = r.FormValue("caption")
		f, hdr, err := r.FormFile("photo")
		if err != nil {
			t.Errorf("FormFile: %v", err)
		} else {
			filename = hdr.Filename
			photo, _ = io.ReadAll(f)
		}
		w.Write([]byte(`{"ok":true,"result":{"message_id":5,"date":0,"chat":{"id":-10042,"type":"group"}}}`))
	})

	_, err := c.SendPhotoBytes(context.Background(), "card-preview.jpg", []byte{0xFF, 0xD8, 0xFF}, "Final")
	if err != nil {
		t.Fatalf("SendPhotoBytes: %v", err)
	}
	if filename != "card-preview.jpg" || caption != "Final" || len(photo) != 3 {
		t.Errorf("upload: filename=%q caption=%q bytes=%d", filename, caption, len(photo))
	}
}

func TestSendPhotoURL(t *testing.T) {
	var photo, chat string
	_, c := newBotServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		photo, chat = r.FormValue("photo"), r.FormValue("chat_id")
		w.Write([]byte(`{"ok":true,"result":{"message_id":6,"date":0,"chat":{"id":-10042,"type":"group"}}}`))
	})

	sent, err := c.SendPhotoURL(context.Background(), "https://cdn.example/art.png", "Image")
	if err != nil {
		t.Fatalf("SendPhotoURL: %v", err)
	}
	if photo != "https://cdn.example/art.png" || chat != "-10042" {
		t.Errorf("form: photo=%q chat=%q", photo, chat)
	}
	if sent.MessageID != 6 {
		t.Errorf("message id: got %d", sent.MessageID)
	}
}

func TestSetWebhookSendsSecret(t *testing.T) {
	var got string
	_, c := newBotServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		got = r.FormValue("url") + "|" + r.FormValue("secret_token")
		w.Write([]byte(`{"ok":true,"result":true}`))
	})

	if err := c.SetWebhook(context.Background(), "https://cards.example/telegram/webhook", "s3"); err != nil {
		t.Fatalf("SetWebhook: %v", err)
	}
	if got != "https://cards.example/telegram/webhook|s3" {
		t.Errorf("form: got %q", got)
	}
}

func TestClientFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not ok", http.StatusOK, `{"ok":false,"description":"chat not found"}`},
		{"http error", http.StatusUnauthorized, `{"ok":false,"description":"Unauthorized"}`},
		{"garbage", http.StatusBadGateway, `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := newBotServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := c.SendMessage(context.Background(), "x", "")
			if !apperr.Is(err, apperr.Unavailable) {
				t.Errorf("expected unavailable, got %v", err)
			}
		})
	}
}

func TestTransportErrorHidesToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	c := NewClient("123:very-secret", "1", srv.URL)
	srv.Close()

	_, err := c.SendMessage(context.Background(), "x", "")
	if !apperr.Is(err, apperr.Unavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if strings.Contains(err.Error(), "very-secret") {
		t.Errorf("error leaks bot token: %v", err)
	}
}

func TestParseUpdate(t *testing.T) {
	tests := []struct {
		name string
		body string
		text string
		chat string
	}{
		{"message", `{"update_id":1,"message":{"message_id":2,"chat":{"id":-10042},"text":"/approve_image_4"}}`, "/approve_image_4", "-10042"},
		{"edited", `{"update_id":1,"edited_message":{"chat":{"id":7},"text":"/reject_image_4"}}`, "/reject_image_4", "7"},
		{"channel post", `{"update_id":1,"channel_post":{"chat":{"id":-100},"text":"/regenerate_9"}}`, "/regenerate_9", "-100"},
		{"wrapped", `{"update":{"update_id":3,"message":{"chat":{"id":5},"text":"hi"}}}`, "hi", "5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseUpdate([]byte(tt.body))
			if err != nil {
				t.Fatalf("ParseUpdate: %v", err)
			}
			m := Primary(u)
			if m == nil {
				t.Fatal("Primary: nil")
			}
			if m.Text != tt.text || ChatID(m) != tt.chat {
				t.Errorf("got text=%q chat=%q", m.Text, ChatID(m))
			}
		})
	}

	u, err := ParseUpdate([]byte(`{"update_id":9,"callback_query":{}}`))
	if err != nil {
		t.Fatalf("ParseUpdate: %v", err)
	}
	if Primary(u) != nil {
		t.Error("expected no primary message")
	}
	if _, err := ParseUpdate([]byte(`{`)); err == nil {
		t.Error("expected error for malformed body")
	}
}

func TestSender(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
		want string
	}{
		{"username", &Message{From: &tgmodels.User{ID: 9, Username: "ops"}}, "telegram:@ops"},
		{"user id", &Message{From: &tgmodels.User{ID: 9}}, "telegram:9"},
		{"channel", &Message{Chat: tgmodels.Chat{ID: -100}}, "telegram:-100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sender(tt.msg); got != tt.want {
				t.Errorf("Sender = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommandText(t *testing.T) {
	tests := map[string]string{
		"  /approve_image_4  ":         "/approve_image_4",
		"/approve_image_4@CardBot":     "/approve_image_4",
		"/approve_phrase_3_2@Bot  now": "/approve_phrase_3_2 now",
		"hello @there":                 "hello @there",
		"":                             "",
	}
	for in, want := range tests {
		if got := CommandText(in); got != want {
			t.Errorf("CommandText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPhraseApprovalText(t *testing.T) {
	phrases := []models.CandidatePhrase{
		{Text: "Tea & toast", Tone: models.ToneFunny},
		{Text: "Hold on <3", Tone: ""},
	}
	got := PhraseApprovalText(12, phrases, 1, "Motivation Monday", "2026-01-05")

	for _, want := range []string{
		"Daily Card Generation: 2026-01-05",
		"<b>1.</b> Tea &amp; toast <i>(funny)</i>",
		"⭐ <b>2.</b> Hold on &lt;3 <i>(balanced)</i>",
		"/approve_phrase_12_N or /reject_phrase_12",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("message missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "⭐") != 1 {
		t.Errorf("expected exactly one star:\n%s", got)
	}
}

func TestFinalApprovalCaption(t *testing.T) {
	got := FinalApprovalCaption(7, "B", "Diwali", models.Dollars(0.0412))
	if !strings.Contains(got, "Est. cost: $0.0412") {
		t.Errorf("cost line missing:\n%s", got)
	}
	for _, cmd := range []string{"/approve_final_7", "/reject_final_7", "/regenerate_7"} {
		if !strings.Contains(got, cmd) {
			t.Errorf("caption missing %s", cmd)
		}
	}
}
