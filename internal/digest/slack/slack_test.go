package slack

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	slackapi "github.com/slack-go/slack"
	"github.com/zulandar/satchel/internal/digest"
)

type mockSlackClient struct {
	mu      sync.Mutex
	posted  []postedMessage
	errs    []error // returned in order, one per call
	calls   int
	postErr error
}

type postedMessage struct {
	channelID string
	options   []slackapi.MsgOption
}

func (m *mockSlackClient) PostMessage(channelID string, options ...slackapi.MsgOption) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return "", "", err
	}
	if m.postErr != nil {
		return "", "", m.postErr
	}
	m.posted = append(m.posted, postedMessage{channelID: channelID, options: options})
	return channelID, "1234567890.123456", nil
}

func sampleMessage() digest.Message {
	return digest.Message{
		Text:  "Satchel digest",
		Title: "Satchel digest",
		Body:  "*Overdue*\n- essay",
		Color: digest.ColorOverdue,
		Fields: []digest.Field{
			{Name: "Overdue", Value: "1", Short: true},
			{Name: "Upcoming", Value: "0", Short: true},
		},
	}
}

func TestNew_RequiresBotToken(t *testing.T) {
	_, err := New(NotifierOpts{ChannelID: "C1"})
	if err == nil || !strings.Contains(err.Error(), "bot token") {
		t.Errorf("error = %v", err)
	}
}

func TestNew_WithBotToken(t *testing.T) {
	n, err := New(NotifierOpts{BotToken: "xoxb-test"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if n.client == nil {
		t.Error("expected real client to be created")
	}
}

func TestSend_DefaultChannel(t *testing.T) {
	client := &mockSlackClient{}
	n, _ := New(NotifierOpts{ChannelID: "C_DEFAULT", Client: client})

	if err := n.Send(context.Background(), sampleMessage()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(client.posted) != 1 || client.posted[0].channelID != "C_DEFAULT" {
		t.Fatalf("posted = %+v", client.posted)
	}
	if len(client.posted[0].options) != 2 {
		t.Errorf("expected attachment + text options, got %d", len(client.posted[0].options))
	}
}

func TestSend_MessageChannelWins(t *testing.T) {
	client := &mockSlackClient{}
	n, _ := New(NotifierOpts{ChannelID: "C_DEFAULT", Client: client})
	msg := sampleMessage()
	msg.ChannelID = "C_OTHER"
	if err := n.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if client.posted[0].channelID != "C_OTHER" {
		t.Errorf("channel = %q", client.posted[0].channelID)
	}
}

func TestSend_NoChannel(t *testing.T) {
	n, _ := New(NotifierOpts{Client: &mockSlackClient{}})
	err := n.Send(context.Background(), sampleMessage())
	if err == nil || !strings.Contains(err.Error(), "no channel") {
		t.Errorf("error = %v", err)
	}
}

func TestSend_PostError(t *testing.T) {
	client := &mockSlackClient{postErr: errors.New("channel_not_found")}
	n, _ := New(NotifierOpts{ChannelID: "C1", Client: client})
	err := n.Send(context.Background(), sampleMessage())
	if err == nil || !strings.Contains(err.Error(), "slack: post message: channel_not_found") {
		t.Errorf("error = %v", err)
	}
	if client.calls != 1 {
		t.Errorf("calls = %d, non rate-limit errors must not retry", client.calls)
	}
}

func TestSend_RetriesOnRateLimit(t *testing.T) {
	client := &mockSlackClient{errs: []error{
		&slackapi.RateLimitedError{RetryAfter: time.Millisecond},
		&slackapi.RateLimitedError{},
	}}
	n, _ := New(NotifierOpts{ChannelID: "C1", Client: client})
	n.backoff = time.Millisecond

	if err := n.Send(context.Background(), sampleMessage()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if client.calls != 3 || len(client.posted) != 1 {
		t.Errorf("calls = %d, posted = %d", client.calls, len(client.posted))
	}
}

func TestSend_RateLimitHonorsContext(t *testing.T) {
	client := &mockSlackClient{errs: []error{&slackapi.RateLimitedError{RetryAfter: time.Hour}}}
	n, _ := New(NotifierOpts{ChannelID: "C1", Client: client})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := n.Send(ctx, sampleMessage())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestMessageToAttachment(t *testing.T) {
	att := messageToAttachment(sampleMessage())
	if att.Title != "Satchel digest" || att.Fallback != "Satchel digest" {
		t.Errorf("title/fallback = %q/%q", att.Title, att.Fallback)
	}
	if att.Text != "*Overdue*\n- essay" {
		t.Errorf("text = %q", att.Text)
	}
	if att.Color != digest.ColorOverdue {
		t.Errorf("color = %q", att.Color)
	}
	if len(att.Fields) != 2 || att.Fields[0].Title != "Overdue" || !att.Fields[0].Short {
		t.Errorf("fields = %+v", att.Fields)
	}
}

func TestBuildMessageOptions_NoText(t *testing.T) {
	msg := sampleMessage()
	msg.Text = ""
	if opts := buildMessageOptions(msg); len(opts) != 1 {
		t.Errorf("expected 1 option, got %d", len(opts))
	}
}
