package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestBookingNotification(t *testing.T) {
	req, err := BookingNotification("coach@example.com", BookingNotice{
		Name:      "王小美",
		Email:     "amy@example.com",
		Message:   "<b>想了解</b>",
		CreatedAt: time.Date(2026, 4, 10, 1, 30, 0, 0, time.UTC),
		AdminURL:  "https://example.com/admin/bookings",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if req.ReplyTo != "amy@example.com" {
		t.Errorf("ReplyTo = %q", req.ReplyTo)
	}
	if !strings.Contains(req.Subject, "王小美") {
		t.Errorf("Subject = %q", req.Subject)
	}
	if !strings.Contains(req.HTML, "2026-04-10 09:30") {
		t.Errorf("time not rendered in Taipei: %s", req.HTML)
	}
	if strings.Contains(req.HTML, "<b>") {
		t.Error("message should be escaped")
	}
}

func TestPushBroadcast(t *testing.T) {
	reqs, err := PushBroadcast([]string{"a@example.com", "b@example.com"}, "本週提醒", "第一段\n\n\n第二段")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(reqs) != 2 {
		t.Fatalf("got %d requests, want 2", len(reqs))
	}
	if strings.Count(reqs[0].HTML, "<p>") != 2 {
		t.Errorf("want two paragraphs, got %s", reqs[0].HTML)
	}
	if reqs[1].To[0] != "b@example.com" {
		t.Errorf("To = %v", reqs[1].To)
	}
}

func TestNoopSender(t *testing.T) {
	s := NewNoopSender()
	if _, err := s.Send(context.Background(), SendRequest{Subject: "x"}); !errors.Is(err, ErrNoRecipients) {
		t.Fatalf("got %v, want ErrNoRecipients", err)
	}
	res, err := s.SendBatch(context.Background(), []SendRequest{
		{To: []string{"a@example.com"}, Subject: "one"},
		{To: []string{"b@example.com"}, Subject: "two"},
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(res) != 2 || !strings.HasPrefix(res[0].MessageID, "noop-") {
		t.Errorf("results = %+v", res)
	}
	if got := s.Sent(); len(got) != 2 || got[1].Subject != "two" {
		t.Errorf("Sent = %+v", got)
	}
}
