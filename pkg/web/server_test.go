package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
)

func TestHealthzAllChecksPass(t *testing.T) {
	s := New(":0",
		WithCheck("db", func(context.Context) error { return nil }),
		WithCheck("provider", func(context.Context) error { return nil }),
	)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/healthz", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" || body.Checks["db"] != "ok" {
		t.Fatalf("body = %+v", body)
	}
}

func TestHealthzFailingCheckDegrades(t *testing.T) {
	s := New(":0",
		WithCheck("db", func(context.Context) error { return errors.New("locked") }),
	)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/healthz", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 503 {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}

func TestStatusCounters(t *testing.T) {
	s := New(":0")
	s.MessageReceived()
	s.MessageReceived()
	s.ReplySent()

	resp, err := s.app.Test(httptest.NewRequest("GET", "/status", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	var body struct {
		MessagesReceived int64 `json:"messages_received"`
		RepliesSent      int64 `json:"replies_sent"`
		UptimeSeconds    int64 `json:"uptime_seconds"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.MessagesReceived != 2 || body.RepliesSent != 1 {
		t.Fatalf("counters = %+v", body)
	}
}
