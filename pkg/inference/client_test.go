package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(
		WithBaseURL(srv.URL),
		WithAPIKey("test-key"),
		WithModel("test-model"),
	)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client, srv
}

func TestClientChat(t *testing.T) {
	var gotPayload map[string]interface{}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decode request: %v", err)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"model": "test-model",
			"choices": []map[string]interface{}{
				{
					"message":       map[string]interface{}{"role": "assistant", "content": "Hi there"},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]int{"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15},
		})
	})

	resp, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{
			NewSystemMessage("You are helpful."),
			NewUserMessage("hello"),
		},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Message.Content != "Hi there" {
		t.Errorf("content = %q", resp.Message.Content)
	}
	if resp.FinishReason != "stop" {
		t.Errorf("finish_reason = %q", resp.FinishReason)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("total tokens = %d", resp.Usage.TotalTokens)
	}

	if gotPayload["model"] != "test-model" {
		t.Errorf("payload model = %v", gotPayload["model"])
	}
	msgs, ok := gotPayload["messages"].([]interface{})
	if !ok || len(msgs) != 2 {
		t.Fatalf("payload messages = %v", gotPayload["messages"])
	}
}

func TestClientChatToolCalls(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"model": "test-model",
			"choices": []map[string]interface{}{
				{
					"message": map[string]interface{}{
						"role":    "assistant",
						"content": "",
						"tool_calls": []map[string]interface{}{
							{
								"id":   "call_abc",
								"type": "function",
								"function": map[string]string{
									"name":      "get_weather",
									"arguments": `{"location":"Paris"}`,
								},
							},
						},
					},
					"finish_reason": "tool_calls",
				},
			},
		})
	})

	resp, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{NewUserMessage("weather in Paris?")},
		Tools: []Tool{
			NewTool("get_weather", "Get current weather", map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"location": map[string]interface{}{"type": "string"},
				},
			}),
		},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.FinishReason != "tool_calls" {
		t.Errorf("finish_reason = %q", resp.FinishReason)
	}
	if len(resp.Message.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(resp.Message.ToolCalls))
	}
	tc := resp.Message.ToolCalls[0]
	if tc.ID != "call_abc" || tc.Name != "get_weather" {
		t.Errorf("tool call = %+v", tc)
	}
	if tc.Arguments != `{"location":"Paris"}` {
		t.Errorf("arguments = %q", tc.Arguments)
	}
}

func TestClientChatToolResultRoundTrip(t *testing.T) {
	var gotPayload map[string]interface{}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotPayload)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"model": "test-model",
			"choices": []map[string]interface{}{
				{
					"message":       map[string]interface{}{"role": "assistant", "content": "It is 18C in Paris."},
					"finish_reason": "stop",
				},
			},
		})
	})

	assistant := Message{
		Role: RoleAssistant,
		ToolCalls: []ToolCall{
			{ID: "call_abc", Name: "get_weather", Arguments: `{"location":"Paris"}`},
		},
	}
	_, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{
			NewUserMessage("weather in Paris?"),
			assistant,
			NewToolMessage("call_abc", "get_weather", `{"temp_c":18}`),
		},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	msgs := gotPayload["messages"].([]interface{})
	if len(msgs) != 3 {
		t.Fatalf("expected 3 wire messages, got %d", len(msgs))
	}
	second := msgs[1].(map[string]interface{})
	if _, ok := second["tool_calls"]; !ok {
		t.Error("assistant message missing tool_calls on the wire")
	}
	third := msgs[2].(map[string]interface{})
	if third["tool_call_id"] != "call_abc" {
		t.Errorf("tool message tool_call_id = %v", third["tool_call_id"])
	}
	if third["role"] != "tool" {
		t.Errorf("tool message role = %v", third["role"])
	}
}

func TestClientParseError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{
				"message": "Rate limit reached",
				"type":    "requests",
				"code":    "rate_limit_exceeded",
			},
		})
	})

	_, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{NewUserMessage("hello")},
	})
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if !apiErr.IsRateLimited() {
		t.Error("expected rate limit classification")
	}
	if apiErr.Message != "Rate limit reached" {
		t.Errorf("message = %q", apiErr.Message)
	}
	if !IsTransient(err) {
		t.Error("rate limit should be transient")
	}
}

func TestClientNoChoices(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"model": "test-model", "choices": []interface{}{}})
	})

	_, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{NewUserMessage("hello")},
	})
	if !errors.Is(err, ErrNoChoices) {
		t.Errorf("expected ErrNoChoices, got %v", err)
	}
}

func TestClientHealth(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := client.Health(context.Background()); err != nil {
		t.Errorf("Health failed: %v", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}
