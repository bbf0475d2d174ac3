package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestOpenAI(t *testing.T, handler http.Handler) *OpenAIService {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewOpenAIService("test_api_key", "gpt-4.1-nano", srv.URL)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	svc.httpClient = srv.Client()
	return svc
}

func chatAnswer(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
}

func TestOpenAIService(t *testing.T) {
	t.Run("NewOpenAIService", func(t *testing.T) {
		if _, err := NewOpenAIService("", "", ""); err == nil {
			t.Error("expected error for missing api key")
		}

		svc, err := NewOpenAIService("key", "", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if svc.model != defaultOpenAIModel {
			t.Errorf("expected default model, got %s", svc.model)
		}
	})

	t.Run("GenerateTrackList", func(t *testing.T) {
		t.Run("Parses Lines", func(t *testing.T) {
			var gotReq chatRequest
			svc := newTestOpenAI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "Bearer test_api_key" {
					t.Errorf("expected bearer api key, got %s", got)
				}
				if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
					t.Fatalf("failed to decode request: %v", err)
				}

				json.NewEncoder(w).Encode(chatAnswer("Bohemian Rhapsody - Queen\n\nKarma Police - Radiohead\r\nClair de Lune - Debussy\n"))
			}))

			queries, err := svc.GenerateTrackList(context.Background(), "melancholic rainy evening", 3)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			want := []string{"Bohemian Rhapsody - Queen", "Karma Police - Radiohead", "Clair de Lune - Debussy"}
			if len(queries) != len(want) {
				t.Fatalf("expected %d queries, got %d", len(want), len(queries))
			}
			for i := range want {
				if queries[i] != want[i] {
					t.Errorf("expected query %q at %d, got %q", want[i], i, queries[i])
				}
			}

			if gotReq.Temperature != 0.5 {
				t.Errorf("expected temperature 0.5, got %v", gotReq.Temperature)
			}
			if gotReq.MaxTokens != 30 {
				t.Errorf("expected max_tokens 30, got %d", gotReq.MaxTokens)
			}
			if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
				t.Error("expected system prompt followed by user message")
			}
			if !strings.Contains(gotReq.Messages[1].Content, "melancholic rainy evening") {
				t.Error("expected user message to carry the request text")
			}
		})

		t.Run("Sentinel Answer", func(t *testing.T) {
			svc := newTestOpenAI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(chatAnswer("no songs found."))
			}))

			queries, err := svc.GenerateTrackList(context.Background(), "qwerty asdf", 20)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(queries) != 0 {
				t.Errorf("expected empty list for sentinel answer, got %v", queries)
			}
		})

		t.Run("Empty Message Skips Network", func(t *testing.T) {
			svc := newTestOpenAI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("expected no network call for empty message")
			}))

			queries, err := svc.GenerateTrackList(context.Background(), "   ", 20)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if queries != nil {
				t.Errorf("expected nil, got %v", queries)
			}
		})

		t.Run("API Error", func(t *testing.T) {
			svc := newTestOpenAI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":"rate limit"}`, http.StatusTooManyRequests)
			}))

			if _, err := svc.GenerateTrackList(context.Background(), "anything", 20); err == nil {
				t.Error("expected error for API failure")
			}
		})

		t.Run("Defaults Count", func(t *testing.T) {
			svc := newTestOpenAI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var req chatRequest
				json.NewDecoder(r.Body).Decode(&req)
				if req.MaxTokens != 200 {
					t.Errorf("expected max_tokens 200 for default count, got %d", req.MaxTokens)
				}
				json.NewEncoder(w).Encode(chatAnswer("Song - Artist"))
			}))

			if _, err := svc.GenerateTrackList(context.Background(), "upbeat", 0); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})

	t.Run("parseTrackList", func(t *testing.T) {
		if got := parseTrackList("  No Songs Found.  "); got != nil {
			t.Errorf("expected nil for sentinel, got %v", got)
		}
		if got := parseTrackList(""); got != nil {
			t.Errorf("expected nil for empty answer, got %v", got)
		}
	})
}
