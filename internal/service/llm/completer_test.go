package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lawlow/internal/config"
	"lawlow/internal/domain/models/law"
	domainllm "lawlow/internal/domain/services/llm"
	"lawlow/internal/service/summary"
)

func summaryRequest() *domainllm.CompletionRequest {
	return &domainllm.CompletionRequest{
		Model: "gpt-3.5-turbo",
		Messages: []law.PromptMessage{
			{Role: law.RoleSystem, Content: "시스템"},
			{Role: law.RoleUser, Content: "요약해줘"},
		},
	}
}

func TestOpenAICompleter_Complete(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","model":"gpt-3.5-turbo-0125",
			"choices":[{"index":0,"message":{"role":"assistant","content":"쉬운 요약"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":12,"completion_tokens":3,"total_tokens":15}}`)
	}))
	defer srv.Close()

	c := NewOpenAICompleter("sk-test", srv.URL)
	resp, err := c.Complete(context.Background(), summaryRequest())
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content != "쉬운 요약" || resp.InputTokens != 12 || resp.OutputTokens != 3 {
		t.Errorf("Complete() = %+v", resp)
	}
	if got.Model != "gpt-3.5-turbo" || len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Errorf("request = %+v", got)
	}
}

func TestOpenAICompleter_CompleteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limited","type":"requests"}}`)
	}))
	defer srv.Close()

	_, err := NewOpenAICompleter("sk-test", srv.URL).Complete(context.Background(), summaryRequest())
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("Complete() error = %v", err)
	}
}

func TestOpenAICompleter_Stream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, delta := range []string{"쉬운", "", " 요약"} {
			fmt.Fprintf(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"model\":\"gpt-3.5-turbo\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", delta)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	events, err := NewOpenAICompleter("sk-test", srv.URL).Stream(context.Background(), summaryRequest())
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	var text strings.Builder
	for ev := range events {
		if ev.Err != nil {
			t.Fatalf("stream event error = %v", ev.Err)
		}
		text.WriteString(ev.Delta)
	}
	if text.String() != "쉬운 요약" {
		t.Errorf("streamed text = %q", text.String())
	}
}

func TestToLibraryRequest(t *testing.T) {
	req := summaryRequest()
	req.Messages = append(req.Messages, law.PromptMessage{Role: law.RoleAssistant, Content: "이전"})

	lib := toLibraryRequest(req)
	if lib.Params == nil || lib.Params.System == nil || *lib.Params.System != "시스템" {
		t.Fatalf("system prompt not moved to params: %+v", lib.Params)
	}
	if len(lib.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(lib.Messages))
	}
	if lib.Messages[1].Role != "assistant" || *lib.Messages[1].Blocks[0].TextContent != "이전" {
		t.Errorf("assistant message = %+v", lib.Messages[1])
	}
	if lib.Model != "gpt-3.5-turbo" {
		t.Errorf("model = %q", lib.Model)
	}
}

func TestProviderFactory_Resolve(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.Config
		wantStd   string
		wantLarge string
		wantErr   bool
	}{
		{
			name:      "openai inferred",
			cfg:       config.Config{SummaryModel: "gpt-3.5-turbo", LargeModel: "gpt-3.5-turbo-16k", OpenAIAPIKey: "sk"},
			wantStd:   "gpt-3.5-turbo",
			wantLarge: "gpt-3.5-turbo-16k",
		},
		{
			name:      "openrouter prefix stripped",
			cfg:       config.Config{SummaryModel: "openrouter/openai/gpt-3.5-turbo", LargeModel: "openrouter/openai/gpt-3.5-turbo-16k", OpenRouterAPIKey: "or"},
			wantStd:   "openai/gpt-3.5-turbo",
			wantLarge: "openai/gpt-3.5-turbo-16k",
		},
		{
			name:      "lorem needs no key",
			cfg:       config.Config{SummaryModel: "lorem-fast", LargeModel: "lorem-slow"},
			wantStd:   "lorem-fast",
			wantLarge: "lorem-slow",
		},
		{
			name:    "missing key",
			cfg:     config.Config{SummaryModel: "gpt-3.5-turbo", LargeModel: "gpt-3.5-turbo-16k"},
			wantErr: true,
		},
		{
			name:    "mixed providers",
			cfg:     config.Config{SummaryModel: "gpt-3.5-turbo", LargeModel: "lorem-slow", OpenAIAPIKey: "sk"},
			wantErr: true,
		},
		{
			name:    "unsupported explicit provider",
			cfg:     config.Config{AIProvider: "bedrock", SummaryModel: "gpt-3.5-turbo", LargeModel: "gpt-3.5-turbo-16k"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			backend, err := NewProviderFactory(&cfg).Resolve()
			if tt.wantErr {
				if err == nil {
					t.Error("Resolve() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if backend.StandardModel != tt.wantStd || backend.LargeModel != tt.wantLarge || backend.Completer == nil {
				t.Errorf("Resolve() = %+v", backend)
			}
		})
	}
}

func TestSetupSummary_Lorem(t *testing.T) {
	cfg := &config.Config{
		SummaryModel: "lorem-fast",
		LargeModel:   "lorem-large",
		Prompts:      config.Prompts{OnlySummary: "요약", TitleKeywords: "제목", MoreEasy: "더 쉽게"},
	}
	svc, err := SetupSummary(cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("SetupSummary() error = %v", err)
	}
	if svc == nil {
		t.Fatal("SetupSummary() returned nil service")
	}
}

func TestNewTokenCounter_FallsBackToRunes(t *testing.T) {
	counter := newTokenCounter("lorem-fast", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if _, ok := counter.(summary.RuneCounter); !ok {
		t.Errorf("counter = %T, want summary.RuneCounter", counter)
	}
}
