package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quizarena/backend/models"
)

func TestParseGeneratedQuestions(t *testing.T) {
	raw := "```json\n[{\"content\":\"q\",\"type\":\"single\",\"options\":{\"A\":\"a\",\"B\":\"b\"},\"answer\":[\"A\"],\"explanation\":\"e\"}]\n```"

	questions, err := ParseGeneratedQuestions(raw)
	if err != nil {
		t.Fatalf("ParseGeneratedQuestions: %v", err)
	}
	if len(questions) != 1 || questions[0].Content != "q" {
		t.Fatalf("got %+v", questions)
	}

	if _, err := ParseGeneratedQuestions("not json"); err == nil {
		t.Fatal("expected error for unparseable content")
	}
}

func TestGeneratedQuestionToQuestion(t *testing.T) {
	g := GeneratedQuestion{
		Content:     "pick two",
		Type:        "multiple",
		Options:     map[string]string{"A": "a", "B": "b", "C": "c", "D": "d"},
		Answer:      []string{"c", "a"},
		Explanation: "because",
	}

	q := g.ToQuestion(compID("c1"))
	if q.Type != models.QuestionTypeMultiple {
		t.Fatalf("type = %q", q.Type)
	}
	if q.Answer != "AC" {
		t.Fatalf("answer = %q, want canonicalized AC", q.Answer)
	}
	if len(q.Options) != 4 || q.Options[0].Key != "A" || q.Options[3].Key != "D" {
		t.Fatalf("options = %+v, want canonical key order", q.Options)
	}

	// Unknown type strings degrade to single choice.
	if got := (GeneratedQuestion{Type: "truefalse"}).ToQuestion(nil); got.Type != models.QuestionTypeSingle {
		t.Fatalf("type = %q, want single", got.Type)
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"https://api.openai.com/v1", "https://api.openai.com/v1"},
		{"https://api.openai.com/v1/", "https://api.openai.com/v1"},
		{"https://proxy.example.com", "https://proxy.example.com/v1"},
		{"https://proxy.example.com///", "https://proxy.example.com/v1"},
	}
	for _, tt := range tests {
		if got := normalizeBaseURL(tt.in); got != tt.want {
			t.Errorf("normalizeBaseURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateQuestionsAgainstStubProvider(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{
					"content": `[{"content":"q1","type":"single","options":{"A":"a","B":"b"},"answer":["B"],"explanation":"e"}]`,
				}},
			},
		})
	}))
	defer ts.Close()

	cfg := AIConfig{APIKey: "test-key", BaseURL: ts.URL, Model: "gpt-3.5-turbo"}
	questions, err := GenerateQuestions(context.Background(), cfg, "some source material", 1, 0)
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(questions) != 1 || questions[0].Content != "q1" {
		t.Fatalf("got %+v", questions)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("auth header = %q", gotAuth)
	}

	if _, err := GenerateQuestions(context.Background(), cfg, "   ", 1, 0); err == nil {
		t.Fatal("expected error for empty source text")
	}
}
