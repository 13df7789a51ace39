package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	config "github.com/quizarena/backend/configs"
	"github.com/quizarena/backend/database"
	"github.com/quizarena/backend/models"
	"github.com/quizarena/backend/quiz"
)

var ErrNoAPIKey = errors.New("no AI API key configured")

// AIConfig is the resolved provider configuration for one generation call.
type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// GeneratedQuestion is the shape the model is instructed to return.
type GeneratedQuestion struct {
	Content     string            `json:"content"`
	Type        string            `json:"type"`
	Options     map[string]string `json:"options"`
	Answer      []string          `json:"answer"`
	Explanation string            `json:"explanation"`
}

// ResolveAIConfig prefers the competition creator's saved AI settings and falls
// back to environment configuration.
func ResolveAIConfig(competitionID string) (AIConfig, error) {
	cfg := AIConfig{}

	if competitionID != "" {
		var comp models.Competition
		if err := database.DB.First(&comp, "id = ?", competitionID).Error; err == nil {
			var user models.User
			if err := database.DB.First(&user, "id = ?", comp.CreatedBy).Error; err == nil {
				if user.AIAPIKey != nil {
					cfg.APIKey = *user.AIAPIKey
				}
				if user.AIBaseURL != nil {
					cfg.BaseURL = *user.AIBaseURL
				}
				cfg.Model = user.AIModel
			}
		}
	}

	if cfg.APIKey == "" {
		cfg.APIKey = config.Config("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.ConfigOr("OPENAI_BASE_URL", "https://api.openai.com/v1")
	}
	if cfg.Model == "" {
		cfg.Model = config.ConfigOr("OPENAI_MODEL", "gpt-3.5-turbo")
	}

	if cfg.APIKey == "" {
		return cfg, ErrNoAPIKey
	}
	return cfg, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const generationContextLimit = 4000

// GenerateQuestions asks an OpenAI-compatible endpoint for quiz questions built
// from the given source text. The model's reply is expected to be a bare JSON
// array of question objects.
func GenerateQuestions(ctx context.Context, cfg AIConfig, sourceText string, singleCount, multipleCount int) ([]GeneratedQuestion, error) {
	if strings.TrimSpace(sourceText) == "" {
		return nil, errors.New("no source text provided")
	}
	if len(sourceText) > generationContextLimit {
		sourceText = sourceText[:generationContextLimit]
	}

	prompt := fmt.Sprintf(`Generate quiz questions from the source text below:
- single choice questions: %d
- multiple choice questions: %d

Source text:
%s

Return strictly a JSON array with no markdown fences. Each element:
{
  "content": "question text",
  "type": "single" or "multiple",
  "options": { "A": "...", "B": "...", "C": "...", "D": "..." },
  "answer": ["A"] (multiple keys for multiple choice),
  "explanation": "why the answer is correct; do not reference option letters"
}
All strings must use double quotes, with embedded quotes and backslashes escaped.`,
		singleCount, multipleCount, sourceText)

	reqBody := chatRequest{
		Model: cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a quiz authoring assistant. Reply with a pure JSON array only, never wrapped in ```json fences, with every special character correctly escaped."},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/chat/completions", normalizeBaseURL(cfg.BaseURL)), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	client := &http.Client{Timeout: 120 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("AI provider returned %s: %s", resp.Status, string(msg))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, err
	}
	if len(chat.Choices) == 0 {
		return nil, errors.New("AI provider returned no choices")
	}

	return ParseGeneratedQuestions(chat.Choices[0].Message.Content)
}

// ParseGeneratedQuestions unwraps the model's reply into questions, tolerating
// markdown fences the model was told not to emit.
func ParseGeneratedQuestions(content string) ([]GeneratedQuestion, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var questions []GeneratedQuestion
	if err := json.Unmarshal([]byte(content), &questions); err != nil {
		return nil, fmt.Errorf("failed to parse generated questions: %w", err)
	}
	return questions, nil
}

// ToQuestion converts a generated question into a bank row, canonicalizing the
// answer key order.
func (g GeneratedQuestion) ToQuestion(competitionID *string) models.Question {
	qType := models.QuestionTypeSingle
	if g.Type == models.QuestionTypeMultiple {
		qType = models.QuestionTypeMultiple
	}

	options := models.OptionList{}
	for i := 0; i < len(quiz.OptionAlphabet); i++ {
		key := string(quiz.OptionAlphabet[i])
		if text, ok := g.Options[key]; ok {
			options = append(options, models.OptionPair{Key: key, Text: text})
		}
	}

	return models.Question{
		CompetitionID: competitionID,
		Type:          qType,
		Content:       g.Content,
		Options:       options,
		Answer:        quiz.SortAnswer(strings.ToUpper(strings.Join(g.Answer, ""))),
		Explanation:   g.Explanation,
	}
}

func normalizeBaseURL(baseURL string) string {
	url := strings.TrimRight(baseURL, "/")
	if !strings.HasSuffix(url, "/v1") {
		url += "/v1"
	}
	return url
}
