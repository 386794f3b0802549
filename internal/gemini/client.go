// Package gemini calls the Google generative language API over REST.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/JohilMehra/studysync/internal/domain"
	"github.com/JohilMehra/studysync/internal/errors"
	"github.com/JohilMehra/studysync/internal/metrics"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash"

// Client implements domain.TutorService against the Gemini REST API. The API
// key stays server-side; requests fail fast and are never retried here.
type Client struct {
	apiKey     string
	model      string
	baseURL    string // configurable for testing
	httpClient *http.Client
}

func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithBaseURL points the client at a different endpoint, for tests.
func NewClientWithBaseURL(apiKey, model, baseURL string) *Client {
	c := NewClient(apiKey, model)
	c.baseURL = baseURL
	return c
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate sends a single prompt and returns the first candidate's text.
func (c *Client) generate(ctx context.Context, operation, prompt string) (string, error) {
	if c.apiKey == "" {
		metrics.AIRequestFailuresTotal.WithLabelValues(operation, "no_api_key").Inc()
		return "", errors.ExternalError("AI features are not configured", nil)
	}

	start := time.Now()
	text, err := c.doGenerate(ctx, prompt)
	metrics.AIRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AIRequestFailuresTotal.WithLabelValues(operation, failureReason(err)).Inc()
	}
	return text, err
}

func failureReason(err error) string {
	structured := errors.AsStructuredError(err)
	return string(structured.Type)
}

func (c *Client) doGenerate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.InternalError("failed to marshal AI request", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", errors.InternalError("failed to build AI request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.ExternalError("AI request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.ExternalError("failed to read AI response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", errors.ExternalError("AI request rejected", fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 512))).
			WithField("status", resp.StatusCode)
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", errors.MalformedUpstreamError("unparseable AI response", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", errors.MalformedUpstreamError("AI response has no candidates", nil)
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// stripCodeFence removes a surrounding markdown code fence from model output.
// Models regularly wrap JSON answers in ```json fences despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line (e.g. "json").
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// AnswerDoubt answers a free-form study question.
func (c *Client) AnswerDoubt(ctx context.Context, question string) (string, error) {
	prompt := fmt.Sprintf(
		"You are a helpful study tutor. Answer the following question clearly and concisely, "+
			"with a short example where it helps understanding.\n\nQuestion: %s", question)

	answer, err := c.generate(ctx, "answer_doubt", prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// GenerateQuiz produces a quiz with exactly numQuestions questions on the topic.
func (c *Client) GenerateQuiz(ctx context.Context, topic, difficulty string, numQuestions int) (*domain.Quiz, error) {
	prompt := fmt.Sprintf(
		"Generate a %s difficulty quiz about %q with exactly %d multiple-choice questions. "+
			"Respond with ONLY a JSON array, no prose and no markdown fences. Each element must have "+
			"this shape: {\"id\": 1, \"question\": \"...\", \"options\": [\"a\", \"b\", \"c\", \"d\"], "+
			"\"correctAnswer\": 0, \"explanation\": \"...\"}. correctAnswer is the zero-based index "+
			"of the right option.", difficulty, topic, numQuestions)

	raw, err := c.generate(ctx, "generate_quiz", prompt)
	if err != nil {
		return nil, err
	}

	var questions []domain.Question
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &questions); err != nil {
		return nil, errors.MalformedUpstreamError("AI quiz output is not valid JSON", err)
	}

	if len(questions) != numQuestions {
		return nil, errors.MalformedUpstreamError("AI quiz has wrong question count", nil).
			WithField("want", numQuestions).
			WithField("got", len(questions))
	}

	for i := range questions {
		q := &questions[i]
		if q.Question == "" || len(q.Options) < 2 ||
			q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return nil, errors.MalformedUpstreamError("AI quiz question is malformed", nil).
				WithField("index", i)
		}
		q.ID = i + 1
	}

	return &domain.Quiz{
		Title:      fmt.Sprintf("%s quiz", topic),
		Topic:      topic,
		Difficulty: difficulty,
		Questions:  questions,
	}, nil
}

var _ domain.TutorService = (*Client)(nil)
