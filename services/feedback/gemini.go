package feedbacksvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
	"github.com/tidwall/gjson"

	"github.com/trezcool/registro/core"
	"github.com/trezcool/registro/core/gradebook"
)

const defaultTimeout = 20 * time.Second

type (
	geminiGenerator struct {
		client  *rest.Client
		apiKey  string
		model   string
		baseURL string
		timeout time.Duration
		logger  core.Logger
	}

	geminiPart struct {
		Text string `json:"text"`
	}

	geminiContent struct {
		Parts []geminiPart `json:"parts"`
	}

	geminiRequest struct {
		Contents []geminiContent `json:"contents"`
	}
)

var _ gradebook.FeedbackGenerator = (*geminiGenerator)(nil)

// NewGeminiGenerator calls the Gemini generateContent endpoint.
// Without an API key it falls back to the offline generator.
func NewGeminiGenerator(conf core.FeedbackConfig, logger core.Logger) gradebook.FeedbackGenerator {
	if conf.APIKey == "" {
		return NewOfflineGenerator()
	}
	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &geminiGenerator{
		client:  &rest.Client{HTTPClient: &http.Client{}},
		apiKey:  conf.APIKey,
		model:   conf.Model,
		baseURL: strings.TrimRight(conf.BaseURL, "/"),
		timeout: timeout,
		logger:  logger,
	}
}

func (gen *geminiGenerator) GenerateFeedback(ctx context.Context, studentName, subjectName string, grades []gradebook.GradeEntry) string {
	ctx, cancel := context.WithTimeout(ctx, gen.timeout)
	defer cancel()

	text, err := gen.generate(ctx, Prompt(studentName, subjectName, grades))
	if err != nil {
		gen.logger.Error("generating feedback", err, map[string]interface{}{"model": gen.model})
		return FallbackUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return FallbackEmpty
	}
	return strings.TrimSpace(text)
}

func (gen *geminiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}})
	if err != nil {
		return "", errors.Wrap(err, "encoding request")
	}

	res, err := gen.client.SendWithContext(ctx, rest.Request{
		Method:      rest.Post,
		BaseURL:     fmt.Sprintf("%s/v1beta/models/%s:generateContent", gen.baseURL, gen.model),
		Headers:     map[string]string{"Content-Type": "application/json"},
		QueryParams: map[string]string{"key": gen.apiKey},
		Body:        body,
	})
	if err != nil {
		return "", errors.Wrap(err, "calling gemini")
	}
	if res.StatusCode >= http.StatusBadRequest {
		msg := gjson.Get(res.Body, "error.message").String()
		return "", errors.Errorf("gemini - status: %d - %s", res.StatusCode, msg)
	}
	if !gjson.Valid(res.Body) {
		return "", errors.New("gemini - malformed response")
	}
	return gjson.Get(res.Body, "candidates.0.content.parts.0.text").String(), nil
}
