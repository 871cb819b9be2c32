package translation

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

	"doc-translator/internal/interpolation"

	"github.com/rs/zerolog/log"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiClient translates through the Google Gemini API.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	backoff    time.Duration
	prompts    *PromptBuilder
	httpClient *http.Client
}

// NewGeminiClient creates a Gemini translation client.
func NewGeminiClient(apiKey, model string, timeout time.Duration) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: geminiBaseURL,
		backoff: 2 * time.Second,
		prompts: NewPromptBuilder(),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// --- Gemini API request/response types ---

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  *genConfig      `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type genConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type geminiResponse struct {
	Candidates    []geminiCandidate `json:"candidates"`
	UsageMetadata *geminiUsage      `json:"usageMetadata,omitempty"`
	Error         *geminiError      `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiUsage struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Translate protects interpolation variables, asks Gemini for the
// translation and puts the variables back.
func (gc *GeminiClient) Translate(ctx context.Context, text, source, target string) (string, error) {
	safe, mappings := interpolation.Protect(text)

	reqBody := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: gc.prompts.SystemPrompt(source, target)}},
		},
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: gc.prompts.UserPrompt(safe)}},
			},
		},
		GenerationConfig: &genConfig{
			MaxOutputTokens: 8192,
			Temperature:     0.3,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal translation request: %w", err)
	}

	var lastErr error
	maxRetries := 3

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * gc.backoff
			log.Warn().Int("attempt", attempt+1).Dur("backoff", backoff).Msg("Retrying translation")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		result, err := gc.doRequest(ctx, bodyBytes)
		if err == nil {
			return interpolation.Restore(result, mappings)
		}
		lastErr = err

		// Don't retry on context cancellation.
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !isRetryable(err) {
			break
		}
	}

	return "", fmt.Errorf("translation failed: %w", lastErr)
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.code, e.body)
}

func isRetryable(err error) bool {
	var se *statusError
	if !errors.As(err, &se) {
		return true
	}
	return se.code == http.StatusTooManyRequests || se.code >= 500
}

func (gc *GeminiClient) doRequest(ctx context.Context, bodyBytes []byte) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s", gc.baseURL, gc.model, gc.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := gc.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("API call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &statusError{code: resp.StatusCode, body: string(respBody)}
	}

	var apiResp geminiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("API error [%s]: %s", apiResp.Error.Status, apiResp.Error.Message)
	}

	if len(apiResp.Candidates) == 0 {
		return "", fmt.Errorf("empty response: no candidates")
	}

	var result strings.Builder
	for _, p := range apiResp.Candidates[0].Content.Parts {
		result.WriteString(p.Text)
	}

	if apiResp.UsageMetadata != nil {
		log.Debug().
			Int("prompt_tokens", apiResp.UsageMetadata.PromptTokenCount).
			Int("output_tokens", apiResp.UsageMetadata.CandidatesTokenCount).
			Msg("Translation complete")
	}

	return strings.TrimSpace(result.String()), nil
}
