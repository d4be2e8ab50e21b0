package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/af-corp/bfhl-service/internal/config"
)

// GeminiAdapter calls the Google Generative Language generateContent API.
type GeminiAdapter struct {
	cfg    config.ProviderConfig
	client *http.Client
}

func NewGeminiAdapter(cfg config.ProviderConfig, client *http.Client) *GeminiAdapter {
	return &GeminiAdapter{cfg: cfg, client: client}
}

func (a *GeminiAdapter) Name() string { return "gemini" }

func (a *GeminiAdapter) TransformRequest(ctx context.Context, prompt string) (*http.Request, error) {
	body := geminiRequestBody{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal gemini request: %w", err)
	}

	endpoint := a.cfg.BaseURL + "/models/" + url.PathEscape(a.cfg.Model) + ":generateContent"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", a.cfg.APIKey)
	for k, v := range a.cfg.Headers {
		if v != "" {
			httpReq.Header.Set(k, v)
		}
	}

	return httpReq, nil
}

// TransformResponse returns the text of the first part of the first candidate.
func (a *GeminiAdapter) TransformResponse(ctx context.Context, resp *http.Response) (string, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, string(body))
	}

	var gemResp geminiResponseBody
	if err := json.Unmarshal(body, &gemResp); err != nil {
		return "", fmt.Errorf("unmarshal gemini response: %w", err)
	}

	if len(gemResp.Candidates) == 0 {
		return "", fmt.Errorf("%w: gemini returned no candidates", ErrMalformedResponse)
	}
	parts := gemResp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: gemini candidate has no parts", ErrMalformedResponse)
	}
	return parts[0].Text, nil
}

func (a *GeminiAdapter) SendRequest(req *http.Request) (*http.Response, error) {
	return a.client.Do(req)
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequestBody struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponseBody struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}
