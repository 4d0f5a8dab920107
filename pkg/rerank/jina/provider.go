package jina

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-policyassist-be/pkg/rerank"
)

type JinaScorer struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

var _ rerank.Scorer = &JinaScorer{}

type rerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n"`
}

type rerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewJinaScorer(apiKey, baseURL, model string) *JinaScorer {
	if baseURL == "" {
		baseURL = "https://api.jina.ai/v1/rerank"
	}
	if model == "" {
		model = "jina-reranker-v2-base-multilingual"
	}
	return &JinaScorer{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *JinaScorer) Score(ctx context.Context, query string, content string) (float64, error) {
	reqBody := rerankRequest{
		Model:     s.model,
		Query:     query,
		Documents: []string{content},
		TopN:      1,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("jina api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var jinaResp rerankResponse
	if err := json.Unmarshal(bodyBytes, &jinaResp); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}

	if jinaResp.Error != nil {
		return 0, fmt.Errorf("jina api returned error: %s", jinaResp.Error.Message)
	}

	if len(jinaResp.Results) == 0 {
		return 0, fmt.Errorf("empty rerank result from jina api")
	}

	return jinaResp.Results[0].RelevanceScore, nil
}
