package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPClient lists knowledge bases from the origin catalog service.
type HTTPClient struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type listResp struct {
	KnowledgeBaseSummaries []KnowledgeBaseSummary `json:"knowledgeBaseSummaries"`
	Error                  string                 `json:"error,omitempty"`
}

func (c *HTTPClient) ListKnowledgeBases(ctx context.Context) ([]KnowledgeBaseSummary, error) {
	if c.Client == nil {
		return nil, errors.New("catalog: http client is nil")
	}

	url := fmt.Sprintf("%s/knowledge-bases", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("catalog: status %d", resp.StatusCode)
	}

	var decoded listResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	if decoded.Error != "" {
		return nil, errors.New(decoded.Error)
	}
	return decoded.KnowledgeBaseSummaries, nil
}
