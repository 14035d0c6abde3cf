package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Request is one retrieval-augmented generation call.
type Request struct {
	Input              string
	KnowledgeBaseID    string
	ModelArn           string
	TextPromptTemplate string
	MaxTokens          int
	Temperature        float64
	TopP               float64
	StopSequences      []string
}

// Generator is the external generation capability. The HTTP client below is
// the production implementation; tests substitute fakes.
type Generator interface {
	RetrieveAndGenerate(ctx context.Context, req Request) (string, error)
}

type HTTPClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 90 * time.Second},
	}
}

// retrievalResults controls how many knowledge base chunks back each answer.
const retrievalResults = 10

type ragTextInference struct {
	MaxTokens     int      `json:"maxTokens"`
	Temperature   float64  `json:"temperature"`
	TopP          float64  `json:"topP"`
	StopSequences []string `json:"stopSequences"`
}

type ragReq struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	KnowledgeBaseID string `json:"knowledgeBaseId"`
	ModelArn        string `json:"modelArn"`
	NumberOfResults int    `json:"numberOfResults"`
	PromptTemplate  struct {
		TextPromptTemplate string `json:"textPromptTemplate,omitempty"`
	} `json:"promptTemplate"`
	InferenceConfig struct {
		TextInferenceConfig ragTextInference `json:"textInferenceConfig"`
	} `json:"inferenceConfig"`
}

type ragResp struct {
	Output struct {
		Text string `json:"text"`
	} `json:"output"`
	Error string `json:"error,omitempty"`
}

func (c *HTTPClient) RetrieveAndGenerate(ctx context.Context, req Request) (string, error) {
	if c.Client == nil {
		return "", errors.New("generation: http client is nil")
	}

	var body ragReq
	body.Input.Text = req.Input
	body.KnowledgeBaseID = req.KnowledgeBaseID
	body.ModelArn = req.ModelArn
	body.NumberOfResults = retrievalResults
	body.PromptTemplate.TextPromptTemplate = req.TextPromptTemplate
	body.InferenceConfig.TextInferenceConfig = ragTextInference{
		MaxTokens:     req.MaxTokens,
		Temperature:   req.Temperature,
		TopP:          req.TopP,
		StopSequences: req.StopSequences,
	}

	b, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/retrieve-and-generate", c.BaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.Client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("generation: status %d", resp.StatusCode)
	}

	var decoded ragResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	if decoded.Error != "" {
		return "", errors.New(decoded.Error)
	}
	if decoded.Output.Text == "" {
		return "", errors.New("generation: empty output")
	}
	return decoded.Output.Text, nil
}
