package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const inferenceBaseURL = "https://api-inference.huggingface.co/models"

// Fixed generation parameters. Not user-controlled.
const (
	negativePrompt = "blurry, bad quality, distorted"
	inferenceSteps = 30
	guidanceScale  = 7.5
)

// HuggingFace calls the Hugging Face inference API for text-to-image.
type HuggingFace struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

type HuggingFaceOption func(*HuggingFace)

// WithBaseURL overrides the inference endpoint, used by tests.
func WithBaseURL(url string) HuggingFaceOption {
	return func(h *HuggingFace) {
		h.baseURL = url
	}
}

// WithHTTPClient sets the HTTP client (default: 60s timeout).
func WithHTTPClient(c *http.Client) HuggingFaceOption {
	return func(h *HuggingFace) {
		h.httpClient = c
	}
}

func NewHuggingFace(apiKey, model string, opts ...HuggingFaceOption) *HuggingFace {
	h := &HuggingFace{
		apiKey:  apiKey,
		model:   model,
		baseURL: inferenceBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type textToImageRequest struct {
	Inputs     string                `json:"inputs"`
	Parameters textToImageParameters `json:"parameters"`
}

type textToImageParameters struct {
	NegativePrompt    string  `json:"negative_prompt"`
	NumInferenceSteps int     `json:"num_inference_steps"`
	GuidanceScale     float64 `json:"guidance_scale"`
}

func (h *HuggingFace) Generate(ctx context.Context, prompt string) ([]byte, error) {
	body, err := json.Marshal(textToImageRequest{
		Inputs: prompt,
		Parameters: textToImageParameters{
			NegativePrompt:    negativePrompt,
			NumInferenceSteps: inferenceSteps,
			GuidanceScale:     guidanceScale,
		},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s", strings.TrimRight(h.baseURL, "/"), h.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+h.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference request: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("inference response: %w", err)
	}
	return data, nil
}

func (h *HuggingFace) ModelName() string {
	return h.model
}

var _ Generator = (*HuggingFace)(nil)
