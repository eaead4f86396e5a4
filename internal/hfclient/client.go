// Package hfclient calls the Hugging Face inference API to score image
// realism. It implements inference.Estimator; any failure here is
// recoverable and callers fall back to the local heuristic.
package hfclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/authenx/internal/inference"
	"github.com/example/authenx/internal/logging"
)

const defaultBaseURL = "https://api-inference.huggingface.co/models/"

// errorBodyLimit caps how much of an error response is echoed into logs.
const errorBodyLimit = 150

// Client posts raw image bytes to a hosted real-vs-AI classifier.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	model      string
	logger     *zap.Logger
}

// New constructs a client for the given model with a bounded call timeout.
func New(token, model string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		token:      token,
		model:      model,
		logger:     logger.Named("hfclient"),
	}
}

// Estimate sends the image to the inference API and normalizes the
// response into a realism score.
func (c *Client) Estimate(ctx context.Context, image []byte) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.model, bytes.NewReader(image))
	if err != nil {
		return 0, logging.NewOperationError("hfclient.build_request", "", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		wrapped := logging.NewOperationError("hfclient.estimate", "", err)
		c.logger.Warn("inference call failed", zap.Error(wrapped), zap.String("model", c.model))
		return 0, wrapped
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		err := fmt.Errorf("inference API returned %d: %s", resp.StatusCode, snippet)
		c.logger.Warn("inference call rejected", zap.Error(err), zap.String("model", c.model))
		return 0, logging.NewOperationError("hfclient.estimate", "", err)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, logging.NewOperationError("hfclient.read_response", "", err)
	}

	score, err := normalizeResponse(payload)
	if err != nil {
		return 0, logging.NewOperationError("hfclient.normalize_response", "", err)
	}
	return score, nil
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// normalizeResponse reconciles the two response shapes the API produces:
// a list of label/confidence pairs, or a single score object. For the list
// shape, "fake" and "ai" labels are interchangeable negative evidence and
// a direct "real" score wins over the complement of the strongest negative.
func normalizeResponse(payload []byte) (float64, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return 0, fmt.Errorf("empty response body")
	}

	if trimmed[0] == '[' {
		var labels []labelScore
		if err := json.Unmarshal(trimmed, &labels); err != nil {
			return 0, fmt.Errorf("malformed label list: %w", err)
		}
		scores := make(map[string]float64, len(labels))
		for _, entry := range labels {
			if entry.Label != "" {
				scores[strings.ToLower(entry.Label)] = entry.Score
			}
		}
		real := scores["real"]
		negative := math.Max(scores["fake"], scores["ai"])
		return inference.RoundScore(math.Max(real, 1-negative)), nil
	}

	var single struct {
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return 0, fmt.Errorf("malformed score object: %w", err)
	}
	return inference.RoundScore(single.Score), nil
}
