package web3forms

// FORM ENDPOINT CLIENT

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// ErrRejected means the endpoint answered and refused the submission.
// Rejections are not retried.
var ErrRejected = errors.New("submission rejected")

type Client struct {
	endpoint   string
	httpClient *http.Client
	maxElapsed time.Duration
	logger     *zap.Logger
}

// Response is the JSON body the endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewClient(endpoint string, timeout, maxElapsed time.Duration, logger *zap.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxElapsed: maxElapsed,
		logger:     logger,
	}
}

// Submit posts the form fields URL-encoded. Transport errors and 5xx
// answers are retried with exponential backoff until maxElapsed.
func (c *Client) Submit(ctx context.Context, form url.Values) (Response, error) {
	const operation = "web3forms.Submit"

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.InitialInterval = 200 * time.Millisecond
	retryPolicy.MaxInterval = 5 * time.Second
	retryPolicy.MaxElapsedTime = c.maxElapsed

	var result Response
	err := backoff.RetryNotify(
		func() error {
			resp, err := c.post(ctx, form)
			result = resp
			return err
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, next time.Duration) {
			c.logger.Warn("Form submission failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", next))
		},
	)
	if err != nil {
		return result, fmt.Errorf("%s: %w", operation, err)
	}

	return result, nil
}

func (c *Client) post(ctx context.Context, form url.Values) (Response, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.endpoint,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return Response{}, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Response{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Response{}, backoff.Permanent(fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err))
	}

	if resp.StatusCode != http.StatusOK || !result.Success {
		return result, backoff.Permanent(fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, result.Message))
	}

	return result, nil
}
