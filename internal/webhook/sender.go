package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/iudanet/granola-sync/internal/models"
	"github.com/iudanet/granola-sync/internal/version"
)

// SignatureHeader carries the HMAC signature of the request body.
const SignatureHeader = "X-Granola-Signature"

const maxErrorBody = 512

// Sender delivers signed payloads to the webhook endpoint with bounded
// retry. Delivery is sequential: one network call per retry slot, one
// terminal outcome per Send.
type Sender struct {
	httpClient    *http.Client
	logger        *slog.Logger
	url           string
	secret        string
	retryAttempts int
	retryDelay    time.Duration
}

// NewSender creates a webhook sender. retryAttempts is the total attempt
// budget per Send, retryDelay the fixed pause between attempts.
func NewSender(url, secret string, retryAttempts int, retryDelay time.Duration, logger *slog.Logger) *Sender {
	if retryAttempts < 1 {
		retryAttempts = 1
	}
	return &Sender{
		url:           url,
		secret:        secret,
		retryAttempts: retryAttempts,
		retryDelay:    retryDelay,
		logger:        logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Send serializes the payload once, signs those exact bytes and posts them
// to the endpoint. Server errors and rate limiting are retried up to the
// attempt budget with a fixed, context-interruptible delay; other client
// errors fail immediately with ErrRejected.
func (s *Sender) Send(ctx context.Context, payload *models.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	signature := Sign(body, s.secret)

	attempt := 0
	backoff := retry.WithMaxRetries(uint64(s.retryAttempts-1), retry.NewConstant(s.retryDelay))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		s.logger.Debug("sending webhook",
			"url", s.url,
			"attempt", attempt,
			"max_attempts", s.retryAttempts,
			"note_id", payload.NoteID)

		if err := s.post(ctx, body, signature); err != nil {
			s.logger.Warn("webhook attempt failed",
				"url", s.url,
				"attempt", attempt,
				"max_attempts", s.retryAttempts,
				"note_id", payload.NoteID,
				"error", err)
			return err
		}

		s.logger.Info("webhook sent", "url", s.url, "note_id", payload.NoteID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("webhook delivery failed after %d attempt(s): %w", attempt, err)
	}
	return nil
}

// post performs a single HTTP call and classifies the outcome.
func (s *Sender) post(ctx context.Context, body []byte, signature string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, signature)
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		// Network errors are retryable.
		return retry.RetryableError(fmt.Errorf("request failed: %w", err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(respBody))}
	if statusErr.Retryable() {
		return retry.RetryableError(statusErr)
	}
	return fmt.Errorf("%w: %s", ErrRejected, statusErr)
}
