package simd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/queueing-core/internal/analytic"
	"github.com/GoSim-25-26J-441/queueing-core/internal/metrics"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/config"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/models"
	"github.com/GoSim-25-26J-441/queueing-core/pkg/utils"
)

var (
	ErrInvalidURL       = errors.New("invalid callback url")
	ErrMetadataEndpoint = errors.New("callback url targets a cloud metadata endpoint")
)

// NotificationPayload is the JSON body POSTed to a run's callback URL
type NotificationPayload struct {
	RunID      string                 `json:"run_id"`
	Kind       models.RunKind         `json:"kind"`
	Status     models.RunStatus       `json:"status"`
	Params     models.QueueParameters `json:"params"`
	CreatedAt  time.Time              `json:"created_at"`
	EndedAt    time.Time              `json:"ended_at"`
	Error      string                 `json:"error,omitempty"`
	Measures   *analytic.Measures     `json:"measures,omitempty"`
	Stats      *models.AggregateStats `json:"stats,omitempty"`
	Comparison *metrics.Comparison    `json:"comparison,omitempty"`
	Timestamp  int64                  `json:"timestamp"` // When notification was sent
}

// Notifier delivers finished runs to their callback URLs.
type Notifier struct {
	httpClient *http.Client
	maxRetries int
	backoff    utils.Backoff
	store      *RunStore
	logger     *slog.Logger

	wg sync.WaitGroup
}

// NewNotifier builds a notifier from the notification config
func NewNotifier(cfg config.NotificationConfig, store *RunStore, log *slog.Logger) *Notifier {
	return &Notifier{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
		},
		maxRetries: cfg.MaxRetries,
		backoff:    utils.NewBackoff(cfg.Backoff, cfg.BaseMs, cfg.MaxMs, true),
		store:      store,
		logger:     log,
	}
}

// Start consumes run events until ctx is done and notifies every run that
// reaches a terminal state with a callback URL.
func (n *Notifier) Start(ctx context.Context, bus *EventBus) error {
	events, err := bus.Subscribe(ctx)
	if err != nil {
		return err
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for ev := range events {
			if !ev.Status.IsTerminal() {
				continue
			}
			rec, ok := n.store.Get(ev.RunID)
			if !ok || rec.CallbackURL == "" {
				continue
			}
			n.Notify(ctx, rec)
		}
	}()
	return nil
}

// Wait blocks until the event loop and all in-flight deliveries finish.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// Notify sends the run to its callback URL in the background.
func (n *Notifier) Notify(ctx context.Context, rec *RunRecord) {
	if rec == nil || rec.CallbackURL == "" {
		return
	}
	finalURL := strings.ReplaceAll(rec.CallbackURL, "{run_id}", rec.Run.ID)
	payload := NotificationPayload{
		RunID:      rec.Run.ID,
		Kind:       rec.Run.Kind,
		Status:     rec.Run.Status,
		Params:     rec.Run.Params,
		CreatedAt:  rec.Run.CreatedAt,
		EndedAt:    rec.Run.EndedAt,
		Error:      rec.Run.Error,
		Measures:   rec.Measures,
		Stats:      rec.Stats,
		Comparison: rec.Comparison,
		Timestamp:  time.Now().UTC().UnixMilli(),
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.send(ctx, finalURL, payload); err != nil {
			n.logger.Error("failed to send notification after retries",
				"callback_url", finalURL,
				"run_id", payload.RunID,
				"max_retries", n.maxRetries,
				"error", err)
		}
	}()
}

// send POSTs the payload, retrying with backoff on transport errors and non-2xx replies.
func (n *Notifier) send(ctx context.Context, callbackURL string, payload NotificationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= n.maxRetries; attempt++ {
		if attempt > 0 {
			delay := n.backoff.NextDelay(attempt - 1)
			n.logger.Debug("retrying notification",
				"run_id", payload.RunID,
				"attempt", attempt,
				"delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("notification cancelled: %w (last error: %v)", ctx.Err(), lastErr)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, callbackURL, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "queueing-core/1.0")

		resp, err := n.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			n.logger.Warn("notification attempt failed",
				"run_id", payload.RunID,
				"attempt", attempt+1,
				"error", err)
			continue
		}
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			n.logger.Info("notification sent",
				"run_id", payload.RunID,
				"status", payload.Status,
				"status_code", resp.StatusCode)
			return nil
		}
		lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		n.logger.Warn("notification returned non-2xx status",
			"run_id", payload.RunID,
			"status_code", resp.StatusCode,
			"response_body", string(snippet),
			"attempt", attempt+1)
	}
	return lastErr
}

// validateCallbackURL accepts http(s) URLs with a host, rejecting wildcard
// and cloud metadata addresses.
func validateCallbackURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https", ErrInvalidURL)
	}
	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("%w: missing hostname", ErrInvalidURL)
	}
	switch strings.ToLower(host) {
	case "metadata.google.internal", "metadata":
		return ErrMetadataEndpoint
	}
	if ip := net.ParseIP(host); ip != nil {
		if ip.IsUnspecified() {
			return fmt.Errorf("%w: wildcard address", ErrInvalidURL)
		}
		if ip.Equal(net.ParseIP("169.254.169.254")) || ip.Equal(net.ParseIP("fd00:ec2::254")) {
			return ErrMetadataEndpoint
		}
	}
	return nil
}
