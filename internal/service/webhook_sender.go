package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aprameyak/philly/internal/config"
	"github.com/aprameyak/philly/internal/domain"
	"github.com/aprameyak/philly/pkg/e"
)

// WebhookDequeuer is the consuming side of the achievement queue.
type WebhookDequeuer interface {
	BRPop(ctx context.Context, timeout time.Duration) (domain.AchievementPayload, error)
}

// WebhookSender drains the achievement queue and POSTs payloads to the
// configured endpoint. Delivery is at-most-once, best-effort.
type WebhookSender struct {
	logger *slog.Logger
	cfg    config.WebhookConfig
	queue  WebhookDequeuer
	http   *http.Client
}

func NewWebhookSender(logger *slog.Logger, cfg config.WebhookConfig, q WebhookDequeuer) *WebhookSender {
	return &WebhookSender{
		logger: logger,
		cfg:    cfg,
		queue:  q,
		http:   &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *WebhookSender) Run(ctx context.Context) {
	if s.cfg.Disabled || s.cfg.URL == "" {
		s.logger.Info("webhook sender disabled")
		return
	}
	s.logger.Info("webhook sender started", slog.String("url", s.cfg.URL))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("webhook sender stopped", slog.String("reason", ctx.Err().Error()))
			return
		default:
		}

		payload, err := s.queue.BRPop(ctx, 5*time.Second)
		if err != nil {
			if errors.Is(err, e.ErrQueueEmpty) || errors.Is(err, context.Canceled) {
				continue
			}
			s.logger.Error("BRPop failed", slog.Any("error", err))
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if err := s.send(ctx, payload); err != nil {
			s.logger.Error("webhook delivery failed",
				slog.String("user_id", payload.UserID),
				slog.Any("error", err))
			continue
		}
		s.logger.Info("webhook delivered",
			slog.String("user_id", payload.UserID),
			slog.Any("achievements", payload.Achievements))
	}
}

func (s *WebhookSender) send(ctx context.Context, payload domain.AchievementPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return e.Wrap("webhook endpoint", e.ErrExternalService)
	}
	return nil
}
