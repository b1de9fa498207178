package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/trip-planner/pkg/health"
)

// Service probes the inference backend and runs one bounded generation.
type Service interface {
	Generate(ctx context.Context, req Request) (string, error)
	Diagnose(ctx context.Context) *health.Report
	Describe() Info
}

// Backend is an inference service implementation.
type Backend interface {
	Name() string
	Model() string
	// Ping confirms the service is reachable and the configured model is available.
	Ping(ctx context.Context) error
	Complete(ctx context.Context, c Completion) (string, error)
}

type service struct {
	cfg     Config
	backend Backend
	logger  *slog.Logger
}

// NewService wires the generation adapter around a backend.
func NewService(cfg Config, backend Backend, logger *slog.Logger) Service {
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 3 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &service{
		cfg:     cfg,
		backend: backend,
		logger:  logger.With("component", "generation.service", "provider", backend.Name(), "model", backend.Model()),
	}
}

func (s *service) Describe() Info {
	return Info{Provider: s.backend.Name(), Model: s.backend.Model()}
}

func (s *service) Generate(ctx context.Context, req Request) (string, error) {
	if err := s.probe(ctx); err != nil {
		s.logger.Warn("inference probe failed", "error", err)
		return "", &Failure{Kind: FailureUnavailable, Err: err}
	}

	genCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	began := time.Now()
	text, err := s.backend.Complete(genCtx, s.completion(req))
	elapsed := time.Since(began)
	if err != nil {
		failure := classify(genCtx, err)
		s.logger.Warn("generation failed", "kind", failure.Kind, "elapsed_ms", elapsed.Milliseconds(), "error", err)
		return "", failure
	}
	if strings.TrimSpace(text) == "" {
		s.logger.Warn("generation returned empty text", "elapsed_ms", elapsed.Milliseconds())
		return "", &Failure{Kind: FailureEmpty}
	}
	s.logger.Info("generation completed", "elapsed_ms", elapsed.Milliseconds(), "chars", len(text))
	return text, nil
}

func (s *service) probe(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, s.cfg.ProbeTimeout)
	defer cancel()
	return s.backend.Ping(probeCtx)
}

func (s *service) completion(req Request) Completion {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = s.cfg.MaxTokens
	}
	return Completion{
		System:      req.System,
		Prompt:      req.Prompt,
		Temperature: s.cfg.Temperature,
		TopP:        s.cfg.TopP,
		MaxTokens:   maxTokens,
		Stop:        s.cfg.Stop,
		JSON:        req.JSON,
	}
}

func classify(ctx context.Context, err error) *Failure {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return &Failure{Kind: FailureTimeout, Err: err}
	}
	return &Failure{Kind: FailureHTTP, Err: err}
}

func (s *service) Diagnose(ctx context.Context) *health.Report {
	report := health.NewReport(s.backend.Name())
	if !report.Run("probe", func() (string, error) {
		if err := s.probe(ctx); err != nil {
			return "", err
		}
		return fmt.Sprintf("model %s available", s.backend.Model()), nil
	}) {
		report.Skip("generate", "probe failed")
		return report
	}
	report.Run("generate", func() (string, error) {
		text, err := s.Generate(ctx, Request{
			System:    "Reply with JSON only.",
			Prompt:    `Return exactly {"ok":true}`,
			MaxTokens: 20,
			JSON:      true,
		})
		if err != nil {
			return "", err
		}
		return truncate(strings.TrimSpace(text), 120), nil
	})
	return report
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
