// Package advice generates treatment guidance for a diagnosed crop disease
// through a chat agent. Advice is best effort: callers treat failure as a
// missing section, never as a workflow fault.
package advice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"

	"github.com/cropsight/cropsight/internal/config"
	"github.com/cropsight/cropsight/internal/metrics"
)

const promptTemplate = `You are an agricultural extension advisor. A farmer's %s crop has been diagnosed with %s. Provide short, practical treatment and prevention advice a field user can act on. Plain text only.`

// System defines the advice provider contract.
type System interface {
	Advise(ctx context.Context, crop, disease string) (string, error)
}

type system struct {
	agentCfg config.AgentConfig
	logger   *slog.Logger
}

// New creates an agent-backed advice system.
func New(agentCfg config.AgentConfig, logger *slog.Logger) System {
	return &system{
		agentCfg: agentCfg,
		logger:   logger.With("system", "advice"),
	}
}

func (s *system) Advise(ctx context.Context, crop, disease string) (string, error) {
	a, err := agent.New(&s.agentCfg)
	if err != nil {
		metrics.AdviceRequests.WithLabelValues("error").Inc()
		return "", fmt.Errorf("create agent: %w", err)
	}

	prompt := fmt.Sprintf(promptTemplate, crop, disease)

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		metrics.AdviceRequests.WithLabelValues("error").Inc()
		return "", fmt.Errorf("advice chat: %w", err)
	}

	text := strings.TrimSpace(resp.Content())
	if text == "" {
		metrics.AdviceRequests.WithLabelValues("error").Inc()
		return "", fmt.Errorf("empty advice response")
	}

	metrics.AdviceRequests.WithLabelValues("ok").Inc()
	s.logger.Info("advice generated", "crop", crop, "disease", disease)
	return text, nil
}
