package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jobguard/internal/domain/models"
	"jobguard/pkg/logger"
)

// ErrGenerationFailed marks any failure of the explanation backend:
// transport errors, auth errors, rate limits, malformed responses, and
// timeouts all wrap it. Callers check with errors.Is.
var ErrGenerationFailed = errors.New("explanation generation failed")

// completer is the slice of LLMClient the explainer needs
type completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Explainer turns a risk tier plus matched reasons into a short
// natural-language explanation via the LLM backend
type Explainer struct {
	client completer
	logger *logger.Logger
}

// NewExplainer creates a new Explainer
func NewExplainer(client completer, log *logger.Logger) *Explainer {
	return &Explainer{
		client: client,
		logger: log.WithComponent("explainer"),
	}
}

const explainerSystemPrompt = "You help job seekers understand why a job listing was flagged. Answer in plain language, three short bullet points, no headings."

// Explain generates an explanation for the given tier and matched reasons.
// excerpt is the truncated normalized listing text. Any backend failure is
// reported as ErrGenerationFailed; the result is never silently empty.
func (e *Explainer) Explain(ctx context.Context, excerpt string, tier models.RiskTier, reasons []string) (string, error) {
	prompt := buildExplanationPrompt(excerpt, tier, reasons)

	out, err := e.client.Complete(ctx, explainerSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	// Model output occasionally carries markdown heading markers
	out = strings.TrimSpace(strings.ReplaceAll(out, "###", ""))
	if out == "" {
		return "", fmt.Errorf("%w: backend returned empty text", ErrGenerationFailed)
	}

	e.logger.Debug().
		Str("tier", string(tier)).
		Int("reasons", len(reasons)).
		Msg("explanation generated")

	return out, nil
}

// buildExplanationPrompt embeds the tier label and a comma-joined reasons
// list, with the literal "None" when nothing matched
func buildExplanationPrompt(excerpt string, tier models.RiskTier, reasons []string) string {
	joined := "None"
	if len(reasons) > 0 {
		joined = strings.Join(reasons, ", ")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Risk Level: %s\n", tier.Label()))
	sb.WriteString(fmt.Sprintf("Suspicious indicators: %s\n\n", joined))
	sb.WriteString("Job listing (truncated):\n")
	sb.WriteString(excerpt)
	sb.WriteString("\n\nExplain simply:\n")
	sb.WriteString("- Why this job is risky\n")
	sb.WriteString("- What applicants should check\n")
	sb.WriteString("- One safety tip\n")
	return sb.String()
}
