// Package narrative turns already-computed pharmacogenomic facts into a
// short plain-language summary via the Gemini API.
//
// The model is a narrator only: risk label, severity, diplotype and clinical
// action are pre-computed by the deterministic pipeline. The narrator
// receives those facts, never influences them, and on any failure returns a
// static fallback so an analysis request never fails because of it.
package narrative

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"google.golang.org/genai"

	"github.com/pharmaguard-server/internal/domain"
)

// FallbackSummary is returned whenever generation is disabled or fails.
const FallbackSummary = "Explanation unavailable — pharmacogenomic profile and risk assessment " +
	"are provided in the structured fields above."

const systemPrompt = "You are a clinical pharmacogenomics assistant. " +
	"Write a single concise paragraph of 3-4 sentences that explains " +
	"in plain English why this patient's genetic profile affects the named drug " +
	"and what the clinical consequence of the stated risk label is. " +
	"Use only the facts given to you — do NOT suggest a different risk level, " +
	"severity, or treatment action. Do NOT use bullet points or disclaimers."

// Facts is the read-only fact block handed to the narrator. One-directional
// contract: facts in, prose out.
type Facts struct {
	Drug      string
	Gene      string
	Diplotype string
	Phenotype string
	RiskLabel string
	Severity  string
	Action    string
}

// factBlock renders the structured user message. Every value is already
// computed; the model cannot change them.
func (f Facts) factBlock() string {
	return fmt.Sprintf(
		"Drug: %s\n"+
			"Governing gene: %s\n"+
			"Patient diplotype: %s\n"+
			"Phenotype: %s\n"+
			"Risk label: %s\n"+
			"Severity: %s\n"+
			"Advised clinical action: %s\n\n"+
			"Summarise why this genetic profile affects this drug and what "+
			"the clinical consequence of the risk label is.",
		orUnknown(f.Drug), orUnknown(f.Gene), orUnknown(f.Diplotype),
		orUnknown(f.Phenotype), orUnknown(f.RiskLabel), orUnknown(f.Severity),
		orUnknown(f.Action))
}

func orUnknown(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Unknown"
	}
	return value
}

// Generator produces summaries with caching and a circuit breaker around
// the model API. A nil client (narrator disabled) always yields the
// fallback.
type Generator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker
	cache   Cache
	log     *logrus.Logger
}

// NewGenerator creates a Generator. When cfg.Enabled is false or the API
// key is empty the generator runs in fallback-only mode.
func NewGenerator(ctx context.Context, cfg domain.NarratorConfig, cache Cache, log *logrus.Logger) (*Generator, error) {
	g := &Generator{
		model:   cfg.Model,
		timeout: cfg.Timeout,
		cache:   cache,
		log:     log,
	}

	if cfg.Enabled && cfg.APIKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
		if err != nil {
			return nil, fmt.Errorf("creating genai client: %w", err)
		}
		g.client = client
	}

	g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "narrator",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state change")
		},
	})

	return g, nil
}

// Summarize generates the plain-language summary for one drug result.
// It never returns an error: any failure yields the static fallback.
func (g *Generator) Summarize(ctx context.Context, facts Facts) domain.NarrativeExplanation {
	if g.client == nil {
		return domain.NarrativeExplanation{Summary: FallbackSummary}
	}

	block := facts.factBlock()
	key := CacheKey(block)
	if g.cache != nil {
		if summary, ok := g.cache.Get(ctx, key); ok {
			return domain.NarrativeExplanation{Summary: summary}
		}
	}

	result, err := g.breaker.Execute(func() (interface{}, error) {
		callCtx := ctx
		if g.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}
		return g.generate(callCtx, block)
	})
	if err != nil {
		g.log.WithError(err).WithField("drug", facts.Drug).Warn("Narrative generation failed, using fallback")
		return domain.NarrativeExplanation{Summary: FallbackSummary}
	}

	summary := result.(string)
	if g.cache != nil {
		g.cache.Set(ctx, key, summary)
	}
	return domain.NarrativeExplanation{Summary: summary}
}

func (g *Generator) generate(ctx context.Context, block string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(block),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		},
	)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("model returned empty summary")
	}
	return text, nil
}
