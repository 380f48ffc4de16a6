package redaction

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// defaultAbsoluteMaxSize is the Redaction.AbsoluteMaxSize default.
const defaultAbsoluteMaxSize = 500_000

// EngineConfig configures an Engine.
type EngineConfig struct {
	AbsoluteMaxSize     int
	AdversarialDefense  bool
	PluginsEnabled      bool
	ConfidenceThreshold float64
	IgnoredTerms        []string
	IgnoredPatterns     []string
}

// DefaultEngineConfig returns the documented defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		AbsoluteMaxSize:     defaultAbsoluteMaxSize,
		AdversarialDefense:  true, // on unless explicitly disabled
		PluginsEnabled:      true,
		ConfidenceThreshold: 0.5,
	}
}

// Engine is the orchestrator: it runs detectors in parallel, threads the
// result through disambiguation/post-filter/overlap-resolution, assigns
// replacements, and applies spans to produce redacted text.
type Engine struct {
	cfg        EngineConfig
	registry   *Registry
	plugins    *PluginChain
	normalizer *Normalizer
	logger     *zap.SugaredLogger
}

// NewEngine builds an Engine with the default detector registry and the
// given configuration. A nil logger falls back to zap's no-op logger so
// callers that don't care about structured logs don't need to wire one up.
func NewEngine(cfg EngineConfig, registry *Registry, plugins *PluginChain, logger *zap.SugaredLogger) *Engine {
	if registry == nil {
		registry = NewDefaultRegistry()
	}
	if plugins == nil {
		plugins = NewPluginChain(0)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Engine{
		cfg:        cfg,
		registry:   registry,
		plugins:    plugins,
		normalizer: NewNormalizer(),
		logger:     logger,
	}
}

// Redact implements the public redact(text, policy, ctx) operation.
func (e *Engine) Redact(ctx context.Context, text string, policy *Policy, session *RedactionContext) (string, error) {
	if policy == nil || policy.Identifiers == nil {
		return "", newError(CodePolicyValidation, "policy is nil or missing identifiers")
	}
	if session == nil {
		return "", newError(CodeContextInvalid, "redaction context is required")
	}
	if text == "" {
		return "", nil
	}
	if len(text) > e.cfg.AbsoluteMaxSize {
		return "", newError(CodeInputTooLarge, fmt.Sprintf("input is %d bytes, exceeds limit of %d", len(text), e.cfg.AbsoluteMaxSize))
	}
	if !utf8.ValidString(text) {
		return "", newError(CodeInputInvalid, "input is not valid UTF-8")
	}

	start := time.Now()
	redacted, err := e.runPipeline(ctx, text, policy, session)
	session.Stats.recordStage("total", time.Since(start))
	if err != nil {
		if _, ok := AsCode(err); ok {
			return "", err
		}
		e.logger.Errorw("redaction pipeline failed", "error", err)
		return "", internalError(err)
	}
	return redacted, nil
}

// Restore applies the session's token reinsertion contract at the engine
// boundary.
func (e *Engine) Restore(session *RedactionContext, text string) string {
	return session.Tokens.Reinsert(text)
}

func (e *Engine) runPipeline(ctx context.Context, text string, policy *Policy, session *RedactionContext) (redacted string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in redaction pipeline: %v", r)
		}
	}()

	var normalized string
	var report NormalizationReport
	if e.cfg.AdversarialDefense {
		// Scoring-only normalization on a copy: detection below reads
		// `text`, never `normalized`, so span offsets always refer to the
		// original bytes. The copy is only re-scanned to flag identifiers
		// that adversarial Unicode would otherwise conceal.
		normalized, report = e.normalizer.Normalize(text)
		session.Stats.AdversarialSuspicion = report.SuspicionScore
		if report.HadInvisibles || report.HadHomoglyphs {
			e.logger.Debugw("adversarial unicode flagged", "flagged_chars", report.FlaggedChars, "suspicion_score", report.SuspicionScore)
		}
	}

	if e.cfg.PluginsEnabled {
		text = e.plugins.RunPreProcess(ctx, text)
		if spans, ok := e.plugins.RunCanShortCircuit(ctx, text); ok {
			return e.finish(ctx, text, spans, policy, session)
		}
	}

	detectors := e.registry.Enabled(policy)
	detectStart := time.Now()
	spans, err := e.fanOut(ctx, detectors, text, policy, session)
	if err != nil {
		return "", err
	}
	session.Stats.recordStage("detect", time.Since(detectStart))
	session.Stats.SpansDetected = len(spans)

	if report.FlaggedChars > 0 {
		// The normalized copy surfaces candidates the original bytes hide.
		// Those spans carry offsets into the copy, not the input, so they
		// are never applied; the count is reported so callers can escalate.
		concealed, cErr := e.fanOut(ctx, detectors, normalized, policy, session)
		if cErr == nil && len(concealed) > len(spans) {
			session.Stats.ConcealedCandidates = len(concealed) - len(spans)
			e.logger.Warnw("identifiers concealed by adversarial unicode",
				"visible", len(spans), "after_normalization", len(concealed))
		}
	}

	if e.cfg.PluginsEnabled {
		spans = e.plugins.RunPostDetection(ctx, spans, text)
	}

	for i := range spans {
		spans[i].Window = extractWindow(text, spans[i].Start, spans[i].End, defaultWindowTokens)
		spans[i].Context = extractContext(text, spans[i].Start, spans[i].End)
	}

	spans = disambiguate(groupByPosition(spans))

	filters := defaultPostFilterPipeline(e.cfg.ConfidenceThreshold, ignoredTermSet(e.cfg.IgnoredTerms), e.cfg.IgnoredPatterns)
	spans = runPostFilterPipeline(spans, filters)

	spans = resolveOverlaps(spans)
	session.Stats.SpansDropped = session.Stats.SpansDetected - len(spans)

	if e.cfg.PluginsEnabled {
		spans = e.plugins.RunPreRedaction(ctx, spans, text)
	}

	return e.finish(ctx, text, spans, policy, session)
}

func (e *Engine) finish(ctx context.Context, text string, spans []Span, policy *Policy, session *RedactionContext) (string, error) {
	spans = e.assignReplacements(ctx, spans, policy, session)

	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	output := e.apply(text, spans)
	session.Stats.SpansApplied = len(spans)
	hits := 0
	for _, entry := range session.Replacements.Entries() {
		if entry.Occurrences > 1 {
			hits += entry.Occurrences - 1
		}
	}
	session.Stats.ReplacementHits = hits

	if e.cfg.PluginsEnabled {
		output = e.plugins.RunPostRedaction(ctx, output)
	}
	return output, nil
}

// assignReplacements assigns one replacement per span, sequentially, in
// start-ascending order, so the token counter sequence is deterministic.
func (e *Engine) assignReplacements(ctx context.Context, spans []Span, policy *Policy, session *RedactionContext) []Span {
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })

	out := make([]Span, len(spans))
	for i, s := range spans {
		cfg := IdentifierConfig{Strategy: StrategyRedact}
		if policy != nil {
			cfg = policy.ConfigFor(s.FilterType)
		}

		if cfg.Strategy == StrategySkip {
			s.Ignored = true
			out[i] = s
			continue
		}

		switch {
		case s.FilterType == FilterDate && cfg.Strategy != StrategyMask && cfg.Strategy != StrategyHash && cfg.Strategy != StrategyEncrypt:
			s.Replacement = e.dateReplacement(s, session)
		case cfg.Strategy == StrategyMask || cfg.Strategy == StrategyHash || cfg.Strategy == StrategyEncrypt:
			// Per-type strategy other than plain tokenization; still
			// routed through the replacement context so DOCUMENT/CONTEXT
			// scope stability holds for masked/hashed values too.
			s.Replacement = session.Replacements.GetReplacement(s.OriginalValue, s.FilterType, "", scopeFor(cfg), func() string {
				fallback := func() string { return session.CreateToken(s.FilterType, s.OriginalValue) }
				return applyStrategy(ctx, s, cfg.Strategy, fallback)
			})
		default:
			s.Replacement = session.Replacements.GetReplacement(s.OriginalValue, s.FilterType, "", scopeFor(cfg), func() string {
				return session.CreateToken(s.FilterType, s.OriginalValue)
			})
		}
		s.Applied = true
		out[i] = s
	}
	return out
}

func (e *Engine) dateReplacement(s Span, session *RedactionContext) string {
	eventNumber, ok := session.DateShift.AddDate(s.OriginalValue)
	if !ok {
		return "[DATE_REDACTED]"
	}
	token := session.DateShift.GenerateToken(eventNumber)
	session.Tokens.StoreToken(token, s.OriginalValue)
	return token
}

// apply splices replacements in descending start order so offsets to the
// left of each splice stay valid.
func (e *Engine) apply(text string, spans []Span) string {
	output := text
	for i := len(spans) - 1; i >= 0; i-- {
		s := spans[i]
		if s.Ignored || s.Replacement == "" {
			continue
		}
		if s.Start < 0 || s.End > len(output) || s.Start > s.End {
			continue
		}
		output = output[:s.Start] + s.Replacement + output[s.End:]
	}
	return output
}

// fanOut runs every enabled detector in parallel. One failing detector is
// isolated: its output is treated as empty and recorded in statistics, it
// never aborts the others.
func (e *Engine) fanOut(ctx context.Context, detectors []Detector, text string, policy *Policy, session *RedactionContext) ([]Span, error) {
	results := make([][]Span, len(detectors))

	g, gctx := errgroup.WithContext(ctx)
	for i, d := range detectors {
		i, d := i, d
		g.Go(func() error {
			cfg := policy.ConfigFor(d.FilterType())
			spans, err := d.Detect(gctx, text, cfg)
			if err != nil {
				e.logger.Warnw("detector failed", "type", d.FilterType(), "error", err)
				session.Stats.recordDetectorError(d.FilterType())
				return nil // isolated: do not fail the group
			}
			results[i] = spans
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, wrapError(CodeDetectorError, "detector fan-out failed", err)
	}

	var all []Span
	for _, spans := range results {
		all = append(all, spans...)
	}
	return all, nil
}

func scopeFor(cfg IdentifierConfig) Scope {
	if cfg.Scope != ScopeNone {
		return cfg.Scope
	}
	return ScopeDocument
}

func ignoredTermSet(terms []string) map[string]bool {
	if len(terms) == 0 {
		return nil
	}
	out := make(map[string]bool, len(terms))
	for _, t := range terms {
		out[strings.ToLower(t)] = true
	}
	return out
}

