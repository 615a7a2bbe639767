package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"voc-backend/internal/confidence"
	"voc-backend/internal/llm"
	"voc-backend/internal/records"
	"voc-backend/internal/retrieval"
	"voc-backend/internal/rules"
	"voc-backend/internal/shared/metrics"
	"voc-backend/internal/shared/telemetry"
)

const (
	DefaultMinSimilarity = 0.35
	DefaultMinMatches    = 1

	defaultLLMTimeout       = 60 * time.Second
	defaultRetrievalTimeout = 10 * time.Second

	failureRecommendation = "시스템 관리자에게 문의하시거나 로그를 직접 확인해주세요."
)

var (
	errInsufficientMatches = errors.New("insufficient vector matches")
	errNoCategory          = errors.New("no template category matched")
)

// Retriever finds similar logs. *retrieval.Gateway implements it.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]retrieval.Match, error)
}

// Recorder persists analysis outcomes. Failures are logged, never returned.
type Recorder interface {
	Save(ctx context.Context, rec records.Record) error
}

type initializer interface {
	Initialize(ctx context.Context) error
}

// Deps are the collaborators built once at startup.
type Deps struct {
	Retriever Retriever
	LLM       llm.Completer
	Rules     *rules.Analyzer
	Recorder  Recorder
}

// Options tunes the fallback chain.
type Options struct {
	TopK             int
	MinSimilarity    float64
	MinMatches       int
	LLMTimeout       time.Duration
	RetrievalTimeout time.Duration
	ModelName        string
	EmbeddingModel   string
}

// Service orchestrates the RAG, rule-based and direct LLM tiers.
type Service struct {
	deps  Deps
	opts  Options
	ready atomic.Bool
	now   func() time.Time
}

// NewService constructs a Service. It rejects requests until Initialize succeeds.
func NewService(deps Deps, opts Options) *Service {
	if opts.TopK <= 0 {
		opts.TopK = retrieval.DefaultTopK
	}
	if opts.MinSimilarity <= 0 {
		opts.MinSimilarity = DefaultMinSimilarity
	}
	if opts.MinMatches <= 0 {
		opts.MinMatches = DefaultMinMatches
	}
	if opts.LLMTimeout <= 0 {
		opts.LLMTimeout = defaultLLMTimeout
	}
	if opts.RetrievalTimeout <= 0 {
		opts.RetrievalTimeout = defaultRetrievalTimeout
	}
	return &Service{deps: deps, opts: opts, now: time.Now}
}

// Initialize checks dependencies and prepares the retriever.
func (s *Service) Initialize(ctx context.Context) error {
	if s.deps.Retriever == nil || s.deps.LLM == nil || s.deps.Rules == nil {
		return fmt.Errorf("%w: missing dependencies", ErrServiceNotInitialized)
	}
	if init, ok := s.deps.Retriever.(initializer); ok {
		if err := init.Initialize(ctx); err != nil {
			return fmt.Errorf("initialize retriever: %w", err)
		}
	}
	s.ready.Store(true)
	return nil
}

// Ready reports whether Initialize has succeeded.
func (s *Service) Ready() bool {
	return s != nil && s.ready.Load()
}

// Analyze runs the fallback chain. It returns an error only for invalid
// requests, an uninitialized service or an exhausted retrieval pool; every
// tier failure ends in a result.
func (s *Service) Analyze(ctx context.Context, req Request) (Result, error) {
	if !s.Ready() {
		return Result{}, ErrServiceNotInitialized
	}
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	id := requestIDFromContext(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	r := &run{s: s, req: req, id: id, state: StateStart, start: s.now()}
	r.rule = s.deps.Rules.AnalyzeWithContext(req.Title, req.Content, req.ServiceName)

	r.transition(StateTryRAG, nil)
	res, err := r.tryRAG(ctx)
	if errors.Is(err, retrieval.ErrPoolExhausted) {
		metrics.IncAnalysis(string(confidence.MethodRAG), "rejected")
		return Result{}, err
	}
	if err == nil {
		r.transition(StateRAGSuccess, nil)
		return r.finish(ctx, res), nil
	}
	r.fallback(StateTryRuleBased, err)

	if res, ok := r.tryRuleBased(); ok {
		r.transition(StateRuleSuccess, nil)
		return r.finish(ctx, res), nil
	}
	r.fallback(StateTryDirectLLM, errNoCategory)

	res, err = r.tryDirect(ctx)
	if err == nil {
		r.transition(StateDirectSuccess, nil)
		return r.finish(ctx, res), nil
	}
	r.transition(StateFailure, map[string]any{"reason": fallbackReason(err), "error": err})
	return r.finish(ctx, r.failure(err)), nil
}

// run holds the per-request state of one pass through the chain.
type run struct {
	s       *Service
	req     Request
	id      string
	state   State
	start   time.Time
	rule    rules.Result
	matches []retrieval.Match
	parsed  *bool
}

func (r *run) transition(next State, fields map[string]any) {
	f := map[string]any{
		"request_id": r.id,
		"from":       string(r.state),
		"state":      string(next),
	}
	for k, v := range fields {
		f[k] = v
	}
	telemetry.Info("analysis.state", f)
	r.state = next
}

func (r *run) fallback(next State, cause error) {
	reason := fallbackReason(cause)
	switch {
	case errors.Is(cause, errInsufficientMatches):
		reason = "insufficient_matches"
	case errors.Is(cause, errNoCategory):
		reason = "no_category"
	}
	metrics.IncFallback(string(r.state), string(next), reason)
	r.transition(next, map[string]any{"reason": reason, "error": cause})
}

func (r *run) tryRAG(ctx context.Context) (Result, error) {
	rctx, cancel := context.WithTimeout(ctx, r.s.opts.RetrievalTimeout)
	defer cancel()

	found, err := r.s.deps.Retriever.Search(rctx, r.req.query(), r.s.opts.TopK)
	if err != nil {
		if errors.Is(err, retrieval.ErrPoolExhausted) {
			return Result{}, err
		}
		return Result{}, &RetrievalError{Err: err}
	}

	for _, m := range found {
		if m.Similarity >= r.s.opts.MinSimilarity {
			r.matches = append(r.matches, m)
		}
	}
	telemetry.Info("analysis.retrieval", map[string]any{
		"request_id": r.id,
		"found":      len(found),
		"kept":       len(r.matches),
		"threshold":  r.s.opts.MinSimilarity,
	})
	if len(r.matches) < r.s.opts.MinMatches {
		return Result{}, errInsufficientMatches
	}

	prompt := buildRAGPrompt(r.req, formatContext(r.matches))
	parsed, err := r.completeAndParse(ctx, confidence.MethodRAG, prompt)
	if err != nil {
		return Result{}, err
	}

	details := confidence.Calculate(confidence.Input{
		Method:            confidence.MethodRAG,
		VectorMatchCount:  len(r.matches),
		AvgSimilarity:     r.avgSimilarity(),
		Response:          parsed.Fields(),
		CategoryDetected:  r.rule.Matched(),
		KeywordMatchCount: len(r.rule.Keywords),
	})
	return r.fromParsed(confidence.MethodRAG, parsed, details), nil
}

func (r *run) tryRuleBased() (Result, bool) {
	// A service name can pin a log category even when no keyword matches.
	if r.req.ServiceName == "" && !r.s.deps.Rules.CanAnalyze(r.req.Title, r.req.Content) {
		return Result{}, false
	}
	rule := r.rule
	if !rule.Matched() {
		return Result{}, false
	}

	details := confidence.Calculate(confidence.Input{
		Method:           confidence.MethodRuleBased,
		VectorMatchCount: len(r.matches),
		AvgSimilarity:    r.avgSimilarity(),
		Response: &confidence.ResponseFields{
			Summary:        rule.Summary != "",
			Confidence:     true,
			Keywords:       len(rule.Keywords) > 0,
			PossibleCauses: len(rule.PossibleCauses) > 0,
			Recommendation: rule.Recommendation != "",
		},
		CategoryDetected:  true,
		KeywordMatchCount: len(rule.Keywords),
	})
	// The rule tier reports its own banded confidence.
	details.Score = rule.Confidence
	details.Level = confidence.LevelFor(rule.Confidence)

	res := Result{
		Summary:           rule.Summary,
		Confidence:        rule.Confidence,
		Keywords:          nonNil(rule.Keywords),
		PossibleCauses:    nonNil(rule.PossibleCauses),
		RelatedLogs:       r.relatedLogs(),
		Recommendation:    rule.Recommendation,
		AnalysisMethod:    confidence.MethodRuleBased,
		ConfidenceDetails: details,
		VectorMatchCount:  len(r.matches),
	}
	r.applyCategory(&res)
	return res, true
}

func (r *run) tryDirect(ctx context.Context) (Result, error) {
	parsed, err := r.completeAndParse(ctx, confidence.MethodDirectLLM, buildDirectPrompt(r.req))
	if err != nil {
		return Result{}, err
	}
	details := confidence.Calculate(confidence.Input{
		Method:            confidence.MethodDirectLLM,
		VectorMatchCount:  len(r.matches),
		AvgSimilarity:     0,
		Response:          parsed.Fields(),
		CategoryDetected:  r.rule.Matched(),
		KeywordMatchCount: len(r.rule.Keywords),
	})
	return r.fromParsed(confidence.MethodDirectLLM, parsed, details), nil
}

func (r *run) failure(cause error) Result {
	return Result{
		Summary:        "AI 분석 중 오류가 발생했습니다: " + describeFailure(cause),
		Confidence:     0,
		Keywords:       []string{},
		PossibleCauses: []string{},
		RelatedLogs:    []RelatedLog{},
		Recommendation: failureRecommendation,
		AnalysisMethod: confidence.MethodDirectLLM,
		ConfidenceDetails: confidence.Failure(confidence.Input{
			Method:   confidence.MethodDirectLLM,
			Response: nil,
		}),
	}
}

func (r *run) completeAndParse(ctx context.Context, method confidence.Method, prompt string) (ParsedResponse, error) {
	raw, err := r.complete(ctx, prompt)
	if err != nil {
		return ParsedResponse{}, &CompletionError{Method: method, Err: err}
	}
	parsed, err := ParseResponse(raw)
	r.recordParse(err == nil)
	if err != nil {
		metrics.IncParseFailure(fallbackReason(err))
		return ParsedResponse{}, err
	}
	return parsed, nil
}

func (r *run) complete(ctx context.Context, prompt string) (out string, err error) {
	ctx, cancel := context.WithTimeout(ctx, r.s.opts.LLMTimeout)
	defer cancel()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("llm panic: %v", rec)
		}
	}()
	return r.s.deps.LLM.Complete(ctx, prompt)
}

// recordParse keeps false once any parse has failed.
func (r *run) recordParse(ok bool) {
	if r.parsed != nil && !*r.parsed {
		return
	}
	r.parsed = &ok
}

func (r *run) fromParsed(method confidence.Method, p ParsedResponse, details confidence.Details) Result {
	res := Result{
		Summary:           p.Summary,
		Confidence:        details.Score,
		Keywords:          nonNil(p.Keywords),
		PossibleCauses:    nonNil(p.PossibleCauses),
		RelatedLogs:       r.relatedLogs(),
		Recommendation:    p.Recommendation,
		AnalysisMethod:    method,
		ConfidenceDetails: details,
		VectorMatchCount:  len(r.matches),
	}
	r.applyCategory(&res)
	return res
}

func (r *run) applyCategory(res *Result) {
	if !r.rule.Matched() {
		return
	}
	res.DetectedCategory = r.rule.DetectedCategory
	res.VOCCategory = r.rule.VOCCategory
	res.CategoryCode = r.rule.CategoryCode
	res.Severity = string(r.rule.Severity)
}

func (r *run) finish(ctx context.Context, res Result) Result {
	res.AnalysisID = r.id
	res.State = r.state
	res.Confidence = confidence.Clamp(res.Confidence)
	latency := r.s.now().Sub(r.start)

	outcome := "success"
	if r.state == StateFailure {
		outcome = "failure"
	}
	metrics.IncAnalysis(string(res.AnalysisMethod), outcome)
	metrics.ObserveAnalysisSeconds(string(res.AnalysisMethod), latency.Seconds())

	telemetry.Info("analysis.complete", map[string]any{
		"request_id":         r.id,
		"state":              string(r.state),
		"analysis_method":    string(res.AnalysisMethod),
		"confidence":         res.Confidence,
		"confidence_level":   string(res.ConfidenceDetails.Level),
		"vector_match_count": res.VectorMatchCount,
		"duration_ms":        float64(latency.Microseconds()) / 1000.0,
	})

	if rec := r.s.deps.Recorder; rec != nil {
		err := rec.Save(context.WithoutCancel(ctx), records.Record{
			ID:               r.id,
			Method:           string(res.AnalysisMethod),
			Confidence:       res.Confidence,
			LatencyMs:        latency.Milliseconds(),
			JSONParseSuccess: r.parsed,
			VectorMatchCount: res.VectorMatchCount,
			ModelName:        r.s.opts.ModelName,
			EmbeddingModel:   r.s.opts.EmbeddingModel,
			CreatedAt:        r.start.UTC(),
		})
		if err != nil {
			telemetry.Warn("analysis.record_failed", map[string]any{"request_id": r.id, "error": err})
		}
	}
	return res
}

func (r *run) avgSimilarity() float64 {
	if len(r.matches) == 0 {
		return 0
	}
	var sum float64
	for _, m := range r.matches {
		sum += m.Similarity
	}
	return sum / float64(len(r.matches))
}

func (r *run) relatedLogs() []RelatedLog {
	out := make([]RelatedLog, 0, len(r.matches))
	for _, m := range r.matches {
		d := m.Document
		out = append(out, RelatedLog{
			Timestamp:      d.Timestamp,
			LogLevel:       d.LogLevel,
			ServiceName:    d.ServiceName,
			Message:        d.Message,
			RelevanceScore: math.Round(confidence.Clamp(m.Similarity)*100) / 100,
		})
	}
	return out
}

func describeFailure(err error) string {
	var (
		completionErr *CompletionError
		parseErr      *ParseError
		missingErr    *MissingFieldsError
	)
	switch {
	case errors.As(err, &completionErr):
		if errors.Is(err, context.DeadlineExceeded) {
			return "LLM 응답 시간이 초과되었습니다."
		}
		return "LLM 호출에 실패했습니다."
	case errors.As(err, &parseErr):
		return "LLM 응답을 해석할 수 없습니다."
	case errors.As(err, &missingErr):
		return "LLM 응답에 필수 항목이 없습니다 (" + strings.Join(missingErr.Fields, ", ") + ")."
	default:
		return "알 수 없는 오류가 발생했습니다."
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
