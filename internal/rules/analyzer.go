// Package rules implements the keyword/template analyzer used when retrieval
// cannot ground an answer. It makes no external calls and never fails.
package rules

import (
	"fmt"
	"strings"
	"unicode"

	"voc-backend/internal/knowledge"
)

const (
	MinConfidence = 0.3
	MaxConfidence = 0.5

	maxKeywords = 5
	maxCauses   = 4
	maxActions  = 3
)

// Result is the rule-based analysis. DetectedCategory is nil when nothing matched.
type Result struct {
	Summary          string
	Confidence       float64
	Keywords         []string
	PossibleCauses   []string
	Recommendation   string
	DetectedCategory *string
	VOCCategory      string
	Subcategory      string
	CategoryCode     string
	LogCategory      string
	Taxonomy         knowledge.Taxonomy
	MatchScore       float64
	Severity         knowledge.Severity
}

// Matched reports whether a category was detected.
func (r Result) Matched() bool {
	return r.DetectedCategory != nil
}

// Analyzer matches VOC text against the knowledge base.
type Analyzer struct {
	KB *knowledge.Base
}

// NewAnalyzer constructs an Analyzer.
func NewAnalyzer(kb *knowledge.Base) *Analyzer {
	if kb == nil {
		kb = knowledge.New(knowledge.VOCFirst)
	}
	return &Analyzer{KB: kb}
}

// CanAnalyze is true when at least one category matches.
func (a *Analyzer) CanAnalyze(title, content string) bool {
	return len(a.KB.MatchCategories(joinText(title, content))) > 0
}

// Analyze always returns a result with confidence in [MinConfidence, MaxConfidence].
func (a *Analyzer) Analyze(title, content string) Result {
	text := joinText(title, content)
	matches := a.KB.MatchCategories(text)
	if len(matches) == 0 {
		return noMatchResult(title)
	}
	return a.build(title, text, matches[0])
}

// AnalyzeWithContext pins the category to the log category named by the
// service (for example "payment-service") when it matches a known one.
func (a *Analyzer) AnalyzeWithContext(title, content, serviceName string) Result {
	category := categoryForService(a.KB, serviceName)
	if category == "" {
		return a.Analyze(title, content)
	}
	text := joinText(title, content)
	for _, m := range a.KB.MatchTaxonomy(text, knowledge.TaxonomyLog) {
		if m.Category == category {
			return a.build(title, text, m)
		}
	}
	// The service names the category even though no keyword matched.
	return a.build(title, text, knowledge.Match{
		Category:    category,
		Taxonomy:    knowledge.TaxonomyLog,
		LogCategory: category,
	})
}

func (a *Analyzer) build(title, text string, m knowledge.Match) Result {
	keywords := capList(m.Keywords, maxKeywords)
	causes, actions := a.KB.Guidance(m)

	// A VOC match reports the log category its subcategory links to.
	category := m.Category
	severityCategory := m.Category
	var vocCategory string
	if m.Taxonomy == knowledge.TaxonomyVOC {
		vocCategory = m.Category
		if m.LogCategory != "" {
			category = m.LogCategory
			severityCategory = m.LogCategory
		}
	}

	return Result{
		Summary:          buildSummary(a.KB.DisplayName(m), keywords, title),
		Confidence:       bandedConfidence(m.Score, len(m.Keywords)),
		Keywords:         keywords,
		PossibleCauses:   capList(causes, maxCauses),
		Recommendation:   buildRecommendation(capList(actions, maxActions)),
		DetectedCategory: &category,
		VOCCategory:      vocCategory,
		Subcategory:      m.Subcategory,
		CategoryCode:     m.Code,
		LogCategory:      m.LogCategory,
		Taxonomy:         m.Taxonomy,
		MatchScore:       m.Score,
		Severity:         a.KB.SeverityFor(text, severityCategory),
	}
}

// bandedConfidence interpolates linearly inside the rule-based band from the
// match ratio and the matched keyword count.
func bandedConfidence(matchScore float64, keywordCount int) float64 {
	if keywordCount > maxKeywords {
		keywordCount = maxKeywords
	}
	if keywordCount < 0 {
		keywordCount = 0
	}
	strength := 0.5*clamp01(matchScore) + 0.5*float64(keywordCount)/maxKeywords
	conf := MinConfidence + (MaxConfidence-MinConfidence)*clamp01(strength)
	if conf < MinConfidence {
		return MinConfidence
	}
	if conf > MaxConfidence {
		return MaxConfidence
	}
	return conf
}

func buildSummary(name string, keywords []string, title string) string {
	kw := "관련 키워드"
	if len(keywords) > 0 {
		kw = strings.Join(capList(keywords, 3), ", ")
	}
	return fmt.Sprintf("%s 관련 이슈로 분석됩니다. '%s'에서 %s 등의 패턴이 감지되었습니다. (규칙 기반 분석)", name, title, kw)
}

func buildRecommendation(actions []string) string {
	switch len(actions) {
	case 0:
		return "시스템 로그를 직접 확인하여 정확한 원인을 파악해주세요."
	case 1:
		return actions[0]
	}
	parts := make([]string, len(actions))
	for i, action := range actions {
		parts[i] = fmt.Sprintf("%d) %s", i+1, action)
	}
	return strings.Join(parts, " ")
}

func noMatchResult(title string) Result {
	return Result{
		Summary:    fmt.Sprintf("'%s'에 대한 규칙 기반 분석을 수행할 수 없습니다. 패턴 매칭에 실패했습니다.", title),
		Confidence: MinConfidence,
		Keywords:   []string{},
		PossibleCauses: []string{
			"사전 정의된 패턴과 일치하지 않는 새로운 유형의 이슈",
			"VOC 내용이 기술적 세부사항을 포함하지 않음",
		},
		Recommendation: "시스템 로그를 직접 확인하거나 담당 개발자에게 문의해주세요.",
		Severity:       knowledge.SeverityLow,
	}
}

func categoryForService(kb *knowledge.Base, serviceName string) string {
	tokens := strings.FieldsFunc(strings.ToLower(serviceName), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, token := range tokens {
		if entry, ok := kb.Lookup(token); ok && entry.Taxonomy == knowledge.TaxonomyLog {
			return entry.ID
		}
	}
	return ""
}

func joinText(title, content string) string {
	return title + " " + content
}

func capList(in []string, n int) []string {
	if len(in) <= n {
		return append([]string{}, in...)
	}
	return append([]string{}, in[:n]...)
}

func clamp01(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
