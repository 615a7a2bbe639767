// Package confidence scores how much an analysis result can be trusted.
package confidence

import (
	"fmt"
	"math"
	"strings"
)

// Method identifies the fallback tier that produced an answer.
type Method string

const (
	MethodRAG       Method = "RAG"
	MethodRuleBased Method = "RULE_BASED"
	MethodDirectLLM Method = "DIRECT_LLM"
)

type Level string

const (
	LevelHigh   Level = "HIGH"
	LevelMedium Level = "MEDIUM"
	LevelLow    Level = "LOW"
)

// Sub-score weights. They sum to 1.
const (
	WeightVectorMatch  = 0.35
	WeightSimilarity   = 0.35
	WeightCompleteness = 0.20
	WeightCategory     = 0.10
)

const (
	HighThreshold   = 0.7
	MediumThreshold = 0.4

	defaultCompleteness = 0.5
)

var methodMultipliers = map[Method]float64{
	MethodRAG:       1.0,
	MethodRuleBased: 0.8,
	MethodDirectLLM: 0.6,
}

// Breakdown holds the four weighted sub-scores, each in [0,1].
type Breakdown struct {
	VectorMatch          float64 `json:"vectorMatchScore"`
	Similarity           float64 `json:"similarityScore"`
	ResponseCompleteness float64 `json:"responseCompleteness"`
	CategoryMatch        float64 `json:"categoryMatchScore"`
}

// Details is the explained confidence attached to every analysis result.
type Details struct {
	Level     Level     `json:"level"`
	Score     float64   `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
	Factors   []string  `json:"factors"`
}

// ResponseFields reports which expected response fields were present and non-empty.
type ResponseFields struct {
	Summary        bool
	Confidence     bool
	Keywords       bool
	PossibleCauses bool
	Recommendation bool
}

// Completeness is the fraction of the five fields that are present.
func (r ResponseFields) Completeness() float64 {
	present := 0
	for _, ok := range []bool{r.Summary, r.Confidence, r.Keywords, r.PossibleCauses, r.Recommendation} {
		if ok {
			present++
		}
	}
	return float64(present) / 5
}

// Input carries everything the calculator needs. Response is nil when no
// structured response exists.
type Input struct {
	Method            Method
	VectorMatchCount  int
	AvgSimilarity     float64
	Response          *ResponseFields
	CategoryDetected  bool
	KeywordMatchCount int
}

// Calculate is a pure function of its input.
func Calculate(in Input) Details {
	completeness := defaultCompleteness
	if in.Response != nil {
		completeness = in.Response.Completeness()
	}

	b := Breakdown{
		VectorMatch:          VectorMatchScore(in.VectorMatchCount),
		Similarity:           Clamp(in.AvgSimilarity),
		ResponseCompleteness: Clamp(completeness),
		CategoryMatch:        CategoryMatchScore(in.CategoryDetected, in.KeywordMatchCount),
	}

	weighted := b.VectorMatch*WeightVectorMatch +
		b.Similarity*WeightSimilarity +
		b.ResponseCompleteness*WeightCompleteness +
		b.CategoryMatch*WeightCategory

	score := round3(Clamp(weighted * Multiplier(in.Method)))

	return Details{
		Level:     LevelFor(score),
		Score:     score,
		Breakdown: b,
		Factors:   factors(in, b),
	}
}

// Multiplier returns the method factor; unknown methods get the lowest one.
func Multiplier(m Method) float64 {
	if v, ok := methodMultipliers[m]; ok {
		return v
	}
	return methodMultipliers[MethodDirectLLM]
}

// VectorMatchScore maps a match count onto a monotone staircase.
func VectorMatchScore(count int) float64 {
	switch {
	case count <= 0:
		return 0
	case count == 1:
		return 0.4
	case count == 2:
		return 0.6
	case count < 5:
		return 0.8
	default:
		return 1.0
	}
}

// CategoryMatchScore is zero without a detected category.
func CategoryMatchScore(detected bool, keywordCount int) float64 {
	if !detected {
		return 0
	}
	return VectorMatchScore(keywordCount)
}

// LevelFor applies the inclusive lower-bound thresholds.
func LevelFor(score float64) Level {
	switch {
	case score >= HighThreshold:
		return LevelHigh
	case score >= MediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Clamp bounds v to [0,1]. NaN maps to 0.
func Clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// FailureFactor is appended to the factors of a failed analysis.
const FailureFactor = "분석 실패로 인한 최저 신뢰도"

// Failure scores the inputs as usual, then pins the result to zero and LOW.
func Failure(in Input) Details {
	d := Calculate(in)
	d.Score = 0
	d.Level = LevelLow
	d.Factors = append(d.Factors, FailureFactor)
	return d
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func factors(in Input, b Breakdown) []string {
	out := make([]string, 0, 5)

	switch in.Method {
	case MethodRAG:
		out = append(out, "RAG 분석 기반 (높은 신뢰도)")
	case MethodRuleBased:
		out = append(out, "규칙 기반 분석 (중간 신뢰도)")
	default:
		out = append(out, "직접 LLM 분석 (참조 데이터 없음)")
	}

	switch {
	case in.VectorMatchCount >= 3:
		out = append(out, fmt.Sprintf("유사 로그 %d건 발견 (충분)", in.VectorMatchCount))
	case in.VectorMatchCount > 0:
		out = append(out, fmt.Sprintf("유사 로그 %d건 발견 (제한적)", in.VectorMatchCount))
	default:
		out = append(out, "유사 로그 미발견")
	}

	switch {
	case b.Similarity >= 0.7:
		out = append(out, "높은 유사도 점수")
	case b.Similarity >= 0.4:
		out = append(out, "중간 유사도 점수")
	default:
		out = append(out, "낮은 유사도 점수")
	}

	switch {
	case in.Response == nil:
		out = append(out, "LLM 응답 없음 (기본 완성도 적용)")
	case b.ResponseCompleteness >= 1:
		out = append(out, "LLM 응답 완성도 높음")
	case b.ResponseCompleteness >= 0.6:
		out = append(out, "LLM 응답 완성도 양호")
	default:
		out = append(out, "LLM 응답 불완전")
	}

	if in.CategoryDetected {
		out = append(out, fmt.Sprintf("카테고리 키워드 %d개 일치", in.KeywordMatchCount))
	} else {
		out = append(out, "카테고리 미감지")
	}

	return out
}

// String renders the details for log lines.
func (d Details) String() string {
	return fmt.Sprintf("%s(%.3f) [%s]", d.Level, d.Score, strings.Join(d.Factors, "; "))
}
