package rules

import (
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voc-backend/internal/knowledge"
)

func TestAnalyzePaymentTimeoutVOC(t *testing.T) {
	a := NewAnalyzer(knowledge.New(knowledge.VOCFirst))

	title := "결제 오류 발생"
	content := "결제 진행 중 타임아웃 오류가 발생했습니다"
	require.True(t, a.CanAnalyze(title, content))

	res := a.Analyze(title, content)
	require.True(t, res.Matched())
	assert.Equal(t, "payment", *res.DetectedCategory)
	assert.Equal(t, "오류/버그", res.VOCCategory)
	assert.Equal(t, "결제 오류", res.Subcategory)
	assert.Equal(t, "ERROR_PAYMENT", res.CategoryCode)
	assert.Equal(t, "payment", res.LogCategory)
	assert.GreaterOrEqual(t, res.Confidence, MinConfidence)
	assert.LessOrEqual(t, res.Confidence, MaxConfidence)
	assert.Equal(t, []string{"오류", "결제"}, res.Keywords)
	assert.Len(t, res.PossibleCauses, 4)
	assert.Equal(t, "1) PG사 서버 상태 및 점검 일정 확인 2) 네트워크 연결 상태 점검 3) 타임아웃 설정값 검토 및 조정", res.Recommendation)
	assert.True(t, strings.HasPrefix(res.Summary, "결제 오류 관련 이슈로 분석됩니다."))
	assert.Contains(t, res.Summary, "(규칙 기반 분석)")
	assert.Equal(t, knowledge.SeverityCritical, res.Severity)
}

func TestAnalyzeNoMatch(t *testing.T) {
	a := NewAnalyzer(nil)

	assert.False(t, a.CanAnalyze("ABC XYZ", "lorem ipsum"))
	res := a.Analyze("ABC XYZ", "lorem ipsum")
	assert.False(t, res.Matched())
	assert.Nil(t, res.DetectedCategory)
	assert.Equal(t, MinConfidence, res.Confidence)
	assert.Empty(t, res.Keywords)
	assert.Len(t, res.PossibleCauses, 2)
	assert.Equal(t, "시스템 로그를 직접 확인하거나 담당 개발자에게 문의해주세요.", res.Recommendation)
	assert.Contains(t, res.Summary, "'ABC XYZ'")
}

func TestAnalyzeCapsKeywords(t *testing.T) {
	a := NewAnalyzer(knowledge.New(knowledge.VOCFirst))

	res := a.Analyze("payment gateway timeout", "card transaction refund settlement decline balance duplicate")
	require.True(t, res.Matched())
	assert.Equal(t, "payment", *res.DetectedCategory)
	assert.Len(t, res.Keywords, 5)
	assert.Equal(t, []string{"payment", "gateway", "timeout", "transaction", "card"}, res.Keywords)
	assert.LessOrEqual(t, res.Confidence, MaxConfidence)
}

func TestAnalyzeWithContextUsesServiceCategory(t *testing.T) {
	a := NewAnalyzer(knowledge.New(knowledge.VOCFirst))

	res := a.AnalyzeWithContext("로그인 오류", "token expired while calling", "auth-service")
	require.True(t, res.Matched())
	assert.Equal(t, "auth", *res.DetectedCategory)
	assert.Equal(t, knowledge.TaxonomyLog, res.Taxonomy)

	pinned := a.AnalyzeWithContext("ABC", "lorem ipsum", "search-api")
	require.True(t, pinned.Matched())
	assert.Equal(t, "search", *pinned.DetectedCategory)
	assert.Equal(t, MinConfidence, pinned.Confidence)

	fallback := a.AnalyzeWithContext("결제 오류", "결제 실패", "unknown")
	require.True(t, fallback.Matched())
	assert.Equal(t, "payment", *fallback.DetectedCategory)
	assert.Equal(t, "오류/버그", fallback.VOCCategory)
}

func TestAnalyzeVOCWithoutSubcategoryKeepsMajorCategory(t *testing.T) {
	a := NewAnalyzer(knowledge.New(knowledge.VOCFirst))

	res := a.Analyze("앱이 자꾸 멈춤", "")
	require.True(t, res.Matched())
	assert.Equal(t, "오류/버그", *res.DetectedCategory)
	assert.Equal(t, "오류/버그", res.VOCCategory)
	assert.Empty(t, res.CategoryCode)
	assert.Empty(t, res.LogCategory)
	assert.Len(t, res.PossibleCauses, 4)
	assert.Equal(t, knowledge.SeverityLow, res.Severity)
}

func TestConfidenceAlwaysWithinBand(t *testing.T) {
	gofakeit.Seed(11)
	a := NewAnalyzer(knowledge.New(knowledge.VOCFirst))
	vocab := []string{
		"결제", "오류", "타임아웃", "로그인", "느려요", "감사합니다", "payment", "gateway",
		"redis", "deadlock", "upload", "ddos", "환불", "서버", "문의", "기능", "추가",
	}

	for i := 0; i < 300; i++ {
		words := make([]string, gofakeit.Number(0, 12))
		for j := range words {
			if gofakeit.Bool() {
				words[j] = vocab[gofakeit.Number(0, len(vocab)-1)]
			} else {
				words[j] = gofakeit.Word()
			}
		}
		title := gofakeit.Sentence(3)
		content := strings.Join(words, " ")

		res := a.Analyze(title, content)
		require.GreaterOrEqual(t, res.Confidence, MinConfidence, "title=%q content=%q", title, content)
		require.LessOrEqual(t, res.Confidence, MaxConfidence, "title=%q content=%q", title, content)
		require.LessOrEqual(t, len(res.Keywords), 5)
		require.LessOrEqual(t, len(res.PossibleCauses), 4)
		require.NotEmpty(t, res.Summary)
		require.NotEmpty(t, res.Recommendation)
	}
}

func TestBandedConfidenceEdges(t *testing.T) {
	assert.Equal(t, MinConfidence, bandedConfidence(0, 0))
	assert.Equal(t, MaxConfidence, bandedConfidence(1, 10))
	assert.Equal(t, MaxConfidence, bandedConfidence(7, 99))
	assert.Equal(t, MinConfidence, bandedConfidence(-3, -1))
}

func TestBuildRecommendation(t *testing.T) {
	assert.Equal(t, "시스템 로그를 직접 확인하여 정확한 원인을 파악해주세요.", buildRecommendation(nil))
	assert.Equal(t, "only", buildRecommendation([]string{"only"}))
	assert.Equal(t, "1) a 2) b", buildRecommendation([]string{"a", "b"}))
}
