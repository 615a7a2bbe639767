package analysis

import (
	"fmt"
	"strings"

	"voc-backend/internal/retrieval"
)

const responseFormat = `Respond ONLY with a valid JSON object in the following format (do not include markdown code blocks):
{
  "summary": "분석 요약 (한국어)",
  "confidence": %s,
  "keywords": ["keyword1", "keyword2", "keyword3"],
  "possibleCauses": ["원인 1", "원인 2", "원인 3"],
  "recommendation": "권장 조치 사항 (한국어)"
}`

// fewShotExamples anchor the RAG answer format and tone.
var fewShotExamples = []struct {
	title, content, logs, answer string
}{
	{
		title:   "로그인이 안 됩니다",
		content: "비밀번호를 맞게 입력했는데 계속 로그인 실패가 뜹니다.",
		logs:    "[2024-01-15T09:12:03] [ERROR] [auth-service] JWT signature verification failed: key rotated (Relevance: 0.81)",
		answer: `{"summary":"인증 서비스의 서명 키 교체 이후 기존 토큰 검증이 실패하여 로그인이 거부되고 있습니다.","confidence":0.8,` +
			`"keywords":["jwt","signature","auth-service"],"possibleCauses":["서명 키 교체 후 캐시된 공개키 미갱신","토큰 발급 서버와 검증 서버의 키 불일치"],` +
			`"recommendation":"1) 공개키 캐시를 갱신하세요 2) 키 교체 절차에 검증 서버 재시작을 포함하세요"}`,
	},
	{
		title:   "주문 조회가 너무 느려요",
		content: "주문 내역 화면이 10초 넘게 걸립니다.",
		logs:    "[2024-01-15T13:40:11] [WARN] [order-service] Slow query detected: 9800ms on orders (Relevance: 0.74)",
		answer: `{"summary":"주문 테이블 조회 쿼리가 느려 주문 내역 화면 응답이 지연되고 있습니다.","confidence":0.75,` +
			`"keywords":["slow query","orders","database"],"possibleCauses":["주문 조회 조건 컬럼의 인덱스 누락","대량 데이터 풀스캔"],` +
			`"recommendation":"1) 실행 계획을 확인하세요 2) 조회 조건 컬럼에 인덱스를 추가하세요"}`,
	},
}

// formatContext renders matches one per line, in gateway rank order.
func formatContext(matches []retrieval.Match) string {
	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		d := m.Document
		lines = append(lines, fmt.Sprintf("[%s] [%s] [%s] %s (Relevance: %.2f)",
			d.Timestamp, d.LogLevel, d.ServiceName, d.Message, m.Similarity))
	}
	return strings.Join(lines, "\n")
}

func buildRAGPrompt(req Request, logContext string) string {
	var b strings.Builder
	b.WriteString("You are an expert system log analyzer. Analyze the following VOC (Voice of Customer) issue and related system logs to identify the root cause and provide recommendations.\n\n")

	b.WriteString("Examples:\n")
	for i, ex := range fewShotExamples {
		fmt.Fprintf(&b, "\nExample %d\nVOC Title: %s\nVOC Content: %s\nRelated System Logs:\n%s\nAnswer: %s\n",
			i+1, ex.title, ex.content, ex.logs, ex.answer)
	}

	fmt.Fprintf(&b, "\nNow analyze this issue.\n\nVOC Title: %s\nVOC Content: %s\n\nRelated System Logs:\n%s\n\n",
		req.Title, req.Content, logContext)
	b.WriteString(`Based on the VOC and related logs, provide:
1. Summary: a brief summary of the issue (2-3 sentences in Korean)
2. Confidence: your confidence in this analysis (0.0 to 1.0)
3. Keywords: key technical keywords from the logs (3-5 words)
4. Possible Causes: 2-4 possible root causes (in Korean)
5. Recommendation: specific actions to resolve the issue (in Korean)

`)
	fmt.Fprintf(&b, responseFormat, "0.85")
	b.WriteString(`

Important:
- Base your analysis on the actual log data provided
- If logs show clear error patterns, mention them explicitly
- Respond in Korean for summary, causes, and recommendation
- Keep keywords in English`)
	return b.String()
}

func buildDirectPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("You are an expert system analyst. Analyze the following VOC (Voice of Customer) issue based on your general knowledge.\n\n")
	b.WriteString("Note: No related system logs were found for this issue. Provide your best analysis based on the VOC description alone.\n\n")
	fmt.Fprintf(&b, "VOC Title: %s\nVOC Content: %s\n\n", req.Title, req.Content)
	b.WriteString(`Provide:
1. Summary: a brief summary of the likely issue (2-3 sentences in Korean)
2. Confidence: keep it low (0.2-0.4) since no logs are available
3. Keywords: likely technical keywords (3-5 words)
4. Possible Causes: 2-4 possible root causes (in Korean)
5. Recommendation: general investigation steps (in Korean)

`)
	fmt.Fprintf(&b, responseFormat, "0.3")
	b.WriteString(`

Important:
- State in the summary that no logs were available
- Keep confidence between 0.2 and 0.4
- Respond in Korean for summary, causes, and recommendation`)
	return b.String()
}
