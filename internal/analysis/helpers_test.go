package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"voc-backend/internal/knowledge"
	"voc-backend/internal/logs"
	"voc-backend/internal/records"
	"voc-backend/internal/retrieval"
	"voc-backend/internal/rules"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const fullResponse = `{"summary":"결제 게이트웨이 타임아웃으로 결제가 실패했습니다.","confidence":0.9,` +
	`"keywords":["payment","timeout","gateway"],"possibleCauses":["PG사 응답 지연","타임아웃 설정 부족"],` +
	`"recommendation":"1) PG사 상태를 확인하세요 2) 타임아웃을 조정하세요"}`

type reply struct {
	text  string
	err   error
	block bool
}

type fakeLLM struct {
	mu      sync.Mutex
	replies []reply
	prompts []string
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	var r reply
	if len(f.replies) > 0 {
		r = f.replies[0]
		f.replies = f.replies[1:]
	} else {
		r = reply{err: errors.New("no scripted reply")}
	}
	f.mu.Unlock()

	if r.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return r.text, r.err
}

func (f *fakeLLM) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

type fakeRetriever struct {
	mu      sync.Mutex
	matches []retrieval.Match
	err     error
	initErr error
	queries []string
}

func (f *fakeRetriever) Search(ctx context.Context, query string, k int) ([]retrieval.Match, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if len(f.matches) > k {
		return f.matches[:k], nil
	}
	return f.matches, nil
}

func (f *fakeRetriever) Initialize(context.Context) error { return f.initErr }

type failingRecorder struct{}

func (failingRecorder) Save(context.Context, records.Record) error {
	return errors.New("db down")
}

func matchesWith(sims ...float64) []retrieval.Match {
	out := make([]retrieval.Match, len(sims))
	for i, s := range sims {
		out[i] = retrieval.Match{
			Document: logs.Document{
				ID:          "log-" + string(rune('a'+i)),
				Timestamp:   "2024-01-15T10:30:00",
				LogLevel:    "ERROR",
				ServiceName: "payment-service",
				Message:     "Payment gateway timeout after 30s",
				Category:    "payment",
				Severity:    "high",
			},
			Similarity: s,
		}
	}
	return out
}

func newTestService(t *testing.T, retriever Retriever, completer *fakeLLM, recorder Recorder) *Service {
	t.Helper()
	svc := NewService(Deps{
		Retriever: retriever,
		LLM:       completer,
		Rules:     rules.NewAnalyzer(knowledge.New(knowledge.VOCFirst)),
		Recorder:  recorder,
	}, Options{ModelName: "test-llm", EmbeddingModel: "hash"})
	if err := svc.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return svc
}

var paymentRequest = Request{
	Title:   "결제 오류 발생",
	Content: "결제 진행 중 타임아웃 오류가 발생했습니다",
}
