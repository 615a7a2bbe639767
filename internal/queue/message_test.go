package queue

import (
	"reflect"
	"testing"
)

func TestMessageRoundTrip(t *testing.T) {
	msg := LearnMessage{
		MessageID:  "msg-1",
		VOCID:      "voc-123",
		Title:      "결제 실패",
		Content:    "카드 결제가 계속 실패합니다",
		Resolution: "PG사 타임아웃 설정을 30초로 늘림",
		Category:   "payment",
		RequestID:  "request-456",
		EnqueuedAt: "2026-01-30T22:00:00Z",
		Version:    MessageVersion,
	}

	payload, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}

	got, err := DecodeMessage(payload)
	if err != nil {
		t.Fatalf("decode message: %v", err)
	}

	if !reflect.DeepEqual(got, msg) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, msg)
	}
}

func TestDecodeMessageRejectsInvalidJSON(t *testing.T) {
	if _, err := DecodeMessage([]byte("{")); err == nil {
		t.Fatalf("expected error for truncated payload")
	}
}
