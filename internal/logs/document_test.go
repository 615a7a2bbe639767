package logs

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDocumentTextIncludesStackTrace(t *testing.T) {
	doc := Document{
		ID:          "log-1",
		Timestamp:   "2024-01-15T10:30:00Z",
		LogLevel:    "ERROR",
		ServiceName: "payment-service",
		Message:     "Payment gateway timeout",
		StackTrace:  "at PaymentClient.call",
	}

	got := doc.Text()
	want := "[2024-01-15T10:30:00Z] [ERROR] [payment-service] Payment gateway timeout StackTrace: at PaymentClient.call"
	if got != want {
		t.Fatalf("Text() = %q, want %q", got, want)
	}

	doc.StackTrace = ""
	if strings.Contains(doc.Text(), "StackTrace") {
		t.Fatalf("expected no stack trace section, got %q", doc.Text())
	}
}

func TestFromMetadataRoundTrip(t *testing.T) {
	doc := Document{
		ID:          "log-7",
		Timestamp:   "2024-01-15T10:30:00Z",
		LogLevel:    "WARN",
		ServiceName: "auth-service",
		Message:     "JWT token expired",
		StackTrace:  "at TokenFilter.doFilter",
		Category:    "auth",
		Severity:    "medium",
	}

	got := FromMetadata(doc.Text(), doc.Metadata())
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Fatalf("FromMetadata mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeListRejectsInvalidEntries(t *testing.T) {
	_, err := DecodeList(strings.NewReader(`[{"id":"a","message":"ok"},{"id":"b"}]`))
	if !errors.Is(err, ErrMissingMessage) {
		t.Fatalf("expected ErrMissingMessage, got %v", err)
	}

	docs, err := DecodeList(strings.NewReader(`[{"id":"a","message":"ok","category":"payment"}]`))
	if err != nil {
		t.Fatalf("DecodeList: %v", err)
	}
	if len(docs) != 1 || docs[0].Category != "payment" {
		t.Fatalf("unexpected docs: %+v", docs)
	}
}
