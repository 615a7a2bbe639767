package local

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"voc-backend/internal/shared/storage/object"
)

func TestPutThenOpen(t *testing.T) {
	s := New(t.TempDir())
	ctx := context.Background()

	n, err := s.Put(ctx, "seed/logs.json", "application/json", strings.NewReader(`[{"id":"a"}]`))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if n != 12 {
		t.Fatalf("written = %d, want 12", n)
	}

	rc, err := s.Open(ctx, "seed/logs.json")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != `[{"id":"a"}]` {
		t.Fatalf("body = %q", body)
	}
}

func TestRejectsEscapingKeys(t *testing.T) {
	s := New(t.TempDir())
	for _, key := range []string{"../secrets", "/etc/passwd", ""} {
		if _, err := s.Open(context.Background(), key); !errors.Is(err, object.ErrInvalidKey) {
			t.Fatalf("Open(%q) err = %v, want ErrInvalidKey", key, err)
		}
	}
}
