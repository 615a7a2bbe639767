package analysis

import (
	"errors"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponseStripsFences(t *testing.T) {
	plain, err := ParseResponse(fullResponse)
	require.NoError(t, err)

	for _, wrapped := range []string{
		"```json\n" + fullResponse + "\n```",
		"```\n" + fullResponse + "\n```",
		"Here is the analysis:\n```JSON\n" + fullResponse + "\n```\nThanks",
	} {
		got, err := ParseResponse(wrapped)
		require.NoError(t, err)
		if diff := cmp.Diff(plain, got); diff != "" {
			t.Fatalf("fenced parse mismatch (-want +got):\n%s", diff)
		}
	}
	assert.Equal(t, 0.9, plain.Confidence)
	assert.Equal(t, []string{"payment", "timeout", "gateway"}, plain.Keywords)
}

func TestParseResponseClampsConfidence(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{`1.7`, 1.0},
		{`-0.2`, 0.0},
		{`"0.42"`, 0.42},
		{`"high"`, 0.5},
		{`null`, 0.5},
		{`true`, 0.5},
		{`"7"`, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			body := fmt.Sprintf(`{"summary":"s","confidence":%s,"keywords":[],"possibleCauses":[],"recommendation":"r"}`, tt.raw)
			got, err := ParseResponse(body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Confidence)
		})
	}
}

func TestParseResponseCoercesLists(t *testing.T) {
	got, err := ParseResponse(`{"summary":"s","confidence":0.3,"keywords":"payment","possibleCauses":{"a":1},"recommendation":["step 1","step 2"]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.Keywords)
	assert.Equal(t, []string{}, got.PossibleCauses)
	assert.Equal(t, "step 1 step 2", got.Recommendation)
}

func TestParseResponseErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		missing []string
	}{
		{name: "empty", raw: ""},
		{name: "prose only", raw: "I could not analyze this."},
		{name: "reversed braces", raw: "} nope {"},
		{name: "broken json", raw: `{"summary": "s", "confidence": }`},
		{name: "missing fields", raw: `{"summary":"s","confidence":0.5}`, missing: []string{"keywords", "possibleCauses", "recommendation"}},
		{name: "all missing", raw: `{}`, missing: requiredFields},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.raw)
			require.Error(t, err)
			if tt.missing != nil {
				var mErr *MissingFieldsError
				require.True(t, errors.As(err, &mErr), "want MissingFieldsError, got %T", err)
				assert.Equal(t, tt.missing, mErr.Fields)
				return
			}
			var pErr *ParseError
			require.True(t, errors.As(err, &pErr), "want ParseError, got %T", err)
		})
	}
}

func TestParseResponseIsTotal(t *testing.T) {
	f := gofakeit.New(7)
	for i := 0; i < 200; i++ {
		raw := f.Sentence(8)
		if i%3 == 0 {
			raw = "{" + raw + "}"
		}
		got, err := ParseResponse(raw)
		if err == nil {
			assert.GreaterOrEqual(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, 1.0)
			continue
		}
		var pErr *ParseError
		var mErr *MissingFieldsError
		require.True(t, errors.As(err, &pErr) || errors.As(err, &mErr), "unexpected error type %T", err)
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	f := gofakeit.New(42)
	for i := 0; i < 100; i++ {
		in := ParsedResponse{
			Summary:        f.Sentence(6),
			Confidence:     f.Float64Range(-1, 2),
			Recommendation: f.Sentence(4) + " <&> ```",
		}
		for j := 0; j < f.Number(0, 4); j++ {
			in.Keywords = append(in.Keywords, f.Word())
		}
		for j := 0; j < f.Number(0, 3); j++ {
			in.PossibleCauses = append(in.PossibleCauses, f.Sentence(3))
		}

		first, err := ParseResponse(in.Canonical())
		require.NoError(t, err)
		second, err := ParseResponse(first.Canonical())
		require.NoError(t, err)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("canonical round trip changed fields (-first +second):\n%s", diff)
		}
	}
}

func TestParseResponseKeepsBackticksInValues(t *testing.T) {
	raw := "```json\n" + `{"summary":"use \u0060\u0060\u0060 fences","confidence":0.7,"keywords":["a` + "```" + `b"],"possibleCauses":[],"recommendation":"r"}` + "\n```"

	first, err := ParseResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, "use ``` fences", first.Summary)
	assert.Equal(t, []string{"a```b"}, first.Keywords)

	canonical := first.Canonical()
	assert.NotContains(t, canonical, "`")

	second, err := ParseResponse(canonical)
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("re-parse changed fields (-first +second):\n%s", diff)
	}
}

func TestFieldsCompleteness(t *testing.T) {
	p, err := ParseResponse(`{"summary":"s","confidence":0.5,"keywords":[],"possibleCauses":["c"],"recommendation":" "}`)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, p.Fields().Completeness(), 1e-9)
}
