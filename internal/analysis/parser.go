package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"voc-backend/internal/confidence"
)

const defaultResponseConfidence = 0.5

var (
	requiredFields = []string{"summary", "confidence", "keywords", "possibleCauses", "recommendation"}
	openFence      = regexp.MustCompile("^\\s*```(?i:json)?")
	closeFence     = regexp.MustCompile("```\\s*$")
)

// ParsedResponse is the structured LLM answer.
type ParsedResponse struct {
	Summary        string   `json:"summary"`
	Confidence     float64  `json:"confidence"`
	Keywords       []string `json:"keywords"`
	PossibleCauses []string `json:"possibleCauses"`
	Recommendation string   `json:"recommendation"`
}

// ParseResponse is total: it returns a fully populated response, a
// *ParseError or a *MissingFieldsError.
func ParseResponse(raw string) (ParsedResponse, error) {
	cleaned := openFence.ReplaceAllString(raw, "")
	cleaned = strings.TrimSpace(closeFence.ReplaceAllString(cleaned, ""))

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end < start {
		return ParsedResponse{}, &ParseError{Reason: "no JSON object found"}
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &obj); err != nil {
		return ParsedResponse{}, &ParseError{Reason: "invalid JSON", Err: err}
	}

	var missing []string
	for _, f := range requiredFields {
		if _, ok := obj[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return ParsedResponse{}, &MissingFieldsError{Fields: missing}
	}

	return ParsedResponse{
		Summary:        asText(obj["summary"]),
		Confidence:     confidence.Clamp(asConfidence(obj["confidence"])),
		Keywords:       asStrings(obj["keywords"]),
		PossibleCauses: asStrings(obj["possibleCauses"]),
		Recommendation: asText(obj["recommendation"]),
	}, nil
}

// Canonical renders the response as compact JSON with backticks escaped, so
// no fence can appear in the output. Parsing it again yields the same fields.
func (p ParsedResponse) Canonical() string {
	out := p
	if out.Keywords == nil {
		out.Keywords = []string{}
	}
	if out.PossibleCauses == nil {
		out.PossibleCauses = []string{}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "{}"
	}
	return strings.ReplaceAll(string(b), "`", `\u0060`)
}

// Fields reports which response fields are present and non-empty.
func (p ParsedResponse) Fields() *confidence.ResponseFields {
	return &confidence.ResponseFields{
		Summary:        strings.TrimSpace(p.Summary) != "",
		Confidence:     true,
		Keywords:       len(p.Keywords) > 0,
		PossibleCauses: len(p.PossibleCauses) > 0,
		Recommendation: strings.TrimSpace(p.Recommendation) != "",
	}
}

func asConfidence(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f
		}
	}
	return defaultResponseConfidence
}

func asStrings(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func asText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		return strings.Join(asStrings(t), " ")
	default:
		return fmt.Sprint(t)
	}
}
