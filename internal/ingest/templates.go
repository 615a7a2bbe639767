package ingest

import (
	"fmt"
	"strings"
	"time"

	"voc-backend/internal/knowledge"
	"voc-backend/internal/logs"
)

const (
	templateCausesPerCategory = 5
	templateKeywordsInMessage = 3
)

var templateLevels = [...]string{"ERROR", "WARN", "INFO"}

// TemplateDocuments synthesizes one log per typical cause (up to five) of
// every technical log category.
func TemplateDocuments(kb *knowledge.Base, at time.Time) ([]logs.Document, []string) {
	ts := at.UTC().Format(time.RFC3339)
	entries := kb.Entries(knowledge.TaxonomyLog)

	var docs []logs.Document
	categories := make([]string, 0, len(entries))
	for _, e := range entries {
		categories = append(categories, e.ID)
		keywords := e.Keywords
		if len(keywords) > templateKeywordsInMessage {
			keywords = keywords[:templateKeywordsInMessage]
		}
		causes := e.TypicalCauses
		if len(causes) > templateCausesPerCategory {
			causes = causes[:templateCausesPerCategory]
		}
		for i, cause := range causes {
			severity := "medium"
			if i%2 == 0 {
				severity = "high"
			}
			docs = append(docs, logs.Document{
				ID:          fmt.Sprintf("template-%s-%03d", e.ID, i),
				Timestamp:   ts,
				LogLevel:    templateLevels[i%len(templateLevels)],
				ServiceName: e.ID + "-service",
				Message:     fmt.Sprintf("%s. Keywords: %s", cause, strings.Join(keywords, ", ")),
				Category:    e.ID,
				Severity:    severity,
			})
		}
	}
	return docs, categories
}
