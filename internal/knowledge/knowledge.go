// Package knowledge holds the static category templates used to classify
// VOC text without any external calls.
//
// Two taxonomies coexist: Korean customer-facing VOC categories and technical
// log categories. Both are scored with the same rule: a category's score is
// the ratio of its keywords found in the text. A VOC category only matches when
// one of its own keywords is present; its keyword set then also includes the
// keywords of its best subcategory, chosen by the same ratio. A subcategory
// with no matched keyword is never attached. Ties keep declaration order.
package knowledge

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

type Taxonomy string

const (
	TaxonomyVOC Taxonomy = "voc"
	TaxonomyLog Taxonomy = "log"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

var severityOrder = []Severity{SeverityCritical, SeverityHigh, SeverityMedium}

// Precedence decides which taxonomy MatchCategories consults first.
type Precedence string

const (
	VOCFirst Precedence = "voc-first"
	LogFirst Precedence = "log-first"
)

// ParsePrecedence maps a config value to a Precedence, defaulting to VOCFirst.
func ParsePrecedence(raw string) Precedence {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(LogFirst), "log":
		return LogFirst
	default:
		return VOCFirst
	}
}

// Subcategory refines a VOC category. LogCategory links it to the technical
// category whose causes and actions apply.
type Subcategory struct {
	Name        string
	Code        string
	Keywords    []string
	LogCategory string
}

// Entry is one category template. Entries are shared; callers must not modify them.
type Entry struct {
	ID                 string
	Taxonomy           Taxonomy
	DisplayName        string
	Keywords           []string
	TypicalCauses      []string
	RecommendedActions []string
	SeverityKeywords   map[Severity][]string
	Subcategories      []Subcategory
}

// Match is a scored category hit.
type Match struct {
	Category    string
	Taxonomy    Taxonomy
	Score       float64
	Keywords    []string
	Subcategory string
	Code        string
	LogCategory string
}

type compiledSub struct {
	Subcategory
	folded []string
}

type compiledEntry struct {
	Entry
	folded []string
	subs   []compiledSub
}

// Base is the read-only knowledge base. Safe for concurrent use.
type Base struct {
	precedence Precedence
	entries    []compiledEntry
	byID       map[string]int
}

// New builds a knowledge base from the embedded templates.
func New(precedence Precedence) *Base {
	if precedence != LogFirst {
		precedence = VOCFirst
	}
	b := &Base{precedence: precedence, byID: make(map[string]int)}
	for _, e := range vocTemplates() {
		b.add(e)
	}
	for _, e := range logTemplates() {
		b.add(e)
	}
	return b
}

func (b *Base) add(e Entry) {
	ce := compiledEntry{Entry: e, folded: foldAll(e.Keywords)}
	for _, sub := range e.Subcategories {
		ce.subs = append(ce.subs, compiledSub{Subcategory: sub, folded: foldAll(sub.Keywords)})
	}
	b.byID[e.ID] = len(b.entries)
	b.entries = append(b.entries, ce)
}

// Precedence reports the configured taxonomy order.
func (b *Base) Precedence() Precedence {
	return b.precedence
}

func (b *Base) order() []Taxonomy {
	if b.precedence == LogFirst {
		return []Taxonomy{TaxonomyLog, TaxonomyVOC}
	}
	return []Taxonomy{TaxonomyVOC, TaxonomyLog}
}

// Lookup returns the template for a category id.
func (b *Base) Lookup(category string) (Entry, bool) {
	idx, ok := b.byID[category]
	if !ok {
		idx, ok = b.byID[strings.ToLower(strings.TrimSpace(category))]
	}
	if !ok {
		return Entry{}, false
	}
	return b.entries[idx].Entry, true
}

// AllCategories lists category ids in precedence order, then declaration order.
func (b *Base) AllCategories() []string {
	var out []string
	for _, tax := range b.order() {
		for _, e := range b.entries {
			if e.Taxonomy == tax {
				out = append(out, e.ID)
			}
		}
	}
	return out
}

// Entries lists the templates of one taxonomy in declaration order.
func (b *Base) Entries(tax Taxonomy) []Entry {
	var out []Entry
	for _, e := range b.entries {
		if e.Taxonomy == tax {
			out = append(out, e.Entry)
		}
	}
	return out
}

// MatchCategories scores text against the first taxonomy (in precedence
// order) that yields any match. Best match first.
func (b *Base) MatchCategories(text string) []Match {
	folded := fold(text)
	for _, tax := range b.order() {
		if matches := b.match(folded, tax); len(matches) > 0 {
			return matches
		}
	}
	return nil
}

// MatchTaxonomy scores text against a single taxonomy.
func (b *Base) MatchTaxonomy(text string, tax Taxonomy) []Match {
	return b.match(fold(text), tax)
}

func (b *Base) match(folded string, tax Taxonomy) []Match {
	var matches []Match
	for _, e := range b.entries {
		if e.Taxonomy != tax {
			continue
		}
		matched := matchedKeywords(folded, e.Keywords, e.folded)
		if len(matched) == 0 {
			continue
		}
		m := Match{Category: e.ID, Taxonomy: tax}
		total := len(e.Keywords)
		if tax == TaxonomyLog {
			m.LogCategory = e.ID
		}
		if len(e.subs) > 0 {
			best := 0
			bestRatio := 0.0
			var bestMatched []string
			for i, sub := range e.subs {
				subMatched := matchedKeywords(folded, sub.Keywords, sub.folded)
				if len(subMatched) == 0 {
					continue
				}
				ratio := float64(len(subMatched)) / float64(len(sub.Keywords))
				if ratio > bestRatio {
					best = i
					bestRatio = ratio
					bestMatched = subMatched
				}
			}
			if len(bestMatched) > 0 {
				sub := e.subs[best]
				m.Subcategory = sub.Name
				m.Code = sub.Code
				m.LogCategory = sub.LogCategory
				total += len(sub.Keywords)
				matched = appendUnique(matched, bestMatched)
			}
		}
		m.Keywords = matched
		m.Score = float64(len(matched)) / float64(total)
		if m.Score > 1 {
			m.Score = 1
		}
		matches = append(matches, m)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// SeverityFor scans severity keywords in critical > high > medium order.
func (b *Base) SeverityFor(text, category string) Severity {
	e, ok := b.Lookup(category)
	if !ok {
		return SeverityLow
	}
	folded := fold(text)
	for _, sev := range severityOrder {
		for _, kw := range e.SeverityKeywords[sev] {
			if strings.Contains(folded, fold(kw)) {
				return sev
			}
		}
	}
	return SeverityLow
}

// Guidance returns the causes and actions for a match. VOC matches linked to
// a log category borrow its technical guidance.
func (b *Base) Guidance(m Match) (causes, actions []string) {
	if m.LogCategory != "" {
		if e, ok := b.Lookup(m.LogCategory); ok && e.Taxonomy == TaxonomyLog {
			return e.TypicalCauses, e.RecommendedActions
		}
	}
	if e, ok := b.Lookup(m.Category); ok {
		return e.TypicalCauses, e.RecommendedActions
	}
	return nil, nil
}

// DisplayName returns the human-facing name for a match.
func (b *Base) DisplayName(m Match) string {
	if m.Subcategory != "" {
		return m.Subcategory
	}
	if e, ok := b.Lookup(m.Category); ok && e.DisplayName != "" {
		return e.DisplayName
	}
	return m.Category
}

func matchedKeywords(folded string, keywords, foldedKeywords []string) []string {
	var out []string
	for i, kw := range foldedKeywords {
		if kw != "" && strings.Contains(folded, kw) {
			out = append(out, keywords[i])
		}
	}
	return out
}

func appendUnique(dst, src []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, s := range dst {
		seen[s] = struct{}{}
	}
	for _, s := range src {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		dst = append(dst, s)
	}
	return dst
}

func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

func foldAll(keywords []string) []string {
	out := make([]string, len(keywords))
	for i, kw := range keywords {
		out[i] = fold(strings.TrimSpace(kw))
	}
	return out
}
