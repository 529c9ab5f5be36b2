package compliance

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultMaxChars is reported for platforms without a registered spec.
const DefaultMaxChars = 1000

const (
	KindCharCount      = "char_count"
	KindProhibitedWord = "prohibited_word"
	KindRestrictedWord = "restricted_word"
	KindExpression     = "expression"
)

type Issue struct {
	Kind     string `json:"kind"`
	Category string `json:"category,omitempty"`
	Term     string `json:"term,omitempty"`
	Message  string `json:"message"`
}

type Report struct {
	Compliant  bool    `json:"compliant"`
	CharCount  int     `json:"char_count"`
	MinChars   int     `json:"min_chars"`
	MaxChars   int     `json:"max_chars"`
	Violations []Issue `json:"violations"`
	Warnings   []Issue `json:"warnings"`

	Platform  string    `json:"platform"`
	AdType    string    `json:"ad_type,omitempty"`
	FieldType FieldType `json:"field_type"`
	Known     bool      `json:"known_platform"`
}

// Validator checks copy against the platform table. It holds no mutable state, so
// the same inputs always produce the same report.
type Validator struct {
	table *Table
}

func NewValidator(table *Table) *Validator {
	return &Validator{table: table}
}

func (v *Validator) Table() *Table { return v.table }

// Validate checks copyText against the platform's default ad type.
func (v *Validator) Validate(copyText, platform string, field FieldType) Report {
	return v.ValidateAdType(copyText, platform, "", field)
}

func (v *Validator) ValidateAdType(copyText, platform, adType string, field FieldType) Report {
	field = ParseFieldType(string(field))
	rep := Report{
		CharCount:  utf8.RuneCountInString(copyText),
		MaxChars:   DefaultMaxChars,
		Violations: []Issue{},
		Warnings:   []Issue{},
		Platform:   normKey(platform),
		AdType:     normKey(adType),
		FieldType:  field,
	}

	p, spec, ok := v.table.Lookup(platform, adType)
	if !ok {
		rep.Compliant = true
		return rep
	}
	rep.Known = true
	rep.Platform = p.Platform
	rep.AdType = spec.AdType

	if b, ok := spec.Fields[field]; ok {
		rep.MinChars = b.Min
		if b.Max > 0 {
			rep.MaxChars = b.Max
		}
	}
	checkLength(&rep)

	lowered := strings.ToLower(copyText)
	for _, w := range spec.Prohibited {
		if containsTerm(lowered, w) {
			rep.Violations = append(rep.Violations, Issue{
				Kind:    KindProhibitedWord,
				Term:    w,
				Message: fmt.Sprintf("prohibited expression %q", w),
			})
		}
	}
	for _, w := range spec.Restricted {
		if containsTerm(lowered, w) {
			rep.Warnings = append(rep.Warnings, Issue{
				Kind:    KindRestrictedWord,
				Term:    w,
				Message: fmt.Sprintf("restricted expression %q may need supporting evidence or disclosure", w),
			})
		}
	}
	for _, rule := range spec.Expressions {
		hit := rule.firstMatch(copyText)
		if hit == "" {
			continue
		}
		issue := Issue{
			Kind:     KindExpression,
			Category: rule.Category,
			Term:     hit,
			Message:  fmt.Sprintf("%s expression %q", strings.ReplaceAll(rule.Category, "_", " "), hit),
		}
		if rule.Severity == SeverityViolation {
			rep.Violations = append(rep.Violations, issue)
		} else {
			rep.Warnings = append(rep.Warnings, issue)
		}
	}

	rep.Compliant = len(rep.Violations) == 0
	return rep
}

func checkLength(rep *Report) {
	switch {
	case rep.CharCount < rep.MinChars:
		rep.Violations = append(rep.Violations, Issue{
			Kind:    KindCharCount,
			Term:    "too_short",
			Message: fmt.Sprintf("%d characters, minimum is %d", rep.CharCount, rep.MinChars),
		})
	case rep.CharCount > rep.MaxChars:
		rep.Violations = append(rep.Violations, Issue{
			Kind:    KindCharCount,
			Term:    "too_long",
			Message: fmt.Sprintf("%d characters, maximum is %d", rep.CharCount, rep.MaxChars),
		})
	}
}

func containsTerm(loweredText, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	return term != "" && strings.Contains(loweredText, term)
}

func (r ExpressionRule) firstMatch(text string) string {
	for _, re := range r.compiled {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}
