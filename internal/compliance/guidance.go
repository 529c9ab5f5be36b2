package compliance

import (
	"fmt"
	"strings"
)

// Guidance renders the rules for a platform and ad type as a pre-generation
// instruction block. Unknown platforms yield "".
func (t *Table) Guidance(platform, adType string) string {
	p, spec, ok := t.Lookup(platform, adType)
	if !ok {
		return ""
	}
	name := p.DisplayName
	if name == "" {
		name = p.Platform
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## 플랫폼 규정: %s (%s)\n", name, spec.AdType)
	for _, f := range []FieldType{FieldTitle, FieldDescription} {
		bounds, ok := spec.Fields[f]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "- %s: %d~%d자\n", fieldLabel(f), bounds.Min, bounds.Max)
	}
	if len(spec.Prohibited) > 0 {
		fmt.Fprintf(&b, "- 사용 금지 표현: %s\n", strings.Join(spec.Prohibited, ", "))
	}
	if len(spec.Restricted) > 0 {
		fmt.Fprintf(&b, "- 근거 없이 사용 자제: %s\n", strings.Join(spec.Restricted, ", "))
	}
	for _, rule := range spec.Expressions {
		level := "주의"
		if rule.Severity == SeverityViolation {
			level = "금지"
		}
		fmt.Fprintf(&b, "- %s 표현 %s\n", strings.ReplaceAll(rule.Category, "_", " "), level)
	}
	return strings.TrimRight(b.String(), "\n")
}

func fieldLabel(f FieldType) string {
	switch f {
	case FieldTitle:
		return "제목"
	case FieldDescription:
		return "설명"
	default:
		return string(f)
	}
}
