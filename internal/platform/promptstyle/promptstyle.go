package promptstyle

import "strings"

const marker = "ADCOPY_PROMPT_STYLE_V1"

// ApplySystem prepends the shared copywriting guidance to a system prompt and
// appends any non-empty grounding sections after it. Applying it twice is a no-op.
func ApplySystem(system string, sections ...string) string {
	base := strings.TrimSpace(system)
	if base == "" {
		return base
	}
	if strings.Contains(base, marker) {
		return base
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\nYou are a careful advertising copywriter.")
	b.WriteString("\nFollow the system and user instructions precisely.")
	b.WriteString("\nWrite in the language of the product brief unless told otherwise.")
	b.WriteString("\nUse reference examples as patterns only; never copy them verbatim.")
	b.WriteString("\nNever exceed the character limits or use banned expressions listed below.")
	b.WriteString("\n---\n")
	b.WriteString(base)
	for _, s := range sections {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		b.WriteString("\n\n")
		b.WriteString(s)
	}
	return strings.TrimSpace(b.String())
}
