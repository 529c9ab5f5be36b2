package reference

import "strings"

// Intent is the structured brief produced by upstream extraction.
// Selection only reads Category and Keywords.
type Intent struct {
	Product  string   `json:"product"`
	Audience string   `json:"audience"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
	Tone     string   `json:"tone"`
	Platform string   `json:"platform,omitempty"`
}

// MatchTerms returns the lower-cased, de-duplicated category and keyword terms.
func (i Intent) MatchTerms() []string {
	raw := append([]string{i.Category}, i.Keywords...)
	out := make([]string, 0, len(raw))
	seen := map[string]struct{}{}
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
