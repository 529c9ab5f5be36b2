package compliance

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed platforms.yaml
var defaultTableYAML []byte

var ErrInvalidTable = errors.New("invalid platform spec table")

type FieldType string

const (
	FieldTitle       FieldType = "title"
	FieldDescription FieldType = "description"
)

// ParseFieldType normalizes a field name; unknown names are returned lower-cased.
func ParseFieldType(s string) FieldType {
	return FieldType(strings.ToLower(strings.TrimSpace(s)))
}

type Severity string

const (
	SeverityViolation Severity = "violation"
	SeverityWarning   Severity = "warning"
)

type Bounds struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

type ExpressionRule struct {
	Category string   `yaml:"category" json:"category"`
	Severity Severity `yaml:"severity" json:"severity"`
	Patterns []string `yaml:"patterns" json:"patterns"`

	compiled []*regexp.Regexp
}

// AdTypeSpec holds the rules for one (platform, ad type) pair.
type AdTypeSpec struct {
	AdType      string               `yaml:"ad_type" json:"ad_type"`
	Fields      map[FieldType]Bounds `yaml:"fields" json:"fields"`
	Prohibited  []string             `yaml:"prohibited" json:"prohibited"`
	Restricted  []string             `yaml:"restricted" json:"restricted"`
	Expressions []ExpressionRule     `yaml:"expressions" json:"expressions"`
}

type PlatformSpec struct {
	Platform      string       `yaml:"platform" json:"platform"`
	DisplayName   string       `yaml:"display_name" json:"display_name"`
	DefaultAdType string       `yaml:"default_ad_type" json:"default_ad_type"`
	Aliases       []string     `yaml:"aliases" json:"aliases,omitempty"`
	AdTypes       []AdTypeSpec `yaml:"ad_types" json:"ad_types"`
}

type tableFile struct {
	Version   string         `yaml:"version"`
	Platforms []PlatformSpec `yaml:"platforms"`
}

// Table is the loaded, read-only platform rule set. It is safe for concurrent use
// because nothing mutates it after Load returns.
type Table struct {
	version   string
	platforms map[string]*PlatformSpec
	aliases   map[string]string
	order     []string
}

func LoadDefaultTable() (*Table, error) {
	return LoadTable(defaultTableYAML)
}

// LoadTableFile reads the table from path, or the embedded default when path is empty.
func LoadTableFile(path string) (*Table, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return LoadDefaultTable()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read platform spec table: %w", err)
	}
	return LoadTable(raw)
}

func LoadTable(raw []byte) (*Table, error) {
	var tf tableFile
	if err := yaml.Unmarshal(raw, &tf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	t := &Table{
		version:   strings.TrimSpace(tf.Version),
		platforms: map[string]*PlatformSpec{},
		aliases:   map[string]string{},
	}
	for i := range tf.Platforms {
		p := tf.Platforms[i]
		if err := normalizePlatform(&p); err != nil {
			return nil, err
		}
		if _, dup := t.platforms[p.Platform]; dup {
			return nil, fmt.Errorf("%w: duplicate platform %q", ErrInvalidTable, p.Platform)
		}
		t.platforms[p.Platform] = &p
		t.order = append(t.order, p.Platform)
		for _, a := range p.Aliases {
			t.aliases[a] = p.Platform
		}
	}
	return t, nil
}

func normalizePlatform(p *PlatformSpec) error {
	p.Platform = normKey(p.Platform)
	if p.Platform == "" {
		return fmt.Errorf("%w: platform name required", ErrInvalidTable)
	}
	if len(p.AdTypes) == 0 {
		return fmt.Errorf("%w: platform %q has no ad types", ErrInvalidTable, p.Platform)
	}
	for i := range p.Aliases {
		p.Aliases[i] = normKey(p.Aliases[i])
	}
	p.DefaultAdType = normKey(p.DefaultAdType)
	if p.DefaultAdType == "" {
		p.DefaultAdType = normKey(p.AdTypes[0].AdType)
	}

	found := false
	for i := range p.AdTypes {
		at := &p.AdTypes[i]
		at.AdType = normKey(at.AdType)
		if at.AdType == p.DefaultAdType {
			found = true
		}
		fields := make(map[FieldType]Bounds, len(at.Fields))
		for f, b := range at.Fields {
			if b.Min < 0 || (b.Max > 0 && b.Max < b.Min) {
				return fmt.Errorf("%w: %s/%s field %q has bounds %d..%d", ErrInvalidTable, p.Platform, at.AdType, f, b.Min, b.Max)
			}
			fields[ParseFieldType(string(f))] = b
		}
		at.Fields = fields
		for j := range at.Expressions {
			rule := &at.Expressions[j]
			switch rule.Severity {
			case SeverityViolation, SeverityWarning:
			default:
				return fmt.Errorf("%w: %s/%s expression %q has severity %q", ErrInvalidTable, p.Platform, at.AdType, rule.Category, rule.Severity)
			}
			rule.compiled = make([]*regexp.Regexp, 0, len(rule.Patterns))
			for _, pat := range rule.Patterns {
				re, err := regexp.Compile(pat)
				if err != nil {
					return fmt.Errorf("%w: %s/%s pattern %q: %v", ErrInvalidTable, p.Platform, at.AdType, pat, err)
				}
				rule.compiled = append(rule.compiled, re)
			}
		}
	}
	if !found {
		return fmt.Errorf("%w: platform %q default ad type %q not defined", ErrInvalidTable, p.Platform, p.DefaultAdType)
	}
	return nil
}

func (t *Table) Version() string { return t.version }

// Lookup resolves a platform (or alias) and ad type. An empty ad type selects the
// platform default.
func (t *Table) Lookup(platform, adType string) (PlatformSpec, AdTypeSpec, bool) {
	if t == nil {
		return PlatformSpec{}, AdTypeSpec{}, false
	}
	key := normKey(platform)
	if canonical, ok := t.aliases[key]; ok {
		key = canonical
	}
	p, ok := t.platforms[key]
	if !ok {
		return PlatformSpec{}, AdTypeSpec{}, false
	}
	want := normKey(adType)
	if want == "" {
		want = p.DefaultAdType
	}
	for _, at := range p.AdTypes {
		if at.AdType == want {
			return *p, at, true
		}
	}
	return *p, AdTypeSpec{}, false
}

// PlatformSummary is the listing shape exposed to clients.
type PlatformSummary struct {
	Platform      string   `json:"platform"`
	DisplayName   string   `json:"display_name"`
	DefaultAdType string   `json:"default_ad_type"`
	AdTypes       []string `json:"ad_types"`
}

func (t *Table) Platforms() []PlatformSummary {
	if t == nil {
		return nil
	}
	out := make([]PlatformSummary, 0, len(t.order))
	for _, name := range t.order {
		p := t.platforms[name]
		types := make([]string, 0, len(p.AdTypes))
		for _, at := range p.AdTypes {
			types = append(types, at.AdType)
		}
		sort.Strings(types)
		out = append(out, PlatformSummary{
			Platform:      p.Platform,
			DisplayName:   p.DisplayName,
			DefaultAdType: p.DefaultAdType,
			AdTypes:       types,
		})
	}
	return out
}

func normKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
