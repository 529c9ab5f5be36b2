package reference

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

const (
	// CollectedScore is the starting performance score of auto-collected entries.
	CollectedScore = 0.5
	// ManualScore is the starting performance score of curated entries.
	ManualScore = 0.7

	MinScore = 0.0
	MaxScore = 1.0

	MinQualityRating = 0
	MaxQualityRating = 5
)

// ReferenceExample is a captured piece of ad copy used as a few-shot example.
// Rows are never deleted; Status=inactive removes them from selection.
type ReferenceExample struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	CopyText    string  `gorm:"column:copy_text;type:text;not null" json:"copy_text"`
	Headline    *string `gorm:"column:headline;type:text" json:"headline,omitempty"`
	Description *string `gorm:"column:description;type:text" json:"description,omitempty"`

	Category string  `gorm:"column:category;type:text;not null;index" json:"category"`
	Brand    *string `gorm:"column:brand;type:text" json:"brand,omitempty"`
	Industry *string `gorm:"column:industry;type:text" json:"industry,omitempty"`

	Formula  string                      `gorm:"column:formula;type:text;not null;index" json:"formula"`
	Triggers datatypes.JSONSlice[string] `gorm:"column:triggers" json:"triggers"`

	PerformanceScore float64 `gorm:"column:performance_score;not null;check:chk_reference_example_score,performance_score >= 0 AND performance_score <= 1;index" json:"performance_score"`
	QualityRating    int     `gorm:"column:quality_rating;not null;default:0;check:chk_reference_example_quality,quality_rating >= 0 AND quality_rating <= 5" json:"quality_rating"`

	IsManual bool `gorm:"column:is_manual;not null;default:false;index" json:"is_manual"`
	IsPinned bool `gorm:"column:is_pinned;not null;default:false;index" json:"is_pinned"`

	UsageCount   int64 `gorm:"column:usage_count;not null;default:0" json:"usage_count"`
	SuccessCount int64 `gorm:"column:success_count;not null;default:0" json:"success_count"`

	Status Status `gorm:"column:status;type:text;not null;default:'active';index" json:"status"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ReferenceExample) TableName() string { return "reference_example" }

func (r *ReferenceExample) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = StatusActive
	}
	if r.IsManual {
		r.IsPinned = true
	}
	r.PerformanceScore = ClampScore(r.PerformanceScore)
	r.QualityRating = ClampQuality(r.QualityRating)
	return nil
}

// AlwaysIncluded reports whether selection must take the example ahead of any ranking.
func (r *ReferenceExample) AlwaysIncluded() bool {
	return r != nil && (r.IsManual || r.IsPinned)
}

// SortedTriggers returns the trigger labels in a stable order.
func (r *ReferenceExample) SortedTriggers() []string {
	if r == nil || len(r.Triggers) == 0 {
		return nil
	}
	out := make([]string, 0, len(r.Triggers))
	seen := map[string]struct{}{}
	for _, t := range r.Triggers {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func ClampScore(v float64) float64 {
	if math.IsNaN(v) {
		return MinScore
	}
	return math.Max(MinScore, math.Min(MaxScore, v))
}

func ClampQuality(v int) int {
	if v < MinQualityRating {
		return MinQualityRating
	}
	if v > MaxQualityRating {
		return MaxQualityRating
	}
	return v
}
