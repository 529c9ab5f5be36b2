package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/adcopy-backend/internal/domain"
)

// SeedReference inserts an active, auto-collected example and applies the mutators.
func SeedReference(tb testing.TB, ctx context.Context, tx *gorm.DB, mutate ...func(*types.ReferenceExample)) *types.ReferenceExample {
	tb.Helper()
	r := &types.ReferenceExample{
		ID:               uuid.New(),
		CopyText:         "copy",
		Category:         "general",
		Formula:          "AIDA",
		Triggers:         []string{"benefit"},
		PerformanceScore: 0.5,
		QualityRating:    3,
		Status:           types.ReferenceStatusActive,
	}
	for _, m := range mutate {
		m(r)
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed reference: %v", err)
	}
	return r
}

// SeedUsage links copyID to the example, optionally with a rating.
func SeedUsage(tb testing.TB, ctx context.Context, tx *gorm.DB, copyID string, exampleID uuid.UUID, rating *int) *types.ReferenceUsageLog {
	tb.Helper()
	row := &types.ReferenceUsageLog{
		ID:                 uuid.New(),
		CopyID:             copyID,
		ReferenceExampleID: exampleID,
		Rating:             rating,
		CreatedAt:          time.Now().UTC(),
	}
	if rating != nil {
		at := time.Now().UTC()
		row.RatedAt = &at
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed usage: %v", err)
	}
	return row
}

// Reload fetches the current row state.
func Reload(tb testing.TB, ctx context.Context, tx *gorm.DB, id uuid.UUID) *types.ReferenceExample {
	tb.Helper()
	var r types.ReferenceExample
	if err := tx.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		tb.Fatalf("reload reference %s: %v", id, err)
	}
	return &r
}

func IntPtr(v int) *int { return &v }

func StrPtr(v string) *string { return &v }
