package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/yungbote/adcopy-backend/internal/data/repos"
	types "github.com/yungbote/adcopy-backend/internal/domain"
	"github.com/yungbote/adcopy-backend/internal/platform/ctxutil"
	"github.com/yungbote/adcopy-backend/internal/platform/dbctx"
	"github.com/yungbote/adcopy-backend/internal/platform/logger"
)

const (
	// ScoreStep is the nudge applied by a positive or negative rating.
	ScoreStep = 0.05

	SuccessRating  = 4
	NegativeRating = 2

	ctrWeight        = 0.3
	conversionWeight = 0.7
)

type Adjustment string

const (
	AdjustmentNone     Adjustment = "none"
	AdjustmentUp       Adjustment = "nudge_up"
	AdjustmentDown     Adjustment = "nudge_down"
	AdjustmentOverride Adjustment = "metrics_override"
)

// FeedbackInput is validated at the boundary: Rating in [1,5], metrics in [0,1].
type FeedbackInput struct {
	CopyID               string
	Rating               int
	ActualCTR            *float64
	ActualConversionRate *float64
	IdempotencyKey       string
}

func (in FeedbackInput) hasMetrics() bool {
	return in.ActualCTR != nil || in.ActualConversionRate != nil
}

// MetricsScore is the score implied by observed performance; a missing metric counts as 0.
func MetricsScore(ctr, conversionRate *float64) float64 {
	var c, v float64
	if ctr != nil {
		c = *ctr
	}
	if conversionRate != nil {
		v = *conversionRate
	}
	return types.ClampScore(ctrWeight*c + conversionWeight*v)
}

// FeedbackOutcome reports what ApplyFeedback did. Store failures never surface as
// errors; they set Degraded and Cause instead.
type FeedbackOutcome struct {
	Applied    bool
	Skipped    bool
	Degraded   bool
	Cause      error
	Linked     int
	Adjustment Adjustment
}

type UsageOutcome struct {
	Recorded int
	Degraded bool
	Cause    error
}

type FeedbackService interface {
	RecordUsage(ctx context.Context, copyID string, exampleIDs []uuid.UUID) UsageOutcome
	ApplyFeedback(ctx context.Context, in FeedbackInput) FeedbackOutcome
}

type feedbackService struct {
	db       *gorm.DB
	log      *logger.Logger
	examples repos.ReferenceExampleRepo
	usage    repos.ReferenceUsageLogRepo
	guard    IdempotencyGuard
	now      func() time.Time
}

func NewFeedbackService(
	db *gorm.DB,
	log *logger.Logger,
	examples repos.ReferenceExampleRepo,
	usage repos.ReferenceUsageLogRepo,
	guard IdempotencyGuard,
) FeedbackService {
	if guard == nil {
		guard = NewNoopIdempotencyGuard()
	}
	return &feedbackService{
		db:       db,
		log:      log.With("service", "FeedbackService"),
		examples: examples,
		usage:    usage,
		guard:    guard,
		now:      time.Now,
	}
}

func (s *feedbackService) RecordUsage(ctx context.Context, copyID string, exampleIDs []uuid.UUID) UsageOutcome {
	ctx, span := tracer.Start(ctx, "FeedbackService.RecordUsage")
	defer span.End()

	copyID = strings.TrimSpace(copyID)
	ids := uniqueIDs(exampleIDs)
	span.SetAttributes(attribute.Int("examples", len(ids)))
	if copyID == "" || len(ids) == 0 {
		return UsageOutcome{}
	}

	var recorded []uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		recorded = recorded[:0]
		known, err := s.examples.GetByIDs(dbc, ids)
		if err != nil {
			return fmt.Errorf("load examples: %w", err)
		}
		exists := make(map[uuid.UUID]bool, len(known))
		for _, ex := range known {
			exists[ex.ID] = true
		}
		for _, id := range ids {
			if !exists[id] {
				s.log.Debug("usage for unknown example skipped", "copy_id", copyID, "example_id", id)
				continue
			}
			created, err := s.usage.CreateIfAbsent(dbc, &types.ReferenceUsageLog{
				CopyID:             copyID,
				ReferenceExampleID: id,
			})
			if err != nil {
				return fmt.Errorf("append usage log: %w", err)
			}
			if created {
				recorded = append(recorded, id)
			}
		}
		if err := s.examples.IncrementUsage(dbc, recorded); err != nil {
			return fmt.Errorf("increment usage: %w", err)
		}
		return nil
	})
	if err != nil {
		recordSpanError(span, err)
		s.warn(ctx, "usage recording failed", "copy_id", copyID, "error", err)
		return UsageOutcome{Degraded: true, Cause: err}
	}
	return UsageOutcome{Recorded: len(recorded)}
}

func (s *feedbackService) ApplyFeedback(ctx context.Context, in FeedbackInput) FeedbackOutcome {
	ctx, span := tracer.Start(ctx, "FeedbackService.ApplyFeedback")
	defer span.End()
	span.SetAttributes(attribute.Int("rating", in.Rating), attribute.Bool("metrics", in.hasMetrics()))

	in.CopyID = strings.TrimSpace(in.CopyID)
	if in.CopyID == "" {
		return FeedbackOutcome{Skipped: true, Adjustment: AdjustmentNone}
	}

	key := ""
	if k := strings.TrimSpace(in.IdempotencyKey); k != "" {
		key = "feedback:" + in.CopyID + ":" + k
		first, err := s.guard.Claim(ctx, key)
		switch {
		case err != nil:
			s.warn(ctx, "idempotency claim failed; applying feedback anyway", "idempotency_key", k, "error", err)
			key = ""
		case !first:
			s.log.Info("duplicate feedback submission skipped", "copy_id", in.CopyID, "idempotency_key", k)
			return FeedbackOutcome{Skipped: true, Adjustment: AdjustmentNone}
		}
	}

	adj := adjustmentFor(in)
	var linked int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		ids, err := s.usage.ExampleIDsByCopyID(dbc, in.CopyID)
		if err != nil {
			return fmt.Errorf("load linked examples: %w", err)
		}
		linked = len(ids)
		if linked == 0 {
			return nil
		}
		if _, err := s.usage.SetRatingByCopyID(dbc, in.CopyID, in.Rating, s.now()); err != nil {
			return fmt.Errorf("store rating: %w", err)
		}
		if in.Rating >= SuccessRating {
			if err := s.examples.IncrementSuccess(dbc, ids); err != nil {
				return fmt.Errorf("increment success: %w", err)
			}
		}
		switch adj {
		case AdjustmentOverride:
			err = s.examples.SetScore(dbc, ids, MetricsScore(in.ActualCTR, in.ActualConversionRate))
		case AdjustmentUp:
			err = s.examples.AdjustScore(dbc, ids, ScoreStep)
		case AdjustmentDown:
			err = s.examples.AdjustScore(dbc, ids, -ScoreStep)
		}
		if err != nil {
			return fmt.Errorf("adjust score: %w", err)
		}
		return nil
	})
	if err != nil {
		recordSpanError(span, err)
		s.warn(ctx, "feedback application failed", "copy_id", in.CopyID, "error", err)
		if key != "" {
			if rerr := s.guard.Release(ctx, key); rerr != nil {
				s.warn(ctx, "idempotency release failed", "error", rerr)
			}
		}
		return FeedbackOutcome{Degraded: true, Cause: err, Adjustment: AdjustmentNone}
	}
	if linked == 0 {
		adj = AdjustmentNone
	}
	span.SetAttributes(attribute.Int("linked", linked), attribute.String("adjustment", string(adj)))
	return FeedbackOutcome{Applied: true, Linked: linked, Adjustment: adj}
}

func adjustmentFor(in FeedbackInput) Adjustment {
	switch {
	case in.hasMetrics():
		return AdjustmentOverride
	case in.Rating >= SuccessRating:
		return AdjustmentUp
	case in.Rating <= NegativeRating:
		return AdjustmentDown
	default:
		return AdjustmentNone
	}
}

func (s *feedbackService) warn(ctx context.Context, msg string, kv ...interface{}) {
	s.log.Warn(msg, append(kv, ctxutil.LogFields(ctx)...)...)
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
