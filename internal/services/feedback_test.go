package services

import (
	"math"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/adcopy-backend/internal/data/repos/testutil"
	types "github.com/yungbote/adcopy-backend/internal/domain"
)

func newFeedback(t *testing.T, d testDeps, guard IdempotencyGuard) FeedbackService {
	t.Helper()
	return NewFeedbackService(d.db, testutil.Logger(t), d.repo.ReferenceExample, d.repo.ReferenceUsageLog, guard)
}

func withScore(score float64) func(*types.ReferenceExample) {
	return func(r *types.ReferenceExample) { r.PerformanceScore = score }
}

func floatPtr(v float64) *float64 { return &v }

func TestRecordUsageIncrementsOncePerPair(t *testing.T) {
	d := newTestDeps(t)
	a := d.seed(t)
	b := d.seed(t)
	svc := newFeedback(t, d, nil)

	out := svc.RecordUsage(d.ctx, "copy-1", []uuid.UUID{a.ID, b.ID, a.ID, uuid.Nil})
	if out.Degraded || out.Recorded != 2 {
		t.Fatalf("first record: %+v", out)
	}
	out = svc.RecordUsage(d.ctx, "copy-1", []uuid.UUID{a.ID})
	if out.Degraded || out.Recorded != 0 {
		t.Fatalf("repeated pair should not be recorded again: %+v", out)
	}
	out = svc.RecordUsage(d.ctx, "copy-2", []uuid.UUID{a.ID})
	if out.Recorded != 1 {
		t.Fatalf("new copy should record: %+v", out)
	}

	if got := d.reload(t, a).UsageCount; got != 2 {
		t.Fatalf("a usage_count=%d want 2", got)
	}
	if got := d.reload(t, b).UsageCount; got != 1 {
		t.Fatalf("b usage_count=%d want 1", got)
	}
	logs, err := d.repo.ReferenceUsageLog.ListByCopyID(dbcOf(d), "copy-1")
	if err != nil || len(logs) != 2 {
		t.Fatalf("usage logs: n=%d err=%v", len(logs), err)
	}
}

func TestRecordUsageSkipsUnknownExamples(t *testing.T) {
	d := newTestDeps(t)
	a := d.seed(t)
	svc := newFeedback(t, d, nil)

	out := svc.RecordUsage(d.ctx, "copy-u", []uuid.UUID{uuid.New(), a.ID})
	if out.Degraded || out.Recorded != 1 {
		t.Fatalf("only the stored example should be recorded: %+v", out)
	}
	logs, err := d.repo.ReferenceUsageLog.ListByCopyID(dbcOf(d), "copy-u")
	if err != nil || len(logs) != 1 || logs[0].ReferenceExampleID != a.ID {
		t.Fatalf("usage logs: %+v err=%v", logs, err)
	}
	if out := svc.RecordUsage(d.ctx, "copy-v", []uuid.UUID{uuid.New()}); out.Degraded || out.Recorded != 0 {
		t.Fatalf("unknown ids only: %+v", out)
	}
}

func TestApplyFeedbackRatings(t *testing.T) {
	cases := []struct {
		name        string
		start       float64
		rating      int
		wantScore   float64
		wantSuccess int64
		adjustment  Adjustment
	}{
		{name: "positive_clamps_high", start: 0.97, rating: 5, wantScore: 1.0, wantSuccess: 1, adjustment: AdjustmentUp},
		{name: "positive_four", start: 0.5, rating: 4, wantScore: 0.55, wantSuccess: 1, adjustment: AdjustmentUp},
		{name: "negative_clamps_low", start: 0.03, rating: 1, wantScore: 0.0, wantSuccess: 0, adjustment: AdjustmentDown},
		{name: "negative_two", start: 0.5, rating: 2, wantScore: 0.45, wantSuccess: 0, adjustment: AdjustmentDown},
		{name: "neutral", start: 0.5, rating: 3, wantScore: 0.5, wantSuccess: 0, adjustment: AdjustmentNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := newTestDeps(t)
			ex := d.seed(t, withScore(tc.start))
			svc := newFeedback(t, d, nil)
			svc.RecordUsage(d.ctx, "copy-x", []uuid.UUID{ex.ID})

			out := svc.ApplyFeedback(d.ctx, FeedbackInput{CopyID: "copy-x", Rating: tc.rating})
			if !out.Applied || out.Linked != 1 || out.Adjustment != tc.adjustment {
				t.Fatalf("outcome: %+v", out)
			}
			got := d.reload(t, ex)
			if math.Abs(got.PerformanceScore-tc.wantScore) > 1e-9 {
				t.Fatalf("score=%v want %v", got.PerformanceScore, tc.wantScore)
			}
			if got.SuccessCount != tc.wantSuccess {
				t.Fatalf("success_count=%d want %d", got.SuccessCount, tc.wantSuccess)
			}
		})
	}
}

func TestApplyFeedbackMetricsOverride(t *testing.T) {
	d := newTestDeps(t)
	a := d.seed(t, withScore(0.9))
	b := d.seed(t, withScore(0.1))
	svc := newFeedback(t, d, nil)
	svc.RecordUsage(d.ctx, "copy-m", []uuid.UUID{a.ID, b.ID})

	out := svc.ApplyFeedback(d.ctx, FeedbackInput{
		CopyID:               "copy-m",
		Rating:               5,
		ActualCTR:            floatPtr(0.1),
		ActualConversionRate: floatPtr(0.5),
	})
	if !out.Applied || out.Adjustment != AdjustmentOverride || out.Linked != 2 {
		t.Fatalf("outcome: %+v", out)
	}
	for _, ex := range []*types.ReferenceExample{a, b} {
		got := d.reload(t, ex)
		if math.Abs(got.PerformanceScore-0.38) > 1e-9 {
			t.Fatalf("score=%v want 0.38", got.PerformanceScore)
		}
		if got.SuccessCount != 1 {
			t.Fatalf("success_count=%d want 1", got.SuccessCount)
		}
	}

	out = svc.ApplyFeedback(d.ctx, FeedbackInput{CopyID: "copy-m", Rating: 1, ActualCTR: floatPtr(0.9)})
	if out.Adjustment != AdjustmentOverride {
		t.Fatalf("ctr alone should override: %+v", out)
	}
	if got := d.reload(t, a).PerformanceScore; math.Abs(got-0.27) > 1e-9 {
		t.Fatalf("score=%v want 0.27", got)
	}
}

func TestMetricsScore(t *testing.T) {
	cases := []struct {
		ctr, cvr *float64
		want     float64
	}{
		{nil, nil, 0},
		{floatPtr(1), floatPtr(1), 1},
		{floatPtr(1), nil, 0.3},
		{nil, floatPtr(1), 0.7},
		{floatPtr(2), floatPtr(2), 1},
	}
	for i, tc := range cases {
		if got := MetricsScore(tc.ctr, tc.cvr); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("case %d: got %v want %v", i, got, tc.want)
		}
	}
}

func TestApplyFeedbackStoresRatingOnUsageLogs(t *testing.T) {
	d := newTestDeps(t)
	ex := d.seed(t)
	svc := newFeedback(t, d, nil)
	svc.RecordUsage(d.ctx, "copy-r", []uuid.UUID{ex.ID})
	svc.ApplyFeedback(d.ctx, FeedbackInput{CopyID: "copy-r", Rating: 4})

	logs, err := d.repo.ReferenceUsageLog.ListByCopyID(dbcOf(d), "copy-r")
	if err != nil || len(logs) != 1 {
		t.Fatalf("logs: n=%d err=%v", len(logs), err)
	}
	if logs[0].Rating == nil || *logs[0].Rating != 4 || logs[0].RatedAt == nil {
		t.Fatalf("rating not stored: %+v", logs[0])
	}
}

func TestApplyFeedbackUnlinkedCopy(t *testing.T) {
	d := newTestDeps(t)
	out := newFeedback(t, d, nil).ApplyFeedback(d.ctx, FeedbackInput{CopyID: "nothing", Rating: 5})
	if !out.Applied || out.Linked != 0 || out.Adjustment != AdjustmentNone {
		t.Fatalf("outcome: %+v", out)
	}
}

func TestApplyFeedbackIdempotencyKey(t *testing.T) {
	d := newTestDeps(t)
	ex := d.seed(t)
	guard := newFakeGuard()
	svc := newFeedback(t, d, guard)
	svc.RecordUsage(d.ctx, "copy-i", []uuid.UUID{ex.ID})

	in := FeedbackInput{CopyID: "copy-i", Rating: 5, IdempotencyKey: "k1"}
	if out := svc.ApplyFeedback(d.ctx, in); !out.Applied {
		t.Fatalf("first submission: %+v", out)
	}
	if out := svc.ApplyFeedback(d.ctx, in); !out.Skipped || out.Applied {
		t.Fatalf("replay should be skipped: %+v", out)
	}
	got := d.reload(t, ex)
	if got.SuccessCount != 1 || math.Abs(got.PerformanceScore-0.55) > 1e-9 {
		t.Fatalf("replay changed state: success=%d score=%v", got.SuccessCount, got.PerformanceScore)
	}
}

func TestApplyFeedbackDegradesAndReleasesKey(t *testing.T) {
	d := newTestDeps(t)
	guard := newFakeGuard()
	svc := newFeedback(t, d, guard)
	d.closeDB(t)

	out := svc.ApplyFeedback(d.ctx, FeedbackInput{CopyID: "copy-f", Rating: 5, IdempotencyKey: "k"})
	if !out.Degraded || out.Cause == nil || out.Applied {
		t.Fatalf("expected degraded outcome: %+v", out)
	}
	if len(guard.released) != 1 {
		t.Fatalf("claimed key should be released after failure")
	}
	if usage := svc.RecordUsage(d.ctx, "copy-f", []uuid.UUID{uuid.New()}); !usage.Degraded {
		t.Fatalf("expected degraded usage outcome: %+v", usage)
	}
}

func TestConcurrentFeedbackCountersAreMonotonic(t *testing.T) {
	d := newTestDeps(t)
	shared := d.seed(t, withScore(0.5))
	svc := newFeedback(t, d, nil)

	const n = 12
	copies := make([]string, n)
	for i := range copies {
		copies[i] = uuid.NewString()
		svc.RecordUsage(d.ctx, copies[i], []uuid.UUID{shared.ID})
	}

	var wg sync.WaitGroup
	for _, id := range copies {
		wg.Add(1)
		go func(copyID string) {
			defer wg.Done()
			svc.ApplyFeedback(d.ctx, FeedbackInput{CopyID: copyID, Rating: 5})
		}(id)
	}
	wg.Wait()

	got := d.reload(t, shared)
	if got.UsageCount != n || got.SuccessCount != n {
		t.Fatalf("usage=%d success=%d want %d", got.UsageCount, got.SuccessCount, n)
	}
	if got.PerformanceScore != 1.0 {
		t.Fatalf("score=%v want 1.0", got.PerformanceScore)
	}
}
