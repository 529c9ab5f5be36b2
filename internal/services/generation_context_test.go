package services

import (
	"strings"
	"testing"

	"github.com/yungbote/adcopy-backend/internal/compliance"
	"github.com/yungbote/adcopy-backend/internal/data/repos/testutil"
	types "github.com/yungbote/adcopy-backend/internal/domain"
)

func newGenerationContext(t *testing.T, d testDeps) GenerationContextService {
	t.Helper()
	table, err := compliance.LoadDefaultTable()
	if err != nil {
		t.Fatalf("LoadDefaultTable: %v", err)
	}
	log := testutil.Logger(t)
	selector := NewExampleSelector(log, d.repo.ReferenceExample, DefaultSelectionPolicy())
	return NewGenerationContextService(log, selector, compliance.NewValidator(table), 3)
}

func TestPrepareGenerationContext(t *testing.T) {
	d := newTestDeps(t)
	d.seed(t, func(r *types.ReferenceExample) {
		r.IsManual = true
		r.CopyText = "아침을 바꾸는 한 잔"
		r.PerformanceScore = 0.7
	})
	svc := newGenerationContext(t, d)

	got := svc.Prepare(d.ctx, PrepareInput{Intent: types.Intent{Category: "food", Platform: "kakao"}})
	if got.Degraded || len(got.Examples) != 1 {
		t.Fatalf("unexpected selection: %+v", got)
	}
	if !strings.Contains(got.ExamplesBlock, "아침을 바꾸는 한 잔") {
		t.Fatalf("examples block missing copy:\n%s", got.ExamplesBlock)
	}
	if !strings.Contains(got.ComplianceBlock, "제목: 1~20자") {
		t.Fatalf("intent platform should render guidance:\n%s", got.ComplianceBlock)
	}
	for _, part := range []string{generationSystemPrompt, got.ComplianceBlock, got.ExamplesBlock} {
		if !strings.Contains(got.SystemPrompt, part) {
			t.Fatalf("system prompt missing section %q", part)
		}
	}
}

func TestPrepareWithoutExamplesOrPlatform(t *testing.T) {
	d := newTestDeps(t)
	got := newGenerationContext(t, d).Prepare(d.ctx, PrepareInput{Intent: types.Intent{Category: "food"}, Limit: 5})
	if got.Degraded || got.ExamplesBlock != "" || got.ComplianceBlock != "" {
		t.Fatalf("expected an unaugmented context: %+v", got)
	}
	if !strings.Contains(got.SystemPrompt, generationSystemPrompt) {
		t.Fatalf("system prompt missing base instructions")
	}
}

func TestPrepareDegradesWithoutStore(t *testing.T) {
	d := newTestDeps(t)
	svc := newGenerationContext(t, d)
	d.closeDB(t)

	got := svc.Prepare(d.ctx, PrepareInput{Intent: types.Intent{Category: "food"}, Platform: "naver"})
	if !got.Degraded || got.ExamplesBlock != "" || got.ComplianceBlock == "" {
		t.Fatalf("degraded context should still carry guidance: %+v", got)
	}
}

func TestReviewRequestsRetry(t *testing.T) {
	d := newTestDeps(t)
	svc := newGenerationContext(t, d)

	got := svc.Review(d.ctx, ReviewInput{CopyText: "최고의 선택, 지금 30% 할인!", Platform: "kakao", FieldType: compliance.FieldTitle})
	if !got.Retry || got.Report.Compliant {
		t.Fatalf("expected retry: %+v", got)
	}
	got = svc.Review(d.ctx, ReviewInput{CopyText: "아침을 바꾸는 한 잔", Platform: "kakao", FieldType: compliance.FieldTitle})
	if got.Retry {
		t.Fatalf("compliant copy should not retry: %+v", got.Report)
	}
}
