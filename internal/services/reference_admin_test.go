package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/adcopy-backend/internal/data/repos/testutil"
	types "github.com/yungbote/adcopy-backend/internal/domain"
)

func TestCreateManualReference(t *testing.T) {
	d := newTestDeps(t)
	svc := NewReferenceAdminService(testutil.Logger(t), d.repo.ReferenceExample)

	row, err := svc.CreateManual(d.ctx, ManualReferenceInput{
		CopyText:      "  하루 한 잔, 가벼운 아침  ",
		Headline:      testutil.StrPtr(" "),
		Category:      "food",
		Formula:       "PAS",
		Triggers:      []string{"benefit", "", "benefit", "scarcity"},
		QualityRating: 9,
	})
	if err != nil {
		t.Fatalf("CreateManual: %v", err)
	}
	got := d.reload(t, row)
	if !got.IsManual || !got.IsPinned || got.PerformanceScore != 0.7 {
		t.Fatalf("manual defaults not applied: %+v", got)
	}
	if got.QualityRating != 5 || got.CopyText != "하루 한 잔, 가벼운 아침" || got.Headline != nil {
		t.Fatalf("input not normalized: %+v", got)
	}
	if len(got.Triggers) != 2 {
		t.Fatalf("triggers not cleaned: %v", got.Triggers)
	}

	if _, err := svc.CreateManual(d.ctx, ManualReferenceInput{CopyText: "  "}); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("blank copy err=%v", err)
	}
}

func TestPinUnpinDeactivate(t *testing.T) {
	d := newTestDeps(t)
	svc := NewReferenceAdminService(testutil.Logger(t), d.repo.ReferenceExample)
	auto := d.seed(t)
	manual := d.seed(t, func(r *types.ReferenceExample) { r.IsManual = true })

	row, err := svc.Pin(d.ctx, auto.ID)
	if err != nil || !row.IsPinned {
		t.Fatalf("Pin: row=%+v err=%v", row, err)
	}
	row, err = svc.Unpin(d.ctx, auto.ID)
	if err != nil || row.IsPinned {
		t.Fatalf("Unpin: row=%+v err=%v", row, err)
	}

	if _, err := svc.Unpin(d.ctx, manual.ID); !errors.Is(err, ErrManualEntryLocked) {
		t.Fatalf("Unpin manual err=%v", err)
	}
	if got := d.reload(t, manual); !got.IsPinned || !got.IsManual {
		t.Fatalf("manual entry changed: %+v", got)
	}

	row, err = svc.Deactivate(d.ctx, manual.ID)
	if err != nil || row.Status != types.ReferenceStatusInactive {
		t.Fatalf("Deactivate: row=%+v err=%v", row, err)
	}
	if !row.IsManual {
		t.Fatalf("deactivation must not clear the manual flag")
	}
}

func TestReferenceAdminNotFound(t *testing.T) {
	d := newTestDeps(t)
	svc := NewReferenceAdminService(testutil.Logger(t), d.repo.ReferenceExample)
	missing := uuid.New()

	if _, err := svc.Get(d.ctx, missing); !errors.Is(err, ErrReferenceNotFound) {
		t.Fatalf("Get err=%v", err)
	}
	if _, err := svc.Pin(d.ctx, missing); !errors.Is(err, ErrReferenceNotFound) {
		t.Fatalf("Pin err=%v", err)
	}
	if _, err := svc.Unpin(d.ctx, missing); !errors.Is(err, ErrReferenceNotFound) {
		t.Fatalf("Unpin err=%v", err)
	}
	if _, err := svc.Deactivate(d.ctx, missing); !errors.Is(err, ErrReferenceNotFound) {
		t.Fatalf("Deactivate err=%v", err)
	}
}
