package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/adcopy-backend/internal/data/repos"
	types "github.com/yungbote/adcopy-backend/internal/domain"
	"github.com/yungbote/adcopy-backend/internal/domain/reference"
	"github.com/yungbote/adcopy-backend/internal/platform/dbctx"
	"github.com/yungbote/adcopy-backend/internal/platform/logger"
)

var (
	ErrReferenceNotFound = errors.New("reference example not found")
	ErrManualEntryLocked = errors.New("manual reference entries are always pinned")
	ErrInvalidReference  = errors.New("invalid reference example")
)

type ManualReferenceInput struct {
	CopyText      string
	Headline      *string
	Description   *string
	Category      string
	Brand         *string
	Industry      *string
	Formula       string
	Triggers      []string
	QualityRating int
}

type ReferenceAdminService interface {
	Get(ctx context.Context, id uuid.UUID) (*types.ReferenceExample, error)
	Pin(ctx context.Context, id uuid.UUID) (*types.ReferenceExample, error)
	Unpin(ctx context.Context, id uuid.UUID) (*types.ReferenceExample, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*types.ReferenceExample, error)
	CreateManual(ctx context.Context, in ManualReferenceInput) (*types.ReferenceExample, error)
}

type referenceAdminService struct {
	log      *logger.Logger
	examples repos.ReferenceExampleRepo
}

func NewReferenceAdminService(log *logger.Logger, examples repos.ReferenceExampleRepo) ReferenceAdminService {
	return &referenceAdminService{
		log:      log.With("service", "ReferenceAdminService"),
		examples: examples,
	}
}

func (s *referenceAdminService) Get(ctx context.Context, id uuid.UUID) (*types.ReferenceExample, error) {
	row, err := s.examples.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrReferenceNotFound
	}
	return row, nil
}

func (s *referenceAdminService) Pin(ctx context.Context, id uuid.UUID) (*types.ReferenceExample, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.examples.SetPinned(dbctx.Context{Ctx: ctx}, id, true); err != nil {
		return nil, err
	}
	s.log.Info("reference pinned", "reference_id", id)
	return s.Get(ctx, id)
}

func (s *referenceAdminService) Unpin(ctx context.Context, id uuid.UUID) (*types.ReferenceExample, error) {
	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.IsManual {
		return nil, ErrManualEntryLocked
	}
	if _, err := s.examples.SetPinned(dbctx.Context{Ctx: ctx}, id, false); err != nil {
		return nil, err
	}
	s.log.Info("reference unpinned", "reference_id", id)
	return s.Get(ctx, id)
}

func (s *referenceAdminService) Deactivate(ctx context.Context, id uuid.UUID) (*types.ReferenceExample, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.examples.SetStatus(dbctx.Context{Ctx: ctx}, id, types.ReferenceStatusInactive); err != nil {
		return nil, err
	}
	s.log.Info("reference deactivated", "reference_id", id)
	return s.Get(ctx, id)
}

func (s *referenceAdminService) CreateManual(ctx context.Context, in ManualReferenceInput) (*types.ReferenceExample, error) {
	copyText := strings.TrimSpace(in.CopyText)
	if copyText == "" {
		return nil, ErrInvalidReference
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = "general"
	}
	row := &types.ReferenceExample{
		CopyText:         copyText,
		Headline:         trimmedPtr(in.Headline),
		Description:      trimmedPtr(in.Description),
		Category:         category,
		Brand:            trimmedPtr(in.Brand),
		Industry:         trimmedPtr(in.Industry),
		Formula:          strings.TrimSpace(in.Formula),
		Triggers:         cleanTriggers(in.Triggers),
		PerformanceScore: reference.ManualScore,
		QualityRating:    types.ClampQuality(in.QualityRating),
		IsManual:         true,
		IsPinned:         true,
		Status:           types.ReferenceStatusActive,
	}
	created, err := s.examples.Create(dbctx.Context{Ctx: ctx}, []*types.ReferenceExample{row})
	if err != nil {
		return nil, err
	}
	s.log.Info("manual reference created", "reference_id", row.ID, "category", category)
	return created[0], nil
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func cleanTriggers(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, t := range in {
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
	return out
}
