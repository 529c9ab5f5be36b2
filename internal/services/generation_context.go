package services

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/adcopy-backend/internal/compliance"
	types "github.com/yungbote/adcopy-backend/internal/domain"
	"github.com/yungbote/adcopy-backend/internal/modules/adcopy/prompts"
	"github.com/yungbote/adcopy-backend/internal/platform/logger"
	"github.com/yungbote/adcopy-backend/internal/platform/promptstyle"
)

const generationSystemPrompt = "You write advertising copy for the product described by the user. " +
	"Return only the requested fields."

type PrepareInput struct {
	Intent   types.Intent
	Limit    int
	Platform string
	AdType   string
}

// GenerationContext is everything the generation call needs besides the user brief.
type GenerationContext struct {
	Examples        []*types.ReferenceExample
	ExamplesBlock   string
	ComplianceBlock string
	SystemPrompt    string
	Degraded        bool
}

type ReviewInput struct {
	CopyText  string
	Platform  string
	AdType    string
	FieldType compliance.FieldType
}

type ReviewResult struct {
	Report compliance.Report
	// Retry asks the completion handler to regenerate the copy.
	Retry bool
}

type GenerationContextService interface {
	Prepare(ctx context.Context, in PrepareInput) GenerationContext
	Review(ctx context.Context, in ReviewInput) ReviewResult
}

type generationContextService struct {
	log          *logger.Logger
	selector     ExampleSelector
	validator    *compliance.Validator
	defaultLimit int
}

func NewGenerationContextService(log *logger.Logger, selector ExampleSelector, validator *compliance.Validator, defaultLimit int) GenerationContextService {
	if defaultLimit <= 0 {
		defaultLimit = 5
	}
	return &generationContextService{
		log:          log.With("service", "GenerationContextService"),
		selector:     selector,
		validator:    validator,
		defaultLimit: defaultLimit,
	}
}

func (s *generationContextService) Prepare(ctx context.Context, in PrepareInput) GenerationContext {
	ctx, span := tracer.Start(ctx, "GenerationContextService.Prepare")
	defer span.End()

	limit := in.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	platform := strings.TrimSpace(in.Platform)
	if platform == "" {
		platform = strings.TrimSpace(in.Intent.Platform)
	}

	sel := s.selector.Select(ctx, in.Intent, limit)
	out := GenerationContext{
		Examples:      sel.Examples,
		ExamplesBlock: prompts.BuildExamplesBlock(sel.Examples),
		Degraded:      sel.Degraded,
	}
	if platform != "" && s.validator != nil {
		out.ComplianceBlock = s.validator.Table().Guidance(platform, in.AdType)
	}
	out.SystemPrompt = promptstyle.ApplySystem(generationSystemPrompt, out.ComplianceBlock, out.ExamplesBlock)

	span.SetAttributes(
		attribute.Int("examples", len(out.Examples)),
		attribute.Bool("degraded", out.Degraded),
		attribute.String("platform", platform),
	)
	return out
}

func (s *generationContextService) Review(ctx context.Context, in ReviewInput) ReviewResult {
	_, span := tracer.Start(ctx, "GenerationContextService.Review")
	defer span.End()

	rep := s.validator.ValidateAdType(in.CopyText, in.Platform, in.AdType, in.FieldType)
	if !rep.Compliant {
		s.log.Debug("generated copy failed compliance",
			"platform", rep.Platform,
			"field_type", rep.FieldType,
			"violations", len(rep.Violations),
		)
	}
	span.SetAttributes(attribute.Bool("compliant", rep.Compliant), attribute.Int("warnings", len(rep.Warnings)))
	return ReviewResult{Report: rep, Retry: !rep.Compliant}
}
