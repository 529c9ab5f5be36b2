package services

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/adcopy-backend/internal/data/repos"
	types "github.com/yungbote/adcopy-backend/internal/domain"
	"github.com/yungbote/adcopy-backend/internal/platform/ctxutil"
	"github.com/yungbote/adcopy-backend/internal/platform/dbctx"
	"github.com/yungbote/adcopy-backend/internal/platform/logger"
)

// SelectionPolicy holds the ranking thresholds of the tiered selection.
type SelectionPolicy struct {
	MinScore         float64
	MinQuality       int
	MinSuccessRating int
	FormulaCap       int
	PoolFactor       int
	// Lookback bounds the usage rows considered for recent successes; 0 disables it.
	Lookback time.Duration
}

func DefaultSelectionPolicy() SelectionPolicy {
	return SelectionPolicy{
		MinScore:         0.6,
		MinQuality:       3,
		MinSuccessRating: 4,
		FormulaCap:       2,
		PoolFactor:       2,
		Lookback:         30 * 24 * time.Hour,
	}
}

func (p SelectionPolicy) normalized() SelectionPolicy {
	def := DefaultSelectionPolicy()
	if p.MinSuccessRating <= 0 {
		p.MinSuccessRating = def.MinSuccessRating
	}
	if p.FormulaCap <= 0 {
		p.FormulaCap = def.FormulaCap
	}
	if p.PoolFactor <= 0 {
		p.PoolFactor = def.PoolFactor
	}
	if p.Lookback < 0 {
		p.Lookback = 0
	}
	return p
}

// Selection is the result of one selection call. Degraded is set when a store read
// failed; Examples is then empty and Cause holds the failure.
type Selection struct {
	Examples []*types.ReferenceExample
	Degraded bool
	Cause    error
}

type ExampleSelector interface {
	Select(ctx context.Context, intent types.Intent, limit int) Selection
}

type exampleSelector struct {
	log      *logger.Logger
	examples repos.ReferenceExampleRepo
	policy   SelectionPolicy
	now      func() time.Time
}

func NewExampleSelector(log *logger.Logger, examples repos.ReferenceExampleRepo, policy SelectionPolicy) ExampleSelector {
	return &exampleSelector{
		log:      log.With("service", "ExampleSelector"),
		examples: examples,
		policy:   policy.normalized(),
		now:      time.Now,
	}
}

func (s *exampleSelector) Select(ctx context.Context, intent types.Intent, limit int) Selection {
	ctx, span := tracer.Start(ctx, "ExampleSelector.Select")
	defer span.End()
	span.SetAttributes(attribute.Int("limit", limit), attribute.String("category", intent.Category))

	if limit <= 0 {
		return Selection{Examples: []*types.ReferenceExample{}}
	}
	dbc := dbctx.Context{Ctx: ctx}

	pinned, err := s.examples.ListAlwaysIncluded(dbc, limit)
	if err != nil {
		return s.degrade(ctx, span, "pinned", err)
	}
	if len(pinned) >= limit {
		return Selection{Examples: pinned[:limit]}
	}
	remaining := limit - len(pinned)

	var top, recent []*types.ReferenceExample
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.topPerformers(dbctx.Context{Ctx: gctx}, intent, remaining*s.policy.PoolFactor)
		top = rows
		return err
	})
	g.Go(func() error {
		q := repos.RecentSuccessQuery{MinRating: s.policy.MinSuccessRating, Limit: remaining}
		if s.policy.Lookback > 0 {
			q.Since = s.now().Add(-s.policy.Lookback)
		}
		rows, err := s.examples.ListRecentSuccesses(dbctx.Context{Ctx: gctx}, q)
		recent = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return s.degrade(ctx, span, "ranked", err)
	}

	taken := make(map[string]struct{}, limit)
	for _, ex := range pinned {
		taken[ex.ID.String()] = struct{}{}
	}
	picks := pickDiverse(mergeCandidates(top, recent), taken, remaining, s.policy.FormulaCap)

	out := make([]*types.ReferenceExample, 0, limit)
	out = append(out, pinned...)
	out = append(out, picks...)
	if len(out) > limit {
		out = out[:limit]
	}
	span.SetAttributes(
		attribute.Int("pinned", len(pinned)),
		attribute.Int("top_candidates", len(top)),
		attribute.Int("recent_candidates", len(recent)),
		attribute.Int("selected", len(out)),
	)
	return Selection{Examples: out}
}

// topPerformers runs the term-filtered query and falls back to the unfiltered pool
// when no example matches the intent.
func (s *exampleSelector) topPerformers(dbc dbctx.Context, intent types.Intent, limit int) ([]*types.ReferenceExample, error) {
	q := repos.TopPerformerQuery{
		MinScore:   s.policy.MinScore,
		MinQuality: s.policy.MinQuality,
		Terms:      intent.MatchTerms(),
		Limit:      limit,
	}
	rows, err := s.examples.ListTopPerformers(dbc, q)
	if err != nil || len(rows) > 0 || len(q.Terms) == 0 {
		return rows, err
	}
	q.Terms = nil
	return s.examples.ListTopPerformers(dbc, q)
}

func (s *exampleSelector) degrade(ctx context.Context, span trace.Span, stage string, err error) Selection {
	recordSpanError(span, err)
	kv := append([]interface{}{"stage", stage, "error", err}, ctxutil.LogFields(ctx)...)
	s.log.Warn("example selection degraded to empty result", kv...)
	return Selection{Examples: []*types.ReferenceExample{}, Degraded: true, Cause: err}
}

// mergeCandidates concatenates the pools, keeping the first occurrence of each id.
func mergeCandidates(pools ...[]*types.ReferenceExample) []*types.ReferenceExample {
	seen := map[string]struct{}{}
	var out []*types.ReferenceExample
	for _, pool := range pools {
		for _, ex := range pool {
			if ex == nil {
				continue
			}
			id := ex.ID.String()
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, ex)
		}
	}
	return out
}

// pickDiverse admits candidates in order while no formula exceeds formulaCap, then backfills
// from the same list ignoring formulaCap. Ids in taken are skipped and taken is updated.
func pickDiverse(candidates []*types.ReferenceExample, taken map[string]struct{}, want, formulaCap int) []*types.ReferenceExample {
	out := make([]*types.ReferenceExample, 0, want)
	if want <= 0 {
		return out
	}
	perFormula := map[string]int{}
	for _, ex := range candidates {
		if len(out) >= want {
			return out
		}
		id := ex.ID.String()
		if _, ok := taken[id]; ok {
			continue
		}
		f := formulaKey(ex.Formula)
		if perFormula[f] >= formulaCap {
			continue
		}
		perFormula[f]++
		taken[id] = struct{}{}
		out = append(out, ex)
	}
	for _, ex := range candidates {
		if len(out) >= want {
			break
		}
		id := ex.ID.String()
		if _, ok := taken[id]; ok {
			continue
		}
		taken[id] = struct{}{}
		out = append(out, ex)
	}
	return out
}

func formulaKey(f string) string {
	return strings.ToUpper(strings.TrimSpace(f))
}
