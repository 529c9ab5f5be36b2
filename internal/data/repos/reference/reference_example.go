package reference

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/adcopy-backend/internal/domain"
	"github.com/yungbote/adcopy-backend/internal/platform/dbctx"
	"github.com/yungbote/adcopy-backend/internal/platform/logger"
)

// TopPerformerQuery filters the non-pinned, non-manual pool by score, quality and
// an optional set of lower-cased match terms.
type TopPerformerQuery struct {
	MinScore   float64
	MinQuality int
	Terms      []string
	Limit      int
}

// RecentSuccessQuery selects examples with at least one linked rating >= MinRating.
// A zero Since disables the lookback window.
type RecentSuccessQuery struct {
	MinRating int
	Since     time.Time
	Limit     int
}

type ReferenceExampleRepo interface {
	Create(dbc dbctx.Context, rows []*types.ReferenceExample) ([]*types.ReferenceExample, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ReferenceExample, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.ReferenceExample, error)

	ListAlwaysIncluded(dbc dbctx.Context, limit int) ([]*types.ReferenceExample, error)
	ListTopPerformers(dbc dbctx.Context, q TopPerformerQuery) ([]*types.ReferenceExample, error)
	ListRecentSuccesses(dbc dbctx.Context, q RecentSuccessQuery) ([]*types.ReferenceExample, error)

	IncrementUsage(dbc dbctx.Context, ids []uuid.UUID) error
	IncrementSuccess(dbc dbctx.Context, ids []uuid.UUID) error
	AdjustScore(dbc dbctx.Context, ids []uuid.UUID, delta float64) error
	SetScore(dbc dbctx.Context, ids []uuid.UUID, score float64) error

	SetPinned(dbc dbctx.Context, id uuid.UUID, pinned bool) (bool, error)
	SetStatus(dbc dbctx.Context, id uuid.UUID, status types.ReferenceStatus) (bool, error)
}

type referenceExampleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReferenceExampleRepo(db *gorm.DB, baseLog *logger.Logger) ReferenceExampleRepo {
	return &referenceExampleRepo{db: db, log: baseLog.With("repo", "ReferenceExampleRepo")}
}

// columns searched by the loose intent match
var matchColumns = []string{"category", "industry", "brand", "headline", "copy_text"}

func (r *referenceExampleRepo) Create(dbc dbctx.Context, rows []*types.ReferenceExample) ([]*types.ReferenceExample, error) {
	if len(rows) == 0 {
		return []*types.ReferenceExample{}, nil
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *referenceExampleRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ReferenceExample, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.ReferenceExample
	err := dbc.Conn(r.db).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *referenceExampleRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.ReferenceExample, error) {
	var out []*types.ReferenceExample
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *referenceExampleRepo) ListAlwaysIncluded(dbc dbctx.Context, limit int) ([]*types.ReferenceExample, error) {
	var out []*types.ReferenceExample
	if limit <= 0 {
		return out, nil
	}
	err := dbc.Conn(r.db).
		Where("status = ?", types.ReferenceStatusActive).
		Where("(is_manual = ? OR is_pinned = ?)", true, true).
		Order("is_manual DESC").
		Order("performance_score DESC").
		Order("quality_rating DESC").
		Order("created_at ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *referenceExampleRepo) ListTopPerformers(dbc dbctx.Context, q TopPerformerQuery) ([]*types.ReferenceExample, error) {
	var out []*types.ReferenceExample
	if q.Limit <= 0 {
		return out, nil
	}
	tx := dbc.Conn(r.db).
		Where("status = ? AND is_manual = ? AND is_pinned = ?", types.ReferenceStatusActive, false, false).
		Where("performance_score >= ? AND quality_rating >= ?", q.MinScore, q.MinQuality)
	if cond, args := termCondition(q.Terms); cond != "" {
		tx = tx.Where(cond, args...)
	}
	err := tx.
		Order("performance_score DESC").
		Order("quality_rating DESC").
		Order("usage_count DESC").
		Order("created_at ASC").
		Limit(q.Limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *referenceExampleRepo) ListRecentSuccesses(dbc dbctx.Context, q RecentSuccessQuery) ([]*types.ReferenceExample, error) {
	var out []*types.ReferenceExample
	if q.Limit <= 0 {
		return out, nil
	}
	tx := dbc.Conn(r.db).
		Model(&types.ReferenceExample{}).
		Select("reference_example.*").
		Joins("JOIN reference_usage_log ON reference_usage_log.reference_example_id = reference_example.id").
		Where("reference_example.status = ?", types.ReferenceStatusActive).
		Where("reference_example.is_manual = ? AND reference_example.is_pinned = ?", false, false).
		Where("reference_usage_log.rating IS NOT NULL")
	if !q.Since.IsZero() {
		tx = tx.Where("reference_usage_log.created_at >= ?", q.Since.UTC())
	}
	err := tx.
		Group("reference_example.id").
		Having("MAX(reference_usage_log.rating) >= ?", q.MinRating).
		Order("AVG(reference_usage_log.rating) DESC").
		Order("reference_example.performance_score DESC").
		Limit(q.Limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *referenceExampleRepo) IncrementUsage(dbc dbctx.Context, ids []uuid.UUID) error {
	return r.increment(dbc, ids, "usage_count")
}

func (r *referenceExampleRepo) IncrementSuccess(dbc dbctx.Context, ids []uuid.UUID) error {
	return r.increment(dbc, ids, "success_count")
}

func (r *referenceExampleRepo) increment(dbc dbctx.Context, ids []uuid.UUID, column string) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.Conn(r.db).
		Model(&types.ReferenceExample{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			column:       gorm.Expr(column + " + 1"),
			"updated_at": time.Now().UTC(),
		}).Error
}

// AdjustScore nudges performance_score by delta inside the store, clamped to [0,1].
func (r *referenceExampleRepo) AdjustScore(dbc dbctx.Context, ids []uuid.UUID, delta float64) error {
	if len(ids) == 0 || delta == 0 {
		return nil
	}
	expr := gorm.Expr(
		"CASE WHEN performance_score + ? > 1.0 THEN 1.0 WHEN performance_score + ? < 0.0 THEN 0.0 ELSE performance_score + ? END",
		delta, delta, delta,
	)
	return dbc.Conn(r.db).
		Model(&types.ReferenceExample{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"performance_score": expr,
			"updated_at":        time.Now().UTC(),
		}).Error
}

func (r *referenceExampleRepo) SetScore(dbc dbctx.Context, ids []uuid.UUID, score float64) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.Conn(r.db).
		Model(&types.ReferenceExample{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"performance_score": types.ClampScore(score),
			"updated_at":        time.Now().UTC(),
		}).Error
}

// SetPinned never clears the pin of a manual entry; the bool reports whether a row changed.
func (r *referenceExampleRepo) SetPinned(dbc dbctx.Context, id uuid.UUID, pinned bool) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	tx := dbc.Conn(r.db).Model(&types.ReferenceExample{}).Where("id = ?", id)
	if !pinned {
		tx = tx.Where("is_manual = ?", false)
	}
	res := tx.Updates(map[string]interface{}{
		"is_pinned":  pinned,
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *referenceExampleRepo) SetStatus(dbc dbctx.Context, id uuid.UUID, status types.ReferenceStatus) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	res := dbc.Conn(r.db).
		Model(&types.ReferenceExample{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func termCondition(terms []string) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		pattern := "%" + escapeLike(term) + "%"
		for _, col := range matchColumns {
			clauses = append(clauses, "LOWER(COALESCE("+col+", '')) LIKE ? ESCAPE '\\'")
			args = append(args, pattern)
		}
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return "(" + strings.Join(clauses, " OR ") + ")", args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
