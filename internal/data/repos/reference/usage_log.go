package reference

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/adcopy-backend/internal/domain"
	"github.com/yungbote/adcopy-backend/internal/platform/dbctx"
	"github.com/yungbote/adcopy-backend/internal/platform/logger"
)

type ReferenceUsageLogRepo interface {
	// CreateIfAbsent appends the row unless (copy_id, reference_example_id) already exists.
	CreateIfAbsent(dbc dbctx.Context, row *types.ReferenceUsageLog) (bool, error)
	ListByCopyID(dbc dbctx.Context, copyID string) ([]*types.ReferenceUsageLog, error)
	ExampleIDsByCopyID(dbc dbctx.Context, copyID string) ([]uuid.UUID, error)
	SetRatingByCopyID(dbc dbctx.Context, copyID string, rating int, at time.Time) (int64, error)
}

type referenceUsageLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReferenceUsageLogRepo(db *gorm.DB, baseLog *logger.Logger) ReferenceUsageLogRepo {
	return &referenceUsageLogRepo{db: db, log: baseLog.With("repo", "ReferenceUsageLogRepo")}
}

func (r *referenceUsageLogRepo) CreateIfAbsent(dbc dbctx.Context, row *types.ReferenceUsageLog) (bool, error) {
	if row == nil || row.CopyID == "" || row.ReferenceExampleID == uuid.Nil {
		return false, nil
	}
	res := dbc.Conn(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "copy_id"}, {Name: "reference_example_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *referenceUsageLogRepo) ListByCopyID(dbc dbctx.Context, copyID string) ([]*types.ReferenceUsageLog, error) {
	var out []*types.ReferenceUsageLog
	if copyID == "" {
		return out, nil
	}
	if err := dbc.Conn(r.db).Where("copy_id = ?", copyID).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *referenceUsageLogRepo) ExampleIDsByCopyID(dbc dbctx.Context, copyID string) ([]uuid.UUID, error) {
	var out []uuid.UUID
	if copyID == "" {
		return out, nil
	}
	err := dbc.Conn(r.db).
		Model(&types.ReferenceUsageLog{}).
		Where("copy_id = ?", copyID).
		Distinct().
		Pluck("reference_example_id", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *referenceUsageLogRepo) SetRatingByCopyID(dbc dbctx.Context, copyID string, rating int, at time.Time) (int64, error) {
	if copyID == "" {
		return 0, nil
	}
	res := dbc.Conn(r.db).
		Model(&types.ReferenceUsageLog{}).
		Where("copy_id = ?", copyID).
		Updates(map[string]interface{}{
			"rating":   rating,
			"rated_at": at.UTC(),
		})
	return res.RowsAffected, res.Error
}
