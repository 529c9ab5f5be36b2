package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/adcopy-backend/internal/data/repos/reference"
	"github.com/yungbote/adcopy-backend/internal/platform/logger"
)

type ReferenceExampleRepo = reference.ReferenceExampleRepo
type ReferenceUsageLogRepo = reference.ReferenceUsageLogRepo

type TopPerformerQuery = reference.TopPerformerQuery
type RecentSuccessQuery = reference.RecentSuccessQuery

type Set struct {
	ReferenceExample  ReferenceExampleRepo
	ReferenceUsageLog ReferenceUsageLogRepo
}

func NewSet(db *gorm.DB, log *logger.Logger) Set {
	return Set{
		ReferenceExample:  reference.NewReferenceExampleRepo(db, log),
		ReferenceUsageLog: reference.NewReferenceUsageLogRepo(db, log),
	}
}
