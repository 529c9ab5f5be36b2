package domain

import "github.com/yungbote/adcopy-backend/internal/domain/reference"

type ReferenceExample = reference.ReferenceExample
type ReferenceUsageLog = reference.ReferenceUsageLog
type ReferenceStatus = reference.Status
type Intent = reference.Intent

const (
	ReferenceStatusActive   = reference.StatusActive
	ReferenceStatusInactive = reference.StatusInactive
)

// AllModels lists every table owned by this service, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&reference.ReferenceExample{},
		&reference.ReferenceUsageLog{},
	}
}

func ClampScore(v float64) float64 { return reference.ClampScore(v) }

func ClampQuality(v int) int { return reference.ClampQuality(v) }
