package reference

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReferenceUsageLog links a generated copy to one example it was built from.
// Rating is filled in when feedback for the copy arrives.
type ReferenceUsageLog struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	CopyID             string    `gorm:"column:copy_id;type:text;not null;uniqueIndex:idx_reference_usage_copy_example,priority:1" json:"copy_id"`
	ReferenceExampleID uuid.UUID `gorm:"column:reference_example_id;type:uuid;not null;uniqueIndex:idx_reference_usage_copy_example,priority:2;index" json:"reference_example_id"`

	Rating  *int       `gorm:"column:rating" json:"rating,omitempty"`
	RatedAt *time.Time `gorm:"column:rated_at" json:"rated_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (ReferenceUsageLog) TableName() string { return "reference_usage_log" }

func (u *ReferenceUsageLog) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	return nil
}
