package mission

import (
	"time"

	"github.com/devdibi/dondoc/infra/repository/member"
	"github.com/google/uuid"
)

// Mission represents a mission record in the database. Rows cascade-delete
// with the target member.
type Mission struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey"`
	MoimID     uuid.UUID     `gorm:"type:uuid;not null;index"`
	MemberID   uuid.UUID     `gorm:"type:uuid;not null;index"`
	Member     member.Member `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE"`
	Title      string        `gorm:"type:varchar(100)"`
	Content    string
	Amount     int64  `gorm:"not null"`
	Status     string `gorm:"type:varchar(16);not null;index"`
	CreatedAt  time.Time
	ResolvedAt *time.Time
	ResolvedBy *uuid.UUID `gorm:"type:uuid"`
}

// TableName specifies the table name for the Mission model.
func (Mission) TableName() string {
	return "missions"
}
